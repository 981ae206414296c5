package utils

import (
	"github.com/crypto-guardian/custody"
	"github.com/tendermint/tendermint/libs/common"
)

// ActionKey is used by ActionTagger as the Key in the Tag it appends.
const ActionKey = "action"

// ActionTagger will inspect the message being executed and add a tag
// `action = msg.Path()`, so clients have a standard way to search or
// subscribe to transactions of a kind, for example all claims.
type ActionTagger struct{}

var _ custody.Decorator = ActionTagger{}

// NewActionTagger creates a ActionTagger decorator.
func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

// Check just passes the request along.
func (ActionTagger) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx, next custody.Checker) (*custody.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

// Deliver appends a tag on the result if there is a success.
func (ActionTagger) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx, next custody.Deliverer) (*custody.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.Tags = append(res.Tags, common.KVPair{
		Key:   []byte(ActionKey),
		Value: []byte(msg.Path()),
	})
	return res, nil
}
