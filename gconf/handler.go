package gconf

import (
	"reflect"

	"github.com/crypto-guardian/custody"
	"github.com/crypto-guardian/custody/errors"
	"github.com/crypto-guardian/custody/x"
)

// OwnedConfig is a configuration with an owner. A configuration update
// message must be signed by the owner in order to be authorized.
type OwnedConfig interface {
	Configuration
	GetOwner() custody.Address
}

// UpdateConfigurationHandler processes messages that patch an owned
// configuration. The message must have a "Patch" field of the same type as
// the configuration.
type UpdateConfigurationHandler struct {
	pkg    string
	config func() OwnedConfig
	auth   x.Authenticator
}

var _ custody.Handler = UpdateConfigurationHandler{}

// NewUpdateConfigurationHandler returns a message handler that process
// configuration patch messages for given package. build must return a new
// instance of the configuration.
func NewUpdateConfigurationHandler(pkg string, build func() OwnedConfig, auth x.Authenticator) UpdateConfigurationHandler {
	return UpdateConfigurationHandler{
		pkg:    pkg,
		config: build,
		auth:   auth,
	}
}

func (h UpdateConfigurationHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if err := h.applyTx(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

func (h UpdateConfigurationHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	if err := h.applyTx(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.DeliverResult{Log: h.pkg + " configuration updated"}, nil
}

func (h UpdateConfigurationHandler) applyTx(ctx custody.Context, db custody.KVStore, tx custody.Tx) error {
	config := h.config()
	if err := Load(db, h.pkg, config); err != nil {
		return errors.Wrap(err, "load current configuration")
	}
	owner := config.GetOwner()
	if len(owner) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "configuration has no owner")
	}
	if !h.auth.HasAddress(ctx, owner) {
		return errors.Wrap(errors.ErrUnauthorized, "owner did not sign transaction")
	}

	payload, err := patchPayload(tx)
	if err != nil {
		return errors.Wrap(err, "cannot get message payload")
	}
	if err := patch(config, payload); err != nil {
		return errors.Wrap(err, "cannot patch config with message payload")
	}
	if err := Save(db, h.pkg, config); err != nil {
		return errors.Wrap(err, "cannot save updated config")
	}
	return nil
}

// patch copies all non zero fields of the payload into the configuration.
func patch(config OwnedConfig, payload OwnedConfig) error {
	if reflect.TypeOf(payload) != reflect.TypeOf(config) {
		return errors.Wrap(errors.ErrMsg, "config in message doesn't match store")
	}

	cval := reflect.ValueOf(config).Elem()
	pval := reflect.ValueOf(payload).Elem()
	for i := 0; i < cval.NumField(); i++ {
		got := pval.Field(i)
		if isZero(got) {
			continue
		}
		cval.Field(i).Set(got)
	}
	return nil
}

func isZero(val reflect.Value) bool {
	zero := reflect.Zero(val.Type()).Interface()
	return reflect.DeepEqual(val.Interface(), zero)
}

// patchPayload expects the transaction to have a message with "Patch" field
// of the same type as the configuration.
func patchPayload(tx custody.Tx) (OwnedConfig, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, errors.Wrap(errors.ErrState, "nil message")
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	pval := reflect.ValueOf(msg)
	if pval.Kind() != reflect.Ptr || pval.Elem().Kind() != reflect.Struct {
		return nil, errors.Wrapf(errors.ErrInput, "invalid message container value: %T", msg)
	}
	field := pval.Elem().FieldByName("Patch")
	if !field.IsValid() || field.Kind() != reflect.Ptr || field.IsNil() {
		return nil, errors.Wrap(errors.ErrState, `"Patch" field is required`)
	}
	payload, ok := field.Interface().(OwnedConfig)
	if !ok {
		return nil, errors.Wrap(errors.ErrInput, `"Patch" field is of a wrong type`)
	}
	return payload, nil
}
