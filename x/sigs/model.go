package sigs

import (
	"github.com/crypto-guardian/custody"
	"github.com/crypto-guardian/custody/crypto"
	"github.com/crypto-guardian/custody/errors"
	"github.com/crypto-guardian/custody/orm"
)

// BucketName is where we store the accounts.
const BucketName = "sigs"

// maxSequenceValue is the greatest nonce a javascript client can represent
// exactly, Number.MAX_SAFE_INTEGER.
const maxSequenceValue = (1 << 53) - 1

// UserData is the state kept for every public key that signed a
// transaction.
type UserData struct {
	Pubkey   *crypto.PublicKey
	Sequence int64
}

var _ orm.Model = (*UserData)(nil)

func (u *UserData) Validate() error {
	var errs error
	if seq := u.Sequence; seq < 0 {
		errs = errors.AppendField(errs, "Sequence", ErrInvalidSequence)
	}
	if u.Pubkey == nil {
		errs = errors.AppendField(errs, "Pubkey", errors.ErrEmpty)
	} else {
		errs = errors.AppendField(errs, "Pubkey", u.Pubkey.Validate())
	}
	return errs
}

// CheckAndIncrementSequence increments the sequence if it equals expected.
// Otherwise an error is returned.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", expected, u.Sequence)
	}
	next := u.Sequence + 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

// Bucket stores UserData under the signer address.
type Bucket struct {
	orm.Bucket
}

// NewBucket creates the proper bucket for this extension.
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(BucketName, func() orm.Model { return &UserData{} }),
	}
}

// GetOrCreate loads the user of given public key, or returns a new one with
// zero sequence if none exists yet.
func (b Bucket) GetOrCreate(db custody.ReadOnlyKVStore, pubkey *crypto.PublicKey) (*UserData, error) {
	var u UserData
	switch err := b.One(db, pubkey.Address(), &u); {
	case err == nil:
		return &u, nil
	case errors.ErrNotFound.Is(err):
		return &UserData{Pubkey: pubkey}, nil
	default:
		return nil, err
	}
}

// Save stores the user under its public key address.
func (b Bucket) Save(db custody.KVStore, u *UserData) error {
	if u.Pubkey == nil {
		return errors.Field("Pubkey", errors.ErrEmpty, "required")
	}
	_, err := b.Put(db, u.Pubkey.Address(), u)
	return err
}

// RegisterQuery will register this bucket as "/auth".
func RegisterQuery(qr custody.QueryRouter) {
	NewBucket().Register("auth", qr)
}
