package sigs

import (
	"github.com/crypto-guardian/custody/crypto"
	"github.com/crypto-guardian/custody/errors"
)

// SignedTx represents a transaction that contains signatures, which can be
// verified by the Decorator.
type SignedTx interface {
	// GetSignBytes returns the canonical byte representation of the
	// transaction without the signatures.
	GetSignBytes() ([]byte, error)

	// GetSignatures returns the signature of signers who signed the
	// transaction.
	GetSignatures() []*StdSignature
}

// StdSignature is a signature of a transaction together with the public key
// and the nonce it was created with.
type StdSignature struct {
	Pubkey    *crypto.PublicKey
	Signature *crypto.Signature
	Sequence  int64
}

// Validate ensures the StdSignature meets basic standards.
func (s *StdSignature) Validate() error {
	if s.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if s.Pubkey == nil {
		return errors.Wrap(errors.ErrUnauthorized, "missing public key")
	}
	if s.Signature == nil {
		return errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return nil
}
