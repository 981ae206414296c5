package sigs

import (
	"github.com/crypto-guardian/custody/errors"
)

// ErrInvalidSequence is returned when a signature nonce does not match the
// signer sequence.
var ErrInvalidSequence = errors.Register(120, "invalid sequence number")
