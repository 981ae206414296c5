package guardian

import (
	"github.com/crypto-guardian/custody/errors"
)

var (
	// ErrInvalidShares is returned when the beneficiary set is empty, holds
	// a duplicate or a zero share, or the shares do not sum to 10000.
	ErrInvalidShares = errors.Register(1000, "invalid shares")

	// ErrInvalidAssets is returned when the asset list holds a duplicate
	// or a malformed ticker.
	ErrInvalidAssets = errors.Register(1001, "invalid assets")

	// ErrInvalidWindow is returned when the inactivity window is not
	// strictly positive.
	ErrInvalidWindow = errors.Register(1002, "invalid inactivity window")

	// ErrNotYetInactive is returned when a claim is made before the
	// inactivity window elapsed.
	ErrNotYetInactive = errors.Register(1003, "owner not yet inactive")

	// ErrAlreadyDistributed is returned by any operation on a guardian
	// that was already distributed.
	ErrAlreadyDistributed = errors.Register(1004, "already distributed")

	// ErrTransferFailed is returned when a single transfer of a
	// distribution failed.
	ErrTransferFailed = errors.Register(1005, "transfer failed")
)
