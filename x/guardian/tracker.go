package guardian

import (
	"github.com/crypto-guardian/custody"
	"github.com/crypto-guardian/custody/errors"
)

// ActivityTracker keeps the time of the last owner activity.
type ActivityTracker struct {
	owner        custody.Address
	window       custody.UnixDuration
	lastActiveAt custody.UnixTime
}

// NewActivityTracker returns a tracker of given owner, considered active at
// now.
func NewActivityTracker(owner custody.Address, window custody.UnixDuration, now custody.UnixTime) (*ActivityTracker, error) {
	if window <= 0 {
		return nil, errors.Wrapf(ErrInvalidWindow, "window %s", window)
	}
	if err := owner.Validate(); err != nil {
		return nil, errors.Wrap(err, "owner")
	}
	return &ActivityTracker{
		owner:        owner,
		window:       window,
		lastActiveAt: now,
	}, nil
}

// Heartbeat marks the owner as active at now. Only the owner can send a
// heartbeat. The last activity time never moves backwards.
func (t *ActivityTracker) Heartbeat(caller custody.Address, now custody.UnixTime) error {
	if !t.owner.Equals(caller) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s is not the owner", caller)
	}
	if now > t.lastActiveAt {
		t.lastActiveAt = now
	}
	return nil
}

// IsInactive returns true if at least the window passed since the last
// activity.
func (t *ActivityTracker) IsInactive(now custody.UnixTime) bool {
	return now.Sub(t.lastActiveAt) >= t.window
}

// Owner returns the only address allowed to send heartbeats.
func (t *ActivityTracker) Owner() custody.Address {
	return t.owner
}

// Window returns the maximum allowed inactivity period.
func (t *ActivityTracker) Window() custody.UnixDuration {
	return t.window
}

// LastActiveAt returns the time of the last heartbeat.
func (t *ActivityTracker) LastActiveAt() custody.UnixTime {
	return t.lastActiveAt
}

// InactiveAt returns the first moment the owner is considered inactive.
func (t *ActivityTracker) InactiveAt() custody.UnixTime {
	return t.lastActiveAt.Add(t.window)
}
