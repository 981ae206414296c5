package guardian

import (
	"sync"

	"github.com/crypto-guardian/custody"
	"github.com/crypto-guardian/custody/coin"
	"github.com/crypto-guardian/custody/errors"
)

// DefaultNativeTicker is the asset distributed when a guardian registers no
// assets and no other native ticker is configured.
const DefaultNativeTicker = "ETH"

// State of a guardian.
type State int

const (
	// StateActive means the owner is considered alive.
	StateActive State = iota
	// StateClaimable means the inactivity window passed and any beneficiary
	// can claim.
	StateClaimable
	// StateDistributed is terminal.
	StateDistributed
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateClaimable:
		return "claimable"
	case StateDistributed:
		return "distributed"
	default:
		return "unknown"
	}
}

// BalanceOracle provides the custodied balance of an asset.
type BalanceOracle interface {
	BalanceOf(ticker string) (coin.Amount, error)
}

// BalanceFunc is a function implementing BalanceOracle.
type BalanceFunc func(ticker string) (coin.Amount, error)

// BalanceOf implements BalanceOracle.
func (fn BalanceFunc) BalanceOf(ticker string) (coin.Amount, error) {
	return fn(ticker)
}

// Controller serializes all operations on a single guardian. A Controller
// is safe for concurrent use.
type Controller struct {
	mu          sync.Mutex
	registry    *Registry
	tracker     *ActivityTracker
	distributed bool
	native      string
}

// Option configures a Controller.
type Option func(*Controller)

// WithNativeTicker sets the asset distributed when the registry lists no
// assets.
func WithNativeTicker(ticker string) Option {
	return func(c *Controller) {
		c.native = ticker
	}
}

// NewController validates the configuration and returns a controller in
// the active state, with the owner last active at now.
func NewController(
	owner custody.Address,
	beneficiaries []Beneficiary,
	assets []string,
	window custody.UnixDuration,
	now custody.UnixTime,
	opts ...Option,
) (*Controller, error) {
	registry, err := NewRegistry(beneficiaries, assets)
	if err != nil {
		return nil, err
	}
	tracker, err := NewActivityTracker(owner, window, now)
	if err != nil {
		return nil, err
	}
	c := &Controller{
		registry: registry,
		tracker:  tracker,
		native:   DefaultNativeTicker,
	}
	for _, fn := range opts {
		fn(c)
	}
	return c, nil
}

// Heartbeat records the owner activity.
func (c *Controller) Heartbeat(caller custody.Address, now custody.UnixTime) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.tracker.Owner().Equals(caller) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s is not the owner", caller)
	}
	if c.distributed {
		return ErrAlreadyDistributed
	}
	return c.tracker.Heartbeat(caller, now)
}

// CanClaim returns the reason why the caller cannot claim at now, or nil.
// Authorization is checked first, then the distribution state and last the
// owner inactivity.
func (c *Controller) CanClaim(caller custody.Address, now custody.UnixTime) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canClaim(caller, now)
}

func (c *Controller) canClaim(caller custody.Address, now custody.UnixTime) error {
	if _, ok := c.registry.BeneficiaryShare(caller); !ok {
		return errors.Wrapf(errors.ErrUnauthorized, "%s is not a beneficiary", caller)
	}
	if c.distributed {
		return ErrAlreadyDistributed
	}
	if !c.tracker.IsInactive(now) {
		return errors.Wrapf(ErrNotYetInactive, "inactive at %s", c.tracker.InactiveAt())
	}
	return nil
}

// Claim distributes all custodied assets between beneficiaries. It succeeds
// at most once.
//
// When reading a balance fails nothing is transferred and the controller
// state is unchanged. Once the transfers start the guardian is distributed,
// even if some of them fail. Failed transfers are listed in the receipt and
// the returned error wraps ErrTransferFailed.
func (c *Controller) Claim(caller custody.Address, now custody.UnixTime, balances BalanceOracle, transfer TransferFunc) (*Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.canClaim(caller, now); err != nil {
		return nil, err
	}

	amounts := make(map[string]coin.Amount)
	for _, ticker := range c.registry.TrackedAssets(c.native) {
		amount, err := balances.BalanceOf(ticker)
		if err != nil {
			return nil, errors.Wrapf(err, "balance of %s", ticker)
		}
		amounts[ticker] = amount
	}

	c.distributed = true
	receipt, err := Execute(c.registry, amounts, transfer)
	receipt.Claimant = caller
	receipt.ClaimedAt = now
	return receipt, err
}

// Status returns the guardian state at now.
func (c *Controller) Status(now custody.UnixTime) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.distributed:
		return StateDistributed
	case c.tracker.IsInactive(now):
		return StateClaimable
	default:
		return StateActive
	}
}

// Registry returns the immutable guardian configuration.
func (c *Controller) Registry() *Registry {
	return c.registry
}

// LastActiveAt returns the time of the last owner heartbeat.
func (c *Controller) LastActiveAt() custody.UnixTime {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tracker.LastActiveAt()
}

// Owner returns the guardian owner.
func (c *Controller) Owner() custody.Address {
	return c.tracker.Owner()
}

// Window returns the inactivity window.
func (c *Controller) Window() custody.UnixDuration {
	return c.tracker.Window()
}

// Distributed returns true once a claim was made.
func (c *Controller) Distributed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.distributed
}
