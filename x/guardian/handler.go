package guardian

import (
	"fmt"

	"github.com/crypto-guardian/custody"
	"github.com/crypto-guardian/custody/coin"
	"github.com/crypto-guardian/custody/errors"
	"github.com/crypto-guardian/custody/gconf"
	"github.com/crypto-guardian/custody/x"
	"github.com/crypto-guardian/custody/x/cash"
	"github.com/tendermint/tendermint/libs/common"
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r custody.Registry, auth x.Authenticator, ctrl cash.Controller) {
	guardians := NewGuardianBucket()
	r.Handle(CreateMsg{}.Path(), &CreateHandler{auth: auth, bucket: guardians})
	r.Handle(HeartbeatMsg{}.Path(), &HeartbeatHandler{auth: auth, bucket: guardians})
	r.Handle(ClaimMsg{}.Path(), &ClaimHandler{auth: auth, bucket: guardians, receipts: NewReceiptBucket(), cash: ctrl})
	r.Handle(WithdrawMsg{}.Path(), &WithdrawHandler{auth: auth, bucket: guardians, cash: ctrl})
	r.Handle(UpdateConfigurationMsg{}.Path(), gconf.NewUpdateConfigurationHandler(
		packageName, func() gconf.OwnedConfig { return &Configuration{} }, auth))
}

// RegisterQuery registers the guardians bucket as "/guardians" and the
// receipts bucket as "/receipts".
func RegisterQuery(qr custody.QueryRouter) {
	NewGuardianBucket().Register("guardians", qr)
	NewReceiptBucket().Register("receipts", qr)
}

// CreateHandler registers a new guardian.
type CreateHandler struct {
	auth   x.Authenticator
	bucket GuardianBucket
}

var _ custody.Handler = (*CreateHandler)(nil)

func (h *CreateHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

func (h *CreateHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	now, err := custody.BlockUnixTime(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "block time")
	}
	g := &Guardian{
		Owner:         msg.Owner,
		Beneficiaries: msg.Beneficiaries,
		Assets:        msg.Assets,
		Window:        msg.Window,
		LastActiveAt:  now,
	}
	id, err := h.bucket.Create(db, g)
	if err != nil {
		return nil, errors.Wrap(err, "cannot store guardian")
	}
	guardiansCreated.Inc()
	return &custody.DeliverResult{
		Data: id,
		Log:  fmt.Sprintf("guardian custody address %s", CustodyAddress(id)),
		Tags: []common.KVPair{
			{Key: []byte("guardian.id"), Value: []byte(fmt.Sprintf("%X", id))},
			{Key: []byte("guardian.owner"), Value: []byte(msg.Owner.String())},
		},
	}, nil
}

func (h *CreateHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*CreateMsg, error) {
	var msg CreateMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Owner) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "owner signature missing")
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, errors.Wrap(err, "configuration")
	}
	if limit := int(conf.MaxBeneficiaries); limit > 0 && len(msg.Beneficiaries) > limit {
		return nil, errors.Wrapf(ErrInvalidShares, "at most %d beneficiaries allowed", limit)
	}
	return &msg, nil
}

// HeartbeatHandler refreshes the owner activity.
type HeartbeatHandler struct {
	auth   x.Authenticator
	bucket GuardianBucket
}

var _ custody.Handler = (*HeartbeatHandler)(nil)

func (h *HeartbeatHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.heartbeat(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

func (h *HeartbeatHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	id, g, err := h.heartbeat(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.bucket.Save(db, id, g); err != nil {
		return nil, errors.Wrap(err, "cannot store guardian")
	}
	heartbeatsTotal.Inc()
	return &custody.DeliverResult{}, nil
}

func (h *HeartbeatHandler) heartbeat(ctx custody.Context, db custody.KVStore, tx custody.Tx) ([]byte, *Guardian, error) {
	var msg HeartbeatMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	g, err := h.bucket.Get(db, msg.GuardianID)
	if err != nil {
		return nil, nil, err
	}
	now, err := custody.BlockUnixTime(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "block time")
	}
	ctrl, err := g.Controller(DefaultNativeTicker)
	if err != nil {
		return nil, nil, errors.Wrap(err, "stored guardian")
	}
	caller := x.AnySigner(ctx, h.auth, []custody.Address{g.Owner})
	if err := ctrl.Heartbeat(caller, now); err != nil {
		return nil, nil, err
	}
	g.Update(ctrl)
	return msg.GuardianID, g, nil
}

// ClaimHandler distributes the custodied funds of an inactive owner.
type ClaimHandler struct {
	auth     x.Authenticator
	bucket   GuardianBucket
	receipts ReceiptBucket
	cash     cash.Controller
}

var _ custody.Handler = (*ClaimHandler)(nil)

func (h *ClaimHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	msg, g, err := h.load(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	now, err := custody.BlockUnixTime(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "block time")
	}
	ctrl, err := g.Controller(DefaultNativeTicker)
	if err != nil {
		return nil, errors.Wrap(err, "stored guardian")
	}
	if err := ctrl.CanClaim(msg.Beneficiary, now); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

// Deliver transfers every custodied asset. Each transfer is applied
// atomically on its own, so a single failing transfer does not revert the
// others. Failed transfers are listed in the stored receipt and the
// transaction still succeeds.
func (h *ClaimHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, g, err := h.load(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	now, err := custody.BlockUnixTime(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "block time")
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, errors.Wrap(err, "configuration")
	}
	ctrl, err := g.Controller(conf.NativeTicker)
	if err != nil {
		return nil, errors.Wrap(err, "stored guardian")
	}

	custodian := CustodyAddress(msg.GuardianID)
	balances := BalanceFunc(func(ticker string) (coin.Amount, error) {
		coins, err := h.cash.Balance(db, custodian)
		if err != nil {
			return coin.Amount{}, err
		}
		return coins.Get(ticker), nil
	})
	receipt, err := ctrl.Claim(msg.Beneficiary, now, balances, h.transfer(db, custodian))
	if err != nil && !ErrTransferFailed.Is(err) {
		return nil, err
	}
	failed := len(receipt.Failed())

	g.Update(ctrl)
	if err := h.bucket.Save(db, msg.GuardianID, g); err != nil {
		return nil, errors.Wrap(err, "cannot store guardian")
	}
	if _, err := h.receipts.Put(db, msg.GuardianID, receipt); err != nil {
		return nil, errors.Wrap(err, "cannot store receipt")
	}
	raw, err := receipt.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "receipt")
	}

	claimsTotal.WithLabelValues(claimResult(failed)).Inc()
	for _, l := range receipt.Legs {
		transfersTotal.WithLabelValues(l.Ticker, transferResult(l)).Inc()
	}
	log := "distributed"
	if failed > 0 {
		log = fmt.Sprintf("distributed, %d of %d transfers failed", failed, len(receipt.Legs))
		custody.GetLogger(ctx).Error("partial distribution",
			"guardian", fmt.Sprintf("%X", msg.GuardianID), "failed", failed, "err", err)
	}
	return &custody.DeliverResult{
		Data: raw,
		Log:  log,
		Tags: []common.KVPair{
			{Key: []byte("guardian.id"), Value: []byte(fmt.Sprintf("%X", msg.GuardianID))},
			{Key: []byte("guardian.claimant"), Value: []byte(msg.Beneficiary.String())},
		},
	}, nil
}

func (h *ClaimHandler) load(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*ClaimMsg, *Guardian, error) {
	var msg ClaimMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Beneficiary) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "beneficiary signature missing")
	}
	g, err := h.bucket.Get(db, msg.GuardianID)
	if err != nil {
		return nil, nil, err
	}
	return &msg, g, nil
}

// transfer returns a function moving coins out of the custody. Every call
// is isolated in its own cache, so a failed transfer leaves no changes.
func (h *ClaimHandler) transfer(db custody.KVStore, src custody.Address) TransferFunc {
	return func(ticker string, dest custody.Address, amount coin.Amount) error {
		c := coin.Coin{Ticker: ticker, Amount: amount}
		cacheable, ok := db.(custody.CacheableKVStore)
		if !ok {
			return h.cash.MoveCoins(db, src, dest, c)
		}
		cache := cacheable.CacheWrap()
		if err := h.cash.MoveCoins(cache, src, dest, c); err != nil {
			cache.Discard()
			return err
		}
		return cache.Write()
	}
}

// WithdrawHandler moves funds out of the custody on the owner request. After
// a distribution only what the claim left behind can be withdrawn: the
// amounts of failed transfers and deposits made after the claim.
type WithdrawHandler struct {
	auth   x.Authenticator
	bucket GuardianBucket
	cash   cash.Controller
}

var _ custody.Handler = (*WithdrawHandler)(nil)

func (h *WithdrawHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

func (h *WithdrawHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.cash.MoveCoins(db, CustodyAddress(msg.GuardianID), msg.Destination, *msg.Amount); err != nil {
		return nil, errors.Wrap(err, "withdraw")
	}
	return &custody.DeliverResult{}, nil
}

func (h *WithdrawHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*WithdrawMsg, error) {
	var msg WithdrawMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	g, err := h.bucket.Get(db, msg.GuardianID)
	if err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, g.Owner) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "owner signature missing")
	}
	return &msg, nil
}
