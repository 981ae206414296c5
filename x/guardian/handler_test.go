package guardian

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/crypto-guardian/custody"
	"github.com/crypto-guardian/custody/coin"
	"github.com/crypto-guardian/custody/custodytest"
	"github.com/crypto-guardian/custody/errors"
	"github.com/crypto-guardian/custody/gconf"
	"github.com/crypto-guardian/custody/store"
	"github.com/crypto-guardian/custody/x/cash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
)

type routes map[string]custody.Handler

func (r routes) Handle(path string, h custody.Handler) {
	r[path] = h
}

var genesisTime = time.Unix(1500000000, 0).UTC()

type env struct {
	t      *testing.T
	db     custody.CacheableKVStore
	auth   *custodytest.CtxAuth
	routes routes
	cash   cash.Controller
}

func newEnv(t *testing.T, ctrl cash.Controller) *env {
	e := &env{
		t:      t,
		db:     store.MemStore(),
		auth:   &custodytest.CtxAuth{Key: "auth"},
		routes: make(routes),
		cash:   ctrl,
	}
	RegisterRoutes(e.routes, e.auth, ctrl)
	return e
}

func (e *env) deliver(at time.Time, msg custody.Msg, signers ...custody.Condition) (*custody.DeliverResult, error) {
	e.t.Helper()
	ctx := custody.WithHeader(context.Background(), abci.Header{Time: at})
	ctx = e.auth.SetConditions(ctx, signers...)
	tx := &custodytest.Tx{Msg: msg}

	h, ok := e.routes[msg.Path()]
	require.True(e.t, ok, "no handler for %s", msg.Path())

	if _, err := h.Check(ctx, e.db.CacheWrap(), tx); err != nil {
		return nil, err
	}
	return h.Deliver(ctx, e.db, tx)
}

func (e *env) balance(addr custody.Address, ticker string) coin.Amount {
	e.t.Helper()
	coins, err := e.cash.Balance(e.db, addr)
	require.NoError(e.t, err)
	return coins.Get(ticker)
}

func (e *env) guardian(id []byte) *Guardian {
	e.t.Helper()
	g, err := NewGuardianBucket().Get(e.db, id)
	require.NoError(e.t, err)
	return g
}

func TestGuardianLifecycle(t *testing.T) {
	e := newEnv(t, cash.NewController(cash.NewBucket()))

	owner := custodytest.NewCondition()
	alice := custodytest.NewCondition()
	bob := custodytest.NewCondition()
	stranger := custodytest.NewCondition()

	create := &CreateMsg{
		Owner: owner.Address(),
		Beneficiaries: []Beneficiary{
			{Address: alice.Address(), Share: 6667},
			{Address: bob.Address(), Share: 3333},
		},
		Assets: []string{"ETH", "DAI"},
		Window: thirtyDays,
	}

	_, err := e.deliver(genesisTime, create, stranger)
	require.True(t, errors.ErrUnauthorized.Is(err), "%+v", err)

	res, err := e.deliver(genesisTime, create, owner)
	require.NoError(t, err)
	id := res.Data
	assert.Equal(t, custodytest.SequenceID(1), id)

	custodian := CustodyAddress(id)
	require.NoError(t, e.cash.CoinMint(e.db, custodian, coin.NewCoin(1000000000, "ETH")))
	require.NoError(t, e.cash.CoinMint(e.db, custodian, coin.NewCoin(10, "DAI")))

	day1 := genesisTime.Add(24 * time.Hour)
	_, err = e.deliver(day1, &HeartbeatMsg{GuardianID: id}, stranger)
	assert.True(t, errors.ErrUnauthorized.Is(err), "%+v", err)
	assert.Equal(t, custody.AsUnixTime(genesisTime), e.guardian(id).LastActiveAt)

	_, err = e.deliver(day1, &HeartbeatMsg{GuardianID: id}, owner)
	require.NoError(t, err)
	assert.Equal(t, custody.AsUnixTime(day1), e.guardian(id).LastActiveAt)

	// The owner keeps control over the funds.
	_, err = e.deliver(day1, &WithdrawMsg{GuardianID: id, Destination: owner.Address(), Amount: coin.NewCoinp(2, "DAI")}, owner)
	require.NoError(t, err)
	assert.Equal(t, coin.NewAmount(2), e.balance(owner.Address(), "DAI"))
	_, err = e.deliver(day1, &WithdrawMsg{GuardianID: id, Destination: alice.Address(), Amount: coin.NewCoinp(1, "DAI")}, alice)
	assert.True(t, errors.ErrUnauthorized.Is(err), "%+v", err)

	tooEarly := day1.Add(thirtyDays.Duration() - time.Second)
	_, err = e.deliver(tooEarly, &ClaimMsg{GuardianID: id, Beneficiary: alice.Address()}, alice)
	assert.True(t, ErrNotYetInactive.Is(err), "%+v", err)
	assert.True(t, e.balance(alice.Address(), "ETH").IsZero())

	late := day1.Add(thirtyDays.Duration())
	_, err = e.deliver(late, &ClaimMsg{GuardianID: id, Beneficiary: alice.Address()}, stranger)
	assert.True(t, errors.ErrUnauthorized.Is(err), "%+v", err)
	_, err = e.deliver(late, &ClaimMsg{GuardianID: id, Beneficiary: stranger.Address()}, stranger)
	assert.True(t, errors.ErrUnauthorized.Is(err), "%+v", err)

	res, err = e.deliver(late, &ClaimMsg{GuardianID: id, Beneficiary: bob.Address()}, bob)
	require.NoError(t, err)
	assert.Equal(t, "distributed", res.Log)

	assert.Equal(t, coin.NewAmount(666700000), e.balance(alice.Address(), "ETH"))
	assert.Equal(t, coin.NewAmount(333300000), e.balance(bob.Address(), "ETH"))
	// 8 DAI left after the withdraw.
	assert.Equal(t, coin.NewAmount(6), e.balance(alice.Address(), "DAI"))
	assert.Equal(t, coin.NewAmount(2), e.balance(bob.Address(), "DAI"))
	custodied, err := e.cash.Balance(e.db, custodian)
	require.NoError(t, err)
	assert.True(t, custodied.IsEmpty())

	assert.True(t, e.guardian(id).Distributed)
	var receipt Receipt
	require.NoError(t, NewReceiptBucket().One(e.db, id, &receipt))
	assert.Equal(t, bob.Address(), receipt.Claimant)
	assert.Equal(t, custody.AsUnixTime(late), receipt.ClaimedAt)
	assert.Len(t, receipt.Legs, 4)

	var returned Receipt
	require.NoError(t, returned.Unmarshal(res.Data))
	assert.Equal(t, receipt, returned)

	_, err = e.deliver(late, &ClaimMsg{GuardianID: id, Beneficiary: alice.Address()}, alice)
	assert.True(t, ErrAlreadyDistributed.Is(err), "%+v", err)
	_, err = e.deliver(late, &HeartbeatMsg{GuardianID: id}, owner)
	assert.True(t, ErrAlreadyDistributed.Is(err), "%+v", err)
	_, err = e.deliver(late, &WithdrawMsg{GuardianID: id, Destination: owner.Address(), Amount: coin.NewCoinp(1, "ETH")}, owner)
	assert.True(t, errors.ErrAmount.Is(err), "%+v", err)

	// A deposit made after the distribution can be recovered by the owner
	// only.
	require.NoError(t, e.cash.CoinMint(e.db, custodian, coin.NewCoin(5, "ETH")))
	_, err = e.deliver(late, &ClaimMsg{GuardianID: id, Beneficiary: alice.Address()}, alice)
	assert.True(t, ErrAlreadyDistributed.Is(err), "%+v", err)
	_, err = e.deliver(late, &WithdrawMsg{GuardianID: id, Destination: alice.Address(), Amount: coin.NewCoinp(5, "ETH")}, alice)
	assert.True(t, errors.ErrUnauthorized.Is(err), "%+v", err)
	_, err = e.deliver(late, &WithdrawMsg{GuardianID: id, Destination: owner.Address(), Amount: coin.NewCoinp(5, "ETH")}, owner)
	require.NoError(t, err)
	assert.Equal(t, coin.NewAmount(5), e.balance(owner.Address(), "ETH"))

	_, err = e.deliver(late, &HeartbeatMsg{GuardianID: custodytest.SequenceID(7)}, owner)
	assert.True(t, errors.ErrNotFound.Is(err), "%+v", err)
}

// failingCash moves the coins and then reports a failure for a single
// recipient.
type failingCash struct {
	cash.Controller
	failTo custody.Address
}

func (f failingCash) MoveCoins(db custody.KVStore, src, dest custody.Address, amount coin.Coin) error {
	if err := f.Controller.MoveCoins(db, src, dest, amount); err != nil {
		return err
	}
	if dest.Equals(f.failTo) {
		return errors.Wrap(errors.ErrDatabase, "cannot credit")
	}
	return nil
}

func TestClaimWithFailedTransfer(t *testing.T) {
	alice := custodytest.NewCondition()
	bob := custodytest.NewCondition()
	owner := custodytest.NewCondition()

	e := newEnv(t, failingCash{
		Controller: cash.NewController(cash.NewBucket()),
		failTo:     bob.Address(),
	})

	res, err := e.deliver(genesisTime, &CreateMsg{
		Owner: owner.Address(),
		Beneficiaries: []Beneficiary{
			{Address: alice.Address(), Share: 5000},
			{Address: bob.Address(), Share: 5000},
		},
		Window: day,
	}, owner)
	require.NoError(t, err)
	id := res.Data
	require.NoError(t, e.cash.CoinMint(e.db, CustodyAddress(id), coin.NewCoin(100, "ETH")))

	res, err = e.deliver(genesisTime.Add(day.Duration()), &ClaimMsg{GuardianID: id, Beneficiary: alice.Address()}, alice)
	require.NoError(t, err)
	assert.Contains(t, res.Log, "1 of 2 transfers failed")

	assert.Equal(t, coin.NewAmount(50), e.balance(alice.Address(), "ETH"))
	// The failed transfer left no trace.
	assert.True(t, e.balance(bob.Address(), "ETH").IsZero())
	assert.Equal(t, coin.NewAmount(50), e.balance(CustodyAddress(id), "ETH"))

	assert.True(t, e.guardian(id).Distributed)
	var receipt Receipt
	require.NoError(t, NewReceiptBucket().One(e.db, id, &receipt))
	failed := receipt.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, bob.Address(), failed[0].Beneficiary)
	assert.Equal(t, errors.ErrDatabase.ABCICode(), failed[0].Code)

	// The amount of the failed transfer is not stranded.
	_, err = e.deliver(genesisTime.Add(day.Duration()), &WithdrawMsg{
		GuardianID:  id,
		Destination: owner.Address(),
		Amount:      coin.NewCoinp(50, "ETH"),
	}, owner)
	require.NoError(t, err)
	assert.True(t, e.balance(CustodyAddress(id), "ETH").IsZero())
	assert.Equal(t, coin.NewAmount(50), e.balance(owner.Address(), "ETH"))
}

func TestCreateRespectsConfiguration(t *testing.T) {
	e := newEnv(t, cash.NewController(cash.NewBucket()))
	admin := custodytest.NewCondition()
	owner := custodytest.NewCondition()
	alice := custodytest.NewCondition()
	bob := custodytest.NewCondition()

	require.NoError(t, gconf.Save(e.db, "guardian", &Configuration{
		Owner:            admin.Address(),
		NativeTicker:     "IOV",
		MaxBeneficiaries: 1,
	}))

	two := &CreateMsg{
		Owner: owner.Address(),
		Beneficiaries: []Beneficiary{
			{Address: alice.Address(), Share: 5000},
			{Address: bob.Address(), Share: 5000},
		},
		Window: day,
	}
	_, err := e.deliver(genesisTime, two, owner)
	assert.True(t, ErrInvalidShares.Is(err), "%+v", err)

	patch := &UpdateConfigurationMsg{Patch: &Configuration{MaxBeneficiaries: 5}}
	_, err = e.deliver(genesisTime, patch, owner)
	assert.True(t, errors.ErrUnauthorized.Is(err), "%+v", err)
	_, err = e.deliver(genesisTime, patch, admin)
	require.NoError(t, err)

	res, err := e.deliver(genesisTime, two, owner)
	require.NoError(t, err)
	id := res.Data

	// Guardians without assets distribute the configured native ticker.
	custodian := CustodyAddress(id)
	require.NoError(t, e.cash.CoinMint(e.db, custodian, coin.NewCoin(10, "IOV")))
	require.NoError(t, e.cash.CoinMint(e.db, custodian, coin.NewCoin(10, "ETH")))

	_, err = e.deliver(genesisTime.Add(day.Duration()), &ClaimMsg{GuardianID: id, Beneficiary: bob.Address()}, bob)
	require.NoError(t, err)
	assert.Equal(t, coin.NewAmount(5), e.balance(alice.Address(), "IOV"))
	assert.Equal(t, coin.NewAmount(5), e.balance(bob.Address(), "IOV"))
	assert.Equal(t, coin.NewAmount(10), e.balance(custodian, "ETH"))
}

func TestGenesis(t *testing.T) {
	owner := newAddr()
	alice := newAddr()
	raw, err := json.Marshal([]Guardian{{
		Owner:         owner,
		Beneficiaries: []Beneficiary{{Address: alice, Share: TotalShares}},
		Assets:        []string{"ETH"},
		Window:        thirtyDays,
		LastActiveAt:  custody.AsUnixTime(genesisTime),
	}})
	require.NoError(t, err)

	opts := custody.Options{
		"guardian": raw,
		"conf":     json.RawMessage(`{"guardian": {"native_ticker": "IOV", "max_beneficiaries": 10}}`),
	}
	db := store.MemStore()
	var initializer Initializer
	require.NoError(t, initializer.FromGenesis(opts, db))

	g, err := NewGuardianBucket().Get(db, custodytest.SequenceID(1))
	require.NoError(t, err)
	assert.Equal(t, owner, g.Owner)
	assert.Equal(t, thirtyDays, g.Window)

	conf, err := loadConf(db)
	require.NoError(t, err)
	assert.Equal(t, "IOV", conf.NativeTicker)
	assert.Equal(t, int32(10), conf.MaxBeneficiaries)

	ids, err := NewGuardianBucket().ByIndex(db, "beneficiary", alice)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{custodytest.SequenceID(1)}, ids)

	bad, err := json.Marshal([]Guardian{{Owner: owner, Window: day}})
	require.NoError(t, err)
	err = initializer.FromGenesis(custody.Options{"guardian": bad}, store.MemStore())
	assert.True(t, ErrInvalidShares.Is(err), "%+v", err)
}

func TestQueries(t *testing.T) {
	e := newEnv(t, cash.NewController(cash.NewBucket()))
	owner := custodytest.NewCondition()

	res, err := e.deliver(genesisTime, &CreateMsg{
		Owner:         owner.Address(),
		Beneficiaries: []Beneficiary{{Address: newAddr(), Share: TotalShares}},
		Window:        day,
	}, owner)
	require.NoError(t, err)

	qr := custody.NewQueryRouter()
	RegisterQuery(qr)

	models, err := qr.Handler("/guardians/owner").Query(e.db, custody.KeyQueryMod, owner.Address())
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, NewGuardianBucket().DBKey(res.Data), models[0].Key)

	models, err = qr.Handler("/receipts").Query(e.db, custody.KeyQueryMod, res.Data)
	require.NoError(t, err)
	assert.Empty(t, models)
}
