package app

import (
	"context"
	"testing"
	"time"

	"github.com/crypto-guardian/custody"
	"github.com/crypto-guardian/custody/custodytest"
	"github.com/crypto-guardian/custody/errors"
	"github.com/crypto-guardian/custody/orm"
	"github.com/crypto-guardian/custody/store/iavl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
)

// kvInitializer writes all key value pairs found under "kv" in the genesis.
type kvInitializer struct{}

func (kvInitializer) FromGenesis(opts custody.Options, db custody.KVStore) error {
	var pairs map[string]string
	if err := opts.ReadOptions("kv", &pairs); err != nil {
		return err
	}
	for k, v := range pairs {
		if err := db.Set([]byte(k), []byte(v)); err != nil {
			return err
		}
	}
	return nil
}

func newTestStoreApp(t testing.TB, db custody.CommitKVStore) *StoreApp {
	t.Helper()
	qr := custody.NewQueryRouter()
	orm.RegisterQuery(qr)
	return NewStoreApp("custody-test", db, qr, context.Background()).
		WithInit(kvInitializer{})
}

func TestStoreAppLifecycle(t *testing.T) {
	db := iavl.MockCommitStore()
	s := newTestStoreApp(t, db)
	assert.Equal(t, "", s.GetChainID())

	info := s.Info(abci.RequestInfo{})
	assert.Equal(t, "custody-test", info.Data)
	assert.Equal(t, int64(0), info.LastBlockHeight)

	s.InitChain(abci.RequestInitChain{
		ChainId:       "test-chain",
		AppStateBytes: []byte(`{"kv": {"alpha": "1", "beta": "2"}}`),
	})
	assert.Equal(t, "test-chain", s.GetChainID())

	// Genesis state is not visible to queries before the commit.
	res := s.Query(abci.RequestQuery{Path: "/", Data: []byte("alpha")})
	require.Equal(t, uint32(0), res.Code, res.Log)
	assert.Empty(t, queryValues(t, res))

	s.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 1, Time: time.Unix(1000, 0)}})
	blockCtx := s.BlockContext()
	height, ok := custody.GetHeight(blockCtx)
	assert.True(t, ok)
	assert.Equal(t, int64(1), height)
	assert.Equal(t, "test-chain", custody.GetChainID(blockCtx))
	now, err := custody.BlockUnixTime(blockCtx)
	require.NoError(t, err)
	assert.Equal(t, custody.UnixTime(1000), now)

	s.EndBlock(abci.RequestEndBlock{})
	commit := s.Commit()
	assert.NotEmpty(t, commit.Data)

	info = s.Info(abci.RequestInfo{})
	assert.Equal(t, int64(1), info.LastBlockHeight)
	assert.Equal(t, commit.Data, info.LastBlockAppHash)

	res = s.Query(abci.RequestQuery{Path: "/", Data: []byte("alpha")})
	require.Equal(t, uint32(0), res.Code, res.Log)
	assert.Equal(t, int64(1), res.Height)
	assert.Equal(t, [][]byte{[]byte("1")}, queryValues(t, res))

	res = s.Query(abci.RequestQuery{Path: "/?prefix"})
	require.Equal(t, uint32(0), res.Code, res.Log)
	// The chain id is stored next to the genesis data.
	assert.Len(t, queryValues(t, res), 3)

	res = s.Query(abci.RequestQuery{Path: "/unknown"})
	assert.Equal(t, errors.ErrNotFound.ABCICode(), res.Code)

	// The chain id is loaded on restart and cannot be initialized again.
	restarted := newTestStoreApp(t, db)
	assert.Equal(t, "test-chain", restarted.GetChainID())
	assert.Panics(t, func() {
		restarted.InitChain(abci.RequestInitChain{
			ChainId:       "test-chain",
			AppStateBytes: []byte(`{}`),
		})
	})
}

func TestStoreAppRequiresAppState(t *testing.T) {
	s := newTestStoreApp(t, iavl.MockCommitStore())
	assert.Panics(t, func() {
		s.InitChain(abci.RequestInitChain{ChainId: "test-chain"})
	})
}

func TestSaveChainID(t *testing.T) {
	db := iavl.MockCommitStore().CacheWrap()

	assert.Equal(t, "", mustLoadChainID(db))
	assert.True(t, errors.ErrInput.Is(saveChainID(db, "no")))
	require.NoError(t, saveChainID(db, "custody-1"))
	assert.Equal(t, "custody-1", mustLoadChainID(db))
	assert.True(t, errors.ErrUnauthorized.Is(saveChainID(db, "custody-2")))
}

func TestSplitPath(t *testing.T) {
	cases := map[string][2]string{
		"/":                   {"/", ""},
		"/guardians?prefix":   {"/guardians", "prefix"},
		"/guardians/owner":    {"/guardians/owner", ""},
		"/receipts?prefix?xx": {"/receipts", "prefix?xx"},
	}
	for raw, want := range cases {
		path, mod := splitPath(raw)
		assert.Equal(t, want[0], path, raw)
		assert.Equal(t, want[1], mod, raw)
	}
}

func TestBaseApp(t *testing.T) {
	handler := &custodytest.Handler{
		CheckResult:   custody.CheckResult{Log: "checked"},
		DeliverResult: custody.DeliverResult{Log: "delivered"},
	}
	decoder := func(raw []byte) (custody.Tx, error) {
		switch string(raw) {
		case "ok":
			return &custodytest.Tx{Msg: &custodytest.Msg{RoutePath: "test/ok"}}, nil
		case "panic":
			panic("cannot decode")
		default:
			return nil, errors.Wrap(errors.ErrInput, "garbage")
		}
	}

	s := newTestStoreApp(t, iavl.MockCommitStore())
	s.InitChain(abci.RequestInitChain{ChainId: "test-chain", AppStateBytes: []byte(`{}`)})
	s.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 1}})
	b := NewBaseApp(s, decoder, handler, false)

	dres := b.DeliverTx([]byte("ok"))
	assert.Equal(t, uint32(0), dres.Code)
	assert.Equal(t, "delivered", dres.Log)

	cres := b.CheckTx([]byte("ok"))
	assert.Equal(t, uint32(0), cres.Code)
	assert.Equal(t, "checked", cres.Log)

	cres = b.CheckTx([]byte("garbage"))
	assert.Equal(t, errors.ErrInput.ABCICode(), cres.Code)

	dres = b.DeliverTx([]byte("panic"))
	assert.Equal(t, errors.ErrPanic.ABCICode(), dres.Code)

	handler.DeliverErr = errors.Wrap(errors.ErrUnauthorized, "no")
	dres = b.DeliverTx([]byte("ok"))
	assert.Equal(t, errors.ErrUnauthorized.ABCICode(), dres.Code)

	assert.Equal(t, 1, handler.CheckCallCount())
	assert.Equal(t, 2, handler.DeliverCallCount())
}

func queryValues(t testing.TB, res abci.ResponseQuery) [][]byte {
	t.Helper()
	var rs ResultSet
	require.NoError(t, rs.Unmarshal(res.Value))
	return rs.Results
}
