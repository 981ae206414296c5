package main

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/crypto-guardian/custody"
	"github.com/crypto-guardian/custody/crypto"
	"github.com/crypto-guardian/custody/errors"
	"github.com/crypto-guardian/custody/orm"
	"github.com/crypto-guardian/custody/store"
	"github.com/crypto-guardian/custody/x/cash"
	"github.com/crypto-guardian/custody/x/guardian"
	"github.com/crypto-guardian/custody/x/sigs"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
)

// fakeClient answers queries from an in memory store using the same query
// handlers as the node.
type fakeClient struct {
	chainID   string
	db        custody.CacheableKVStore
	qr        custody.QueryRouter
	submitted [][]byte
	deliver   abci.ResponseDeliverTx
}

var _ Client = (*fakeClient)(nil)

func newFakeClient(t testing.TB) *fakeClient {
	t.Helper()
	qr := custody.NewQueryRouter()
	cash.RegisterQuery(qr)
	sigs.RegisterQuery(qr)
	guardian.RegisterQuery(qr)
	orm.RegisterQuery(qr)
	return &fakeClient{
		chainID: "test-chain",
		db:      store.MemStore(),
		qr:      qr,
	}
}

func (c *fakeClient) ChainID() (string, error) { return c.chainID, nil }

func (c *fakeClient) Query(path, mod string, data []byte) ([]custody.Model, error) {
	h := c.qr.Handler(path)
	if h == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "path %s", path)
	}
	return h.Query(c.db, mod, data)
}

func (c *fakeClient) Broadcast(tx []byte) (*abci.ResponseDeliverTx, error) {
	c.submitted = append(c.submitted, tx)
	return &c.deliver, nil
}

// withClient makes all commands use given client. Call returned function to
// restore the original client.
func withClient(c Client) func() {
	prev := newClient
	newClient = func(string) Client { return c }
	return func() { newClient = prev }
}

func writeKey(t testing.TB, dir string, key *crypto.PrivateKey) string {
	t.Helper()
	path := filepath.Join(dir, "priv.key")
	require.NoError(t, ioutil.WriteFile(path, key.Ed25519, 0600))
	return path
}

func testKey(b byte) *crypto.PrivateKey {
	return crypto.PrivKeyEd25519FromSeed(bytes.Repeat([]byte{b}, 32))
}

func tempDir(t testing.TB) (string, func()) {
	t.Helper()
	dir, err := ioutil.TempDir("", "custodycli")
	require.NoError(t, err)
	return dir, func() { os.RemoveAll(dir) }
}

func mustTime(t testing.TB, raw string) custody.UnixTime {
	t.Helper()
	tm, err := time.Parse(time.RFC3339, raw)
	require.NoError(t, err)
	return custody.AsUnixTime(tm)
}
