package cash

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/crypto-guardian/custody"
	"github.com/crypto-guardian/custody/coin"
	"github.com/crypto-guardian/custody/custodytest"
	"github.com/crypto-guardian/custody/errors"
	"github.com/crypto-guardian/custody/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControllerMoveCoins(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController(NewBucket())

	alice := custodytest.NewCondition().Address()
	bob := custodytest.NewCondition().Address()

	require.NoError(t, ctrl.CoinMint(db, alice, coin.NewCoin(100, "ETH")))
	require.NoError(t, ctrl.CoinMint(db, alice, coin.NewCoin(7, "DAI")))

	require.NoError(t, ctrl.MoveCoins(db, alice, bob, coin.NewCoin(60, "ETH")))

	balance, err := ctrl.Balance(db, alice)
	require.NoError(t, err)
	assert.True(t, balance.Equals(coin.Coins{coin.NewCoin(7, "DAI"), coin.NewCoin(40, "ETH")}), balance.String())

	balance, err = ctrl.Balance(db, bob)
	require.NoError(t, err)
	assert.True(t, balance.Equals(coin.Coins{coin.NewCoin(60, "ETH")}), balance.String())

	err = ctrl.MoveCoins(db, alice, bob, coin.NewCoin(41, "ETH"))
	assert.True(t, errors.ErrAmount.Is(err))
	err = ctrl.MoveCoins(db, alice, bob, coin.NewCoin(1, "BTC"))
	assert.True(t, errors.ErrAmount.Is(err))
	err = ctrl.MoveCoins(db, alice, bob, coin.NewCoin(0, "ETH"))
	assert.True(t, errors.ErrAmount.Is(err))
	err = ctrl.MoveCoins(db, alice, alice, coin.NewCoin(1, "ETH"))
	assert.True(t, errors.ErrInput.Is(err))

	carol := custodytest.NewCondition().Address()
	err = ctrl.MoveCoins(db, carol, bob, coin.NewCoin(1, "ETH"))
	assert.True(t, errors.ErrEmpty.Is(err))

	// Moving everything out removes the wallet.
	require.NoError(t, ctrl.MoveCoins(db, bob, carol, coin.NewCoin(60, "ETH")))
	assert.True(t, errors.ErrNotFound.Is(NewBucket().Has(db, bob)))
}

func TestSendHandler(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController(NewBucket())
	auth := &custodytest.CtxAuth{Key: "auth"}

	alice := custodytest.NewCondition()
	bob := custodytest.NewCondition().Address()
	require.NoError(t, ctrl.CoinMint(db, alice.Address(), coin.NewCoin(10, "ETH")))

	h := NewSendHandler(auth, ctrl)

	cases := map[string]struct {
		signer  custody.Condition
		msg     *SendMsg
		wantErr *errors.Error
	}{
		"success": {
			signer: alice,
			msg:    &SendMsg{Source: alice.Address(), Destination: bob, Amount: coin.NewCoinp(4, "ETH")},
		},
		"not signed by the source": {
			signer:  custodytest.NewCondition(),
			msg:     &SendMsg{Source: alice.Address(), Destination: bob, Amount: coin.NewCoinp(4, "ETH")},
			wantErr: errors.ErrUnauthorized,
		},
		"missing amount": {
			signer:  alice,
			msg:     &SendMsg{Source: alice.Address(), Destination: bob},
			wantErr: errors.ErrAmount,
		},
		"invalid destination": {
			signer:  alice,
			msg:     &SendMsg{Source: alice.Address(), Destination: custody.Address("x"), Amount: coin.NewCoinp(1, "ETH")},
			wantErr: errors.ErrInput,
		},
		"insufficient funds": {
			signer:  alice,
			msg:     &SendMsg{Source: alice.Address(), Destination: bob, Amount: coin.NewCoinp(11, "ETH")},
			wantErr: errors.ErrAmount,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := db.CacheWrap()
			ctx := auth.SetConditions(context.Background(), tc.signer)
			tx := &custodytest.Tx{Msg: tc.msg}

			_, err := h.Deliver(ctx, db, tx)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil {
				balance, err := ctrl.Balance(db, bob)
				require.NoError(t, err)
				assert.Equal(t, coin.NewAmount(4), balance.Get("ETH"))
			}
		})
	}
}

func TestGenesis(t *testing.T) {
	db := store.MemStore()
	addr := custodytest.NewCondition().Address()

	raw, err := json.Marshal([]GenesisAccount{
		{Address: addr, Coins: []coin.Coin{coin.NewCoin(5, "ETH"), coin.NewCoin(3, "ETH")}},
	})
	require.NoError(t, err)

	require.NoError(t, Initializer{}.FromGenesis(custody.Options{"cash": raw}, db))

	balance, err := NewController(NewBucket()).Balance(db, addr)
	require.NoError(t, err)
	assert.True(t, balance.Equals(coin.Coins{coin.NewCoin(8, "ETH")}))

	bad := custody.Options{"cash": json.RawMessage(`[{"address": "", "coins": []}]`)}
	assert.True(t, errors.ErrInput.Is(Initializer{}.FromGenesis(bad, db)))
}

func TestRegisterQuery(t *testing.T) {
	db := store.MemStore()
	addr := custodytest.NewCondition().Address()
	require.NoError(t, NewController(NewBucket()).CoinMint(db, addr, coin.NewCoin(1, "ETH")))

	qr := custody.NewQueryRouter()
	RegisterQuery(qr)

	res, err := qr.Handler("/wallets").Query(db, custody.KeyQueryMod, addr)
	require.NoError(t, err)
	require.Len(t, res, 1)

	var w Wallet
	require.NoError(t, w.Unmarshal(res[0].Value))
	assert.True(t, w.Coins.Equals(coin.Coins{coin.NewCoin(1, "ETH")}))
}

func TestSerialization(t *testing.T) {
	w := &Wallet{Coins: coin.Coins{coin.NewCoin(7, "DAI"), coin.NewCoin(40, "ETH")}}
	raw, err := w.Marshal()
	require.NoError(t, err)
	var gotWallet Wallet
	require.NoError(t, gotWallet.Unmarshal(raw))
	assert.True(t, w.Coins.Equals(gotWallet.Coins), gotWallet.Coins.String())

	msg := &SendMsg{
		Source:      custodytest.NewCondition().Address(),
		Destination: custodytest.NewCondition().Address(),
		Amount:      coin.NewCoinp(5, "ETH"),
		Memo:        "rent",
	}
	raw, err = msg.Marshal()
	require.NoError(t, err)
	var gotMsg SendMsg
	require.NoError(t, gotMsg.Unmarshal(raw))
	assert.Equal(t, msg, &gotMsg)
}
