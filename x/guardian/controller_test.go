package guardian

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/crypto-guardian/custody"
	"github.com/crypto-guardian/custody/coin"
	"github.com/crypto-guardian/custody/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const thirtyDays = 30 * day

func staticBalances(balances map[string]coin.Amount) BalanceOracle {
	return BalanceFunc(func(ticker string) (coin.Amount, error) {
		return balances[ticker], nil
	})
}

func TestNewController(t *testing.T) {
	owner := newAddr()
	only := []Beneficiary{{Address: newAddr(), Share: TotalShares}}

	_, err := NewController(owner, only, nil, 0, 0)
	assert.True(t, ErrInvalidWindow.Is(err))
	_, err = NewController(owner, []Beneficiary{{Address: newAddr(), Share: 1}}, nil, day, 0)
	assert.True(t, ErrInvalidShares.Is(err))
	_, err = NewController(owner, only, []string{"ETH", "ETH"}, day, 0)
	assert.True(t, ErrInvalidAssets.Is(err))

	c, err := NewController(owner, only, nil, day, 0)
	require.NoError(t, err)
	assert.Equal(t, StateActive, c.Status(0))
	assert.Equal(t, owner, c.Owner())
	assert.Equal(t, day, c.Window())
}

func TestControllerThirtyDayWindow(t *testing.T) {
	owner, a := newAddr(), newAddr()
	c, err := NewController(owner, []Beneficiary{{Address: a, Share: TotalShares}}, nil, thirtyDays, 0)
	require.NoError(t, err)
	require.NoError(t, c.Heartbeat(owner, 0))

	balances := staticBalances(map[string]coin.Amount{"ETH": coin.NewAmount(1000000000)})
	rec := &transferRecorder{}

	_, err = c.Claim(a, custody.UnixTime(thirtyDays-1), balances, rec.Transfer)
	assert.True(t, ErrNotYetInactive.Is(err))
	assert.Empty(t, rec.calls)
	assert.Equal(t, StateActive, c.Status(custody.UnixTime(thirtyDays-1)))

	assert.Equal(t, StateClaimable, c.Status(custody.UnixTime(thirtyDays)))
	receipt, err := c.Claim(a, custody.UnixTime(thirtyDays+1), balances, rec.Transfer)
	require.NoError(t, err)
	assert.Equal(t, []transferCall{
		{Ticker: "ETH", Beneficiary: a, Amount: coin.NewAmount(1000000000)},
	}, rec.calls)
	assert.Equal(t, a, receipt.Claimant)
	assert.Equal(t, custody.UnixTime(thirtyDays+1), receipt.ClaimedAt)
	assert.Equal(t, StateDistributed, c.Status(custody.UnixTime(thirtyDays+1)))
	assert.True(t, c.Distributed())
}

func TestControllerSplitsRemainder(t *testing.T) {
	owner, a, b := newAddr(), newAddr(), newAddr()
	c, err := NewController(owner,
		[]Beneficiary{{Address: a, Share: 6667}, {Address: b, Share: 3333}},
		[]string{"DAI"}, day, 0)
	require.NoError(t, err)

	rec := &transferRecorder{}
	balances := staticBalances(map[string]coin.Amount{"DAI": coin.NewAmount(10)})
	_, err = c.Claim(b, custody.UnixTime(day), balances, rec.Transfer)
	require.NoError(t, err)
	assert.Equal(t, []transferCall{
		{Ticker: "DAI", Beneficiary: a, Amount: coin.NewAmount(7)},
		{Ticker: "DAI", Beneficiary: b, Amount: coin.NewAmount(3)},
	}, rec.calls)
}

func TestControllerClaimErrors(t *testing.T) {
	owner, a := newAddr(), newAddr()
	newCtrl := func(t *testing.T) *Controller {
		c, err := NewController(owner, []Beneficiary{{Address: a, Share: TotalShares}}, nil, day, 0)
		require.NoError(t, err)
		return c
	}
	balances := staticBalances(map[string]coin.Amount{"ETH": coin.NewAmount(5)})

	t.Run("only beneficiaries can claim", func(t *testing.T) {
		c := newCtrl(t)
		rec := &transferRecorder{}
		for _, caller := range []custody.Address{owner, newAddr(), nil} {
			_, err := c.Claim(caller, custody.UnixTime(day), balances, rec.Transfer)
			assert.True(t, errors.ErrUnauthorized.Is(err))
		}
		// Authorization is checked before the inactivity.
		_, err := c.Claim(owner, 0, balances, rec.Transfer)
		assert.True(t, errors.ErrUnauthorized.Is(err))
		assert.Empty(t, rec.calls)
		assert.False(t, c.Distributed())
	})

	t.Run("claim succeeds once", func(t *testing.T) {
		c := newCtrl(t)
		rec := &transferRecorder{}
		_, err := c.Claim(a, custody.UnixTime(day), balances, rec.Transfer)
		require.NoError(t, err)
		require.Len(t, rec.calls, 1)

		_, err = c.Claim(a, custody.UnixTime(2*day), balances, rec.Transfer)
		assert.True(t, ErrAlreadyDistributed.Is(err))
		assert.Len(t, rec.calls, 1)
	})

	t.Run("failed balance read changes nothing", func(t *testing.T) {
		c := newCtrl(t)
		rec := &transferRecorder{}
		broken := BalanceFunc(func(string) (coin.Amount, error) {
			return coin.Amount{}, errors.ErrDatabase
		})
		_, err := c.Claim(a, custody.UnixTime(day), broken, rec.Transfer)
		assert.True(t, errors.ErrDatabase.Is(err))
		assert.Empty(t, rec.calls)
		assert.Equal(t, StateClaimable, c.Status(custody.UnixTime(day)))
	})

	t.Run("failed transfer still distributes", func(t *testing.T) {
		c := newCtrl(t)
		rec := &transferRecorder{failOn: func(string, custody.Address) error { return errors.ErrOverflow }}
		receipt, err := c.Claim(a, custody.UnixTime(day), balances, rec.Transfer)
		assert.True(t, ErrTransferFailed.Is(err))
		require.NotNil(t, receipt)
		assert.Len(t, receipt.Failed(), 1)
		assert.Equal(t, StateDistributed, c.Status(custody.UnixTime(day)))
	})
}

func TestControllerHeartbeat(t *testing.T) {
	owner, a := newAddr(), newAddr()
	c, err := NewController(owner, []Beneficiary{{Address: a, Share: TotalShares}}, nil, day, 0)
	require.NoError(t, err)

	err = c.Heartbeat(a, 100)
	assert.True(t, errors.ErrUnauthorized.Is(err))
	assert.Equal(t, custody.UnixTime(0), c.LastActiveAt())

	require.NoError(t, c.Heartbeat(owner, 100))
	assert.Equal(t, custody.UnixTime(100), c.LastActiveAt())

	// A claimable guardian becomes active again.
	late := custody.UnixTime(100).Add(day)
	assert.Equal(t, StateClaimable, c.Status(late))
	require.NoError(t, c.Heartbeat(owner, late))
	assert.Equal(t, StateActive, c.Status(late))

	rec := &transferRecorder{}
	_, err = c.Claim(a, late, staticBalances(nil), rec.Transfer)
	assert.True(t, ErrNotYetInactive.Is(err))

	_, err = c.Claim(a, late.Add(day), staticBalances(nil), rec.Transfer)
	require.NoError(t, err)
	// Nothing was custodied.
	assert.Empty(t, rec.calls)

	err = c.Heartbeat(owner, late.Add(2*day))
	assert.True(t, ErrAlreadyDistributed.Is(err))
	err = c.Heartbeat(a, late.Add(2*day))
	assert.True(t, errors.ErrUnauthorized.Is(err))
}

func TestControllerNativeTicker(t *testing.T) {
	owner, a := newAddr(), newAddr()
	c, err := NewController(owner, []Beneficiary{{Address: a, Share: TotalShares}}, nil, day, 0, WithNativeTicker("IOV"))
	require.NoError(t, err)

	var asked []string
	balances := BalanceFunc(func(ticker string) (coin.Amount, error) {
		asked = append(asked, ticker)
		return coin.NewAmount(1), nil
	})
	rec := &transferRecorder{}
	_, err = c.Claim(a, custody.UnixTime(day), balances, rec.Transfer)
	require.NoError(t, err)
	assert.Equal(t, []string{"IOV"}, asked)
	assert.Equal(t, []transferCall{{Ticker: "IOV", Beneficiary: a, Amount: coin.NewAmount(1)}}, rec.calls)
}

func TestControllerConcurrentClaims(t *testing.T) {
	owner := newAddr()
	beneficiaries := []Beneficiary{
		{Address: newAddr(), Share: 5000},
		{Address: newAddr(), Share: 3000},
		{Address: newAddr(), Share: 2000},
	}
	c, err := NewController(owner, beneficiaries, []string{"ETH", "DAI"}, day, 0)
	require.NoError(t, err)

	balances := staticBalances(map[string]coin.Amount{
		"ETH": coin.NewAmount(1000),
		"DAI": coin.NewAmount(999),
	})
	var transfers int64
	transfer := func(string, custody.Address, coin.Amount) error {
		atomic.AddInt64(&transfers, 1)
		return nil
	}

	var (
		wg        sync.WaitGroup
		succeeded int64
		rejected  int64
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			caller := beneficiaries[i%len(beneficiaries)].Address
			if i%2 == 0 {
				_ = c.Heartbeat(owner, custody.UnixTime(1))
			}
			switch _, err := c.Claim(caller, custody.UnixTime(2*day), balances, transfer); {
			case err == nil:
				atomic.AddInt64(&succeeded, 1)
			case ErrAlreadyDistributed.Is(err):
				atomic.AddInt64(&rejected, 1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(1), succeeded)
	assert.Equal(t, int64(49), rejected)
	assert.Equal(t, int64(6), atomic.LoadInt64(&transfers))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "active", StateActive.String())
	assert.Equal(t, "claimable", StateClaimable.String())
	assert.Equal(t, "distributed", StateDistributed.String())
	assert.Equal(t, "unknown", State(42).String())
}
