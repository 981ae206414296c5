package coin

import (
	"encoding/json"
	"testing"

	"github.com/crypto-guardian/custody/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"
)

func TestParseHumanFormat(t *testing.T) {
	cases := map[string]struct {
		raw     string
		want    Coin
		wantErr *errors.Error
	}{
		"simple": {
			raw:  "1000000000 ETH",
			want: NewCoin(1000000000, "ETH"),
		},
		"extra spaces": {
			raw:  "  7   DAI ",
			want: NewCoin(7, "DAI"),
		},
		"above 64 bits": {
			raw:  "340282366920938463463374607431768211455 ETH",
			want: Coin{Ticker: "ETH", Amount: uint128.Max},
		},
		"above 128 bits": {
			raw:     "340282366920938463463374607431768211456 ETH",
			wantErr: errors.ErrOverflow,
		},
		"negative": {
			raw:     "-5 ETH",
			wantErr: errors.ErrAmount,
		},
		"fractional": {
			raw:     "1.5 ETH",
			wantErr: errors.ErrAmount,
		},
		"lower case ticker": {
			raw:     "5 eth",
			wantErr: errors.ErrCurrency,
		},
		"missing ticker": {
			raw:     "5",
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := ParseHumanFormat(tc.raw)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil && !got.Equals(tc.want) {
				t.Fatalf("want %s, got %s", tc.want, got)
			}
		})
	}
}

func TestCoinArithmetic(t *testing.T) {
	a := NewCoin(10, "ETH")

	sum, err := a.Add(NewCoin(5, "ETH"))
	require.NoError(t, err)
	assert.True(t, sum.Equals(NewCoin(15, "ETH")))

	_, err = a.Add(NewCoin(5, "DAI"))
	assert.True(t, errors.ErrCurrency.Is(err))

	_, err = Coin{Ticker: "ETH", Amount: uint128.Max}.Add(NewCoin(1, "ETH"))
	assert.True(t, errors.ErrOverflow.Is(err))

	diff, err := a.Subtract(NewCoin(10, "ETH"))
	require.NoError(t, err)
	assert.True(t, diff.IsZero())

	_, err = a.Subtract(NewCoin(11, "ETH"))
	assert.True(t, errors.ErrAmount.Is(err))
}

func TestCoinJSON(t *testing.T) {
	c := NewCoin(1000000000, "ETH")
	raw, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Equal(t, `"1000000000 ETH"`, string(raw))

	var got Coin
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.True(t, c.Equals(got))

	require.NoError(t, json.Unmarshal([]byte(`{"ticker": "DAI", "amount": "42"}`), &got))
	assert.True(t, NewCoin(42, "DAI").Equals(got))

	err = json.Unmarshal([]byte(`{"ticker": "DAI", "amount": 42}`), &got)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestCoinBinary(t *testing.T) {
	cases := []Coin{
		{},
		NewCoin(1, "ETH"),
		{Ticker: "DAI", Amount: uint128.New(7, 1)},
		{Ticker: "BTC", Amount: uint128.Max},
	}
	for _, c := range cases {
		raw, err := c.Marshal()
		require.NoError(t, err)
		var got Coin
		require.NoError(t, got.Unmarshal(raw))
		assert.Equal(t, c, got)
	}

	var got Coin
	assert.True(t, errors.ErrInput.Is(got.Unmarshal([]byte{0x12, 0xFF})))
}

func TestCoinsSet(t *testing.T) {
	cs, err := CombineCoins(NewCoin(3, "ETH"), NewCoin(1, "DAI"), NewCoin(2, "ETH"), NewCoin(0, "BTC"))
	require.NoError(t, err)
	require.NoError(t, cs.Validate())
	assert.True(t, cs.Equals(Coins{NewCoin(1, "DAI"), NewCoin(5, "ETH")}))
	assert.Equal(t, NewAmount(5), cs.Get("ETH"))
	assert.True(t, cs.Get("BTC").IsZero())

	less, err := cs.Subtract(NewCoin(1, "DAI"))
	require.NoError(t, err)
	assert.True(t, less.Equals(Coins{NewCoin(5, "ETH")}))
	// The receiver is not modified.
	assert.Len(t, cs, 2)

	_, err = less.Subtract(NewCoin(1, "DAI"))
	assert.True(t, errors.ErrAmount.Is(err))
	_, err = less.Subtract(NewCoin(6, "ETH"))
	assert.True(t, errors.ErrAmount.Is(err))

	all, err := cs.Combine(Coins{NewCoin(1, "BTC"), NewCoin(1, "ETH")})
	require.NoError(t, err)
	assert.Equal(t, "1 BTC, 1 DAI, 6 ETH", all.String())

	assert.True(t, errors.ErrState.Is(Coins{NewCoin(1, "ETH"), NewCoin(1, "DAI")}.Validate()))
	assert.True(t, errors.ErrAmount.Is(Coins{NewCoin(0, "ETH")}.Validate()))
}
