package coin

import (
	"sort"
	"strings"

	"github.com/crypto-guardian/custody/errors"
)

// Coins is a set of coins, at most one per ticker, sorted by ticker and with
// no zero amounts. All methods return a new set and never modify the
// receiver.
type Coins []Coin

// CombineCoins creates a normalized set out of given coins.
func CombineCoins(cs ...Coin) (Coins, error) {
	var res Coins
	for _, c := range cs {
		var err error
		if res, err = res.Add(c); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// Clone returns a copy of the set.
func (cs Coins) Clone() Coins {
	if cs == nil {
		return nil
	}
	res := make(Coins, len(cs))
	copy(res, cs)
	return res
}

// Get returns the amount of given ticker. Missing tickers have zero amount.
func (cs Coins) Get(ticker string) Amount {
	if i, ok := cs.find(ticker); ok {
		return cs[i].Amount
	}
	return Amount{}
}

// Add returns a set with given coin added.
func (cs Coins) Add(c Coin) (Coins, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.IsZero() {
		return cs.Clone(), nil
	}

	i, ok := cs.find(c.Ticker)
	if !ok {
		res := make(Coins, 0, len(cs)+1)
		res = append(res, cs[:i]...)
		res = append(res, c)
		return append(res, cs[i:]...), nil
	}

	sum, err := cs[i].Add(c)
	if err != nil {
		return nil, err
	}
	res := cs.Clone()
	res[i] = sum
	return res, nil
}

// Subtract returns a set with given coin removed. Fails with ErrAmount if
// the set does not hold enough of that coin.
func (cs Coins) Subtract(c Coin) (Coins, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.IsZero() {
		return cs.Clone(), nil
	}

	i, ok := cs.find(c.Ticker)
	if !ok {
		return nil, errors.Wrapf(errors.ErrAmount, "no %s", c.Ticker)
	}
	diff, err := cs[i].Subtract(c)
	if err != nil {
		return nil, err
	}
	if diff.IsZero() {
		res := make(Coins, 0, len(cs)-1)
		res = append(res, cs[:i]...)
		return append(res, cs[i+1:]...), nil
	}
	res := cs.Clone()
	res[i] = diff
	return res, nil
}

// Combine returns the sum of both sets.
func (cs Coins) Combine(o Coins) (Coins, error) {
	res := cs.Clone()
	for _, c := range o {
		var err error
		if res, err = res.Add(c); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// IsEmpty returns true if the set holds no coins.
func (cs Coins) IsEmpty() bool {
	return len(cs) == 0
}

// Equals returns true if both sets hold the same coins.
func (cs Coins) Equals(o Coins) bool {
	if len(cs) != len(o) {
		return false
	}
	for i := range cs {
		if !cs[i].Equals(o[i]) {
			return false
		}
	}
	return true
}

// Validate returns an error if the set is not normalized.
func (cs Coins) Validate() error {
	for i, c := range cs {
		if err := c.Validate(); err != nil {
			return err
		}
		if c.IsZero() {
			return errors.Wrapf(errors.ErrAmount, "zero %s", c.Ticker)
		}
		if i > 0 && cs[i-1].Ticker >= c.Ticker {
			return errors.Wrap(errors.ErrState, "coins not sorted or duplicated")
		}
	}
	return nil
}

func (cs Coins) String() string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}

// find returns the index of given ticker, or the index it should be inserted
// at if it is not present.
func (cs Coins) find(ticker string) (int, bool) {
	i := sort.Search(len(cs), func(i int) bool { return cs[i].Ticker >= ticker })
	return i, i < len(cs) && cs[i].Ticker == ticker
}
