/*
Package coin defines the fungible asset representation.

A Coin is an amount of the smallest indivisible units of an asset (like wei
or satoshi) together with the asset ticker. Amounts are unsigned 128 bit
integers, so the arithmetic is exact and never uses floating point.
*/
package coin

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/crypto-guardian/custody/errors"
	"lukechampine.com/uint128"
)

// Amount is an unsigned 128 bit number of the smallest asset units.
type Amount = uint128.Uint128

// IsTicker is the RegExp to ensure valid asset tickers.
var IsTicker = regexp.MustCompile(`^[A-Z][A-Z0-9]{2,4}$`).MatchString

var isDigits = regexp.MustCompile(`^[0-9]+$`).MatchString

// NewAmount returns an amount of given value.
func NewAmount(v uint64) Amount {
	return uint128.From64(v)
}

// ParseAmount parses a decimal representation of an amount.
func ParseAmount(s string) (Amount, error) {
	if !isDigits(s) {
		return uint128.Zero, errors.Wrapf(errors.ErrAmount, "not a number: %q", s)
	}
	a, err := uint128.FromString(s)
	if err != nil {
		return uint128.Zero, errors.Wrap(errors.ErrOverflow, err.Error())
	}
	return a, nil
}

// AddAmounts returns a+b or ErrOverflow.
func AddAmounts(a, b Amount) (Amount, error) {
	sum := a.AddWrap(b)
	if sum.Cmp(a) < 0 {
		return uint128.Zero, errors.Wrapf(errors.ErrOverflow, "%s + %s", a, b)
	}
	return sum, nil
}

// SubAmounts returns a-b or ErrAmount if b is greater than a.
func SubAmounts(a, b Amount) (Amount, error) {
	if a.Cmp(b) < 0 {
		return uint128.Zero, errors.Wrapf(errors.ErrAmount, "%s is less than %s", a, b)
	}
	return a.Sub(b), nil
}

// Coin is an amount of a single asset.
type Coin struct {
	Ticker string
	Amount Amount
}

// NewCoin creates a new coin object.
func NewCoin(amount uint64, ticker string) Coin {
	return Coin{
		Ticker: ticker,
		Amount: NewAmount(amount),
	}
}

// NewCoinp returns a pointer to a new coin.
func NewCoinp(amount uint64, ticker string) *Coin {
	c := NewCoin(amount, ticker)
	return &c
}

// IsZero returns true if the amount is zero.
func (c Coin) IsZero() bool {
	return c.Amount.IsZero()
}

// SameType returns true if both coins are of the same asset.
func (c Coin) SameType(o Coin) bool {
	return c.Ticker == o.Ticker
}

// Equals returns true if both coins are of the same asset and amount.
func (c Coin) Equals(o Coin) bool {
	return c.SameType(o) && c.Amount.Equals(o.Amount)
}

// Add returns the sum of two coins of the same asset.
func (c Coin) Add(o Coin) (Coin, error) {
	if !c.SameType(o) {
		return Coin{}, errors.Wrapf(errors.ErrCurrency, "adding %s to %s", o.Ticker, c.Ticker)
	}
	sum, err := AddAmounts(c.Amount, o.Amount)
	if err != nil {
		return Coin{}, err
	}
	return Coin{Ticker: c.Ticker, Amount: sum}, nil
}

// Subtract returns c-o. Coins are unsigned, subtracting a bigger amount
// fails with ErrAmount.
func (c Coin) Subtract(o Coin) (Coin, error) {
	if !c.SameType(o) {
		return Coin{}, errors.Wrapf(errors.ErrCurrency, "subtracting %s from %s", o.Ticker, c.Ticker)
	}
	diff, err := SubAmounts(c.Amount, o.Amount)
	if err != nil {
		return Coin{}, err
	}
	return Coin{Ticker: c.Ticker, Amount: diff}, nil
}

// Validate returns an error if the ticker is not valid.
func (c Coin) Validate() error {
	if !IsTicker(c.Ticker) {
		return errors.Wrapf(errors.ErrCurrency, "invalid ticker %q", c.Ticker)
	}
	return nil
}

// String provides a human readable representation of the coin, for example
// "1000000000 ETH". For a valid coin the result can be parsed back with
// ParseHumanFormat.
func (c Coin) String() string {
	if c.Ticker == "" {
		return c.Amount.String()
	}
	return c.Amount.String() + " " + c.Ticker
}

// MarshalJSON encodes the coin in its human readable format.
func (c Coin) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts the human readable format "<amount> <ticker>" or an
// object with the amount given as a decimal string.
func (c *Coin) UnmarshalJSON(raw []byte) error {
	var human string
	if err := json.Unmarshal(raw, &human); err == nil {
		parsed, err := ParseHumanFormat(human)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}

	var obj struct {
		Ticker string `json:"ticker"`
		Amount string `json:"amount"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	amount, err := ParseAmount(obj.Amount)
	if err != nil {
		return err
	}
	*c = Coin{Ticker: obj.Ticker, Amount: amount}
	return nil
}

// ParseHumanFormat parses a human readable coin representation:
//
//	"<amount> <ticker>"
func ParseHumanFormat(h string) (Coin, error) {
	parts := strings.Fields(h)
	if len(parts) != 2 {
		return Coin{}, errors.Wrapf(errors.ErrInput, "invalid coin format %q", h)
	}
	amount, err := ParseAmount(parts[0])
	if err != nil {
		return Coin{}, err
	}
	c := Coin{Ticker: parts[1], Amount: amount}
	if err := c.Validate(); err != nil {
		return Coin{}, err
	}
	return c, nil
}

// Set updates this coin value to what is provided. Together with String
// and Type this implements the pflag.Value interface.
func (c *Coin) Set(raw string) error {
	val, err := ParseHumanFormat(raw)
	if err != nil {
		return err
	}
	*c = val
	return nil
}

// Type returns the flag type name.
func (c *Coin) Type() string {
	return "coin"
}

// GoString is used by %#v.
func (c Coin) GoString() string {
	return fmt.Sprintf("coin.Coin{%q, %s}", c.Ticker, c.Amount)
}
