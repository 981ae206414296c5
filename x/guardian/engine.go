package guardian

import (
	"sort"

	"github.com/crypto-guardian/custody"
	"github.com/crypto-guardian/custody/coin"
	"github.com/crypto-guardian/custody/errors"
)

// Allocation is the amount of a single asset due to a beneficiary.
type Allocation struct {
	Beneficiary custody.Address
	Amount      coin.Amount
}

// TransferFunc moves amount of ticker from the custody to the beneficiary.
// A failed transfer must leave no partial effect.
type TransferFunc func(ticker string, beneficiary custody.Address, amount coin.Amount) error

// ComputeShares splits total between the registry beneficiaries, in
// registry order. Each beneficiary receives floor(total * share / 10000) and
// the rounding remainder goes to the first beneficiary, so the amounts
// always sum up to total.
func ComputeShares(total coin.Amount, r *Registry) []Allocation {
	// total * share would overflow 128 bits, so both parts of
	// total = q*10000 + rem are scaled separately.
	q, rem := total.QuoRem64(TotalShares)

	allocs := make([]Allocation, len(r.beneficiaries))
	sum := coin.Amount{}
	for i, b := range r.beneficiaries {
		share := uint64(b.Share)
		amount := q.Mul64(share).Add64(rem * share / TotalShares)
		allocs[i] = Allocation{Beneficiary: b.Address, Amount: amount}
		sum = sum.Add(amount)
	}
	if len(allocs) > 0 {
		allocs[0].Amount = allocs[0].Amount.Add(total.Sub(sum))
	}
	return allocs
}

// Execute computes the allocations of every asset and transfers them using
// the given function. Assets are processed in registry order. If the
// registry holds no assets, all balances are processed ordered by ticker.
//
// A failing transfer does not stop the distribution. It is recorded in the
// receipt and the returned error, wrapping ErrTransferFailed, lists all
// failures. The receipt is always returned.
func Execute(r *Registry, balances map[string]coin.Amount, transfer TransferFunc) (*Receipt, error) {
	assets := r.Assets()
	if len(assets) == 0 {
		for ticker := range balances {
			assets = append(assets, ticker)
		}
		sort.Strings(assets)
	}

	var (
		receipt Receipt
		failed  error
	)
	for _, ticker := range assets {
		total := balances[ticker]
		if total.IsZero() {
			continue
		}
		for _, a := range ComputeShares(total, r) {
			if a.Amount.IsZero() {
				continue
			}
			leg := Leg{
				Ticker:      ticker,
				Beneficiary: a.Beneficiary,
				Amount:      a.Amount,
			}
			if err := transfer(ticker, a.Beneficiary, a.Amount); err != nil {
				leg.Code = errors.Code(err)
				leg.Error = err.Error()
				failed = errors.Append(failed,
					errors.Wrapf(ErrTransferFailed, "%s %s to %s: %s", a.Amount, ticker, a.Beneficiary, err))
			}
			receipt.Legs = append(receipt.Legs, leg)
		}
	}
	return &receipt, failed
}
