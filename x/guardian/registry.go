package guardian

import (
	"github.com/crypto-guardian/custody"
	"github.com/crypto-guardian/custody/coin"
	"github.com/crypto-guardian/custody/errors"
)

// TotalShares is the sum of all beneficiary shares, 100.00% in basis
// points.
const TotalShares = 10000

// Beneficiary is an address entitled to a share of the custodied assets.
type Beneficiary struct {
	Address custody.Address `json:"address"`
	// Share in basis points, 1 to 10000.
	Share uint32 `json:"share"`
}

// Registry holds the validated beneficiaries and custodied assets. It cannot
// be modified once created.
type Registry struct {
	beneficiaries []Beneficiary
	assets        []string
}

// NewRegistry validates given beneficiaries and assets and returns a
// registry holding them in the given order.
func NewRegistry(beneficiaries []Beneficiary, assets []string) (*Registry, error) {
	if len(beneficiaries) == 0 {
		return nil, errors.Wrap(ErrInvalidShares, "no beneficiaries")
	}

	var sum uint64
	seen := make(map[string]struct{}, len(beneficiaries))
	for i, b := range beneficiaries {
		if err := b.Address.Validate(); err != nil {
			return nil, errors.Wrapf(ErrInvalidShares, "beneficiary %d: invalid address", i)
		}
		if _, ok := seen[string(b.Address)]; ok {
			return nil, errors.Wrapf(ErrInvalidShares, "beneficiary %d: duplicate %s", i, b.Address)
		}
		seen[string(b.Address)] = struct{}{}

		if b.Share == 0 || b.Share > TotalShares {
			return nil, errors.Wrapf(ErrInvalidShares, "beneficiary %d: share %d out of range", i, b.Share)
		}
		sum += uint64(b.Share)
	}
	if sum != TotalShares {
		return nil, errors.Wrapf(ErrInvalidShares, "shares sum to %d, want %d", sum, TotalShares)
	}

	tickers := make(map[string]struct{}, len(assets))
	for i, a := range assets {
		if !coin.IsTicker(a) {
			return nil, errors.Wrapf(ErrInvalidAssets, "asset %d: invalid ticker %q", i, a)
		}
		if _, ok := tickers[a]; ok {
			return nil, errors.Wrapf(ErrInvalidAssets, "asset %d: duplicate %s", i, a)
		}
		tickers[a] = struct{}{}
	}

	r := &Registry{
		beneficiaries: make([]Beneficiary, len(beneficiaries)),
		assets:        make([]string, len(assets)),
	}
	copy(r.beneficiaries, beneficiaries)
	copy(r.assets, assets)
	return r, nil
}

// BeneficiaryShare returns the share of given address. ok is false if the
// address is not a beneficiary.
func (r *Registry) BeneficiaryShare(addr custody.Address) (share uint32, ok bool) {
	for _, b := range r.beneficiaries {
		if b.Address.Equals(addr) {
			return b.Share, true
		}
	}
	return 0, false
}

// Assets returns the custodied tickers in registration order. An empty list
// means the native asset only.
func (r *Registry) Assets() []string {
	res := make([]string, len(r.assets))
	copy(res, r.assets)
	return res
}

// Beneficiaries returns all beneficiaries in registration order.
func (r *Registry) Beneficiaries() []Beneficiary {
	res := make([]Beneficiary, len(r.beneficiaries))
	copy(res, r.beneficiaries)
	return res
}

// TrackedAssets returns the registered assets, or the native ticker alone
// if none were registered.
func (r *Registry) TrackedAssets(native string) []string {
	if len(r.assets) == 0 {
		return []string{native}
	}
	return r.Assets()
}
