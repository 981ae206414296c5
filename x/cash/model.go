package cash

import (
	"github.com/crypto-guardian/custody"
	"github.com/crypto-guardian/custody/coin"
	"github.com/crypto-guardian/custody/errors"
	"github.com/crypto-guardian/custody/orm"
)

// BucketName is where we store the balances.
const BucketName = "cash"

// Wallet holds the coins of a single address.
type Wallet struct {
	Coins coin.Coins
}

var _ orm.Model = (*Wallet)(nil)

// Validate requires that all coins are sorted, unique and non zero.
func (w *Wallet) Validate() error {
	return errors.Field("Coins", w.Coins.Validate(), "")
}

// Bucket stores wallets under their owner address.
type Bucket struct {
	orm.Bucket
}

// NewBucket initializes a cash bucket.
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(BucketName, func() orm.Model { return &Wallet{} }),
	}
}

// GetOrCreate returns the wallet of given address. A missing wallet is
// returned as an empty one.
func (b Bucket) GetOrCreate(db custody.ReadOnlyKVStore, addr custody.Address) (*Wallet, error) {
	var w Wallet
	switch err := b.One(db, addr, &w); {
	case err == nil, errors.ErrNotFound.Is(err):
		return &w, nil
	default:
		return nil, err
	}
}

// Save stores the wallet. Empty wallets are removed.
func (b Bucket) Save(db custody.KVStore, addr custody.Address, w *Wallet) error {
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "wallet address")
	}
	if w.Coins.IsEmpty() {
		if err := b.Delete(db, addr); err != nil && !errors.ErrNotFound.Is(err) {
			return err
		}
		return nil
	}
	_, err := b.Put(db, addr, w)
	return err
}
