package cash

import (
	"github.com/crypto-guardian/custody"
	"github.com/crypto-guardian/custody/coin"
	"github.com/crypto-guardian/custody/errors"
)

// Controller is the functionality needed by other extensions to inspect and
// move coins.
type Controller interface {
	Balance(custody.ReadOnlyKVStore, custody.Address) (coin.Coins, error)
	MoveCoins(db custody.KVStore, src, dest custody.Address, amount coin.Coin) error
	CoinMint(db custody.KVStore, dest custody.Address, amount coin.Coin) error
}

// BaseController is the default Controller implementation backed by a
// wallet bucket.
type BaseController struct {
	bucket Bucket
}

var _ Controller = BaseController{}

// NewController returns a controller using given bucket.
func NewController(bucket Bucket) BaseController {
	return BaseController{bucket: bucket}
}

// Balance returns the coins held by given address. A missing wallet holds
// no coins.
func (c BaseController) Balance(db custody.ReadOnlyKVStore, addr custody.Address) (coin.Coins, error) {
	w, err := c.bucket.GetOrCreate(db, addr)
	if err != nil {
		return nil, errors.Wrap(err, "wallet")
	}
	return w.Coins, nil
}

// MoveCoins moves the given amount from src to dest. Fails if src does not
// hold enough coins.
func (c BaseController) MoveCoins(db custody.KVStore, src, dest custody.Address, amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if amount.IsZero() {
		return errors.Wrap(errors.ErrAmount, "zero value")
	}
	if src.Equals(dest) {
		return errors.Wrap(errors.ErrInput, "source and destination are the same")
	}

	sender, err := c.bucket.GetOrCreate(db, src)
	if err != nil {
		return errors.Wrap(err, "sender wallet")
	}
	if sender.Coins.IsEmpty() {
		return errors.Wrapf(errors.ErrEmpty, "empty wallet %s", src)
	}
	if sender.Coins, err = sender.Coins.Subtract(amount); err != nil {
		return errors.Wrapf(err, "insufficient funds of %s", src)
	}

	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return errors.Wrap(err, "recipient wallet")
	}
	if recipient.Coins, err = recipient.Coins.Add(amount); err != nil {
		return errors.Wrap(err, "recipient wallet")
	}

	if err := c.bucket.Save(db, src, sender); err != nil {
		return errors.Wrap(err, "save sender")
	}
	return c.bucket.Save(db, dest, recipient)
}

// CoinMint attempts to add the given amount of coins to the destination
// address. Fails if it overflows the wallet.
func (c BaseController) CoinMint(db custody.KVStore, dest custody.Address, amount coin.Coin) error {
	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return errors.Wrap(err, "wallet")
	}
	if recipient.Coins, err = recipient.Coins.Add(amount); err != nil {
		return err
	}
	return c.bucket.Save(db, dest, recipient)
}
