// Package bech32 wraps the btcutil bech32 implementation with conversion of
// the payload between 8 and 5 bit groups.
package bech32

import (
	"github.com/btcsuite/btcutil/bech32"
	"github.com/crypto-guardian/custody/errors"
)

// Decode converts given bech32 encoded representation into the human
// readable part and the raw payload.
func Decode(raw string) (string, []byte, error) {
	hrp, data, err := bech32.Decode(raw)
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	payload, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return hrp, payload, nil
}

// Encode converts given payload into its bech32 representation.
func Encode(hrp string, payload []byte) ([]byte, error) {
	data, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	raw, err := bech32.Encode(hrp, data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return []byte(raw), nil
}
