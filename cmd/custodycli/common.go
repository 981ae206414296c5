package main

import (
	"encoding/binary"
	"io"
	"io/ioutil"
	"os"

	custodyd "github.com/crypto-guardian/custody/cmd/custodyd/app"
	"github.com/crypto-guardian/custody/crypto"
	"github.com/crypto-guardian/custody/errors"
	"github.com/crypto-guardian/custody/orm"
	"golang.org/x/crypto/ed25519"
)

const (
	envTMAddr  = "CUSTODYCLI_TM_ADDR"
	envPrivKey = "CUSTODYCLI_PRIV_KEY"

	defaultTMAddr = "http://localhost:26657"
)

// env returns the value of an environment variable if provided (even if
// empty) or a fallback value.
func env(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}

func defaultKeyPath() string {
	return env(envPrivKey, os.Getenv("HOME")+"/.custodycli.priv.key")
}

// sequenceID returns a sequence value encoded as implemented in the orm
// package.
func sequenceID(n uint64) []byte {
	return orm.EncodeSequence(n)
}

// fromSequence transforms given binary representation of a sequence value
// into a decimal form.
func fromSequence(b []byte) (uint64, error) {
	if len(b) != 8 {
		return 0, errors.Wrapf(errors.ErrInput, "sequence must be 8 bytes, got %d", len(b))
	}
	return orm.DecodeSequence(b)
}

// writeTx serializes the transaction. First bytes written contain the
// information how much space the transaction takes, so that many
// transactions can be streamed through a pipe.
func writeTx(w io.Writer, tx *custodyd.Tx) (int, error) {
	b, err := tx.Marshal()
	if err != nil {
		return 0, err
	}

	var size [txHeaderSize]byte
	binary.BigEndian.PutUint32(size[:], uint32(len(b)))

	if n, err := w.Write(size[:]); err != nil {
		return n, err
	}
	if n, err := w.Write(b); err != nil {
		return n + txHeaderSize, err
	}
	return txHeaderSize + len(b), nil
}

func readTx(r io.Reader) (*custodyd.Tx, int, error) {
	var size [txHeaderSize]byte
	if n, err := io.ReadFull(r, size[:]); err != nil {
		return nil, n, errors.Wrap(errors.ErrInput, "no transaction on input")
	}
	msgSize := binary.BigEndian.Uint32(size[:])
	raw := make([]byte, msgSize)
	if n, err := io.ReadFull(r, raw); err != nil {
		return nil, n + txHeaderSize, errors.Wrap(errors.ErrInput, "truncated transaction")
	}

	var tx custodyd.Tx
	if err := tx.Unmarshal(raw); err != nil {
		return nil, int(msgSize + txHeaderSize), err
	}
	return &tx, int(msgSize + txHeaderSize), nil
}

const txHeaderSize = 4

func decodePrivateKey(path string) (*crypto.PrivateKey, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "cannot read %q file: %s", path, err)
	}
	if len(data) != ed25519.PrivateKeySize {
		return nil, errors.Wrapf(errors.ErrInput, "invalid private key length: %d", len(data))
	}
	return &crypto.PrivateKey{Ed25519: data}, nil
}
