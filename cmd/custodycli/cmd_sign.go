package main

import (
	"io"

	"github.com/crypto-guardian/custody/errors"
	"github.com/crypto-guardian/custody/x/sigs"
)

func cmdSignTransaction(input io.Reader, output io.Writer, args []string) error {
	fl := newFlagSet("sign", `
Sign given transaction. This is decoding a transaction data from standard
input, adds a signature and writes back to standard output signed transaction
content.

The chain ID is read from the node genesis and the signature sequence is the
next nonce of the signer, unless given explicitly.
`)
	var (
		tmAddrFl = fl.String("tm", env(envTMAddr, defaultTMAddr),
			"Tendermint node address. You can use "+envTMAddr+" environment variable to set it.")
		keyPathFl = flKeyPath(fl)
		chainIDFl = fl.String("chain-id", "", "Sign for given chain ID instead of the one declared by the node.")
		seqFl     = fl.Int64("seq", -1, "Signature sequence. The next nonce of the signer is used when negative.")
	)
	if err := fl.Parse(args); err != nil {
		return err
	}

	key, err := decodePrivateKey(*keyPathFl)
	if err != nil {
		return errors.Wrap(err, "cannot load private key")
	}

	tx, _, err := readTx(input)
	if err != nil {
		return err
	}

	client := newClient(*tmAddrFl)

	chainID := *chainIDFl
	if chainID == "" {
		if chainID, err = client.ChainID(); err != nil {
			return errors.Wrap(err, "cannot fetch chain ID")
		}
	}

	seq := *seqFl
	if seq < 0 {
		if seq, err = nextNonce(client, key.PublicKey().Address()); err != nil {
			return errors.Wrap(err, "cannot get the next sequence number")
		}
	}

	sig, err := sigs.SignTx(key, tx, chainID, seq)
	if err != nil {
		return errors.Wrap(err, "cannot sign transaction")
	}
	tx.Signatures = append(tx.Signatures, sig)

	_, err = writeTx(output, tx)
	return err
}

// nextNonce returns the sequence the next signature of given signer must
// use. Signers that never signed a transaction start at zero.
func nextNonce(c Client, signer []byte) (int64, error) {
	models, err := c.Query("/auth", "", signer)
	if err != nil {
		return 0, err
	}
	if len(models) == 0 {
		return 0, nil
	}
	var u sigs.UserData
	if err := u.Unmarshal(models[0].Value); err != nil {
		return 0, errors.Wrap(err, "user data")
	}
	return u.Sequence, nil
}
