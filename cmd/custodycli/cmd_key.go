package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/crypto-guardian/custody/crypto"
	"github.com/crypto-guardian/custody/errors"
	"github.com/spf13/pflag"
)

// newFlagSet returns a flag set that reports parsing errors instead of
// terminating the process. Usage is printed on --help together with the
// flag defaults.
func newFlagSet(name, usage string) *pflag.FlagSet {
	fl := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fl.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		fl.PrintDefaults()
	}
	return fl
}

func flKeyPath(fl *pflag.FlagSet) *string {
	return fl.String("key", defaultKeyPath(),
		"Path to the private key file. You can use "+envPrivKey+" environment variable to set it.")
}

func cmdKeygen(input io.Reader, output io.Writer, args []string) error {
	fl := newFlagSet("keygen", `
Generate a new private key.

When successful a new file with binary content containing private key is
created. This command fails if the private key file already exists.

A key can be derived deterministically from a hex encoded master seed along
a SLIP-0010 path. Otherwise a random key is generated.
`)
	var (
		keyPathFl = flKeyPath(fl)
		seedFl    = fl.String("seed", "", "Hex encoded master seed to derive the key from.")
		pathFl    = fl.String("path", crypto.DefaultDerivationPath, "Derivation path used together with --seed.")
	)
	if err := fl.Parse(args); err != nil {
		return err
	}

	if _, err := os.Stat(*keyPathFl); !os.IsNotExist(err) {
		// Never overwrite an existing key. User must delete it first.
		return errors.Wrapf(errors.ErrDuplicate, "private key file %q already exists, delete this file and try again", *keyPathFl)
	}

	var key *crypto.PrivateKey
	if *seedFl == "" {
		key = crypto.GenPrivKeyEd25519()
	} else {
		seed, err := hex.DecodeString(*seedFl)
		if err != nil {
			return errors.Wrap(errors.ErrInput, "seed must be hex encoded")
		}
		if key, err = crypto.DeriveKey(seed, *pathFl); err != nil {
			return err
		}
	}

	fd, err := os.OpenFile(*keyPathFl, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0600)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot create private key file: %s", err)
	}
	defer fd.Close()

	if _, err := fd.Write(key.Ed25519); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot write private key: %s", err)
	}
	if err := fd.Close(); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot close private key file: %s", err)
	}
	return nil
}

func cmdKeyaddr(input io.Reader, output io.Writer, args []string) error {
	fl := newFlagSet("keyaddr", `
Print out the address associated with your private key.
`)
	var (
		keyPathFl = flKeyPath(fl)
		bech32Fl  = fl.String("bech32", "", "Print the address in bech32 format using given human readable prefix.")
	)
	if err := fl.Parse(args); err != nil {
		return err
	}

	key, err := decodePrivateKey(*keyPathFl)
	if err != nil {
		return err
	}
	addr := key.PublicKey().Address()
	if *bech32Fl == "" {
		_, err = fmt.Fprintln(output, addr)
		return err
	}
	enc, err := addr.Bech32(*bech32Fl)
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	_, err = fmt.Fprintln(output, enc)
	return err
}
