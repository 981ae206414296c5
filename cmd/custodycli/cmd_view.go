package main

import (
	"encoding/json"
	"io"

	"github.com/crypto-guardian/custody"
	"github.com/crypto-guardian/custody/errors"
	"github.com/crypto-guardian/custody/x/sigs"
)

func cmdTransactionView(input io.Reader, output io.Writer, args []string) error {
	fl := newFlagSet("view", `
Decode and display transaction summary. This command is helpful when receiving
a binary representation of a transaction. Before signing you should check what
kind of operation are you authorizing.
`)
	if err := fl.Parse(args); err != nil {
		return err
	}

	tx, _, err := readTx(input)
	if err != nil {
		return err
	}
	msg, err := tx.GetMsg()
	if err != nil {
		return err
	}

	summary := struct {
		Path       string               `json:"path"`
		Msg        custody.Msg          `json:"msg"`
		Signatures []*sigs.StdSignature `json:"signatures,omitempty"`
	}{
		Path:       msg.Path(),
		Msg:        msg,
		Signatures: tx.Signatures,
	}
	pretty, err := json.MarshalIndent(summary, "", "\t")
	if err != nil {
		return errors.Wrap(err, "cannot JSON serialize")
	}
	_, err = output.Write(append(pretty, '\n'))
	return err
}
