package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/crypto-guardian/custody"
	"github.com/crypto-guardian/custody/errors"
	"github.com/crypto-guardian/custody/x/guardian"
)

func cmdSubmitTransaction(input io.Reader, output io.Writer, args []string) error {
	fl := newFlagSet("submit", `
Read binary serialized transaction from standard input and submit it.

For certain transactions response is written out. Make sure to collect enough
signatures before submitting the transaction.
`)
	var (
		tmAddrFl = fl.String("tm", env(envTMAddr, defaultTMAddr),
			"Tendermint node address. You can use "+envTMAddr+" environment variable to set it.")
	)
	if err := fl.Parse(args); err != nil {
		return err
	}

	tx, _, err := readTx(input)
	if err != nil {
		return errors.Wrap(err, "cannot read transaction from input")
	}
	raw, err := tx.Marshal()
	if err != nil {
		return errors.Wrap(err, "cannot serialize transaction")
	}

	resp, err := newClient(*tmAddrFl).Broadcast(raw)
	if err != nil {
		return errors.Wrap(err, "cannot broadcast transaction")
	}

	msg, err := tx.GetMsg()
	if err != nil {
		return err
	}
	pretty, err := extractResponse(msg, resp.Data, formatters)
	if err != nil {
		return errors.Wrap(err, "cannot extract response")
	}
	if pretty != "" {
		_, err = fmt.Fprintln(output, pretty)
	}
	return err
}

// extractResponse returns a human readable representation of the response
// data of given message. It returns no data (and no error) if the response is
// not worth showing to the user.
func extractResponse(msg custody.Msg, data []byte, fmts map[string]func([]byte) (string, error)) (string, error) {
	format, ok := fmts[msg.Path()]
	if !ok {
		return "", nil
	}
	pretty, err := format(data)
	if err != nil {
		return "", errors.Wrapf(err, "cannot format result data %x", data)
	}
	return pretty, nil
}

// formatters contains a mapping of a message path to response parser.
//
// Do not register a message if you want response returned after its
// submission to be ignored (not printed to the user).
var formatters = map[string]func([]byte) (string, error){
	guardian.CreateMsg{}.Path(): fmtSequence,
	guardian.ClaimMsg{}.Path():  fmtReceipt,
}

func fmtSequence(raw []byte) (string, error) {
	n, err := fromSequence(raw)
	if err != nil {
		return "", err
	}
	return fmt.Sprint(n), nil
}

func fmtReceipt(raw []byte) (string, error) {
	var r guardian.Receipt
	if err := r.Unmarshal(raw); err != nil {
		return "", errors.Wrap(err, "receipt")
	}
	pretty, err := json.MarshalIndent(r, "", "\t")
	if err != nil {
		return "", errors.Wrap(err, "cannot JSON serialize")
	}
	return string(pretty), nil
}
