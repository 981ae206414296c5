package main

import (
	"io"

	custodyd "github.com/crypto-guardian/custody/cmd/custodyd/app"
	"github.com/crypto-guardian/custody/coin"
	"github.com/crypto-guardian/custody/errors"
	"github.com/crypto-guardian/custody/x/cash"
)

func cmdSendTokens(input io.Reader, output io.Writer, args []string) error {
	fl := newFlagSet("send-tokens", `
Create a transaction for transferring funds from the source to the
destination account. Funding a guardian is done by sending tokens to its
custody address.
`)
	var (
		srcFl    = flAddress(fl, "src", "A source account address that the founds are send from.")
		dstFl    = flAddress(fl, "dst", "A destination account address that the founds are send to.")
		amountFl = &coin.Coin{}
		memoFl   = fl.String("memo", "", "A short message attached to the transfer.")
	)
	fl.Var(amountFl, "amount", `An amount that is to be transferred, for example "1000 ETH".`)
	if err := fl.Parse(args); err != nil {
		return err
	}

	msg := cash.SendMsg{
		Source:      *srcFl,
		Destination: *dstFl,
		Amount:      amountFl,
		Memo:        *memoFl,
	}
	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "given data produce an invalid message")
	}
	_, err := writeTx(output, &custodyd.Tx{Msg: &msg})
	return err
}
