package main

import (
	"encoding/json"
	"io"
	"time"

	"github.com/crypto-guardian/custody"
	custodyd "github.com/crypto-guardian/custody/cmd/custodyd/app"
	"github.com/crypto-guardian/custody/coin"
	"github.com/crypto-guardian/custody/errors"
	"github.com/crypto-guardian/custody/gconf"
	"github.com/crypto-guardian/custody/x/guardian"
)

func cmdCreateGuardian(input io.Reader, output io.Writer, args []string) error {
	fl := newFlagSet("create-guardian", `
Create a transaction that registers a new guardian. The owner must sign it.

Each beneficiary is given as <address>:<share>, with the share expressed in
basis points. Shares of all beneficiaries must sum to 10000.
`)
	var (
		ownerFl         = flAddress(fl, "owner", "Address of the owner, whose activity is tracked.")
		beneficiariesFl = fl.StringArray("beneficiary", nil, "Beneficiary as <address>:<share>. Repeat for each beneficiary.")
		assetsFl        = fl.StringSlice("asset", nil, "Ticker of an asset to distribute. When none is given, only the native asset is distributed.")
		windowFl        = fl.Duration("window", 30*24*time.Hour, "Inactivity window after which beneficiaries can claim.")
	)
	if err := fl.Parse(args); err != nil {
		return err
	}

	msg := guardian.CreateMsg{
		Owner:  *ownerFl,
		Assets: *assetsFl,
		Window: custody.AsUnixDuration(*windowFl),
	}
	for _, raw := range *beneficiariesFl {
		b, err := parseBeneficiary(raw)
		if err != nil {
			return err
		}
		msg.Beneficiaries = append(msg.Beneficiaries, b)
	}
	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "given data produce an invalid message")
	}
	_, err := writeTx(output, &custodyd.Tx{Msg: &msg})
	return err
}

func cmdHeartbeat(input io.Reader, output io.Writer, args []string) error {
	fl := newFlagSet("heartbeat", `
Create a transaction that proves the owner of a guardian is still active.
The owner must sign it.
`)
	idFl := flSequence(fl, "guardian", "ID of the guardian.")
	if err := fl.Parse(args); err != nil {
		return err
	}

	msg := guardian.HeartbeatMsg{GuardianID: *idFl}
	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "given data produce an invalid message")
	}
	_, err := writeTx(output, &custodyd.Tx{Msg: &msg})
	return err
}

func cmdClaim(input io.Reader, output io.Writer, args []string) error {
	fl := newFlagSet("claim", `
Create a transaction that distributes the assets of an inactive owner among
all beneficiaries. The claiming beneficiary must sign it.
`)
	var (
		idFl          = flSequence(fl, "guardian", "ID of the guardian.")
		beneficiaryFl = flAddress(fl, "beneficiary", "Address of the claiming beneficiary.")
	)
	if err := fl.Parse(args); err != nil {
		return err
	}

	msg := guardian.ClaimMsg{
		GuardianID:  *idFl,
		Beneficiary: *beneficiaryFl,
	}
	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "given data produce an invalid message")
	}
	_, err := writeTx(output, &custodyd.Tx{Msg: &msg})
	return err
}

func cmdWithdraw(input io.Reader, output io.Writer, args []string) error {
	fl := newFlagSet("withdraw", `
Create a transaction that moves funds out of the guardian custody. Allowed
only until the assets are distributed. The owner must sign it.
`)
	var (
		idFl     = flSequence(fl, "guardian", "ID of the guardian.")
		dstFl    = flAddress(fl, "dst", "A destination account address.")
		amountFl = &coin.Coin{}
	)
	fl.Var(amountFl, "amount", `An amount to withdraw, for example "1000 ETH".`)
	if err := fl.Parse(args); err != nil {
		return err
	}

	msg := guardian.WithdrawMsg{
		GuardianID:  *idFl,
		Destination: *dstFl,
		Amount:      amountFl,
	}
	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "given data produce an invalid message")
	}
	_, err := writeTx(output, &custodyd.Tx{Msg: &msg})
	return err
}

// guardianStatus is the human readable summary of a guardian.
type guardianStatus struct {
	ID             uint64                 `json:"id"`
	CustodyAddress custody.Address        `json:"custody_address"`
	State          string                 `json:"state"`
	Owner          custody.Address        `json:"owner"`
	LastActiveAt   custody.UnixTime       `json:"last_active_at"`
	InactiveAt     custody.UnixTime       `json:"inactive_at"`
	Beneficiaries  []guardian.Beneficiary `json:"beneficiaries"`
	Assets         []string               `json:"assets"`
}

func cmdStatus(input io.Reader, output io.Writer, args []string) error {
	fl := newFlagSet("status", `
Print the current state of a guardian: whether the owner is active, the
guardian can be claimed or the assets were already distributed.
`)
	var (
		tmAddrFl = fl.String("tm", env(envTMAddr, defaultTMAddr),
			"Tendermint node address. You can use "+envTMAddr+" environment variable to set it.")
		idFl  = flSequence(fl, "guardian", "ID of the guardian.")
		nowFl = fl.String("now", "", "Evaluate the state at given RFC3339 time instead of the current time.")
	)
	if err := fl.Parse(args); err != nil {
		return err
	}
	if len(*idFl) == 0 {
		return errors.Field("guardian", errors.ErrEmpty, "required")
	}

	now := time.Now()
	if *nowFl != "" {
		t, err := time.Parse(time.RFC3339, *nowFl)
		if err != nil {
			return errors.Wrapf(errors.ErrInput, "cannot parse --now: %s", err)
		}
		now = t
	}

	client := newClient(*tmAddrFl)

	var g guardian.Guardian
	if err := queryOne(client, "/guardians", *idFl, &g); err != nil {
		return errors.Wrap(err, "guardian")
	}
	var conf guardian.Configuration
	if err := queryOne(client, "/", gconf.Key("guardian"), &conf); err != nil {
		return errors.Wrap(err, "configuration")
	}
	ctrl, err := g.Controller(conf.NativeTicker)
	if err != nil {
		return errors.Wrap(err, "stored guardian")
	}
	id, err := fromSequence(*idFl)
	if err != nil {
		return err
	}

	status := guardianStatus{
		ID:             id,
		CustodyAddress: guardian.CustodyAddress(*idFl),
		State:          ctrl.Status(custody.AsUnixTime(now)).String(),
		Owner:          g.Owner,
		LastActiveAt:   g.LastActiveAt,
		InactiveAt:     g.LastActiveAt.Add(g.Window),
		Beneficiaries:  g.Beneficiaries,
		Assets:         ctrl.Registry().TrackedAssets(conf.NativeTicker),
	}
	raw, err := json.MarshalIndent(status, "", "\t")
	if err != nil {
		return errors.Wrap(err, "cannot serialize status")
	}
	_, err = output.Write(append(raw, '\n'))
	return err
}

// queryOne loads a single model stored under given key.
func queryOne(c Client, path string, key []byte, dest custody.Persistent) error {
	models, err := c.Query(path, custody.KeyQueryMod, key)
	if err != nil {
		return err
	}
	if len(models) == 0 {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", path, key)
	}
	return dest.Unmarshal(models[0].Value)
}
