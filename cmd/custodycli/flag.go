package main

import (
	"strconv"
	"strings"

	"github.com/crypto-guardian/custody"
	"github.com/crypto-guardian/custody/errors"
	"github.com/crypto-guardian/custody/x/guardian"
	"github.com/spf13/pflag"
)

// flAddress registers an address flag. Addresses are accepted in every
// format understood by custody.ParseAddress.
func flAddress(fl *pflag.FlagSet, name, usage string) *custody.Address {
	var a addressValue
	fl.Var(&a, name, usage)
	return (*custody.Address)(&a)
}

type addressValue custody.Address

func (a *addressValue) String() string { return custody.Address(*a).String() }

func (a *addressValue) Set(raw string) error {
	addr, err := custody.ParseAddress(raw)
	if err != nil {
		return err
	}
	*a = addressValue(addr)
	return nil
}

func (a *addressValue) Type() string { return "address" }

// flSequence registers a flag holding a numeric orm sequence ID, returned
// in its binary form.
func flSequence(fl *pflag.FlagSet, name, usage string) *sequenceValue {
	var s sequenceValue
	fl.Var(&s, name, usage)
	return &s
}

type sequenceValue []byte

func (s *sequenceValue) String() string {
	if len(*s) == 0 {
		return ""
	}
	n, err := fromSequence(*s)
	if err != nil {
		return "invalid"
	}
	return strconv.FormatUint(n, 10)
}

func (s *sequenceValue) Set(raw string) error {
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot parse %q as a sequence number", raw)
	}
	*s = sequenceID(n)
	return nil
}

func (s *sequenceValue) Type() string { return "id" }

// parseBeneficiary parses a beneficiary given as "<address>:<share>", where
// the share is expressed in basis points.
func parseBeneficiary(raw string) (guardian.Beneficiary, error) {
	idx := strings.LastIndex(raw, ":")
	if idx < 0 {
		return guardian.Beneficiary{}, errors.Wrapf(errors.ErrInput, "beneficiary %q must be <address>:<share>", raw)
	}
	addr, err := custody.ParseAddress(raw[:idx])
	if err != nil {
		return guardian.Beneficiary{}, errors.Wrapf(err, "beneficiary %q", raw)
	}
	share, err := strconv.ParseUint(raw[idx+1:], 10, 32)
	if err != nil {
		return guardian.Beneficiary{}, errors.Wrapf(errors.ErrInput, "beneficiary %q share", raw)
	}
	return guardian.Beneficiary{Address: addr, Share: uint32(share)}, nil
}
