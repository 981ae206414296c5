package sigs

import (
	"github.com/crypto-guardian/custody"
	"github.com/crypto-guardian/custody/crypto"
)

func (u *UserData) Marshal() ([]byte, error) {
	var e custody.Encoder
	if u.Pubkey != nil {
		e.Message(1, u.Pubkey)
	}
	e.Int(2, u.Sequence)
	return e.Finish()
}

func (u *UserData) Unmarshal(raw []byte) error {
	*u = UserData{}
	d := custody.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			u.Pubkey = &crypto.PublicKey{}
			d.Message(u.Pubkey)
		case 2:
			u.Sequence = d.Int()
		default:
			d.Skip()
		}
	}
	return d.Err()
}

func (s *StdSignature) Marshal() ([]byte, error) {
	var e custody.Encoder
	e.Int(1, s.Sequence)
	if s.Pubkey != nil {
		e.Message(2, s.Pubkey)
	}
	if s.Signature != nil {
		e.Message(4, s.Signature)
	}
	return e.Finish()
}

func (s *StdSignature) Unmarshal(raw []byte) error {
	*s = StdSignature{}
	d := custody.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			s.Sequence = d.Int()
		case 2:
			s.Pubkey = &crypto.PublicKey{}
			d.Message(s.Pubkey)
		case 4:
			s.Signature = &crypto.Signature{}
			d.Message(s.Signature)
		default:
			d.Skip()
		}
	}
	return d.Err()
}
