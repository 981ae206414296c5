package guardian

import (
	"github.com/crypto-guardian/custody"
	"github.com/crypto-guardian/custody/coin"
)

func (b Beneficiary) Marshal() ([]byte, error) {
	var e custody.Encoder
	e.Bytes(1, b.Address)
	e.Uint(2, uint64(b.Share))
	return e.Finish()
}

func (b *Beneficiary) Unmarshal(raw []byte) error {
	*b = Beneficiary{}
	d := custody.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			b.Address = d.Bytes()
		case 2:
			b.Share = uint32(d.Uint())
		default:
			d.Skip()
		}
	}
	return d.Err()
}

func marshalBeneficiaries(e *custody.Encoder, field int, bs []Beneficiary) {
	for _, b := range bs {
		e.Message(field, b)
	}
}

func unmarshalBeneficiary(d *custody.Decoder, bs []Beneficiary) []Beneficiary {
	var b Beneficiary
	d.Message(&b)
	return append(bs, b)
}

func (g *Guardian) Marshal() ([]byte, error) {
	var e custody.Encoder
	e.Bytes(1, g.Owner)
	marshalBeneficiaries(&e, 2, g.Beneficiaries)
	e.RepeatedString(3, g.Assets)
	e.Int(4, int64(g.Window))
	e.Int(5, int64(g.LastActiveAt))
	e.Bool(6, g.Distributed)
	return e.Finish()
}

func (g *Guardian) Unmarshal(raw []byte) error {
	*g = Guardian{}
	d := custody.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			g.Owner = d.Bytes()
		case 2:
			g.Beneficiaries = unmarshalBeneficiary(d, g.Beneficiaries)
		case 3:
			g.Assets = append(g.Assets, d.String())
		case 4:
			g.Window = custody.UnixDuration(d.Int())
		case 5:
			g.LastActiveAt = custody.UnixTime(d.Int())
		case 6:
			g.Distributed = d.Bool()
		default:
			d.Skip()
		}
	}
	return d.Err()
}

func (l Leg) Marshal() ([]byte, error) {
	var e custody.Encoder
	e.String(1, l.Ticker)
	e.Bytes(2, l.Beneficiary)
	e.Uint(3, l.Amount.Lo)
	e.Uint(4, l.Amount.Hi)
	e.Uint(5, uint64(l.Code))
	e.String(6, l.Error)
	return e.Finish()
}

func (l *Leg) Unmarshal(raw []byte) error {
	*l = Leg{}
	d := custody.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			l.Ticker = d.String()
		case 2:
			l.Beneficiary = d.Bytes()
		case 3:
			l.Amount.Lo = d.Uint()
		case 4:
			l.Amount.Hi = d.Uint()
		case 5:
			l.Code = uint32(d.Uint())
		case 6:
			l.Error = d.String()
		default:
			d.Skip()
		}
	}
	return d.Err()
}

func (r *Receipt) Marshal() ([]byte, error) {
	var e custody.Encoder
	e.Bytes(1, r.Claimant)
	e.Int(2, int64(r.ClaimedAt))
	for _, l := range r.Legs {
		e.Message(3, l)
	}
	return e.Finish()
}

func (r *Receipt) Unmarshal(raw []byte) error {
	*r = Receipt{}
	d := custody.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			r.Claimant = d.Bytes()
		case 2:
			r.ClaimedAt = custody.UnixTime(d.Int())
		case 3:
			var l Leg
			d.Message(&l)
			r.Legs = append(r.Legs, l)
		default:
			d.Skip()
		}
	}
	return d.Err()
}

func (c *Configuration) Marshal() ([]byte, error) {
	var e custody.Encoder
	e.Bytes(1, c.Owner)
	e.String(2, c.NativeTicker)
	e.Int(3, int64(c.MaxBeneficiaries))
	return e.Finish()
}

func (c *Configuration) Unmarshal(raw []byte) error {
	*c = Configuration{}
	d := custody.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			c.Owner = d.Bytes()
		case 2:
			c.NativeTicker = d.String()
		case 3:
			c.MaxBeneficiaries = int32(d.Int())
		default:
			d.Skip()
		}
	}
	return d.Err()
}

func (m *CreateMsg) Marshal() ([]byte, error) {
	var e custody.Encoder
	e.Bytes(1, m.Owner)
	marshalBeneficiaries(&e, 2, m.Beneficiaries)
	e.RepeatedString(3, m.Assets)
	e.Int(4, int64(m.Window))
	return e.Finish()
}

func (m *CreateMsg) Unmarshal(raw []byte) error {
	*m = CreateMsg{}
	d := custody.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			m.Owner = d.Bytes()
		case 2:
			m.Beneficiaries = unmarshalBeneficiary(d, m.Beneficiaries)
		case 3:
			m.Assets = append(m.Assets, d.String())
		case 4:
			m.Window = custody.UnixDuration(d.Int())
		default:
			d.Skip()
		}
	}
	return d.Err()
}

func (m *HeartbeatMsg) Marshal() ([]byte, error) {
	var e custody.Encoder
	e.Bytes(1, m.GuardianID)
	return e.Finish()
}

func (m *HeartbeatMsg) Unmarshal(raw []byte) error {
	*m = HeartbeatMsg{}
	d := custody.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			m.GuardianID = d.Bytes()
		default:
			d.Skip()
		}
	}
	return d.Err()
}

func (m *ClaimMsg) Marshal() ([]byte, error) {
	var e custody.Encoder
	e.Bytes(1, m.GuardianID)
	e.Bytes(2, m.Beneficiary)
	return e.Finish()
}

func (m *ClaimMsg) Unmarshal(raw []byte) error {
	*m = ClaimMsg{}
	d := custody.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			m.GuardianID = d.Bytes()
		case 2:
			m.Beneficiary = d.Bytes()
		default:
			d.Skip()
		}
	}
	return d.Err()
}

func (m *WithdrawMsg) Marshal() ([]byte, error) {
	var e custody.Encoder
	e.Bytes(1, m.GuardianID)
	e.Bytes(2, m.Destination)
	if m.Amount != nil {
		e.Message(3, m.Amount)
	}
	return e.Finish()
}

func (m *WithdrawMsg) Unmarshal(raw []byte) error {
	*m = WithdrawMsg{}
	d := custody.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			m.GuardianID = d.Bytes()
		case 2:
			m.Destination = d.Bytes()
		case 3:
			m.Amount = &coin.Coin{}
			d.Message(m.Amount)
		default:
			d.Skip()
		}
	}
	return d.Err()
}

func (m *UpdateConfigurationMsg) Marshal() ([]byte, error) {
	var e custody.Encoder
	if m.Patch != nil {
		e.Message(1, m.Patch)
	}
	return e.Finish()
}

func (m *UpdateConfigurationMsg) Unmarshal(raw []byte) error {
	*m = UpdateConfigurationMsg{}
	d := custody.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			m.Patch = &Configuration{}
			d.Message(m.Patch)
		default:
			d.Skip()
		}
	}
	return d.Err()
}
