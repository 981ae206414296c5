package coin

import "github.com/crypto-guardian/custody"

// Marshal serializes the coin as described in codec.proto.
func (c Coin) Marshal() ([]byte, error) {
	var e custody.Encoder
	e.String(1, c.Ticker)
	e.Uint(2, c.Amount.Lo)
	e.Uint(3, c.Amount.Hi)
	return e.Finish()
}

// Unmarshal reverts Marshal.
func (c *Coin) Unmarshal(raw []byte) error {
	*c = Coin{}
	d := custody.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			c.Ticker = d.String()
		case 2:
			c.Amount.Lo = d.Uint()
		case 3:
			c.Amount.Hi = d.Uint()
		default:
			d.Skip()
		}
	}
	return d.Err()
}
