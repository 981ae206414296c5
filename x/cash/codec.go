package cash

import (
	"github.com/crypto-guardian/custody"
	"github.com/crypto-guardian/custody/coin"
)

func (w *Wallet) Marshal() ([]byte, error) {
	var e custody.Encoder
	for _, c := range w.Coins {
		e.Message(1, c)
	}
	return e.Finish()
}

func (w *Wallet) Unmarshal(raw []byte) error {
	*w = Wallet{}
	d := custody.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			var c coin.Coin
			d.Message(&c)
			w.Coins = append(w.Coins, c)
		default:
			d.Skip()
		}
	}
	return d.Err()
}

func (m *SendMsg) Marshal() ([]byte, error) {
	var e custody.Encoder
	e.Bytes(1, m.Source)
	e.Bytes(2, m.Destination)
	if m.Amount != nil {
		e.Message(3, m.Amount)
	}
	e.String(4, m.Memo)
	return e.Finish()
}

func (m *SendMsg) Unmarshal(raw []byte) error {
	*m = SendMsg{}
	d := custody.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			m.Source = d.Bytes()
		case 2:
			m.Destination = d.Bytes()
		case 3:
			m.Amount = &coin.Coin{}
			d.Message(m.Amount)
		case 4:
			m.Memo = d.String()
		default:
			d.Skip()
		}
	}
	return d.Err()
}
