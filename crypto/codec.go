package crypto

import "github.com/crypto-guardian/custody"

// Public keys and signatures hold a single ed25519 field.

func marshalEd25519(b []byte) ([]byte, error) {
	var e custody.Encoder
	e.Bytes(1, b)
	return e.Finish()
}

func unmarshalEd25519(raw []byte) ([]byte, error) {
	var b []byte
	d := custody.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			b = d.Bytes()
		default:
			d.Skip()
		}
	}
	return b, d.Err()
}

// Marshal implements custody.Persistent.
func (p *PublicKey) Marshal() ([]byte, error) { return marshalEd25519(p.Ed25519) }

// Unmarshal implements custody.Persistent.
func (p *PublicKey) Unmarshal(raw []byte) (err error) {
	p.Ed25519, err = unmarshalEd25519(raw)
	return err
}

func (s *Signature) Marshal() ([]byte, error) { return marshalEd25519(s.Ed25519) }

func (s *Signature) Unmarshal(raw []byte) (err error) {
	s.Ed25519, err = unmarshalEd25519(raw)
	return err
}
