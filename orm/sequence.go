package orm

import (
	"encoding/binary"

	"github.com/crypto-guardian/custody"
	"github.com/crypto-guardian/custody/errors"
)

// Sequence maintains a counter, and generates a series of keys. Each key is
// greater than the last, both as an integer and when compared with
// bytes.Compare.
type Sequence struct {
	id []byte
}

// NewSequence returns a sequence counter stored under the key
//
//	_s.<bucket>:<name>
func NewSequence(bucket, name string) Sequence {
	return Sequence{
		id: []byte("_s." + bucket + ":" + name),
	}
}

// NextVal increments the sequence and returns its state as 8 bytes.
func (s Sequence) NextVal(db custody.KVStore) ([]byte, error) {
	_, raw, err := s.increment(db, 1)
	return raw, err
}

// NextInt increments the sequence and returns its state as an integer.
func (s Sequence) NextInt(db custody.KVStore) (uint64, error) {
	val, _, err := s.increment(db, 1)
	return val, err
}

// Latest returns the most recently issued value without modifying the
// sequence.
func (s Sequence) Latest(db custody.KVStore) (uint64, error) {
	val, _, err := s.increment(db, 0)
	return val, err
}

func (s Sequence) increment(db custody.KVStore, inc uint64) (uint64, []byte, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return 0, nil, errors.Wrap(err, "db get")
	}
	val, err := DecodeSequence(raw)
	if err != nil {
		return 0, nil, err
	}
	if inc == 0 {
		return val, raw, nil
	}
	val += inc
	raw = EncodeSequence(val)
	if err := db.Set(s.id, raw); err != nil {
		return 0, nil, errors.Wrap(err, "db set")
	}
	return val, raw, nil
}

// EncodeSequence returns the big endian representation of given value.
func EncodeSequence(val uint64) []byte {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, val)
	return raw
}

// DecodeSequence is the inverse of EncodeSequence. A nil value decodes to
// zero.
func DecodeSequence(raw []byte) (uint64, error) {
	if raw == nil {
		return 0, nil
	}
	if len(raw) != 8 {
		return 0, errors.Wrapf(errors.ErrInput, "sequence value length %d", len(raw))
	}
	return binary.BigEndian.Uint64(raw), nil
}
