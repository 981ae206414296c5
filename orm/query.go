package orm

import (
	"github.com/crypto-guardian/custody"
	"github.com/crypto-guardian/custody/errors"
)

// RegisterQuery will register a root query (literal keys) under "/".
func RegisterQuery(qr custody.QueryRouter) {
	qr.Register("/", rawQuery{})
}

// rawQuery reads the store with no key prefix.
type rawQuery struct{}

func (rawQuery) Query(db custody.ReadOnlyKVStore, mod string, data []byte) ([]custody.Model, error) {
	switch mod {
	case custody.KeyQueryMod:
		value, err := db.Get(data)
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, nil
		}
		return []custody.Model{custody.Pair(data, value)}, nil
	case custody.PrefixQueryMod:
		return queryPrefix(db, data)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query mod: %s", mod)
	}
}
