package orm

import (
	"bytes"

	"github.com/crypto-guardian/custody"
	"github.com/crypto-guardian/custody/errors"
	"github.com/crypto-guardian/custody/store"
)

// Indexer computes the index values of a model. A model may be indexed
// under any number of values, for example a guardian under the address of
// each of its beneficiaries.
type Indexer func(Model) ([][]byte, error)

// Index is a non unique secondary index of a bucket. Each (value, primary
// key) pair is stored as a separate key with an empty value:
//
//	<index>:<len(value)><value><primary key>
type Index struct {
	name   string
	prefix []byte
	fn     Indexer
	bucket Bucket
}

var _ custody.QueryHandler = (*Index)(nil)

func newIndex(name string, fn Indexer, b Bucket) *Index {
	return &Index{
		name:   name,
		prefix: append([]byte(name), ':'),
		fn:     fn,
		bucket: b,
	}
}

func (i *Index) valuePrefix(value []byte) ([]byte, error) {
	if len(value) == 0 || len(value) > 255 {
		return nil, errors.Wrapf(errors.ErrInput, "index value length %d", len(value))
	}
	out := make([]byte, 0, len(i.prefix)+1+len(value))
	out = append(out, i.prefix...)
	out = append(out, byte(len(value)))
	return append(out, value...), nil
}

func (i *Index) entry(value, key []byte) ([]byte, error) {
	pre, err := i.valuePrefix(value)
	if err != nil {
		return nil, err
	}
	return append(pre, key...), nil
}

func (i *Index) values(m Model) ([][]byte, error) {
	if m == nil {
		return nil, nil
	}
	return i.fn(m)
}

// update replaces the entries of prev with the entries of next. Either
// model may be nil.
func (i *Index) update(db custody.KVStore, key []byte, prev, next Model) error {
	old, err := i.values(prev)
	if err != nil {
		return err
	}
	fresh, err := i.values(next)
	if err != nil {
		return err
	}

	for _, v := range old {
		if contains(fresh, v) {
			continue
		}
		e, err := i.entry(v, key)
		if err != nil {
			return err
		}
		if err := db.Delete(e); err != nil {
			return err
		}
	}
	for _, v := range fresh {
		if contains(old, v) {
			continue
		}
		e, err := i.entry(v, key)
		if err != nil {
			return err
		}
		if err := db.Set(e, []byte{}); err != nil {
			return err
		}
	}
	return nil
}

// Keys returns the primary keys of all models indexed under given value, in
// ascending order.
func (i *Index) Keys(db custody.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	pre, err := i.valuePrefix(value)
	if err != nil {
		return nil, err
	}
	it, err := db.Iterator(pre, prefixEnd(pre))
	if err != nil {
		return nil, err
	}
	entries, err := store.ReadAll(it)
	if err != nil {
		return nil, err
	}
	keys := make([][]byte, 0, len(entries))
	for _, e := range entries {
		keys = append(keys, e.Key[len(pre):])
	}
	return keys, nil
}

// Query returns all models indexed under the value given as data. Only the
// key query mod is supported.
func (i *Index) Query(db custody.ReadOnlyKVStore, mod string, data []byte) ([]custody.Model, error) {
	if mod != custody.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unknown query mod: %s", mod)
	}
	keys, err := i.Keys(db, data)
	if err != nil {
		return nil, err
	}
	res := make([]custody.Model, 0, len(keys))
	for _, k := range keys {
		dbkey := i.bucket.DBKey(k)
		value, err := db.Get(dbkey)
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, errors.Wrapf(errors.ErrHuman, "dangling index %s entry %X", i.name, k)
		}
		res = append(res, custody.Pair(dbkey, value))
	}
	return res, nil
}

func contains(list [][]byte, v []byte) bool {
	for _, x := range list {
		if bytes.Equal(x, v) {
			return true
		}
	}
	return false
}
