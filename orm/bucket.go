/*
Package orm provides an easy to use db wrapper.

Break state space into prefixed sections called Buckets.
  - Each bucket contains only one type of model.
  - A model is stored under its primary key, which may be generated from a
    sequence.
  - A bucket may possess secondary indexes (1:N), for example all guardians
    of an owner.
*/
package orm

import (
	"fmt"
	"regexp"

	"github.com/crypto-guardian/custody"
	"github.com/crypto-guardian/custody/errors"
	"github.com/crypto-guardian/custody/store"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// Model is the data stored in a bucket.
type Model interface {
	custody.Persistent
	Validate() error
}

// Bucket is a prefixed subspace of the DB that holds models of a single
// type.
type Bucket struct {
	name    string
	prefix  []byte
	build   func() Model
	seq     Sequence
	indexes map[string]*Index
}

var _ custody.QueryHandler = Bucket{}

// NewBucket creates a bucket to store data. build must return a new, empty
// instance of the stored model. Panics on illegal name.
func NewBucket(name string, build func() Model) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}
	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
		build:  build,
		seq:    NewSequence(name, "id"),
	}
}

// WithIndex returns a copy of this bucket with given index. Panics if an
// index with that name is already registered.
func (b Bucket) WithIndex(name string, fn Indexer) Bucket {
	if _, ok := b.indexes[name]; ok {
		panic(fmt.Sprintf("Index %s registered twice", name))
	}
	indexes := make(map[string]*Index, len(b.indexes)+1)
	for n, i := range b.indexes {
		indexes[n] = i
	}
	indexes[name] = newIndex(b.name+"_"+name, fn, b)
	b.indexes = indexes
	return b
}

// Name returns the bucket name.
func (b Bucket) Name() string {
	return b.name
}

// DBKey is the full key we store in the db, including prefix. A new slice
// is always allocated so that consecutive calls never share memory.
func (b Bucket) DBKey(key []byte) []byte {
	out := make([]byte, len(b.prefix)+len(key))
	copy(out, b.prefix)
	copy(out[len(b.prefix):], key)
	return out
}

// One loads the model stored under given key into dest. Returns ErrNotFound
// if no such model exists.
func (b Bucket) One(db custody.ReadOnlyKVStore, key []byte, dest Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrInput, "empty key")
	}
	raw, err := db.Get(b.DBKey(key))
	if err != nil {
		return errors.Wrap(err, "db get")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", b.name, key)
	}
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "unmarshal %s", b.name)
	}
	return nil
}

// Has returns nil if a model with given key exists and ErrNotFound
// otherwise.
func (b Bucket) Has(db custody.ReadOnlyKVStore, key []byte) error {
	ok, err := db.Has(b.DBKey(key))
	if err != nil {
		return errors.Wrap(err, "db has")
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", b.name, key)
	}
	return nil
}

// Put validates and saves given model. If key is nil, a new key is
// generated using the bucket sequence. Returns the key the model was stored
// under. A model that serializes to no bytes is rejected with ErrEmpty.
func (b Bucket) Put(db custody.KVStore, key []byte, m Model) ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid %s", b.name)
	}

	raw, err := m.Marshal()
	if err != nil {
		return nil, errors.Wrapf(err, "marshal %s", b.name)
	}
	// Stores cannot tell an empty value from a missing one.
	if len(raw) == 0 {
		return nil, errors.Wrapf(errors.ErrEmpty, "%s serializes to no bytes", b.name)
	}

	if key == nil {
		next, err := b.seq.NextVal(db)
		if err != nil {
			return nil, errors.Wrap(err, "next sequence value")
		}
		key = next
	}

	if err := b.updateIndexes(db, key, m); err != nil {
		return nil, err
	}
	if err := db.Set(b.DBKey(key), raw); err != nil {
		return nil, errors.Wrap(err, "db set")
	}
	return key, nil
}

// Delete removes the model stored under given key. Returns ErrNotFound if
// no such model exists.
func (b Bucket) Delete(db custody.KVStore, key []byte) error {
	if err := b.Has(db, key); err != nil {
		return err
	}
	if err := b.updateIndexes(db, key, nil); err != nil {
		return err
	}
	if err := db.Delete(b.DBKey(key)); err != nil {
		return errors.Wrap(err, "db delete")
	}
	return nil
}

// ByIndex returns the primary keys of all models that the named index maps
// given value to.
func (b Bucket) ByIndex(db custody.ReadOnlyKVStore, name string, value []byte) ([][]byte, error) {
	idx, ok := b.indexes[name]
	if !ok {
		return nil, errors.Wrapf(errors.ErrHuman, "unknown index %q", name)
	}
	return idx.Keys(db, value)
}

// Sequence returns the sequence used to generate primary keys.
func (b Bucket) Sequence() Sequence {
	return b.seq
}

func (b Bucket) updateIndexes(db custody.KVStore, key []byte, m Model) error {
	if len(b.indexes) == 0 {
		return nil
	}
	raw, err := db.Get(b.DBKey(key))
	if err != nil {
		return errors.Wrap(err, "db get")
	}
	var prev Model
	if raw != nil {
		prev = b.build()
		if err := prev.Unmarshal(raw); err != nil {
			return errors.Wrapf(err, "unmarshal %s", b.name)
		}
	}
	for _, idx := range b.indexes {
		if err := idx.update(db, key, prev, m); err != nil {
			return errors.Wrapf(err, "index %s", idx.name)
		}
	}
	return nil
}

// Register registers this Bucket and all its indexes in the query router.
// Name is used for the query path, which may differ from the bucket name.
func (b Bucket) Register(name string, r custody.QueryRouter) {
	if name == "" {
		name = b.name
	}
	root := "/" + name
	r.Register(root, b)
	for n, idx := range b.indexes {
		r.Register(root+"/"+n, idx)
	}
}

// Query handles queries from the QueryRouter.
func (b Bucket) Query(db custody.ReadOnlyKVStore, mod string, data []byte) ([]custody.Model, error) {
	switch mod {
	case custody.KeyQueryMod:
		key := b.DBKey(data)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, nil
		}
		return []custody.Model{custody.Pair(key, value)}, nil
	case custody.PrefixQueryMod:
		return queryPrefix(db, b.DBKey(data))
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query mod: %s", mod)
	}
}

// queryPrefix returns all models with a key starting with given prefix.
func queryPrefix(db custody.ReadOnlyKVStore, prefix []byte) ([]custody.Model, error) {
	it, err := db.Iterator(prefix, prefixEnd(prefix))
	if err != nil {
		return nil, err
	}
	return store.ReadAll(it)
}

// prefixEnd returns the first key that does not start with given prefix, or
// nil if no such key exists.
func prefixEnd(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xFF {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
