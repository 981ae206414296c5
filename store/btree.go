package store

import (
	"bytes"

	"github.com/crypto-guardian/custody"
	"github.com/crypto-guardian/custody/errors"
	"github.com/google/btree"
)

// btreeDegree is the degree of every cache btree. Caches are short lived
// and small, so a low degree is good enough.
const btreeDegree = 8

// BTreeCacheWrap places a btree cache over a KVStore. All writes are kept in
// memory until Write is called. Reads see the cached writes on top of the
// parent state.
type BTreeCacheWrap struct {
	bt     *btree.BTree
	parent custody.KVStore
}

var _ custody.KVCacheWrap = (*BTreeCacheWrap)(nil)

// NewBTreeCacheWrap initializes a BTree to cache around this kv store.
func NewBTreeCacheWrap(parent custody.KVStore) *BTreeCacheWrap {
	return &BTreeCacheWrap{
		bt:     btree.New(btreeDegree),
		parent: parent,
	}
}

// MemStore returns a simple implementation useful for tests. There is no
// persistence here.
func MemStore() custody.CacheableKVStore {
	return NewBTreeCacheWrap(emptyStore{})
}

// CacheWrap layers another BTree on top of this one.
func (b *BTreeCacheWrap) CacheWrap() custody.KVCacheWrap {
	return NewBTreeCacheWrap(b)
}

// Write applies all cached operations to the parent store, in key order, and
// then clears the cache.
func (b *BTreeCacheWrap) Write() error {
	var err error
	b.bt.Ascend(func(i btree.Item) bool {
		it := i.(item)
		if it.deleted {
			err = b.parent.Delete(it.key)
		} else {
			err = b.parent.Set(it.key, it.value)
		}
		return err == nil
	})
	b.Discard()
	if err != nil {
		return errors.Wrap(err, "write cache")
	}
	return nil
}

// Discard drops all cached operations.
func (b *BTreeCacheWrap) Discard() {
	b.bt.Clear(false)
}

// Set writes to the BTree.
func (b *BTreeCacheWrap) Set(key, value []byte) error {
	if key == nil {
		panic("nil key")
	}
	b.bt.ReplaceOrInsert(item{key: key, value: value})
	return nil
}

// Delete marks the key as deleted in the BTree.
func (b *BTreeCacheWrap) Delete(key []byte) error {
	if key == nil {
		panic("nil key")
	}
	b.bt.ReplaceOrInsert(item{key: key, deleted: true})
	return nil
}

// Get reads from btree if there, else from the parent store.
func (b *BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	if res := b.bt.Get(item{key: key}); res != nil {
		it := res.(item)
		if it.deleted {
			return nil, nil
		}
		return it.value, nil
	}
	return b.parent.Get(key)
}

// Has reads from btree if there, else from the parent store.
func (b *BTreeCacheWrap) Has(key []byte) (bool, error) {
	if res := b.bt.Get(item{key: key}); res != nil {
		return !res.(item).deleted, nil
	}
	return b.parent.Has(key)
}

// Iterator over a domain of keys in ascending order. Combines results from
// btree and the parent store.
func (b *BTreeCacheWrap) Iterator(start, end []byte) (custody.Iterator, error) {
	parent, err := b.parent.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	below, err := ReadAll(parent)
	if err != nil {
		return nil, err
	}
	return NewSliceIterator(merge(below, b.collect(start, end), true)), nil
}

// ReverseIterator over a domain of keys in descending order. Combines results
// from btree and the parent store.
func (b *BTreeCacheWrap) ReverseIterator(start, end []byte) (custody.Iterator, error) {
	parent, err := b.parent.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	below, err := ReadAll(parent)
	if err != nil {
		return nil, err
	}
	cached := b.collect(start, end)
	for i, j := 0, len(cached)-1; i < j; i, j = i+1, j-1 {
		cached[i], cached[j] = cached[j], cached[i]
	}
	return NewSliceIterator(merge(below, cached, false)), nil
}

// collect returns all cached items within [start, end) in ascending order.
func (b *BTreeCacheWrap) collect(start, end []byte) []item {
	var res []item
	add := func(i btree.Item) bool {
		res = append(res, i.(item))
		return true
	}
	switch {
	case start == nil && end == nil:
		b.bt.Ascend(add)
	case start == nil:
		b.bt.AscendLessThan(item{key: end}, add)
	case end == nil:
		b.bt.AscendGreaterOrEqual(item{key: start}, add)
	default:
		b.bt.AscendRange(item{key: start}, item{key: end}, add)
	}
	return res
}

// merge joins parent models with cached items. Both lists must be sorted in
// the same direction. Cached items take precedence and deleted items hide
// the parent value.
func merge(parent []Model, cached []item, ascending bool) []Model {
	before := func(a, b []byte) bool {
		if ascending {
			return bytes.Compare(a, b) < 0
		}
		return bytes.Compare(a, b) > 0
	}

	res := make([]Model, 0, len(parent)+len(cached))
	var i, j int
	for i < len(parent) || j < len(cached) {
		switch {
		case j == len(cached) || (i < len(parent) && before(parent[i].Key, cached[j].key)):
			res = append(res, parent[i])
			i++
		default:
			c := cached[j]
			if i < len(parent) && bytes.Equal(parent[i].Key, c.key) {
				i++
			}
			if !c.deleted {
				res = append(res, Pair(c.key, c.value))
			}
			j++
		}
	}
	return res
}

// item is the btree element. A deleted item shadows the parent value.
type item struct {
	key     []byte
	value   []byte
	deleted bool
}

func (i item) Less(other btree.Item) bool {
	return bytes.Compare(i.key, other.(item).key) < 0
}

// emptyStore is the bottom of a MemStore.
type emptyStore struct{}

func (emptyStore) Get([]byte) ([]byte, error) { return nil, nil }
func (emptyStore) Has([]byte) (bool, error)   { return false, nil }
func (emptyStore) Set([]byte, []byte) error {
	return errors.Wrap(errors.ErrHuman, "cannot write to an empty store")
}
func (emptyStore) Delete([]byte) error {
	return errors.Wrap(errors.ErrHuman, "cannot write to an empty store")
}
func (emptyStore) Iterator(start, end []byte) (custody.Iterator, error) {
	return NewSliceIterator(nil), nil
}
func (emptyStore) ReverseIterator(start, end []byte) (custody.Iterator, error) {
	return NewSliceIterator(nil), nil
}
