/*
Package iavl provides a merkle committed store backed by an iavl tree.

The tree lives in a tendermint database: goleveldb on disk for a running
node, or memory for tests.
*/
package iavl

import (
	"github.com/crypto-guardian/custody"
	"github.com/crypto-guardian/custody/errors"
	"github.com/crypto-guardian/custody/store"
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tendermint/libs/db"
)

const (
	// DefaultCacheSize is the number of tree nodes kept in memory.
	DefaultCacheSize = 10000

	// DefaultHistory is the number of versions kept on disk. Older
	// versions are pruned on commit.
	DefaultHistory = 20
)

// CommitStore manages an iavl committed state.
type CommitStore struct {
	tree    *iavl.MutableTree
	history int64
}

var _ custody.CommitKVStore = (*CommitStore)(nil)

// NewCommitStore creates a new store with disk backing in given directory.
// An empty directory creates an in memory store.
func NewCommitStore(dir, name string) *CommitStore {
	var db dbm.DB
	if dir == "" {
		db = dbm.NewMemDB()
	} else {
		db = dbm.NewDB(name, dbm.GoLevelDBBackend, dir)
	}
	return &CommitStore{
		tree:    iavl.NewMutableTree(db, DefaultCacheSize),
		history: DefaultHistory,
	}
}

// MockCommitStore creates an in memory store, useful for tests.
func MockCommitStore() *CommitStore {
	return NewCommitStore("", "")
}

// Get returns the value at last committed state. Returns nil iff key doesn't
// exist. Panics on nil key.
func (s *CommitStore) Get(key []byte) ([]byte, error) {
	_, val := s.tree.GetVersioned(key, s.tree.Version())
	return val, nil
}

// Commit the next version to disk, and returns info. Versions older than the
// configured history are deleted.
func (s *CommitStore) Commit() (custody.CommitID, error) {
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		return custody.CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if old := version - s.history; old > 0 && s.tree.VersionExists(old) {
		if err := s.tree.DeleteVersion(old); err != nil {
			return custody.CommitID{}, errors.Wrapf(errors.ErrDatabase, "prune version %d: %s", old, err)
		}
	}
	return custody.CommitID{
		Version: version,
		Hash:    hash,
	}, nil
}

// LoadLatestVersion loads the latest persisted version.
func (s *CommitStore) LoadLatestVersion() error {
	if _, err := s.tree.Load(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// LatestVersion returns info on the latest version saved to disk.
func (s *CommitStore) LatestVersion() (custody.CommitID, error) {
	return custody.CommitID{
		Version: s.tree.Version(),
		Hash:    s.tree.Hash(),
	}, nil
}

// CacheWrap gives us a savepoint to perform actions. All writes go to the
// working tree when the cache is written and become part of the next
// commit.
func (s *CommitStore) CacheWrap() custody.KVCacheWrap {
	return store.NewBTreeCacheWrap(&working{tree: s.tree})
}

// working exposes the uncommitted working tree as a KVStore.
type working struct {
	tree *iavl.MutableTree
}

var _ custody.KVStore = (*working)(nil)

func (w *working) Get(key []byte) ([]byte, error) {
	_, val := w.tree.Get(key)
	return val, nil
}

func (w *working) Has(key []byte) (bool, error) {
	return w.tree.Has(key), nil
}

func (w *working) Set(key, value []byte) error {
	w.tree.Set(key, value)
	return nil
}

func (w *working) Delete(key []byte) error {
	w.tree.Remove(key)
	return nil
}

func (w *working) Iterator(start, end []byte) (custody.Iterator, error) {
	return w.iterate(start, end, true), nil
}

func (w *working) ReverseIterator(start, end []byte) (custody.Iterator, error) {
	return w.iterate(start, end, false), nil
}

// iterate materializes the range, so that writes to the tree are safe while
// the iterator is in use.
func (w *working) iterate(start, end []byte, ascending bool) custody.Iterator {
	var res []store.Model
	w.tree.IterateRange(start, end, ascending, func(key, value []byte) bool {
		res = append(res, store.Pair(key, value))
		return false
	})
	return store.NewSliceIterator(res)
}
