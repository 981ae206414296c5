package store

import (
	"github.com/crypto-guardian/custody"
	"github.com/crypto-guardian/custody/errors"
)

// Model is a key value pair as returned by an iterator.
type Model = custody.Model

// SliceIterator iterates over a materialized, already ordered list of
// models.
type SliceIterator struct {
	data []Model
	idx  int
}

var _ custody.Iterator = (*SliceIterator)(nil)

// NewSliceIterator creates a new Iterator over this slice.
func NewSliceIterator(data []Model) *SliceIterator {
	return &SliceIterator{data: data}
}

// Next returns the next element or ErrIteratorDone.
func (s *SliceIterator) Next() ([]byte, []byte, error) {
	if s.idx >= len(s.data) {
		return nil, nil, errors.ErrIteratorDone
	}
	m := s.data[s.idx]
	s.idx++
	return m.Key, m.Value, nil
}

// Release releases the data.
func (s *SliceIterator) Release() {
	s.data = nil
}

// ReadAll consumes given iterator and returns all its elements. The iterator
// is released.
func ReadAll(it custody.Iterator) ([]Model, error) {
	defer it.Release()
	var res []Model
	for {
		key, value, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res, nil
		}
		if err != nil {
			return nil, err
		}
		res = append(res, Pair(key, value))
	}
}

// Pair constructs a model from a key-value pair.
func Pair(key, value []byte) Model {
	return custody.Pair(key, value)
}
