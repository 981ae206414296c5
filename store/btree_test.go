package store

import (
	"testing"

	"github.com/crypto-guardian/custody"
	"github.com/crypto-guardian/custody/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keys(t *testing.T, it custody.Iterator, err error) []string {
	t.Helper()
	require.NoError(t, err)
	models, err := ReadAll(it)
	require.NoError(t, err)
	var res []string
	for _, m := range models {
		res = append(res, string(m.Key))
	}
	return res
}

func TestCacheWrapReadsAndWrites(t *testing.T) {
	base := MemStore()
	require.NoError(t, base.Set([]byte("a"), []byte("1")))
	require.NoError(t, base.Set([]byte("c"), []byte("3")))

	cache := base.CacheWrap()
	require.NoError(t, cache.Set([]byte("b"), []byte("2")))
	require.NoError(t, cache.Delete([]byte("a")))

	// Changes are not visible in the parent until written.
	val, err := base.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), val)
	has, err := base.Has([]byte("b"))
	require.NoError(t, err)
	assert.False(t, has)

	val, err = cache.Get([]byte("a"))
	require.NoError(t, err)
	assert.Nil(t, val)
	has, err = cache.Has([]byte("c"))
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, cache.Write())

	val, err = base.Get([]byte("b"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), val)
	has, err = base.Has([]byte("a"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestCacheWrapDiscard(t *testing.T) {
	base := MemStore()
	require.NoError(t, base.Set([]byte("a"), []byte("1")))

	cache := base.CacheWrap()
	require.NoError(t, cache.Set([]byte("a"), []byte("changed")))
	cache.Discard()
	require.NoError(t, cache.Write())

	val, err := base.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), val)
}

func TestCacheWrapIterators(t *testing.T) {
	base := MemStore()
	for _, k := range []string{"a", "c", "e", "g"} {
		require.NoError(t, base.Set([]byte(k), []byte(k)))
	}

	cache := base.CacheWrap()
	require.NoError(t, cache.Set([]byte("b"), []byte("b")))
	require.NoError(t, cache.Set([]byte("c"), []byte("C")))
	require.NoError(t, cache.Delete([]byte("e")))
	require.NoError(t, cache.Set([]byte("h"), []byte("h")))

	it, err := cache.Iterator(nil, nil)
	assert.Equal(t, []string{"a", "b", "c", "g", "h"}, keys(t, it, err))

	it, err = cache.Iterator([]byte("b"), []byte("g"))
	assert.Equal(t, []string{"b", "c"}, keys(t, it, err))

	it, err = cache.Iterator([]byte("c"), nil)
	assert.Equal(t, []string{"c", "g", "h"}, keys(t, it, err))

	it, err = cache.ReverseIterator(nil, nil)
	assert.Equal(t, []string{"h", "g", "c", "b", "a"}, keys(t, it, err))

	it, err = cache.ReverseIterator(nil, []byte("g"))
	assert.Equal(t, []string{"c", "b", "a"}, keys(t, it, err))

	// Overwritten values come from the cache.
	it, err = cache.Iterator([]byte("c"), []byte("d"))
	require.NoError(t, err)
	k, v, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, "c", string(k))
	assert.Equal(t, "C", string(v))
	_, _, err = it.Next()
	assert.True(t, errors.ErrIteratorDone.Is(err))
	it.Release()
}

func TestNestedCacheWrap(t *testing.T) {
	base := MemStore()
	outer := base.CacheWrap()
	inner := outer.CacheWrap()

	require.NoError(t, inner.Set([]byte("k"), []byte("v")))
	require.NoError(t, inner.Write())

	val, err := outer.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), val)

	val, err = base.Get([]byte("k"))
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, outer.Write())
	val, err = base.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), val)
}
