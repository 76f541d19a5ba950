package iterators

import (
	"testing"

	"github.com/stretchr/testify/require"

	"lsmkv/internal/memtable"
)

func TestLsmIteratorUpperBoundIncluded(t *testing.T) {
	a := newFake("a", "1", "b", "2", "c", "3")
	b := newFake()
	tm, err := NewTwoMergeIterator(a, b)
	require.NoError(t, err)

	it, err := NewLsmIterator(tm, memtable.Bound{Kind: memtable.Included, Key: []byte("b")})
	require.NoError(t, err)
	keys, _ := drain(it)
	require.Equal(t, []string{"a", "b"}, keys)
}

func TestLsmIteratorUpperBoundExcluded(t *testing.T) {
	a := newFake("a", "1", "b", "2", "c", "3")
	b := newFake()
	tm, err := NewTwoMergeIterator(a, b)
	require.NoError(t, err)

	it, err := NewLsmIterator(tm, memtable.Bound{Kind: memtable.Excluded, Key: []byte("b")})
	require.NoError(t, err)
	keys, _ := drain(it)
	require.Equal(t, []string{"a"}, keys)
}

func TestLsmIteratorSkipsTombstones(t *testing.T) {
	a := newFake("a", "1", "b", "", "c", "3")
	b := newFake()
	tm, err := NewTwoMergeIterator(a, b)
	require.NoError(t, err)

	it, err := NewLsmIterator(tm, memtable.Bound{})
	require.NoError(t, err)
	keys, vals := drain(it)
	require.Equal(t, []string{"a", "c"}, keys)
	require.Equal(t, []string{"1", "3"}, vals)
}

func TestLsmIteratorLeadingTombstone(t *testing.T) {
	a := newFake("a", "", "b", "2")
	b := newFake()
	tm, err := NewTwoMergeIterator(a, b)
	require.NoError(t, err)

	it, err := NewLsmIterator(tm, memtable.Bound{})
	require.NoError(t, err)
	require.True(t, it.IsValid())
	require.Equal(t, "b", string(it.Key()))
}
