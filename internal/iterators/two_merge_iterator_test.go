package iterators

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTwoMergePrefersA(t *testing.T) {
	a := newFake("b", "from-a")
	b := newFake("b", "from-b")
	tm, err := NewTwoMergeIterator(a, b)
	require.NoError(t, err)
	keys, vals := drain(tm)
	require.Equal(t, []string{"b"}, keys)
	require.Equal(t, []string{"from-a"}, vals)
}

func TestTwoMergeInterleaves(t *testing.T) {
	a := newFake("a", "1", "c", "3")
	b := newFake("b", "2", "d", "4")
	tm, err := NewTwoMergeIterator(a, b)
	require.NoError(t, err)
	keys, _ := drain(tm)
	require.Equal(t, []string{"a", "b", "c", "d"}, keys)
}

func TestTwoMergeBEmpty(t *testing.T) {
	a := newFake("a", "1")
	b := newFake()
	tm, err := NewTwoMergeIterator(a, b)
	require.NoError(t, err)
	keys, _ := drain(tm)
	require.Equal(t, []string{"a"}, keys)
}
