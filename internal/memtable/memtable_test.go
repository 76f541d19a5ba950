package memtable

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPutGetLatestWins(t *testing.T) {
	m := New()
	m.Put([]byte("k"), []byte("v1"))
	m.Put([]byte("k"), []byte("v2"))

	v, ok := m.Get([]byte("k"))
	require.True(t, ok)
	require.Equal(t, "v2", string(v))
}

func TestDeleteIsTombstone(t *testing.T) {
	m := New()
	m.Put([]byte("k"), []byte("v"))
	m.Delete([]byte("k"))

	v, ok := m.Get([]byte("k"))
	require.True(t, ok)
	require.Empty(t, v)

	_, ok = m.Get([]byte("missing"))
	require.False(t, ok)
}

func TestScanOrderingAndBounds(t *testing.T) {
	m := New()
	for _, k := range []string{"b", "d", "f", "h", "j"} {
		m.Put([]byte(k), []byte(k+k))
	}

	it := m.Scan(
		Bound{Kind: Included, Key: []byte("d")},
		Bound{Kind: Excluded, Key: []byte("j")},
	)

	var got []string
	for it.IsValid() {
		got = append(got, string(it.Key()))
		require.NoError(t, it.Next())
	}
	require.Equal(t, []string{"d", "f", "h"}, got)
}

func TestScanUnbounded(t *testing.T) {
	m := New()
	for _, k := range []string{"c", "a", "b"} {
		m.Put([]byte(k), []byte(k))
	}
	it := m.Scan(Bound{}, Bound{})
	var got []string
	for it.IsValid() {
		got = append(got, string(it.Key()))
		require.NoError(t, it.Next())
	}
	require.Equal(t, []string{"a", "b", "c"}, got)
}

func TestApproxSizeAndLen(t *testing.T) {
	m := New()
	require.Equal(t, 0, m.Len())
	m.Put([]byte("ab"), []byte("cde"))
	require.Equal(t, 1, m.Len())
	require.Equal(t, uint64(5), m.ApproxSize())
}

func TestFlushVisitsInOrder(t *testing.T) {
	m := New()
	for _, k := range []string{"z", "x", "y"} {
		m.Put([]byte(k), []byte(k))
	}
	var got []string
	m.Flush(func(key, value []byte) {
		got = append(got, string(key))
	})
	require.Equal(t, []string{"x", "y", "z"}, got)
}

func TestConcurrentPutGet(t *testing.T) {
	m := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := []byte(fmt.Sprintf("key-%03d", i))
			m.Put(key, []byte("v"))
			_, _ = m.Get(key)
		}(i)
	}
	wg.Wait()
	require.Equal(t, 50, m.Len())
}
