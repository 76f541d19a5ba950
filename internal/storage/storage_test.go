package storage

import (
	"testing"

	"github.com/stretchr/testify/require"

	"lsmkv/internal/memtable"
)

func mustOpen(t *testing.T) *LsmStorage {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	return s
}

func drainScan(t *testing.T, s *LsmStorage, lower, upper memtable.Bound) (keys, vals []string) {
	t.Helper()
	it, err := s.Scan(lower, upper)
	require.NoError(t, err)
	for it.IsValid() {
		keys = append(keys, string(it.Key()))
		vals = append(vals, string(it.Value()))
		require.NoError(t, it.Next())
	}
	return
}

func TestS1_PutAndGet(t *testing.T) {
	s := mustOpen(t)
	require.NoError(t, s.Put([]byte("a"), []byte("1")))
	require.NoError(t, s.Put([]byte("b"), []byte("2")))
	require.NoError(t, s.Put([]byte("c"), []byte("3")))

	v, ok, err := s.Get([]byte("a"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "1", string(v))

	v, ok, err = s.Get([]byte("b"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "2", string(v))

	_, ok, err = s.Get([]byte("z"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestS2_DeleteHidesValue(t *testing.T) {
	s := mustOpen(t)
	require.NoError(t, s.Put([]byte("k"), []byte("v")))
	require.NoError(t, s.Delete([]byte("k")))

	_, ok, err := s.Get([]byte("k"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestS3_SyncThenOverwriteThenDelete(t *testing.T) {
	s := mustOpen(t)
	require.NoError(t, s.Put([]byte("a"), []byte("1")))
	require.NoError(t, s.Sync())
	require.NoError(t, s.Put([]byte("a"), []byte("2")))

	v, ok, err := s.Get([]byte("a"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "2", string(v))

	require.NoError(t, s.Delete([]byte("a")))
	_, ok, err = s.Get([]byte("a"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestS4_NewerL0TableWins(t *testing.T) {
	s := mustOpen(t)
	require.NoError(t, s.Put([]byte("a"), []byte("1")))
	require.NoError(t, s.Put([]byte("b"), []byte("2")))
	require.NoError(t, s.Sync())

	require.NoError(t, s.Put([]byte("b"), []byte("3")))
	require.NoError(t, s.Put([]byte("c"), []byte("4")))
	require.NoError(t, s.Sync())

	v, ok, err := s.Get([]byte("b"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "3", string(v))

	keys, vals := drainScan(t, s, memtable.Bound{}, memtable.Bound{})
	require.Equal(t, []string{"a", "b", "c"}, keys)
	require.Equal(t, []string{"1", "3", "4"}, vals)
}

func TestS6_ScanExcludedIncluded(t *testing.T) {
	s := mustOpen(t)
	for _, k := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, s.Put([]byte(k), []byte(k)))
	}
	keys, _ := drainScan(t, s,
		memtable.Bound{Kind: memtable.Excluded, Key: []byte("b")},
		memtable.Bound{Kind: memtable.Included, Key: []byte("d")},
	)
	require.Equal(t, []string{"c", "d"}, keys)
}

func TestGetMissingKeyAfterFlushDoesNotReturnNeighbor(t *testing.T) {
	// Regression for the open-question fix: a MergeIterator seek for an
	// absent key lands on the next-greater key, which must not be
	// misreported as a hit for the probe key.
	s := mustOpen(t)
	require.NoError(t, s.Put([]byte("b"), []byte("1")))
	require.NoError(t, s.Sync())

	_, ok, err := s.Get([]byte("a"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestFlushAcrossSyncsPreservesData(t *testing.T) {
	s := mustOpen(t)
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Put([]byte{byte('a' + i)}, []byte("v")))
		require.NoError(t, s.Sync())
	}
	for i := 0; i < 3; i++ {
		v, ok, err := s.Get([]byte{byte('a' + i)})
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "v", string(v))
	}
}

func TestPutRejectsEmptyKeyOrValue(t *testing.T) {
	s := mustOpen(t)
	require.Error(t, s.Put(nil, []byte("v")))
	require.Error(t, s.Put([]byte("k"), nil))
}

func TestDeleteRejectsEmptyKey(t *testing.T) {
	s := mustOpen(t)
	require.Error(t, s.Delete(nil))
}

func TestReopenPicksUpExistingSSTables(t *testing.T) {
	dir := t.TempDir()
	s1, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s1.Put([]byte("k"), []byte("v")))
	require.NoError(t, s1.Sync())

	s2, err := Open(dir)
	require.NoError(t, err)
	v, ok, err := s2.Get([]byte("k"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v", string(v))
}
