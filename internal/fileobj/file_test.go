package fileobj

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalStoreCreateOpenRoundTrip(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	data := []byte("hello sstable bytes")
	f, err := store.Create(7, data)
	require.NoError(t, err)

	size, err := f.Size()
	require.NoError(t, err)
	require.Equal(t, uint64(len(data)), size)

	got, err := f.ReadAt(6, 5)
	require.NoError(t, err)
	require.Equal(t, "sstab", string(got))

	opened, err := store.Open(7)
	require.NoError(t, err)
	got2, err := opened.ReadAt(0, uint64(len(data)))
	require.NoError(t, err)
	require.Equal(t, data, got2)
}

func TestLocalStoreListSortedAscending(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	for _, id := range []uint64{5, 1, 3} {
		_, err := store.Create(id, []byte("x"))
		require.NoError(t, err)
	}

	ids, err := store.List()
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 3, 5}, ids)
}

func TestSSTName(t *testing.T) {
	require.Equal(t, "00042.sst", SSTName(42))
}
