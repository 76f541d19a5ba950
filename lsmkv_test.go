package lsmkv_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"lsmkv"
)

func TestPutGetDeleteRoundTrip(t *testing.T) {
	db, err := lsmkv.Open(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, db.Put([]byte("a"), []byte("1")))
	v, ok, err := db.Get([]byte("a"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "1", string(v))

	require.NoError(t, db.Delete([]byte("a")))
	_, ok, err = db.Get([]byte("a"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestScanAcrossSyncedAndActive(t *testing.T) {
	db, err := lsmkv.Open(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, db.Put([]byte("a"), []byte("1")))
	require.NoError(t, db.Sync())
	require.NoError(t, db.Put([]byte("b"), []byte("2")))

	cur, err := db.Scan(lsmkv.Bound{}, lsmkv.Bound{})
	require.NoError(t, err)

	var keys []string
	for cur.IsValid() {
		keys = append(keys, string(cur.Key()))
		require.NoError(t, cur.Next())
	}
	require.Equal(t, []string{"a", "b"}, keys)

	// Cursor must not panic after exhaustion.
	require.NoError(t, cur.Next())
	require.False(t, cur.IsValid())
}
