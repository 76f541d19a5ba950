package sstable

import (
	"testing"

	"github.com/stretchr/testify/require"

	"lsmkv/internal/block"
	"lsmkv/internal/cache"
	"lsmkv/internal/fileobj"
)

func buildTestTable(t *testing.T, dir string, id uint64, pairs [][2]string) *SSTable {
	t.Helper()
	store, err := fileobj.NewLocalStore(dir)
	require.NoError(t, err)

	b := NewBuilder(64)
	for _, p := range pairs {
		b.Add([]byte(p[0]), []byte(p[1]))
	}
	sst, err := b.Build(id, store, cache.NewBlockCache(16))
	require.NoError(t, err)
	return sst
}

func TestSSTableOrderingAndMeta(t *testing.T) {
	dir := t.TempDir()
	pairs := [][2]string{
		{"aaaaa", "1"}, {"bbbbb", "2"}, {"ccccc", "3"},
		{"ddddd", "4"}, {"eeeee", "5"}, {"fffff", "6"},
	}
	sst := buildTestTable(t, dir, 1, pairs)
	require.GreaterOrEqual(t, sst.NumOfBlocks(), 1)

	var prev []byte
	for i := 0; i < sst.NumOfBlocks(); i++ {
		b, err := sst.ReadBlockCached(i)
		require.NoError(t, err)

		firstSeen := false
		blkIt := block.NewIterator(b)
		blkIt.SeekToFirst()
		for blkIt.IsValid() {
			if prev != nil {
				require.Less(t, string(prev), string(blkIt.Key()))
			}
			prev = append([]byte(nil), blkIt.Key()...)
			if !firstSeen {
				require.Equal(t, sst.metas[i].FirstKey, blkIt.Key())
				firstSeen = true
			}
			blkIt.Next()
		}
	}
}

func TestSSTableSeekCorrectness(t *testing.T) {
	dir := t.TempDir()
	pairs := [][2]string{
		{"a", "1"}, {"c", "2"}, {"e", "3"}, {"g", "4"}, {"i", "5"},
	}
	sst := buildTestTable(t, dir, 2, pairs)

	cases := []struct {
		probe string
		want  string
		valid bool
	}{
		{"a", "a", true},
		{"b", "c", true},
		{"i", "i", true},
		{"z", "", false},
	}
	for _, c := range cases {
		it, err := CreateAndSeekToKey(sst, []byte(c.probe))
		require.NoError(t, err)
		require.Equal(t, c.valid, it.IsValid())
		if c.valid {
			require.Equal(t, c.want, string(it.Key()))
		}
	}
}

func TestSSTableIteratorFull(t *testing.T) {
	dir := t.TempDir()
	pairs := [][2]string{
		{"a", "1"}, {"b", "2"}, {"c", "3"}, {"d", "4"},
	}
	sst := buildTestTable(t, dir, 3, pairs)

	it, err := CreateAndSeekToFirst(sst)
	require.NoError(t, err)
	for _, p := range pairs {
		require.True(t, it.IsValid())
		require.Equal(t, p[0], string(it.Key()))
		require.Equal(t, p[1], string(it.Value()))
		require.NoError(t, it.Next())
	}
	require.False(t, it.IsValid())
}
