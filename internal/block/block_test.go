package block

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlockRoundTrip(t *testing.T) {
	b := NewBuilder(4096)
	pairs := [][2]string{
		{"apple", "1"},
		{"banana", "2"},
		{"cherry", "3"},
	}
	for _, p := range pairs {
		require.True(t, b.Add([]byte(p[0]), []byte(p[1])))
	}

	built, err := b.Build()
	require.NoError(t, err)

	decoded, err := Decode(built.Encode())
	require.NoError(t, err)

	it := NewIterator(decoded)
	it.SeekToFirst()
	for _, p := range pairs {
		require.True(t, it.IsValid())
		require.Equal(t, p[0], string(it.Key()))
		require.Equal(t, p[1], string(it.Value()))
		it.Next()
	}
	require.False(t, it.IsValid())
}

func TestBuilderAlwaysAdmitsFirstEntry(t *testing.T) {
	b := NewBuilder(1)
	require.True(t, b.Add([]byte("k"), []byte("a-value-much-longer-than-one-byte")))
	require.False(t, b.IsEmpty())
}

func TestBuilderRejectsWhenFull(t *testing.T) {
	b := NewBuilder(32)
	require.True(t, b.Add([]byte("aa"), []byte("1")))
	ok := b.Add([]byte("bb"), []byte("this-value-pushes-the-block-over-target"))
	require.False(t, ok)
}

func TestSeekToKey(t *testing.T) {
	b := NewBuilder(4096)
	for _, k := range []string{"a", "c", "e", "g"} {
		require.True(t, b.Add([]byte(k), []byte(k+"v")))
	}
	built, err := b.Build()
	require.NoError(t, err)

	cases := []struct {
		probe string
		want  string
		valid bool
	}{
		{"a", "a", true},
		{"b", "c", true},
		{"e", "e", true},
		{"h", "", false},
	}
	for _, c := range cases {
		it := NewIterator(built)
		it.SeekToKey([]byte(c.probe))
		require.Equal(t, c.valid, it.IsValid())
		if c.valid {
			require.Equal(t, c.want, string(it.Key()))
		}
	}
}

func TestDecodeRejectsTruncatedBuffer(t *testing.T) {
	_, err := Decode([]byte{0, 5})
	require.Error(t, err)
}
