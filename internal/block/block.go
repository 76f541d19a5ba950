// Package block implements the LSM engine's smallest on-disk unit: a
// contiguous, size-bounded run of sorted entries plus the offset index that
// lets a reader binary-search it without decoding every entry.
package block

import (
	"encoding/binary"

	"lsmkv/internal/lsmerrors"
)

// Block is a contiguous byte region holding a sequence of (key, value)
// entries in ascending key order, plus the offsets at which each entry
// begins within Data. Once built or decoded, a Block is immutable and safe
// to share across readers.
//
// Layout of Encode's output, big-endian throughout:
//
//	[entry_0 ... entry_{n-1}] [off_0 ... off_{n-1}] [n]
//	entry := [key_len:u16][key][val_len:u16][val]
type Block struct {
	Data    []byte
	Offsets []uint16
}

// Encode concatenates the entry region, the big-endian u16 offsets, and the
// trailing big-endian u16 entry count.
func (b *Block) Encode() []byte {
	buf := make([]byte, 0, len(b.Data)+len(b.Offsets)*2+2)
	buf = append(buf, b.Data...)
	for _, off := range b.Offsets {
		buf = binary.BigEndian.AppendUint16(buf, off)
	}
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(b.Offsets)))
	return buf
}

// Decode reverses Encode: it reads the trailing count, slices the offset
// array that precedes it, and treats everything before that as the entry
// region. It returns lsmerrors.ErrFormat if the buffer is too small to hold
// the claimed number of offsets.
func Decode(data []byte) (*Block, error) {
	if len(data) < 2 {
		return nil, lsmerrors.ErrFormat
	}
	numEntries := int(binary.BigEndian.Uint16(data[len(data)-2:]))

	offsetsStart := len(data) - 2 - numEntries*2
	if offsetsStart < 0 {
		return nil, lsmerrors.ErrFormat
	}

	offsets := make([]uint16, numEntries)
	for i := 0; i < numEntries; i++ {
		offsets[i] = binary.BigEndian.Uint16(data[offsetsStart+i*2 : offsetsStart+i*2+2])
	}

	entryData := make([]byte, offsetsStart)
	copy(entryData, data[:offsetsStart])

	return &Block{Data: entryData, Offsets: offsets}, nil
}
