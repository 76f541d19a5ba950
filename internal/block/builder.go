package block

import (
	"encoding/binary"

	"lsmkv/internal/lsmerrors"
)

// Builder packs entries into a single size-bounded Block. The first entry
// added is always admitted regardless of size, so any single key-value pair
// can always be stored in its own block.
type Builder struct {
	data       []byte
	offsets    []uint16
	targetSize uint64
}

// NewBuilder returns a Builder that rejects entries once the encoded block
// would exceed targetSize bytes. targetSize must be positive; NewBuilder
// panics with lsmerrors.ErrBlockSize if it is zero.
func NewBuilder(targetSize uint64) *Builder {
	if targetSize == 0 {
		panic(lsmerrors.ErrBlockSize)
	}
	return &Builder{targetSize: targetSize}
}

// EstimatedSize is the size Encode would currently produce: the entry
// region, the offsets accumulated so far, plus the trailing count field.
func (b *Builder) EstimatedSize() uint64 {
	return uint64(len(b.data) + len(b.offsets)*2 + 2)
}

// Add attempts to append (key, value) to the block. It returns false,
// leaving the builder unchanged, if admitting the entry (its framed bytes
// plus one new offset slot) would push the encoded size above the target —
// unless the block is still empty, in which case the first entry is always
// admitted. Add panics if key is empty; that is a caller usage error, not a
// recoverable condition.
func (b *Builder) Add(key, value []byte) bool {
	if len(key) == 0 {
		panic("block: key must not be empty")
	}

	entrySize := 2 + len(key) + 2 + len(value)
	newSize := b.EstimatedSize() + uint64(entrySize) + 2 // +2 for the new offset slot

	if !b.IsEmpty() && newSize > b.targetSize {
		return false
	}

	b.offsets = append(b.offsets, uint16(len(b.data)))
	b.data = binary.BigEndian.AppendUint16(b.data, uint16(len(key)))
	b.data = append(b.data, key...)
	b.data = binary.BigEndian.AppendUint16(b.data, uint16(len(value)))
	b.data = append(b.data, value...)
	return true
}

// IsEmpty reports whether any entry has been added yet.
func (b *Builder) IsEmpty() bool {
	return len(b.offsets) == 0
}

// Build finalizes the accumulated entries into an immutable Block.
func (b *Builder) Build() (*Block, error) {
	if b.IsEmpty() {
		return nil, lsmerrors.ErrFormat
	}
	data := make([]byte, len(b.data))
	copy(data, b.data)
	offsets := make([]uint16, len(b.offsets))
	copy(offsets, b.offsets)
	return &Block{Data: data, Offsets: offsets}, nil
}
