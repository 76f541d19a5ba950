package block

import "bytes"

// Iterator is an ordered cursor over one decoded Block. It holds owned
// copies of the current entry's key and value so callers may retain slices
// returned by Key/Value across a subsequent Next.
type Iterator struct {
	block *Block
	idx   int
	key   []byte
	value []byte
}

// NewIterator returns an iterator over block, positioned before the first
// entry. Call SeekToFirst or SeekToKey before using it.
func NewIterator(b *Block) *Iterator {
	return &Iterator{block: b, idx: 0}
}

// SeekToFirst positions the cursor at the first entry.
func (it *Iterator) SeekToFirst() {
	it.idx = 0
	it.loadCurrent()
}

// Next advances the cursor by one entry.
func (it *Iterator) Next() {
	it.idx++
	it.loadCurrent()
}

// SeekToKey performs a binary search over [0, n) for the first entry with
// key >= target, narrowing low/high: shrink high on Greater, advance
// low on Less, and stop immediately on Equal.
func (it *Iterator) SeekToKey(target []byte) {
	low, high := 0, len(it.block.Offsets)
	for low < high {
		mid := (low + high) / 2
		it.idx = mid
		it.loadCurrent()
		switch bytes.Compare(it.key, target) {
		case 0:
			return
		case 1: // block key > target
			high = mid
		default: // block key < target
			low = mid + 1
		}
	}
	it.idx = low
	it.loadCurrent()
}

// Key returns the decoded current entry's key. It is only valid while
// IsValid is true.
func (it *Iterator) Key() []byte { return it.key }

// Value returns the decoded current entry's value.
func (it *Iterator) Value() []byte { return it.value }

// IsValid reports whether the cursor is positioned on a real entry: the
// index must be in range and the decoded key non-empty (keys are always
// non-empty on the write path, so an empty key signals invalidation).
func (it *Iterator) IsValid() bool {
	return it.idx >= 0 && it.idx < len(it.block.Offsets) && len(it.key) > 0
}

// loadCurrent decodes the entry at idx, or invalidates the cursor if idx is
// out of range.
func (it *Iterator) loadCurrent() {
	if it.idx < 0 || it.idx >= len(it.block.Offsets) {
		it.key = nil
		it.value = nil
		return
	}

	off := it.block.Offsets[it.idx]
	data := it.block.Data[off:]

	keyLen := int(uint16(data[0])<<8 | uint16(data[1]))
	pos := 2
	key := data[pos : pos+keyLen]
	pos += keyLen

	valLen := int(uint16(data[pos])<<8 | uint16(data[pos+1]))
	pos += 2
	value := data[pos : pos+valLen]

	it.key = append([]byte(nil), key...)
	it.value = append([]byte(nil), value...)
}
