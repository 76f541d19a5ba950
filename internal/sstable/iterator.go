package sstable

import "lsmkv/internal/block"

// Iterator is a cursor spanning all blocks of one SSTable, backed at any
// moment by a block.Iterator over the current block.
type Iterator struct {
	table    *SSTable
	blockIdx int
	blockIt  *block.Iterator
}

// CreateAndSeekToFirst returns an iterator positioned at the first entry of
// the table's first block.
func CreateAndSeekToFirst(table *SSTable) (*Iterator, error) {
	it := &Iterator{table: table}
	if err := it.seekToBlock(0); err != nil {
		return nil, err
	}
	it.blockIt.SeekToFirst()
	return it, nil
}

// CreateAndSeekToKey returns an iterator positioned at the first entry with
// key >= target, or invalid if no such entry exists. When the candidate
// block's seek lands past its last entry (target exceeds every key in that
// block), the cursor advances to the first entry of the next block.
func CreateAndSeekToKey(table *SSTable, target []byte) (*Iterator, error) {
	idx := table.FindBlockIdx(target)
	it := &Iterator{table: table}
	if err := it.seekToBlock(idx); err != nil {
		return nil, err
	}
	it.blockIt.SeekToKey(target)

	if !it.blockIt.IsValid() && it.blockIdx+1 < table.NumOfBlocks() {
		if err := it.seekToBlock(it.blockIdx + 1); err != nil {
			return nil, err
		}
		it.blockIt.SeekToFirst()
	}
	return it, nil
}

func (it *Iterator) seekToBlock(idx int) error {
	b, err := it.table.ReadBlockCached(idx)
	if err != nil {
		return err
	}
	it.blockIdx = idx
	it.blockIt = block.NewIterator(b)
	return nil
}

// Next advances the cursor. If the current block is exhausted and a
// further block exists, it moves there and positions at its first entry.
func (it *Iterator) Next() error {
	it.blockIt.Next()
	if it.blockIt.IsValid() {
		return nil
	}
	if it.blockIdx+1 >= it.table.NumOfBlocks() {
		return nil
	}
	if err := it.seekToBlock(it.blockIdx + 1); err != nil {
		return err
	}
	it.blockIt.SeekToFirst()
	return nil
}

// Key returns the current entry's key.
func (it *Iterator) Key() []byte { return it.blockIt.Key() }

// Value returns the current entry's value.
func (it *Iterator) Value() []byte { return it.blockIt.Value() }

// IsValid reports whether the inner block iterator is on a real entry.
// Next and CreateAndSeekToKey move to the next block whenever the current
// one is exhausted and another remains, so an invalid cursor means no
// further entry exists.
func (it *Iterator) IsValid() bool {
	return it.blockIt != nil && it.blockIt.IsValid()
}
