// Package sstable implements the on-disk Sorted String Table: its
// block-indexed file layout, the builder that streams a sorted sequence of
// entries into one, and the reader plus cursor that walk it back out.
package sstable

import (
	"bytes"
	"encoding/binary"
	"sort"

	"lsmkv/internal/block"
	"lsmkv/internal/cache"
	"lsmkv/internal/fileobj"
	"lsmkv/internal/lsmerrors"
)

// SSTable is an opened, immutable Sorted String Table: its block index plus
// a handle to the backing file and the shared block cache. Once opened it
// is safe for concurrent use by multiple readers.
type SSTable struct {
	ID          uint64
	file        fileobj.File
	cache       *cache.BlockCache
	metas       []BlockMeta
	metaOffset  uint32
	firstKey    []byte
	lastKey     []byte
}

// Open reads the trailing meta_offset, then the block_meta region spanning
// [meta_offset, file_len-4), and decodes it into an SSTable ready for reads.
func Open(id uint64, file fileobj.File, blockCache *cache.BlockCache) (*SSTable, error) {
	size, err := file.Size()
	if err != nil {
		return nil, err
	}
	if size < 4 {
		return nil, lsmerrors.ErrFormat
	}

	tail, err := file.ReadAt(size-4, 4)
	if err != nil {
		return nil, err
	}
	metaOffset := binary.BigEndian.Uint32(tail)
	if uint64(metaOffset) > size-4 {
		return nil, lsmerrors.ErrFormat
	}

	metaBytes, err := file.ReadAt(uint64(metaOffset), size-4-uint64(metaOffset))
	if err != nil {
		return nil, err
	}
	metas, err := decodeBlockMetas(metaBytes)
	if err != nil {
		return nil, err
	}
	if len(metas) == 0 {
		return nil, lsmerrors.ErrFormat
	}

	sst := &SSTable{
		ID:         id,
		file:       file,
		cache:      blockCache,
		metas:      metas,
		metaOffset: metaOffset,
		firstKey:   metas[0].FirstKey,
	}

	lastBlock, err := sst.readBlock(len(metas) - 1)
	if err != nil {
		return nil, err
	}
	it := block.NewIterator(lastBlock)
	it.SeekToFirst()
	for it.IsValid() {
		sst.lastKey = append([]byte(nil), it.Key()...)
		it.Next()
	}

	return sst, nil
}

// NumOfBlocks returns the number of data blocks in the table.
func (s *SSTable) NumOfBlocks() int { return len(s.metas) }

// FirstKey returns the smallest key stored in the table.
func (s *SSTable) FirstKey() []byte { return s.firstKey }

// LastKey returns the largest key stored in the table.
func (s *SSTable) LastKey() []byte { return s.lastKey }

// readBlock reads and decodes block blockIdx directly from the file,
// bypassing the cache.
func (s *SSTable) readBlock(blockIdx int) (*block.Block, error) {
	if blockIdx < 0 || blockIdx >= len(s.metas) {
		return nil, lsmerrors.ErrFormat
	}

	start := uint64(s.metas[blockIdx].Offset)
	var end uint64
	if blockIdx+1 < len(s.metas) {
		end = uint64(s.metas[blockIdx+1].Offset)
	} else {
		end = uint64(s.metaOffset)
	}
	if end < start {
		return nil, lsmerrors.ErrFormat
	}

	raw, err := s.file.ReadAt(start, end-start)
	if err != nil {
		return nil, err
	}
	return block.Decode(raw)
}

// ReadBlockCached returns the decoded block at blockIdx, consulting (and
// populating) the shared block cache keyed by (sst_id, block_idx). If no
// cache is configured it reads straight from disk.
func (s *SSTable) ReadBlockCached(blockIdx int) (*block.Block, error) {
	if s.cache == nil {
		return s.readBlock(blockIdx)
	}
	key := cache.Key{SSTID: s.ID, BlockIdx: blockIdx}
	return s.cache.TryGetWith(key, func() (*block.Block, error) {
		return s.readBlock(blockIdx)
	})
}

// FindBlockIdx returns the index of the block whose first key is the
// greatest one <= key: the partition point where first_key <= key, minus
// one, clamped to zero when no block qualifies.
func (s *SSTable) FindBlockIdx(key []byte) int {
	// sort.Search finds the first index where metas[i].FirstKey > key.
	idx := sort.Search(len(s.metas), func(i int) bool {
		return bytes.Compare(s.metas[i].FirstKey, key) > 0
	})
	idx--
	if idx < 0 {
		idx = 0
	}
	return idx
}
