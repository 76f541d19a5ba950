package sstable

import (
	"encoding/binary"

	"lsmkv/internal/block"
	"lsmkv/internal/cache"
	"lsmkv/internal/fileobj"
	"lsmkv/internal/lsmerrors"
)

// Builder streams a sorted sequence of entries into successive data blocks,
// then writes the block_meta tail and hands the result to a fileobj.Store.
type Builder struct {
	data       []byte
	metas      []BlockMeta
	cur        *block.Builder
	targetSize uint64
}

// NewBuilder returns a Builder that packs blocks up to targetBlockSize
// bytes each.
func NewBuilder(targetBlockSize uint64) *Builder {
	return &Builder{
		cur:        block.NewBuilder(targetBlockSize),
		targetSize: targetBlockSize,
	}
}

// Add appends (key, value). A new BlockMeta is recorded whenever the
// current block is empty, before the entry is attempted; on rejection the
// current block is finalized and a fresh block.Builder retried. This
// recurses at most once, since any single entry fits in a fresh block.
func (b *Builder) Add(key, value []byte) {
	if b.cur.IsEmpty() {
		b.metas = append(b.metas, BlockMeta{
			Offset:   uint32(len(b.data)),
			FirstKey: append([]byte(nil), key...),
		})
	}

	if b.cur.Add(key, value) {
		return
	}

	b.finalizeCurrentBlock()
	b.cur = block.NewBuilder(b.targetSize)
	b.metas = append(b.metas, BlockMeta{
		Offset:   uint32(len(b.data)),
		FirstKey: append([]byte(nil), key...),
	})
	if !b.cur.Add(key, value) {
		panic("sstable: a single entry must always fit in a fresh block")
	}
}

func (b *Builder) finalizeCurrentBlock() {
	if b.cur.IsEmpty() {
		return
	}
	blk, err := b.cur.Build()
	if err != nil {
		panic(err) // unreachable: we just checked IsEmpty
	}
	b.data = append(b.data, blk.Encode()...)
}

// EstimatedSize returns the approximate size of the SST built so far.
func (b *Builder) EstimatedSize() uint64 {
	return uint64(len(b.data)) + b.cur.EstimatedSize()
}

// Build finalizes any open block, appends the encoded block_meta region and
// trailing meta_offset, writes the result through store, and opens the
// resulting SSTable.
func (b *Builder) Build(id uint64, store fileobj.Store, blockCache *cache.BlockCache) (*SSTable, error) {
	b.finalizeCurrentBlock()
	if len(b.metas) == 0 {
		return nil, lsmerrors.ErrFormat
	}

	metaOffset := uint32(len(b.data))
	buf := append(b.data, encodeBlockMetas(b.metas)...)
	buf = binary.BigEndian.AppendUint32(buf, metaOffset)

	file, err := store.Create(id, buf)
	if err != nil {
		return nil, err
	}

	return Open(id, file, blockCache)
}
