package sstable

import (
	"encoding/binary"

	"lsmkv/internal/lsmerrors"
)

// BlockMeta records, for one data block in an SST, its byte offset within
// the file and a copy of its first key.
type BlockMeta struct {
	Offset   uint32
	FirstKey []byte
}

// encodeBlockMetas packs a sequence of BlockMeta as:
//
//	[offset:u32][first_key_len:u16][first_key] ...
//
// with no leading count: the reader knows where the region ends from the
// trailing meta_offset written after it.
func encodeBlockMetas(metas []BlockMeta) []byte {
	var buf []byte
	for _, m := range metas {
		buf = binary.BigEndian.AppendUint32(buf, m.Offset)
		buf = binary.BigEndian.AppendUint16(buf, uint16(len(m.FirstKey)))
		buf = append(buf, m.FirstKey...)
	}
	return buf
}

// decodeBlockMetas parses a block_meta region produced by encodeBlockMetas,
// consuming it entirely.
func decodeBlockMetas(data []byte) ([]BlockMeta, error) {
	var metas []BlockMeta
	pos := 0
	for pos < len(data) {
		if pos+6 > len(data) {
			return nil, lsmerrors.ErrFormat
		}
		offset := binary.BigEndian.Uint32(data[pos : pos+4])
		pos += 4
		keyLen := int(binary.BigEndian.Uint16(data[pos : pos+2]))
		pos += 2
		if pos+keyLen > len(data) {
			return nil, lsmerrors.ErrFormat
		}
		firstKey := make([]byte, keyLen)
		copy(firstKey, data[pos:pos+keyLen])
		pos += keyLen

		metas = append(metas, BlockMeta{Offset: offset, FirstKey: firstKey})
	}
	return metas, nil
}
