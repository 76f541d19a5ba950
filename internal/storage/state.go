// Package storage implements the LsmStorage façade: the engine-state
// snapshot record, the put/get/delete/sync/scan operations, and the flush
// path that rotates a full memtable into an L0 SSTable.
package storage

import (
	"lsmkv/internal/memtable"
	"lsmkv/internal/sstable"
)

// state is the shared-immutable engine-state record. It is never mutated
// in place: every topology change (memtable rotation, flush publication)
// builds a new state and swaps it in under a write lock, so a reader that
// has cloned the pointer under a read lock sees a consistent point-in-time
// view regardless of concurrent activity (spec §5.1).
type state struct {
	active     *memtable.MemTable
	immutables []*memtable.MemTable // oldest first
	l0         []*sstable.SSTable   // newest last
	levels     [][]*sstable.SSTable // L1..Ln, reachable but unused by this core
	nextSSTID  uint64
}

func newState() *state {
	return &state{active: memtable.New()}
}

// clone returns a shallow copy: slices are copied (so appends don't alias
// the original) but the memtable/SSTable pointers are shared, matching the
// "shared-immutable" contract — the pointees themselves never mutate their
// externally-visible identity after publication.
func (s *state) clone() *state {
	c := &state{
		active:    s.active,
		nextSSTID: s.nextSSTID,
	}
	c.immutables = append([]*memtable.MemTable(nil), s.immutables...)
	c.l0 = append([]*sstable.SSTable(nil), s.l0...)
	c.levels = make([][]*sstable.SSTable, len(s.levels))
	for i, lvl := range s.levels {
		c.levels[i] = append([]*sstable.SSTable(nil), lvl...)
	}
	return c
}
