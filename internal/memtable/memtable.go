// Package memtable implements the in-memory ordered container that absorbs
// writes before they are flushed into an SST: a mutex-guarded skip list
// keyed by byte-string and a latest-write-wins put, with ordered range scan.
package memtable

import "sync"

const defaultMaxHeight = 16

// MemTable is an in-memory ordered multimap-of-one (latest-write-wins) from
// key to value. It guards its skip list with its own RWMutex, so
// Put/Get/Scan are safe to call concurrently from multiple writers while
// the enclosing engine holds only a shared (read) lock on the engine-state
// snapshot that references this MemTable — the key design choice that
// decouples writers from topology changes (spec §5).
type MemTable struct {
	mu          sync.RWMutex
	list        *skipList
	approxBytes uint64
}

// New returns an empty MemTable.
func New() *MemTable {
	return &MemTable{list: newSkipList(defaultMaxHeight)}
}

// Put writes key->value, latest-write-wins. A tombstone is expressed by
// passing an empty value (Delete is sugar for exactly that).
func (m *MemTable) Put(key, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.list.put(key, value)
	m.approxBytes += uint64(len(key) + len(value))
}

// Delete inserts a tombstone (empty value) for key.
func (m *MemTable) Delete(key []byte) {
	m.Put(key, nil)
}

// Get returns the stored value for key and whether the key is present at
// all (a present empty value is a tombstone, distinguished from absence by
// the second return).
func (m *MemTable) Get(key []byte) (value []byte, ok bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.list.get(key)
}

// ApproxSize is the cumulative size of keys and values ever written,
// roughly tracking on-disk footprint for flush-threshold decisions. It is
// not decremented by overwrites, matching the teacher's own
// never-shrinks counters (cf. MemTable.TotalEntries).
func (m *MemTable) ApproxSize() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.approxBytes
}

// Len returns the number of distinct keys currently stored (including
// tombstones).
func (m *MemTable) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.list.count
}

// Scan returns an ordered cursor over every entry with key in
// [lower, upper] per the bounds' Included/Excluded/Unbounded semantics.
// The cursor is a snapshot of the node chain at call time; it is not
// further synchronized against concurrent writers, matching the engine's
// broader snapshot-then-read protocol (spec §5).
func (m *MemTable) Scan(lower, upper Bound) *Iterator {
	m.mu.RLock()
	defer m.mu.RUnlock()

	it := &Iterator{upper: upper}
	var start *node
	if lower.IsUnbounded() {
		start = m.list.first()
	} else if lower.Kind == Included {
		start = m.list.seekGE(lower.Key)
	} else {
		start = m.list.seekGT(lower.Key)
	}
	// Copy the in-range part of the chain so the cursor never reads nodes
	// that a later Put links or overwrites.
	var tail *node
	for n := start; n != nil && !aboveUpper(n.key, upper); n = n.next[0] {
		c := &node{key: n.key, value: n.value, next: make([]*node, 1)}
		if tail == nil {
			it.cur = c
		} else {
			tail.next[0] = c
		}
		tail = c
	}
	return it
}

// Flush iterates all entries in ascending order, calling add for each — the
// hook an SsTableBuilder.Add is plugged into when rotating this memtable to
// an SST.
func (m *MemTable) Flush(add func(key, value []byte)) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for n := m.list.first(); n != nil; n = n.next[0] {
		add(n.key, n.value)
	}
}
