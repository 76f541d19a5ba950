package iterators

import (
	"bytes"
	"container/heap"
)

// heapEntry pairs a sub-iterator with its original construction index, used
// to break key ties in favor of the lowest index.
type heapEntry struct {
	index int
	iter  StorageIterator
}

// entryHeap orders by (key ascending, index ascending) — a min-heap despite
// the name, matching the smallest-key-first, smallest-index-first pop order
// the spec calls a "max-heap of valid sub-iterators keyed by... ascending"
// (Rust's BinaryHeap-of-Reverse idiom; Go's container/heap is natively a
// min-heap, so no inversion is needed here).
type entryHeap []*heapEntry

func (h entryHeap) Len() int { return len(h) }
func (h entryHeap) Less(i, j int) bool {
	c := bytes.Compare(h[i].iter.Key(), h[j].iter.Key())
	if c != 0 {
		return c < 0
	}
	return h[i].index < h[j].index
}
func (h entryHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *entryHeap) Push(x interface{}) { *h = append(*h, x.(*heapEntry)) }
func (h *entryHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

// MergeIterator merges any number of same-variant StorageIterators,
// preferring the entry from the lowest input index when keys collide.
type MergeIterator struct {
	heap    entryHeap
	current *heapEntry
}

// NewMergeIterator builds a MergeIterator over iters in construction order.
func NewMergeIterator(iters []StorageIterator) *MergeIterator {
	m := &MergeIterator{}
	for i, it := range iters {
		if it.IsValid() {
			m.heap = append(m.heap, &heapEntry{index: i, iter: it})
		}
	}
	heap.Init(&m.heap)

	if len(m.heap) > 0 {
		m.current = heap.Pop(&m.heap).(*heapEntry)
	} else if len(iters) > 0 {
		// All sub-iterators invalid: keep one around as current so Key/Value
		// remain callable on an invalid iterator without a nil check, but
		// IsValid still correctly reports false.
		m.current = &heapEntry{index: 0, iter: iters[0]}
	}
	return m
}

func (m *MergeIterator) IsValid() bool {
	return m.current != nil && m.current.iter.IsValid()
}

func (m *MergeIterator) Key() []byte {
	if m.current == nil {
		return nil
	}
	return m.current.iter.Key()
}

func (m *MergeIterator) Value() []byte {
	if m.current == nil {
		return nil
	}
	return m.current.iter.Value()
}

// Next advances past the current key across every source positioned there,
// then promotes the new minimum.
func (m *MergeIterator) Next() error {
	if m.current == nil || !m.current.iter.IsValid() {
		return nil
	}
	key := append([]byte(nil), m.current.iter.Key()...)

	for len(m.heap) > 0 && bytes.Equal(m.heap[0].iter.Key(), key) {
		top := m.heap[0]
		if err := top.iter.Next(); err != nil {
			heap.Pop(&m.heap)
			return err
		}
		if top.iter.IsValid() {
			heap.Fix(&m.heap, 0)
		} else {
			heap.Pop(&m.heap)
		}
	}

	if err := m.current.iter.Next(); err != nil {
		return err
	}

	if !m.current.iter.IsValid() {
		if len(m.heap) > 0 {
			m.current = heap.Pop(&m.heap).(*heapEntry)
		}
		return nil
	}

	if len(m.heap) > 0 {
		top := m.heap[0]
		curLess := bytes.Compare(m.current.iter.Key(), top.iter.Key())
		if curLess > 0 || (curLess == 0 && top.index < m.current.index) {
			heap.Push(&m.heap, m.current)
			m.current = heap.Pop(&m.heap).(*heapEntry)
		}
	}
	return nil
}
