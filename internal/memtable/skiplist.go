package memtable

import (
	"bytes"
	"math/rand"
	"time"
)

// node is one level-tower entry in the skip list. Unlike the teacher's
// skip_list.go (which never physically removes a key and marks deletion via
// a Record.Tombstone flag), this list stores the raw value directly — an
// empty value already means "tombstone" on the read path, so no separate
// flag is needed.
type node struct {
	key   []byte
	value []byte
	next  []*node
}

// skipList is the ordered, in-memory map a MemTable wraps. It is not
// itself safe for concurrent use; MemTable serializes access with an
// internal mutex, matching the spec's requirement that the enclosing
// engine only needs a shared lock around it.
type skipList struct {
	maxHeight int
	height    int
	head      *node
	rng       *rand.Rand
	count     int
}

func newSkipList(maxHeight int) *skipList {
	if maxHeight < 1 {
		maxHeight = 1
	}
	return &skipList{
		maxHeight: maxHeight,
		height:    1,
		head:      &node{next: make([]*node, maxHeight)},
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *skipList) roll() int {
	h := 1
	for s.rng.Int31n(2) == 1 && h < s.maxHeight {
		h++
	}
	return h
}

// search walks every level from the top, recording in update the rightmost
// node at each level whose key is < target. It returns the node at target,
// or nil if absent.
func (s *skipList) search(target []byte, update []*node) *node {
	cur := s.head
	for lvl := s.height - 1; lvl >= 0; lvl-- {
		for cur.next[lvl] != nil && bytes.Compare(cur.next[lvl].key, target) < 0 {
			cur = cur.next[lvl]
		}
		if update != nil {
			update[lvl] = cur
		}
	}
	if cur.next[0] != nil && bytes.Equal(cur.next[0].key, target) {
		return cur.next[0]
	}
	return nil
}

// put inserts or overwrites the value for key, latest-write-wins.
func (s *skipList) put(key, value []byte) {
	update := make([]*node, s.maxHeight)
	existing := s.search(key, update)
	if existing != nil {
		existing.value = append([]byte(nil), value...)
		return
	}

	height := s.roll()
	if height > s.height {
		for i := s.height; i < height; i++ {
			update[i] = s.head
		}
		s.height = height
	}

	n := &node{
		key:   append([]byte(nil), key...),
		value: append([]byte(nil), value...),
		next:  make([]*node, height),
	}
	for i := 0; i < height; i++ {
		n.next[i] = update[i].next[i]
		update[i].next[i] = n
	}
	s.count++
}

// get returns the raw stored value for key (which may be empty, meaning a
// tombstone) and whether the key is present at all.
func (s *skipList) get(key []byte) ([]byte, bool) {
	n := s.search(key, nil)
	if n == nil {
		return nil, false
	}
	return n.value, true
}

// seekGE returns the first node with key >= target, or nil.
func (s *skipList) seekGE(target []byte) *node {
	cur := s.head
	for lvl := s.height - 1; lvl >= 0; lvl-- {
		for cur.next[lvl] != nil && bytes.Compare(cur.next[lvl].key, target) < 0 {
			cur = cur.next[lvl]
		}
	}
	return cur.next[0]
}

// seekGT returns the first node with key > target, or nil.
func (s *skipList) seekGT(target []byte) *node {
	cur := s.head
	for lvl := s.height - 1; lvl >= 0; lvl-- {
		for cur.next[lvl] != nil && bytes.Compare(cur.next[lvl].key, target) <= 0 {
			cur = cur.next[lvl]
		}
	}
	return cur.next[0]
}

// first returns the lowest-keyed node, or nil if empty.
func (s *skipList) first() *node {
	return s.head.next[0]
}
