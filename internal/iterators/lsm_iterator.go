package iterators

import (
	"bytes"

	"lsmkv/internal/memtable"
)

// LsmIterator wraps the fully composed two-way merge of memtable and
// SSTable streams, adding upper-bound enforcement and tombstone skipping —
// the last two concerns that turn a raw merged stream into the cursor the
// public API hands back from Scan.
type LsmIterator struct {
	inner   *TwoMergeIterator
	end     memtable.Bound
	isValid bool
}

// NewLsmIterator wraps inner, applying end as the scan's upper bound and
// skipping forward past any leading tombstone.
func NewLsmIterator(inner *TwoMergeIterator, end memtable.Bound) (*LsmIterator, error) {
	it := &LsmIterator{inner: inner, end: end, isValid: inner.IsValid()}
	it.checkBound()
	if err := it.moveToNonDelete(); err != nil {
		return nil, err
	}
	return it, nil
}

func (it *LsmIterator) checkBound() {
	if !it.isValid {
		return
	}
	key := it.inner.Key()
	switch it.end.Kind {
	case memtable.Included:
		if bytes.Compare(key, it.end.Key) > 0 {
			it.isValid = false
		}
	case memtable.Excluded:
		if bytes.Compare(key, it.end.Key) >= 0 {
			it.isValid = false
		}
	}
}

// moveToNonDelete advances past tombstones (empty values) one at a time
// until the cursor rests on a live entry, is exhausted, or crosses bound.
func (it *LsmIterator) moveToNonDelete() error {
	for it.isValid && len(it.inner.Value()) == 0 {
		if err := it.nextInner(); err != nil {
			return err
		}
	}
	return nil
}

func (it *LsmIterator) nextInner() error {
	if err := it.inner.Next(); err != nil {
		return err
	}
	it.isValid = it.isValid && it.inner.IsValid()
	it.checkBound()
	return nil
}

func (it *LsmIterator) IsValid() bool { return it.isValid }

func (it *LsmIterator) Key() []byte { return it.inner.Key() }

func (it *LsmIterator) Value() []byte { return it.inner.Value() }

// Next performs one inner advance plus a bound check, then skips forward
// past any tombstone landed on.
func (it *LsmIterator) Next() error {
	if err := it.nextInner(); err != nil {
		return err
	}
	return it.moveToNonDelete()
}
