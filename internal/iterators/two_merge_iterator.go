package iterators

import "bytes"

// TwoMergeIterator merges two iterators of potentially distinct concrete
// types (only required to share the StorageIterator shape), preferring A
// on key equality.
type TwoMergeIterator struct {
	a, b    StorageIterator
	chooseA bool
}

// NewTwoMergeIterator constructs the merge, skipping B past any keys A
// already owns and picking the initial side.
func NewTwoMergeIterator(a, b StorageIterator) (*TwoMergeIterator, error) {
	t := &TwoMergeIterator{a: a, b: b}
	if err := t.skipB(); err != nil {
		return nil, err
	}
	t.recompute()
	return t, nil
}

// skipB advances B past every key equal to A's current key, while A is
// valid.
func (t *TwoMergeIterator) skipB() error {
	if !t.a.IsValid() {
		return nil
	}
	for t.b.IsValid() && bytes.Equal(t.a.Key(), t.b.Key()) {
		if err := t.b.Next(); err != nil {
			return err
		}
	}
	return nil
}

func (t *TwoMergeIterator) recompute() {
	switch {
	case !t.a.IsValid():
		t.chooseA = false
	case !t.b.IsValid():
		t.chooseA = true
	default:
		t.chooseA = bytes.Compare(t.a.Key(), t.b.Key()) < 0
	}
}

func (t *TwoMergeIterator) IsValid() bool {
	if t.chooseA {
		return t.a.IsValid()
	}
	return t.b.IsValid()
}

func (t *TwoMergeIterator) Key() []byte {
	if t.chooseA {
		return t.a.Key()
	}
	return t.b.Key()
}

func (t *TwoMergeIterator) Value() []byte {
	if t.chooseA {
		return t.a.Value()
	}
	return t.b.Value()
}

// Next advances whichever side is currently chosen, re-skips B, and
// recomputes the choice.
func (t *TwoMergeIterator) Next() error {
	var err error
	if t.chooseA {
		err = t.a.Next()
	} else {
		err = t.b.Next()
	}
	if err != nil {
		return err
	}
	if err := t.skipB(); err != nil {
		return err
	}
	t.recompute()
	return nil
}
