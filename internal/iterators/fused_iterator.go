package iterators

// FusedIterator wraps any StorageIterator so that Next becomes a no-op
// once the inner iterator is invalid, protecting callers that advance one
// step past the end from panicking on an already-exhausted cursor.
type FusedIterator struct {
	inner   StorageIterator
	invalid bool
}

// NewFusedIterator wraps inner.
func NewFusedIterator(inner StorageIterator) *FusedIterator {
	return &FusedIterator{inner: inner, invalid: !inner.IsValid()}
}

func (f *FusedIterator) IsValid() bool {
	return !f.invalid && f.inner.IsValid()
}

func (f *FusedIterator) Key() []byte {
	if f.invalid {
		return nil
	}
	return f.inner.Key()
}

func (f *FusedIterator) Value() []byte {
	if f.invalid {
		return nil
	}
	return f.inner.Value()
}

// Next advances the inner iterator once, unless already latched invalid.
func (f *FusedIterator) Next() error {
	if f.invalid {
		return nil
	}
	if !f.inner.IsValid() {
		f.invalid = true
		return nil
	}
	if err := f.inner.Next(); err != nil {
		f.invalid = true
		return err
	}
	if !f.inner.IsValid() {
		f.invalid = true
	}
	return nil
}
