package decode

// FieldIter walks the keys of a record. Call Next until it reports false,
// decoding or skipping the value of every key it yields.
type FieldIter struct {
	d       *Decoder
	entries []Entry
	pos     int
	done    bool
}

// Len is the number of keys in the record.
func (it *FieldIter) Len() int { return len(it.entries) }

// Keys lists the keys of the record in input order.
func (it *FieldIter) Keys() []string {
	keys := make([]string, len(it.entries))
	for i, e := range it.entries {
		keys[i] = e.Key
	}
	return keys
}

// Next positions the decoder on the next key and returns it.
func (it *FieldIter) Next() (string, bool, error) {
	if it.done {
		return "", false, nil
	}
	if it.pos == len(it.entries) {
		it.finish()
		return "", false, nil
	}
	if _, err := it.d.stack.pushItem(it.pos); err != nil {
		return "", false, err
	}
	it.pos++
	key, err := it.d.ReadIdentifier()
	if err != nil {
		return "", false, err
	}
	return key, true, nil
}

func (it *FieldIter) finish() {
	if len(it.entries) != 0 {
		it.d.stack.pop()
	}
	it.done = true
}

// Decode decodes the value of the current key into v.
func (it *FieldIter) Decode(v any) error {
	return it.d.Decode(v)
}

// Skip ignores the value of the current key.
func (it *FieldIter) Skip() error {
	return it.d.Skip()
}

// Decoder exposes the underlying decoder for hand-written field decoding.
func (it *FieldIter) Decoder() *Decoder { return it.d }

// SeqIter walks the values of one key as a sequence.
type SeqIter struct {
	d     *Decoder
	count int
	pos   int
	done  bool
}

// Len is the number of elements.
func (it *SeqIter) Len() int { return it.count }

// Next positions the decoder on the next element.
func (it *SeqIter) Next() (bool, error) {
	if it.done {
		return false, nil
	}
	if it.pos == it.count {
		it.finish()
		return false, nil
	}
	if err := it.d.stack.pushSeq(it.pos); err != nil {
		return false, err
	}
	it.pos++
	return true, nil
}

func (it *SeqIter) finish() {
	if it.count != 0 {
		it.d.stack.pop()
	}
	it.done = true
}

// Decode decodes the current element into v.
func (it *SeqIter) Decode(v any) error {
	return it.d.Decode(v)
}

// Decoder exposes the underlying decoder.
func (it *SeqIter) Decoder() *Decoder { return it.d }

// VariantAccess is handed to ReadEnum callbacks.
type VariantAccess struct {
	d *Decoder
}

// Variant returns the variant name.
func (va *VariantAccess) Variant() (string, error) {
	return va.d.ReadIdentifier()
}

// Unit accepts a variant without data.
func (va *VariantAccess) Unit() error {
	return nil
}

// Newtype is not supported: the format has no syntax for variant payloads.
func (va *VariantAccess) Newtype(any) error {
	return newError(KindDataTypeNotSupported).withMsg("newtype variant")
}

// Tuple is not supported.
func (va *VariantAccess) Tuple(int) error {
	return newError(KindDataTypeNotSupported).withMsg("tuple variant")
}

// Struct is not supported.
func (va *VariantAccess) Struct([]string) error {
	return newError(KindDataTypeNotSupported).withMsg("struct variant")
}
