package decode

import (
	"context"
	"log/slog"
	"reflect"
	"strings"
)

// Unmarshaler is implemented by types that decode themselves. The method
// pulls values out of d with the Read* methods; it must consume whatever
// structure it opens (iterate a FieldIter or SeqIter until Next reports
// false) and must not hold on to d after returning.
type Unmarshaler interface {
	UnmarshalConfig(d *Decoder) error
}

// Strict is implemented by record types that reject keys they do not
// declare. Only the reflection decoder consults it.
type Strict interface {
	StrictConfig()
}

type options struct {
	logger          *slog.Logger
	disallowUnknown bool
	checkedNumbers  bool
}

// Option configures a decode call.
type Option func(*options)

// WithLogger traces traversal at debug level to l.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// DisallowUnknownFields makes every reflected struct behave as if it
// implemented Strict.
func DisallowUnknownFields() Option {
	return func(o *options) { o.disallowUnknown = true }
}

// CheckedNumbers rejects fractional numbers for integer targets and numbers
// outside the target width, instead of truncating and saturating.
func CheckedNumbers() Option {
	return func(o *options) { o.checkedNumbers = true }
}

// Decoder walks a grouped tree on behalf of a target type. A Decoder is
// created by Unmarshal for a single call and is not safe for concurrent use.
type Decoder struct {
	stack *stack
	opts  options
	log   *slog.Logger
}

func newDecoder(root []Entry, opts ...Option) *Decoder {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	log := o.logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Decoder{stack: newStack(root), opts: o, log: log}
}

func (d *Decoder) trace(msg string, args ...any) {
	if !d.log.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	args = append(args, "path", d.stack.path(), "depth", d.stack.depth())
	d.log.Debug(msg, args...)
}

// ReadIdentifier returns the key of the current item, or the string under
// an enum variant position.
func (d *Decoder) ReadIdentifier() (string, error) {
	f, err := d.stack.top()
	if err != nil {
		return "", err
	}
	switch f.kind {
	case itemFrame:
		return f.key, nil
	case seqFrame:
		if f.cursor == 0 {
			n := f.nodes[0]
			if n.Kind == StringNode {
				return n.Str, nil
			}
			return "", newError(KindExpectStruct).withMsg("identifier must be a string, found %s", n.Kind)
		}
	}
	return "", newError(KindExpectStruct).withMsg("expected an item when reading an identifier")
}

// ReadOption decodes an optional value. Absence is expressed by the key
// never being visited, so the value is always present here.
func (d *Decoder) ReadOption(fn func(*Decoder) error) error {
	return wrapCustom(fn(d))
}

// ReadNewtype decodes a single-field wrapper by handing d straight to fn.
func (d *Decoder) ReadNewtype(fn func(*Decoder) error) error {
	return wrapCustom(fn(d))
}

// ReadAny is the self-describing read. The format carries no type tags
// beyond number, boolean and string, so it always fails.
func (d *Decoder) ReadAny() error {
	return newError(KindDataTypeNotSupported)
}

// Skip discards the current value. The enclosing iterator advances on its
// own, so nothing needs to be read.
func (d *Decoder) Skip() error {
	return nil
}

// ReadStruct iterates the fields of the current record. At the top of a
// decode the record is the root; under an item or sequence position the
// current node must be a child block, which is descended into and left
// again before ReadStruct returns.
func (d *Decoder) ReadStruct(visit func(*FieldIter) error) error {
	f, err := d.stack.top()
	if err != nil {
		return err
	}

	owesPop := false
	var entries []Entry
	switch f.kind {
	case structFrame:
		entries = f.entries
	default:
		n, err := d.current()
		if err != nil {
			return err
		}
		if n.Kind != ObjectNode {
			return newError(KindExpectObject).withMsg("found %s", n.Kind)
		}
		entries = n.Object
		d.stack.pushStruct(entries)
		owesPop = true
	}
	d.trace("Decoding struct.", "fields", len(entries))

	it := &FieldIter{d: d, entries: entries}
	if err := visit(it); err != nil {
		return wrapCustom(err)
	}
	if !it.done {
		if it.pos < len(entries) {
			keys := make([]string, 0, len(entries)-it.pos)
			for _, e := range entries[it.pos:] {
				keys = append(keys, e.Key)
			}
			return newError(KindUnconsumed).withMsg("unvisited keys %s", strings.Join(keys, ", "))
		}
		it.finish()
	}
	if owesPop {
		d.stack.pop()
	}
	return nil
}

// ReadSeq iterates the values of the current key as a sequence.
func (d *Decoder) ReadSeq(visit func(*SeqIter) error) error {
	f, err := d.stack.top()
	if err != nil {
		return err
	}
	if f.kind != itemFrame {
		return newError(KindExpectStruct).withMsg("expected an item when decoding a sequence, found %s", f.kind)
	}
	d.trace("Decoding sequence.", "len", len(f.nodes))

	it := &SeqIter{d: d, count: len(f.nodes)}
	if err := visit(it); err != nil {
		return wrapCustom(err)
	}
	if !it.done {
		if it.pos < it.count {
			return newError(KindUnconsumed).withMsg("%d of %d elements left", it.count-it.pos, it.count)
		}
		it.finish()
	}
	return nil
}

// ReadEnum decodes a unit-only enumeration whose variant name is the single
// string value of the current key (or the current sequence element).
func (d *Decoder) ReadEnum(visit func(*VariantAccess) error) error {
	f, err := d.stack.top()
	if err != nil {
		return err
	}
	var n Node
	switch f.kind {
	case itemFrame:
		if len(f.nodes) != 1 {
			return newError(KindExpectSingleValue).withMsg("expected enum item to have a single item list")
		}
		n = f.nodes[0]
	case seqFrame:
		n = f.nodes[f.cursor]
	default:
		return newError(KindExpectStruct)
	}
	if n.Kind != StringNode {
		return newError(KindExpectString).withMsg("enum variant must be a string, found %s", n.Kind)
	}

	// The variant name is read as an identifier, which needs a sequence
	// position at index 0 holding the string.
	d.stack.pushSingle(n)
	d.trace("Decoding enum.", "variant", n.Str)
	if err := visit(&VariantAccess{d: d}); err != nil {
		return wrapCustom(err)
	}
	d.stack.pop()
	return nil
}

// ReadUnitVariant decodes an enum whose variants carry no data and returns
// the index of the matching name.
func (d *Decoder) ReadUnitVariant(names ...string) (int, error) {
	idx := -1
	err := d.ReadEnum(func(va *VariantAccess) error {
		name, err := va.Variant()
		if err != nil {
			return err
		}
		for i, n := range names {
			if n == name {
				idx = i
				return va.Unit()
			}
		}
		return Errorf("unknown variant `%s`, expected one of %s", name, quoteList(names))
	})
	return idx, err
}

func quoteList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "`" + n + "`"
	}
	return strings.Join(quoted, ", ")
}

// Decode decodes the current value into v, which must be a non-nil pointer.
// Types implementing Unmarshaler decode themselves; encoding.TextUnmarshaler
// types are fed a string; everything else goes through reflection.
func (d *Decoder) Decode(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return Errorf("decode target must be a non-nil pointer, got %T", v)
	}
	return d.decodeValue(rv.Elem(), fieldOpts{})
}
