package decode

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/oconfig/internal/oconfig"
)

// Unmarshal decodes items into v, which must be a non-nil pointer.
//
// Decoding succeeds only when every top-level key was visited, either
// decoded or explicitly skipped. The returned error is always an *Error
// with Path set to where decoding stopped.
func Unmarshal(items []oconfig.Item, v any, opts ...Option) error {
	d := newDecoder(Group(items), opts...)
	d.trace("Decode started.", "target", fmt.Sprintf("%T", v), "items", len(items))

	if err := d.Decode(v); err != nil {
		return d.annotate(err)
	}
	if err := d.finish(); err != nil {
		return d.annotate(err)
	}
	d.trace("Decode finished.")
	return nil
}

// Decode is the generic form of Unmarshal.
func Decode[T any](items []oconfig.Item, opts ...Option) (T, error) {
	var v T
	if err := Unmarshal(items, &v, opts...); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// finish checks that the stack unwound back to the root and that the root
// was fully visited, then discards it.
func (d *Decoder) finish() error {
	if d.stack.depth() != 1 {
		return newError(KindUnconsumed).withMsg("traversal stack left at depth %d", d.stack.depth())
	}
	root := d.stack.frames[0]
	if root.cursor < len(root.entries) {
		keys := make([]string, 0, len(root.entries)-root.cursor)
		for _, e := range root.entries[root.cursor:] {
			keys = append(keys, e.Key)
		}
		return newError(KindUnconsumed).withMsg("unvisited keys %s", strings.Join(keys, ", "))
	}
	d.stack.pop()
	return nil
}

func (d *Decoder) annotate(err error) error {
	de, ok := err.(*Error)
	if !ok {
		de = &Error{Kind: KindCustom, Msg: err.Error(), Err: err}
	}
	if de.Path != "" {
		return de
	}
	out := *de
	out.Path = d.stack.path()
	return &out
}
