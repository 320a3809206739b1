package oconfig

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueType tags the variant held by a Value.
type ValueType uint8

const (
	TypeString ValueType = iota
	TypeNumber
	TypeBoolean
)

// String implements fmt.Stringer.
func (t ValueType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeNumber:
		return "number"
	case TypeBoolean:
		return "boolean"
	default:
		return fmt.Sprintf("ValueType(%d)", uint8(t))
	}
}

// Value is a single scalar attached to an Item. It is immutable once built.
type Value struct {
	typ ValueType
	num float64
	b   bool
	str string
}

// Number returns a numeric value. The config format only knows float64.
func Number(f float64) Value {
	return Value{typ: TypeNumber, num: f}
}

// Boolean returns a boolean value.
func Boolean(b bool) Value {
	return Value{typ: TypeBoolean, b: b}
}

// String returns a string value.
func String(s string) Value {
	return Value{typ: TypeString, str: s}
}

// Type reports which variant v holds.
func (v Value) Type() ValueType { return v.typ }

// Number returns the numeric payload and whether v is a number.
func (v Value) Number() (float64, bool) { return v.num, v.typ == TypeNumber }

// Boolean returns the boolean payload and whether v is a boolean.
func (v Value) Boolean() (bool, bool) { return v.b, v.typ == TypeBoolean }

// Str returns the string payload and whether v is a string.
func (v Value) Str() (string, bool) { return v.str, v.typ == TypeString }

// GoString renders v the way it would appear in a config file.
func (v Value) GoString() string {
	switch v.typ {
	case TypeNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case TypeBoolean:
		if v.b {
			return "true"
		}
		return "false"
	default:
		return strconv.Quote(v.str)
	}
}

// Item is one node of the configuration tree.
type Item struct {
	Key      string
	Values   []Value
	Children []Item
}

// NewItem is a small convenience constructor for leaf items.
func NewItem(key string, values ...Value) Item {
	return Item{Key: key, Values: values}
}

// WithChildren returns a copy of it with children appended.
func (it Item) WithChildren(children ...Item) Item {
	out := it
	out.Children = append(append([]Item(nil), it.Children...), children...)
	return out
}

// String renders the item and its subtree in collectd's block syntax. It is
// meant for logs and test failure messages, not for round-tripping.
func (it Item) String() string {
	var sb strings.Builder
	writeItem(&sb, it, 0)
	return strings.TrimRight(sb.String(), "\n")
}

func writeItem(sb *strings.Builder, it Item, depth int) {
	indent := strings.Repeat("  ", depth)
	vals := make([]string, 0, len(it.Values))
	for _, v := range it.Values {
		vals = append(vals, v.GoString())
	}
	head := it.Key
	if len(vals) > 0 {
		head += " " + strings.Join(vals, " ")
	}
	if len(it.Children) == 0 {
		fmt.Fprintf(sb, "%s%s\n", indent, head)
		return
	}
	fmt.Fprintf(sb, "%s<%s>\n", indent, head)
	for _, c := range it.Children {
		writeItem(sb, c, depth+1)
	}
	fmt.Fprintf(sb, "%s</%s>\n", indent, it.Key)
}
