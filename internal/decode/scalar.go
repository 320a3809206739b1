package decode

import (
	"math"
	"unicode/utf8"
)

// current returns the node a scalar read applies to: the only node of an
// item frame, or the node under the cursor of a seq frame.
func (d *Decoder) current() (Node, error) {
	f, err := d.stack.top()
	if err != nil {
		return Node{}, err
	}
	switch f.kind {
	case itemFrame:
		if len(f.nodes) != 1 {
			return Node{}, newError(KindExpectSingleValue).withMsg("`%s` has %d values", f.key, len(f.nodes))
		}
		return f.nodes[0], nil
	case seqFrame:
		return f.nodes[f.cursor], nil
	default:
		return Node{}, newError(KindExpectSingleValue)
	}
}

func (d *Decoder) grabString() (string, error) {
	n, err := d.current()
	if err != nil {
		return "", err
	}
	if n.Kind != StringNode {
		return "", newError(KindExpectString).withMsg("found %s", n.Kind)
	}
	return n.Str, nil
}

func (d *Decoder) grabBool() (bool, error) {
	n, err := d.current()
	if err != nil {
		return false, err
	}
	if n.Kind != BooleanNode {
		return false, newError(KindExpectBoolean).withMsg("found %s", n.Kind)
	}
	return n.Bool, nil
}

func (d *Decoder) grabNumber() (float64, error) {
	n, err := d.current()
	if err != nil {
		return 0, err
	}
	if n.Kind != NumberNode {
		return 0, newError(KindExpectNumber).withMsg("found %s", n.Kind)
	}
	return n.Num, nil
}

// ReadBool reads a boolean scalar.
func (d *Decoder) ReadBool() (bool, error) {
	return d.grabBool()
}

// ReadInt reads a number as a signed integer of the given bit size
// (8, 16, 32 or 64). The fraction is truncated and out of range values
// saturate at the bounds of the width, unless CheckedNumbers is set.
func (d *Decoder) ReadInt(bits int) (int64, error) {
	f, err := d.grabNumber()
	if err != nil {
		return 0, err
	}
	if d.opts.checkedNumbers {
		lo, hi := intBounds(bits)
		if bits == 64 {
			// 2^63 itself is not representable as int64.
			hi = math.Nextafter(hi, 0)
		}
		if err := checkIntegral(f, lo, hi); err != nil {
			return 0, err
		}
	}
	return castInt(f, bits), nil
}

// ReadUint reads a number as an unsigned integer of the given bit size.
// Negative numbers saturate at zero unless CheckedNumbers is set.
func (d *Decoder) ReadUint(bits int) (uint64, error) {
	f, err := d.grabNumber()
	if err != nil {
		return 0, err
	}
	if d.opts.checkedNumbers {
		hi := uintMax(bits)
		if bits == 64 {
			hi = math.Nextafter(hi, 0)
		}
		if err := checkIntegral(f, 0, hi); err != nil {
			return 0, err
		}
	}
	return castUint(f, bits), nil
}

// ReadFloat reads a number, narrowed to float32 precision when bits is 32.
func (d *Decoder) ReadFloat(bits int) (float64, error) {
	f, err := d.grabNumber()
	if err != nil {
		return 0, err
	}
	if bits == 32 {
		if d.opts.checkedNumbers && !math.IsInf(f, 0) && !math.IsNaN(f) && math.Abs(f) > math.MaxFloat32 {
			return 0, newError(KindNumberOutOfRange).withMsg("%g does not fit in float32", f)
		}
		return float64(float32(f)), nil
	}
	return f, nil
}

// ReadString reads a string scalar.
func (d *Decoder) ReadString() (string, error) {
	return d.grabString()
}

// ReadChar reads a string scalar that must hold exactly one character.
func (d *Decoder) ReadChar() (rune, error) {
	s, err := d.grabString()
	if err != nil {
		return 0, err
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, &Error{Kind: KindExpectChar, Actual: s}
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

func intBounds(bits int) (float64, float64) {
	switch bits {
	case 8:
		return math.MinInt8, math.MaxInt8
	case 16:
		return math.MinInt16, math.MaxInt16
	case 32:
		return math.MinInt32, math.MaxInt32
	default:
		return math.MinInt64, math.MaxInt64
	}
}

func uintMax(bits int) float64 {
	switch bits {
	case 8:
		return math.MaxUint8
	case 16:
		return math.MaxUint16
	case 32:
		return math.MaxUint32
	default:
		return math.MaxUint64
	}
}

func checkIntegral(f, lo, hi float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return newError(KindNumberOutOfRange).withMsg("%g is not an integer", f)
	}
	if f < lo || f > hi {
		return newError(KindNumberOutOfRange).withMsg("%g is outside [%g, %g]", f, lo, hi)
	}
	return nil
}

// castInt truncates toward zero and saturates at the bounds of the width.
// NaN becomes zero. Go leaves out of range float conversions
// implementation-defined, so the clamping happens here explicitly.
func castInt(f float64, bits int) int64 {
	if math.IsNaN(f) {
		return 0
	}
	f = math.Trunc(f)
	lo, hi := intBounds(bits)
	switch {
	case f <= lo:
		return int64(lo)
	case f >= hi:
		if hi > math.MaxInt32 {
			return math.MaxInt64
		}
		return int64(hi)
	}
	return int64(f)
}

func castUint(f float64, bits int) uint64 {
	if math.IsNaN(f) || f <= 0 {
		return 0
	}
	f = math.Trunc(f)
	hi := uintMax(bits)
	if f >= hi {
		if hi > math.MaxUint32 {
			return math.MaxUint64
		}
		return uint64(hi)
	}
	return uint64(f)
}
