package decode

import (
	"errors"
	"fmt"
)

// Kind classifies a decode failure.
type Kind uint8

const (
	// KindNoMoreValuesLeft means a read was attempted on an exhausted stack.
	KindNoMoreValuesLeft Kind = iota + 1
	// KindExpectSingleValue means a scalar read hit a key with zero or several values.
	KindExpectSingleValue
	KindExpectString
	KindExpectBoolean
	KindExpectNumber
	// KindExpectChar carries the offending string in Error.Actual.
	KindExpectChar
	KindExpectStruct
	KindExpectObject
	KindDataTypeNotSupported
	// KindCustom wraps a failure raised by the target type's own decode logic.
	KindCustom
	// KindUnconsumed means keys were left unvisited when decoding finished.
	KindUnconsumed
	// KindNumberOutOfRange is only produced with CheckedNumbers.
	KindNumberOutOfRange
)

var kindNames = map[Kind]string{
	KindNoMoreValuesLeft:     "NoMoreValuesLeft",
	KindExpectSingleValue:    "ExpectSingleValue",
	KindExpectString:         "ExpectString",
	KindExpectBoolean:        "ExpectBoolean",
	KindExpectNumber:         "ExpectNumber",
	KindExpectChar:           "ExpectChar",
	KindExpectStruct:         "ExpectStruct",
	KindExpectObject:         "ExpectObject",
	KindDataTypeNotSupported: "DataTypeNotSupported",
	KindCustom:               "Custom",
	KindUnconsumed:           "Unconsumed",
	KindNumberOutOfRange:     "NumberOutOfRange",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Sentinels for errors.Is. Matching compares Kind only.
var (
	ErrNoMoreValuesLeft     = &Error{Kind: KindNoMoreValuesLeft}
	ErrExpectSingleValue    = &Error{Kind: KindExpectSingleValue}
	ErrExpectString         = &Error{Kind: KindExpectString}
	ErrExpectBoolean        = &Error{Kind: KindExpectBoolean}
	ErrExpectNumber         = &Error{Kind: KindExpectNumber}
	ErrExpectChar           = &Error{Kind: KindExpectChar}
	ErrExpectStruct         = &Error{Kind: KindExpectStruct}
	ErrExpectObject         = &Error{Kind: KindExpectObject}
	ErrDataTypeNotSupported = &Error{Kind: KindDataTypeNotSupported}
	ErrCustom               = &Error{Kind: KindCustom}
	ErrUnconsumed           = &Error{Kind: KindUnconsumed}
	ErrNumberOutOfRange     = &Error{Kind: KindNumberOutOfRange}
)

// Error is the only error type produced by the engine.
type Error struct {
	Kind Kind
	// Actual is the offending input for KindExpectChar.
	Actual string
	// Msg is extra detail. For KindCustom it is the whole message.
	Msg string
	// Path locates the failure in the config tree, e.g. "Node[1].Address".
	// It is filled in by Unmarshal.
	Path string
	// Err is the wrapped target error for KindCustom, if any.
	Err error
}

func newError(kind Kind) *Error {
	return &Error{Kind: kind}
}

// Errorf builds a KindCustom error. Unmarshaler implementations use it to
// report domain validation failures.
func Errorf(format string, args ...any) error {
	err := fmt.Errorf(format, args...)
	return &Error{Kind: KindCustom, Msg: err.Error(), Err: errors.Unwrap(err)}
}

// wrapCustom folds an arbitrary error returned by target decode logic into
// the taxonomy. Errors that already are *Error pass through unchanged.
func wrapCustom(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*Error); ok {
		return err
	}
	return &Error{Kind: KindCustom, Msg: err.Error(), Err: err}
}

func (e *Error) message() string {
	switch e.Kind {
	case KindNoMoreValuesLeft:
		return "no more values left, this should never happen"
	case KindCustom:
		return "error from deserialization: " + e.Msg
	case KindExpectSingleValue:
		return "expecting values to contain a single entry"
	case KindExpectString:
		return "expecting string"
	case KindExpectChar:
		return fmt.Sprintf("expecting string of length one, received `%s`", e.Actual)
	case KindExpectBoolean:
		return "expecting boolean"
	case KindExpectNumber:
		return "expecting number"
	case KindExpectStruct:
		return "expecting struct"
	case KindExpectObject:
		return "needs an object to deserialize a struct"
	case KindDataTypeNotSupported:
		return "could not deserialize as datatype not supported"
	case KindUnconsumed:
		return "configuration keys left unconsumed"
	case KindNumberOutOfRange:
		return "number out of range"
	default:
		return e.Kind.String()
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.message()
	if e.Msg != "" && e.Kind != KindCustom {
		msg += ": " + e.Msg
	}
	if e.Path != "" {
		return "oconfig: " + e.Path + ": " + msg
	}
	return "oconfig: " + msg
}

// Unwrap returns the wrapped target error, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// withMsg returns a copy of e with detail attached.
func (e *Error) withMsg(format string, args ...any) *Error {
	out := *e
	out.Msg = fmt.Sprintf(format, args...)
	return &out
}
