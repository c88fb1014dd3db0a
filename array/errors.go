package array

import (
	"errors"
	"fmt"
)

// ErrFrozen is returned by every mutating operation on a frozen Array. The
// buffer is left untouched.
var ErrFrozen = errors.New("can't modify frozen Array")

// ErrFatal marks a broken internal invariant, such as a receiver that does
// not unbox as an Array. It is wrapped with context and must never be
// turned into a guest exception.
var ErrFatal = errors.New("array: fatal")

// IndexTooSmallError is returned when a negative offset reaches before the
// first element. Minimum is the smallest valid negative offset.
type IndexTooSmallError struct {
	Index   int64
	Minimum int64
}

func (e *IndexTooSmallError) Error() string {
	return fmt.Sprintf("index %d too small for array; minimum: %d", e.Index, e.Minimum)
}

// IndexTooBigError is returned when a write would grow the buffer past
// MaxLen.
type IndexTooBigError struct {
	Index int64
}

func (e *IndexTooBigError) Error() string {
	return fmt.Sprintf("index %d too big", e.Index)
}

// CannotConvertError is returned when a conversion method was called but
// produced something other than an Array.
type CannotConvertError struct {
	To     string
	From   string
	Method string
	Gives  string
}

func (e *CannotConvertError) Error() string {
	return fmt.Sprintf("can't convert %s to %s (%s#%s gives %s)", e.From, e.To, e.From, e.Method, e.Gives)
}

// NoImplicitConversionError is returned when a value with no conversion
// method is used where an Array is required.
type NoImplicitConversionError struct {
	From string
	To   string
}

func (e *NoImplicitConversionError) Error() string {
	return fmt.Sprintf("no implicit conversion of %s into %s", e.From, e.To)
}

func fatalf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrFatal, fmt.Sprintf(format, args...))
}
