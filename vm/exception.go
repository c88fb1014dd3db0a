package vm

import (
	"fmt"
)

// Exception is a guest-level exception travelling through Go code as an
// error. Guest methods return it; the core propagates it unchanged.
type Exception struct {
	Class   string
	Message string
}

func (e *Exception) Error() string {
	return fmt.Sprintf("%s: %s", e.Class, e.Message)
}

// Raise builds an Exception of the named class with a formatted message.
func Raise(class string, format string, args ...interface{}) *Exception {
	return &Exception{Class: class, Message: fmt.Sprintf(format, args...)}
}

// Standard guest exception class names.
const (
	ArgumentError = "ArgumentError"
	FrozenError   = "FrozenError"
	IndexError    = "IndexError"
	NoMethodError = "NoMethodError"
	RangeError    = "RangeError"
	TypeError     = "TypeError"
)

func arityError(given int, aspec Aspec) *Exception {
	var expected string
	switch {
	case aspec.Rest:
		expected = fmt.Sprintf("%d+", aspec.Req)
	case aspec.Opt > 0:
		expected = fmt.Sprintf("%d..%d", aspec.Req, aspec.Req+aspec.Opt)
	default:
		expected = fmt.Sprintf("%d", aspec.Req)
	}
	return Raise(ArgumentError, "wrong number of arguments (given %d, expected %s)", given, expected)
}
