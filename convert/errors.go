package convert

import (
	"errors"
	"fmt"

	"github.com/chazu/rbcore/types"
	"github.com/chazu/rbcore/vm"
)

// ErrNotRegistered is returned when a Go type is boxed or unboxed before a
// guest class was registered for it.
var ErrNotRegistered = errors.New("convert: Go type has no guest class")

// UnboxError reports a guest value whose type tag does not match the Go type
// a conversion asked for.
type UnboxError struct {
	Expected types.Host
	Actual   types.Guest
}

// NewUnboxError classifies value and builds the error for a failed
// conversion to expected.
func NewUnboxError(interp *vm.VM, value vm.Value, expected types.Host) *UnboxError {
	return &UnboxError{Expected: expected, Actual: interp.GuestType(value)}
}

func (e *UnboxError) Error() string {
	return fmt.Sprintf("failed to convert from %s to %s", e.Actual.ClassName(), e.Expected)
}

// BorrowError is the panic value raised when a boxed value is borrowed in a
// way that conflicts with an outstanding borrow. It indicates a bug in host
// code, never a guest-visible condition.
type BorrowError struct {
	Mutable bool
	State   int32
}

func (e *BorrowError) Error() string {
	if e.Mutable {
		return fmt.Sprintf("convert: already borrowed (state %d); cannot borrow mutably", e.State)
	}
	return "convert: already mutably borrowed; cannot borrow"
}
