// Package convert maps Go values onto guest values and back.
//
// Conversions come in three families, each parametrized by the Go type:
//   - Converter: infallible, produces immediates, needs no runtime
//   - MutConverter: infallible, may allocate guest heap objects
//   - TryConverter: fallible, guest value to Go value
//
// Every supported Go type has its own codec value (Int, Bytes, ...).
// The package also implements boxing of arbitrary Go structs inside guest
// Data slots; see Box and Unbox.
package convert

import (
	"github.com/chazu/rbcore/vm"
)

// Converter maps a Go value onto an immediate guest value.
type Converter[T any] interface {
	Convert(value T) vm.Value
}

// MutConverter maps a Go value onto a guest value, allocating on the guest
// heap if needed. The result is fully initialized when returned.
type MutConverter[T any] interface {
	ConvertMut(interp *vm.VM, value T) vm.Value
}

// TryConverter maps a guest value onto a Go value, failing with an
// *UnboxError when the guest value has the wrong type.
type TryConverter[T any] interface {
	TryConvert(interp *vm.VM, value vm.Value) (T, error)
}

// Codec converts in both directions.
type Codec[T any] interface {
	MutConverter[T]
	TryConverter[T]
}
