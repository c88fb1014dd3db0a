package convert

import (
	"fmt"
	"reflect"
	"sync/atomic"

	"github.com/chazu/rbcore/types"
	"github.com/chazu/rbcore/vm"
)

// ---------------------------------------------------------------------------
// Cell: runtime-checked ownership of a boxed Go value
// ---------------------------------------------------------------------------

const exclusive int32 = -1

// Cell owns a Go value boxed inside a guest Data slot. Any number of shared
// borrows may be outstanding, or exactly one exclusive borrow. A conflicting
// borrow panics with *BorrowError.
type Cell[T any] struct {
	state atomic.Int32
	value *T
}

// Borrow takes a shared borrow. Call release when done reading.
func (c *Cell[T]) Borrow() (value *T, release func()) {
	for {
		s := c.state.Load()
		if s == exclusive {
			panic(&BorrowError{State: s})
		}
		if c.state.CompareAndSwap(s, s+1) {
			return c.value, func() { c.state.Add(-1) }
		}
	}
}

// BorrowMut takes an exclusive borrow. Call release when done writing.
func (c *Cell[T]) BorrowMut() (value *T, release func()) {
	if !c.state.CompareAndSwap(0, exclusive) {
		panic(&BorrowError{Mutable: true, State: c.state.Load()})
	}
	return c.value, func() { c.state.Store(0) }
}

// Borrowed reports whether any borrow is outstanding.
func (c *Cell[T]) Borrowed() bool {
	return c.state.Load() != 0
}

// GuestType lets the boxed type pick its own tag.
func (c *Cell[T]) GuestType() types.Guest {
	if g, ok := any(c.value).(vm.GuestTyper); ok {
		return g.GuestType()
	}
	return types.Data
}

// ---------------------------------------------------------------------------
// Box / Unbox
// ---------------------------------------------------------------------------

func goTypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Box moves native into a guest Data slot of the class registered for T.
// With a nil into, a new slot is allocated. Otherwise the slot into points at
// is overwritten in place, keeping its identity; this is how initializing
// copies replace their receiver's payload.
func Box[T any](interp *vm.VM, native *T, into *vm.Value) (vm.Value, error) {
	goType := goTypeOf[T]()
	class := interp.ClassForGoType(goType)
	if class == nil {
		return vm.Nil, fmt.Errorf("%w: %s", ErrNotRegistered, goType)
	}
	cell := &Cell[T]{value: native}
	if into == nil {
		return interp.Heap.Alloc(class, vm.KindData, cell), nil
	}
	if err := interp.Heap.Replace(*into, class, vm.KindData, cell); err != nil {
		return vm.Nil, err
	}
	return *into, nil
}

// ReplaceInPlace overwrites target's payload with native.
func ReplaceInPlace[T any](interp *vm.VM, target vm.Value, native *T) error {
	_, err := Box(interp, native, &target)
	return err
}

// Unbox returns the cell owning the Go value behind v. It fails with an
// *UnboxError when v is not a Data slot of the class registered for T.
func Unbox[T any](interp *vm.VM, v vm.Value) (*Cell[T], error) {
	goType := goTypeOf[T]()
	class := interp.ClassForGoType(goType)
	if class == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, goType)
	}
	slot := interp.Heap.Slot(v)
	if slot == nil || slot.Kind != vm.KindData || slot.Class != class {
		return nil, NewUnboxError(interp, v, types.HostObject)
	}
	cell, ok := slot.Data().(*Cell[T])
	if !ok {
		return nil, NewUnboxError(interp, v, types.HostObject)
	}
	return cell, nil
}

// Register binds T to a guest class named className.
func Register[T any](interp *vm.VM, className string) *vm.Class {
	return interp.RegisterGoType(className, goTypeOf[T]())
}
