// Package array implements the guest Array: a mutable sequence of guest
// values boxed inside a Data slot, together with its method table.
//
// Package-level functions take the boxed guest value rather than *Array.
// They check the frozen flag on the heap slot before any change and go
// through the convert package's borrow discipline to reach the buffer.
package array

import (
	"github.com/gammazero/deque"

	"github.com/chazu/rbcore/convert"
	"github.com/chazu/rbcore/types"
	"github.com/chazu/rbcore/vm"
)

// Array is the Go value boxed behind every guest Array.
type Array struct {
	buffer deque.Deque[vm.Value]
}

func newArray(capacity int) *Array {
	a := &Array{}
	if capacity > 0 {
		a.buffer.Grow(capacity)
	}
	return a
}

func fromSlice(vs []vm.Value) *Array {
	a := newArray(len(vs))
	for _, v := range vs {
		a.buffer.PushBack(v)
	}
	return a
}

// GuestType tags boxed Arrays as types.Array rather than plain Data.
func (a *Array) GuestType() types.Guest { return types.Array }

// Len returns the number of elements.
func (a *Array) Len() int { return a.buffer.Len() }

// At returns the element at position i, which must be in range.
func (a *Array) At(i int) vm.Value { return a.buffer.At(i) }

// Values returns a copy of the buffer.
func (a *Array) Values() []vm.Value {
	out := make([]vm.Value, a.buffer.Len())
	for i := range out {
		out[i] = a.buffer.At(i)
	}
	return out
}

func (a *Array) get(i int) (vm.Value, bool) {
	if i < 0 || i >= a.buffer.Len() {
		return vm.Nil, false
	}
	return a.buffer.At(i), true
}

// padTo appends nils until the buffer holds n elements.
func (a *Array) padTo(n int) {
	for a.buffer.Len() < n {
		a.buffer.PushBack(vm.Nil)
	}
}

func (a *Array) set(i int, v vm.Value) {
	a.padTo(i + 1)
	a.buffer.Set(i, v)
}

func (a *Array) appendAll(vs []vm.Value) {
	for _, v := range vs {
		a.buffer.PushBack(v)
	}
}

func (a *Array) insertAll(at int, vs []vm.Value) {
	for i, v := range vs {
		a.buffer.Insert(at+i, v)
	}
}

func (a *Array) removeN(at, count int) {
	for i := 0; i < count; i++ {
		a.buffer.Remove(at)
	}
}

func (a *Array) reverse() {
	for front, back := 0, a.buffer.Len()-1; front < back; front, back = front+1, back-1 {
		f, b := a.buffer.At(front), a.buffer.At(back)
		a.buffer.Set(front, b)
		a.buffer.Set(back, f)
	}
}

// ---------------------------------------------------------------------------
// Boxing
// ---------------------------------------------------------------------------

func box(interp *vm.VM, a *Array, into *vm.Value) (vm.Value, error) {
	if interp.ClassForGoType(arrayType) == nil {
		Init(interp)
	}
	return convert.Box(interp, a, into)
}

// alloc boxes a into a fresh slot. Box only fails when overwriting a slot,
// so a failure here means the heap itself is broken.
func alloc(interp *vm.VM, a *Array) vm.Value {
	v, err := box(interp, a, nil)
	if err != nil {
		panic(fatalf("allocating Array: %v", err))
	}
	return v
}

func unbox(interp *vm.VM, ary vm.Value) (*convert.Cell[Array], error) {
	cell, err := convert.Unbox[Array](interp, ary)
	if err != nil {
		return nil, fatalf("receiver is not an Array: %v", err)
	}
	return cell, nil
}

// IsArray reports whether v is a boxed Array.
func IsArray(interp *vm.VM, v vm.Value) bool {
	_, err := convert.Unbox[Array](interp, v)
	return err == nil
}

// snapshot copies the elements of the Array behind v. The second result is
// false when v is not an Array.
func snapshot(interp *vm.VM, v vm.Value) ([]vm.Value, bool) {
	cell, err := convert.Unbox[Array](interp, v)
	if err != nil {
		return nil, false
	}
	a, release := cell.Borrow()
	defer release()
	return a.Values(), true
}

// mutate runs fn with an exclusive borrow of the Array behind ary after
// checking the frozen flag. fn must not call back into the guest.
func mutate(interp *vm.VM, ary vm.Value, fn func(a *Array) error) error {
	if interp.IsFrozen(ary) {
		return ErrFrozen
	}
	cell, err := unbox(interp, ary)
	if err != nil {
		return err
	}
	a, release := cell.BorrowMut()
	defer release()
	return fn(a)
}

// read runs fn with a shared borrow of the Array behind ary.
func read(interp *vm.VM, ary vm.Value, fn func(a *Array)) error {
	cell, err := unbox(interp, ary)
	if err != nil {
		return err
	}
	a, release := cell.Borrow()
	defer release()
	fn(a)
	return nil
}

// ---------------------------------------------------------------------------
// Construction
// ---------------------------------------------------------------------------

// New returns an empty Array.
func New(interp *vm.VM) vm.Value {
	return alloc(interp, newArray(0))
}

// WithCapacity returns an empty Array with room for n elements.
func WithCapacity(interp *vm.VM, n int) vm.Value {
	return alloc(interp, newArray(n))
}

// FromValues returns an Array holding a copy of vs.
func FromValues(interp *vm.VM, vs []vm.Value) vm.Value {
	return alloc(interp, fromSlice(vs))
}

// Assoc returns the pair [car, cdr].
func Assoc(interp *vm.VM, car, cdr vm.Value) vm.Value {
	return alloc(interp, fromSlice([]vm.Value{car, cdr}))
}

// Len returns the number of elements of ary.
func Len(interp *vm.VM, ary vm.Value) (int, error) {
	var n int
	err := read(interp, ary, func(a *Array) { n = a.Len() })
	return n, err
}

// Elements returns a copy of the elements of ary.
func Elements(interp *vm.VM, ary vm.Value) ([]vm.Value, error) {
	var vs []vm.Value
	err := read(interp, ary, func(a *Array) { vs = a.Values() })
	return vs, err
}

// Clone returns a new, unfrozen Array with the same elements.
func Clone(interp *vm.VM, ary vm.Value) (vm.Value, error) {
	vs, err := Elements(interp, ary)
	if err != nil {
		return vm.Nil, err
	}
	return FromValues(interp, vs), nil
}

// InitializeCopy replaces the payload of ary with a copy of other's
// elements. ary keeps its identity, so existing references see the copy.
func InitializeCopy(interp *vm.VM, ary, other vm.Value) (vm.Value, error) {
	if interp.IsFrozen(ary) {
		return vm.Nil, ErrFrozen
	}
	if _, err := unbox(interp, ary); err != nil {
		return vm.Nil, err
	}
	vs, err := implicitArray(interp, other)
	if err != nil {
		return vm.Nil, err
	}
	return box(interp, fromSlice(vs), &ary)
}
