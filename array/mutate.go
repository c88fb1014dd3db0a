package array

import (
	"github.com/chazu/rbcore/vm"
)

// Pop removes and returns the last element, or nil when ary is empty.
func Pop(interp *vm.VM, ary vm.Value) (vm.Value, error) {
	out := vm.Nil
	err := mutate(interp, ary, func(a *Array) error {
		if a.Len() > 0 {
			out = a.buffer.PopBack()
		}
		return nil
	})
	return out, err
}

// Shift removes and returns the first element, or nil when ary is empty.
func Shift(interp *vm.VM, ary vm.Value) (vm.Value, error) {
	out := vm.Nil
	err := mutate(interp, ary, func(a *Array) error {
		if a.Len() > 0 {
			out = a.buffer.PopFront()
		}
		return nil
	})
	return out, err
}

// ShiftN removes up to count elements from the front and returns them as a
// new Array, stopping early when ary runs out.
func ShiftN(interp *vm.VM, ary vm.Value, count int) (vm.Value, error) {
	if count < 0 {
		return vm.Nil, fatalf("negative shift count %d", count)
	}
	var shifted []vm.Value
	err := mutate(interp, ary, func(a *Array) error {
		shifted = make([]vm.Value, 0, min(count, a.Len()))
		for len(shifted) < count && a.Len() > 0 {
			shifted = append(shifted, a.buffer.PopFront())
		}
		return nil
	})
	if err != nil {
		return vm.Nil, err
	}
	return FromValues(interp, shifted), nil
}

// Unshift prepends values, keeping their order, and returns ary.
func Unshift(interp *vm.VM, ary vm.Value, values ...vm.Value) (vm.Value, error) {
	err := mutate(interp, ary, func(a *Array) error {
		for i := len(values) - 1; i >= 0; i-- {
			a.buffer.PushFront(values[i])
		}
		return nil
	})
	if err != nil {
		return vm.Nil, err
	}
	return ary, nil
}

// Push appends values and returns ary.
func Push(interp *vm.VM, ary vm.Value, values ...vm.Value) (vm.Value, error) {
	err := mutate(interp, ary, func(a *Array) error {
		a.appendAll(values)
		return nil
	})
	if err != nil {
		return vm.Nil, err
	}
	return ary, nil
}

// Concat appends the elements of every other and returns ary. All
// arguments are converted and copied before ary changes, so ary may appear
// among others: [1, 2].concat(self) is [1, 2, 1, 2].
func Concat(interp *vm.VM, ary vm.Value, others ...vm.Value) (vm.Value, error) {
	if interp.IsFrozen(ary) {
		return vm.Nil, ErrFrozen
	}
	var tail []vm.Value
	for _, other := range others {
		vs, err := implicitArray(interp, other)
		if err != nil {
			return vm.Nil, err
		}
		tail = append(tail, vs...)
	}
	err := mutate(interp, ary, func(a *Array) error {
		a.appendAll(tail)
		return nil
	})
	if err != nil {
		return vm.Nil, err
	}
	return ary, nil
}

// Replace makes ary hold exactly the elements of other and returns ary.
func Replace(interp *vm.VM, ary, other vm.Value) (vm.Value, error) {
	if interp.IsFrozen(ary) {
		return vm.Nil, ErrFrozen
	}
	vs, err := implicitArray(interp, other)
	if err != nil {
		return vm.Nil, err
	}
	err = mutate(interp, ary, func(a *Array) error {
		a.buffer.Clear()
		a.appendAll(vs)
		return nil
	})
	if err != nil {
		return vm.Nil, err
	}
	return ary, nil
}

// Clear removes every element and returns ary.
func Clear(interp *vm.VM, ary vm.Value) (vm.Value, error) {
	err := mutate(interp, ary, func(a *Array) error {
		a.buffer.Clear()
		return nil
	})
	if err != nil {
		return vm.Nil, err
	}
	return ary, nil
}

// Reverse returns a new Array with the elements of ary in reverse order.
func Reverse(interp *vm.VM, ary vm.Value) (vm.Value, error) {
	vs, err := Elements(interp, ary)
	if err != nil {
		return vm.Nil, err
	}
	rev := fromSlice(vs)
	rev.reverse()
	return alloc(interp, rev), nil
}

// ReverseBang reverses ary in place and returns it.
func ReverseBang(interp *vm.VM, ary vm.Value) (vm.Value, error) {
	err := mutate(interp, ary, func(a *Array) error {
		a.reverse()
		return nil
	})
	if err != nil {
		return vm.Nil, err
	}
	return ary, nil
}
