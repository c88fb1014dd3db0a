package array

import (
	"github.com/chazu/rbcore/vm"
)

// clipEnd returns the exclusive end of the range of length elements
// starting at start, clipped to n. start must not exceed n.
func clipEnd(start int, length int64, n int) int {
	if length >= int64(n-start) {
		return n
	}
	return start + int(length)
}

// spliceLen is the buffer length splice leaves behind for a buffer of
// length n.
func spliceLen(start int, length int64, n, repl int) int64 {
	if start > n {
		return int64(start) + int64(repl)
	}
	end := clipEnd(start, length, n)
	return int64(n-(end-start)) + int64(repl)
}

// splice replaces the elements in [start, start+length) with repl.
//
// A start past the end pads the gap with nil and appends repl. Otherwise
// the range is clipped to the current end, the overlapping prefix is
// overwritten in place, and the remainder of repl is inserted or the
// remainder of the range removed. The result is always
// buf[:start] + repl + buf[end:].
func (a *Array) splice(start int, length int64, repl []vm.Value) {
	n := a.Len()
	if start > n {
		a.padTo(start)
		a.appendAll(repl)
		return
	}
	end := clipEnd(start, length, n)
	replaced := end - start
	overlap := min(replaced, len(repl))
	for i := 0; i < overlap; i++ {
		a.buffer.Set(start+i, repl[i])
	}
	if len(repl) > replaced {
		a.insertAll(start+overlap, repl[overlap:])
	} else {
		a.removeN(start+overlap, replaced-overlap)
	}
}

// ElementReference reads ary[sel].
//
// For an Index, positions outside the buffer read as nil. For a StartLen, a
// new Array holding up to Len elements from Start is returned, clipped to
// the current length. A Start just past the end gives an empty Array,
// anything further or a negative Len gives nil, and a negative Start
// before the first element is an *IndexTooSmallError.
func ElementReference(interp *vm.VM, ary vm.Value, sel Selector) (vm.Value, error) {
	switch s := sel.(type) {
	case Index:
		out := vm.Nil
		err := read(interp, ary, func(a *Array) {
			if pos, err := normalize(int64(s), a.Len()); err == nil {
				out, _ = a.get(pos)
			}
		})
		return out, err

	case StartLen:
		if s.Len < 0 {
			return vm.Nil, nil
		}
		var (
			vs      []vm.Value
			missing bool
			nerr    error
		)
		err := read(interp, ary, func(a *Array) {
			n := a.Len()
			if s.Start > int64(n) {
				missing = true
				return
			}
			start, err := normalize(s.Start, n)
			if err != nil {
				nerr = err
				return
			}
			end := clipEnd(start, s.Len, n)
			vs = make([]vm.Value, 0, end-start)
			for i := start; i < end; i++ {
				vs = append(vs, a.At(i))
			}
		})
		switch {
		case err != nil:
			return vm.Nil, err
		case nerr != nil:
			return vm.Nil, nerr
		case missing:
			return vm.Nil, nil
		}
		return FromValues(interp, vs), nil
	}
	return vm.Nil, fatalf("unknown selector %T", sel)
}

// ElementAssignment performs ary[sel] = other and returns other.
//
// An Index past the end pads with nil. A StartLen splices: other is taken
// as is when it is an Array, converted with to_ary when it answers it, and
// treated as a one-element sequence otherwise. The conversion runs before
// ary is borrowed, so to_ary may freely touch ary.
func ElementAssignment(interp *vm.VM, ary vm.Value, sel Selector, other vm.Value) (vm.Value, error) {
	if interp.IsFrozen(ary) {
		return vm.Nil, ErrFrozen
	}
	switch s := sel.(type) {
	case Index:
		err := mutate(interp, ary, func(a *Array) error {
			pos, err := normalize(int64(s), a.Len())
			if err != nil {
				return err
			}
			a.set(pos, other)
			return nil
		})
		if err != nil {
			return vm.Nil, err
		}
		return other, nil

	case StartLen:
		if s.Len < 0 {
			return vm.Nil, fatalf("negative splice length %d", s.Len)
		}
		repl, err := replacement(interp, other)
		if err != nil {
			return vm.Nil, err
		}
		err = mutate(interp, ary, func(a *Array) error {
			start, err := normalize(s.Start, a.Len())
			if err != nil {
				return err
			}
			if spliceLen(start, s.Len, a.Len(), len(repl)) > MaxLen {
				return &IndexTooBigError{Index: s.Start}
			}
			a.splice(start, s.Len, repl)
			return nil
		})
		if err != nil {
			return vm.Nil, err
		}
		return other, nil
	}
	return vm.Nil, fatalf("unknown selector %T", sel)
}

// ElementSet writes value at offset and returns ary.
func ElementSet(interp *vm.VM, ary vm.Value, offset int64, value vm.Value) (vm.Value, error) {
	if _, err := ElementAssignment(interp, ary, Index(offset), value); err != nil {
		return vm.Nil, err
	}
	return ary, nil
}
