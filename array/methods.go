package array

import (
	"errors"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/chazu/rbcore/convert"
	"github.com/chazu/rbcore/vm"
)

var log = commonlog.GetLogger("rbcore.array")

// Init registers the Array class and its method table with interp and
// returns the class. Calling it again reinstalls the same methods.
func Init(interp *vm.VM) *vm.Class {
	c := convert.Register[Array](interp, "Array")

	registerAccessors(c)
	registerMutators(c)
	registerConversions(c)
	registerConstructors(c)

	// NilClass#to_a lets splatting nil produce an empty Array.
	interp.NilClass.AddMethod0("to_a", func(v *vm.VM, _ vm.Value) (vm.Value, error) {
		return New(v), nil
	})

	log.Debugf("registered %d Array methods", len(c.MethodNames()))
	return c
}

// ---------------------------------------------------------------------------
// Element access
// ---------------------------------------------------------------------------

func registerAccessors(c *vm.Class) {
	// [] - ary[index] or ary[start, length]
	c.AddPrimitiveMethod("[]", vm.ArgsReqAndOpt(1, 1), func(v *vm.VM, recv vm.Value, args []vm.Value, _ vm.Value) (vm.Value, error) {
		sel, err := selectorArg(v, args)
		if err != nil {
			return vm.Nil, raise(v, recv, err)
		}
		out, err := ElementReference(v, recv, sel)
		var tooSmall *IndexTooSmallError
		if errors.As(err, &tooSmall) {
			return vm.Nil, nil
		}
		return out, raise(v, recv, err)
	})

	// []= - ary[index] = value or ary[start, length] = value
	c.AddPrimitiveMethod("[]=", vm.ArgsReqAndOpt(2, 1), func(v *vm.VM, recv vm.Value, args []vm.Value, _ vm.Value) (vm.Value, error) {
		value := args[len(args)-1]
		sel, err := selectorArg(v, args[:len(args)-1])
		if err != nil {
			return vm.Nil, raise(v, recv, err)
		}
		if s, ok := sel.(StartLen); ok && s.Len < 0 {
			return vm.Nil, vm.Raise(vm.IndexError, "negative length (%d)", s.Len)
		}
		out, err := ElementAssignment(v, recv, sel, value)
		return out, raise(v, recv, err)
	})

	// length, size - number of elements
	length := func(v *vm.VM, recv vm.Value) (vm.Value, error) {
		n, err := Len(v, recv)
		if err != nil {
			return vm.Nil, raise(v, recv, err)
		}
		return convert.Int.Convert(int64(n)), nil
	}
	c.AddMethod0("length", length)
	c.AddMethod0("size", length)

	// reverse - new Array in reverse order
	c.AddMethod0("reverse", func(v *vm.VM, recv vm.Value) (vm.Value, error) {
		out, err := Reverse(v, recv)
		return out, raise(v, recv, err)
	})

	// == - element-wise equality
	c.AddMethod1("==", func(v *vm.VM, recv vm.Value, other vm.Value) (vm.Value, error) {
		return vm.FromBool(equal(v, recv, other)), nil
	})

	// inspect, to_s - [1, 2, 3]
	show := func(v *vm.VM, recv vm.Value) (vm.Value, error) {
		return v.NewString(Inspect(v, recv)), nil
	}
	c.AddMethod0("inspect", show)
	c.AddMethod0("to_s", show)
}

// ---------------------------------------------------------------------------
// Mutation
// ---------------------------------------------------------------------------

func registerMutators(c *vm.Class) {
	// concat - append the elements of every argument
	c.AddPrimitiveMethod("concat", vm.ArgsAny(), func(v *vm.VM, recv vm.Value, args []vm.Value, _ vm.Value) (vm.Value, error) {
		out, err := Concat(v, recv, args...)
		return out, raise(v, recv, err)
	})

	// initialize_copy - replace payload in place, used by dup and clone
	c.AddMethod1("initialize_copy", func(v *vm.VM, recv vm.Value, other vm.Value) (vm.Value, error) {
		out, err := InitializeCopy(v, recv, other)
		return out, raise(v, recv, err)
	})

	// pop - remove the last element
	c.AddMethod0("pop", func(v *vm.VM, recv vm.Value) (vm.Value, error) {
		out, err := Pop(v, recv)
		return out, raise(v, recv, err)
	})

	// shift, shift(n) - remove from the front
	c.AddPrimitiveMethod("shift", vm.ArgsOpt(1), func(v *vm.VM, recv vm.Value, args []vm.Value, _ vm.Value) (vm.Value, error) {
		if len(args) == 0 {
			out, err := Shift(v, recv)
			return out, raise(v, recv, err)
		}
		n, err := intArg(v, args[0])
		if err != nil {
			return vm.Nil, raise(v, recv, err)
		}
		if n < 0 {
			return vm.Nil, vm.Raise(vm.ArgumentError, "negative array size")
		}
		out, err := ShiftN(v, recv, int(min(n, MaxLen)))
		return out, raise(v, recv, err)
	})

	// push - append every argument
	c.AddPrimitiveMethod("push", vm.ArgsAny(), func(v *vm.VM, recv vm.Value, args []vm.Value, _ vm.Value) (vm.Value, error) {
		out, err := Push(v, recv, args...)
		return out, raise(v, recv, err)
	})

	// << - append one element
	c.AddMethod1("<<", func(v *vm.VM, recv vm.Value, value vm.Value) (vm.Value, error) {
		out, err := Push(v, recv, value)
		return out, raise(v, recv, err)
	})

	// unshift - prepend every argument
	c.AddPrimitiveMethod("unshift", vm.ArgsAny(), func(v *vm.VM, recv vm.Value, args []vm.Value, _ vm.Value) (vm.Value, error) {
		out, err := Unshift(v, recv, args...)
		return out, raise(v, recv, err)
	})

	c.AddMethod1("replace", func(v *vm.VM, recv vm.Value, other vm.Value) (vm.Value, error) {
		out, err := Replace(v, recv, other)
		return out, raise(v, recv, err)
	})

	c.AddMethod0("clear", func(v *vm.VM, recv vm.Value) (vm.Value, error) {
		out, err := Clear(v, recv)
		return out, raise(v, recv, err)
	})

	c.AddMethod0("reverse!", func(v *vm.VM, recv vm.Value) (vm.Value, error) {
		out, err := ReverseBang(v, recv)
		return out, raise(v, recv, err)
	})
}

// ---------------------------------------------------------------------------
// Conversion and construction
// ---------------------------------------------------------------------------

func registerConversions(c *vm.Class) {
	self := func(_ *vm.VM, recv vm.Value) (vm.Value, error) {
		return recv, nil
	}
	c.AddMethod0("to_a", self)
	c.AddMethod0("to_ary", self)
}

func registerConstructors(c *vm.Class) {
	// Array.new, Array.new(size), Array.new(size, fill)
	c.AddClassPrimitiveMethod("new", vm.ArgsOpt(2), func(v *vm.VM, _ vm.Value, args []vm.Value, _ vm.Value) (vm.Value, error) {
		if len(args) == 0 {
			return New(v), nil
		}
		n, err := intArg(v, args[0])
		if err != nil {
			return vm.Nil, raise(v, vm.Nil, err)
		}
		if n < 0 {
			return vm.Nil, vm.Raise(vm.ArgumentError, "negative array size")
		}
		if n > MaxLen {
			return vm.Nil, vm.Raise(vm.ArgumentError, "array size too big")
		}
		fill := vm.Nil
		if len(args) == 2 {
			fill = args[1]
		}
		vs := make([]vm.Value, n)
		for i := range vs {
			vs[i] = fill
		}
		return FromValues(v, vs), nil
	})

	// Array.with_capacity(n) - empty Array with preallocated room
	c.AddClassMethod1("with_capacity", func(v *vm.VM, _ vm.Value, capacity vm.Value) (vm.Value, error) {
		n, err := intArg(v, capacity)
		if err != nil {
			return vm.Nil, raise(v, vm.Nil, err)
		}
		if n < 0 {
			return vm.Nil, vm.Raise(vm.ArgumentError, "negative array size")
		}
		return WithCapacity(v, int(min(n, MaxLen))), nil
	})
}

// ---------------------------------------------------------------------------
// Argument handling and error translation
// ---------------------------------------------------------------------------

func intArg(interp *vm.VM, v vm.Value) (int64, error) {
	n, err := convert.Int.TryConvert(interp, v)
	if err != nil {
		return 0, &NoImplicitConversionError{From: interp.PrettyName(v), To: "Integer"}
	}
	return n, nil
}

func selectorArg(interp *vm.VM, args []vm.Value) (Selector, error) {
	start, err := intArg(interp, args[0])
	if err != nil {
		return nil, err
	}
	if len(args) == 1 {
		return Index(start), nil
	}
	length, err := intArg(interp, args[1])
	if err != nil {
		return nil, err
	}
	return StartLen{Start: start, Len: length}, nil
}

// raise turns engine errors into guest exceptions. Fatal errors and
// exceptions raised by guest code pass through unchanged.
func raise(interp *vm.VM, ary vm.Value, err error) error {
	if err == nil {
		return nil
	}
	var (
		tooSmall   *IndexTooSmallError
		tooBig     *IndexTooBigError
		cannot     *CannotConvertError
		noImplicit *NoImplicitConversionError
		unboxErr   *convert.UnboxError
	)
	switch {
	case errors.Is(err, ErrFatal):
		log.Errorf("%s", err)
		return err
	case errors.Is(err, ErrFrozen):
		return vm.Raise(vm.FrozenError, "can't modify frozen Array: %s", Inspect(interp, ary))
	case errors.As(err, &tooSmall), errors.As(err, &tooBig):
		return vm.Raise(vm.IndexError, "%s", err)
	case errors.As(err, &cannot), errors.As(err, &noImplicit), errors.As(err, &unboxErr):
		return vm.Raise(vm.TypeError, "%s", err)
	}
	return err
}

// ---------------------------------------------------------------------------
// Inspect and equality
// ---------------------------------------------------------------------------

// Inspect renders ary as [a, b, c]. An Array nested inside itself renders
// as [...].
func Inspect(interp *vm.VM, ary vm.Value) string {
	var sb strings.Builder
	inspectInto(interp, ary, &sb, make(map[vm.Value]bool))
	return sb.String()
}

func inspectInto(interp *vm.VM, ary vm.Value, sb *strings.Builder, seen map[vm.Value]bool) {
	if seen[ary] {
		sb.WriteString("[...]")
		return
	}
	vs, ok := snapshot(interp, ary)
	if !ok {
		sb.WriteString(interp.Inspect(ary))
		return
	}
	seen[ary] = true
	defer delete(seen, ary)

	sb.WriteByte('[')
	for i, elem := range vs {
		if i > 0 {
			sb.WriteString(", ")
		}
		if IsArray(interp, elem) {
			inspectInto(interp, elem, sb, seen)
		} else {
			sb.WriteString(interp.Inspect(elem))
		}
	}
	sb.WriteByte(']')
}

// equal compares element-wise. A pair of arrays met again while it is
// still being compared counts as equal, so self-containing arrays terminate.
func equal(interp *vm.VM, a, b vm.Value) bool {
	return equalRec(interp, a, b, make(map[[2]vm.Value]bool))
}

func equalRec(interp *vm.VM, a, b vm.Value, comparing map[[2]vm.Value]bool) bool {
	if a == b {
		return true
	}
	as, aok := snapshot(interp, a)
	bs, bok := snapshot(interp, b)
	if !aok || !bok {
		return aok == bok && interp.Equal(a, b)
	}
	if len(as) != len(bs) {
		return false
	}
	pair := [2]vm.Value{a, b}
	if comparing[pair] {
		return true
	}
	comparing[pair] = true
	defer delete(comparing, pair)

	for i := range as {
		if !equalRec(interp, as[i], bs[i], comparing) {
			return false
		}
	}
	return true
}
