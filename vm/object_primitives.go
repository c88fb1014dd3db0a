package vm

import (
	"bytes"
)

// ---------------------------------------------------------------------------
// Object and Kernel primitives
// ---------------------------------------------------------------------------

func (vm *VM) registerObjectPrimitives() {
	c := vm.ObjectClass

	c.AddMethod0("frozen?", func(v *VM, recv Value) (Value, error) {
		return FromBool(v.IsFrozen(recv)), nil
	})

	c.AddMethod0("freeze", func(v *VM, recv Value) (Value, error) {
		return v.Freeze(recv), nil
	})

	c.AddMethod1("respond_to?", func(v *VM, recv Value, name Value) (Value, error) {
		if !name.IsSymbol() {
			return Nil, Raise(TypeError, "%s is not a symbol", v.Inspect(name))
		}
		return FromBool(v.RespondTo(recv, v.Symbols.Name(name.SymbolID()))), nil
	})

	c.AddMethod0("class", func(v *VM, recv Value) (Value, error) {
		return v.ClassValue(v.ClassOf(recv)), nil
	})

	c.AddMethod1("==", func(v *VM, recv Value, other Value) (Value, error) {
		return FromBool(v.Equal(recv, other)), nil
	})

	// Class-side new for plain guest classes. Native-backed classes install
	// their own constructor.
	c.AddClassMethod0("new", func(v *VM, recv Value) (Value, error) {
		class := v.ClassFromValue(recv)
		if class == nil {
			return Nil, Raise(TypeError, "%s is not a class", v.PrettyName(recv))
		}
		if class.GoType != nil {
			return Nil, Raise(TypeError, "allocator undefined for %s", class.Name)
		}
		return v.NewObject(class), nil
	})
}

func (vm *VM) registerKernelPrimitives() {
	k := vm.KernelClass

	// Kernel.warn writes each message to $stderr, newline-terminated.
	// Nothing is written while $stderr is nil.
	k.AddClassPrimitiveMethod("warn", ArgsAny(), func(v *VM, recv Value, args []Value, _ Value) (Value, error) {
		if v.Global("$stderr").IsNil() || v.Stderr == nil {
			return Nil, nil
		}
		var buf bytes.Buffer
		for _, arg := range args {
			if b, ok := v.Heap.StringBytes(arg); ok {
				buf.Write(b)
			} else {
				buf.WriteString(v.Inspect(arg))
			}
			if buf.Len() == 0 || buf.Bytes()[buf.Len()-1] != '\n' {
				buf.WriteByte('\n')
			}
		}
		if _, err := v.Stderr.Write(buf.Bytes()); err != nil {
			return Nil, Raise("IOError", "%v", err)
		}
		return Nil, nil
	})
}
