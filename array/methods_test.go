package array

import (
	"errors"
	"testing"

	"github.com/chazu/rbcore/vm"
)

func send(t *testing.T, interp *vm.VM, recv vm.Value, name string, args ...vm.Value) vm.Value {
	t.Helper()
	out, err := interp.Send(recv, name, args...)
	if err != nil {
		t.Fatalf("%s: %v", name, err)
	}
	return out
}

func sendErr(interp *vm.VM, recv vm.Value, name string, args ...vm.Value) *vm.Exception {
	_, err := interp.Send(recv, name, args...)
	var ex *vm.Exception
	if errors.As(err, &ex) {
		return ex
	}
	return nil
}

func TestMethodArities(t *testing.T) {
	interp := vm.NewVM()
	c := Init(interp)

	tests := []struct {
		name  string
		aspec vm.Aspec
	}{
		{"[]", vm.ArgsReqAndOpt(1, 1)},
		{"[]=", vm.ArgsReqAndOpt(2, 1)},
		{"concat", vm.ArgsAny()},
		{"initialize_copy", vm.ArgsReq(1)},
		{"length", vm.ArgsNone()},
		{"size", vm.ArgsNone()},
		{"pop", vm.ArgsNone()},
		{"reverse", vm.ArgsNone()},
		{"reverse!", vm.ArgsNone()},
		{"shift", vm.ArgsOpt(1)},
		{"push", vm.ArgsAny()},
		{"<<", vm.ArgsReq(1)},
		{"unshift", vm.ArgsAny()},
		{"replace", vm.ArgsReq(1)},
		{"clear", vm.ArgsNone()},
		{"to_a", vm.ArgsNone()},
		{"to_ary", vm.ArgsNone()},
	}
	for _, tt := range tests {
		m := c.LookupMethod(tt.name)
		if m == nil {
			t.Errorf("Array#%s is not defined", tt.name)
			continue
		}
		if m.Aspec() != tt.aspec {
			t.Errorf("Array#%s aspec = %+v, want %+v", tt.name, m.Aspec(), tt.aspec)
		}
	}

	ary := New(interp)
	if ex := sendErr(interp, ary, "[]", vm.FromSmallInt(0), vm.FromSmallInt(1), vm.FromSmallInt(2)); ex == nil || ex.Class != vm.ArgumentError {
		t.Errorf("[] with 3 args = %v, want ArgumentError", ex)
	}
	if ex := sendErr(interp, ary, "[]=", vm.FromSmallInt(0)); ex == nil || ex.Class != vm.ArgumentError {
		t.Errorf("[]= with 1 arg = %v, want ArgumentError", ex)
	}
}

func TestElementMethods(t *testing.T) {
	interp := newVM()
	ary := FromValues(interp, rangeOf(5))

	if got := send(t, interp, ary, "[]", vm.FromSmallInt(-1)); got != vm.FromSmallInt(4) {
		t.Errorf("a[-1] = %s", interp.Inspect(got))
	}
	if got := send(t, interp, ary, "[]", vm.FromSmallInt(-9), vm.FromSmallInt(1)); got != vm.Nil {
		t.Errorf("a[-9, 1] = %s, want nil", interp.Inspect(got))
	}
	slice := send(t, interp, ary, "[]", vm.FromSmallInt(1), vm.FromSmallInt(2))
	if Inspect(interp, slice) != "[1, 2]" {
		t.Errorf("a[1, 2] = %s", Inspect(interp, slice))
	}

	nine := vm.FromSmallInt(9)
	if got := send(t, interp, ary, "[]=", vm.FromSmallInt(1), vm.FromSmallInt(2), nine); got != nine {
		t.Errorf("a[1, 2] = 9 returned %s", interp.Inspect(got))
	}
	if got := Inspect(interp, ary); got != "[0, 9, 3, 4]" {
		t.Errorf("after splice = %s", got)
	}

	ex := sendErr(interp, ary, "[]=", vm.FromSmallInt(-10), nine)
	if ex == nil || ex.Class != vm.IndexError || ex.Message != "index -10 too small for array; minimum: -4" {
		t.Errorf("a[-10] = 9 raised %v", ex)
	}
	ex = sendErr(interp, ary, "[]=", vm.FromSmallInt(0), vm.FromSmallInt(-1), nine)
	if ex == nil || ex.Class != vm.IndexError || ex.Message != "negative length (-1)" {
		t.Errorf("a[0, -1] = 9 raised %v", ex)
	}
	ex = sendErr(interp, ary, "[]", interp.NewString("0"))
	if ex == nil || ex.Class != vm.TypeError || ex.Message != "no implicit conversion of String into Integer" {
		t.Errorf(`a["0"] raised %v`, ex)
	}

	if got := send(t, interp, ary, "length"); got != vm.FromSmallInt(4) {
		t.Errorf("length = %s", interp.Inspect(got))
	}
}

func TestMutatorMethods(t *testing.T) {
	interp := newVM()
	ary := New(interp)

	send(t, interp, ary, "push", vm.FromSmallInt(1), vm.FromSmallInt(2))
	send(t, interp, ary, "<<", vm.FromSmallInt(3))
	send(t, interp, ary, "unshift", vm.FromSmallInt(0))
	send(t, interp, ary, "concat", ary)
	if got := Inspect(interp, ary); got != "[0, 1, 2, 3, 0, 1, 2, 3]" {
		t.Fatalf("array = %s", got)
	}

	shifted := send(t, interp, ary, "shift", vm.FromSmallInt(3))
	if Inspect(interp, shifted) != "[0, 1, 2]" {
		t.Errorf("shift(3) = %s", Inspect(interp, shifted))
	}
	if got := send(t, interp, ary, "pop"); got != vm.FromSmallInt(3) {
		t.Errorf("pop = %s", interp.Inspect(got))
	}
	send(t, interp, ary, "reverse!")
	if got := Inspect(interp, ary); got != "[2, 1, 0, 3]" {
		t.Errorf("after reverse! = %s", got)
	}
	if ex := sendErr(interp, ary, "shift", vm.FromSmallInt(-1)); ex == nil || ex.Class != vm.ArgumentError {
		t.Errorf("shift(-1) raised %v", ex)
	}

	send(t, interp, ary, "replace", FromValues(interp, ints(7)))
	if got := Inspect(interp, ary); got != "[7]" {
		t.Errorf("after replace = %s", got)
	}
	send(t, interp, ary, "clear")
	if got := Inspect(interp, ary); got != "[]" {
		t.Errorf("after clear = %s", got)
	}
}

func TestErrorTranslation(t *testing.T) {
	interp := newVM()
	ary := FromValues(interp, ints(1, 2))

	ex := sendErr(interp, ary, "concat", vm.FromSmallInt(5))
	if ex == nil || ex.Class != vm.TypeError || ex.Message != "no implicit conversion of Integer into Array" {
		t.Errorf("concat(5) raised %v", ex)
	}

	bad := convertible(interp, "to_ary", returning(vm.True))
	ex = sendErr(interp, ary, "[]=", vm.FromSmallInt(0), vm.FromSmallInt(1), bad)
	if ex == nil || ex.Class != vm.TypeError {
		t.Errorf("splice with bad to_ary raised %v", ex)
	}

	interp.Freeze(ary)
	ex = sendErr(interp, ary, "push", vm.FromSmallInt(3))
	if ex == nil || ex.Class != vm.FrozenError || ex.Message != "can't modify frozen Array: [1, 2]" {
		t.Errorf("push on frozen raised %v", ex)
	}
	if got := send(t, interp, ary, "frozen?"); got != vm.True {
		t.Error("frozen? should be inherited from Object")
	}
}

func TestFatalIsNotTranslated(t *testing.T) {
	interp := newVM()
	pop := Init(interp).LookupMethod("pop")
	_, err := pop.Invoke(interp, interp.NewObject(interp.ObjectClass), nil, vm.Nil)
	if !errors.Is(err, ErrFatal) {
		t.Fatalf("err = %v, want ErrFatal", err)
	}
	var ex *vm.Exception
	if errors.As(err, &ex) {
		t.Error("fatal errors must not become guest exceptions")
	}
}

func TestClassMethods(t *testing.T) {
	interp := newVM()
	class := interp.ClassValue(Init(interp))

	if got := Inspect(interp, send(t, interp, class, "new")); got != "[]" {
		t.Errorf("Array.new = %s", got)
	}
	if got := Inspect(interp, send(t, interp, class, "new", vm.FromSmallInt(2))); got != "[nil, nil]" {
		t.Errorf("Array.new(2) = %s", got)
	}
	if got := Inspect(interp, send(t, interp, class, "new", vm.FromSmallInt(2), interp.Intern("x"))); got != "[:x, :x]" {
		t.Errorf("Array.new(2, :x) = %s", got)
	}
	if ex := sendErr(interp, class, "new", vm.FromSmallInt(-1)); ex == nil || ex.Class != vm.ArgumentError {
		t.Errorf("Array.new(-1) raised %v", ex)
	}
	if got := send(t, interp, class, "with_capacity", vm.FromSmallInt(10)); !IsArray(interp, got) {
		t.Errorf("with_capacity returned %s", interp.Inspect(got))
	}
}

func TestInspect(t *testing.T) {
	interp := newVM()
	ary := FromValues(interp, []vm.Value{vm.FromSmallInt(1), interp.NewString("a"), vm.Nil, vm.FromFloat64(1.5)})
	if got := interp.Inspect(ary); got != `[1, "a", nil, 1.5]` {
		t.Errorf("inspect = %s", got)
	}

	self := FromValues(interp, ints(1))
	Push(interp, self, self)
	if got := Inspect(interp, self); got != "[1, [...]]" {
		t.Errorf("recursive inspect = %s", got)
	}
}

func TestEquality(t *testing.T) {
	interp := newVM()
	nested := func(vs ...vm.Value) vm.Value { return FromValues(interp, vs) }
	selfRef := func() vm.Value {
		a := FromValues(interp, ints(1))
		Push(interp, a, a)
		return a
	}
	shared := nested(vm.FromSmallInt(1))

	tests := []struct {
		name string
		a, b vm.Value
		want bool
	}{
		{"same object", shared, shared, true},
		{"equal elements", nested(ints(1, 2)...), nested(ints(1, 2)...), true},
		{"empty", New(interp), New(interp), true},
		{"different element", nested(ints(1)...), nested(ints(2)...), false},
		{"different length", nested(ints(1, 2)...), nested(ints(1)...), false},
		{"strings by content", nested(interp.NewString("a")), nested(interp.NewString("a")), true},
		{"nested equal", nested(nested(ints(1)...), vm.Nil), nested(nested(ints(1)...), vm.Nil), true},
		{"nested unequal", nested(nested(ints(1)...)), nested(nested(ints(1, 2)...)), false},
		{"array and scalar", nested(ints(1)...), vm.FromSmallInt(1), false},
		{"self-containing", selfRef(), selfRef(), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := send(t, interp, tt.a, "==", tt.b); got != vm.FromBool(tt.want) {
				t.Errorf("%s == %s = %s, want %v", Inspect(interp, tt.a), interp.Inspect(tt.b), interp.Inspect(got), tt.want)
			}
		})
	}

	a := selfRef()
	b := FromValues(interp, ints(1))
	Push(interp, b, FromValues(interp, []vm.Value{vm.FromSmallInt(1), b}))
	if got := send(t, interp, a, "==", b); got != vm.True {
		t.Errorf("mutually recursive arrays = %s, want true", interp.Inspect(got))
	}
	Push(interp, b, vm.Nil)
	if got := send(t, interp, a, "==", b); got != vm.False {
		t.Errorf("recursive arrays of different length = %s, want false", interp.Inspect(got))
	}
}
