package convert

import (
	"errors"
	"math"
	"testing"

	"github.com/chazu/rbcore/types"
	"github.com/chazu/rbcore/vm"
)

func TestIntConvert(t *testing.T) {
	interp := vm.NewVM()
	for _, n := range []int64{0, -1, 42, vm.MaxSmallInt, vm.MinSmallInt} {
		v := Int.Convert(n)
		got, err := Int.TryConvert(interp, v)
		if err != nil || got != n {
			t.Errorf("Int round trip %d = %d, %v", n, got, err)
		}
	}

	big := Int.Convert(math.MaxInt64)
	if !big.IsFloat() {
		t.Fatalf("out of range int should become a Float, got %s", interp.Inspect(big))
	}
	if _, err := Int.TryConvert(interp, big); err == nil {
		t.Error("Float should not unbox as int64")
	}
}

func TestUintRejectsNegative(t *testing.T) {
	interp := vm.NewVM()
	_, err := Uint.TryConvert(interp, vm.FromSmallInt(-1))
	var ue *UnboxError
	if !errors.As(err, &ue) {
		t.Fatalf("err = %v, want *UnboxError", err)
	}
	if ue.Expected != types.HostUnsignedInt || ue.Actual != types.Fixnum {
		t.Errorf("UnboxError = %+v", ue)
	}

	got, err := Uint.TryConvert(interp, Uint.Convert(7))
	if err != nil || got != 7 {
		t.Errorf("Uint round trip = %d, %v", got, err)
	}
}

func TestScalarMismatch(t *testing.T) {
	interp := vm.NewVM()
	tests := []struct {
		name string
		try  func() error
		want types.Host
		got  types.Guest
	}{
		{"bool from int", func() error { _, err := Bool.TryConvert(interp, vm.FromSmallInt(1)); return err }, types.HostBool, types.Fixnum},
		{"int from nil", func() error { _, err := Int.TryConvert(interp, vm.Nil); return err }, types.HostSignedInt, types.Nil},
		{"float from int", func() error { _, err := Float.TryConvert(interp, vm.FromSmallInt(1)); return err }, types.HostFloat, types.Fixnum},
		{"bytes from symbol", func() error { _, err := Bytes.TryConvert(interp, interp.Intern("a")); return err }, types.HostBytes, types.Symbol},
		{"string from float", func() error { _, err := String.TryConvert(interp, vm.FromFloat64(1)); return err }, types.HostString, types.Float},
		{"symbol from string", func() error { _, err := Symbol.TryConvert(interp, interp.NewString("a")); return err }, types.HostString, types.String},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ue *UnboxError
			if err := tt.try(); !errors.As(err, &ue) {
				t.Fatalf("err = %v, want *UnboxError", err)
			}
			if ue.Expected != tt.want || ue.Actual != tt.got {
				t.Errorf("UnboxError = %+v", ue)
			}
		})
	}
}

func TestUnboxErrorMessage(t *testing.T) {
	e := &UnboxError{Expected: types.HostSignedInt, Actual: types.Nil}
	if got := e.Error(); got != "failed to convert from NilClass to SignedInt" {
		t.Errorf("Error() = %q", got)
	}
}

func TestStringsAndBytes(t *testing.T) {
	interp := vm.NewVM()

	v := String.ConvertMut(interp, "héllo")
	s, err := String.TryConvert(interp, v)
	if err != nil || s != "héllo" {
		t.Errorf("String round trip = %q, %v", s, err)
	}

	raw := []byte{0xff, 0xfe}
	bv := Bytes.ConvertMut(interp, raw)
	raw[0] = 0
	b, err := Bytes.TryConvert(interp, bv)
	if err != nil || b[0] != 0xff {
		t.Errorf("Bytes should copy its input, got %v, %v", b, err)
	}
	if _, err := String.TryConvert(interp, bv); err == nil {
		t.Error("invalid UTF-8 should not convert to string")
	}
}

func TestSymbol(t *testing.T) {
	interp := vm.NewVM()
	v := Symbol.ConvertMut(interp, "to_ary")
	if v != interp.Intern("to_ary") {
		t.Error("symbols are interned")
	}
	name, err := Symbol.TryConvert(interp, v)
	if err != nil || name != "to_ary" {
		t.Errorf("Symbol round trip = %q, %v", name, err)
	}
}

func TestOptional(t *testing.T) {
	interp := vm.NewVM()
	opt := Optional[int64](Int)

	if v := opt.ConvertMut(interp, nil); v != vm.Nil {
		t.Errorf("nil pointer = %s, want nil", interp.Inspect(v))
	}
	n := int64(5)
	p, err := opt.TryConvert(interp, opt.ConvertMut(interp, &n))
	if err != nil || p == nil || *p != 5 {
		t.Errorf("Optional round trip = %v, %v", p, err)
	}
	p, err = opt.TryConvert(interp, vm.Nil)
	if err != nil || p != nil {
		t.Errorf("nil = %v, %v", p, err)
	}
	if _, err := opt.TryConvert(interp, vm.True); err == nil {
		t.Error("Optional should propagate element errors")
	}
}

func TestValueIdentity(t *testing.T) {
	interp := vm.NewVM()
	s := interp.NewString("x")
	got, err := Value.TryConvert(interp, s)
	if err != nil || got != s || Value.Convert(s) != s {
		t.Error("Value codec must be the identity")
	}
}
