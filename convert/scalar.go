package convert

import (
	"unicode/utf8"

	"github.com/chazu/rbcore/types"
	"github.com/chazu/rbcore/vm"
)

// Codecs for the Go types with a canonical guest representation.
var (
	Value  valueCodec
	Bool   boolCodec
	Int    intCodec
	Uint   uintCodec
	Float  floatCodec
	Bytes  bytesCodec
	String stringCodec
	Symbol symbolCodec
)

// ---------------------------------------------------------------------------
// vm.Value
// ---------------------------------------------------------------------------

type valueCodec struct{}

func (valueCodec) Convert(v vm.Value) vm.Value { return v }

func (valueCodec) ConvertMut(_ *vm.VM, v vm.Value) vm.Value { return v }

func (valueCodec) TryConvert(_ *vm.VM, v vm.Value) (vm.Value, error) { return v, nil }

// ---------------------------------------------------------------------------
// bool
// ---------------------------------------------------------------------------

type boolCodec struct{}

func (boolCodec) Convert(b bool) vm.Value { return vm.FromBool(b) }

func (c boolCodec) ConvertMut(_ *vm.VM, b bool) vm.Value { return c.Convert(b) }

func (boolCodec) TryConvert(interp *vm.VM, v vm.Value) (bool, error) {
	if !v.IsBool() {
		return false, NewUnboxError(interp, v, types.HostBool)
	}
	return v.Bool(), nil
}

// ---------------------------------------------------------------------------
// int64
// ---------------------------------------------------------------------------

type intCodec struct{}

// Convert returns a Fixnum, or a Float for magnitudes beyond the 48-bit
// Fixnum range.
func (intCodec) Convert(n int64) vm.Value {
	if v, ok := vm.TryFromSmallInt(n); ok {
		return v
	}
	return vm.FromFloat64(float64(n))
}

func (c intCodec) ConvertMut(_ *vm.VM, n int64) vm.Value { return c.Convert(n) }

func (intCodec) TryConvert(interp *vm.VM, v vm.Value) (int64, error) {
	if !v.IsSmallInt() {
		return 0, NewUnboxError(interp, v, types.HostSignedInt)
	}
	return v.SmallInt(), nil
}

// ---------------------------------------------------------------------------
// uint64
// ---------------------------------------------------------------------------

type uintCodec struct{}

func (uintCodec) Convert(n uint64) vm.Value {
	if n <= uint64(vm.MaxSmallInt) {
		return vm.FromSmallInt(int64(n))
	}
	return vm.FromFloat64(float64(n))
}

func (c uintCodec) ConvertMut(_ *vm.VM, n uint64) vm.Value { return c.Convert(n) }

// TryConvert accepts non-negative Fixnums only.
func (uintCodec) TryConvert(interp *vm.VM, v vm.Value) (uint64, error) {
	if !v.IsSmallInt() || v.SmallInt() < 0 {
		return 0, NewUnboxError(interp, v, types.HostUnsignedInt)
	}
	return uint64(v.SmallInt()), nil
}

// ---------------------------------------------------------------------------
// float64
// ---------------------------------------------------------------------------

type floatCodec struct{}

func (floatCodec) Convert(f float64) vm.Value { return vm.FromFloat64(f) }

func (c floatCodec) ConvertMut(_ *vm.VM, f float64) vm.Value { return c.Convert(f) }

func (floatCodec) TryConvert(interp *vm.VM, v vm.Value) (float64, error) {
	if !v.IsFloat() {
		return 0, NewUnboxError(interp, v, types.HostFloat)
	}
	return v.Float64(), nil
}

// ---------------------------------------------------------------------------
// []byte
// ---------------------------------------------------------------------------

type bytesCodec struct{}

// ConvertMut allocates a guest String holding a copy of b.
func (bytesCodec) ConvertMut(interp *vm.VM, b []byte) vm.Value {
	return interp.NewStringBytes(b)
}

// TryConvert returns a copy of the String's bytes.
func (bytesCodec) TryConvert(interp *vm.VM, v vm.Value) ([]byte, error) {
	b, ok := interp.Heap.StringBytes(v)
	if !ok {
		return nil, NewUnboxError(interp, v, types.HostBytes)
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

// ---------------------------------------------------------------------------
// string
// ---------------------------------------------------------------------------

type stringCodec struct{}

func (stringCodec) ConvertMut(interp *vm.VM, s string) vm.Value {
	return interp.NewString(s)
}

// TryConvert fails for non-Strings and for Strings that are not valid UTF-8.
func (stringCodec) TryConvert(interp *vm.VM, v vm.Value) (string, error) {
	b, ok := interp.Heap.StringBytes(v)
	if !ok || !utf8.Valid(b) {
		return "", NewUnboxError(interp, v, types.HostString)
	}
	return string(b), nil
}

// ---------------------------------------------------------------------------
// symbols, as their Go string names
// ---------------------------------------------------------------------------

type symbolCodec struct{}

func (symbolCodec) ConvertMut(interp *vm.VM, name string) vm.Value {
	return interp.Intern(name)
}

func (symbolCodec) TryConvert(interp *vm.VM, v vm.Value) (string, error) {
	if !v.IsSymbol() {
		return "", NewUnboxError(interp, v, types.HostString)
	}
	return interp.Symbols.Name(v.SymbolID()), nil
}

// ---------------------------------------------------------------------------
// Optional values
// ---------------------------------------------------------------------------

// Optional lifts elem to *T, mapping a nil pointer to guest nil and back.
func Optional[T any](elem Codec[T]) Codec[*T] {
	return optionalCodec[T]{elem: elem}
}

type optionalCodec[T any] struct {
	elem Codec[T]
}

func (c optionalCodec[T]) ConvertMut(interp *vm.VM, value *T) vm.Value {
	if value == nil {
		return vm.Nil
	}
	return c.elem.ConvertMut(interp, *value)
}

func (c optionalCodec[T]) TryConvert(interp *vm.VM, v vm.Value) (*T, error) {
	if v.IsNil() {
		return nil, nil
	}
	out, err := c.elem.TryConvert(interp, v)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
