package vm

import (
	"math"
)

// Value is one guest value packed into 64 bits.
//
// Anything that is not one of our tagged quiet NaNs is an IEEE 754 double.
// The tagged NaNs carry a 3-bit tag and a 48-bit payload:
//
//	tagObject   heap slot ID
//	tagInt      48-bit two's complement integer (Fixnum)
//	tagSpecial  nil, true or false
//	tagSymbol   symbol table ID
//
// Heap values are slot IDs, never Go pointers; the Heap owns every payload.
type Value uint64

const (
	nanBits     uint64 = 0x7FF8000000000000 // exponent all ones, quiet bit set
	tagMask     uint64 = 0x0007000000000000
	payloadMask uint64 = 0x0000FFFFFFFFFFFF

	tagObject  uint64 = 0x0001000000000000
	tagInt     uint64 = 0x0002000000000000
	tagSpecial uint64 = 0x0003000000000000
	tagSymbol  uint64 = 0x0004000000000000

	intSignBit    uint64 = 0x0000800000000000
	intSignExtend uint64 = 0xFFFF000000000000

	expBits      uint64 = 0x7FF0000000000000
	mantissaBits uint64 = 0x000FFFFFFFFFFFFF
)

const (
	Nil   = Value(nanBits | tagSpecial | 0)
	True  = Value(nanBits | tagSpecial | 1)
	False = Value(nanBits | tagSpecial | 2)
)

// Fixnum bounds.
const (
	MaxSmallInt int64 = 1<<47 - 1
	MinSmallInt int64 = -1 << 47
)

func box(tag, payload uint64) Value {
	return Value(nanBits | tag | payload&payloadMask)
}

// hasTag reports whether v is a tagged NaN carrying tag.
func (v Value) hasTag(tag uint64) bool {
	return uint64(v)&(nanBits|tagMask) == nanBits|tag
}

func (v Value) payload() uint64 {
	return uint64(v) & payloadMask
}

// ---------------------------------------------------------------------------
// Tags
// ---------------------------------------------------------------------------

// IsFloat covers every double, including infinities and the canonical NaN.
func (v Value) IsFloat() bool {
	bits := uint64(v)
	switch {
	case bits&expBits != expBits, bits&mantissaBits == 0, bits&nanBits != nanBits:
		return true
	}
	return bits&tagMask == 0
}

func (v Value) IsSmallInt() bool { return v.hasTag(tagInt) }
func (v Value) IsObject() bool   { return v.hasTag(tagObject) }
func (v Value) IsSymbol() bool   { return v.hasTag(tagSymbol) }
func (v Value) IsSpecial() bool  { return v.hasTag(tagSpecial) }
func (v Value) IsNil() bool      { return v == Nil }
func (v Value) IsBool() bool     { return v == True || v == False }

// IsImmediate is true for everything that lives outside the heap.
func (v Value) IsImmediate() bool { return !v.IsObject() }

// IsTruthy follows the guest rule: only nil and false are falsy.
func (v Value) IsTruthy() bool { return v != Nil && v != False }

// ---------------------------------------------------------------------------
// Constructors and accessors
// ---------------------------------------------------------------------------
//
// Accessors panic when v carries a different tag; callers check first.

// FromFloat64 boxes f. Every NaN collapses to one untagged NaN so that no
// float can be mistaken for a tagged value.
func FromFloat64(f float64) Value {
	if math.IsNaN(f) {
		return Value(math.Float64bits(math.NaN()) &^ tagMask)
	}
	return Value(math.Float64bits(f))
}

func (v Value) Float64() float64 {
	if !v.IsFloat() {
		panic("vm: Float64 of a non-float value")
	}
	return math.Float64frombits(uint64(v))
}

// FromSmallInt boxes n, which must lie within [MinSmallInt, MaxSmallInt].
func FromSmallInt(n int64) Value {
	v, ok := TryFromSmallInt(n)
	if !ok {
		panic("vm: integer outside the Fixnum range")
	}
	return v
}

// TryFromSmallInt is FromSmallInt for callers that can fall back, such as
// the Integer converter promoting to Float.
func TryFromSmallInt(n int64) (Value, bool) {
	if n < MinSmallInt || n > MaxSmallInt {
		return Nil, false
	}
	return box(tagInt, uint64(n)), true
}

func (v Value) SmallInt() int64 {
	if !v.IsSmallInt() {
		panic("vm: SmallInt of a non-integer value")
	}
	p := v.payload()
	if p&intSignBit != 0 {
		p |= intSignExtend
	}
	return int64(p)
}

func FromSlotID(id uint32) Value { return box(tagObject, uint64(id)) }

func (v Value) SlotID() uint32 {
	if !v.IsObject() {
		panic("vm: SlotID of an immediate value")
	}
	return uint32(v.payload())
}

func FromSymbolID(id uint32) Value { return box(tagSymbol, uint64(id)) }

func (v Value) SymbolID() uint32 {
	if !v.IsSymbol() {
		panic("vm: SymbolID of a non-symbol value")
	}
	return uint32(v.payload())
}

func FromBool(b bool) Value {
	if b {
		return True
	}
	return False
}

// Bool unboxes true or false.
func (v Value) Bool() bool {
	if !v.IsBool() {
		panic("vm: Bool of a non-boolean value")
	}
	return v == True
}
