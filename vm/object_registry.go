package vm

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// ---------------------------------------------------------------------------
// Heap: slot registry for every heap-allocated guest value
// ---------------------------------------------------------------------------

// SlotKind distinguishes the payload layout of a heap slot.
type SlotKind uint8

const (
	// KindObject is a plain instance of a guest class.
	KindObject SlotKind = iota
	// KindString holds a byte string payload.
	KindString
	// KindData owns a boxed Go value.
	KindData
	// KindClass holds a *Class.
	KindClass
)

func (k SlotKind) String() string {
	switch k {
	case KindObject:
		return "Object"
	case KindString:
		return "String"
	case KindData:
		return "Data"
	case KindClass:
		return "Class"
	default:
		return fmt.Sprintf("SlotKind(%d)", uint8(k))
	}
}

// Slot is one heap-allocated guest object. The heap is the sole owner of a
// slot's payload; Go code reaches the payload only through the Heap.
type Slot struct {
	ID     uint32
	Class  *Class
	Kind   SlotKind
	frozen bool
	data   interface{}
}

// Data returns the slot payload.
func (s *Slot) Data() interface{} { return s.data }

// Frozen reports whether the slot rejects mutation.
func (s *Slot) Frozen() bool { return s.frozen }

// Heap maps slot IDs to slots. IDs start at 1 and are never reused.
type Heap struct {
	mu     sync.RWMutex
	slots  map[uint32]*Slot
	nextID atomic.Uint32
}

// NewHeap creates an empty heap.
func NewHeap() *Heap {
	h := &Heap{slots: make(map[uint32]*Slot)}
	h.nextID.Store(1)
	return h
}

// Alloc stores a new slot and returns a Value referencing it.
func (h *Heap) Alloc(class *Class, kind SlotKind, data interface{}) Value {
	id := h.nextID.Add(1) - 1
	slot := &Slot{ID: id, Class: class, Kind: kind, data: data}

	h.mu.Lock()
	h.slots[id] = slot
	h.mu.Unlock()

	return FromSlotID(id)
}

// Replace overwrites the class, kind and payload of an existing slot without
// changing its identity. Guest references to v observe the new payload.
func (h *Heap) Replace(v Value, class *Class, kind SlotKind, data interface{}) error {
	slot := h.Slot(v)
	if slot == nil {
		return fmt.Errorf("heap: replace of unknown slot %#x", uint64(v))
	}
	h.mu.Lock()
	slot.Class = class
	slot.Kind = kind
	slot.data = data
	h.mu.Unlock()
	return nil
}

// Slot returns the slot referenced by v, or nil if v is not a live object.
func (h *Heap) Slot(v Value) *Slot {
	if !v.IsObject() {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.slots[v.SlotID()]
}

// Free releases a slot. This is how the collector reclaims an object and,
// with it, any boxed Go value it owned.
func (h *Heap) Free(v Value) {
	if !v.IsObject() {
		return
	}
	h.mu.Lock()
	delete(h.slots, v.SlotID())
	h.mu.Unlock()
}

// Len returns the number of live slots.
func (h *Heap) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.slots)
}

// SetFrozen sets the frozen flag of the slot referenced by v.
func (h *Heap) SetFrozen(v Value, frozen bool) bool {
	slot := h.Slot(v)
	if slot == nil {
		return false
	}
	h.mu.Lock()
	slot.frozen = frozen
	h.mu.Unlock()
	return true
}

// ---------------------------------------------------------------------------
// Strings
// ---------------------------------------------------------------------------

// NewString allocates a String slot holding a copy of b.
func (h *Heap) NewString(class *Class, b []byte) Value {
	buf := make([]byte, len(b))
	copy(buf, b)
	return h.Alloc(class, KindString, buf)
}

// StringBytes returns the payload of a String slot.
// The second result is false if v is not a string.
func (h *Heap) StringBytes(v Value) ([]byte, bool) {
	slot := h.Slot(v)
	if slot == nil || slot.Kind != KindString {
		return nil, false
	}
	b, ok := slot.data.([]byte)
	return b, ok
}
