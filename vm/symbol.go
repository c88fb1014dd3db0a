package vm

import "sync"

// SymbolTable maps symbol names to dense IDs and holds the global
// variables, which are keyed by the ID of their name ("$stderr").
// IDs are handed out in interning order and stay valid for the session.
type SymbolTable struct {
	mu      sync.RWMutex
	ids     map[string]uint32
	names   []string
	globals map[uint32]Value
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		ids:     make(map[string]uint32),
		globals: make(map[uint32]Value),
	}
}

// Intern returns the ID of name, assigning the next free one on first use.
func (st *SymbolTable) Intern(name string) uint32 {
	if id, ok := st.Lookup(name); ok {
		return id
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if id, ok := st.ids[name]; ok {
		return id
	}
	id := uint32(len(st.names))
	st.ids[name] = id
	st.names = append(st.names, name)
	return id
}

// Lookup reports the ID of name without interning it.
func (st *SymbolTable) Lookup(name string) (uint32, bool) {
	st.mu.RLock()
	id, ok := st.ids[name]
	st.mu.RUnlock()
	return id, ok
}

// Name is the inverse of Intern. Unknown IDs give "".
func (st *SymbolTable) Name(id uint32) string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	if uint64(id) < uint64(len(st.names)) {
		return st.names[id]
	}
	return ""
}

func (st *SymbolTable) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.names)
}

// SymbolValue interns name and boxes the ID.
func (st *SymbolTable) SymbolValue(name string) Value {
	return FromSymbolID(st.Intern(name))
}

// GlobalGet reads a global; unbound globals are Nil.
func (st *SymbolTable) GlobalGet(sym uint32) Value {
	st.mu.RLock()
	defer st.mu.RUnlock()
	if v, ok := st.globals[sym]; ok {
		return v
	}
	return Nil
}

func (st *SymbolTable) GlobalSet(sym uint32, v Value) {
	st.mu.Lock()
	st.globals[sym] = v
	st.mu.Unlock()
}
