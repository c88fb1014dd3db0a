package vm

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"reflect"
	"strconv"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/chazu/rbcore/types"
)

var log = commonlog.GetLogger("rbcore.vm")

// VM is the guest runtime surface the core calls into: heap allocation,
// tag queries, method dispatch, symbols and globals.
type VM struct {
	Symbols *SymbolTable
	Heap    *Heap
	Classes *ClassTable

	// Core classes
	KernelClass  *Class
	ObjectClass  *Class
	ClassClass   *Class
	NilClass     *Class
	TrueClass    *Class
	FalseClass   *Class
	IntegerClass *Class
	FloatClass   *Class
	SymbolClass  *Class
	StringClass  *Class
	IOClass      *Class

	// Stderr receives output of Kernel#warn.
	Stderr io.Writer

	classValuesMu sync.Mutex
	classValues   map[*Class]Value
}

// NewVM creates a VM with the core classes bootstrapped.
func NewVM() *VM {
	vm := &VM{
		Symbols:     NewSymbolTable(),
		Heap:        NewHeap(),
		Classes:     NewClassTable(),
		Stderr:      os.Stderr,
		classValues: make(map[*Class]Value),
	}
	vm.bootstrap()
	return vm
}

func (vm *VM) bootstrap() {
	vm.KernelClass = vm.Classes.Register(NewClass("Kernel", nil))
	vm.ObjectClass = vm.Classes.Register(NewClass("Object", vm.KernelClass))
	vm.ClassClass = vm.DefineClass("Class", nil)
	vm.NilClass = vm.DefineClass("NilClass", nil)
	vm.TrueClass = vm.DefineClass("TrueClass", nil)
	vm.FalseClass = vm.DefineClass("FalseClass", nil)
	vm.IntegerClass = vm.DefineClass("Integer", nil)
	vm.FloatClass = vm.DefineClass("Float", nil)
	vm.SymbolClass = vm.DefineClass("Symbol", nil)
	vm.StringClass = vm.DefineClass("String", nil)
	vm.IOClass = vm.DefineClass("IO", nil)

	vm.registerObjectPrimitives()
	vm.registerKernelPrimitives()

	vm.SetGlobal("$stderr", vm.NewObject(vm.IOClass))
}

// DefineClass creates and registers a class. A nil superclass means Object.
// Defining an existing name returns the existing class.
func (vm *VM) DefineClass(name string, superclass *Class) *Class {
	if superclass == nil {
		superclass = vm.ObjectClass
	}
	return vm.Classes.Register(NewClass(name, superclass))
}

// RegisterGoType binds goType to the guest class className, creating the
// class if needed. Instances of the class are Data slots boxing goType.
func (vm *VM) RegisterGoType(className string, goType reflect.Type) *Class {
	if c := vm.Classes.LookupByGoType(goType); c != nil {
		return c
	}
	c := vm.DefineClass(className, nil)
	vm.Classes.bindGoType(c, goType)
	log.Debugf("registered Go type %s as %s", goType, className)
	return c
}

// ClassForGoType returns the class registered for goType, or nil.
func (vm *VM) ClassForGoType(goType reflect.Type) *Class {
	return vm.Classes.LookupByGoType(goType)
}

// ClassValue returns the guest value that stands for c. Each class has
// exactly one such value.
func (vm *VM) ClassValue(c *Class) Value {
	vm.classValuesMu.Lock()
	defer vm.classValuesMu.Unlock()
	if v, ok := vm.classValues[c]; ok {
		return v
	}
	v := vm.Heap.Alloc(vm.ClassClass, KindClass, c)
	vm.classValues[c] = v
	return v
}

// ClassFromValue returns the class a class value stands for, or nil.
func (vm *VM) ClassFromValue(v Value) *Class {
	slot := vm.Heap.Slot(v)
	if slot == nil || slot.Kind != KindClass {
		return nil
	}
	c, _ := slot.data.(*Class)
	return c
}

// NewObject allocates a plain instance of c.
func (vm *VM) NewObject(c *Class) Value {
	return vm.Heap.Alloc(c, KindObject, nil)
}

// NewString allocates a guest String.
func (vm *VM) NewString(s string) Value {
	return vm.Heap.NewString(vm.StringClass, []byte(s))
}

// NewStringBytes allocates a guest String holding a copy of b.
func (vm *VM) NewStringBytes(b []byte) Value {
	return vm.Heap.NewString(vm.StringClass, b)
}

// Intern returns the symbol value for name.
func (vm *VM) Intern(name string) Value {
	return vm.Symbols.SymbolValue(name)
}

// SetGlobal binds a global variable such as "$stderr".
func (vm *VM) SetGlobal(name string, v Value) {
	vm.Symbols.GlobalSet(vm.Symbols.Intern(name), v)
}

// Global reads a global variable; unbound globals are nil.
func (vm *VM) Global(name string) Value {
	return vm.Symbols.GlobalGet(vm.Symbols.Intern(name))
}

// ---------------------------------------------------------------------------
// Classification
// ---------------------------------------------------------------------------

// ClassOf returns the class of any value.
func (vm *VM) ClassOf(v Value) *Class {
	switch {
	case v == Nil:
		return vm.NilClass
	case v == True:
		return vm.TrueClass
	case v == False:
		return vm.FalseClass
	case v.IsSmallInt():
		return vm.IntegerClass
	case v.IsSymbol():
		return vm.SymbolClass
	case v.IsObject():
		if slot := vm.Heap.Slot(v); slot != nil {
			return slot.Class
		}
		return nil
	default:
		return vm.FloatClass
	}
}

// GuestTyper is implemented by Data payloads that classify as something
// more specific than types.Data.
type GuestTyper interface {
	GuestType() types.Guest
}

// GuestType maps v onto the closed set of guest type tags.
func (vm *VM) GuestType(v Value) types.Guest {
	switch {
	case v == Nil:
		return types.Nil
	case v.IsBool():
		return types.Bool
	case v.IsSmallInt():
		return types.Fixnum
	case v.IsSymbol():
		return types.Symbol
	case v.IsObject():
		slot := vm.Heap.Slot(v)
		if slot == nil {
			return types.Unreachable
		}
		switch slot.Kind {
		case KindString:
			return types.String
		case KindData:
			if g, ok := slot.data.(GuestTyper); ok {
				return g.GuestType()
			}
			return types.Data
		case KindClass:
			return types.Class
		default:
			return types.Object
		}
	case v.IsFloat():
		return types.Float
	default:
		return types.Unreachable
	}
}

// PrettyName is the type name used in guest error messages: "nil", "true"
// and "false" for the singletons, the class name otherwise.
func (vm *VM) PrettyName(v Value) string {
	switch v {
	case Nil:
		return "nil"
	case True:
		return "true"
	case False:
		return "false"
	}
	if c := vm.ClassOf(v); c != nil {
		return c.Name
	}
	return types.Unreachable.ClassName()
}

// IsFrozen reports whether v rejects mutation. Immediates are always frozen.
func (vm *VM) IsFrozen(v Value) bool {
	slot := vm.Heap.Slot(v)
	if slot == nil {
		return true
	}
	return slot.Frozen()
}

// Freeze marks v frozen and returns it.
func (vm *VM) Freeze(v Value) Value {
	vm.Heap.SetFrozen(v, true)
	return v
}

// Equal reports guest equality: identity for heap objects except strings,
// which compare by content, and numeric equality for floats.
func (vm *VM) Equal(a, b Value) bool {
	if a == b {
		return true
	}
	if a.IsFloat() && b.IsFloat() {
		return a.Float64() == b.Float64()
	}
	ab, aok := vm.Heap.StringBytes(a)
	bb, bok := vm.Heap.StringBytes(b)
	return aok && bok && bytes.Equal(ab, bb)
}

// ---------------------------------------------------------------------------
// Dispatch
// ---------------------------------------------------------------------------

func (vm *VM) lookup(recv Value, name string) Method {
	if c := vm.ClassFromValue(recv); c != nil {
		if m := c.LookupClassMethod(name); m != nil {
			return m
		}
	}
	if c := vm.ClassOf(recv); c != nil {
		return c.LookupMethod(name)
	}
	return nil
}

// RespondTo reports whether recv has a method called name.
func (vm *VM) RespondTo(recv Value, name string) bool {
	return vm.lookup(recv, name) != nil
}

// Send invokes the guest method name on recv without a block.
func (vm *VM) Send(recv Value, name string, args ...Value) (Value, error) {
	return vm.SendWithBlock(recv, name, args, Nil)
}

// SendWithBlock invokes the guest method name on recv. A missing method is a
// NoMethodError and an argument count outside the method's Aspec is an
// ArgumentError; both are returned as *Exception.
func (vm *VM) SendWithBlock(recv Value, name string, args []Value, block Value) (Value, error) {
	m := vm.lookup(recv, name)
	if m == nil {
		return Nil, Raise(NoMethodError, "undefined method '%s' for %s", name, vm.PrettyName(recv))
	}
	if !m.Aspec().Accepts(len(args)) {
		return Nil, arityError(len(args), m.Aspec())
	}
	return m.Invoke(vm, recv, args, block)
}

// Inspect renders v the way the guest's inspect method would.
func (vm *VM) Inspect(v Value) string {
	if c := vm.ClassOf(v); c != nil && c.LookupMethod("inspect") != nil {
		if s, err := vm.Send(v, "inspect"); err == nil {
			if b, ok := vm.Heap.StringBytes(s); ok {
				return string(b)
			}
		}
	}
	return vm.inspectImmediate(v)
}

func (vm *VM) inspectImmediate(v Value) string {
	switch {
	case v == Nil:
		return "nil"
	case v.IsBool():
		return strconv.FormatBool(v.Bool())
	case v.IsSmallInt():
		return strconv.FormatInt(v.SmallInt(), 10)
	case v.IsSymbol():
		return ":" + vm.Symbols.Name(v.SymbolID())
	case v.IsObject():
		if b, ok := vm.Heap.StringBytes(v); ok {
			return strconv.Quote(string(b))
		}
		if c := vm.ClassFromValue(v); c != nil {
			return c.Name
		}
		return fmt.Sprintf("#<%s>", vm.PrettyName(v))
	default:
		return formatFloat(v.Float64())
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case math.IsNaN(f):
		return "NaN"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	for _, r := range s {
		if r == '.' || r == 'e' {
			return s
		}
	}
	return s + ".0"
}
