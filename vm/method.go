package vm

// Method is a callable entry in a class's method table.
type Method interface {
	Invoke(vm *VM, receiver Value, args []Value, block Value) (Value, error)
	Name() string
	Aspec() Aspec
}

// Aspec describes how many arguments a method accepts: Req required
// arguments, up to Opt optional ones, and any number more if Rest is set.
type Aspec struct {
	Req  int
	Opt  int
	Rest bool
}

// ArgsNone accepts no arguments.
func ArgsNone() Aspec { return Aspec{} }

// ArgsReq accepts exactly n arguments.
func ArgsReq(n int) Aspec { return Aspec{Req: n} }

// ArgsOpt accepts up to n arguments.
func ArgsOpt(n int) Aspec { return Aspec{Opt: n} }

// ArgsReqAndOpt accepts req arguments followed by up to opt more.
func ArgsReqAndOpt(req, opt int) Aspec { return Aspec{Req: req, Opt: opt} }

// ArgsAny accepts any number of arguments.
func ArgsAny() Aspec { return Aspec{Rest: true} }

// Accepts reports whether n arguments satisfy the spec.
func (a Aspec) Accepts(n int) bool {
	if n < a.Req {
		return false
	}
	return a.Rest || n <= a.Req+a.Opt
}

// PrimitiveFunc is a Go function implementing a method of any arity.
type PrimitiveFunc func(vm *VM, receiver Value, args []Value, block Value) (Value, error)

// Method0Func is a primitive taking no arguments.
type Method0Func func(vm *VM, receiver Value) (Value, error)

// Method1Func is a primitive taking one argument.
type Method1Func func(vm *VM, receiver Value, arg1 Value) (Value, error)

// Method2Func is a primitive taking two arguments.
type Method2Func func(vm *VM, receiver Value, arg1, arg2 Value) (Value, error)

// ---------------------------------------------------------------------------
// Arity-specialized method wrappers
// ---------------------------------------------------------------------------

// PrimitiveMethod wraps a general PrimitiveFunc as a Method.
type PrimitiveMethod struct {
	name  string
	aspec Aspec
	fn    PrimitiveFunc
}

func (m *PrimitiveMethod) Invoke(vm *VM, receiver Value, args []Value, block Value) (Value, error) {
	return m.fn(vm, receiver, args, block)
}

func (m *PrimitiveMethod) Name() string { return m.name }
func (m *PrimitiveMethod) Aspec() Aspec { return m.aspec }

// Method0 wraps a zero-argument primitive.
type Method0 struct {
	name string
	fn   Method0Func
}

func (m *Method0) Invoke(vm *VM, receiver Value, args []Value, block Value) (Value, error) {
	return m.fn(vm, receiver)
}

func (m *Method0) Name() string { return m.name }
func (m *Method0) Aspec() Aspec { return ArgsNone() }

// Method1 wraps a one-argument primitive.
type Method1 struct {
	name string
	fn   Method1Func
}

func (m *Method1) Invoke(vm *VM, receiver Value, args []Value, block Value) (Value, error) {
	return m.fn(vm, receiver, args[0])
}

func (m *Method1) Name() string { return m.name }
func (m *Method1) Aspec() Aspec { return ArgsReq(1) }

// Method2 wraps a two-argument primitive.
type Method2 struct {
	name string
	fn   Method2Func
}

func (m *Method2) Invoke(vm *VM, receiver Value, args []Value, block Value) (Value, error) {
	return m.fn(vm, receiver, args[0], args[1])
}

func (m *Method2) Name() string { return m.name }
func (m *Method2) Aspec() Aspec { return ArgsReq(2) }
