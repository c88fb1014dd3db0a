package vm

import (
	"reflect"
	"sort"
	"sync"
)

// Class is a guest class: a name, a superclass link and two method tables.
// A class whose GoType is set is native-backed; its instances are Data
// slots owning a boxed value of that Go type.
type Class struct {
	Name       string
	Superclass *Class
	GoType     reflect.Type

	mu           sync.RWMutex
	methods      map[string]Method
	classMethods map[string]Method
}

// NewClass creates a class with empty method tables.
func NewClass(name string, superclass *Class) *Class {
	return &Class{
		Name:         name,
		Superclass:   superclass,
		methods:      make(map[string]Method),
		classMethods: make(map[string]Method),
	}
}

// IsSubclassOf reports whether c is other or inherits from it.
func (c *Class) IsSubclassOf(other *Class) bool {
	for k := c; k != nil; k = k.Superclass {
		if k == other {
			return true
		}
	}
	return false
}

func (c *Class) String() string {
	return c.Name
}

// ---------------------------------------------------------------------------
// Instance-side method table
// ---------------------------------------------------------------------------

// AddMethod installs a method under name, replacing any previous entry.
func (c *Class) AddMethod(name string, method Method) {
	c.mu.Lock()
	c.methods[name] = method
	c.mu.Unlock()
}

func (c *Class) AddMethod0(name string, fn Method0Func) {
	c.AddMethod(name, &Method0{name: name, fn: fn})
}

func (c *Class) AddMethod1(name string, fn Method1Func) {
	c.AddMethod(name, &Method1{name: name, fn: fn})
}

func (c *Class) AddMethod2(name string, fn Method2Func) {
	c.AddMethod(name, &Method2{name: name, fn: fn})
}

// AddPrimitiveMethod installs a method with an explicit argument spec.
func (c *Class) AddPrimitiveMethod(name string, aspec Aspec, fn PrimitiveFunc) {
	c.AddMethod(name, &PrimitiveMethod{name: name, aspec: aspec, fn: fn})
}

// LookupMethod finds name in c or its superclasses.
func (c *Class) LookupMethod(name string) Method {
	for k := c; k != nil; k = k.Superclass {
		k.mu.RLock()
		m, ok := k.methods[name]
		k.mu.RUnlock()
		if ok {
			return m
		}
	}
	return nil
}

// HasMethod reports whether instances of c respond to name.
func (c *Class) HasMethod(name string) bool {
	return c.LookupMethod(name) != nil
}

// MethodNames returns the sorted names defined directly on c.
func (c *Class) MethodNames() []string {
	c.mu.RLock()
	names := make([]string, 0, len(c.methods))
	for name := range c.methods {
		names = append(names, name)
	}
	c.mu.RUnlock()
	sort.Strings(names)
	return names
}

// ---------------------------------------------------------------------------
// Class-side method table
// ---------------------------------------------------------------------------

func (c *Class) AddClassMethod(name string, method Method) {
	c.mu.Lock()
	c.classMethods[name] = method
	c.mu.Unlock()
}

func (c *Class) AddClassMethod0(name string, fn Method0Func) {
	c.AddClassMethod(name, &Method0{name: name, fn: fn})
}

func (c *Class) AddClassMethod1(name string, fn Method1Func) {
	c.AddClassMethod(name, &Method1{name: name, fn: fn})
}

func (c *Class) AddClassPrimitiveMethod(name string, aspec Aspec, fn PrimitiveFunc) {
	c.AddClassMethod(name, &PrimitiveMethod{name: name, aspec: aspec, fn: fn})
}

// LookupClassMethod finds a class-side method in c or its superclasses.
func (c *Class) LookupClassMethod(name string) Method {
	for k := c; k != nil; k = k.Superclass {
		k.mu.RLock()
		m, ok := k.classMethods[name]
		k.mu.RUnlock()
		if ok {
			return m
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// ClassTable
// ---------------------------------------------------------------------------

// ClassTable maps class names to classes and Go types to native-backed classes.
type ClassTable struct {
	mu     sync.RWMutex
	byName map[string]*Class
	byType map[reflect.Type]*Class
}

// NewClassTable creates an empty class table.
func NewClassTable() *ClassTable {
	return &ClassTable{
		byName: make(map[string]*Class),
		byType: make(map[reflect.Type]*Class),
	}
}

// Register adds c to the table, returning the already-registered class of
// the same name if there is one.
func (ct *ClassTable) Register(c *Class) *Class {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	if existing, ok := ct.byName[c.Name]; ok {
		return existing
	}
	ct.byName[c.Name] = c
	if c.GoType != nil {
		ct.byType[c.GoType] = c
	}
	return c
}

// Lookup returns the class named name, or nil.
func (ct *ClassTable) Lookup(name string) *Class {
	ct.mu.RLock()
	defer ct.mu.RUnlock()
	return ct.byName[name]
}

// LookupByGoType returns the native-backed class registered for goType.
func (ct *ClassTable) LookupByGoType(goType reflect.Type) *Class {
	ct.mu.RLock()
	defer ct.mu.RUnlock()
	return ct.byType[goType]
}

func (ct *ClassTable) bindGoType(c *Class, goType reflect.Type) {
	ct.mu.Lock()
	c.GoType = goType
	ct.byType[goType] = c
	ct.mu.Unlock()
}

// Len returns the number of registered classes.
func (ct *ClassTable) Len() int {
	ct.mu.RLock()
	defer ct.mu.RUnlock()
	return len(ct.byName)
}
