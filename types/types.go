// Package types maps guest runtime values and host Go types onto closed sets
// of tags used for classification and error messages.
package types

import "fmt"

// Host classifies the Go side of a conversion.
type Host int

const (
	// HostBool is a Go bool.
	HostBool Host = iota
	// HostBytes is a Go []byte.
	HostBytes
	// HostFloat is a Go float64.
	HostFloat
	// HostMap is a Go map.
	HostMap
	// HostObject is an arbitrary Go struct boxed behind a Data slot.
	HostObject
	// HostSignedInt is a Go int64.
	HostSignedInt
	// HostString is a Go string holding valid UTF-8.
	HostString
	// HostUnsignedInt is a Go uint64.
	HostUnsignedInt
	// HostSlice is a Go slice []T.
	HostSlice
)

var hostNames = [...]string{
	HostBool:        "Bool",
	HostBytes:       "Bytes",
	HostFloat:       "Float",
	HostMap:         "Map",
	HostObject:      "Object",
	HostSignedInt:   "SignedInt",
	HostString:      "String",
	HostUnsignedInt: "UnsignedInt",
	HostSlice:       "Slice",
}

func (h Host) String() string {
	if h < 0 || int(h) >= len(hostNames) {
		return fmt.Sprintf("Host(%d)", int(h))
	}
	return hostNames[h]
}

// Guest classifies a value of the guest runtime.
type Guest int

const (
	Array Guest = iota
	Bool
	Class
	// CPointer is a borrowed foreign pointer.
	CPointer
	// Data is a heap slot owning a boxed Go struct.
	Data
	Exception
	Fiber
	// Fixnum is an immediate integer.
	Fixnum
	Float
	// Hash is an insertion-ordered map.
	Hash
	// InlineStruct is a non-heap allocated struct.
	InlineStruct
	Module
	// Nil is the type of the nil singleton.
	Nil
	// Object is an instance of a class defined in the guest runtime.
	Object
	Proc
	Range
	SingletonClass
	String
	// Symbol is an interned string. Symbols are never freed.
	Symbol
	// Unreachable values are never handed out by a healthy runtime.
	Unreachable
	// RecursiveSelfOwnership marks a collection that contains itself.
	RecursiveSelfOwnership
)

var classNames = [...]string{
	Array:                  "Array",
	Bool:                   "Boolean",
	Class:                  "Class",
	CPointer:               "C Pointer",
	Data:                   "Go-backed guest instance",
	Exception:              "Exception",
	Fiber:                  "Fiber",
	Fixnum:                 "Fixnum",
	Float:                  "Float",
	Hash:                   "Hash",
	InlineStruct:           "Inline Struct",
	Module:                 "Module",
	Nil:                    "NilClass",
	Object:                 "Object",
	Proc:                   "Proc",
	Range:                  "Range",
	SingletonClass:         "Singleton (anonymous) class",
	String:                 "String",
	Symbol:                 "Symbol",
	Unreachable:            "internal and unreachable",
	RecursiveSelfOwnership: "recursive self ownership",
}

// ClassName returns the guest class name for the tag.
func (g Guest) ClassName() string {
	if g < 0 || int(g) >= len(classNames) {
		return classNames[Unreachable]
	}
	return classNames[g]
}

func (g Guest) String() string {
	return "guest " + g.ClassName()
}
