// Package snapshot exports guest value graphs to CBOR or YAML and restores
// them from CBOR.
//
// A snapshot is a tree of Nodes. Arrays that contain one of their own
// ancestors are cut with a recursive node pointing back up the path, so
// self-referential Arrays survive a round trip. Arrays reachable twice
// without a cycle are written twice.
package snapshot

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/fxamacker/cbor/v2"
	"github.com/tliron/commonlog"
	"gopkg.in/yaml.v3"

	"github.com/chazu/rbcore/array"
	"github.com/chazu/rbcore/convert"
	"github.com/chazu/rbcore/types"
	"github.com/chazu/rbcore/vm"
)

var log = commonlog.GetLogger("rbcore.snapshot")

var (
	// ErrUnsupported is returned for guest values with no snapshot form,
	// such as plain objects and classes.
	ErrUnsupported = errors.New("snapshot: unsupported value")
	// ErrCorrupt is returned when decoded data is not a valid node tree.
	ErrCorrupt = errors.New("snapshot: corrupt data")
)

// Kind identifies the type of a Node.
type Kind string

const (
	KindNil       Kind = "nil"
	KindBool      Kind = "bool"
	KindInt       Kind = "int"
	KindFloat     Kind = "float"
	KindSymbol    Kind = "symbol"
	KindString    Kind = "string"
	KindArray     Kind = "array"
	KindRecursive Kind = "recursive"
)

// Node is one value of a snapshot tree.
type Node struct {
	Kind  Kind    `cbor:"k" yaml:"kind"`
	Bool  bool    `cbor:"b,omitempty" yaml:"bool,omitempty"`
	Int   int64   `cbor:"i,omitempty" yaml:"int,omitempty"`
	Float float64 `cbor:"f,omitempty" yaml:"float,omitempty"`
	// Text holds symbol names and strings that are valid UTF-8.
	Text string `cbor:"t,omitempty" yaml:"text,omitempty"`
	// Data holds strings that are not valid UTF-8.
	Data  []byte `cbor:"d,omitempty" yaml:"data,omitempty"`
	Items []Node `cbor:"a,omitempty" yaml:"items,omitempty"`
	// Ref is the depth of the enclosing Array a recursive node points to;
	// 0 is the root.
	Ref int `cbor:"r,omitempty" yaml:"ref,omitempty"`
}

var encMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("snapshot: failed to create CBOR enc mode: %v", err))
	}
	encMode = em
}

// ---------------------------------------------------------------------------
// Guest values to nodes
// ---------------------------------------------------------------------------

// Build converts v into a node tree.
func Build(interp *vm.VM, v vm.Value) (Node, error) {
	return build(interp, v, nil)
}

func build(interp *vm.VM, v vm.Value, path []vm.Value) (Node, error) {
	switch g := interp.GuestType(v); g {
	case types.Nil:
		return Node{Kind: KindNil}, nil
	case types.Bool:
		return Node{Kind: KindBool, Bool: v.Bool()}, nil
	case types.Fixnum:
		return Node{Kind: KindInt, Int: v.SmallInt()}, nil
	case types.Float:
		return Node{Kind: KindFloat, Float: v.Float64()}, nil
	case types.Symbol:
		name, err := convert.Symbol.TryConvert(interp, v)
		if err != nil {
			return Node{}, err
		}
		return Node{Kind: KindSymbol, Text: name}, nil
	case types.String:
		b, err := convert.Bytes.TryConvert(interp, v)
		if err != nil {
			return Node{}, err
		}
		if utf8.Valid(b) {
			return Node{Kind: KindString, Text: string(b)}, nil
		}
		return Node{Kind: KindString, Data: b}, nil
	case types.Array:
		for depth, ancestor := range path {
			if ancestor == v {
				return Node{Kind: KindRecursive, Ref: depth}, nil
			}
		}
		elems, err := array.Elements(interp, v)
		if err != nil {
			return Node{}, err
		}
		path = append(path, v)
		n := Node{Kind: KindArray, Items: make([]Node, 0, len(elems))}
		for _, elem := range elems {
			item, err := build(interp, elem, path)
			if err != nil {
				return Node{}, err
			}
			n.Items = append(n.Items, item)
		}
		return n, nil
	default:
		return Node{}, fmt.Errorf("%w: %s", ErrUnsupported, g.ClassName())
	}
}

// ---------------------------------------------------------------------------
// Nodes to guest values
// ---------------------------------------------------------------------------

// Restore allocates the guest values described by n.
func Restore(interp *vm.VM, n Node) (vm.Value, error) {
	return restore(interp, n, nil)
}

func restore(interp *vm.VM, n Node, stack []vm.Value) (vm.Value, error) {
	switch n.Kind {
	case KindNil:
		return vm.Nil, nil
	case KindBool:
		return convert.Bool.Convert(n.Bool), nil
	case KindInt:
		return convert.Int.Convert(n.Int), nil
	case KindFloat:
		return convert.Float.Convert(n.Float), nil
	case KindSymbol:
		return convert.Symbol.ConvertMut(interp, n.Text), nil
	case KindString:
		if n.Data != nil {
			return convert.Bytes.ConvertMut(interp, n.Data), nil
		}
		return convert.String.ConvertMut(interp, n.Text), nil
	case KindRecursive:
		if n.Ref < 0 || n.Ref >= len(stack) {
			return vm.Nil, fmt.Errorf("%w: recursive reference to depth %d at depth %d", ErrCorrupt, n.Ref, len(stack))
		}
		return stack[n.Ref], nil
	case KindArray:
		ary := array.WithCapacity(interp, len(n.Items))
		stack = append(stack, ary)
		elems := make([]vm.Value, 0, len(n.Items))
		for _, item := range n.Items {
			elem, err := restore(interp, item, stack)
			if err != nil {
				return vm.Nil, err
			}
			elems = append(elems, elem)
		}
		if _, err := array.Push(interp, ary, elems...); err != nil {
			return vm.Nil, err
		}
		return ary, nil
	default:
		return vm.Nil, fmt.Errorf("%w: unknown kind %q", ErrCorrupt, n.Kind)
	}
}

// ---------------------------------------------------------------------------
// Encodings
// ---------------------------------------------------------------------------

// Encode serializes v to canonical CBOR.
func Encode(interp *vm.VM, v vm.Value) ([]byte, error) {
	n, err := Build(interp, v)
	if err != nil {
		return nil, err
	}
	data, err := encMode.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("snapshot: marshal: %w", err)
	}
	log.Debugf("encoded %s snapshot, %d bytes", n.Kind, len(data))
	return data, nil
}

// Decode restores a value serialized by Encode.
func Decode(interp *vm.VM, data []byte) (vm.Value, error) {
	var n Node
	if err := cbor.Unmarshal(data, &n); err != nil {
		return vm.Nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return Restore(interp, n)
}

// EncodeYAML renders v as YAML for reading. There is no YAML decoder.
func EncodeYAML(interp *vm.VM, v vm.Value) ([]byte, error) {
	n, err := Build(interp, v)
	if err != nil {
		return nil, err
	}
	data, err := yaml.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("snapshot: marshal yaml: %w", err)
	}
	return data, nil
}

// Format names an encoding.
type Format string

const (
	FormatCBOR Format = "cbor"
	FormatYAML Format = "yaml"
)

// Marshal encodes v in the given format.
func Marshal(interp *vm.VM, v vm.Value, format Format) ([]byte, error) {
	switch format {
	case FormatCBOR, "":
		return Encode(interp, v)
	case FormatYAML:
		return EncodeYAML(interp, v)
	default:
		return nil, fmt.Errorf("snapshot: unknown format %q", format)
	}
}
