package array

import (
	"reflect"

	"github.com/chazu/rbcore/convert"
	"github.com/chazu/rbcore/types"
	"github.com/chazu/rbcore/vm"
)

var arrayType = reflect.TypeOf(Array{})

// Values converts between []vm.Value and guest Arrays.
var Values convert.Codec[[]vm.Value] = valuesCodec{}

type valuesCodec struct{}

func (valuesCodec) ConvertMut(interp *vm.VM, vs []vm.Value) vm.Value {
	return FromValues(interp, vs)
}

func (valuesCodec) TryConvert(interp *vm.VM, v vm.Value) ([]vm.Value, error) {
	vs, ok := snapshot(interp, v)
	if !ok {
		return nil, convert.NewUnboxError(interp, v, types.HostSlice)
	}
	return vs, nil
}

// Of lifts an element codec to slices. Elements are converted before the
// Array holding them is allocated; TryConvert stops at the first element
// that fails and returns no partial result.
func Of[T any](elem convert.Codec[T]) convert.Codec[[]T] {
	return sliceCodec[T]{elem: elem}
}

type sliceCodec[T any] struct {
	elem convert.Codec[T]
}

func (c sliceCodec[T]) ConvertMut(interp *vm.VM, xs []T) vm.Value {
	vs := make([]vm.Value, len(xs))
	for i, x := range xs {
		vs[i] = c.elem.ConvertMut(interp, x)
	}
	return FromValues(interp, vs)
}

func (c sliceCodec[T]) TryConvert(interp *vm.VM, v vm.Value) ([]T, error) {
	vs, ok := snapshot(interp, v)
	if !ok {
		return nil, convert.NewUnboxError(interp, v, types.HostSlice)
	}
	out := make([]T, 0, len(vs))
	for _, elem := range vs {
		x, err := c.elem.TryConvert(interp, elem)
		if err != nil {
			return nil, err
		}
		out = append(out, x)
	}
	return out, nil
}
