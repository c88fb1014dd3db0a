package array

import (
	"github.com/chazu/rbcore/vm"
)

// Conversion protocols. Each returns a snapshot of the elements so callers
// can mutate a target, even the same Array, without seeing a moving source.

// convertVia calls method on v and requires the result to be an Array.
func convertVia(interp *vm.VM, v vm.Value, method string) (vm.Value, []vm.Value, error) {
	from := interp.PrettyName(v)
	res, err := interp.Send(v, method)
	if err != nil {
		return vm.Nil, nil, err
	}
	vs, ok := snapshot(interp, res)
	if !ok {
		return vm.Nil, nil, &CannotConvertError{
			To:     "Array",
			From:   from,
			Method: method,
			Gives:  interp.PrettyName(res),
		}
	}
	return res, vs, nil
}

// implicitArray is the to_ary protocol for operations that require an
// Array argument: Arrays and values answering to_ary are accepted,
// anything else is a *NoImplicitConversionError.
func implicitArray(interp *vm.VM, other vm.Value) ([]vm.Value, error) {
	if vs, ok := snapshot(interp, other); ok {
		return vs, nil
	}
	if !interp.RespondTo(other, "to_ary") {
		return nil, &NoImplicitConversionError{From: interp.PrettyName(other), To: "Array"}
	}
	_, vs, err := convertVia(interp, other, "to_ary")
	return vs, err
}

// replacement is the to_ary protocol used by splice, where a value that is
// not array-like stands for itself as a one-element sequence.
func replacement(interp *vm.VM, other vm.Value) ([]vm.Value, error) {
	if vs, ok := snapshot(interp, other); ok {
		return vs, nil
	}
	if !interp.RespondTo(other, "to_ary") {
		return []vm.Value{other}, nil
	}
	_, vs, err := convertVia(interp, other, "to_ary")
	return vs, err
}

// Splat converts value for argument splatting: Arrays are returned as is,
// values answering to_a are converted, anything else is wrapped in a new
// one-element Array.
func Splat(interp *vm.VM, value vm.Value) (vm.Value, error) {
	if IsArray(interp, value) {
		return value, nil
	}
	if interp.RespondTo(value, "to_a") {
		res, _, err := convertVia(interp, value, "to_a")
		return res, err
	}
	return FromValues(interp, []vm.Value{value}), nil
}

// ToAry converts value the way Kernel#Array does: to_ary is tried before
// to_a, and anything else is wrapped in a new one-element Array.
func ToAry(interp *vm.VM, value vm.Value) (vm.Value, error) {
	if IsArray(interp, value) {
		return value, nil
	}
	for _, method := range []string{"to_ary", "to_a"} {
		if interp.RespondTo(value, method) {
			res, _, err := convertVia(interp, value, method)
			return res, err
		}
	}
	return FromValues(interp, []vm.Value{value}), nil
}
