package vm

import (
	"errors"

	"github.com/opengm-go/gmvm/errz"
	"github.com/opengm-go/gmvm/object"
	"github.com/opengm-go/gmvm/scope"
)

// asStructured returns err as a *errz.StructuredError. Plain errors, such as
// those returned by host built-ins, become runtime errors.
func asStructured(err error) *errz.StructuredError {
	var se *errz.StructuredError
	if errors.As(err, &se) {
		if se.Message == "" {
			// Kind sentinels are shared; never annotate them in place.
			return errz.New(se.Kind, se.Kind.String()).WithCause(err)
		}
		return se
	}
	return errz.New(errz.ErrRuntime, err.Error()).WithCause(err)
}

// instanceRef returns a reference to inst, or undefined for a missing
// instance.
func instanceRef(inst scope.Instance) object.Object {
	if inst == nil {
		return object.Undefined
	}
	return object.NewInstanceRef(inst.ID())
}

// arrayIndex checks the operands of an array access.
func arrayIndex(container, index object.Object) (*object.Array, int64, error) {
	arr, ok := container.(*object.Array)
	if !ok {
		return nil, 0, errz.TypeErrorf("value is not an array (got %s)", container.Type())
	}
	if !object.IsNumeric(index) {
		return nil, 0, errz.TypeErrorf("array index must be a number (got %s)", index.Type())
	}
	i, err := object.AsInt(index)
	if err != nil {
		return nil, 0, err
	}
	return arr, i, nil
}
