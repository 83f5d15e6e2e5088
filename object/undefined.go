package object

import (
	"github.com/opengm-go/gmvm/errz"
	"github.com/opengm-go/gmvm/op"
)

// UndefinedType is the type of the Undefined singleton, the value of any
// variable that was never assigned. It is falsy, equals only itself, reads
// as 0 when a number is required and as "" when a string is required.
type UndefinedType struct{}

func (u *UndefinedType) Type() Type {
	return UNDEFINED
}

func (u *UndefinedType) Inspect() string {
	return "undefined"
}

func (u *UndefinedType) String() string {
	return "undefined"
}

func (u *UndefinedType) Interface() interface{} {
	return nil
}

func (u *UndefinedType) Compare(other Object) (int, error) {
	if _, ok := other.(*UndefinedType); ok {
		return 0, nil
	}
	return -1, nil
}

func (u *UndefinedType) Equals(other Object) bool {
	_, ok := other.(*UndefinedType)
	return ok
}

func (u *UndefinedType) IsTruthy() bool {
	return false
}

func (u *UndefinedType) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

func (u *UndefinedType) RunOperation(opType op.BinaryOpType, right Object) (Object, error) {
	return nil, errz.TypeErrorf("unsupported operation for undefined: %v on type %s", opType, right.Type())
}

// IsUndefined reports whether obj is the Undefined singleton (or nil).
func IsUndefined(obj Object) bool {
	if obj == nil {
		return true
	}
	_, ok := obj.(*UndefinedType)
	return ok
}
