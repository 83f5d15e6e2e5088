package object

import (
	"github.com/opengm-go/gmvm/errz"
	"github.com/opengm-go/gmvm/op"
)

// Compare two objects using the given comparison operator. Ordering between
// kinds that are not mutually comparable falls back to a fixed total order,
// so comparisons never fail.
func Compare(opType op.CompareOpType, a, b Object) (Object, error) {
	switch opType {
	case op.Equal:
		return NewBool(a.Equals(b)), nil
	case op.NotEqual:
		return NewBool(!a.Equals(b)), nil
	}
	value := CompareValues(a, b)
	switch opType {
	case op.LessThan:
		return NewBool(value < 0), nil
	case op.LessThanOrEqual:
		return NewBool(value <= 0), nil
	case op.GreaterThan:
		return NewBool(value > 0), nil
	case op.GreaterThanOrEqual:
		return NewBool(value >= 0), nil
	default:
		return nil, errz.InternalErrorf("unknown comparison operator: %d", opType)
	}
}

// CompareValues totally orders any two values: numbers numerically, strings
// ordinally, and otherwise by kind rank
// undefined < number < string < ref < array < method.
func CompareValues(a, b Object) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return compareInts(int64(ra), int64(rb))
	}
	if c, ok := a.(Comparable); ok {
		if value, err := c.Compare(b); err == nil {
			return value
		}
	}
	if arr, ok := a.(*Array); ok {
		if a.Equals(b) {
			return 0
		}
		return compareInts(int64(arr.Len()), int64(b.(*Array).Len()))
	}
	return 0
}

func rank(obj Object) int {
	switch obj.(type) {
	case *UndefinedType:
		return 0
	case *Int, *Real, *Bool:
		return 1
	case *String:
		return 2
	case *InstanceRef:
		return 3
	case *Array:
		return 4
	default:
		return 5
	}
}

// BinaryOp performs a binary operation on two objects, given an operator.
// The logical operators evaluate truthiness and always produce a bool.
func BinaryOp(opType op.BinaryOpType, a, b Object) (Object, error) {
	switch opType {
	case op.And:
		return NewBool(a.IsTruthy() && b.IsTruthy()), nil
	case op.Or:
		return NewBool(a.IsTruthy() || b.IsTruthy()), nil
	case op.Xor:
		return NewBool(a.IsTruthy() != b.IsTruthy()), nil
	}
	return a.RunOperation(opType, b)
}

// Negate returns the arithmetic negation of a number.
func Negate(obj Object) (Object, error) {
	switch obj := obj.(type) {
	case *Int:
		return NewInt(-obj.value), nil
	case *Real:
		return NewReal(-obj.value), nil
	case *Bool:
		return NewInt(-obj.asInt()), nil
	default:
		return nil, errz.TypeErrorf("object is not a number (got %s)", obj.Type())
	}
}

// BitNot returns the bitwise complement of a number's integer value.
func BitNot(obj Object) (Object, error) {
	if !IsNumeric(obj) {
		return nil, errz.TypeErrorf("object is not a number (got %s)", obj.Type())
	}
	value, err := AsInt(obj)
	if err != nil {
		return nil, err
	}
	return NewInt(^value), nil
}

// Equals reports whether two possibly-nil objects are equal.
func Equals(a, b Object) bool {
	if a == nil || b == nil {
		return IsUndefined(a) && IsUndefined(b)
	}
	return a.Equals(b)
}
