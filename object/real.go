package object

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/opengm-go/gmvm/errz"
	"github.com/opengm-go/gmvm/op"
)

// Real wraps float64 and implements Object.
type Real struct {
	value float64
}

// Inspect renders integral values without a fraction ("3") and everything
// else in the shortest form that round-trips ("0.1").
func (r *Real) Inspect() string {
	return FormatReal(r.value)
}

func (r *Real) Type() Type {
	return REAL
}

func (r *Real) Value() float64 {
	return r.value
}

func (r *Real) Interface() interface{} {
	return r.value
}

func (r *Real) String() string {
	return r.Inspect()
}

func (r *Real) Compare(other Object) (int, error) {
	switch other := other.(type) {
	case *Real:
		return compareReals(r.value, other.value), nil
	case *Int:
		return compareReals(r.value, float64(other.value)), nil
	case *Bool:
		return compareReals(r.value, float64(other.asInt())), nil
	default:
		return 0, errz.TypeErrorf("unable to compare number and %s", other.Type())
	}
}

func (r *Real) Equals(other Object) bool {
	switch other := other.(type) {
	case *Int:
		return r.value == float64(other.value)
	case *Real:
		return r.value == other.value
	case *Bool:
		return r.value == float64(other.asInt())
	}
	return false
}

func (r *Real) IsTruthy() bool {
	return r.value != 0.0
}

func (r *Real) RunOperation(opType op.BinaryOpType, right Object) (Object, error) {
	switch right := right.(type) {
	case *Int:
		return runOperationReal(opType, r.value, float64(right.value))
	case *Real:
		return runOperationReal(opType, r.value, right.value)
	case *Bool:
		return runOperationReal(opType, r.value, float64(right.asInt()))
	case *String:
		if opType == op.Add {
			return NewString(r.Inspect() + right.value), nil
		}
		return nil, errz.TypeErrorf("unsupported operation for number: %v on type string", opType)
	default:
		return nil, errz.TypeErrorf("unsupported operation for number: %v on type %s", opType, right.Type())
	}
}

func runOperationReal(opType op.BinaryOpType, left, right float64) (Object, error) {
	switch opType {
	case op.Add:
		return NewReal(left + right), nil
	case op.Subtract:
		return NewReal(left - right), nil
	case op.Multiply:
		return NewReal(left * right), nil
	case op.Divide:
		if right == 0 {
			return nil, errz.RuntimeErrorf("division by zero")
		}
		return NewReal(left / right), nil
	case op.Modulo:
		if right == 0 {
			return nil, errz.RuntimeErrorf("division by zero")
		}
		return NewReal(math.Mod(left, right)), nil
	case op.IntDivide:
		if right == 0 {
			return nil, errz.RuntimeErrorf("division by zero")
		}
		return NewInt(int64(math.Trunc(left / right))), nil
	case op.BitwiseAnd, op.BitwiseOr, op.BitwiseXor, op.LShift, op.RShift:
		return NewInt(RoundToInt(left)).runOperationInt(opType, RoundToInt(right))
	default:
		return nil, errz.TypeErrorf("unsupported operation for number: %v", opType)
	}
}

func (r *Real) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.value)
}

func NewReal(value float64) *Real {
	return &Real{value: value}
}

// FormatReal returns the canonical decimal text of a real.
func FormatReal(value float64) string {
	if value == math.Trunc(value) && math.Abs(value) < 1e15 {
		return strconv.FormatFloat(value, 'f', 0, 64)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// RoundToInt narrows a real to an integer using round-half-to-even.
func RoundToInt(value float64) int64 {
	switch {
	case math.IsNaN(value):
		return 0
	case value >= math.MaxInt64:
		return math.MaxInt64
	case value <= math.MinInt64:
		return math.MinInt64
	}
	return int64(math.RoundToEven(value))
}

func compareReals(a, b float64) int {
	if a == b {
		return 0
	}
	if a > b {
		return 1
	}
	return -1
}
