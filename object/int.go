package object

import (
	"encoding/json"
	"fmt"

	"github.com/opengm-go/gmvm/errz"
	"github.com/opengm-go/gmvm/op"
)

// Int wraps int64 and implements Object. Arithmetic between two Ints wraps
// around on overflow exactly like Go's fixed-width int64.
type Int struct {
	value int64
}

func (i *Int) Inspect() string {
	return fmt.Sprintf("%d", i.value)
}

func (i *Int) Type() Type {
	return INT
}

func (i *Int) Value() int64 {
	return i.value
}

func (i *Int) Interface() interface{} {
	return i.value
}

func (i *Int) String() string {
	return i.Inspect()
}

func (i *Int) Compare(other Object) (int, error) {
	switch other := other.(type) {
	case *Int:
		return compareInts(i.value, other.value), nil
	case *Real:
		return compareReals(float64(i.value), other.value), nil
	case *Bool:
		return compareInts(i.value, other.asInt()), nil
	default:
		return 0, errz.TypeErrorf("unable to compare int64 and %s", other.Type())
	}
}

func (i *Int) Equals(other Object) bool {
	switch other := other.(type) {
	case *Int:
		return i.value == other.value
	case *Real:
		return float64(i.value) == other.value
	case *Bool:
		return i.value == other.asInt()
	}
	return false
}

func (i *Int) IsTruthy() bool {
	return i.value != 0
}

func (i *Int) RunOperation(opType op.BinaryOpType, right Object) (Object, error) {
	switch right := right.(type) {
	case *Int:
		return i.runOperationInt(opType, right.value)
	case *Real:
		return runOperationReal(opType, float64(i.value), right.value)
	case *Bool:
		return i.runOperationInt(opType, right.asInt())
	case *String:
		if opType == op.Add {
			return NewString(i.Inspect() + right.value), nil
		}
		return nil, errz.TypeErrorf("unsupported operation for int64: %v on type string", opType)
	default:
		return nil, errz.TypeErrorf("unsupported operation for int64: %v on type %s", opType, right.Type())
	}
}

func (i *Int) runOperationInt(opType op.BinaryOpType, right int64) (Object, error) {
	switch opType {
	case op.Add:
		return NewInt(i.value + right), nil
	case op.Subtract:
		return NewInt(i.value - right), nil
	case op.Multiply:
		return NewInt(i.value * right), nil
	case op.Divide:
		if right == 0 {
			return nil, errz.RuntimeErrorf("division by zero")
		}
		return NewReal(float64(i.value) / float64(right)), nil
	case op.IntDivide:
		if right == 0 {
			return nil, errz.RuntimeErrorf("division by zero")
		}
		return NewInt(i.value / right), nil
	case op.Modulo:
		if right == 0 {
			return nil, errz.RuntimeErrorf("division by zero")
		}
		return NewInt(i.value % right), nil
	case op.BitwiseXor:
		return NewInt(i.value ^ right), nil
	case op.LShift:
		return NewInt(i.value << uint64(right)), nil
	case op.RShift:
		return NewInt(i.value >> uint64(right)), nil
	case op.BitwiseAnd:
		return NewInt(i.value & right), nil
	case op.BitwiseOr:
		return NewInt(i.value | right), nil
	default:
		return nil, errz.TypeErrorf("unsupported operation for int64: %v on type int64", opType)
	}
}

func (i *Int) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.value)
}

// NewInt returns an *Int for the given value. Small integers are returned
// from a pre-allocated cache, so the same pointer may be returned for equal
// values. This is safe because Int is immutable.
func NewInt(value int64) *Int {
	if value >= 0 && value < positiveCacheSize {
		return positiveCache[value]
	}
	if value < 0 && value >= -negativeCacheSize {
		return negativeCache[-value-1]
	}
	return &Int{value: value}
}

const (
	positiveCacheSize = 256 // 0 to 255
	negativeCacheSize = 10  // -1 to -10
)

var (
	positiveCache []*Int
	negativeCache []*Int
)

func init() {
	positiveCache = make([]*Int, positiveCacheSize)
	for i := range positiveCacheSize {
		positiveCache[i] = &Int{value: int64(i)}
	}
	negativeCache = make([]*Int, negativeCacheSize)
	for i := range negativeCacheSize {
		negativeCache[i] = &Int{value: int64(-i - 1)}
	}
}

func compareInts(a, b int64) int {
	if a == b {
		return 0
	}
	if a > b {
		return 1
	}
	return -1
}
