package object

import (
	"encoding/json"

	"github.com/opengm-go/gmvm/errz"
	"github.com/opengm-go/gmvm/op"
)

// Bool is a boolean value. In arithmetic and comparisons it behaves as the
// integer 0 or 1.
type Bool struct {
	value bool
}

func (b *Bool) Type() Type {
	return BOOL
}

func (b *Bool) Value() bool {
	return b.value
}

func (b *Bool) Inspect() string {
	if b.value {
		return "true"
	}
	return "false"
}

func (b *Bool) String() string {
	return b.Inspect()
}

func (b *Bool) Interface() interface{} {
	return b.value
}

func (b *Bool) asInt() int64 {
	if b.value {
		return 1
	}
	return 0
}

func (b *Bool) Compare(other Object) (int, error) {
	switch other := other.(type) {
	case *Bool, *Int, *Real:
		return NewInt(b.asInt()).Compare(other)
	default:
		return 0, errz.TypeErrorf("unable to compare bool and %s", other.Type())
	}
}

func (b *Bool) Equals(other Object) bool {
	switch other := other.(type) {
	case *Bool:
		return b.value == other.value
	case *Int, *Real:
		return other.Equals(b)
	}
	return false
}

func (b *Bool) IsTruthy() bool {
	return b.value
}

func (b *Bool) RunOperation(opType op.BinaryOpType, right Object) (Object, error) {
	switch right.(type) {
	case *Bool, *Int, *Real:
		return NewInt(b.asInt()).RunOperation(opType, right)
	case *String:
		if opType == op.Add {
			return NewString(b.Inspect() + AsString(right)), nil
		}
	}
	return nil, errz.TypeErrorf("unsupported operation for bool: %v on type %s", opType, right.Type())
}

func (b *Bool) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.value)
}

func NewBool(value bool) *Bool {
	if value {
		return True
	}
	return False
}

// Not returns the negation of the given boolean.
func Not(b *Bool) *Bool {
	if b.value {
		return False
	}
	return True
}
