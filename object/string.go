package object

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/opengm-go/gmvm/errz"
	"github.com/opengm-go/gmvm/op"
)

// String is an immutable string value compared ordinally.
type String struct {
	value string
}

func (s *String) Type() Type {
	return STRING
}

func (s *String) Value() string {
	return s.value
}

func (s *String) Inspect() string {
	return fmt.Sprintf("%q", s.value)
}

func (s *String) String() string {
	return s.value
}

func (s *String) Interface() interface{} {
	return s.value
}

func (s *String) Compare(other Object) (int, error) {
	otherStr, ok := other.(*String)
	if !ok {
		return 0, errz.TypeErrorf("unable to compare string and %s", other.Type())
	}
	return strings.Compare(s.value, otherStr.value), nil
}

func (s *String) Equals(other Object) bool {
	otherStr, ok := other.(*String)
	if !ok {
		return false
	}
	return s.value == otherStr.value
}

func (s *String) IsTruthy() bool {
	return s.value != ""
}

// RunOperation supports concatenation only. A number on the right-hand side
// is rendered in its canonical decimal text.
func (s *String) RunOperation(opType op.BinaryOpType, right Object) (Object, error) {
	if opType != op.Add {
		return nil, errz.TypeErrorf("unsupported operation for string: %v on type %s", opType, right.Type())
	}
	switch right := right.(type) {
	case *String:
		return NewString(s.value + right.value), nil
	case *Int, *Real, *Bool:
		return NewString(s.value + AsString(right)), nil
	default:
		return nil, errz.TypeErrorf("unsupported operation for string: %v on type %s", opType, right.Type())
	}
}

func (s *String) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.value)
}

func NewString(s string) *String {
	return &String{value: s}
}
