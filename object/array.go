package object

import (
	"encoding/json"
	"strings"

	"github.com/opengm-go/gmvm/errz"
	"github.com/opengm-go/gmvm/op"
)

// Array is a growable sequence of values. Arrays are reference values: every
// copy of an *Array observes writes made through any other copy.
type Array struct {
	items []Object
}

func (a *Array) Type() Type {
	return ARRAY
}

func (a *Array) Value() []Object {
	return a.items
}

func (a *Array) Len() int {
	return len(a.items)
}

func (a *Array) Inspect() string {
	var b strings.Builder
	b.WriteString("[ ")
	for i, item := range a.items {
		if i > 0 {
			b.WriteString(",")
		}
		if s, ok := item.(*String); ok {
			b.WriteString(s.Inspect())
		} else {
			b.WriteString(AsString(item))
		}
	}
	b.WriteString(" ]")
	return b.String()
}

func (a *Array) String() string {
	return a.Inspect()
}

func (a *Array) Interface() interface{} {
	items := make([]interface{}, 0, len(a.items))
	for _, item := range a.items {
		items = append(items, item.Interface())
	}
	return items
}

// Equals compares identity, not contents.
func (a *Array) Equals(other Object) bool {
	otherArr, ok := other.(*Array)
	return ok && a == otherArr
}

func (a *Array) IsTruthy() bool {
	return true
}

func (a *Array) RunOperation(opType op.BinaryOpType, right Object) (Object, error) {
	return nil, errz.TypeErrorf("unsupported operation for array: %v", opType)
}

// Get returns the item at index or an error when index is out of range.
func (a *Array) Get(index int64) (Object, error) {
	if index < 0 || index >= int64(len(a.items)) {
		return nil, errz.RuntimeErrorf("array index %d out of range [0, %d)", index, len(a.items))
	}
	return a.items[index], nil
}

// Set stores value at index. Writing past the end grows the array and pads
// the gap with zeros.
func (a *Array) Set(index int64, value Object) error {
	if index < 0 {
		return errz.RuntimeErrorf("negative array index %d", index)
	}
	if index >= MaxArrayLength {
		return errz.RuntimeErrorf("array index %d exceeds the limit of %d", index, MaxArrayLength)
	}
	for int64(len(a.items)) <= index {
		a.items = append(a.items, NewInt(0))
	}
	a.items[index] = value
	return nil
}

// Append adds values to the end of the array.
func (a *Array) Append(values ...Object) {
	a.items = append(a.items, values...)
}

func (a *Array) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.items)
}

// MaxArrayLength caps the number of items a script can put in one array.
const MaxArrayLength = 1 << 20

func NewArray(items []Object) *Array {
	return &Array{items: items}
}
