// Package object provides the dynamic value types manipulated by scripts.
//
// Every runtime value implements Object and is tagged by its Type. Scalars
// (*Int, *Real, *String, *Bool, *InstanceRef and the Undefined singleton) are
// immutable once constructed. *Array is a shared handle: copying the value
// copies the reference, not the elements.
//
// Host code usually type switches on a value:
//
//	switch v := obj.(type) {
//	case *object.Int:
//		// v.Value() is an int64
//	case *object.Real:
//		// v.Value() is a float64
//	}
//
// or converts it with the coercion helpers (ToNumber, AsInt, AsReal,
// AsString, AsBool), which apply the runtime's implicit conversion rules.
package object

import (
	"context"
	"fmt"

	"github.com/opengm-go/gmvm/op"
)

// Type of an object as a string. The values match what typeof() reports.
type Type string

// Type constants
const (
	ARRAY     Type = "array"
	BOOL      Type = "bool"
	BUILTIN   Type = "method"
	INSTANCE  Type = "ref"
	INT       Type = "int64"
	REAL      Type = "number"
	STRING    Type = "string"
	UNDEFINED Type = "undefined"
)

var (
	Undefined = &UndefinedType{}
	True      = &Bool{value: true}
	False     = &Bool{value: false}
)

// Object is the interface that all runtime values implement.
type Object interface {
	// Type of the object.
	Type() Type

	// Inspect returns a string representation of the given object.
	Inspect() string

	// Interface converts the given object to a native Go value.
	Interface() interface{}

	// Returns true if the given object is equal to this object.
	Equals(other Object) bool

	// IsTruthy returns true if the object is considered "truthy".
	IsTruthy() bool

	// RunOperation runs an operation on this object with the given
	// right-hand side object.
	RunOperation(opType op.BinaryOpType, right Object) (Object, error)
}

// Comparable is an interface used to compare two objects of compatible kinds.
//
//	-1 if this < other
//	 0 if this == other
//	 1 if this > other
type Comparable interface {
	Compare(other Object) (int, error)
}

// Callable is an interface for objects that can be invoked as functions.
type Callable interface {
	Call(ctx context.Context, args ...Object) (Object, error)
}

// PrintableValue returns a value that should be used when printing an object.
func PrintableValue(obj Object) interface{} {
	switch obj := obj.(type) {
	case *String, *Int, *Real, *Bool:
		return obj.Interface()
	}
	switch obj := obj.(type) {
	case fmt.Stringer:
		return obj.String()
	default:
		return obj.Inspect()
	}
}

// IsNumeric reports whether obj takes part in arithmetic as a number.
func IsNumeric(obj Object) bool {
	switch obj.(type) {
	case *Int, *Real, *Bool:
		return true
	}
	return false
}
