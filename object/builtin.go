package object

import (
	"context"
	"fmt"

	"github.com/opengm-go/gmvm/errz"
	"github.com/opengm-go/gmvm/op"
)

var _ Callable = (*Builtin)(nil) // Ensure that *Builtin implements Callable

// BuiltinFunction holds the type of a built-in function. Arguments arrive in
// call order; a built-in validates its own argument count and kinds.
type BuiltinFunction func(ctx context.Context, args ...Object) (Object, error)

// Builtin wraps func and implements Object interface.
type Builtin struct {
	fn   BuiltinFunction
	name string
}

func (b *Builtin) IsTruthy() bool {
	return true
}

func (b *Builtin) Type() Type {
	return BUILTIN
}

func (b *Builtin) Value() BuiltinFunction {
	return b.fn
}

func (b *Builtin) Interface() interface{} {
	return nil
}

func (b *Builtin) Call(ctx context.Context, args ...Object) (Object, error) {
	return b.fn(ctx, args...)
}

func (b *Builtin) Inspect() string {
	return fmt.Sprintf("builtin(%s)", b.name)
}

func (b *Builtin) String() string {
	return b.Inspect()
}

func (b *Builtin) Name() string {
	return b.name
}

func (b *Builtin) Equals(other Object) bool {
	otherBuiltin, ok := other.(*Builtin)
	if !ok {
		return false
	}
	return b == otherBuiltin
}

func (b *Builtin) RunOperation(opType op.BinaryOpType, right Object) (Object, error) {
	return nil, errz.TypeErrorf("unsupported operation for builtin: %v", opType)
}

// NewNoopBuiltin creates a builtin function that has no effect.
func NewNoopBuiltin(name string) *Builtin {
	return &Builtin{
		fn: func(ctx context.Context, args ...Object) (Object, error) {
			return Undefined, nil
		},
		name: name,
	}
}

// NewBuiltin creates a new builtin function with the given name and function.
func NewBuiltin(name string, fn BuiltinFunction) *Builtin {
	return &Builtin{fn: fn, name: name}
}
