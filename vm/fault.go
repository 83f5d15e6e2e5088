package vm

import (
	"fmt"

	"github.com/opengm-go/gmvm/errz"
	"github.com/opengm-go/gmvm/object"
)

// Fault describes an invocation that ended with an unhandled error.
type Fault struct {
	Script string
	Offset int
	Kind   errz.ErrorKind
	Depth  int // frame depth when the fault was raised
	Err    *errz.StructuredError
}

func (f *Fault) Error() string {
	return fmt.Sprintf("fault in %s+%d: %s", f.Script, f.Offset, f.Err.Error())
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// IsFatal reports whether the fault came from a fatal error kind.
func (f *Fault) IsFatal() bool {
	return f.Kind.IsFatal()
}

// thrown carries the value raised by THROW so that a handler receives the
// original value rather than its message.
type thrown struct {
	value object.Object
}

func (t *thrown) Error() string {
	return object.AsString(t.value)
}
