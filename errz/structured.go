package errz

import (
	"bytes"
	"errors"
	"fmt"
)

// ErrorKind represents the category of an error.
type ErrorKind int

const (
	// ErrRuntime indicates a general runtime error.
	ErrRuntime ErrorKind = iota
	// ErrTypeCoercion indicates a string had no numeric prefix to parse.
	ErrTypeCoercion
	// ErrType indicates an operation applied to operands of the wrong kind.
	ErrType
	// ErrArgs indicates a built-in rejected its argument count.
	ErrArgs
	// ErrStackUnderflow indicates evaluation stack misuse. Always fatal.
	ErrStackUnderflow
	// ErrRecursionLimit indicates the call frame stack is full.
	ErrRecursionLimit
	// ErrUnknownFunction indicates a call to a name with no script or built-in.
	ErrUnknownFunction
	// ErrThrown indicates a value raised by a THROW instruction.
	ErrThrown
	// ErrHalted indicates execution was stopped by a halt signal.
	ErrHalted
	// ErrBudget indicates the instruction budget of an invocation ran out.
	ErrBudget
	// ErrInternal indicates malformed bytecode or a broken interpreter invariant.
	ErrInternal
)

// String returns the string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrRuntime:
		return "runtime error"
	case ErrTypeCoercion:
		return "type coercion error"
	case ErrType:
		return "type error"
	case ErrArgs:
		return "args error"
	case ErrStackUnderflow:
		return "stack underflow error"
	case ErrRecursionLimit:
		return "recursion limit error"
	case ErrUnknownFunction:
		return "unknown function error"
	case ErrThrown:
		return "thrown error"
	case ErrHalted:
		return "halted"
	case ErrBudget:
		return "iteration budget error"
	case ErrInternal:
		return "internal error"
	default:
		return "error"
	}
}

// IsFatal reports whether errors of this kind end the whole run rather than
// only the frame that raised them.
func (k ErrorKind) IsFatal() bool {
	switch k {
	case ErrStackUnderflow, ErrBudget, ErrInternal:
		return true
	default:
		return false
	}
}

// IsCatchable reports whether a script-level handler may intercept errors of
// this kind.
func (k ErrorKind) IsCatchable() bool {
	return !k.IsFatal() && k != ErrHalted
}

// StructuredError is a runtime error annotated with the identity of the
// script and instruction offset that raised it, and the call stack at the
// time it was raised.
type StructuredError struct {
	Message string
	Kind    ErrorKind
	Script  string
	Offset  int
	Stack   []StackFrame
	Cause   error
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Script == "" {
		return fmt.Sprintf("%s: %s", e.Kind.String(), e.Message)
	}
	return fmt.Sprintf("%s: %s (%s+%d)", e.Kind.String(), e.Message, e.Script, e.Offset)
}

// Unwrap returns the underlying cause of the error.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// Is matches any StructuredError target of the same kind that carries no
// message, so kind sentinels work with errors.Is.
func (e *StructuredError) Is(target error) bool {
	t, ok := target.(*StructuredError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == ""
}

// IsFatal returns whether the error is considered fatal (unrecoverable).
func (e *StructuredError) IsFatal() bool {
	return e.Kind.IsFatal()
}

// FriendlyErrorMessage returns the error with its stack trace appended.
func (e *StructuredError) FriendlyErrorMessage() string {
	var msg bytes.Buffer
	msg.WriteString(e.Error())
	msg.WriteString("\n")
	if len(e.Stack) > 0 {
		msg.WriteString("\n")
		msg.WriteString(FormatStackTrace(e.Stack))
	}
	return msg.String()
}

// WithCause wraps the error with a cause.
func (e *StructuredError) WithCause(cause error) *StructuredError {
	e.Cause = cause
	return e
}

// WithLocation records the script and instruction offset that raised the
// error, unless they were already recorded.
func (e *StructuredError) WithLocation(script string, offset int, stack []StackFrame) *StructuredError {
	if e.Script == "" {
		e.Script = script
		e.Offset = offset
	}
	if e.Stack == nil {
		e.Stack = stack
	}
	return e
}

// New creates a new StructuredError with the given kind and message.
func New(kind ErrorKind, message string) *StructuredError {
	return &StructuredError{Kind: kind, Message: message}
}

// Newf creates a new StructuredError with a formatted message.
func Newf(kind ErrorKind, format string, args ...any) *StructuredError {
	return &StructuredError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first StructuredError in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var se *StructuredError
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return 0, false
}

// IsKind reports whether err's chain contains a StructuredError of the kind.
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
