// Package errz defines the runtime error taxonomy of the interpreter.
//
// Every error raised while executing bytecode is a *StructuredError whose Kind
// decides how it propagates: catchable kinds unwind one frame at a time until
// a script-level handler takes them, fatal kinds end the run. Unresolved
// variable reads are not errors at all; they yield undefined.
package errz

import (
	"fmt"
	"strings"
)

// Kind sentinels for use with errors.Is.
var (
	TypeCoercionError    = &StructuredError{Kind: ErrTypeCoercion}
	StackUnderflowError  = &StructuredError{Kind: ErrStackUnderflow}
	RecursionLimitError  = &StructuredError{Kind: ErrRecursionLimit}
	UnknownFunctionError = &StructuredError{Kind: ErrUnknownFunction}
	HaltedError          = &StructuredError{Kind: ErrHalted}
	BudgetError          = &StructuredError{Kind: ErrBudget}
)

// StackFrame represents a single frame in the call stack.
type StackFrame struct {
	Script string
	Offset int
}

// String returns a formatted string representation of the stack frame.
func (f StackFrame) String() string {
	return fmt.Sprintf("at %s+%d", f.Script, f.Offset)
}

// FormatStackTrace formats a slice of stack frames as a human-readable string.
func FormatStackTrace(frames []StackFrame) string {
	if len(frames) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Stack trace:\n")
	for _, frame := range frames {
		b.WriteString("  ")
		b.WriteString(frame.String())
		b.WriteString("\n")
	}
	return b.String()
}

// FatalError is an interface for errors that may or may not be fatal.
type FatalError interface {
	Error() string
	IsFatal() bool
}

// TypeCoercionf returns a type coercion error.
func TypeCoercionf(format string, args ...any) *StructuredError {
	return Newf(ErrTypeCoercion, format, args...)
}

// TypeErrorf returns a type error.
func TypeErrorf(format string, args ...any) *StructuredError {
	return Newf(ErrType, format, args...)
}

// ArgsErrorf returns an arguments error.
func ArgsErrorf(format string, args ...any) *StructuredError {
	return Newf(ErrArgs, format, args...)
}

// RuntimeErrorf returns a general runtime error.
func RuntimeErrorf(format string, args ...any) *StructuredError {
	return Newf(ErrRuntime, format, args...)
}

// InternalErrorf returns a fatal internal error.
func InternalErrorf(format string, args ...any) *StructuredError {
	return Newf(ErrInternal, format, args...)
}

// StackUnderflow returns the fatal error raised on an empty evaluation stack.
func StackUnderflow(op string) *StructuredError {
	return Newf(ErrStackUnderflow, "%s: evaluation stack is empty", op)
}

// RecursionLimit returns the error raised when the frame stack is full.
func RecursionLimit(limit int) *StructuredError {
	return Newf(ErrRecursionLimit, "call depth limit of %d exceeded", limit)
}

// UnknownFunction returns the error raised when a call target does not exist.
func UnknownFunction(name string) *StructuredError {
	return Newf(ErrUnknownFunction, "function %q is not defined", name)
}
