package vm

import (
	"context"
	"time"

	"github.com/opengm-go/gmvm/bytecode"
	"github.com/opengm-go/gmvm/object"
)

// Run creates an Interpreter for the program and invokes the entry script
// once with no self instance.
func Run(ctx context.Context, program *bytecode.Program, entry string, options ...Option) (object.Object, error) {
	machine, err := New(program, options...)
	if err != nil {
		return nil, err
	}
	return machine.InvokeEntryPoint(ctx, entry)
}

// RunTicks creates an Interpreter for the program and runs ticks steps with
// a fixed delta. Faults of individual ticks are collected in the returned
// error; the interpreter is returned so callers can inspect its state.
func RunTicks(ctx context.Context, program *bytecode.Program, ticks int, delta time.Duration, options ...Option) (*Interpreter, error) {
	machine, err := New(program, options...)
	if err != nil {
		return nil, err
	}
	var lastErr error
	for i := 0; i < ticks; i++ {
		if err := ctx.Err(); err != nil {
			return machine, err
		}
		if err := machine.Step(ctx, delta); err != nil {
			lastErr = err
			if machine.LastFault() != nil && machine.LastFault().Kind.IsFatal() {
				return machine, err
			}
		}
	}
	return machine, lastErr
}
