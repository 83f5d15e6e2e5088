package main

import (
	"fmt"

	"github.com/opengm-go/gmvm"
	"github.com/opengm-go/gmvm/builtins"
	"github.com/opengm-go/gmvm/vm"
)

// Returns the interpreter options selected by flags, environment and the
// config file.
func (a *app) interpreterOptions() []vm.Option {
	opts := []vm.Option{
		vm.WithLogger(a.logger),
		vm.WithMaxFrameDepth(a.v.GetInt("max-frame-depth")),
		vm.WithIterationBudget(a.v.GetInt64("iteration-budget")),
		vm.WithVerboseTrace(a.v.GetBool("verbose")),
	}
	var stubs []builtins.Option
	for _, name := range a.v.GetStringSlice("stub") {
		stubs = append(stubs, builtins.WithStub(name))
	}
	if len(stubs) > 0 {
		opts = append(opts, vm.WithBuiltins(stubs...))
	}
	if globals := a.v.GetStringMap("globals"); len(globals) > 0 {
		opts = append(opts, vm.WithGlobalValues(globals))
	}
	return opts
}

func (a *app) newInterpreter(path string) (*vm.Interpreter, error) {
	program, err := gmvm.Load(path)
	if err != nil {
		return nil, err
	}
	machine, err := vm.New(program, a.interpreterOptions()...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return machine, nil
}
