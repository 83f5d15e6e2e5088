package vm

import (
	"github.com/opengm-go/gmvm/builtins"
	"github.com/opengm-go/gmvm/input"
	"github.com/opengm-go/gmvm/instance"
	"github.com/opengm-go/gmvm/scene"
	"github.com/opengm-go/gmvm/scope"
	"github.com/rs/zerolog"
)

// Option is a configuration function for an Interpreter.
type Option func(*Interpreter)

// WithLogger sets the logger used for faults, warnings and the verbose
// trace. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(vm *Interpreter) {
		vm.logger = logger
	}
}

// WithGlobals provides the global variable table. The interpreter reads and
// writes the table in place, so the host observes every change.
func WithGlobals(globals *scope.Table) Option {
	return func(vm *Interpreter) {
		vm.globals = globals
	}
}

// WithGlobalValues provides initial global variables as Go values.
func WithGlobalValues(globals map[string]any) Option {
	return func(vm *Interpreter) {
		for name, value := range globals {
			vm.inputGlobals[name] = value
		}
	}
}

// WithRegistry sets the built-in registry. When not set, the default
// library is built against the interpreter's instances, input and scene.
func WithRegistry(registry *builtins.Registry) Option {
	return func(vm *Interpreter) {
		vm.registry = registry
	}
}

// WithBuiltins adds options applied to the default registry.
func WithBuiltins(opts ...builtins.Option) Option {
	return func(vm *Interpreter) {
		vm.builtinOpts = append(vm.builtinOpts, opts...)
	}
}

// WithInstances sets the instance directory.
func WithInstances(dir *instance.Directory) Option {
	return func(vm *Interpreter) {
		vm.instances = dir
	}
}

// WithInput sets the input snapshot read by the input built-ins.
func WithInput(snapshot *input.Snapshot) Option {
	return func(vm *Interpreter) {
		vm.input = snapshot
	}
}

// WithScene sets the layer directory read by the debug built-ins.
func WithScene(dir *scene.Directory) Option {
	return func(vm *Interpreter) {
		vm.scene = dir
	}
}

// WithMaxFrameDepth sets the call depth limit. The default is
// DefaultMaxFrameDepth.
func WithMaxFrameDepth(depth int) Option {
	return func(vm *Interpreter) {
		vm.maxFrameDepth = depth
	}
}

// WithIterationBudget caps the number of instructions a single invocation
// may execute. Zero means no limit.
func WithIterationBudget(budget int64) Option {
	return func(vm *Interpreter) {
		vm.budget = budget
	}
}

// WithVerboseTrace enables the per-instruction trace log.
func WithVerboseTrace(verbose bool) Option {
	return func(vm *Interpreter) {
		vm.verbose.Store(verbose)
	}
}

// WithContextCheckInterval sets how often the interpreter checks ctx.Done()
// during execution, in number of instructions. A value of 0 disables the
// check. The default is DefaultContextCheckInterval.
func WithContextCheckInterval(interval int) Option {
	return func(vm *Interpreter) {
		vm.contextCheckInterval = interval
	}
}

// WithObserver sets an observer for execution events.
// The observer receives callbacks for instruction steps, calls and returns.
// Returning false from any observer method halts execution immediately.
func WithObserver(observer Observer) Option {
	return func(vm *Interpreter) {
		vm.observer = observer
	}
}
