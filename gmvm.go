// Package gmvm runs GameMaker-style bytecode programs.
//
// Most hosts only need Eval or Run:
//
//	result, err := gmvm.Eval(ctx, "push 2; push 3; add; return")
//
// Hosts that drive a program over many ticks create an interpreter with New
// and call its Step method once per frame.
package gmvm

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/opengm-go/gmvm/bytecode"
	"github.com/opengm-go/gmvm/object"
	"github.com/opengm-go/gmvm/vm"
	"github.com/rs/zerolog"
)

// DefaultEntry is the script name used by Compile and Eval.
const DefaultEntry = "main"

// Option configures a compilation or execution.
type Option func(*options)

type options struct {
	globals  map[string]any
	entry    string
	params   []string
	observer vm.Observer
	logger   *zerolog.Logger
	extra    []vm.Option
}

func collectOptions(opts ...Option) *options {
	o := &options{globals: map[string]any{}, entry: DefaultEntry}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *options) vmOpts() []vm.Option {
	var opts []vm.Option
	if len(o.globals) > 0 {
		opts = append(opts, vm.WithGlobalValues(o.globals))
	}
	if o.observer != nil {
		opts = append(opts, vm.WithObserver(o.observer))
	}
	if o.logger != nil {
		opts = append(opts, vm.WithLogger(*o.logger))
	}
	return append(opts, o.extra...)
}

// WithGlobals provides global variables visible to every script. This
// option is additive; if the same name is supplied more than once, the
// last value wins. Program globals of the same name are overridden.
func WithGlobals(globals map[string]any) Option {
	return func(o *options) {
		maps.Copy(o.globals, globals)
	}
}

// WithGlobal provides a single global variable.
func WithGlobal(name string, value any) Option {
	return func(o *options) {
		o.globals[name] = value
	}
}

// WithEntry names the script that Compile produces and that Run invokes.
func WithEntry(name string) Option {
	return func(o *options) {
		o.entry = name
	}
}

// WithParams sets the parameter names of the script built by Compile.
func WithParams(params ...string) Option {
	return func(o *options) {
		o.params = params
	}
}

// WithObserver sets an observer for execution events.
func WithObserver(observer vm.Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// WithLogger sets the logger used by the interpreter.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &logger
	}
}

// WithInterpreterOptions passes options through to the interpreter.
func WithInterpreterOptions(opts ...vm.Option) Option {
	return func(o *options) {
		o.extra = append(o.extra, opts...)
	}
}

// Compile assembles source text into a program holding a single script.
// The returned Program is immutable and safe for concurrent use.
func Compile(source string, opts ...Option) (*bytecode.Program, error) {
	o := collectOptions(opts...)
	code, err := bytecode.Assemble(o.entry, o.params, source)
	if err != nil {
		return nil, err
	}
	return bytecode.NewProgram(bytecode.ProgramParams{
		Name:    o.entry,
		Scripts: []*bytecode.Code{code},
	}), nil
}

// Load reads a program file. Files ending in .cbor or .gmb hold the binary
// encoding; everything else is parsed as YAML.
func Load(path string) (*bytecode.Program, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cbor", ".gmb":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		program, err := bytecode.UnmarshalCBOR(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return program, nil
	default:
		return bytecode.LoadYAML(path)
	}
}

// New creates an interpreter for the program. The interpreter keeps its
// globals and instances across calls.
func New(program *bytecode.Program, opts ...Option) (*vm.Interpreter, error) {
	return vm.New(program, collectOptions(opts...).vmOpts()...)
}

// Run invokes the program's entry script with fresh runtime state and
// returns the result as a native Go value. Undefined becomes nil.
func Run(ctx context.Context, program *bytecode.Program, opts ...Option) (any, error) {
	o := collectOptions(opts...)
	result, err := vm.Run(ctx, program, o.entry, o.vmOpts()...)
	if err != nil {
		return nil, err
	}
	if object.IsUndefined(result) {
		return nil, nil
	}
	return result.Interface(), nil
}

// Eval is a convenience function that compiles and runs source text.
func Eval(ctx context.Context, source string, opts ...Option) (any, error) {
	program, err := Compile(source, opts...)
	if err != nil {
		return nil, err
	}
	return Run(ctx, program, opts...)
}
