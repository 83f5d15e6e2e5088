// Package builtins holds the registry of host functions callable from
// bytecode, and the default function library.
//
// A registry is built once, frozen, and then only read. Built-ins receive
// the caller's scope and logger through the context: use GetScope and
// LoggerFrom.
package builtins

import (
	"github.com/opengm-go/gmvm/input"
	"github.com/opengm-go/gmvm/object"
	"github.com/opengm-go/gmvm/scene"
	"github.com/rs/zerolog"
)

// Env holds the host collaborators the default library reads from. Nil
// fields are replaced with empty stand-ins.
type Env struct {
	Instances InstanceDirectory
	Input     *input.Snapshot
	Scene     *scene.Directory
}

// Option customizes the registry built by Default.
type Option func(*Registry)

// WithFunction registers an additional host function.
func WithFunction(name string, fn object.BuiltinFunction, opts ...EntryOption) Option {
	return func(r *Registry) {
		r.MustRegister(name, fn, opts...)
	}
}

// WithStub registers a recognized but unimplemented function that returns
// undefined.
func WithStub(name string) Option {
	return func(r *Registry) {
		r.MustRegister(name, nil, Stub(object.Undefined))
	}
}

// Default returns a frozen registry holding the standard library.
func Default(env Env, opts ...Option) *Registry {
	if env.Instances == nil {
		env.Instances = emptyDirectory{}
	}
	if env.Input == nil {
		env.Input = input.NewSnapshot(zerolog.Nop())
	}
	if env.Scene == nil {
		env.Scene = scene.NewDirectory()
	}
	r := NewRegistry()
	registerCore(r)
	registerInstance(r, env.Instances)
	registerInput(r, env.Input)
	registerDebug(r, env.Scene, env.Instances)
	for _, opt := range opts {
		opt(r)
	}
	r.Freeze()
	return r
}
