package builtins

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/opengm-go/gmvm/errz"
	"github.com/opengm-go/gmvm/object"
)

// Flags describe how an entry behaves when invoked.
type Flags uint8

const (
	FlagNone Flags = 0
	// FlagStub marks a function that is recognized but not implemented. It
	// returns its placeholder without side effects.
	FlagStub Flags = 1 << iota
	// FlagVariadic marks a function with no upper bound on its arguments.
	FlagVariadic
)

func (f Flags) String() string {
	switch {
	case f&FlagStub != 0 && f&FlagVariadic != 0:
		return "stub,variadic"
	case f&FlagStub != 0:
		return "stub"
	case f&FlagVariadic != 0:
		return "variadic"
	default:
		return "none"
	}
}

// Entry is one registered built-in function.
type Entry struct {
	Name        string
	Fn          object.BuiltinFunction
	Flags       Flags
	MinArgs     int
	MaxArgs     int
	Doc         string
	Args        []string
	Placeholder object.Object
}

// IsStub reports whether the entry is a stub.
func (e *Entry) IsStub() bool {
	return e.Flags&FlagStub != 0
}

// Builtin wraps the entry as a callable script value.
func (e *Entry) Builtin() *object.Builtin {
	return object.NewBuiltin(e.Name, e.Fn)
}

func (e *Entry) checkArgs(args []object.Object) error {
	if e.MaxArgs >= 0 && e.MinArgs == e.MaxArgs {
		return object.Require(e.Name, e.MinArgs, args)
	}
	return object.RequireRange(e.Name, e.MinArgs, e.MaxArgs, args)
}

// EntryOption configures an entry at registration.
type EntryOption func(*Entry)

// Arity bounds the number of arguments. A negative max means no upper bound.
func Arity(min, max int) EntryOption {
	return func(e *Entry) {
		e.MinArgs = min
		e.MaxArgs = max
		if max < 0 {
			e.Flags |= FlagVariadic
		} else {
			e.Flags &^= FlagVariadic
		}
	}
}

// Stub marks the entry as a stub returning placeholder.
func Stub(placeholder object.Object) EntryOption {
	return func(e *Entry) {
		e.Flags |= FlagStub
		e.Placeholder = placeholder
	}
}

// Doc attaches a one-line description and argument names.
func Doc(doc string, args ...string) EntryOption {
	return func(e *Entry) {
		e.Doc = doc
		e.Args = args
	}
}

// Registry maps function names to entries. Names are case-sensitive. Once
// frozen a registry is read-only and safe to share between interpreters.
type Registry struct {
	entries   map[string]*Entry
	frozen    bool
	stubsSeen sync.Map
}

func NewRegistry() *Registry {
	return &Registry{entries: map[string]*Entry{}}
}

// Register adds a function. Registering a duplicate name, or registering
// after Freeze, is an error.
func (r *Registry) Register(name string, fn object.BuiltinFunction, opts ...EntryOption) error {
	if r.frozen {
		return fmt.Errorf("registry is frozen: unable to register %q", name)
	}
	if name == "" {
		return fmt.Errorf("builtin name must not be empty")
	}
	if _, exists := r.entries[name]; exists {
		return fmt.Errorf("builtin %q is already registered", name)
	}
	entry := &Entry{Name: name, Fn: fn, MaxArgs: -1, Flags: FlagVariadic}
	for _, opt := range opts {
		opt(entry)
	}
	if entry.Fn == nil {
		if !entry.IsStub() {
			return fmt.Errorf("builtin %q has no function", name)
		}
		placeholder := entry.Placeholder
		entry.Fn = func(ctx context.Context, args ...object.Object) (object.Object, error) {
			return placeholder, nil
		}
	}
	if entry.Placeholder == nil {
		entry.Placeholder = object.Undefined
	}
	r.entries[name] = entry
	return nil
}

// MustRegister is Register that panics on error.
func (r *Registry) MustRegister(name string, fn object.BuiltinFunction, opts ...EntryOption) {
	if err := r.Register(name, fn, opts...); err != nil {
		panic(err)
	}
}

// Freeze makes the registry read-only.
func (r *Registry) Freeze() {
	r.frozen = true
}

func (r *Registry) Frozen() bool {
	return r.frozen
}

// Lookup returns the entry registered under name.
func (r *Registry) Lookup(name string) (*Entry, bool) {
	entry, ok := r.entries[name]
	return entry, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Len() int {
	return len(r.entries)
}

// Invoke calls the function registered under name. Unknown names yield an
// unknown function error and argument counts outside the entry's arity
// yield an args error. Stubs log once per name and return their
// placeholder.
func (r *Registry) Invoke(ctx context.Context, name string, args []object.Object) (object.Object, error) {
	entry, ok := r.entries[name]
	if !ok {
		return nil, errz.UnknownFunction(name)
	}
	if err := entry.checkArgs(args); err != nil {
		return nil, err
	}
	if entry.IsStub() {
		if _, seen := r.stubsSeen.LoadOrStore(name, true); !seen {
			LoggerFrom(ctx).Debug().Str("function", name).Msg("stub builtin called")
		}
		return entry.Placeholder, nil
	}
	result, err := entry.Fn(ctx, args...)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return object.Undefined, nil
	}
	return result, nil
}
