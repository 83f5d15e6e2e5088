// Package scope resolves variable names against the three storage tiers a
// running script can see: the locals of its frame, the variables of its
// self instance and the global table.
//
// Reads of names that resolve nowhere yield undefined rather than an error.
// Writes to such names create a local when a frame is active and a global
// otherwise.
package scope

import (
	"github.com/opengm-go/gmvm/errz"
	"github.com/opengm-go/gmvm/object"
)

// Tier identifies where a name resolved.
type Tier int

const (
	TierNone Tier = iota
	TierLocal
	TierInstance
	TierGlobal
)

func (t Tier) String() string {
	switch t {
	case TierLocal:
		return "local"
	case TierInstance:
		return "instance"
	case TierGlobal:
		return "global"
	default:
		return "none"
	}
}

// Instance is a game object whose variables are visible to scripts running
// with it as self.
type Instance interface {
	ID() int64
	Variables() *Table
}

// Context is the set of tables visible at one point of execution. Locals is
// nil for top-level (host) access. Self is nil when no instance is bound.
type Context struct {
	Locals  *Table
	Self    Instance
	Globals *Table
}

// Resolver implements the lookup order local, then instance, then global.
type Resolver struct{}

// Resolve returns the first cell named name in lookup order.
func (Resolver) Resolve(name string, ctx Context) (*Cell, Tier, bool) {
	if cell, ok := ctx.Locals.Lookup(name); ok {
		return cell, TierLocal, true
	}
	if ctx.Self != nil {
		if cell, ok := ctx.Self.Variables().Lookup(name); ok {
			return cell, TierInstance, true
		}
	}
	if cell, ok := ctx.Globals.Lookup(name); ok {
		return cell, TierGlobal, true
	}
	return nil, TierNone, false
}

// Load returns the value of name, or undefined when it resolves nowhere.
func (r Resolver) Load(name string, ctx Context) object.Object {
	if cell, _, ok := r.Resolve(name, ctx); ok {
		return cell.Value()
	}
	return object.Undefined
}

// Store writes value to the cell name resolves to. An unresolved name
// becomes a new local when ctx has a locals table and a new global
// otherwise. The tier written is returned.
func (r Resolver) Store(name string, value object.Object, ctx Context) (Tier, error) {
	if cell, tier, ok := r.Resolve(name, ctx); ok {
		cell.Set(value)
		return tier, nil
	}
	if ctx.Locals != nil {
		ctx.Locals.Set(name, value)
		return TierLocal, nil
	}
	if ctx.Globals == nil {
		return TierNone, errz.InternalErrorf("no table available to store %q", name)
	}
	ctx.Globals.Set(name, value)
	return TierGlobal, nil
}

// DeclareLocal creates an undefined local named name unless one exists.
func (Resolver) DeclareLocal(name string, ctx Context) error {
	if ctx.Locals == nil {
		return errz.InternalErrorf("local %q declared outside of a frame", name)
	}
	ctx.Locals.Declare(name)
	return nil
}

// LoadLocal reads a frame local, bypassing the other tiers.
func (Resolver) LoadLocal(name string, ctx Context) object.Object {
	return ctx.Locals.Get(name)
}

// StoreLocal writes a frame local, bypassing the other tiers.
func (r Resolver) StoreLocal(name string, value object.Object, ctx Context) error {
	if ctx.Locals == nil {
		return errz.InternalErrorf("local %q written outside of a frame", name)
	}
	ctx.Locals.Set(name, value)
	return nil
}

// LoadGlobal reads the global table, bypassing the other tiers.
func (Resolver) LoadGlobal(name string, ctx Context) object.Object {
	return ctx.Globals.Get(name)
}

// StoreGlobal writes the global table, bypassing the other tiers.
func (Resolver) StoreGlobal(name string, value object.Object, ctx Context) error {
	if ctx.Globals == nil {
		return errz.InternalErrorf("no global table to store %q", name)
	}
	ctx.Globals.Set(name, value)
	return nil
}

// LoadInstance reads a variable of inst. A nil instance reads as undefined.
func (Resolver) LoadInstance(inst Instance, name string) object.Object {
	if inst == nil {
		return object.Undefined
	}
	return inst.Variables().Get(name)
}

// StoreInstance writes a variable of inst.
func (Resolver) StoreInstance(inst Instance, name string, value object.Object) error {
	if inst == nil {
		return errz.RuntimeErrorf("unable to set %q: no instance in scope", name)
	}
	inst.Variables().Set(name, value)
	return nil
}
