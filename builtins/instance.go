package builtins

import (
	"context"

	"github.com/opengm-go/gmvm/errz"
	"github.com/opengm-go/gmvm/object"
	"github.com/opengm-go/gmvm/scope"
)

// InstanceDirectory is the host's store of live instances.
type InstanceDirectory interface {
	Lookup(id int64) (scope.Instance, bool)
	Exists(id int64) bool
	Count() int
	CountOf(objectName string) int
	All() []scope.Instance
}

type emptyDirectory struct{}

func (emptyDirectory) Lookup(id int64) (scope.Instance, bool) { return nil, false }
func (emptyDirectory) Exists(id int64) bool                   { return false }
func (emptyDirectory) Count() int                             { return 0 }
func (emptyDirectory) CountOf(objectName string) int          { return 0 }
func (emptyDirectory) All() []scope.Instance                  { return nil }

type instanceFuncs struct {
	dir InstanceDirectory
}

// resolve maps an instance argument to an instance. The reserved ids self
// and other resolve against the caller's scope.
func (f *instanceFuncs) resolve(ctx context.Context, arg object.Object) (scope.Instance, bool, error) {
	var id int64
	switch arg := arg.(type) {
	case *object.InstanceRef:
		id = arg.ID()
	default:
		value, err := object.AsInt(arg)
		if err != nil {
			return nil, false, err
		}
		id = value
	}
	s, _ := GetScope(ctx)
	switch id {
	case object.SelfID:
		return s.Self, s.Self != nil, nil
	case object.OtherID:
		return s.Other, s.Other != nil, nil
	}
	inst, ok := f.dir.Lookup(id)
	return inst, ok, nil
}

func (f *instanceFuncs) exists(ctx context.Context, args ...object.Object) (object.Object, error) {
	if name, ok := args[0].(*object.String); ok {
		return object.NewBool(f.dir.CountOf(name.Value()) > 0), nil
	}
	_, ok, err := f.resolve(ctx, args[0])
	if err != nil {
		return nil, err
	}
	return object.NewBool(ok), nil
}

func (f *instanceFuncs) number(ctx context.Context, args ...object.Object) (object.Object, error) {
	if name, ok := args[0].(*object.String); ok {
		return object.NewInt(int64(f.dir.CountOf(name.Value()))), nil
	}
	id, err := object.AsInt(args[0])
	if err != nil {
		return nil, err
	}
	if id == object.AllID {
		return object.NewInt(int64(f.dir.Count())), nil
	}
	return object.NewInt(0), nil
}

func (f *instanceFuncs) instanceGet(ctx context.Context, args ...object.Object) (object.Object, error) {
	name, err := stringArg("variable_instance_get", args, 1)
	if err != nil {
		return nil, err
	}
	inst, ok, err := f.resolve(ctx, args[0])
	if err != nil {
		return nil, err
	}
	if !ok {
		return object.Undefined, nil
	}
	return inst.Variables().Get(name), nil
}

func (f *instanceFuncs) instanceSet(ctx context.Context, args ...object.Object) (object.Object, error) {
	name, err := stringArg("variable_instance_set", args, 1)
	if err != nil {
		return nil, err
	}
	inst, ok, err := f.resolve(ctx, args[0])
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errz.RuntimeErrorf("variable_instance_set(): instance %s does not exist", args[0].Inspect())
	}
	inst.Variables().Set(name, args[2])
	return object.Undefined, nil
}

func globalsFrom(ctx context.Context, fn string) (*scope.Table, error) {
	s, ok := GetScope(ctx)
	if !ok || s.Globals == nil {
		return nil, errz.InternalErrorf("%s(): no global table in scope", fn)
	}
	return s.Globals, nil
}

func VariableGlobalExists(ctx context.Context, args ...object.Object) (object.Object, error) {
	name, err := stringArg("variable_global_exists", args, 0)
	if err != nil {
		return nil, err
	}
	globals, err := globalsFrom(ctx, "variable_global_exists")
	if err != nil {
		return nil, err
	}
	return object.NewBool(globals.Has(name)), nil
}

func VariableGlobalGet(ctx context.Context, args ...object.Object) (object.Object, error) {
	name, err := stringArg("variable_global_get", args, 0)
	if err != nil {
		return nil, err
	}
	globals, err := globalsFrom(ctx, "variable_global_get")
	if err != nil {
		return nil, err
	}
	return globals.Get(name), nil
}

func VariableGlobalSet(ctx context.Context, args ...object.Object) (object.Object, error) {
	name, err := stringArg("variable_global_set", args, 0)
	if err != nil {
		return nil, err
	}
	globals, err := globalsFrom(ctx, "variable_global_set")
	if err != nil {
		return nil, err
	}
	globals.Set(name, args[1])
	return object.Undefined, nil
}

func registerInstance(r *Registry, dir InstanceDirectory) {
	f := &instanceFuncs{dir: dir}
	r.MustRegister("instance_exists", f.exists, Arity(1, 1), Doc("True if the instance or an instance of the object exists", "id"))
	r.MustRegister("instance_number", f.number, Arity(1, 1), Doc("Number of instances of an object, or of all", "object"))
	r.MustRegister("variable_instance_get", f.instanceGet, Arity(2, 2), Doc("Read an instance variable", "id", "name"))
	r.MustRegister("variable_instance_set", f.instanceSet, Arity(3, 3), Doc("Write an instance variable", "id", "name", "value"))
	r.MustRegister("variable_global_exists", VariableGlobalExists, Arity(1, 1), Doc("True if the global is defined", "name"))
	r.MustRegister("variable_global_get", VariableGlobalGet, Arity(1, 1), Doc("Read a global", "name"))
	r.MustRegister("variable_global_set", VariableGlobalSet, Arity(2, 2), Doc("Write a global", "name", "value"))
}
