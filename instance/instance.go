// Package instance is a minimal in-memory instance directory: enough of a
// game-object store for scripts to read and write instance variables.
package instance

import (
	"sort"

	"github.com/opengm-go/gmvm/object"
	"github.com/opengm-go/gmvm/scope"
)

// FirstID is the id given to the first instance created in a directory.
const FirstID int64 = 100000

// Instance is one live game object.
type Instance struct {
	id        int64
	object    string
	variables *scope.Table
}

func (i *Instance) ID() int64 {
	return i.id
}

// Object returns the name of the object the instance was created from.
func (i *Instance) Object() string {
	return i.object
}

func (i *Instance) Variables() *scope.Table {
	return i.variables
}

// Ref returns a script value referring to this instance.
func (i *Instance) Ref() *object.InstanceRef {
	return object.NewInstanceRef(i.id)
}

// Directory owns the live instances of a run.
type Directory struct {
	instances map[int64]*Instance
	nextID    int64
}

func NewDirectory() *Directory {
	return &Directory{instances: map[int64]*Instance{}, nextID: FirstID}
}

// Create adds a new instance of the named object, with optional initial
// variables.
func (d *Directory) Create(objectName string, vars map[string]object.Object) *Instance {
	inst := &Instance{
		id:        d.nextID,
		object:    objectName,
		variables: scope.NewTableFrom(vars),
	}
	d.nextID++
	d.instances[inst.id] = inst
	return inst
}

// Destroy removes an instance. It reports whether the instance existed.
func (d *Directory) Destroy(id int64) bool {
	if _, ok := d.instances[id]; !ok {
		return false
	}
	delete(d.instances, id)
	return true
}

// Lookup returns the instance with the given id.
func (d *Directory) Lookup(id int64) (scope.Instance, bool) {
	inst, ok := d.instances[id]
	if !ok {
		return nil, false
	}
	return inst, true
}

// Get is Lookup returning the concrete type.
func (d *Directory) Get(id int64) (*Instance, bool) {
	inst, ok := d.instances[id]
	return inst, ok
}

func (d *Directory) Exists(id int64) bool {
	_, ok := d.instances[id]
	return ok
}

// Count returns the number of live instances.
func (d *Directory) Count() int {
	return len(d.instances)
}

// CountOf returns the number of live instances of the named object.
func (d *Directory) CountOf(objectName string) int {
	count := 0
	for _, inst := range d.instances {
		if inst.object == objectName {
			count++
		}
	}
	return count
}

// All returns every live instance in id order.
func (d *Directory) All() []scope.Instance {
	ids := make([]int64, 0, len(d.instances))
	for id := range d.instances {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	result := make([]scope.Instance, 0, len(ids))
	for _, id := range ids {
		result = append(result, d.instances[id])
	}
	return result
}
