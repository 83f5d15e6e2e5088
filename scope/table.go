package scope

import (
	"sort"

	"github.com/opengm-go/gmvm/object"
)

// Table is an insertion-ordered set of named cells. It backs the global
// table, each instance's variables and each frame's locals.
type Table struct {
	cells map[string]*Cell
	order []string
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{cells: map[string]*Cell{}}
}

// NewTableFrom returns a table populated from the given values, in sorted
// name order.
func NewTableFrom(values map[string]object.Object) *Table {
	t := NewTable()
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t.Set(name, values[name])
	}
	return t
}

// Lookup returns the cell for name, if present.
func (t *Table) Lookup(name string) (*Cell, bool) {
	if t == nil {
		return nil, false
	}
	cell, ok := t.cells[name]
	return cell, ok
}

// Get returns the value of name, or undefined when it is absent.
func (t *Table) Get(name string) object.Object {
	if cell, ok := t.Lookup(name); ok {
		return cell.Value()
	}
	return object.Undefined
}

// Has reports whether name has a cell in this table.
func (t *Table) Has(name string) bool {
	_, ok := t.Lookup(name)
	return ok
}

// Set writes value to the cell for name, creating the cell if needed, and
// returns it.
func (t *Table) Set(name string, value object.Object) *Cell {
	if cell, ok := t.cells[name]; ok {
		cell.Set(value)
		return cell
	}
	cell := NewCell(name, value)
	t.cells[name] = cell
	t.order = append(t.order, name)
	return cell
}

// Declare creates an undefined cell for name if it does not exist yet.
func (t *Table) Declare(name string) *Cell {
	if cell, ok := t.cells[name]; ok {
		return cell
	}
	return t.Set(name, object.Undefined)
}

// Delete removes name from the table. It reports whether a cell existed.
func (t *Table) Delete(name string) bool {
	if _, ok := t.cells[name]; !ok {
		return false
	}
	delete(t.cells, name)
	for i, n := range t.order {
		if n == name {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

// Names returns the cell names in insertion order.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, len(t.order))
	copy(names, t.order)
	return names
}

// Len returns the number of cells.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// Snapshot returns a copy of the current values keyed by name.
func (t *Table) Snapshot() map[string]object.Object {
	result := make(map[string]object.Object, t.Len())
	for _, name := range t.Names() {
		result[name] = t.cells[name].Value()
	}
	return result
}
