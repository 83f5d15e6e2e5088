package scope

import (
	"fmt"

	"github.com/opengm-go/gmvm/object"
)

// Cell is a named mutable slot holding one value. Cells are shared by
// pointer, so a resolved cell can be written without a second lookup.
type Cell struct {
	name  string
	value object.Object
}

// NewCell returns a cell holding value. A nil value is stored as undefined.
func NewCell(name string, value object.Object) *Cell {
	if value == nil {
		value = object.Undefined
	}
	return &Cell{name: name, value: value}
}

func (c *Cell) Name() string {
	return c.name
}

func (c *Cell) Value() object.Object {
	return c.value
}

func (c *Cell) Set(value object.Object) {
	if value == nil {
		value = object.Undefined
	}
	c.value = value
}

func (c *Cell) String() string {
	return fmt.Sprintf("cell(%s=%s)", c.name, c.value.Inspect())
}
