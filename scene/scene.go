// Package scene is a read-only view of the current room's layers, used by
// the debug dump built-ins.
package scene

import "sort"

// ElementKind identifies what a layer element draws.
type ElementKind int

const (
	ElementInstance ElementKind = iota
	ElementSprite
	ElementBackground
	ElementTilemap
)

func (k ElementKind) String() string {
	switch k {
	case ElementInstance:
		return "instance"
	case ElementSprite:
		return "sprite"
	case ElementBackground:
		return "background"
	case ElementTilemap:
		return "tilemap"
	default:
		return "unknown"
	}
}

// Element is one drawable entry of a layer. Sprites carry a position and
// backgrounds carry an asset index and frame.
type Element struct {
	Kind       ElementKind
	InstanceID int64
	X, Y       float64
	Index      int
	Frame      int
}

// Layer is a named, depth-sorted group of elements.
type Layer struct {
	ID       int
	Name     string
	Depth    int
	Elements []Element
}

// Directory holds the layers of the current room.
type Directory struct {
	layers map[int]*Layer
}

func NewDirectory() *Directory {
	return &Directory{layers: map[int]*Layer{}}
}

// Add inserts or replaces a layer by id.
func (d *Directory) Add(layer *Layer) {
	d.layers[layer.ID] = layer
}

// Layer returns the layer with the given id.
func (d *Directory) Layer(id int) (*Layer, bool) {
	layer, ok := d.layers[id]
	return layer, ok
}

// Layers returns every layer in id order.
func (d *Directory) Layers() []*Layer {
	result := make([]*Layer, 0, len(d.layers))
	for _, layer := range d.layers {
		result = append(result, layer)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// ElementCount returns the number of elements across all layers.
func (d *Directory) ElementCount() int {
	count := 0
	for _, layer := range d.layers {
		count += len(layer.Elements)
	}
	return count
}
