package bytecode

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/opengm-go/gmvm/op"
)

// formatVersion is bumped whenever the wire layout changes.
const formatVersion = 1

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("bytecode: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

type valueKind uint8

const (
	kindUndefined valueKind = iota
	kindBool
	kindInt
	kindReal
	kindString
	kindArray
)

// wireValue keeps the exact kind of a constant so that ints and reals
// survive the round trip.
type wireValue struct {
	Kind  valueKind   `cbor:"1,keyasint"`
	Bool  bool        `cbor:"2,keyasint,omitempty"`
	Int   int64       `cbor:"3,keyasint,omitempty"`
	Real  float64     `cbor:"4,keyasint,omitempty"`
	Str   string      `cbor:"5,keyasint,omitempty"`
	Items []wireValue `cbor:"6,keyasint,omitempty"`
}

type wireLocation struct {
	Line   int `cbor:"1,keyasint"`
	Column int `cbor:"2,keyasint"`
}

type wireCode struct {
	Name         string         `cbor:"1,keyasint"`
	Params       []string       `cbor:"2,keyasint,omitempty"`
	Instructions []op.Code      `cbor:"3,keyasint"`
	Constants    []wireValue    `cbor:"4,keyasint,omitempty"`
	Names        []string       `cbor:"5,keyasint,omitempty"`
	Source       string         `cbor:"6,keyasint,omitempty"`
	Locations    []wireLocation `cbor:"7,keyasint,omitempty"`
}

type wireTick struct {
	Script string `cbor:"1,keyasint"`
	Object string `cbor:"2,keyasint,omitempty"`
}

type wireInstance struct {
	Object string               `cbor:"1,keyasint"`
	Vars   map[string]wireValue `cbor:"2,keyasint,omitempty"`
}

type wireProgram struct {
	Version   int                  `cbor:"1,keyasint"`
	Name      string               `cbor:"2,keyasint"`
	Scripts   []wireCode           `cbor:"3,keyasint"`
	Tick      []wireTick           `cbor:"4,keyasint,omitempty"`
	Globals   map[string]wireValue `cbor:"5,keyasint,omitempty"`
	Instances []wireInstance       `cbor:"6,keyasint,omitempty"`
}

// MarshalCBOR serializes a program to canonical CBOR bytes.
func MarshalCBOR(p *Program) ([]byte, error) {
	w := wireProgram{Version: formatVersion, Name: p.name}
	for _, name := range p.ScriptNames() {
		code, err := codeToWire(p.scripts[name])
		if err != nil {
			return nil, err
		}
		w.Scripts = append(w.Scripts, code)
	}
	for _, entry := range p.tick {
		w.Tick = append(w.Tick, wireTick{Script: entry.Script, Object: entry.Object})
	}
	globals, err := valuesToWire(p.globals)
	if err != nil {
		return nil, fmt.Errorf("bytecode: globals: %w", err)
	}
	w.Globals = globals
	for _, inst := range p.instances {
		vars, err := valuesToWire(inst.Vars)
		if err != nil {
			return nil, fmt.Errorf("bytecode: instance %s: %w", inst.Object, err)
		}
		w.Instances = append(w.Instances, wireInstance{Object: inst.Object, Vars: vars})
	}
	return cborEncMode.Marshal(w)
}

// UnmarshalCBOR deserializes and validates a program from CBOR bytes.
func UnmarshalCBOR(data []byte) (*Program, error) {
	var w wireProgram
	if err := cbor.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("bytecode: unmarshal program: %w", err)
	}
	if w.Version != formatVersion {
		return nil, fmt.Errorf("bytecode: unsupported program format version %d", w.Version)
	}
	params := ProgramParams{Name: w.Name}
	for _, wc := range w.Scripts {
		params.Scripts = append(params.Scripts, codeFromWire(wc))
	}
	for _, entry := range w.Tick {
		params.Tick = append(params.Tick, TickEntry{Script: entry.Script, Object: entry.Object})
	}
	params.Globals = valuesFromWire(w.Globals)
	for _, inst := range w.Instances {
		params.Instances = append(params.Instances, InstanceSpec{
			Object: inst.Object,
			Vars:   valuesFromWire(inst.Vars),
		})
	}
	program := NewProgram(params)
	if err := program.Validate(); err != nil {
		return nil, err
	}
	return program, nil
}

func codeToWire(c *Code) (wireCode, error) {
	w := wireCode{
		Name:         c.name,
		Params:       c.params,
		Instructions: c.instructions,
		Names:        c.names,
		Source:       c.source,
	}
	for i, constant := range c.constants {
		value, err := valueToWire(constant)
		if err != nil {
			return wireCode{}, fmt.Errorf("bytecode: %s constant %d: %w", c.name, i, err)
		}
		w.Constants = append(w.Constants, value)
	}
	for _, loc := range c.locations {
		w.Locations = append(w.Locations, wireLocation{Line: loc.Line, Column: loc.Column})
	}
	return w, nil
}

func codeFromWire(w wireCode) *Code {
	constants := make([]any, 0, len(w.Constants))
	for _, value := range w.Constants {
		constants = append(constants, valueFromWire(value))
	}
	var locations []SourceLocation
	for _, loc := range w.Locations {
		locations = append(locations, SourceLocation{Line: loc.Line, Column: loc.Column})
	}
	return NewCode(CodeParams{
		Name:         w.Name,
		Params:       w.Params,
		Instructions: w.Instructions,
		Constants:    constants,
		Names:        w.Names,
		Source:       w.Source,
		Locations:    locations,
	})
}

func valuesToWire(values map[string]any) (map[string]wireValue, error) {
	if len(values) == 0 {
		return nil, nil
	}
	result := make(map[string]wireValue, len(values))
	for name, value := range values {
		w, err := valueToWire(value)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", name, err)
		}
		result[name] = w
	}
	return result, nil
}

func valuesFromWire(values map[string]wireValue) map[string]any {
	if len(values) == 0 {
		return nil
	}
	result := make(map[string]any, len(values))
	for name, value := range values {
		result[name] = valueFromWire(value)
	}
	return result
}

func valueToWire(value any) (wireValue, error) {
	switch v := value.(type) {
	case nil:
		return wireValue{Kind: kindUndefined}, nil
	case bool:
		return wireValue{Kind: kindBool, Bool: v}, nil
	case int:
		return wireValue{Kind: kindInt, Int: int64(v)}, nil
	case int64:
		return wireValue{Kind: kindInt, Int: v}, nil
	case float64:
		return wireValue{Kind: kindReal, Real: v}, nil
	case string:
		return wireValue{Kind: kindString, Str: v}, nil
	case []any:
		w := wireValue{Kind: kindArray}
		for _, item := range v {
			wi, err := valueToWire(item)
			if err != nil {
				return wireValue{}, err
			}
			w.Items = append(w.Items, wi)
		}
		return w, nil
	default:
		return wireValue{}, fmt.Errorf("unsupported value type %T", value)
	}
}

func valueFromWire(w wireValue) any {
	switch w.Kind {
	case kindBool:
		return w.Bool
	case kindInt:
		return w.Int
	case kindReal:
		return w.Real
	case kindString:
		return w.Str
	case kindArray:
		items := make([]any, 0, len(w.Items))
		for _, item := range w.Items {
			items = append(items, valueFromWire(item))
		}
		return items
	default:
		return nil
	}
}
