package bytecode

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ProgramFile is the YAML document layout of a program:
//
//	name: demo
//	globals:
//	  score: 0
//	instances:
//	  - object: obj_player
//	    vars: {hp: 3}
//	tick:
//	  - script: player_step
//	    object: obj_player
//	scripts:
//	  player_step:
//	    params: []
//	    code: |
//	      sload hp; push 1; sub; sstore hp; exit
type ProgramFile struct {
	Name      string                `yaml:"name"`
	Globals   map[string]any        `yaml:"globals,omitempty"`
	Instances []InstanceFile        `yaml:"instances,omitempty"`
	Tick      []TickFile            `yaml:"tick,omitempty"`
	Scripts   map[string]ScriptFile `yaml:"scripts"`
}

// InstanceFile describes an initial instance.
type InstanceFile struct {
	Object string         `yaml:"object"`
	Vars   map[string]any `yaml:"vars,omitempty"`
}

// TickFile describes one tick schedule entry.
type TickFile struct {
	Script string `yaml:"script"`
	Object string `yaml:"object,omitempty"`
}

// ScriptFile holds the parameters and assembly text of one script.
type ScriptFile struct {
	Params []string `yaml:"params,omitempty"`
	Code   string   `yaml:"code"`
}

// LoadYAML reads and assembles a program from a YAML file.
func LoadYAML(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseYAML(data)
}

// ParseYAML assembles a program from a YAML document. Unknown keys are
// rejected. The program is validated before it is returned.
func ParseYAML(data []byte) (*Program, error) {
	var file ProgramFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("bytecode: parse program: %w", err)
	}
	if len(file.Scripts) == 0 {
		return nil, fmt.Errorf("bytecode: program %q defines no scripts", file.Name)
	}
	names := make([]string, 0, len(file.Scripts))
	for name := range file.Scripts {
		names = append(names, name)
	}
	sort.Strings(names)

	params := ProgramParams{Name: file.Name}
	for _, name := range names {
		script := file.Scripts[name]
		code, err := Assemble(name, script.Params, script.Code)
		if err != nil {
			return nil, err
		}
		params.Scripts = append(params.Scripts, code)
	}
	globals, err := normalizeValues(file.Globals)
	if err != nil {
		return nil, fmt.Errorf("bytecode: globals: %w", err)
	}
	params.Globals = globals
	for i, inst := range file.Instances {
		if inst.Object == "" {
			return nil, fmt.Errorf("bytecode: instance %d has no object name", i)
		}
		vars, err := normalizeValues(inst.Vars)
		if err != nil {
			return nil, fmt.Errorf("bytecode: instance %d: %w", i, err)
		}
		params.Instances = append(params.Instances, InstanceSpec{Object: inst.Object, Vars: vars})
	}
	for _, entry := range file.Tick {
		params.Tick = append(params.Tick, TickEntry{Script: entry.Script, Object: entry.Object})
	}
	program := NewProgram(params)
	if err := program.Validate(); err != nil {
		return nil, err
	}
	return program, nil
}

func normalizeValues(values map[string]any) (map[string]any, error) {
	if values == nil {
		return nil, nil
	}
	result := make(map[string]any, len(values))
	for name, value := range values {
		v, err := normalizeValue(value)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", name, err)
		}
		result[name] = v
	}
	return result, nil
}

// normalizeValue maps decoded document values onto the value kinds a
// program carries: nil, bool, int64, float64, string and []any.
func normalizeValue(value any) (any, error) {
	switch v := value.(type) {
	case nil, bool, int64, float64, string:
		return v, nil
	case int:
		return int64(v), nil
	case uint64:
		return int64(v), nil
	case []any:
		items := make([]any, 0, len(v))
		for _, item := range v {
			n, err := normalizeValue(item)
			if err != nil {
				return nil, err
			}
			items = append(items, n)
		}
		return items, nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", value)
	}
}
