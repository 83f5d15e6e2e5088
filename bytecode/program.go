package bytecode

import "sort"

// TickEntry schedules one script to run on every tick. When Object is set
// the script runs once for each live instance of that object, with the
// instance as self; otherwise it runs once with no self.
type TickEntry struct {
	Script string
	Object string
}

// InstanceSpec describes an instance the host creates before the first
// tick.
type InstanceSpec struct {
	Object string
	Vars   map[string]any
}

// Program is an immutable set of scripts and the data needed to run them.
type Program struct {
	name      string
	scripts   map[string]*Code
	tick      []TickEntry
	globals   map[string]any
	instances []InstanceSpec
}

// ProgramParams contains parameters for creating a new Program.
type ProgramParams struct {
	Name      string
	Scripts   []*Code
	Tick      []TickEntry
	Globals   map[string]any
	Instances []InstanceSpec
}

// NewProgram creates a new immutable Program. A later script replaces an
// earlier one of the same name.
func NewProgram(params ProgramParams) *Program {
	p := &Program{
		name:    params.Name,
		scripts: make(map[string]*Code, len(params.Scripts)),
		tick:    append([]TickEntry(nil), params.Tick...),
		globals: copyValues(params.Globals),
	}
	for _, code := range params.Scripts {
		p.scripts[code.Name()] = code
	}
	for _, spec := range params.Instances {
		p.instances = append(p.instances, InstanceSpec{Object: spec.Object, Vars: copyValues(spec.Vars)})
	}
	return p
}

func copyValues(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// Name returns the program name.
func (p *Program) Name() string {
	return p.name
}

// Script returns the script with the given name.
func (p *Program) Script(name string) (*Code, bool) {
	code, ok := p.scripts[name]
	return code, ok
}

// ScriptNames returns the script names in sorted order.
func (p *Program) ScriptNames() []string {
	names := make([]string, 0, len(p.scripts))
	for name := range p.scripts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ScriptCount returns the number of scripts.
func (p *Program) ScriptCount() int {
	return len(p.scripts)
}

// Tick returns a copy of the per-tick schedule.
func (p *Program) Tick() []TickEntry {
	return append([]TickEntry(nil), p.tick...)
}

// Globals returns a copy of the initial global values.
func (p *Program) Globals() map[string]any {
	return copyValues(p.globals)
}

// Instances returns a copy of the initial instances.
func (p *Program) Instances() []InstanceSpec {
	result := make([]InstanceSpec, 0, len(p.instances))
	for _, spec := range p.instances {
		result = append(result, InstanceSpec{Object: spec.Object, Vars: copyValues(spec.Vars)})
	}
	return result
}
