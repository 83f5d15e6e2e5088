package bytecode

import (
	"strings"

	"github.com/opengm-go/gmvm/op"
)

// Code represents one assembled script. It is immutable after creation and
// safe for concurrent use.
type Code struct {
	name   string
	params []string

	instructions []op.Code
	constants    []any
	names        []string
	source       string

	// Source map: one location per instruction word
	locations []SourceLocation

	exceptionHandlers []ExceptionHandler
}

// CodeParams contains parameters for creating a new Code.
type CodeParams struct {
	Name         string
	Params       []string
	Instructions []op.Code
	Constants    []any
	Names        []string
	Source       string
	Locations    []SourceLocation
}

// NewCode creates a new immutable Code from the given parameters. Input
// slices are copied. Exception handler regions are derived from the
// instruction stream.
func NewCode(params CodeParams) *Code {
	code := &Code{
		name:         params.Name,
		params:       copyStrings(params.Params),
		instructions: copyInstructions(params.Instructions),
		constants:    copyAny(params.Constants),
		names:        copyStrings(params.Names),
		source:       params.Source,
		locations:    copyLocations(params.Locations),
	}
	code.exceptionHandlers = findHandlers(code)
	return code
}

// Name returns the script name.
func (c *Code) Name() string {
	return c.name
}

// ParamCount returns the number of declared parameters.
func (c *Code) ParamCount() int {
	return len(c.params)
}

// ParamAt returns the name of the parameter at the given index.
func (c *Code) ParamAt(index int) string {
	return c.params[index]
}

// InstructionCount returns the number of instruction words, operands
// included.
func (c *Code) InstructionCount() int {
	return len(c.instructions)
}

// InstructionAt returns the instruction word at the given index.
func (c *Code) InstructionAt(index int) op.Code {
	return c.instructions[index]
}

// ConstantCount returns the number of constants.
func (c *Code) ConstantCount() int {
	return len(c.constants)
}

// ConstantAt returns the constant at the given index.
func (c *Code) ConstantAt(index int) any {
	return c.constants[index]
}

// NameCount returns the number of names referenced by the script.
func (c *Code) NameCount() int {
	return len(c.names)
}

// NameAt returns the name at the given index.
func (c *Code) NameAt(index int) string {
	return c.names[index]
}

// Source returns the assembly text the script was built from, if any.
func (c *Code) Source() string {
	return c.source
}

// LocationAt returns the source location of the instruction word at ip.
func (c *Code) LocationAt(ip int) SourceLocation {
	if ip < 0 || ip >= len(c.locations) {
		return SourceLocation{}
	}
	return c.locations[ip]
}

// LocationCount returns the number of recorded source locations.
func (c *Code) LocationCount() int {
	return len(c.locations)
}

// GetSourceLine returns the source line at the given 1-based line number.
func (c *Code) GetSourceLine(lineNum int) string {
	if lineNum < 1 || c.source == "" {
		return ""
	}
	lines := strings.Split(c.source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// ExceptionHandlerCount returns the number of exception handler regions.
func (c *Code) ExceptionHandlerCount() int {
	return len(c.exceptionHandlers)
}

// ExceptionHandlerAt returns the exception handler at the given index.
func (c *Code) ExceptionHandlerAt(index int) ExceptionHandler {
	return c.exceptionHandlers[index]
}

// Stats returns statistics about this script.
func (c *Code) Stats() Stats {
	count := 0
	iter := NewInstructionIter(c)
	for {
		instr, ok := iter.Next()
		if !ok {
			break
		}
		if instr[0] == op.Call {
			count++
		}
	}
	return Stats{
		InstructionCount: c.InstructionCount(),
		ConstantCount:    c.ConstantCount(),
		NameCount:        c.NameCount(),
		CallCount:        count,
		SourceBytes:      len(c.source),
	}
}
