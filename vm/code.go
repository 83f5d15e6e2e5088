package vm

import (
	"fmt"

	"github.com/opengm-go/gmvm/bytecode"
	"github.com/opengm-go/gmvm/dis"
	"github.com/opengm-go/gmvm/object"
	"github.com/opengm-go/gmvm/op"
)

// code is a script prepared for execution: constants are converted to
// runtime values once, and the trace text is built on first use.
type code struct {
	*bytecode.Code
	Instructions []op.Code
	Constants    []object.Object
	Names        []string

	trace map[int]string
}

func wrapCode(bc *bytecode.Code) (*code, error) {
	c := &code{
		Code:         bc,
		Instructions: make([]op.Code, bc.InstructionCount()),
		Constants:    make([]object.Object, bc.ConstantCount()),
		Names:        make([]string, bc.NameCount()),
	}
	for i := 0; i < bc.InstructionCount(); i++ {
		c.Instructions[i] = bc.InstructionAt(i)
	}
	for i := 0; i < bc.NameCount(); i++ {
		c.Names[i] = bc.NameAt(i)
	}
	for i := 0; i < bc.ConstantCount(); i++ {
		switch constant := bc.ConstantAt(i).(type) {
		case int64:
			c.Constants[i] = object.NewInt(constant)
		case float64:
			c.Constants[i] = object.NewReal(constant)
		case string:
			c.Constants[i] = object.NewString(constant)
		case bool:
			c.Constants[i] = object.NewBool(constant)
		case nil:
			c.Constants[i] = object.Undefined
		default:
			return nil, fmt.Errorf("script %s: unsupported constant type: %T", bc.Name(), constant)
		}
	}
	return c, nil
}

// traceText returns the disassembled form of the instruction at ip.
func (c *code) traceText(ip int) string {
	if c.trace == nil {
		c.trace = map[int]string{}
		if instructions, err := dis.Disassemble(c.Code); err == nil {
			for _, instr := range instructions {
				c.trace[instr.Offset] = dis.Format(instr)
			}
		}
	}
	if text, ok := c.trace[ip]; ok {
		return text
	}
	return op.GetInfo(c.Instructions[ip]).Name
}
