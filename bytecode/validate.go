package bytecode

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/opengm-go/gmvm/op"
)

// Validate checks that a script is well formed: known opcodes, complete
// operands, in-range constant, name and jump operands, known operator
// types, and constants of supported kinds. All problems are reported
// together.
func Validate(code *Code) error {
	var result *multierror.Error
	fail := func(ip int, format string, args ...any) {
		prefix := fmt.Sprintf("%s+%d: ", code.Name(), ip)
		result = multierror.Append(result, fmt.Errorf(prefix+format, args...))
	}

	for i := 0; i < code.ConstantCount(); i++ {
		switch code.ConstantAt(i).(type) {
		case nil, bool, int64, float64, string:
		default:
			result = multierror.Append(result, fmt.Errorf("%s: constant %d has unsupported type %T",
				code.Name(), i, code.ConstantAt(i)))
		}
	}

	iter := NewInstructionIter(code)
	for {
		ip := iter.Offset()
		instr, ok := iter.Next()
		if !ok {
			break
		}
		info := op.GetInfo(instr[0])
		if info.Name == "" {
			fail(ip, "unknown opcode %d", instr[0])
			continue
		}
		if len(instr)-1 != info.OperandCount {
			fail(ip, "%s expects %d operands (%d present)", info.Name, info.OperandCount, len(instr)-1)
			continue
		}
		switch instr[0] {
		case op.LoadConst:
			if int(instr[1]) >= code.ConstantCount() {
				fail(ip, "constant index %d out of range", instr[1])
			}
		case op.LoadVar, op.LoadLocal, op.LoadSelf, op.LoadGlobal, op.LoadField,
			op.StoreVar, op.StoreLocal, op.StoreSelf, op.StoreGlobal, op.StoreField,
			op.DeclareLocal, op.Call:
			if int(instr[1]) >= code.NameCount() {
				fail(ip, "name index %d out of range", instr[1])
			}
		case op.Jump, op.PopJumpIfFalse, op.PopJumpIfTrue, op.PushExcept:
			if int(instr[1]) > code.InstructionCount() {
				fail(ip, "jump target %d out of range", instr[1])
			}
		case op.BinaryOp:
			if op.BinaryOpType(instr[1]).String() == "" {
				fail(ip, "unknown binary operator %d", instr[1])
			}
		case op.CompareOp:
			if op.CompareOpType(instr[1]).String() == "" {
				fail(ip, "unknown comparison operator %d", instr[1])
			}
		}
	}
	return result.ErrorOrNil()
}

// Validate checks every script of the program and that every tick entry
// names an existing script.
func (p *Program) Validate() error {
	var result *multierror.Error
	for _, name := range p.ScriptNames() {
		if err := Validate(p.scripts[name]); err != nil {
			result = multierror.Append(result, err)
		}
	}
	for i, entry := range p.tick {
		if _, ok := p.scripts[entry.Script]; !ok {
			result = multierror.Append(result, fmt.Errorf("tick entry %d: script %q is not defined", i, entry.Script))
		}
	}
	return result.ErrorOrNil()
}
