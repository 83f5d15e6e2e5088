// Package dis supports analysis of gmvm bytecode by disassembling it.
// This works with the opcodes defined in the `op` package and uses the
// InstructionIter type from the `bytecode` package.
package dis

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/opengm-go/gmvm/bytecode"
	"github.com/opengm-go/gmvm/op"
)

// Instruction represents a single bytecode instruction and its operands.
type Instruction struct {
	Offset     int
	Name       string
	Opcode     op.Code
	Operands   []op.Code
	Annotation string
	Constant   any
	Line       int
}

// Disassemble returns a parsed representation of the given bytecode.
func Disassemble(code *bytecode.Code) ([]Instruction, error) {
	var instructions []Instruction
	iter := bytecode.NewInstructionIter(code)
	for {
		offset := iter.Offset()
		val, ok := iter.Next()
		if !ok {
			break
		}
		info := op.GetInfo(val[0])
		if info.Name == "" {
			return nil, fmt.Errorf("unknown opcode %d at offset %d", val[0], offset)
		}
		if len(val)-1 != info.OperandCount {
			return nil, fmt.Errorf("truncated %s instruction at offset %d", info.Name, offset)
		}
		var constant any
		var annotation string
		var err error
		switch val[0] {
		case op.LoadConst:
			constant, err = getConstantValue(code, int(val[1]))
			if err != nil {
				return nil, err
			}
			annotation = FormatConstant(constant)
		case op.LoadVar, op.LoadLocal, op.LoadSelf, op.LoadGlobal, op.LoadField,
			op.StoreVar, op.StoreLocal, op.StoreSelf, op.StoreGlobal, op.StoreField,
			op.DeclareLocal:
			annotation, err = getName(code, int(val[1]))
			if err != nil {
				return nil, err
			}
		case op.Call:
			name, err := getName(code, int(val[1]))
			if err != nil {
				return nil, err
			}
			annotation = fmt.Sprintf("%s/%d", name, val[2])
		case op.BinaryOp:
			annotation = op.BinaryOpType(val[1]).String()
		case op.CompareOp:
			annotation = op.CompareOpType(val[1]).String()
		case op.Jump, op.PopJumpIfFalse, op.PopJumpIfTrue, op.PushExcept:
			annotation = fmt.Sprintf("-> %d", val[1])
		}
		instructions = append(instructions, Instruction{
			Offset:     offset,
			Name:       info.Name,
			Opcode:     val[0],
			Operands:   val[1:],
			Annotation: annotation,
			Constant:   constant,
			Line:       code.LocationAt(offset).Line,
		})
	}
	return instructions, nil
}

// FormatConstant renders a constant the way it would appear in assembly.
func FormatConstant(value any) string {
	switch v := value.(type) {
	case nil:
		return "undefined"
	case string:
		return strconv.Quote(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Format returns a single-line rendering of an instruction, for example
// "CALL 1 2 (max/2)".
func Format(instr Instruction) string {
	var sb strings.Builder
	sb.WriteString(instr.Name)
	for _, operand := range instr.Operands {
		sb.WriteString(" ")
		sb.WriteString(strconv.Itoa(int(operand)))
	}
	if instr.Annotation != "" {
		sb.WriteString(" (")
		sb.WriteString(instr.Annotation)
		sb.WriteString(")")
	}
	return sb.String()
}

var (
	bold    = color.New(color.Bold).SprintFunc()
	number  = color.New(color.FgYellow).SprintFunc()
	text    = color.New(color.FgGreen).SprintFunc()
	keyword = color.New(color.FgMagenta).SprintFunc()
	note    = color.New(color.FgHiCyan).SprintFunc()
)

// Print a string representation of the given instructions to the given writer.
// Colors follow the fatih/color NoColor setting.
func Print(instructions []Instruction, writer io.Writer) {
	var lines [][]string
	for _, instr := range instructions {
		var values []string
		values = append(values, fmt.Sprintf("%d", instr.Offset))
		values = append(values, bold(instr.Name))
		values = append(values, formatOperands(instr.Operands))
		if instr.Opcode == op.LoadConst {
			switch c := instr.Constant.(type) {
			case int64, float64:
				values = append(values, number(FormatConstant(c)))
			case string:
				if len(c) > 80 {
					c = c[:77] + "..."
				}
				values = append(values, text(FormatConstant(c)))
			default:
				values = append(values, keyword(FormatConstant(c)))
			}
		} else if instr.Annotation != "" {
			values = append(values, note(instr.Annotation))
		} else {
			values = append(values, "")
		}
		lines = append(lines, values)
	}

	newTable(writer).
		withHeader([]string{"OFFSET", "OPCODE", "OPERANDS", "INFO"}).
		withColumnAlignment([]alignment{
			alignRight,
			alignLeft,
			alignRight,
			alignLeft,
		}).
		withRows(lines).
		render()
}

func formatOperands(ops []op.Code) string {
	var sb strings.Builder
	for i, op := range ops {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(fmt.Sprintf("%d", op))
	}
	return sb.String()
}

func getConstantValue(code *bytecode.Code, index int) (any, error) {
	if code.ConstantCount() <= index {
		return "", fmt.Errorf("constant index out of range: %d", index)
	}
	return code.ConstantAt(index), nil
}

func getName(code *bytecode.Code, index int) (string, error) {
	if code.NameCount() <= index {
		return "", fmt.Errorf("name index out of range: %d", index)
	}
	return code.NameAt(index), nil
}
