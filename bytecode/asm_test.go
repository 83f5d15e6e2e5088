package bytecode

import (
	"testing"

	"github.com/opengm-go/gmvm/op"
	"github.com/stretchr/testify/require"
)

func words(code *Code) []op.Code {
	result := make([]op.Code, 0, code.InstructionCount())
	for i := 0; i < code.InstructionCount(); i++ {
		result = append(result, code.InstructionAt(i))
	}
	return result
}

func TestAssembleArithmetic(t *testing.T) {
	code, err := Assemble("main", nil, "push 2; push 3; add; return")
	require.NoError(t, err)
	require.Equal(t, []op.Code{
		op.LoadConst, 0,
		op.LoadConst, 1,
		op.BinaryOp, op.Code(op.Add),
		op.ReturnValue,
	}, words(code))
	require.Equal(t, 2, code.ConstantCount())
	require.Equal(t, int64(2), code.ConstantAt(0))
	require.Equal(t, int64(3), code.ConstantAt(1))
	require.Equal(t, "main", code.Name())
	require.Equal(t, "push 2; push 3; add; return", code.Source())
}

func TestAssembleLabels(t *testing.T) {
	code, err := Assemble("count", nil, `
    push 0
loop: dup; push 3; lt; jf done
    push 1; add; jmp loop
done: return
`)
	require.NoError(t, err)
	require.Equal(t, op.PopJumpIfFalse, code.InstructionAt(7))
	require.Equal(t, op.Code(15), code.InstructionAt(8))
	require.Equal(t, op.Jump, code.InstructionAt(13))
	require.Equal(t, op.Code(2), code.InstructionAt(14))
	require.Equal(t, op.ReturnValue, code.InstructionAt(15))
	require.Equal(t, op.Code(op.LessThan), code.InstructionAt(6))

	// Constants are shared by value and type.
	require.Equal(t, 3, code.ConstantCount())
}

func TestAssembleCanonicalNames(t *testing.T) {
	code, err := Assemble("canon", []string{"a"}, "LOAD_CONST 1.5\nLOAD_VAR a\nBINARY_OP *\nCOMPARE_OP ge\nCALL max 2\nRETURN_VALUE")
	require.NoError(t, err)
	require.Equal(t, []op.Code{
		op.LoadConst, 0,
		op.LoadVar, 0,
		op.BinaryOp, op.Code(op.Multiply),
		op.CompareOp, op.Code(op.GreaterThanOrEqual),
		op.Call, 1, 2,
		op.ReturnValue,
	}, words(code))
	require.Equal(t, 1.5, code.ConstantAt(0))
	require.Equal(t, "a", code.NameAt(0))
	require.Equal(t, "max", code.NameAt(1))
	require.Equal(t, 1, code.ParamCount())
	require.Equal(t, "a", code.ParamAt(0))
	require.Equal(t, SourceLocation{Line: 5, Column: 1}, code.LocationAt(8))
	require.Equal(t, "CALL max 2", code.GetSourceLine(5))
	require.Equal(t, 1, code.Stats().CallCount)
}

func TestAssembleLiterals(t *testing.T) {
	code, err := Assemble("lit", nil, `push "a;b # c"; push true; push undefined; push -7; push 0x10 # trailing`)
	require.NoError(t, err)
	require.Equal(t, "a;b # c", code.ConstantAt(0))
	require.Equal(t, true, code.ConstantAt(1))
	require.Nil(t, code.ConstantAt(2))
	require.Equal(t, int64(-7), code.ConstantAt(3))
	require.Equal(t, int64(16), code.ConstantAt(4))
}

func TestAssembleErrors(t *testing.T) {
	_, err := Assemble("bad", nil, "frobnicate\npush\njmp nowhere\npush \"open")
	require.Error(t, err)
	msg := err.Error()
	require.Contains(t, msg, `bad:1: unknown instruction "frobnicate"`)
	require.Contains(t, msg, "bad:2: push expects 1 operand(s) (0 given)")
	require.Contains(t, msg, `bad:3: undefined label "nowhere"`)
	require.Contains(t, msg, "bad:4: unterminated string")

	_, err = Assemble("dup", nil, "a: nop; a: nop")
	require.ErrorContains(t, err, `duplicate label "a"`)
}

func TestExceptionHandlers(t *testing.T) {
	code, err := Assemble("guarded", nil, "try catch; call boom 0; pop; endtry; exit; catch: return")
	require.NoError(t, err)
	require.Equal(t, 1, code.ExceptionHandlerCount())
	require.Equal(t, ExceptionHandler{TryStart: 0, TryEnd: 6, HandlerStart: 8}, code.ExceptionHandlerAt(0))

	code, err = Assemble("open", nil, "try h; exit; h: exit")
	require.NoError(t, err)
	require.Equal(t, -1, code.ExceptionHandlerAt(0).TryEnd)
}

func TestInstructionIter(t *testing.T) {
	code := MustAssemble("iter", nil, "push 1; pop; call f 0")
	iter := NewInstructionIter(code)
	require.Equal(t, 0, iter.Offset())
	require.Equal(t, [][]op.Code{
		{op.LoadConst, 0},
		{op.PopTop},
		{op.Call, 0, 0},
	}, iter.All())
	require.Equal(t, code.InstructionCount(), iter.Offset())

	truncated := NewCode(CodeParams{Name: "t", Instructions: []op.Code{op.Call, 0}})
	instr, ok := NewInstructionIter(truncated).Next()
	require.True(t, ok)
	require.Equal(t, []op.Code{op.Call, 0}, instr)
}

func TestValidate(t *testing.T) {
	code := NewCode(CodeParams{
		Name:         "broken",
		Instructions: []op.Code{op.LoadConst, 5, op.Jump, 99, op.BinaryOp, 77, 250, op.Call, 0},
		Constants:    []any{int64(1), []int{1}},
	})
	err := Validate(code)
	require.Error(t, err)
	msg := err.Error()
	require.Contains(t, msg, "broken: constant 1 has unsupported type []int")
	require.Contains(t, msg, "broken+0: constant index 5 out of range")
	require.Contains(t, msg, "broken+2: jump target 99 out of range")
	require.Contains(t, msg, "broken+4: unknown binary operator 77")
	require.Contains(t, msg, "broken+6: unknown opcode 250")
	require.Contains(t, msg, "broken+7: CALL expects 2 operands (1 present)")

	require.NoError(t, Validate(MustAssemble("ok", nil, "push 1; return")))
}

func TestCodeIsImmutable(t *testing.T) {
	instructions := []op.Code{op.Nop, op.Exit}
	code := NewCode(CodeParams{Name: "copy", Instructions: instructions})
	instructions[0] = op.Halt
	require.Equal(t, op.Nop, code.InstructionAt(0))
}
