package dis

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/opengm-go/gmvm/bytecode"
	"github.com/opengm-go/gmvm/op"
	"github.com/stretchr/testify/require"
)

func TestScriptDisassembly(t *testing.T) {
	// Disable colors for consistent test output
	color.NoColor = true
	defer func() { color.NoColor = false }()

	code, err := bytecode.Assemble("main", nil, `push 42; pop; gload score; push "kaboom"; call f 1; return`)
	require.NoError(t, err)
	instructions, err := Disassemble(code)
	require.NoError(t, err)
	require.Len(t, instructions, 6)

	var buf bytes.Buffer
	Print(instructions, &buf)

	expected := strings.TrimSpace(`
+--------+--------------+----------+----------+
| OFFSET |    OPCODE    | OPERANDS |   INFO   |
+--------+--------------+----------+----------+
|      0 | LOAD_CONST   |        0 | 42       |
|      2 | POP_TOP      |          |          |
|      3 | LOAD_GLOBAL  |        0 | score    |
|      5 | LOAD_CONST   |        1 | "kaboom" |
|      7 | CALL         |     1, 1 | f/1      |
|     10 | RETURN_VALUE |          |          |
+--------+--------------+----------+----------+
`)
	require.Equal(t, expected+"\n", buf.String())
}

func TestFormat(t *testing.T) {
	code := bytecode.MustAssemble("loop", nil, "top: push 1.5; push undefined; lt; jt top; call max 2; exit")
	instructions, err := Disassemble(code)
	require.NoError(t, err)

	var lines []string
	for _, instr := range instructions {
		lines = append(lines, Format(instr))
	}
	require.Equal(t, []string{
		"LOAD_CONST 0 (1.5)",
		"LOAD_CONST 1 (undefined)",
		"COMPARE_OP 1 (<)",
		"POP_JUMP_IF_TRUE 0 (-> 0)",
		"CALL 0 2 (max/2)",
		"EXIT",
	}, lines)
	require.Equal(t, 1, instructions[0].Line)
}

func TestDisassembleErrors(t *testing.T) {
	code := bytecode.NewCode(bytecode.CodeParams{Name: "bad", Instructions: []op.Code{op.LoadConst, 3}})
	_, err := Disassemble(code)
	require.ErrorContains(t, err, "constant index out of range: 3")

	code = bytecode.NewCode(bytecode.CodeParams{Name: "bad", Instructions: []op.Code{200}})
	_, err = Disassemble(code)
	require.ErrorContains(t, err, "unknown opcode 200")
}

func TestColoredTableAlignment(t *testing.T) {
	color.NoColor = false
	defer func() { color.NoColor = true }()

	var buf bytes.Buffer
	newTable(&buf).
		withHeader([]string{"A", "B"}).
		withColumnAlignment([]alignment{alignLeft, alignRight}).
		withRows([][]string{{bold("bold text"), "1"}, {"x", number("12345")}}).
		render()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6)
	for _, line := range lines {
		require.Equal(t, visibleWidth(lines[0]), visibleWidth(line))
	}
}
