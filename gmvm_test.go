package gmvm

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/opengm-go/gmvm/bytecode"
	"github.com/opengm-go/gmvm/errz"
	"github.com/opengm-go/gmvm/vm"
	"github.com/stretchr/testify/require"
)

func TestBasicUsage(t *testing.T) {
	result, err := Eval(context.Background(), "push 1; push 1; add; return")
	require.NoError(t, err)
	require.Equal(t, int64(2), result)
}

func TestEvalResultTypes(t *testing.T) {
	tests := []struct {
		input    string
		expected any
	}{
		{"push 1.5; return", 1.5},
		{`push "hi"; return`, "hi"},
		{"true; return", true},
		{"exit", nil},
		{"push 1; push 2; array 2; return", []any{int64(1), int64(2)}},
	}
	for _, tt := range tests {
		result, err := Eval(context.Background(), tt.input)
		require.NoError(t, err, tt.input)
		require.Equal(t, tt.expected, result, tt.input)
	}
}

func TestWithGlobals(t *testing.T) {
	result, err := Eval(context.Background(), "gload x; gload y; add; return",
		WithGlobals(map[string]any{"x": 1, "y": 2}),
		WithGlobal("y", 40))
	require.NoError(t, err)
	require.Equal(t, int64(41), result)
}

func TestCompileErrors(t *testing.T) {
	_, err := Compile("push")
	require.Error(t, err)

	_, err = Eval(context.Background(), "jmp nowhere")
	require.ErrorContains(t, err, `undefined label "nowhere"`)
}

func TestCompileNamesTheScript(t *testing.T) {
	program, err := Compile("load a; return", WithEntry("first"), WithParams("a"))
	require.NoError(t, err)
	require.Equal(t, []string{"first"}, program.ScriptNames())
	code, ok := program.Script("first")
	require.True(t, ok)
	require.Equal(t, 1, code.ParamCount())
}

func TestRunFault(t *testing.T) {
	_, err := Eval(context.Background(), "push 1; push 0; div; return")
	require.True(t, errz.IsKind(err, errz.ErrRuntime))
}

func TestInterpreterOptions(t *testing.T) {
	_, err := Eval(context.Background(), "loop: jmp loop",
		WithInterpreterOptions(vm.WithIterationBudget(100)))
	require.ErrorIs(t, err, errz.BudgetError)
}

func TestNewKeepsState(t *testing.T) {
	program, err := Compile("gload n; push 1; add; gstore n; gload n; return")
	require.NoError(t, err)
	machine, err := New(program, WithGlobal("n", 0))
	require.NoError(t, err)
	ctx := context.Background()
	for i := 1; i <= 3; i++ {
		result, err := machine.InvokeEntryPoint(ctx, DefaultEntry)
		require.NoError(t, err)
		require.Equal(t, int64(i), result.Interface())
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "demo.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
name: demo
scripts:
  main:
    code: push 7; return
`), 0o644))

	program, err := Load(yamlPath)
	require.NoError(t, err)
	require.Equal(t, "demo", program.Name())

	data, err := bytecode.MarshalCBOR(program)
	require.NoError(t, err)
	cborPath := filepath.Join(dir, "demo.cbor")
	require.NoError(t, os.WriteFile(cborPath, data, 0o644))

	program, err = Load(cborPath)
	require.NoError(t, err)
	result, err := Run(context.Background(), program)
	require.NoError(t, err)
	require.Equal(t, int64(7), result)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}
