package vm

import (
	"bytes"
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/opengm-go/gmvm/builtins"
	"github.com/opengm-go/gmvm/bytecode"
	"github.com/opengm-go/gmvm/errz"
	"github.com/opengm-go/gmvm/instance"
	"github.com/opengm-go/gmvm/object"
	"github.com/opengm-go/gmvm/scope"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type script struct {
	name   string
	params []string
	text   string
}

func newProgram(t *testing.T, scripts ...script) *bytecode.Program {
	t.Helper()
	return newProgramWith(t, bytecode.ProgramParams{}, scripts...)
}

func newProgramWith(t *testing.T, params bytecode.ProgramParams, scripts ...script) *bytecode.Program {
	t.Helper()
	for _, s := range scripts {
		code, err := bytecode.Assemble(s.name, s.params, s.text)
		require.NoError(t, err)
		params.Scripts = append(params.Scripts, code)
	}
	if params.Name == "" {
		params.Name = "test"
	}
	return bytecode.NewProgram(params)
}

func newInterpreter(t *testing.T, program *bytecode.Program, opts ...Option) *Interpreter {
	t.Helper()
	machine, err := New(program, opts...)
	require.NoError(t, err)
	return machine
}

// run assembles a single "main" script and invokes it.
func run(t *testing.T, text string, opts ...Option) (object.Object, error) {
	t.Helper()
	machine := newInterpreter(t, newProgram(t, script{name: "main", text: text}), opts...)
	return machine.InvokeEntryPoint(context.Background(), "main")
}

func TestAddAndReturn(t *testing.T) {
	result, err := run(t, "push 2; push 3; add; return")
	require.NoError(t, err)
	require.Equal(t, object.NewInt(5), result)
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected object.Object
	}{
		{"int wraps", "push 9223372036854775807; push 1; add; return", object.NewInt(math.MinInt64)},
		{"int plus real", "push 1; push 2.5; add; return", object.NewReal(3.5)},
		{"division is real", "push 7; push 2; div; return", object.NewReal(3.5)},
		{"string concat", `push "a"; push "b"; add; return`, object.NewString("ab")},
		{"negate", "push 4; neg; return", object.NewInt(-4)},
		{"not", "push 0; not; return", object.True},
		{"bit not", "push 0; bitnot; return", object.NewInt(-1)},
		{"compare", "push 1; push 2; lt; return", object.True},
		{"dup", "push 3; dup; mul; return", object.NewInt(9)},
		{"swap", "push 10; push 4; swap; sub; return", object.NewInt(-6)},
		{"constants", "true; return", object.True},
		{"undefined", "undefined; return", object.Undefined},
		{"implicit exit", "push 1; pop", object.Undefined},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := run(t, tt.input)
			require.NoError(t, err)
			require.Equal(t, tt.expected, result)
		})
	}
}

func TestLoop(t *testing.T) {
	result, err := run(t, `
		local i; local s
		push 0; lstore i
		push 0; lstore s
	loop:
		lload i; push 10; lt; jf done
		lload i; push 1; add; lstore i
		lload s; lload i; add; lstore s
		jmp loop
	done:
		lload s; return
	`)
	require.NoError(t, err)
	require.Equal(t, object.NewInt(55), result)
}

func TestBuiltinCall(t *testing.T) {
	result, err := run(t, "push 3; push 7; call max 2; return")
	require.NoError(t, err)
	require.Equal(t, object.NewInt(7), result)
}

func TestUnknownFunctionYieldsUndefined(t *testing.T) {
	result, err := run(t, "call nonexistent_fn 0; return")
	require.NoError(t, err)
	require.Equal(t, object.Undefined, result)

	result, err = run(t, "call nonexistent_fn 0; pop; push 1; return")
	require.NoError(t, err)
	require.Equal(t, object.NewInt(1), result)
}

func TestUnknownEntryPoint(t *testing.T) {
	machine := newInterpreter(t, newProgram(t, script{name: "main", text: "exit"}))
	_, err := machine.InvokeEntryPoint(context.Background(), "missing")
	require.ErrorIs(t, err, errz.UnknownFunctionError)
	require.True(t, machine.IsFaulted())
}

func TestBuiltinEntryPoint(t *testing.T) {
	machine := newInterpreter(t, newProgram(t, script{name: "main", text: "exit"}))
	result, err := machine.InvokeEntryPoint(context.Background(), "min", object.NewInt(4), object.NewInt(2))
	require.NoError(t, err)
	require.Equal(t, object.NewInt(2), result)
}

func TestStubBuiltin(t *testing.T) {
	result, err := run(t, `push 1; call audio_play_sound 1; return`,
		WithBuiltins(builtins.WithStub("audio_play_sound")))
	require.NoError(t, err)
	require.Equal(t, object.Undefined, result)
}

func TestHostBuiltin(t *testing.T) {
	double := func(ctx context.Context, args ...object.Object) (object.Object, error) {
		n, err := object.AsInt(args[0])
		if err != nil {
			return nil, err
		}
		return object.NewInt(n * 2), nil
	}
	result, err := run(t, "push 21; call double 1; return",
		WithBuiltins(builtins.WithFunction("double", double)))
	require.NoError(t, err)
	require.Equal(t, object.NewInt(42), result)
}

func TestLocalShadowsGlobal(t *testing.T) {
	program := newProgram(t,
		script{name: "inner", text: "local x; push 5; lstore x; load x; return"},
		script{name: "main", text: "call inner 0; load x; add; return"},
	)
	machine := newInterpreter(t, program, WithGlobalValues(map[string]any{"x": 1}))
	result, err := machine.InvokeEntryPoint(context.Background(), "main")
	require.NoError(t, err)
	require.Equal(t, object.NewInt(6), result)
	require.Equal(t, object.NewInt(1), machine.GetGlobal("x"))
}

func TestUnknownGlobalReadsUndefined(t *testing.T) {
	result, err := run(t, "load nothing; return")
	require.NoError(t, err)
	require.Equal(t, object.Undefined, result)

	result, err = run(t, "gload nothing; call is_undefined 1; return")
	require.NoError(t, err)
	require.Equal(t, object.True, result)
}

func TestSetGlobalVisibleToScripts(t *testing.T) {
	machine := newInterpreter(t, newProgram(t, script{name: "main", text: "gload debug; return"}))
	result, err := machine.InvokeEntryPoint(context.Background(), "main")
	require.NoError(t, err)
	require.Equal(t, object.Undefined, result)

	machine.SetGlobal("debug", object.True)
	result, err = machine.InvokeEntryPoint(context.Background(), "main")
	require.NoError(t, err)
	require.Equal(t, object.True, result)
}

func TestGlobalsSharedWithHost(t *testing.T) {
	globals := scope.NewTable()
	globals.Set("score", object.NewInt(1))
	program := newProgramWith(t, bytecode.ProgramParams{
		Globals: map[string]any{"score": 5, "lives": 3},
	}, script{name: "main", text: "gload score; push 10; add; gstore score; exit"})

	machine := newInterpreter(t, program, WithGlobals(globals))
	require.Same(t, globals, machine.Globals())
	require.Equal(t, object.NewInt(1), globals.Get("score"))
	require.Equal(t, object.NewInt(3), globals.Get("lives"))

	_, err := machine.InvokeEntryPoint(context.Background(), "main")
	require.NoError(t, err)
	require.Equal(t, object.NewInt(11), globals.Get("score"))

	machine = newInterpreter(t, program, WithGlobalValues(map[string]any{"score": 9}))
	require.Equal(t, object.NewInt(9), machine.GetGlobal("score"))
}

func TestArguments(t *testing.T) {
	program := newProgram(t,
		script{name: "add2", params: []string{"a", "b"}, text: "load a; load b; add; return"},
		script{name: "count", text: "load argument_count; return"},
		script{name: "second", text: "load argument1; return"},
		script{name: "main", text: "push 2; push 40; call add2 2; return"},
	)
	machine := newInterpreter(t, program)
	ctx := context.Background()

	result, err := machine.InvokeEntryPoint(ctx, "main")
	require.NoError(t, err)
	require.Equal(t, object.NewInt(42), result)

	result, err = machine.InvokeEntryPoint(ctx, "count", object.NewInt(1), object.NewInt(2), object.NewInt(3))
	require.NoError(t, err)
	require.Equal(t, object.NewInt(3), result)

	result, err = machine.InvokeEntryPoint(ctx, "second", object.NewString("a"), object.NewString("b"))
	require.NoError(t, err)
	require.Equal(t, object.NewString("b"), result)

	// A missing argument reads as undefined, which arithmetic rejects.
	_, err = machine.InvokeEntryPoint(ctx, "add2", object.NewInt(1))
	require.Error(t, err)
	require.True(t, errz.IsKind(err, errz.ErrType))
}

func TestArrays(t *testing.T) {
	result, err := run(t, "push 1; push 2; push 3; array 3; push 2; aget; return")
	require.NoError(t, err)
	require.Equal(t, object.NewInt(3), result)

	result, err = run(t, `
		local a
		push 1; array 1; lstore a
		lload a; push 3; push "x"; aset
		lload a; call array_length 1; return
	`)
	require.NoError(t, err)
	require.Equal(t, object.NewInt(4), result)

	_, err = run(t, "push 1; array 1; push 5; aget; return")
	require.True(t, errz.IsKind(err, errz.ErrRuntime))

	_, err = run(t, `push "s"; push 0; aget; return`)
	require.True(t, errz.IsKind(err, errz.ErrType))
}

func TestInstances(t *testing.T) {
	program := newProgramWith(t, bytecode.ProgramParams{
		Instances: []bytecode.InstanceSpec{{Object: "obj_player", Vars: map[string]any{"hp": 3}}},
	},
		script{name: "hp", text: "sload hp; return"},
		script{name: "field", text: "push 100000; field hp; return"},
		script{name: "heal", text: "push 10; self; setfield hp; sload hp; return"},
		script{name: "with", text: "push 100000; with; sload hp; endwith; sload hp; return"},
		script{name: "missing", text: "push 999; field hp; return"},
		script{name: "nested", text: "call hp 0; return"},
		script{name: "refs", text: "self; other; array 2; return"},
	)
	machine := newInterpreter(t, program)
	ctx := context.Background()
	player, ok := machine.Instances().Get(instance.FirstID)
	require.True(t, ok)
	require.Equal(t, "obj_player", player.Object())

	result, err := machine.Invoke(ctx, "hp", player, nil)
	require.NoError(t, err)
	require.Equal(t, object.NewInt(3), result)

	result, err = machine.InvokeEntryPoint(ctx, "field")
	require.NoError(t, err)
	require.Equal(t, object.NewInt(3), result)

	// Script calls keep the caller's self.
	result, err = machine.Invoke(ctx, "nested", player, nil)
	require.NoError(t, err)
	require.Equal(t, object.NewInt(3), result)

	result, err = machine.Invoke(ctx, "heal", player, nil)
	require.NoError(t, err)
	require.Equal(t, object.NewInt(10), result)
	require.Equal(t, object.NewInt(10), player.Variables().Get("hp"))

	// Outside the with block self is restored to no instance.
	result, err = machine.InvokeEntryPoint(ctx, "with")
	require.NoError(t, err)
	require.Equal(t, object.Undefined, result)

	_, err = machine.InvokeEntryPoint(ctx, "missing")
	require.Error(t, err)
	require.Contains(t, err.Error(), "instance 999 does not exist")

	result, err = machine.Invoke(ctx, "refs", player, nil)
	require.NoError(t, err)
	arr, ok := result.(*object.Array)
	require.True(t, ok)
	require.Equal(t, []object.Object{player.Ref(), object.Undefined}, arr.Value())
}

func TestRecursionLimit(t *testing.T) {
	program := newProgram(t,
		script{name: "rec", text: "call rec 0; return"},
		script{name: "guarded", text: `
			try caught
			call rec 0
			endtry
			push "not caught"; return
		caught:
			return
		`},
	)
	machine := newInterpreter(t, program, WithMaxFrameDepth(8))
	ctx := context.Background()

	_, err := machine.InvokeEntryPoint(ctx, "rec")
	require.ErrorIs(t, err, errz.RecursionLimitError)
	require.Equal(t, 0, machine.Depth())
	fault := machine.LastFault()
	require.NotNil(t, fault)
	require.Equal(t, "rec", fault.Script)
	require.Equal(t, errz.ErrRecursionLimit, fault.Kind)
	require.False(t, fault.IsFatal())

	result, err := machine.InvokeEntryPoint(ctx, "guarded")
	require.NoError(t, err)
	require.Equal(t, object.NewString("call depth limit of 8 exceeded"), result)
	require.Equal(t, 0, machine.Depth())
	require.False(t, machine.IsFaulted())
}

func TestHandlerCatchesCalleeFault(t *testing.T) {
	program := newProgram(t,
		script{name: "thrower", text: `push "boom"; throw`},
		script{name: "divider", text: "push 1; push 0; div; return"},
		script{name: "main", text: `
			try handler
			call thrower 0
			endtry
			push "none"; return
		handler:
			push "caught: "; swap; add; return
		`},
		script{name: "main2", text: `
			try handler
			call divider 0
			endtry
			push "none"; return
		handler:
			return
		`},
	)
	machine := newInterpreter(t, program)
	ctx := context.Background()

	result, err := machine.InvokeEntryPoint(ctx, "main")
	require.NoError(t, err)
	require.Equal(t, object.NewString("caught: boom"), result)

	result, err = machine.InvokeEntryPoint(ctx, "main2")
	require.NoError(t, err)
	require.Equal(t, object.NewString("division by zero"), result)
}

func TestThrownValueIsDeliveredUnchanged(t *testing.T) {
	result, err := run(t, `
		try handler
		push 7; throw
	handler:
		push 1; add; return
	`)
	require.NoError(t, err)
	require.Equal(t, object.NewInt(8), result)
}

func TestUnhandledFault(t *testing.T) {
	program := newProgram(t,
		script{name: "thrower", text: `push "boom"; throw`},
		script{name: "main", text: "call thrower 0; return"},
	)
	machine := newInterpreter(t, program)
	_, err := machine.InvokeEntryPoint(context.Background(), "main")
	require.Error(t, err)

	var fault *Fault
	require.True(t, errors.As(err, &fault))
	require.Equal(t, "thrower", fault.Script)
	require.Equal(t, 2, fault.Offset)
	require.Equal(t, errz.ErrThrown, fault.Kind)
	require.Equal(t, 2, fault.Depth)
	require.Equal(t, "boom", fault.Err.Message)
	require.Equal(t, []errz.StackFrame{
		{Script: "thrower", Offset: 2},
		{Script: "main", Offset: 0},
	}, fault.Err.Stack)
	require.True(t, machine.IsFaulted())
	require.Same(t, fault, machine.LastFault())
	require.Equal(t, 0, machine.Depth())

	// The next external call starts clean.
	_, err = machine.InvokeEntryPoint(context.Background(), "min", object.NewInt(1))
	require.NoError(t, err)
	require.False(t, machine.IsFaulted())
}

func TestStackUnderflowIsFatal(t *testing.T) {
	_, err := run(t, `
		try handler
		pop
		endtry
		exit
	handler:
		push 1; return
	`)
	require.ErrorIs(t, err, errz.StackUnderflowError)
	var fault *Fault
	require.True(t, errors.As(err, &fault))
	require.True(t, fault.IsFatal())
}

func TestIterationBudget(t *testing.T) {
	machine := newInterpreter(t, newProgram(t, script{name: "main", text: "loop: jmp loop"}),
		WithIterationBudget(100))
	_, err := machine.InvokeEntryPoint(context.Background(), "main")
	require.ErrorIs(t, err, errz.BudgetError)
	require.True(t, machine.IsFaulted())
	require.True(t, machine.LastFault().IsFatal())
}

func TestHaltOpcode(t *testing.T) {
	program := newProgram(t,
		script{name: "stop", text: "push 1; gstore x; halt; push 2; gstore x"},
		script{name: "main", text: "call stop 0; push 3; gstore x; exit"},
	)
	machine := newInterpreter(t, program)
	result, err := machine.InvokeEntryPoint(context.Background(), "main")
	require.NoError(t, err)
	require.Equal(t, object.Undefined, result)
	require.Equal(t, object.NewInt(1), machine.GetGlobal("x"))
	require.Equal(t, 0, machine.Depth())
}

func TestHostHalt(t *testing.T) {
	var machine *Interpreter
	stop := func(ctx context.Context, args ...object.Object) (object.Object, error) {
		machine.Halt()
		return object.Undefined, nil
	}
	program := newProgram(t, script{name: "main", text: `
		push 1; gstore before
		call stop 0; pop
		push 2; gstore after
		exit
	`})
	machine = newInterpreter(t, program, WithBuiltins(builtins.WithFunction("stop", stop)))

	_, err := machine.InvokeEntryPoint(context.Background(), "main")
	require.ErrorIs(t, err, errz.HaltedError)
	require.Equal(t, object.NewInt(1), machine.GetGlobal("before"))
	require.Equal(t, object.Undefined, machine.GetGlobal("after"))
	require.False(t, machine.IsFaulted())
	require.Equal(t, 0, machine.Depth())

	// The halt flag is cleared by the next external call.
	result, err := machine.InvokeEntryPoint(context.Background(), "min", object.NewInt(1))
	require.NoError(t, err)
	require.Equal(t, object.NewInt(1), result)
}

func TestContextCancellation(t *testing.T) {
	program := newProgram(t, script{name: "main", text: "loop: jmp loop"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	machine := newInterpreter(t, program)
	_, err := machine.InvokeEntryPoint(ctx, "main")
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, err, errz.HaltedError)

	ctx, cancel = context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	machine = newInterpreter(t, program, WithContextCheckInterval(10))
	_, err = machine.InvokeEntryPoint(ctx, "main")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAlreadyRunning(t *testing.T) {
	var machine *Interpreter
	var nestedErr error
	nested := func(ctx context.Context, args ...object.Object) (object.Object, error) {
		_, nestedErr = machine.InvokeEntryPoint(ctx, "main")
		return object.Undefined, nil
	}
	program := newProgram(t, script{name: "main", text: "call nested 0; return"})
	machine = newInterpreter(t, program, WithBuiltins(builtins.WithFunction("nested", nested)))
	_, err := machine.InvokeEntryPoint(context.Background(), "main")
	require.NoError(t, err)
	require.EqualError(t, nestedErr, "interpreter is already running")
}

func TestVerboseTraceDoesNotChangeResults(t *testing.T) {
	previous := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(previous) })

	const text = "push 2; push 3; call max 2; push 4; mul; return"

	var quiet bytes.Buffer
	result, err := run(t, text, WithLogger(zerolog.New(&quiet)))
	require.NoError(t, err)
	require.Equal(t, object.NewInt(12), result)
	require.NotContains(t, quiet.String(), `"message":"exec"`)

	var verbose bytes.Buffer
	result, err = run(t, text, WithLogger(zerolog.New(&verbose)), WithVerboseTrace(true))
	require.NoError(t, err)
	require.Equal(t, object.NewInt(12), result)
	require.Contains(t, verbose.String(), `"message":"exec"`)
	require.Contains(t, verbose.String(), `"op":"CALL 0 2 (max/2)"`)
}

func TestSetVerbose(t *testing.T) {
	machine := newInterpreter(t, newProgram(t, script{name: "main", text: "exit"}))
	require.False(t, machine.Verbose())
	machine.SetVerbose(true)
	require.True(t, machine.Verbose())
}

func TestRunIDOnLogs(t *testing.T) {
	var buf bytes.Buffer
	machine := newInterpreter(t, newProgram(t, script{name: "main", text: `push "hi"; call show_debug_message 1; return`}),
		WithLogger(zerolog.New(&buf)))
	require.NotEmpty(t, machine.RunID())
	_, err := machine.InvokeEntryPoint(context.Background(), "main")
	require.NoError(t, err)
	require.Contains(t, buf.String(), `"message":"hi"`)
	require.Contains(t, buf.String(), machine.RunID())
}

func TestStep(t *testing.T) {
	program := newProgramWith(t, bytecode.ProgramParams{
		Globals: map[string]any{"ticks": 0},
		Instances: []bytecode.InstanceSpec{
			{Object: "obj_ball", Vars: map[string]any{"x": 0}},
			{Object: "obj_ball", Vars: map[string]any{"x": 10}},
			{Object: "obj_wall"},
		},
		Tick: []bytecode.TickEntry{
			{Script: "count"},
			{Script: "bad"},
			{Script: "move", Object: "obj_ball"},
		},
	},
		script{name: "count", text: "gload ticks; push 1; add; gstore ticks; exit"},
		script{name: "bad", text: "push 1; push 0; div; return"},
		script{name: "move", text: "sload x; push 1; add; sstore x; exit"},
	)
	machine := newInterpreter(t, program)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		err := machine.Step(ctx, 16666*time.Microsecond)
		require.Error(t, err)
		var merr *multierror.Error
		require.True(t, errors.As(err, &merr))
		require.Len(t, merr.Errors, 1)
		require.True(t, machine.IsFaulted())
		require.Equal(t, "bad", machine.LastFault().Script)
	}

	require.Equal(t, int64(2), machine.Tick())
	require.Equal(t, object.NewInt(2), machine.GetGlobal("ticks"))
	require.Equal(t, object.NewInt(16666), machine.GetGlobal("delta_time"))
	first, _ := machine.Instances().Get(instance.FirstID)
	second, _ := machine.Instances().Get(instance.FirstID + 1)
	require.Equal(t, object.NewInt(2), first.Variables().Get("x"))
	require.Equal(t, object.NewInt(12), second.Variables().Get("x"))
}

func TestStepContinuesAfterPanickingEntry(t *testing.T) {
	explode := func(ctx context.Context, args ...object.Object) (object.Object, error) {
		var items []int
		return object.NewInt(int64(items[len(args)])), nil
	}
	program := newProgramWith(t, bytecode.ProgramParams{
		Globals: map[string]any{"ticks": 0},
		Tick: []bytecode.TickEntry{
			{Script: "bad"},
			{Script: "count"},
		},
	},
		script{name: "bad", text: "push 1; call explode 1; return"},
		script{name: "count", text: "gload ticks; push 1; add; gstore ticks; exit"},
	)
	machine := newInterpreter(t, program, WithBuiltins(builtins.WithFunction("explode", explode)))
	ctx := context.Background()

	for i := 1; i <= 2; i++ {
		err := machine.Step(ctx, time.Millisecond)
		require.True(t, errz.IsKind(err, errz.ErrInternal))
		var merr *multierror.Error
		require.True(t, errors.As(err, &merr))
		require.Len(t, merr.Errors, 1)

		fault := machine.LastFault()
		require.Equal(t, "bad", fault.Script)
		require.Equal(t, errz.ErrInternal, fault.Kind)
		require.Contains(t, fault.Err.Message, "panic")
		require.Equal(t, 0, machine.Depth())
		require.Equal(t, object.NewInt(int64(i)), machine.GetGlobal("ticks"))
	}

	// The interpreter stays usable after the recovered panic.
	result, err := machine.InvokeEntryPoint(ctx, "count")
	require.NoError(t, err)
	require.Equal(t, object.Undefined, result)
	require.Equal(t, object.NewInt(3), machine.GetGlobal("ticks"))
}

func TestPanickingBuiltinEntryPoint(t *testing.T) {
	explode := func(ctx context.Context, args ...object.Object) (object.Object, error) {
		panic("boom")
	}
	machine := newInterpreter(t, newProgram(t, script{name: "main", text: "exit"}),
		WithBuiltins(builtins.WithFunction("explode", explode)))
	_, err := machine.InvokeEntryPoint(context.Background(), "explode")
	require.True(t, errz.IsKind(err, errz.ErrInternal))
	require.Equal(t, "explode", machine.LastFault().Script)
	require.Equal(t, "panic: boom", machine.LastFault().Err.Message)
}

func TestStepClearsFault(t *testing.T) {
	program := newProgramWith(t, bytecode.ProgramParams{
		Tick: []bytecode.TickEntry{{Script: "main"}},
	}, script{name: "main", text: "gload fail; jf ok; push 1; push 0; div; ok: exit"})
	machine := newInterpreter(t, program)
	ctx := context.Background()

	machine.SetGlobal("fail", object.True)
	require.Error(t, machine.Step(ctx, time.Millisecond))
	require.True(t, machine.IsFaulted())

	machine.SetGlobal("fail", object.False)
	require.NoError(t, machine.Step(ctx, time.Millisecond))
	require.False(t, machine.IsFaulted())
}

func TestNewErrors(t *testing.T) {
	_, err := New(nil)
	require.EqualError(t, err, "no program provided")

	program := newProgramWith(t, bytecode.ProgramParams{
		Tick: []bytecode.TickEntry{{Script: "missing"}},
	}, script{name: "main", text: "exit"})
	_, err = New(program)
	require.Error(t, err)
	require.Contains(t, err.Error(), `script "missing" is not defined`)

	_, err = New(newProgram(t), WithGlobalValues(map[string]any{"bad": map[string]any{}}))
	require.Error(t, err)
}

func TestDebugCallstack(t *testing.T) {
	program := newProgram(t,
		script{name: "inner", text: "call debug_get_callstack 0; return"},
		script{name: "main", text: "push 1; pop; call inner 0; return"},
	)
	machine := newInterpreter(t, program)
	result, err := machine.InvokeEntryPoint(context.Background(), "main")
	require.NoError(t, err)
	arr, ok := result.(*object.Array)
	require.True(t, ok)
	require.Equal(t, []object.Object{
		object.NewString("inner:0"),
		object.NewString("main:3"),
	}, arr.Value())
}
