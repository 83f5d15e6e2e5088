package builtins

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/opengm-go/gmvm/errz"
	"github.com/opengm-go/gmvm/object"
	"github.com/opengm-go/gmvm/op"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func double(ctx context.Context, args ...object.Object) (object.Object, error) {
	return args[0].RunOperation(op.Multiply, object.NewInt(2))
}

func TestRegisterAndInvoke(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("double", double, Arity(1, 1)))
	require.Error(t, r.Register("double", double))
	require.Error(t, r.Register("", double))
	require.Error(t, r.Register("nothing", nil))

	result, err := r.Invoke(context.Background(), "double", []object.Object{object.NewInt(4)})
	require.NoError(t, err)
	require.Equal(t, object.NewInt(8), result)

	entry, ok := r.Lookup("double")
	require.True(t, ok)
	require.Equal(t, FlagNone, entry.Flags)
	require.Equal(t, "builtin(double)", entry.Builtin().Inspect())
}

func TestNamesAreCaseSensitive(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("show", double)
	_, ok := r.Lookup("Show")
	require.False(t, ok)
	require.Equal(t, []string{"show"}, r.Names())
}

func TestInvokeUnknown(t *testing.T) {
	r := NewRegistry()
	_, err := r.Invoke(context.Background(), "nonexistent_fn", nil)
	require.True(t, errors.Is(err, errz.UnknownFunctionError))
	require.Equal(t, `unknown function error: function "nonexistent_fn" is not defined`, err.Error())
}

func TestInvokeArity(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("two", double, Arity(2, 2))
	r.MustRegister("some", double, Arity(1, -1))

	_, err := r.Invoke(context.Background(), "two", []object.Object{object.NewInt(1)})
	require.True(t, errz.IsKind(err, errz.ErrArgs))

	_, err = r.Invoke(context.Background(), "some", nil)
	require.Equal(t, "args error: some() takes at least 1 argument (0 given)", err.Error())

	entry, _ := r.Lookup("some")
	require.Equal(t, FlagVariadic, entry.Flags)
}

func TestFreeze(t *testing.T) {
	r := NewRegistry()
	r.Freeze()
	require.True(t, r.Frozen())
	require.Error(t, r.Register("late", double))
	require.Panics(t, func() { r.MustRegister("late", double) })
}

func TestStubLogsOnce(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	ctx := logger.WithContext(context.Background())

	r := NewRegistry()
	r.MustRegister("gamepad_set_vibration", nil, Stub(object.Undefined))
	r.MustRegister("get_answer", nil, Stub(object.NewInt(42)))

	for i := 0; i < 3; i++ {
		result, err := r.Invoke(ctx, "gamepad_set_vibration", []object.Object{object.NewInt(0)})
		require.NoError(t, err)
		require.Equal(t, object.Undefined, result)
	}
	require.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("stub builtin called")))

	result, err := r.Invoke(ctx, "get_answer", nil)
	require.NoError(t, err)
	require.Equal(t, object.NewInt(42), result)

	entry, _ := r.Lookup("get_answer")
	require.True(t, entry.IsStub())
	require.Equal(t, "stub,variadic", entry.Flags.String())
}

func TestNilResultIsUndefined(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("noop", func(ctx context.Context, args ...object.Object) (object.Object, error) {
		return nil, nil
	})
	result, err := r.Invoke(context.Background(), "noop", nil)
	require.NoError(t, err)
	require.Equal(t, object.Undefined, result)
}

func TestDefaultRegistry(t *testing.T) {
	r := Default(Env{}, WithStub("draw_sprite"))
	require.True(t, r.Frozen())
	for _, name := range []string{
		"max", "min", "typeof", "array_create", "show_debug_message",
		"instance_exists", "variable_global_get", "keyboard_check",
		"mouse_x", "gamepad_axis_value", "gamepad_set_vibration",
		"debug_dump_layers", "draw_sprite",
	} {
		_, ok := r.Lookup(name)
		require.True(t, ok, name)
	}
	entry, _ := r.Lookup("gamepad_set_vibration")
	require.True(t, entry.IsStub())
}
