package builtins

import (
	"context"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/opengm-go/gmvm/errz"
	"github.com/opengm-go/gmvm/object"
)

func numberArgs(name string, args []object.Object) ([]object.Object, error) {
	nums := make([]object.Object, len(args))
	for i, arg := range args {
		num, err := object.ToNumber(arg)
		if err != nil {
			return nil, errz.TypeCoercionf("%s() argument %d: unable to convert %s to a number",
				name, i+1, arg.Inspect())
		}
		nums[i] = num
	}
	return nums, nil
}

func realArg(args []object.Object, i int) (float64, error) {
	return object.AsReal(args[i])
}

func intArg(args []object.Object, i int) (int, error) {
	value, err := object.AsInt(args[i])
	if err != nil {
		return 0, err
	}
	return int(value), nil
}

func stringArg(name string, args []object.Object, i int) (string, error) {
	s, ok := args[i].(*object.String)
	if !ok {
		return "", errz.TypeErrorf("%s() expected a string argument (%s given)", name, args[i].Type())
	}
	return s.Value(), nil
}

func arrayArg(name string, args []object.Object, i int) (*object.Array, error) {
	arr, ok := args[i].(*object.Array)
	if !ok {
		return nil, errz.TypeErrorf("%s() expected an array argument (%s given)", name, args[i].Type())
	}
	return arr, nil
}

func pick(name string, args []object.Object, better func(c int) bool) (object.Object, error) {
	nums, err := numberArgs(name, args)
	if err != nil {
		return nil, err
	}
	best := nums[0]
	for _, num := range nums[1:] {
		if better(object.CompareValues(num, best)) {
			best = num
		}
	}
	return best, nil
}

func Max(ctx context.Context, args ...object.Object) (object.Object, error) {
	return pick("max", args, func(c int) bool { return c > 0 })
}

func Min(ctx context.Context, args ...object.Object) (object.Object, error) {
	return pick("min", args, func(c int) bool { return c < 0 })
}

func Abs(ctx context.Context, args ...object.Object) (object.Object, error) {
	nums, err := numberArgs("abs", args)
	if err != nil {
		return nil, err
	}
	switch num := nums[0].(type) {
	case *object.Int:
		if num.Value() < 0 {
			return object.NewInt(-num.Value()), nil
		}
		return num, nil
	default:
		return object.NewReal(math.Abs(num.(*object.Real).Value())), nil
	}
}

func Sign(ctx context.Context, args ...object.Object) (object.Object, error) {
	value, err := realArg(args, 0)
	if err != nil {
		return nil, err
	}
	switch {
	case value > 0:
		return object.NewReal(1), nil
	case value < 0:
		return object.NewReal(-1), nil
	default:
		return object.NewReal(0), nil
	}
}

func realFunc(fn func(float64) float64) object.BuiltinFunction {
	return func(ctx context.Context, args ...object.Object) (object.Object, error) {
		value, err := realArg(args, 0)
		if err != nil {
			return nil, err
		}
		return object.NewReal(fn(value)), nil
	}
}

func Sqrt(ctx context.Context, args ...object.Object) (object.Object, error) {
	value, err := realArg(args, 0)
	if err != nil {
		return nil, err
	}
	if value < 0 {
		return nil, errz.RuntimeErrorf("sqrt() of negative number %s", object.FormatReal(value))
	}
	return object.NewReal(math.Sqrt(value)), nil
}

func Power(ctx context.Context, args ...object.Object) (object.Object, error) {
	base, err := realArg(args, 0)
	if err != nil {
		return nil, err
	}
	exp, err := realArg(args, 1)
	if err != nil {
		return nil, err
	}
	return object.NewReal(math.Pow(base, exp)), nil
}

func Clamp(ctx context.Context, args ...object.Object) (object.Object, error) {
	nums, err := numberArgs("clamp", args)
	if err != nil {
		return nil, err
	}
	value, lo, hi := nums[0], nums[1], nums[2]
	if object.CompareValues(value, lo) < 0 {
		return lo, nil
	}
	if object.CompareValues(value, hi) > 0 {
		return hi, nil
	}
	return value, nil
}

func Lerp(ctx context.Context, args ...object.Object) (object.Object, error) {
	values := make([]float64, 3)
	for i := range values {
		value, err := realArg(args, i)
		if err != nil {
			return nil, err
		}
		values[i] = value
	}
	a, b, amount := values[0], values[1], values[2]
	return object.NewReal(a + (b-a)*amount), nil
}

func Real(ctx context.Context, args ...object.Object) (object.Object, error) {
	value, err := realArg(args, 0)
	if err != nil {
		return nil, err
	}
	return object.NewReal(value), nil
}

func String(ctx context.Context, args ...object.Object) (object.Object, error) {
	return object.NewString(object.AsString(args[0])), nil
}

func Int64(ctx context.Context, args ...object.Object) (object.Object, error) {
	value, err := object.AsInt(args[0])
	if err != nil {
		return nil, err
	}
	return object.NewInt(value), nil
}

func Bool(ctx context.Context, args ...object.Object) (object.Object, error) {
	return object.NewBool(object.AsBool(args[0])), nil
}

func TypeOf(ctx context.Context, args ...object.Object) (object.Object, error) {
	return object.NewString(string(args[0].Type())), nil
}

func IsUndefined(ctx context.Context, args ...object.Object) (object.Object, error) {
	return object.NewBool(object.IsUndefined(args[0])), nil
}

func IsString(ctx context.Context, args ...object.Object) (object.Object, error) {
	_, ok := args[0].(*object.String)
	return object.NewBool(ok), nil
}

func IsReal(ctx context.Context, args ...object.Object) (object.Object, error) {
	_, ok := args[0].(*object.Real)
	return object.NewBool(ok), nil
}

func IsNumeric(ctx context.Context, args ...object.Object) (object.Object, error) {
	return object.NewBool(object.IsNumeric(args[0])), nil
}

func StringLength(ctx context.Context, args ...object.Object) (object.Object, error) {
	return object.NewInt(int64(utf8.RuneCountInString(object.AsString(args[0])))), nil
}

func StringUpper(ctx context.Context, args ...object.Object) (object.Object, error) {
	return object.NewString(strings.ToUpper(object.AsString(args[0]))), nil
}

func StringLower(ctx context.Context, args ...object.Object) (object.Object, error) {
	return object.NewString(strings.ToLower(object.AsString(args[0]))), nil
}

// StringCharAt returns the character at a 1-based index, or "" when the
// index is out of range.
func StringCharAt(ctx context.Context, args ...object.Object) (object.Object, error) {
	runes := []rune(object.AsString(args[0]))
	index, err := intArg(args, 1)
	if err != nil {
		return nil, err
	}
	if index < 1 || index > len(runes) {
		return object.NewString(""), nil
	}
	return object.NewString(string(runes[index-1])), nil
}

// StringCopy returns count characters starting at a 1-based index. The
// range is clamped to the string.
func StringCopy(ctx context.Context, args ...object.Object) (object.Object, error) {
	runes := []rune(object.AsString(args[0]))
	index, err := intArg(args, 1)
	if err != nil {
		return nil, err
	}
	count, err := intArg(args, 2)
	if err != nil {
		return nil, err
	}
	if index < 1 {
		index = 1
	}
	start := index - 1
	if start > len(runes) || count <= 0 {
		return object.NewString(""), nil
	}
	if count > len(runes)-start {
		count = len(runes) - start
	}
	return object.NewString(string(runes[start : start+count])), nil
}

func ArrayCreate(ctx context.Context, args ...object.Object) (object.Object, error) {
	size, err := intArg(args, 0)
	if err != nil {
		return nil, err
	}
	if size < 0 {
		return nil, errz.RuntimeErrorf("array_create() size must be >= 0 (%d given)", size)
	}
	if size > object.MaxArrayLength {
		return nil, errz.RuntimeErrorf("array_create() size %d exceeds the limit of %d", size, object.MaxArrayLength)
	}
	var fill object.Object = object.NewInt(0)
	if len(args) > 1 {
		fill = args[1]
	}
	items := make([]object.Object, size)
	for i := range items {
		items[i] = fill
	}
	return object.NewArray(items), nil
}

func ArrayLength(ctx context.Context, args ...object.Object) (object.Object, error) {
	arr, err := arrayArg("array_length", args, 0)
	if err != nil {
		return nil, err
	}
	return object.NewInt(int64(arr.Len())), nil
}

func ArrayGet(ctx context.Context, args ...object.Object) (object.Object, error) {
	arr, err := arrayArg("array_get", args, 0)
	if err != nil {
		return nil, err
	}
	index, err := object.AsInt(args[1])
	if err != nil {
		return nil, err
	}
	return arr.Get(index)
}

func ArraySet(ctx context.Context, args ...object.Object) (object.Object, error) {
	arr, err := arrayArg("array_set", args, 0)
	if err != nil {
		return nil, err
	}
	index, err := object.AsInt(args[1])
	if err != nil {
		return nil, err
	}
	if err := arr.Set(index, args[2]); err != nil {
		return nil, err
	}
	return object.Undefined, nil
}

func ArrayPush(ctx context.Context, args ...object.Object) (object.Object, error) {
	arr, err := arrayArg("array_push", args, 0)
	if err != nil {
		return nil, err
	}
	if arr.Len()+len(args)-1 > object.MaxArrayLength {
		return nil, errz.RuntimeErrorf("array_push() would exceed the array limit of %d", object.MaxArrayLength)
	}
	arr.Append(args[1:]...)
	return object.Undefined, nil
}

// DebugGetCallstack returns the caller's script stack, innermost first, as
// an array of "script:offset" strings. An optional argument caps the depth.
func DebugGetCallstack(ctx context.Context, args ...object.Object) (object.Object, error) {
	var frames []errz.StackFrame
	if s, ok := GetScope(ctx); ok && s.Stack != nil {
		frames = s.Stack()
	}
	if len(args) == 1 {
		limit, err := object.AsInt(args[0])
		if err != nil {
			return nil, err
		}
		if limit >= 0 && int(limit) < len(frames) {
			frames = frames[:limit]
		}
	}
	items := make([]object.Object, 0, len(frames))
	for _, f := range frames {
		items = append(items, object.NewString(f.Script+":"+strconv.Itoa(f.Offset)))
	}
	return object.NewArray(items), nil
}

// ShowDebugMessage logs its arguments joined by spaces at info level.
func ShowDebugMessage(ctx context.Context, args ...object.Object) (object.Object, error) {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = object.AsString(arg)
	}
	LoggerFrom(ctx).Info().Msg(strings.Join(parts, " "))
	return object.Undefined, nil
}

func registerCore(r *Registry) {
	r.MustRegister("max", Max, Arity(1, -1), Doc("Largest of the given numbers", "values..."))
	r.MustRegister("min", Min, Arity(1, -1), Doc("Smallest of the given numbers", "values..."))
	r.MustRegister("abs", Abs, Arity(1, 1), Doc("Absolute value", "x"))
	r.MustRegister("sign", Sign, Arity(1, 1), Doc("-1, 0 or 1 by the sign of x", "x"))
	r.MustRegister("floor", realFunc(math.Floor), Arity(1, 1), Doc("Round down", "x"))
	r.MustRegister("ceil", realFunc(math.Ceil), Arity(1, 1), Doc("Round up", "x"))
	r.MustRegister("round", realFunc(math.RoundToEven), Arity(1, 1), Doc("Round half to even", "x"))
	r.MustRegister("sqrt", Sqrt, Arity(1, 1), Doc("Square root", "x"))
	r.MustRegister("power", Power, Arity(2, 2), Doc("x raised to n", "x", "n"))
	r.MustRegister("clamp", Clamp, Arity(3, 3), Doc("Limit value to [lo, hi]", "value", "lo", "hi"))
	r.MustRegister("lerp", Lerp, Arity(3, 3), Doc("Linear interpolation", "a", "b", "amount"))
	r.MustRegister("real", Real, Arity(1, 1), Doc("Convert to a real", "value"))
	r.MustRegister("string", String, Arity(1, 1), Doc("Convert to a string", "value"))
	r.MustRegister("int64", Int64, Arity(1, 1), Doc("Convert to a 64-bit integer", "value"))
	r.MustRegister("bool", Bool, Arity(1, 1), Doc("Convert to a bool", "value"))
	r.MustRegister("typeof", TypeOf, Arity(1, 1), Doc("Name of the value's type", "value"))
	r.MustRegister("is_undefined", IsUndefined, Arity(1, 1), Doc("True for undefined", "value"))
	r.MustRegister("is_string", IsString, Arity(1, 1), Doc("True for strings", "value"))
	r.MustRegister("is_real", IsReal, Arity(1, 1), Doc("True for reals", "value"))
	r.MustRegister("is_numeric", IsNumeric, Arity(1, 1), Doc("True for numbers and bools", "value"))
	r.MustRegister("string_length", StringLength, Arity(1, 1), Doc("Number of characters", "str"))
	r.MustRegister("string_upper", StringUpper, Arity(1, 1), Doc("Upper-case copy", "str"))
	r.MustRegister("string_lower", StringLower, Arity(1, 1), Doc("Lower-case copy", "str"))
	r.MustRegister("string_char_at", StringCharAt, Arity(2, 2), Doc("Character at a 1-based index", "str", "index"))
	r.MustRegister("string_copy", StringCopy, Arity(3, 3), Doc("Substring from a 1-based index", "str", "index", "count"))
	r.MustRegister("array_create", ArrayCreate, Arity(1, 2), Doc("New array of size, filled with value or 0", "size", "value?"))
	r.MustRegister("array_length", ArrayLength, Arity(1, 1), Doc("Number of items", "array"))
	r.MustRegister("array_get", ArrayGet, Arity(2, 2), Doc("Item at index", "array", "index"))
	r.MustRegister("array_set", ArraySet, Arity(3, 3), Doc("Write item at index, growing the array", "array", "index", "value"))
	r.MustRegister("array_push", ArrayPush, Arity(2, -1), Doc("Append values", "array", "values..."))
	r.MustRegister("show_debug_message", ShowDebugMessage, Arity(0, -1), Doc("Log a message", "values..."))
	r.MustRegister("debug_get_callstack", DebugGetCallstack, Arity(0, 1), Doc("Script call stack as an array of \"script:offset\" strings", "maxdepth"))
}
