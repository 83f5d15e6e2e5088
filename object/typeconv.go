package object

import (
	"fmt"
	"strconv"

	"github.com/opengm-go/gmvm/errz"
)

// *****************************************************************************
// Coercion helpers
// *****************************************************************************

// ToNumber converts obj to an *Int or *Real. Numbers pass through, bools read
// as 0/1, undefined reads as 0, and strings parse their leading signed
// decimal prefix as a real. A string with no numeric prefix is a type
// coercion error.
func ToNumber(obj Object) (Object, error) {
	switch obj := obj.(type) {
	case *Int, *Real:
		return obj, nil
	case *Bool:
		return NewInt(obj.asInt()), nil
	case *UndefinedType:
		return NewInt(0), nil
	case *String:
		value, ok := ParseNumberPrefix(obj.value)
		if !ok {
			return nil, errz.TypeCoercionf("unable to convert string %q to a number", obj.value)
		}
		return NewReal(value), nil
	case nil:
		return NewInt(0), nil
	default:
		return nil, errz.TypeCoercionf("unable to convert %s to a number", obj.Type())
	}
}

// AsReal converts obj to a float64 using the ToNumber rules.
func AsReal(obj Object) (float64, error) {
	num, err := ToNumber(obj)
	if err != nil {
		return 0, err
	}
	switch num := num.(type) {
	case *Int:
		return float64(num.value), nil
	default:
		return num.(*Real).value, nil
	}
}

// AsInt converts obj to an int64 using the ToNumber rules. Reals are narrowed
// with round-half-to-even.
func AsInt(obj Object) (int64, error) {
	num, err := ToNumber(obj)
	if err != nil {
		return 0, err
	}
	switch num := num.(type) {
	case *Int:
		return num.value, nil
	default:
		return RoundToInt(num.(*Real).value), nil
	}
}

// AsBool converts obj to a bool: numbers are true when non-zero, undefined is
// false, strings are true when non-empty.
func AsBool(obj Object) bool {
	if obj == nil {
		return false
	}
	return obj.IsTruthy()
}

// AsString converts obj to its string form. Undefined becomes the empty
// string and numbers become their canonical decimal text.
func AsString(obj Object) string {
	switch obj := obj.(type) {
	case nil, *UndefinedType:
		return ""
	case *String:
		return obj.value
	case *Int:
		return strconv.FormatInt(obj.value, 10)
	case *Real:
		return FormatReal(obj.value)
	default:
		return obj.Inspect()
	}
}

// ParseNumberPrefix parses the longest leading signed decimal number in s,
// after optional leading whitespace. It accepts an optional fraction and an
// exponent that is followed by at least one digit. The boolean is false when
// s has no numeric prefix.
func ParseNumberPrefix(s string) (float64, bool) {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}
	start := i
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		fraction := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			fraction++
		}
		if digits > 0 || fraction > 0 {
			i = j
			digits += fraction
		}
	}
	if digits == 0 {
		return 0, false
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			i = j
		}
	}
	value, err := strconv.ParseFloat(s[start:i], 64)
	if err != nil {
		// Out of range prefixes still parse to +/-Inf.
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
			return value, true
		}
		return 0, false
	}
	return value, true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// *****************************************************************************
// Go value conversion
// *****************************************************************************

// FromGo converts a native Go value to an Object.
func FromGo(value any) (Object, error) {
	switch v := value.(type) {
	case nil:
		return Undefined, nil
	case Object:
		return v, nil
	case bool:
		return NewBool(v), nil
	case int:
		return NewInt(int64(v)), nil
	case int32:
		return NewInt(int64(v)), nil
	case int64:
		return NewInt(v), nil
	case uint8:
		return NewInt(int64(v)), nil
	case uint16:
		return NewInt(int64(v)), nil
	case uint32:
		return NewInt(int64(v)), nil
	case float32:
		return NewReal(float64(v)), nil
	case float64:
		return NewReal(v), nil
	case string:
		return NewString(v), nil
	case []any:
		items := make([]Object, 0, len(v))
		for _, item := range v {
			obj, err := FromGo(item)
			if err != nil {
				return nil, err
			}
			items = append(items, obj)
		}
		return NewArray(items), nil
	default:
		return nil, fmt.Errorf("unsupported go type %T", value)
	}
}

// AsObjects transforms a map containing Go values to a map of objects. If an
// item in the map is of a type that can't be converted, an error is returned.
func AsObjects(m map[string]any) (map[string]Object, error) {
	result := make(map[string]Object, len(m))
	for k, v := range m {
		obj, err := FromGo(v)
		if err != nil {
			return nil, fmt.Errorf("failed to convert %q: %w", k, err)
		}
		result[k] = obj
	}
	return result, nil
}
