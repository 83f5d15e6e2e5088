package op

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo(Call)
	require.Equal(t, "CALL", info.Name)
	require.Equal(t, 2, info.OperandCount)
	require.Equal(t, Call, info.Code)
}

func TestGetInfoAllOpcodes(t *testing.T) {
	tests := []struct {
		code     Code
		name     string
		operands int
	}{
		{Nop, "NOP", 0},
		{Halt, "HALT", 0},
		{Call, "CALL", 2},
		{ReturnValue, "RETURN_VALUE", 0},
		{Exit, "EXIT", 0},
		{Jump, "JUMP", 1},
		{PopJumpIfFalse, "POP_JUMP_IF_FALSE", 1},
		{PopJumpIfTrue, "POP_JUMP_IF_TRUE", 1},
		{LoadConst, "LOAD_CONST", 1},
		{LoadVar, "LOAD_VAR", 1},
		{LoadLocal, "LOAD_LOCAL", 1},
		{LoadSelf, "LOAD_SELF", 1},
		{LoadGlobal, "LOAD_GLOBAL", 1},
		{LoadField, "LOAD_FIELD", 1},
		{StoreVar, "STORE_VAR", 1},
		{StoreLocal, "STORE_LOCAL", 1},
		{StoreSelf, "STORE_SELF", 1},
		{StoreGlobal, "STORE_GLOBAL", 1},
		{StoreField, "STORE_FIELD", 1},
		{DeclareLocal, "DECLARE_LOCAL", 1},
		{BinaryOp, "BINARY_OP", 1},
		{CompareOp, "COMPARE_OP", 1},
		{UnaryNegative, "UNARY_NEGATIVE", 0},
		{UnaryNot, "UNARY_NOT", 0},
		{BitNot, "BIT_NOT", 0},
		{BuildArray, "BUILD_ARRAY", 1},
		{ArrayGet, "ARRAY_GET", 0},
		{ArraySet, "ARRAY_SET", 0},
		{Dup, "DUP", 0},
		{Swap, "SWAP", 0},
		{PopTop, "POP_TOP", 0},
		{Undefined, "UNDEFINED", 0},
		{False, "FALSE", 0},
		{True, "TRUE", 0},
		{PushSelf, "PUSH_SELF", 0},
		{PushOther, "PUSH_OTHER", 0},
		{PushEnv, "PUSH_ENV", 0},
		{PopEnv, "POP_ENV", 0},
		{PushExcept, "PUSH_EXCEPT", 1},
		{PopExcept, "POP_EXCEPT", 0},
		{Throw, "THROW", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := GetInfo(tt.code)
			require.Equal(t, tt.name, info.Name)
			require.Equal(t, tt.operands, info.OperandCount)
			code, ok := Lookup(tt.name)
			require.True(t, ok)
			require.Equal(t, tt.code, code)
		})
	}
}

func TestGetInfoUnknown(t *testing.T) {
	require.Equal(t, "", GetInfo(Invalid).Name)
	require.Equal(t, "", GetInfo(Code(4000)).Name)
	_, ok := Lookup("LOAD_FAST")
	require.False(t, ok)
}

func TestOperatorStrings(t *testing.T) {
	require.Equal(t, "+", Add.String())
	require.Equal(t, "div", IntDivide.String())
	require.Equal(t, "^", BitwiseXor.String())
	require.Equal(t, "", BinaryOpType(99).String())
	require.Equal(t, ">=", GreaterThanOrEqual.String())
	require.Equal(t, "", CompareOpType(99).String())
}

func TestMnemonicTables(t *testing.T) {
	for name, bop := range BinaryOpByName {
		require.NotEmpty(t, bop.String(), name)
	}
	for name, cop := range CompareOpByName {
		require.NotEmpty(t, cop.String(), name)
	}
}
