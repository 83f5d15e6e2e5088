// Package op defines the opcodes executed by the gmvm interpreter.
package op

// Code is an integer opcode that indicates an operation to execute. Operands
// are stored inline in the instruction stream as additional Code values.
type Code uint16

const (
	Invalid Code = 0

	// Execution
	Nop         Code = 1
	Halt        Code = 2
	Call        Code = 3 // operands: name index, argc
	ReturnValue Code = 4
	Exit        Code = 5 // return undefined

	// Jump (absolute targets)
	Jump           Code = 10
	PopJumpIfFalse Code = 11
	PopJumpIfTrue  Code = 12

	// Load
	LoadConst  Code = 20
	LoadVar    Code = 21 // local -> self -> global
	LoadLocal  Code = 22
	LoadSelf   Code = 23
	LoadGlobal Code = 24
	LoadField  Code = 25 // instance reference on the stack

	// Store
	StoreVar     Code = 30
	StoreLocal   Code = 31
	StoreSelf    Code = 32
	StoreGlobal  Code = 33
	StoreField   Code = 34
	DeclareLocal Code = 35

	// Operations
	BinaryOp      Code = 40
	CompareOp     Code = 41
	UnaryNegative Code = 42
	UnaryNot      Code = 43
	BitNot        Code = 44

	// Arrays
	BuildArray Code = 50
	ArrayGet   Code = 51
	ArraySet   Code = 52

	// Stack
	Dup    Code = 60
	Swap   Code = 61
	PopTop Code = 62

	// Push constants
	Undefined Code = 70
	False     Code = 71
	True      Code = 72

	// Instance context
	PushSelf  Code = 80
	PushOther Code = 81
	PushEnv   Code = 82 // pop an instance reference and run as it
	PopEnv    Code = 83

	// Exception handling
	PushExcept Code = 90 // operand: handler target
	PopExcept  Code = 91
	Throw      Code = 92
)

// BinaryOpType describes a type of binary operation, as in an operation that
// takes two operands. For example, addition, subtraction, multiplication, etc.
type BinaryOpType uint16

const (
	Add        BinaryOpType = 1
	Subtract   BinaryOpType = 2
	Multiply   BinaryOpType = 3
	Divide     BinaryOpType = 4
	Modulo     BinaryOpType = 5
	And        BinaryOpType = 6
	Or         BinaryOpType = 7
	Xor        BinaryOpType = 8
	IntDivide  BinaryOpType = 9
	LShift     BinaryOpType = 10
	RShift     BinaryOpType = 11
	BitwiseAnd BinaryOpType = 12
	BitwiseOr  BinaryOpType = 13
	BitwiseXor BinaryOpType = 14
)

// String returns a string representation of the binary operation.
// For example "+" for addition.
func (bop BinaryOpType) String() string {
	switch bop {
	case Add:
		return "+"
	case Subtract:
		return "-"
	case Multiply:
		return "*"
	case Divide:
		return "/"
	case Modulo:
		return "mod"
	case And:
		return "&&"
	case Or:
		return "||"
	case Xor:
		return "^^"
	case IntDivide:
		return "div"
	case LShift:
		return "<<"
	case RShift:
		return ">>"
	case BitwiseAnd:
		return "&"
	case BitwiseOr:
		return "|"
	case BitwiseXor:
		return "^"
	default:
		return ""
	}
}

// CompareOpType describes a type of comparison operation. For example, less
// than, greater than, equal, etc.
type CompareOpType uint16

const (
	LessThan           CompareOpType = 1
	LessThanOrEqual    CompareOpType = 2
	Equal              CompareOpType = 3
	NotEqual           CompareOpType = 4
	GreaterThan        CompareOpType = 5
	GreaterThanOrEqual CompareOpType = 6
)

// String returns a string representation of the comparison operation.
// For example "<" for less than.
func (cop CompareOpType) String() string {
	switch cop {
	case LessThan:
		return "<"
	case LessThanOrEqual:
		return "<="
	case Equal:
		return "=="
	case NotEqual:
		return "!="
	case GreaterThan:
		return ">"
	case GreaterThanOrEqual:
		return ">="
	default:
		return ""
	}
}

// Info contains information about an opcode.
type Info struct {
	Code         Code
	Name         string
	OperandCount int
}

var (
	infos  = make([]Info, 256)
	byName = map[string]Code{}
)

func init() {
	type opInfo struct {
		op    Code
		name  string
		count int
	}
	ops := []opInfo{
		{ArrayGet, "ARRAY_GET", 0},
		{ArraySet, "ARRAY_SET", 0},
		{BinaryOp, "BINARY_OP", 1},
		{BitNot, "BIT_NOT", 0},
		{BuildArray, "BUILD_ARRAY", 1},
		{Call, "CALL", 2},
		{CompareOp, "COMPARE_OP", 1},
		{DeclareLocal, "DECLARE_LOCAL", 1},
		{Dup, "DUP", 0},
		{Exit, "EXIT", 0},
		{False, "FALSE", 0},
		{Halt, "HALT", 0},
		{Jump, "JUMP", 1},
		{LoadConst, "LOAD_CONST", 1},
		{LoadField, "LOAD_FIELD", 1},
		{LoadGlobal, "LOAD_GLOBAL", 1},
		{LoadLocal, "LOAD_LOCAL", 1},
		{LoadSelf, "LOAD_SELF", 1},
		{LoadVar, "LOAD_VAR", 1},
		{Nop, "NOP", 0},
		{PopEnv, "POP_ENV", 0},
		{PopExcept, "POP_EXCEPT", 0},
		{PopJumpIfFalse, "POP_JUMP_IF_FALSE", 1},
		{PopJumpIfTrue, "POP_JUMP_IF_TRUE", 1},
		{PopTop, "POP_TOP", 0},
		{PushEnv, "PUSH_ENV", 0},
		{PushExcept, "PUSH_EXCEPT", 1},
		{PushOther, "PUSH_OTHER", 0},
		{PushSelf, "PUSH_SELF", 0},
		{ReturnValue, "RETURN_VALUE", 0},
		{StoreField, "STORE_FIELD", 1},
		{StoreGlobal, "STORE_GLOBAL", 1},
		{StoreLocal, "STORE_LOCAL", 1},
		{StoreSelf, "STORE_SELF", 1},
		{StoreVar, "STORE_VAR", 1},
		{Swap, "SWAP", 0},
		{Throw, "THROW", 0},
		{True, "TRUE", 0},
		{UnaryNegative, "UNARY_NEGATIVE", 0},
		{UnaryNot, "UNARY_NOT", 0},
		{Undefined, "UNDEFINED", 0},
	}
	for _, o := range ops {
		infos[o.op] = Info{
			Name:         o.name,
			Code:         o.op,
			OperandCount: o.count,
		}
		byName[o.name] = o.op
	}
}

// GetInfo returns information about the given opcode.
func GetInfo(op Code) Info {
	if int(op) >= len(infos) {
		return Info{}
	}
	return infos[op]
}

// Lookup returns the opcode with the given name, e.g. "LOAD_CONST".
func Lookup(name string) (Code, bool) {
	code, ok := byName[name]
	return code, ok
}

// BinaryOpByName maps the assembler mnemonics to binary operation types.
var BinaryOpByName = map[string]BinaryOpType{
	"add":    Add,
	"sub":    Subtract,
	"mul":    Multiply,
	"div":    Divide,
	"mod":    Modulo,
	"and":    And,
	"or":     Or,
	"xor":    Xor,
	"idiv":   IntDivide,
	"shl":    LShift,
	"shr":    RShift,
	"bitand": BitwiseAnd,
	"bitor":  BitwiseOr,
	"bitxor": BitwiseXor,
}

// CompareOpByName maps the assembler mnemonics to comparison types.
var CompareOpByName = map[string]CompareOpType{
	"lt": LessThan,
	"le": LessThanOrEqual,
	"eq": Equal,
	"ne": NotEqual,
	"gt": GreaterThan,
	"ge": GreaterThanOrEqual,
}
