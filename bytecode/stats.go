package bytecode

// Stats contains statistics about assembled bytecode.
// This is useful for auditing scripts before execution.
type Stats struct {
	// InstructionCount is the number of instruction words, operands included.
	InstructionCount int

	// ConstantCount is the number of constants in the constant pool.
	ConstantCount int

	// NameCount is the number of variable and function names referenced.
	NameCount int

	// CallCount is the number of CALL instructions.
	CallCount int

	// SourceBytes is the size of the assembly source in bytes.
	SourceBytes int
}
