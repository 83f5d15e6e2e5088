// Package bytecode provides immutable representations of assembled scripts.
//
// # Key Types
//
//   - [Code]: one script: its instruction stream, constant pool and name table
//   - [Program]: a set of named scripts plus the per-tick schedule, initial
//     globals and initial instances a host needs to run them
//   - [ExceptionHandler]: a handler region found in a script (value type)
//   - [SourceLocation]: maps instructions to assembly source lines (value type)
//
// # Immutability Guarantees
//
// Code and Program are immutable after construction. Constructors copy
// their input slices and accessors are index based:
//
//	code.InstructionAt(0)
//	code.ConstantAt(i)
//	code.NameAt(j)
//
// Constants are stored as Go values (int64, float64, string, bool, or nil
// for undefined) and converted to runtime values by the interpreter.
//
// # Formats
//
// Programs are written in YAML with each script body in a small assembly
// language (see [Assemble]) and loaded with [LoadYAML]. Assembled programs
// can be stored in a compact binary form with [MarshalCBOR] and read back
// with [UnmarshalCBOR].
package bytecode
