package bytecode

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/opengm-go/gmvm/op"
)

// Assembly text is a sequence of statements separated by newlines or ';'.
// A '#' starts a comment. A statement may begin with one or more labels
// ("loop:"). Mnemonics are case-insensitive and are either canonical opcode
// names (LOAD_CONST, CALL, ...) or one of the short aliases below.
var aliases = map[string]op.Code{
	"push":     op.LoadConst,
	"load":     op.LoadVar,
	"store":    op.StoreVar,
	"local":    op.DeclareLocal,
	"lload":    op.LoadLocal,
	"lstore":   op.StoreLocal,
	"gload":    op.LoadGlobal,
	"gstore":   op.StoreGlobal,
	"sload":    op.LoadSelf,
	"sstore":   op.StoreSelf,
	"field":    op.LoadField,
	"setfield": op.StoreField,
	"call":     op.Call,
	"return":   op.ReturnValue,
	"ret":      op.ReturnValue,
	"exit":     op.Exit,
	"pop":      op.PopTop,
	"jmp":      op.Jump,
	"jf":       op.PopJumpIfFalse,
	"jt":       op.PopJumpIfTrue,
	"neg":      op.UnaryNegative,
	"not":      op.UnaryNot,
	"bitnot":   op.BitNot,
	"array":    op.BuildArray,
	"aget":     op.ArrayGet,
	"aset":     op.ArraySet,
	"self":     op.PushSelf,
	"other":    op.PushOther,
	"with":     op.PushEnv,
	"endwith":  op.PopEnv,
	"try":      op.PushExcept,
	"endtry":   op.PopExcept,
}

type token struct {
	text   string
	quoted bool
	column int
}

type statement struct {
	labels []string
	tokens []token
	line   int
	column int
}

type assembler struct {
	name      string
	errs      *multierror.Error
	words     []op.Code
	locations []SourceLocation
	constants []any
	names     []string
	labels    map[string]int
	fixups    []fixup
}

type fixup struct {
	at    int
	label string
	line  int
}

// Assemble builds a Code object from assembly text. All syntax errors are
// reported together, followed by the structural checks of Validate.
func Assemble(name string, params []string, text string) (*Code, error) {
	a := &assembler{name: name, labels: map[string]int{}}
	statements := a.split(text)
	for _, stmt := range statements {
		for _, label := range stmt.labels {
			if _, exists := a.labels[label]; exists {
				a.errorf(stmt.line, "duplicate label %q", label)
				continue
			}
			a.labels[label] = len(a.words)
		}
		if len(stmt.tokens) > 0 {
			a.emit(stmt)
		}
	}
	for _, f := range a.fixups {
		target, ok := a.labels[f.label]
		if !ok {
			a.errorf(f.line, "undefined label %q", f.label)
			continue
		}
		a.words[f.at] = op.Code(target)
	}
	if err := a.errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	code := NewCode(CodeParams{
		Name:         name,
		Params:       params,
		Instructions: a.words,
		Constants:    a.constants,
		Names:        a.names,
		Source:       text,
		Locations:    a.locations,
	})
	if err := Validate(code); err != nil {
		return nil, err
	}
	return code, nil
}

// MustAssemble is like Assemble but panics on error.
func MustAssemble(name string, params []string, text string) *Code {
	code, err := Assemble(name, params, text)
	if err != nil {
		panic(err)
	}
	return code
}

func (a *assembler) errorf(line int, format string, args ...any) {
	prefix := fmt.Sprintf("%s:%d: ", a.name, line)
	a.errs = multierror.Append(a.errs, fmt.Errorf(prefix+format, args...))
}

// split tokenizes the text into statements, honoring quoted strings.
func (a *assembler) split(text string) []statement {
	var result []statement
	for i, line := range strings.Split(text, "\n") {
		lineNum := i + 1
		var stmt statement
		flush := func() {
			if len(stmt.labels) > 0 || len(stmt.tokens) > 0 {
				stmt.line = lineNum
				result = append(result, stmt)
			}
			stmt = statement{}
		}
		pos := 0
	scan:
		for pos < len(line) {
			c := line[pos]
			switch {
			case c == ' ' || c == '\t' || c == '\r' || c == ',':
				pos++
			case c == '#':
				break scan
			case c == ';':
				flush()
				pos++
			case c == '"':
				end := pos + 1
				for end < len(line) && line[end] != '"' {
					if line[end] == '\\' {
						end++
					}
					end++
				}
				if end >= len(line) {
					a.errorf(lineNum, "unterminated string")
					break scan
				}
				value, err := strconv.Unquote(line[pos : end+1])
				if err != nil {
					a.errorf(lineNum, "invalid string %s", line[pos:end+1])
				}
				a.addToken(&stmt, token{text: value, quoted: true, column: pos + 1})
				pos = end + 1
			default:
				end := pos
				for end < len(line) && !strings.ContainsRune(" \t\r,#;\"", rune(line[end])) {
					end++
				}
				word := line[pos:end]
				if len(stmt.tokens) == 0 && strings.HasSuffix(word, ":") && len(word) > 1 {
					stmt.labels = append(stmt.labels, word[:len(word)-1])
				} else {
					a.addToken(&stmt, token{text: word, column: pos + 1})
				}
				pos = end
			}
		}
		flush()
	}
	return result
}

func (a *assembler) addToken(stmt *statement, tok token) {
	if len(stmt.tokens) == 0 {
		stmt.column = tok.column
	}
	stmt.tokens = append(stmt.tokens, tok)
}

func (a *assembler) word(code op.Code, stmt statement) {
	a.words = append(a.words, code)
	a.locations = append(a.locations, SourceLocation{Line: stmt.line, Column: stmt.column})
}

func (a *assembler) emit(stmt statement) {
	mnemonic := strings.ToLower(stmt.tokens[0].text)
	args := stmt.tokens[1:]

	if t, ok := op.BinaryOpByName[mnemonic]; ok {
		a.expectArgs(stmt, args, 0)
		a.word(op.BinaryOp, stmt)
		a.word(op.Code(t), stmt)
		return
	}
	if t, ok := op.CompareOpByName[mnemonic]; ok {
		a.expectArgs(stmt, args, 0)
		a.word(op.CompareOp, stmt)
		a.word(op.Code(t), stmt)
		return
	}
	code, ok := aliases[mnemonic]
	if !ok {
		code, ok = op.Lookup(strings.ToUpper(mnemonic))
	}
	if !ok || stmt.tokens[0].quoted {
		a.errorf(stmt.line, "unknown instruction %q", stmt.tokens[0].text)
		return
	}
	info := op.GetInfo(code)
	if !a.expectArgs(stmt, args, info.OperandCount) {
		return
	}
	a.word(code, stmt)
	switch code {
	case op.LoadConst:
		value, err := parseLiteral(args[0])
		if err != nil {
			a.errorf(stmt.line, "%v", err)
		}
		a.word(op.Code(a.constant(value)), stmt)
	case op.Call:
		a.word(op.Code(a.nameIndex(args[0].text)), stmt)
		a.word(op.Code(a.integer(stmt, args[1])), stmt)
	case op.LoadVar, op.LoadLocal, op.LoadSelf, op.LoadGlobal, op.LoadField,
		op.StoreVar, op.StoreLocal, op.StoreSelf, op.StoreGlobal, op.StoreField,
		op.DeclareLocal:
		a.word(op.Code(a.nameIndex(args[0].text)), stmt)
	case op.Jump, op.PopJumpIfFalse, op.PopJumpIfTrue, op.PushExcept:
		if n, err := strconv.Atoi(args[0].text); err == nil && !args[0].quoted {
			a.word(op.Code(n), stmt)
		} else {
			a.fixups = append(a.fixups, fixup{at: len(a.words), label: args[0].text, line: stmt.line})
			a.word(0, stmt)
		}
	case op.BinaryOp:
		a.word(op.Code(a.binaryOp(stmt, args[0])), stmt)
	case op.CompareOp:
		a.word(op.Code(a.compareOp(stmt, args[0])), stmt)
	default:
		for _, arg := range args {
			a.word(op.Code(a.integer(stmt, arg)), stmt)
		}
	}
}

func (a *assembler) expectArgs(stmt statement, args []token, count int) bool {
	if len(args) != count {
		a.errorf(stmt.line, "%s expects %d operand(s) (%d given)", stmt.tokens[0].text, count, len(args))
		return false
	}
	return true
}

func (a *assembler) integer(stmt statement, tok token) int {
	n, err := strconv.Atoi(tok.text)
	if err != nil || n < 0 || tok.quoted {
		a.errorf(stmt.line, "expected a non-negative integer operand (got %q)", tok.text)
		return 0
	}
	return n
}

func (a *assembler) binaryOp(stmt statement, tok token) op.BinaryOpType {
	if t, ok := op.BinaryOpByName[strings.ToLower(tok.text)]; ok {
		return t
	}
	for t := op.Add; t <= op.BitwiseXor; t++ {
		if t.String() == tok.text {
			return t
		}
	}
	return op.BinaryOpType(a.integer(stmt, tok))
}

func (a *assembler) compareOp(stmt statement, tok token) op.CompareOpType {
	if t, ok := op.CompareOpByName[strings.ToLower(tok.text)]; ok {
		return t
	}
	for t := op.LessThan; t <= op.GreaterThanOrEqual; t++ {
		if t.String() == tok.text {
			return t
		}
	}
	return op.CompareOpType(a.integer(stmt, tok))
}

// constant returns the index of value in the constant pool, adding it if
// it is not already present with the same type.
func (a *assembler) constant(value any) int {
	for i, c := range a.constants {
		if c == value {
			return i
		}
	}
	a.constants = append(a.constants, value)
	return len(a.constants) - 1
}

func (a *assembler) nameIndex(name string) int {
	for i, n := range a.names {
		if n == name {
			return i
		}
	}
	a.names = append(a.names, name)
	return len(a.names) - 1
}

// parseLiteral converts an operand token to a constant value: a quoted
// string, true, false, undefined, an integer or a real.
func parseLiteral(tok token) (any, error) {
	if tok.quoted {
		return tok.text, nil
	}
	switch strings.ToLower(tok.text) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "undefined":
		return nil, nil
	}
	if n, err := strconv.ParseInt(tok.text, 0, 64); err == nil {
		return n, nil
	}
	if f, err := strconv.ParseFloat(tok.text, 64); err == nil {
		return f, nil
	}
	return nil, fmt.Errorf("invalid literal %q", tok.text)
}
