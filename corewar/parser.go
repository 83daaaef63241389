package corewar

import (
	"strconv"
	"strings"
)

// sourceLine is one non-blank, comment-stripped line of Redcode source,
// tagged with its original 1-based line number and raw text (for
// diagnostics).
type sourceLine struct {
	Index int
	Text  string // comment-stripped, trimmed
	Raw   string // original text, for ParseError.LineText
}

// splitLines strips comments (from CommentSign to end of line) and
// blank lines, returning the remaining lines in source order.
func splitLines(source string) []sourceLine {
	var out []sourceLine
	for i, raw := range strings.Split(source, "\n") {
		text := raw
		if idx := strings.IndexByte(text, CommentSign); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		out = append(out, sourceLine{Index: i + 1, Text: text, Raw: strings.TrimRight(raw, "\r\n")})
	}
	return out
}

// fields splits an instruction line into opcode + operand tokens.
// Commas are treated as whitespace, as are runs of spaces/tabs.
func fields(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}

// classifyOperand determines the addressing mode and numeric substring
// of one operand token. It returns a non-nil kind when the token's
// prefix character is not one of '#', '@', '-', or a digit.
func classifyOperand(tok string) (mode Mode, numeric string, kind *ParseErrorKind) {
	if tok == "" {
		k := OperandValueError
		return 0, "", &k
	}

	switch tok[0] {
	case '#':
		return Immediate, tok[1:], nil
	case '@':
		return Indirect, tok[1:], nil
	default:
		if tok[0] == '-' || (tok[0] >= '0' && tok[0] <= '9') {
			return Relative, tok, nil
		}
		k := OperandPrefixError
		return 0, "", &k
	}
}

// isDecimalInt reports whether s matches the operand grammar's int
// production: ['-'] digit+.
func isDecimalInt(s string) bool {
	if s == "" {
		return false
	}
	i := 0
	if s[0] == '-' {
		i = 1
	}
	if i >= len(s) {
		return false
	}
	for ; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Parser turns pre-validated Redcode source into an ordered instruction
// list. Callers must run Validator.Validate first; Parser does not
// re-check syntax beyond what is needed to build Instructions.
type Parser struct {
	// InstructionLimit caps the number of instruction lines a program
	// may contain. nil disables the check.
	InstructionLimit *int
}

// NewParser returns a Parser enforcing DefaultMaxProgramSize.
func NewParser() *Parser {
	limit := DefaultMaxProgramSize
	return &Parser{InstructionLimit: &limit}
}

// Parse builds the instruction list for already-validated source text.
func (p *Parser) Parse(source string) ([]Instruction, error) {
	lines := splitLines(source)

	if p.InstructionLimit != nil && len(lines) > *p.InstructionLimit {
		return nil, errSizeLimitExceeded
	}

	instrs := make([]Instruction, 0, len(lines))
	for _, line := range lines {
		ins, err := parseLine(line.Text)
		if err != nil {
			return nil, err
		}
		instrs = append(instrs, ins)
	}
	return instrs, nil
}

// parseLine parses one already-validated instruction line.
func parseLine(text string) (Instruction, error) {
	toks := fields(text)
	name := strings.ToUpper(toks[0])
	op, _ := opcodeByName(name)
	operands := toks[1:]

	if op.operandCount() == 1 {
		mode, numeric, _ := classifyOperand(operands[0])
		value, _ := strconv.Atoi(numeric)
		return NewInstruction1(op, mode, value), nil
	}

	modeA, numA, _ := classifyOperand(operands[0])
	a, _ := strconv.Atoi(numA)
	modeB, numB, _ := classifyOperand(operands[1])
	b, _ := strconv.Atoi(numB)
	return NewInstruction(op, modeA, a, modeB, b), nil
}
