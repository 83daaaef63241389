package corewar

import (
	"strconv"
	"strings"
)

// Validator collects every ParseError in a warrior submission rather
// than stopping at the first, so callers can surface the full
// diagnostic set.
type Validator struct{}

// NewValidator returns a ready-to-use Validator. It carries no state;
// it exists so the API mirrors Parser's constructor symmetry.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks source text and returns every diagnostic found. The
// submission is valid iff the returned ParseErrors is empty.
func (v *Validator) Validate(source string) ParseErrors {
	lines := splitLines(source)

	if len(lines) == 0 {
		return ParseErrors{(&ParseError{Kind: EmptyCode, Message: "program contains no instructions"})}
	}

	var errs ParseErrors
	for _, line := range lines {
		if err := validateLine(line.Text); err != nil {
			errs = append(errs, err.withLine(line.Index, line.Raw))
		}
	}
	return errs
}

// validateLine checks one instruction line, returning a partial
// ParseError (no location attached yet) on the first problem found.
func validateLine(text string) *ParseError {
	toks := fields(text)
	if len(toks) == 0 {
		return &ParseError{Kind: EmptyCode, Message: "blank instruction line"}
	}

	name := strings.ToUpper(toks[0])
	op, ok := opcodeByName(name)
	if !ok {
		return &ParseError{Kind: InvalidOpcodeName, Message: "unrecognized opcode " + toks[0]}
	}

	operands := toks[1:]
	want := op.operandCount()
	if len(operands) != want {
		return &ParseError{
			Kind:    InvalidArgumentsLength,
			Message: opcodeArityMessage(name, want, len(operands)),
		}
	}

	for _, operand := range operands {
		_, numeric, kind := classifyOperand(operand)
		if kind != nil {
			return &ParseError{Kind: *kind, Message: "malformed operand " + operand}
		}
		if !isDecimalInt(numeric) {
			return &ParseError{Kind: OperandValueError, Message: "not an integer: " + operand}
		}
	}

	return nil
}

func opcodeArityMessage(name string, want, got int) string {
	return name + " expects " + strconv.Itoa(want) + " operand(s), got " + strconv.Itoa(got)
}
