package corewar

import (
	"errors"
	"fmt"
)

// Runtime errors. These kill the offending process in Process.tick and
// are never returned from Machine.Round/Run.
var (
	errBadOpcode = errors.New("bad opcode")
	errBadModeA  = errors.New("bad mode for operand a")
	errBadModeB  = errors.New("bad mode for operand b")
	errDatTrap   = errors.New("executed DAT")
)

// errBadMode is raised by address/value resolution when asked to take
// the address of an IMMEDIATE operand.
var errBadMode = errors.New("bad mode: immediate operand has no address")

// Load-time errors.
var (
	errOutOfMemory         = errors.New("out of memory: no free sector large enough")
	errMachineAlreadyRun   = errors.New("machine already running")
	errSizeLimitExceeded   = errors.New("program exceeds max program size")
)

// ParseErrorKind enumerates the recognized categories of compile-time
// diagnostics. The zero value is never produced by the validator.
type ParseErrorKind int

const (
	InvalidArgumentsLength ParseErrorKind = iota + 1
	InvalidOpcodeName
	EmptyCode
	OperandPrefixError
	OperandValueError
)

func (k ParseErrorKind) String() string {
	switch k {
	case InvalidArgumentsLength:
		return "invalid arguments length"
	case InvalidOpcodeName:
		return "invalid opcode name"
	case EmptyCode:
		return "empty code"
	case OperandPrefixError:
		return "operand prefix error"
	case OperandValueError:
		return "operand value error"
	default:
		return "unknown parse error"
	}
}

// ParseError is a single per-line compile-time diagnostic. LineIndex is
// 1-based; it is zero on a "partial" error that has not yet been
// attached to a source line by the Validator.
type ParseError struct {
	Kind      ParseErrorKind
	Message   string
	LineIndex int
	LineText  string
}

func (e *ParseError) Error() string {
	if e.LineIndex == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("line %d: %s: %s (%q)", e.LineIndex, e.Kind, e.Message, e.LineText)
}

// withLine returns a copy of a partial ParseError attached to the given
// source location.
func (e ParseError) withLine(index int, text string) *ParseError {
	e.LineIndex = index
	e.LineText = text
	return &e
}

// ParseErrors aggregates every diagnostic the Validator collected for a
// single warrior submission. It satisfies error so that Machine.LoadCode
// can hand callers one value carrying the full diagnostic set instead of
// only the first failure.
type ParseErrors []*ParseError

func (errs ParseErrors) Error() string {
	if len(errs) == 0 {
		return "no parse errors"
	}
	msg := fmt.Sprintf("%d parse error(s):", len(errs))
	for _, e := range errs {
		msg += "\n  " + e.Error()
	}
	return msg
}
