package parser

import (
	"fmt"

	"github.com/mehditeymorian/boop/internal/token"
)

// Parser error codes (spec Section 7, "Structural" and "Syntactic").
const (
	ErrExpectedToken   = "E_PARSE_EXPECTED_TOKEN"
	ErrUnexpectedToken = "E_PARSE_UNEXPECTED_TOKEN"
	ErrNestedFunction  = "E_PARSE_NESTED_FUNCTION"
	ErrMissingMain     = "E_PARSE_MISSING_MAIN"
	ErrStringOperand   = "E_PARSE_STRING_OPERAND"
	ErrForStepRequired = "E_PARSE_FOR_STEP_REQUIRED"
	ErrNotImplemented  = "E_PARSE_NOT_IMPLEMENTED"
	ErrTooManyErrors   = "E_PARSE_TOO_MANY_ERRORS"
)

// ParseError captures a parser diagnostic before it is folded into a
// diagnostics.Diagnostic for printing. Kind is the token kind at the
// parser's cursor when the error was recorded, the "token-kind-near-cursor"
// clause spec Section 7's user-visible form requires.
type ParseError struct {
	Code    string
	Message string
	Line    int
	Column  int
	Kind    token.Kind
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%s: %s at line %d:%d (%s)", e.Code, e.Message, e.Line, e.Column, e.Kind)
}
