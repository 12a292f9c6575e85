package lexer

import (
	"fmt"

	"github.com/mehditeymorian/boop/internal/token"
)

// Lexical error codes (spec Section 7). Every one of these is fatal: the
// scanner stops at the line that triggered it and Run returns immediately,
// matching the "current implementation tradition" the spec calls out rather
// than the recoverable-with-UNKNOWN-token upgrade it leaves optional.
const (
	ErrMixedIndentation   = "E_LEX_MIXED_INDENT"
	ErrInconsistentIndent = "E_LEX_INCONSISTENT_INDENT"
	ErrIndentIncrease     = "E_LEX_INDENT_INCREASE"
	ErrIndentOverflow     = "E_LEX_INDENT_OVERFLOW"
	ErrInvalidDedent      = "E_LEX_INVALID_DEDENT"
	ErrMalformedNumber    = "E_LEX_MALFORMED_NUMBER"
	ErrUnterminatedString = "E_LEX_UNTERMINATED_STRING"
	ErrUnknownEscape      = "E_LEX_UNKNOWN_ESCAPE"
	ErrInvalidSymbol      = "E_LEX_INVALID_SYMBOL"
)

// FatalError is the one error shape the lexer produces. Unlike the parser,
// which collects diagnostics and keeps going, the lexer can't make sense of
// the indent stack once one of these fires, so it stops cold.
//
// Kind is always token.ILLEGAL: every lexical fatal error fires either
// before any token for the current position has been formed (indentation
// errors) or partway through scanning one (a number with two decimal
// points, an unterminated string), so there is no completed token kind to
// report near the cursor, unlike the parser's ParseError.Kind.
type FatalError struct {
	Code    string
	Message string
	Line    int
	Column  int
	Kind    token.Kind
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s: %s at line %d:%d (%s)", e.Code, e.Message, e.Line, e.Column, e.Kind)
}
