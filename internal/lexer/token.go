package lexer

import (
	"fmt"

	"github.com/mehditeymorian/boop/internal/intern"
	"github.com/mehditeymorian/boop/internal/token"
)

// Token is one element of the scanner's output (spec Section 3). Text is
// populated only for literals and true identifiers; it is nil for
// structural markers, punctuation, keywords, and operators, whose meaning
// is carried entirely by Kind.
type Token struct {
	Kind   token.Kind
	Text   *intern.Symbol
	Line   int // 1-based
	Column int // 0-based, byte offset of the token's first byte on its line
}

// Lit returns the token's literal text, or its kind's canonical spelling
// for tokens that don't carry interned text (operators, punctuation,
// keywords, structural markers).
func (t Token) Lit() string {
	if t.Text != nil {
		return t.Text.Text
	}
	return t.Kind.String()
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q) at %d:%d", t.Kind, t.Lit(), t.Line, t.Column)
}
