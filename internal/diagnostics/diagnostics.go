// Package diagnostics holds the canonical cross-phase error shape. The
// lexer's FatalError and the parser's per-error code both get folded into
// a Diagnostic before anything is printed, so --emit-ast and --emit-tokens
// always render errors from the two phases the same way.
package diagnostics

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/mehditeymorian/boop/internal/token"
)

// Related points to a secondary source location, used when one diagnostic
// makes more sense read alongside another (e.g. "main redefined here" next
// to "first defined here").
type Related struct {
	File    string
	Line    int
	Column  int
	Message string
}

// Diagnostic is the canonical compiler diagnostic contract, shared by the
// lexer and the parser.
type Diagnostic struct {
	Severity string
	Code     string
	Message  string
	File     string
	Line     int
	Column   int
	Kind     token.Kind
	Hint     string
	Related  *Related
}

// UserMessage renders the exact user-visible form spec Section 7 mandates:
// "<message> at line L:C (<token-kind-near-cursor>)".
func (d Diagnostic) UserMessage() string {
	return fmt.Sprintf("%s at line %d:%d (%s)", d.Message, d.Line, d.Column, d.Kind)
}

// SortAndDedupe enforces deterministic output ordering and duplicate
// removal, so the same malformed input always prints the same diagnostic
// list regardless of which phase found what first.
func SortAndDedupe(in []Diagnostic) []Diagnostic {
	if len(in) == 0 {
		return nil
	}
	out := append([]Diagnostic(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		if a.Code != b.Code {
			return a.Code < b.Code
		}
		return a.Message < b.Message
	})
	seen := map[string]struct{}{}
	result := make([]Diagnostic, 0, len(out))
	for _, d := range out {
		key := dedupeKey(d)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, d)
	}
	return result
}

func dedupeKey(d Diagnostic) string {
	rk := relatedSortKey(d.Related)
	return d.Code + "|" + d.File + "|" + strconv.Itoa(d.Line) + "|" + strconv.Itoa(d.Column) + "|" + d.Message +
		"|" + rk.file + "|" + strconv.Itoa(rk.line) + "|" + strconv.Itoa(rk.column)
}

type relatedKey struct {
	file   string
	line   int
	column int
}

func relatedSortKey(r *Related) relatedKey {
	if r == nil {
		return relatedKey{}
	}
	return relatedKey{file: r.File, line: r.Line, column: r.Column}
}
