package printer

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mehditeymorian/boop/internal/parser"
)

type sliceLines struct {
	lines [][]byte
	pos   int
}

func lines(src string) *sliceLines {
	return &sliceLines{lines: bytes.Split([]byte(src), []byte("\n"))}
}

func (s *sliceLines) NextLine() ([]byte, bool) {
	if s.pos >= len(s.lines) {
		return nil, false
	}
	l := s.lines[s.pos]
	s.pos++
	return l, true
}

func TestASTPrintsFunctionAndStatements(t *testing.T) {
	prog, ferr, errs := parser.Parse("t.boop", lines("fn main()\n\tprint 1 + 2\n"))
	require.Nil(t, ferr)
	require.Empty(t, errs)

	var buf bytes.Buffer
	require.NoError(t, AST(&buf, prog))

	out := buf.String()
	require.Contains(t, out, "Function main()")
	require.Contains(t, out, "Print")
	require.Contains(t, out, "BinaryOp +")
}

func TestWriteIRProducesReadableJSON(t *testing.T) {
	prog, ferr, errs := parser.Parse("t.boop", lines("fn main()\n\treturn 1\n"))
	require.Nil(t, ferr)
	require.Empty(t, errs)

	path := filepath.Join(t.TempDir(), "out.ast.json")
	require.NoError(t, WriteIR(path, prog))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	funcs, ok := decoded["functions"].([]interface{})
	require.True(t, ok)
	require.Len(t, funcs, 1)
}
