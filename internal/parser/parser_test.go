package parser

import (
	"bytes"
	"testing"

	"github.com/mehditeymorian/boop/internal/ast"
	"github.com/mehditeymorian/boop/internal/lexer"
	"github.com/mehditeymorian/boop/internal/token"
)

// sliceLines mirrors lexer_test.go's in-memory LineReader.
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

var _ lexer.LineReader = (*sliceLines)(nil)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, ferr, errs := Parse("test.boop", lines(src))
	if ferr != nil {
		t.Fatalf("unexpected lexical fatal error: %v", ferr)
	}
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if prog == nil {
		t.Fatalf("expected a program, got nil")
	}
	return prog
}

func TestParseSimpleMainFunction(t *testing.T) {
	prog := mustParse(t, "fn main()\n\tprint 1\n")
	if len(prog.Functions) != 1 {
		t.Fatalf("expected 1 function, got %d", len(prog.Functions))
	}
	fn := prog.Functions[0]
	if fn.Name.Text != "main" {
		t.Fatalf("expected function named main, got %q", fn.Name.Text)
	}
	if len(fn.Body) != 1 {
		t.Fatalf("expected 1 statement in body, got %d", len(fn.Body))
	}
	if _, ok := fn.Body[0].(*ast.Print); !ok {
		t.Fatalf("expected a Print statement, got %T", fn.Body[0])
	}
}

// TestParsePrecedenceMultiplicationBindsTighterThanAddition exercises
// "1 + 2 * 3": the multiplication must nest under the right operand of
// the addition, not the other way around.
func TestParsePrecedenceMultiplicationBindsTighterThanAddition(t *testing.T) {
	prog := mustParse(t, "fn main()\n\tprint 1 + 2 * 3\n")
	p := prog.Functions[0].Body[0].(*ast.Print)
	add, ok := p.Value.(*ast.BinaryOp)
	if !ok || add.Op != token.ADD {
		t.Fatalf("expected top-level +, got %#v", p.Value)
	}
	if _, ok := add.Left.(*ast.Number); !ok {
		t.Fatalf("expected left operand to be a bare literal, got %T", add.Left)
	}
	mul, ok := add.Right.(*ast.BinaryOp)
	if !ok || mul.Op != token.MUL {
		t.Fatalf("expected right operand to be *, got %#v", add.Right)
	}
}

// TestParseElifChainIsRightNested exercises the shape required by the
// Data Model: elif clauses are right-nested under Else, and a terminal
// else has a nil Cond.
func TestParseElifChainIsRightNested(t *testing.T) {
	src := "fn main()\n\tif 1\n\t\tprint 1\n\telif 2\n\t\tprint 2\n\telse\n\t\tprint 3\n"
	prog := mustParse(t, src)
	root := prog.Functions[0].Body[0].(*ast.If)

	if root.Cond == nil {
		t.Fatalf("root if should have a condition")
	}
	elif := root.Else
	if elif == nil || elif.Cond == nil {
		t.Fatalf("expected an elif clause with a condition")
	}
	elseClause := elif.Else
	if elseClause == nil || elseClause.Cond != nil {
		t.Fatalf("expected a terminal else clause with a nil condition")
	}
	if elseClause.Else != nil {
		t.Fatalf("terminal else must not chain further")
	}
}

// TestParseForDefaultStepAscending exercises "for i from 0 to 10" with no
// "by": the default step must be +1 because start <= end.
func TestParseForDefaultStepAscending(t *testing.T) {
	prog := mustParse(t, "fn main()\n\tfor i from 0 to 10\n\t\tprint i\n")
	forStmt := prog.Functions[0].Body[0].(*ast.For)
	step, ok := forStmt.Step.(*ast.Number)
	if !ok || step.Value != 1 {
		t.Fatalf("expected default step +1, got %#v", forStmt.Step)
	}
}

// TestParseForDefaultStepDescending exercises "for i from 10 to 0": the
// default step must be -1 because start > end.
func TestParseForDefaultStepDescending(t *testing.T) {
	prog := mustParse(t, "fn main()\n\tfor i from 10 to 0\n\t\tprint i\n")
	forStmt := prog.Functions[0].Body[0].(*ast.For)
	step, ok := forStmt.Step.(*ast.Number)
	if !ok || step.Value != -1 {
		t.Fatalf("expected default step -1, got %#v", forStmt.Step)
	}
}

func TestParseForExplicitStepIsUsedVerbatim(t *testing.T) {
	prog := mustParse(t, "fn main()\n\tfor i from 0 to 10 by 2\n\t\tprint i\n")
	forStmt := prog.Functions[0].Body[0].(*ast.For)
	step, ok := forStmt.Step.(*ast.Number)
	if !ok || step.Value != 2 {
		t.Fatalf("expected explicit step 2, got %#v", forStmt.Step)
	}
}

// TestParseForNonLiteralBoundsWithoutByIsAnError exercises the case where
// both loop bounds are not numeric literals and "by" is omitted: the
// direction can't be inferred, so this is a syntax error.
func TestParseForNonLiteralBoundsWithoutByIsAnError(t *testing.T) {
	_, ferr, errs := Parse("test.boop", lines("fn main()\n\tfor i from n to m\n\t\tprint i\n"))
	if ferr != nil {
		t.Fatalf("unexpected lexical fatal error: %v", ferr)
	}
	if !hasErrorCode(errs, ErrForStepRequired) {
		t.Fatalf("expected %s, got %v", ErrForStepRequired, errs)
	}
}

// TestParseStringOperandRuleRejectsSubtraction exercises the restriction
// that a String operand may only appear with +, ==, !=.
func TestParseStringOperandRuleRejectsSubtraction(t *testing.T) {
	_, ferr, errs := Parse("test.boop", lines("fn main()\n\tprint \"a\" - \"b\"\n"))
	if ferr != nil {
		t.Fatalf("unexpected lexical fatal error: %v", ferr)
	}
	if !hasErrorCode(errs, ErrStringOperand) {
		t.Fatalf("expected %s, got %v", ErrStringOperand, errs)
	}
}

func TestParseStringConcatenationIsAllowed(t *testing.T) {
	prog := mustParse(t, "fn main()\n\tprint \"a\" + \"b\"\n")
	p := prog.Functions[0].Body[0].(*ast.Print)
	bin, ok := p.Value.(*ast.BinaryOp)
	if !ok || bin.Op != token.ADD {
		t.Fatalf("expected string concatenation to parse as +, got %#v", p.Value)
	}
}

func TestParseNestedFunctionIsRejected(t *testing.T) {
	_, ferr, errs := Parse("test.boop", lines("fn main()\n\tfn inner()\n\t\tprint 1\n"))
	if ferr != nil {
		t.Fatalf("unexpected lexical fatal error: %v", ferr)
	}
	if !hasErrorCode(errs, ErrNestedFunction) {
		t.Fatalf("expected %s, got %v", ErrNestedFunction, errs)
	}
}

func TestParseMissingMainIsReported(t *testing.T) {
	_, ferr, errs := Parse("test.boop", lines("fn helper()\n\tprint 1\n"))
	if ferr != nil {
		t.Fatalf("unexpected lexical fatal error: %v", ferr)
	}
	if !hasErrorCode(errs, ErrMissingMain) {
		t.Fatalf("expected %s, got %v", ErrMissingMain, errs)
	}
}

func TestParseCallAsStatementAndAsExpression(t *testing.T) {
	prog := mustParse(t, "fn main()\n\tgreet()\n\tprint add(1, 2)\n")
	body := prog.Functions[0].Body
	if len(body) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(body))
	}
	call, ok := body[0].(*ast.Call)
	if !ok || call.Name.Text != "greet" {
		t.Fatalf("expected a call statement to greet, got %#v", body[0])
	}
	printStmt := body[1].(*ast.Print)
	nested, ok := printStmt.Value.(*ast.Call)
	if !ok || nested.Name.Text != "add" || len(nested.Args) != 2 {
		t.Fatalf("expected a nested call expression to add(1, 2), got %#v", printStmt.Value)
	}
}

func TestParseWhileLoop(t *testing.T) {
	prog := mustParse(t, "fn main()\n\twhile 1\n\t\tprint 1\n")
	loop, ok := prog.Functions[0].Body[0].(*ast.While)
	if !ok {
		t.Fatalf("expected a While statement, got %#v", prog.Functions[0].Body[0])
	}
	if len(loop.Body) != 1 {
		t.Fatalf("expected 1 statement in while body, got %d", len(loop.Body))
	}
}

func TestParseAssignmentAndReturn(t *testing.T) {
	prog := mustParse(t, "fn main()\n\tx = 1\n\treturn x\n")
	body := prog.Functions[0].Body
	assign, ok := body[0].(*ast.Assignment)
	if !ok || assign.Target.Text != "x" {
		t.Fatalf("expected an assignment to x, got %#v", body[0])
	}
	ret, ok := body[1].(*ast.Return)
	if !ok {
		t.Fatalf("expected a return statement, got %#v", body[1])
	}
	ident, ok := ret.Value.(*ast.Identifier)
	if !ok || ident.Symbol.Text != "x" {
		t.Fatalf("expected return to reference x, got %#v", ret.Value)
	}
}

func TestParseTooManyErrorsAborts(t *testing.T) {
	var b bytes.Buffer
	b.WriteString("fn main()\n")
	for i := 0; i < maxParseErrors+2; i++ {
		b.WriteString("\t)\n")
	}
	_, ferr, errs := Parse("test.boop", lines(b.String()))
	if ferr != nil {
		t.Fatalf("unexpected lexical fatal error: %v", ferr)
	}
	if !hasErrorCode(errs, ErrTooManyErrors) {
		t.Fatalf("expected abort to record %s, got %v", ErrTooManyErrors, errs)
	}
}

func hasErrorCode(errs []ParseError, code string) bool {
	for _, e := range errs {
		if e.Code == code {
			return true
		}
	}
	return false
}
