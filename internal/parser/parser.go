// Package parser implements the Pratt-style recursive-descent parser (spec
// Section 4.4), grounded on the teacher's cur/peek lookahead and
// match/expect/addError shape, extended with the extra structural checks
// this grammar needs: nested-function rejection, main-function existence,
// and the string-operand restriction on binary operators.
package parser

import (
	"strconv"

	"github.com/mehditeymorian/boop/internal/ast"
	"github.com/mehditeymorian/boop/internal/lexer"
	"github.com/mehditeymorian/boop/internal/token"
)

// maxParseErrors is the error-count threshold above which parsing aborts
// and the AST is discarded (spec Section 4.4 / Section 7).
const maxParseErrors = 10

// Parser consumes a lexer.Result's token vector and builds a Program.
type Parser struct {
	file string
	toks []lexer.Token
	pos  int
	cur  lexer.Token
	peek lexer.Token

	errs    []ParseError
	inFunc  bool
	aborted bool
}

// Parse is the entry point: lex src's lines and parse the resulting
// tokens into a Program. A nil Program means the front-end failed —
// either a lexical FatalError or a discarded parse (any recorded parse
// error, including too many errors or a missing main) — and ferr/errs
// together explain why.
func Parse(file string, src lexer.LineReader) (*ast.Program, *lexer.FatalError, []ParseError) {
	lx := lexer.New(src)
	result, ferr := lx.Run()
	if ferr != nil {
		return nil, ferr, nil
	}
	p := NewParser(file, result.Tokens)
	program := p.ParseProgram()
	return program, nil, p.Errors()
}

// NewParser constructs a Parser over an already-lexed token vector.
func NewParser(file string, toks []lexer.Token) *Parser {
	p := &Parser{file: file, toks: toks}
	p.cur = p.fetch(0)
	p.peek = p.fetch(1)
	return p
}

func (p *Parser) fetch(idx int) lexer.Token {
	if idx < len(p.toks) {
		return p.toks[idx]
	}
	if len(p.toks) == 0 {
		return lexer.Token{Kind: token.EOF}
	}
	return lexer.Token{Kind: token.EOF, Line: p.toks[len(p.toks)-1].Line}
}

// Errors returns every parser diagnostic recorded during the run.
func (p *Parser) Errors() []ParseError {
	return p.errs
}

func (p *Parser) advance() {
	p.pos++
	p.cur = p.peek
	p.peek = p.fetch(p.pos + 1)
}

func (p *Parser) match(kind token.Kind) bool {
	if p.cur.Kind == kind {
		p.advance()
		return true
	}
	return false
}

// expect advances past cur if it matches kind, recording an error and
// returning the unmatched token otherwise (spec Section 4.4, "expect").
func (p *Parser) expect(kind token.Kind, what string) lexer.Token {
	if p.cur.Kind != kind {
		p.addError(ErrExpectedToken, "expected "+what, p.cur.Line, p.cur.Column)
		return p.cur
	}
	tok := p.cur
	p.advance()
	return tok
}

// addError records a diagnostic with the token kind at the current cursor
// position, the "token-kind-near-cursor" spec Section 7's user-visible form
// requires.
func (p *Parser) addError(code, message string, line, col int) {
	if p.aborted {
		return
	}
	kind := p.cur.Kind
	p.errs = append(p.errs, ParseError{Code: code, Message: message, Line: line, Column: col, Kind: kind})
	if len(p.errs) > maxParseErrors {
		p.aborted = true
		p.errs = append(p.errs, ParseError{Code: ErrTooManyErrors, Message: "too many errors, aborting", Line: line, Column: col, Kind: kind})
	}
}

func spanOf(tok lexer.Token) ast.Span {
	pos := ast.Position{Line: tok.Line, Column: tok.Column}
	return ast.Span{Start: pos, End: pos}
}

func join(a, b ast.Span) ast.Span {
	return ast.Span{Start: a.Start, End: b.End}
}

// ParseProgram parses every top-level declaration. Only "fn" is legal at
// this level (spec Section 4.4, "Top level"); anything else is a syntax
// error and the parser resynchronizes at the next NEWLINE.
func (p *Parser) ParseProgram() *ast.Program {
	var funcs []*ast.Function
	var span ast.Span
	first := true

	for p.cur.Kind != token.EOF && !p.aborted {
		if p.cur.Kind == token.NEWLINE {
			p.advance()
			continue
		}
		if p.cur.Kind != token.FN {
			p.addError(ErrUnexpectedToken, "expected a function declaration at top level", p.cur.Line, p.cur.Column)
			p.syncTop()
			continue
		}
		fn := p.parseFunction()
		if fn != nil {
			funcs = append(funcs, fn)
			if first {
				span = fn.Span
				first = false
			} else {
				span = join(span, fn.Span)
			}
		}
	}

	if p.aborted {
		return nil
	}

	hasMain := false
	for _, fn := range funcs {
		if fn.Name != nil && fn.Name.Text == "main" {
			hasMain = true
			break
		}
	}
	if !hasMain {
		p.addError(ErrMissingMain, "no function named \"main\" was declared", p.cur.Line, p.cur.Column)
	}

	if len(p.errs) > 0 {
		return nil // spec Section 7: any recorded error discards the AST
	}
	return &ast.Program{Functions: funcs, Span: span}
}

func (p *Parser) syncTop() {
	for p.cur.Kind != token.NEWLINE && p.cur.Kind != token.EOF {
		p.advance()
	}
	if p.cur.Kind == token.NEWLINE {
		p.advance()
	}
}

// parseFunction parses "fn NAME ( params? ) block". Nested calls (from
// inside parseBlock, when inFunc is already true) are rejected before
// this function is reached; see parseStatement's FN case.
func (p *Parser) parseFunction() *ast.Function {
	startTok := p.cur
	p.advance() // fn

	nameTok := p.expect(token.IDENTIFIER, "a function name")
	nameSym := nameTok.Text

	p.expect(token.LPAREN, "'(' after function name")

	var params []*ast.Identifier
	if p.cur.Kind != token.RPAREN {
		for {
			idTok := p.expect(token.IDENTIFIER, "a parameter name")
			params = append(params, &ast.Identifier{Symbol: idTok.Text, Span: spanOf(idTok)})
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	endParen := p.expect(token.RPAREN, "')' to close the parameter list")

	wasInFunc := p.inFunc
	p.inFunc = true
	body := p.parseBlock()
	p.inFunc = wasInFunc

	return &ast.Function{
		Name:   nameSym,
		Params: params,
		Body:   body,
		Span:   join(spanOf(startTok), spanOf(endParen)),
	}
}

// parseBlock parses "NEWLINE INDENT statement* DEDENT" (spec Section 4.4,
// "Block parsing"). A missing DEDENT before EOF is tolerated, matching
// the spec's note that this is fine "at the top of the call stack".
func (p *Parser) parseBlock() []ast.Stmt {
	p.expect(token.NEWLINE, "a newline before an indented block")
	p.expect(token.INDENT, "an indented block")

	var stmts []ast.Stmt
	for p.cur.Kind != token.DEDENT && p.cur.Kind != token.EOF && !p.aborted {
		if p.cur.Kind == token.NEWLINE {
			p.advance()
			continue
		}
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	if p.cur.Kind == token.DEDENT {
		p.advance()
	}
	return stmts
}

// parseStatement dispatches on the current token kind (spec Section 4.4,
// "Statement dispatch").
func (p *Parser) parseStatement() ast.Stmt {
	switch p.cur.Kind {
	case token.FN:
		p.addError(ErrNestedFunction, "nested function definitions are not allowed", p.cur.Line, p.cur.Column)
		p.syncTop()
		return nil
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseFor()
	case token.PRINT:
		return p.parsePrint()
	case token.RETURN:
		return p.parseReturn()
	case token.MATCH:
		p.addError(ErrNotImplemented, "match is reserved but not yet implemented", p.cur.Line, p.cur.Column)
		p.syncTop()
		return nil
	case token.IDENTIFIER:
		if p.peek.Kind == token.LPAREN {
			call := p.parseCall()
			p.match(token.NEWLINE)
			return call
		}
		if p.peek.Kind == token.ASSIGN {
			return p.parseAssignment()
		}
		val := p.parseExpr(precLowest)
		p.match(token.NEWLINE)
		return &ast.ExprStmt{Value: val, Span: val.SourceSpan()}
	default:
		p.addError(ErrUnexpectedToken, "unexpected token at statement position", p.cur.Line, p.cur.Column)
		tok := p.cur
		p.syncTop()
		return &ast.ExprStmt{Value: &ast.Number{Value: 0}, Span: spanOf(tok)}
	}
}

// parseIf parses "if COND block", then any chain of "elif COND block"
// clauses, then an optional terminal "else block" — represented as a
// right-nested chain of *ast.If with Cond == nil at the terminal else
// (spec Section 8, scenario 3).
func (p *Parser) parseIf() ast.Stmt {
	startTok := p.cur
	p.advance() // if
	cond := p.parseExpr(precLowest)
	body := p.parseBlock()
	root := &ast.If{Cond: cond, Body: body, Span: spanOf(startTok)}

	tail := root
	for p.cur.Kind == token.ELIF {
		p.advance()
		c := p.parseExpr(precLowest)
		b := p.parseBlock()
		next := &ast.If{Cond: c, Body: b, Span: spanOf(p.cur)}
		tail.Else = next
		tail = next
	}
	if p.cur.Kind == token.ELSE {
		p.advance()
		b := p.parseBlock()
		tail.Else = &ast.If{Cond: nil, Body: b, Span: spanOf(p.cur)}
	}
	return root
}

func (p *Parser) parseWhile() ast.Stmt {
	startTok := p.cur
	p.advance() // while
	cond := p.parseExpr(precLowest)
	body := p.parseBlock()
	return &ast.While{Cond: cond, Body: body, Span: spanOf(startTok)}
}

// parseFor parses "for IDENT from START to END [by STEP] block". When
// "by" is omitted, the step defaults to +1 or -1 chosen by comparing
// START and END as numeric literals; if either bound isn't a literal
// number, the direction is undecidable and this is a syntax error (spec
// Section 4.4, "For").
func (p *Parser) parseFor() ast.Stmt {
	startTok := p.cur
	p.advance() // for
	varTok := p.expect(token.IDENTIFIER, "a loop variable")
	p.expect(token.FROM, "'from' after the loop variable")
	start := p.parseExpr(precLowest)
	p.expect(token.TO, "'to' after the loop start value")
	end := p.parseExpr(precLowest)

	var step ast.Expr
	if p.match(token.BY) {
		step = p.parseExpr(precLowest)
	} else {
		step = p.defaultForStep(start, end)
	}
	body := p.parseBlock()

	init := &ast.Assignment{Target: varTok.Text, Value: start, Span: spanOf(varTok)}
	return &ast.For{Init: init, Cond: end, Step: step, Body: body, Span: spanOf(startTok)}
}

func (p *Parser) defaultForStep(start, end ast.Expr) ast.Expr {
	sNum, sOK := start.(*ast.Number)
	eNum, eOK := end.(*ast.Number)
	if !sOK || !eOK {
		p.addError(ErrForStepRequired, "'by' is required when the loop bounds are not numeric literals", p.cur.Line, p.cur.Column)
		return &ast.Number{Value: 1}
	}
	if sNum.Value <= eNum.Value {
		return &ast.Number{Value: 1}
	}
	return &ast.Number{Value: -1}
}

func (p *Parser) parseAssignment() ast.Stmt {
	identTok := p.cur
	p.advance()
	p.expect(token.ASSIGN, "'=' in an assignment")
	val := p.parseExpr(precLowest)
	p.match(token.NEWLINE)
	return &ast.Assignment{Target: identTok.Text, Value: val, Span: spanOf(identTok)}
}

func (p *Parser) parsePrint() ast.Stmt {
	startTok := p.cur
	p.advance() // print
	val := p.parseExpr(precLowest)
	p.match(token.NEWLINE)
	return &ast.Print{Value: val, Span: spanOf(startTok)}
}

func (p *Parser) parseReturn() ast.Stmt {
	startTok := p.cur
	p.advance() // return
	var val ast.Expr
	if p.cur.Kind != token.NEWLINE && p.cur.Kind != token.DEDENT && p.cur.Kind != token.EOF {
		val = p.parseExpr(precLowest)
	}
	p.match(token.NEWLINE)
	return &ast.Return{Value: val, Span: spanOf(startTok)}
}

// parseCall parses "IDENT ( args? )", used both as a statement (spec
// Section 4.4, "IDENTIFIER followed by (") and, via parsePrimary, as an
// expression.
func (p *Parser) parseCall() *ast.Call {
	nameTok := p.cur
	p.advance() // identifier
	p.advance() // (

	var args []ast.Expr
	if p.cur.Kind != token.RPAREN {
		for {
			args = append(args, p.parseExpr(precLowest))
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	endTok := p.expect(token.RPAREN, "')' to close the argument list")
	return &ast.Call{Name: nameTok.Text, Args: args, Span: join(spanOf(nameTok), spanOf(endTok))}
}

// precedence handling (spec Section 4.4, "Precedence table")

type prec int

const (
	precLowest prec = iota
	precOr
	precAnd
	precEquality
	precRelational
	precAdditive
	precMultiplicative
	precCaret
	precPrefix
)

func infixPrec(kind token.Kind) (prec, bool) {
	switch kind {
	case token.OROR:
		return precOr, true
	case token.ANDAND:
		return precAnd, true
	case token.EQ, token.NEQ:
		return precEquality, true
	case token.LT, token.LTE, token.GT, token.GTE:
		return precRelational, true
	case token.ADD, token.SUB:
		return precAdditive, true
	case token.MUL, token.DIV, token.MOD:
		return precMultiplicative, true
	case token.CARET:
		return precCaret, true
	default:
		return 0, false
	}
}

func isUnaryOp(kind token.Kind) bool {
	switch kind {
	case token.NOT, token.SUB, token.TILDE, token.INC, token.DEC:
		return true
	default:
		return false
	}
}

// parseExpr is the Pratt loop: parse a prefix, then fold in binary
// operators whose precedence is at least min, left-associatively (the
// recursive call parses the RHS at prec+1).
func (p *Parser) parseExpr(min prec) ast.Expr {
	left := p.parsePrefix()

	for {
		opPrec, ok := infixPrec(p.cur.Kind)
		if !ok || opPrec < min {
			break
		}
		op := p.cur.Kind
		p.advance()
		right := p.parseExpr(opPrec + 1)

		if violation := p.stringOperandViolation(left, right, op); violation {
			p.addError(ErrStringOperand, "operator not permitted for string operands", p.cur.Line, p.cur.Column)
			return left
		}

		left = &ast.BinaryOp{Op: op, Left: left, Right: right, Span: join(left.SourceSpan(), right.SourceSpan())}
	}
	return left
}

func (p *Parser) stringOperandViolation(left, right ast.Expr, op token.Kind) bool {
	_, leftIsString := left.(*ast.String)
	_, rightIsString := right.(*ast.String)
	if !leftIsString && !rightIsString {
		return false
	}
	switch op {
	case token.ADD, token.EQ, token.NEQ:
		return false
	default:
		return true
	}
}

func (p *Parser) parsePrefix() ast.Expr {
	if isUnaryOp(p.cur.Kind) {
		opTok := p.cur
		p.advance()
		operand := p.parseExpr(precPrefix)
		return &ast.UnaryOp{Op: opTok.Kind, Operand: operand, Span: join(spanOf(opTok), operand.SourceSpan())}
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() ast.Expr {
	switch p.cur.Kind {
	case token.IDENTIFIER:
		if p.peek.Kind == token.LPAREN {
			return p.parseCall()
		}
		tok := p.cur
		p.advance()
		return &ast.Identifier{Symbol: tok.Text, Span: spanOf(tok)}
	case token.STRING:
		tok := p.cur
		p.advance()
		return &ast.String{Symbol: tok.Text, Span: spanOf(tok)}
	case token.INTEGER, token.FLOAT:
		tok := p.cur
		p.advance()
		val, _ := strconv.ParseFloat(tok.Text.Text, 64)
		return &ast.Number{Value: val, IsFloat: tok.Kind == token.FLOAT, Span: spanOf(tok)}
	case token.LPAREN:
		p.advance()
		expr := p.parseExpr(precLowest)
		p.expect(token.RPAREN, "')' to close the expression")
		return expr
	case token.TRUE, token.FALSE:
		p.addError(ErrNotImplemented, "boolean literals are reserved but not yet implemented", p.cur.Line, p.cur.Column)
		tok := p.cur
		p.advance()
		return &ast.Number{Value: 0, Span: spanOf(tok)}
	default:
		p.addError(ErrUnexpectedToken, "unexpected token in expression", p.cur.Line, p.cur.Column)
		tok := p.cur
		p.advance()
		return &ast.Number{Value: 0, Span: spanOf(tok)}
	}
}
