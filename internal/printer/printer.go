// Package printer renders tokens and the AST for the CLI's --emit-tokens,
// --emit-ast, and --save-ir flags (spec Section 6). The JSON file-writing
// shape (os.MkdirAll + json.NewEncoder with SetIndent) is grounded on the
// lineage's own internal/report.WriteJSONFile.
package printer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mehditeymorian/boop/internal/ast"
	"github.com/mehditeymorian/boop/internal/lexer"
)

// Tokens writes one line per token to w, in the form the lineage's own
// debug dumps use: kind, literal text (if any), and position.
func Tokens(w io.Writer, toks []lexer.Token) error {
	for _, t := range toks {
		if _, err := fmt.Fprintf(w, "%-10s %-20q %d:%d\n", t.Kind, t.Lit(), t.Line, t.Column); err != nil {
			return err
		}
	}
	return nil
}

// AST pretty-prints prog as an indented tree to w, mirroring the shape of
// a debugger's s-expression dump: one node per line, children indented
// two spaces deeper than their parent.
func AST(w io.Writer, prog *ast.Program) error {
	for _, fn := range prog.Functions {
		if err := printFunction(w, fn, 0); err != nil {
			return err
		}
	}
	return nil
}

func printFunction(w io.Writer, fn *ast.Function, depth int) error {
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = p.Symbol.Text
	}
	if err := writeLine(w, depth, "Function %s(%s)", fn.Name.Text, strings.Join(params, ", ")); err != nil {
		return err
	}
	return printStmts(w, fn.Body, depth+1)
}

func printStmts(w io.Writer, stmts []ast.Stmt, depth int) error {
	for _, s := range stmts {
		if err := printStmt(w, s, depth); err != nil {
			return err
		}
	}
	return nil
}

func printStmt(w io.Writer, s ast.Stmt, depth int) error {
	switch n := s.(type) {
	case *ast.If:
		if err := writeLine(w, depth, "If"); err != nil {
			return err
		}
		if err := printExpr(w, n.Cond, depth+1); err != nil {
			return err
		}
		if err := printStmts(w, n.Body, depth+1); err != nil {
			return err
		}
		if n.Else != nil {
			return printStmt(w, n.Else, depth)
		}
		return nil
	case *ast.While:
		if err := writeLine(w, depth, "While"); err != nil {
			return err
		}
		if err := printExpr(w, n.Cond, depth+1); err != nil {
			return err
		}
		return printStmts(w, n.Body, depth+1)
	case *ast.For:
		if err := writeLine(w, depth, "For %s", n.Init.Target.Text); err != nil {
			return err
		}
		if err := printExpr(w, n.Init.Value, depth+1); err != nil {
			return err
		}
		if err := printExpr(w, n.Cond, depth+1); err != nil {
			return err
		}
		if err := printExpr(w, n.Step, depth+1); err != nil {
			return err
		}
		return printStmts(w, n.Body, depth+1)
	case *ast.Assignment:
		if err := writeLine(w, depth, "Assignment %s", n.Target.Text); err != nil {
			return err
		}
		return printExpr(w, n.Value, depth+1)
	case *ast.Return:
		if err := writeLine(w, depth, "Return"); err != nil {
			return err
		}
		if n.Value == nil {
			return nil
		}
		return printExpr(w, n.Value, depth+1)
	case *ast.Print:
		if err := writeLine(w, depth, "Print"); err != nil {
			return err
		}
		return printExpr(w, n.Value, depth+1)
	case *ast.ExprStmt:
		if err := writeLine(w, depth, "ExprStmt"); err != nil {
			return err
		}
		return printExpr(w, n.Value, depth+1)
	case *ast.Call:
		return printExpr(w, n, depth)
	default:
		return writeLine(w, depth, "<unknown statement %T>", s)
	}
}

func printExpr(w io.Writer, e ast.Expr, depth int) error {
	switch n := e.(type) {
	case *ast.BinaryOp:
		if err := writeLine(w, depth, "BinaryOp %s", n.Op); err != nil {
			return err
		}
		if err := printExpr(w, n.Left, depth+1); err != nil {
			return err
		}
		return printExpr(w, n.Right, depth+1)
	case *ast.UnaryOp:
		if err := writeLine(w, depth, "UnaryOp %s", n.Op); err != nil {
			return err
		}
		return printExpr(w, n.Operand, depth+1)
	case *ast.Call:
		if err := writeLine(w, depth, "Call %s", n.Name.Text); err != nil {
			return err
		}
		for _, a := range n.Args {
			if err := printExpr(w, a, depth+1); err != nil {
				return err
			}
		}
		return nil
	case *ast.Identifier:
		return writeLine(w, depth, "Identifier %s", n.Symbol.Text)
	case *ast.Number:
		return writeLine(w, depth, "Number %s", strconv.FormatFloat(n.Value, 'g', -1, 64))
	case *ast.String:
		return writeLine(w, depth, "String %q", n.Symbol.Text)
	default:
		return writeLine(w, depth, "<unknown expression %T>", e)
	}
}

func writeLine(w io.Writer, depth int, format string, args ...interface{}) error {
	_, err := fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), fmt.Sprintf(format, args...))
	return err
}

// irProgram, irFunction, and friends are the JSON shape --save-ir writes:
// a tree of plain structs mirroring the AST, with identifiers resolved to
// their plain text (the interner itself is not part of the hand-off
// artifact downstream IR generation would consume).
type irProgram struct {
	Functions []irFunction `json:"functions"`
}

type irFunction struct {
	Name   string   `json:"name"`
	Params []string `json:"params"`
	Body   []irNode `json:"body"`
}

type irNode struct {
	Kind     string   `json:"kind"`
	Text     string   `json:"text,omitempty"`
	Number   float64  `json:"number,omitempty"`
	IsFloat  bool     `json:"is_float,omitempty"`
	Op       string   `json:"op,omitempty"`
	Children []irNode `json:"children,omitempty"`
}

// WriteIR serializes prog as JSON to path (spec Section 6's --save-ir:
// "materializes the read-only AST the IR stage would treat as input").
func WriteIR(path string, prog *ast.Program) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	model := toIRProgram(prog)
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(model)
}

func toIRProgram(prog *ast.Program) irProgram {
	out := irProgram{}
	for _, fn := range prog.Functions {
		out.Functions = append(out.Functions, toIRFunction(fn))
	}
	return out
}

func toIRFunction(fn *ast.Function) irFunction {
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = p.Symbol.Text
	}
	body := make([]irNode, len(fn.Body))
	for i, s := range fn.Body {
		body[i] = stmtToIR(s)
	}
	return irFunction{Name: fn.Name.Text, Params: params, Body: body}
}

func stmtToIR(s ast.Stmt) irNode {
	switch n := s.(type) {
	case *ast.If:
		children := []irNode{exprToIR(n.Cond)}
		for _, b := range n.Body {
			children = append(children, stmtToIR(b))
		}
		if n.Else != nil {
			children = append(children, stmtToIR(n.Else))
		}
		return irNode{Kind: "If", Children: children}
	case *ast.While:
		children := []irNode{exprToIR(n.Cond)}
		for _, b := range n.Body {
			children = append(children, stmtToIR(b))
		}
		return irNode{Kind: "While", Children: children}
	case *ast.For:
		children := []irNode{exprToIR(n.Init.Value), exprToIR(n.Cond), exprToIR(n.Step)}
		for _, b := range n.Body {
			children = append(children, stmtToIR(b))
		}
		return irNode{Kind: "For", Text: n.Init.Target.Text, Children: children}
	case *ast.Assignment:
		return irNode{Kind: "Assignment", Text: n.Target.Text, Children: []irNode{exprToIR(n.Value)}}
	case *ast.Return:
		if n.Value == nil {
			return irNode{Kind: "Return"}
		}
		return irNode{Kind: "Return", Children: []irNode{exprToIR(n.Value)}}
	case *ast.Print:
		return irNode{Kind: "Print", Children: []irNode{exprToIR(n.Value)}}
	case *ast.ExprStmt:
		return irNode{Kind: "ExprStmt", Children: []irNode{exprToIR(n.Value)}}
	case *ast.Call:
		return exprToIR(n)
	default:
		return irNode{Kind: fmt.Sprintf("<unknown:%T>", s)}
	}
}

func exprToIR(e ast.Expr) irNode {
	switch n := e.(type) {
	case *ast.BinaryOp:
		return irNode{Kind: "BinaryOp", Op: n.Op.String(), Children: []irNode{exprToIR(n.Left), exprToIR(n.Right)}}
	case *ast.UnaryOp:
		return irNode{Kind: "UnaryOp", Op: n.Op.String(), Children: []irNode{exprToIR(n.Operand)}}
	case *ast.Call:
		children := make([]irNode, len(n.Args))
		for i, a := range n.Args {
			children[i] = exprToIR(a)
		}
		return irNode{Kind: "Call", Text: n.Name.Text, Children: children}
	case *ast.Identifier:
		return irNode{Kind: "Identifier", Text: n.Symbol.Text}
	case *ast.Number:
		return irNode{Kind: "Number", Number: n.Value, IsFloat: n.IsFloat}
	case *ast.String:
		return irNode{Kind: "String", Text: n.Symbol.Text}
	default:
		return irNode{Kind: fmt.Sprintf("<unknown:%T>", e)}
	}
}
