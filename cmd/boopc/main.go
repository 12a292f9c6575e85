// Command boopc is the front-end driver: lex and parse a .boop source
// file, optionally dumping tokens, the AST, or a JSON IR hand-off file
// (spec Section 6). It never generates code or executes anything — the
// front-end's job ends at a validated AST.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mehditeymorian/boop/internal/diagnostics"
	"github.com/mehditeymorian/boop/internal/lexer"
	"github.com/mehditeymorian/boop/internal/parser"
	"github.com/mehditeymorian/boop/internal/printer"
	"github.com/mehditeymorian/boop/internal/source"
)

const usage = "boopc [-a|--emit-ast] [-t|--emit-tokens] [-s|--save-ir] <filename>"

// cliExitError carries the process exit code alongside an optional
// message, the way cmd/pipetest's own root command does, so RunE can
// signal "exit 2, no message" as cleanly as "exit 1, print this".
type cliExitError struct {
	code int
	msg  string
}

func (e *cliExitError) Error() string {
	if e.msg != "" {
		return e.msg
	}
	return fmt.Sprintf("exit code %d", e.code)
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)

	if err := cmd.Execute(); err != nil {
		var exitErr *cliExitError
		if errors.As(err, &exitErr) {
			if exitErr.msg != "" {
				_, _ = fmt.Fprintln(stderr, exitErr.msg)
			}
			return exitErr.code
		}
		_, _ = fmt.Fprintln(stderr, err.Error())
		_, _ = fmt.Fprintln(stderr, usage)
		return 2
	}
	return 0
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var (
		emitAST    bool
		emitTokens bool
		saveIR     bool
		verbose    bool
	)

	root := &cobra.Command{
		Use:           "boopc <filename>",
		Short:         "boop language front-end: lex, parse, and inspect a source file",
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return &cliExitError{code: 2, msg: "usage: " + usage}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(verbose)
			defer func() { _ = logger.Sync() }()
			return compileFile(stdout, stderr, logger, args[0], compileOptions{
				emitAST:    emitAST,
				emitTokens: emitTokens,
				saveIR:     saveIR,
			})
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.Flags().BoolVarP(&emitAST, "emit-ast", "a", false, "pretty-print the parsed AST to stdout")
	root.Flags().BoolVarP(&emitTokens, "emit-tokens", "t", false, "print the token stream to stdout")
	root.Flags().BoolVarP(&saveIR, "save-ir", "s", false, "write <filename>.ast.json")
	root.Flags().BoolVar(&verbose, "verbose", false, "enable development-mode logging")
	return root
}

// newLogger mirrors the ambient-stack decision (SPEC_FULL.md Section
// 2.2): --verbose swaps zap's production config (leveled, no debug
// output) for its development config (human-readable, debug-level).
func newLogger(verbose bool) *zap.SugaredLogger {
	var logger *zap.Logger
	var err error
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		logger = zap.NewNop()
	}
	return logger.Sugar()
}

type compileOptions struct {
	emitAST    bool
	emitTokens bool
	saveIR     bool
}

// compileFile runs the lex+parse pipeline once, emitting only what the
// caller asked for. Diagnostics (spec Section 6: "Diagnostics go to
// standard error; requested dumps ... go to standard output") are rendered
// to stderr through internal/diagnostics; zap is reserved for operational
// side-channel detail, per SPEC_FULL.md 2.2, never for the exit itself.
func compileFile(stdout, stderr io.Writer, logger *zap.SugaredLogger, path string, opts compileOptions) error {
	stream, err := source.Open(path)
	if err != nil {
		logger.Errorw("failed to open source file", "path", path, "error", err)
		return &cliExitError{code: 1, msg: err.Error()}
	}
	defer func() { _ = stream.Close() }()

	if opts.emitTokens {
		toks, ferr := tokensOnly(path)
		if ferr != nil {
			return reportFatal(stderr, logger, path, ferr)
		}
		if err := printer.Tokens(stdout, toks); err != nil {
			return &cliExitError{code: 1, msg: err.Error()}
		}
	}

	prog, ferr, perrs := parser.Parse(path, stream)
	if ferr != nil {
		return reportFatal(stderr, logger, path, ferr)
	}
	if len(perrs) > 0 {
		diags := toDiagnostics(path, perrs)
		for _, d := range diags {
			_, _ = fmt.Fprintf(stderr, "%s: %s\n", d.File, d.UserMessage())
		}
		return &cliExitError{code: 1}
	}

	if opts.emitAST {
		if err := printer.AST(stdout, prog); err != nil {
			return &cliExitError{code: 1, msg: err.Error()}
		}
	}
	if opts.saveIR {
		if err := printer.WriteIR(path+".ast.json", prog); err != nil {
			logger.Errorw("failed to write IR artifact", "error", err)
			return &cliExitError{code: 1, msg: err.Error()}
		}
	}
	return nil
}

// reportFatal renders a lexical fatal error to stderr and logs the
// operational detail through zap, without letting zap drive the exit:
// zap's Fatalw calls os.Exit internally, which would skip every deferred
// Close/Sync on this path and violate spec Section 5's scoped-acquisition
// discipline ("released on all exit paths, including on fatal errors").
// Returning a *cliExitError instead lets run's own defer chain unwind
// normally before the process exits.
func reportFatal(stderr io.Writer, logger *zap.SugaredLogger, path string, ferr *lexer.FatalError) error {
	logger.Errorw("lexical error", "code", ferr.Code, "line", ferr.Line, "column", ferr.Column)
	d := diagnostics.Diagnostic{
		Severity: "error",
		Code:     ferr.Code,
		Message:  ferr.Message,
		File:     path,
		Line:     ferr.Line,
		Column:   ferr.Column,
		Kind:     ferr.Kind,
	}
	_, _ = fmt.Fprintf(stderr, "%s: %s\n", d.File, d.UserMessage())
	return &cliExitError{code: 1}
}

// tokensOnly re-lexes the file in isolation so --emit-tokens can print the
// stream even when --emit-ast or --save-ir aren't requested; the parser's
// Parse already consumes a LineReader to completion as part of building
// the AST, so a second, fresh stream is opened rather than trying to
// rewind the first.
func tokensOnly(path string) ([]lexer.Token, *lexer.FatalError) {
	stream, err := source.Open(path)
	if err != nil {
		return nil, nil
	}
	defer func() { _ = stream.Close() }()
	result, ferr := lexer.New(stream).Run()
	return result.Tokens, ferr
}

func toDiagnostics(file string, errs []parser.ParseError) []diagnostics.Diagnostic {
	out := make([]diagnostics.Diagnostic, len(errs))
	for i, e := range errs {
		out[i] = diagnostics.Diagnostic{
			Severity: "error",
			Code:     e.Code,
			Message:  e.Message,
			File:     file,
			Line:     e.Line,
			Column:   e.Column,
			Kind:     e.Kind,
		}
	}
	return diagnostics.SortAndDedupe(out)
}
