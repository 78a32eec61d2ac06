// Package frontend drives the rsfront pipeline: source text in, tree and scope
// table out.
//
// A [Session] owns everything a parse mutates. Sessions share no state, so
// independent parses may run on separate goroutines; a single Session must not
// be used concurrently.
//
//	s := frontend.NewSession(frontend.Options{})
//	root, err := s.Parse(src)
//	if errors.Is(err, frontend.ErrSyntax) { ... s.Diagnostics() ... }
//	fmt.Print(s.DumpScopes())
package frontend

import (
	"cmp"
	"context"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/google/uuid"

	"github.com/metaphox/rsfront/ast"
	"github.com/metaphox/rsfront/diag"
	"github.com/metaphox/rsfront/lexer"
	"github.com/metaphox/rsfront/parser"
	"github.com/metaphox/rsfront/scope"
)

// Options configures a Session.
type Options struct {
	// Debug turns on the reduction trace.
	Debug bool
	// DumpScopes, when set, receives the scope table text after every parse.
	DumpScopes io.Writer
	// Logger receives diagnostics and, with Debug, the trace. Nil discards
	// everything unless Debug is set, in which case records at debug level
	// and above go to os.Stderr.
	Logger *slog.Logger
	// MaxDepth bounds nesting; 0 means parser.DefaultMaxDepth.
	MaxDepth int
}

// Session is one parsing context.
type Session struct {
	id     string
	opts   Options
	log    *slog.Logger
	scopes *scope.Table
	diags  []diag.Diagnostic
}

// NewSession returns a session with an empty scope table.
func NewSession(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		if opts.Debug {
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		} else {
			logger = slog.New(slog.DiscardHandler)
		}
	}
	id := uuid.New().String()
	return &Session{
		id:     id,
		opts:   opts,
		log:    logger.With("session", id),
		scopes: scope.NewTable(),
	}
}

// Parse parses src with a fresh scope table. On success it returns the tree.
// If any syntax error occurred it returns a nil tree and an *Error; the scope
// table still holds whatever was declared before parsing stopped.
func (s *Session) Parse(src string) (*ast.Node, error) {
	s.scopes = scope.NewTable()
	s.diags = nil

	var trace *slog.Logger
	if s.opts.Debug {
		trace = s.log
	}
	lex := lexer.New(src)
	p := parser.New(lex, s.scopes, parser.Options{Logger: trace, MaxDepth: s.opts.MaxDepth})
	root := p.Parse()

	s.diags = append(append(s.diags, lex.Errors()...), p.Errors()...)
	slices.SortStableFunc(s.diags, func(a, b diag.Diagnostic) int {
		return cmp.Compare(a.Line, b.Line)
	})
	for _, d := range s.diags {
		s.report(d)
	}

	if s.opts.DumpScopes != nil {
		if _, err := io.WriteString(s.opts.DumpScopes, s.scopes.String()); err != nil {
			s.log.Warn("scope dump failed", "err", err)
		}
	}

	if p.Failed() {
		fatal := slices.DeleteFunc(slices.Clone(s.diags), func(d diag.Diagnostic) bool {
			return !d.Fatal()
		})
		s.log.Error("parse failed", "errors", len(fatal), "halted", p.Halted())
		return nil, &Error{Diagnostics: fatal}
	}

	s.log.Debug("parse ok", "scopes", s.scopes.Len(), "symbols", len(s.scopes.Dump()))
	return root, nil
}

func (s *Session) report(d diag.Diagnostic) {
	level := slog.LevelError
	if !d.Fatal() {
		level = slog.LevelWarn
	}
	s.log.Log(context.Background(), level, d.Kind.String(),
		"line", d.Line, "col", d.Col, "near", d.Near, "msg", d.Msg)
}

// ID returns the session's unique id, also attached to its log records.
func (s *Session) ID() string { return s.id }

// Scopes returns the scope table of the last parse.
func (s *Session) Scopes() *scope.Table { return s.scopes }

// DumpScopes renders the scope table of the last parse.
func (s *Session) DumpScopes() string { return s.scopes.String() }

// Diagnostics returns every lexical and syntax diagnostic of the last parse,
// ordered by line.
func (s *Session) Diagnostics() []diag.Diagnostic {
	return slices.Clone(s.diags)
}

// Parse is a one-shot helper: it parses src in a new session and returns the
// session too, for access to scopes and diagnostics.
func Parse(src string, opts Options) (*ast.Node, *Session, error) {
	s := NewSession(opts)
	root, err := s.Parse(src)
	return root, s, err
}
