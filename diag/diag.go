// Package diag holds the diagnostics reported by the lexer and parser.
package diag

import "fmt"

// Kind classifies a diagnostic.
type Kind int

const (
	// Lexical is an illegal character. The character is skipped and lexing
	// continues; it does not fail the parse.
	Lexical Kind = iota
	// Syntax is an unexpected token. The parse is marked failed and resumes
	// after panic-mode recovery.
	Syntax
	// EndOfInput means input ran out while recovering from a syntax error.
	// Parsing stops.
	EndOfInput
)

func (k Kind) String() string {
	switch k {
	case Lexical:
		return "lexical error"
	case Syntax:
		return "syntax error"
	case EndOfInput:
		return "unexpected end of input"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Diagnostic is a single report with its source position.
type Diagnostic struct {
	Kind  Kind
	Line  int
	Col   int
	Near  string // offending text; empty at end of input
	AtEOF bool
	Msg   string
}

// Error formats the diagnostic as
//
//	line 3: syntax error at ";": expected identifier after let
//
// An EndOfInput diagnostic has no position suffix since its kind already
// names it.
func (d Diagnostic) Error() string {
	if d.Kind == EndOfInput {
		return fmt.Sprintf("line %d: %s: %s", d.Line, d.Kind, d.Msg)
	}
	where := fmt.Sprintf("%q", d.Near)
	if d.AtEOF {
		where = "end of input"
	}
	if d.Msg == "" {
		return fmt.Sprintf("line %d: %s at %s", d.Line, d.Kind, where)
	}
	return fmt.Sprintf("line %d: %s at %s: %s", d.Line, d.Kind, where, d.Msg)
}

// Fatal reports whether the diagnostic fails the parse.
func (d Diagnostic) Fatal() bool {
	return d.Kind != Lexical
}
