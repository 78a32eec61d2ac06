// Package lexer implements the rsfront lexer (tokeniser).
//
// The lexer converts a source string into a flat stream of [ast.Token] values.
// Call [New] to create a lexer and then call [Lexer.NextToken] repeatedly until
// you receive a token with Type == [ast.EOF], or range over [Lexer.All].
//
// Design notes:
//   - Single-pass, character-by-character scanning using a read position cursor.
//   - No global state; every [Lexer] is independent.
//   - Line and column numbers are tracked for every token (1-based).
//   - Comments (// … and /* … */) are consumed silently; no token is emitted.
//   - Identifiers are scanned first and then classified as reserved words or
//     primitive type names via [ast.LookupIdent].
//   - Illegal characters are recorded (see [Lexer.Errors]) and skipped one
//     character at a time, so a stray byte never stops the scan.
package lexer

import (
	"fmt"
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/metaphox/rsfront/ast"
	"github.com/metaphox/rsfront/diag"
)

// Lexer holds all state required to tokenise a single source string.
// Create one with [New]; never copy a Lexer after first use.
type Lexer struct {
	input   string // the full source text
	pos     int    // current read position (index of ch)
	readPos int    // next read position (pos + 1)
	ch      byte   // current character under examination

	line int // current 1-based line number
	col  int // 1-based column of ch

	errors []diag.Diagnostic
}

// New creates a [Lexer] that tokenises the given input string.
func New(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		col:   0,
	}
	l.readChar() // prime: set l.ch = input[0]
	return l
}

// Tokenize scans the whole input and returns every token before EOF together
// with the lexical diagnostics collected on the way.
func Tokenize(input string) ([]ast.Token, []diag.Diagnostic) {
	l := New(input)
	var toks []ast.Token
	for tok := range l.All() {
		toks = append(toks, tok)
	}
	return toks, l.Errors()
}

// All returns an iterator over the remaining tokens. Iteration stops before EOF.
func (l *Lexer) All() iter.Seq[ast.Token] {
	return func(yield func(ast.Token) bool) {
		for {
			tok := l.NextToken()
			if tok.Type == ast.EOF || !yield(tok) {
				return
			}
		}
	}
}

// Errors returns the lexical diagnostics recorded so far, in source order.
func (l *Lexer) Errors() []diag.Diagnostic {
	return l.errors
}

// NextToken returns the next token from the input.
//
// Whitespace and comments are skipped before each token. When the input is
// exhausted, NextToken returns a token with Type == [ast.EOF] on every
// subsequent call.
func (l *Lexer) NextToken() ast.Token {
	for {
		l.skipWhitespaceAndComments()
		line, col := l.line, l.col

		var tok ast.Token
		switch l.ch {
		// ── End of input ────────────────────────────────────────────────────────
		case 0:
			if l.pos >= len(l.input) {
				return ast.Token{Type: ast.EOF, Line: line, Col: col}
			}
			l.illegal()
			continue

		// ── Quoted literals ─────────────────────────────────────────────────────
		case '"':
			return l.readString()
		case '\'':
			return l.readCharLiteral()

		// ── Single-character delimiters and operators ───────────────────────────
		case '{':
			tok = l.single(ast.LBRACE)
		case '}':
			tok = l.single(ast.RBRACE)
		case '(':
			tok = l.single(ast.LPAREN)
		case ')':
			tok = l.single(ast.RPAREN)
		case ',':
			tok = l.single(ast.COMMA)
		case ':':
			tok = l.single(ast.COLON)
		case ';':
			tok = l.single(ast.SEMICOLON)
		case '+':
			tok = l.single(ast.PLUS)
		case '-':
			tok = l.single(ast.MINUS)
		case '*':
			tok = l.single(ast.ASTERISK)
		case '/':
			tok = l.single(ast.SLASH)
		case '%':
			tok = l.single(ast.PERCENT)
		case '&':
			tok = l.single(ast.AMPERSAND)
		case '|':
			tok = l.single(ast.PIPE)
		case '^':
			tok = l.single(ast.CARET)

		// ── Operators that may be one or two characters ─────────────────────────
		case '=':
			tok = l.oneOrTwo('=', ast.ASSIGN, ast.EQ)
		case '<':
			tok = l.oneOrTwo('=', ast.LT, ast.LTE)
		case '>':
			tok = l.oneOrTwo('=', ast.GT, ast.GTE)
		case '!':
			if l.peekChar() != '=' {
				l.illegal()
				continue
			}
			l.readChar()
			tok = ast.Token{Type: ast.NEQ, Literal: "!="}

		// ── Dot: member access, or the start of a float such as .5 ──────────────
		case '.':
			if isDigit(l.peekChar()) {
				return l.readNumber()
			}
			tok = l.single(ast.DOT)

		// ── Identifiers, keywords and numbers ───────────────────────────────────
		default:
			if isLetter(l.ch) {
				return l.readIdentifier()
			}
			if isDigit(l.ch) {
				return l.readNumber()
			}
			l.illegal()
			continue
		}

		tok.Line, tok.Col = line, col
		l.readChar() // advance past the last character of this token
		return tok
	}
}

// ── Internal helpers ──────────────────────────────────────────────────────────

// readChar advances the lexer by one character.
// When the input is exhausted l.ch is set to 0 (the null byte sentinel for EOF).
// Line and column counters are updated here; col is 1-based.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++

	// Newlines bump the line counter and reset the column.
	if l.ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

// advance consumes n bytes.
func (l *Lexer) advance(n int) {
	for i := 0; i < n; i++ {
		l.readChar()
	}
}

// peekChar returns the next character without consuming it.
// Returns 0 when the end of input has been reached.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// single builds a one-character token for the current character. Position is
// filled in by NextToken.
func (l *Lexer) single(tt ast.TokenType) ast.Token {
	return ast.Token{Type: tt, Literal: string(l.ch)}
}

// oneOrTwo builds `one` for the current character, or `two` when the next
// character is second (consuming it).
func (l *Lexer) oneOrTwo(second byte, one, two ast.TokenType) ast.Token {
	if l.peekChar() == second {
		first := l.ch
		l.readChar()
		return ast.Token{Type: two, Literal: string([]byte{first, second})}
	}
	return ast.Token{Type: one, Literal: string(l.ch)}
}

// illegal records the character under the cursor as a lexical error and skips it.
// A multi-byte UTF-8 sequence counts as one character.
func (l *Lexer) illegal() {
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	text := string(r)
	if r == utf8.RuneError {
		text = fmt.Sprintf("\\x%02x", l.ch)
	}
	l.errors = append(l.errors, diag.Diagnostic{
		Kind: diag.Lexical,
		Line: l.line,
		Col:  l.col,
		Near: text,
		Msg:  "illegal character",
	})
	l.advance(max(size, 1))
}

// skipWhitespaceAndComments advances past all whitespace characters and any
// comments before the next meaningful token.
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch l.ch {
		case ' ', '\t', '\r', '\n':
			l.readChar()
		case '/':
			switch l.peekChar() {
			case '/':
				for l.ch != '\n' && l.pos < len(l.input) {
					l.readChar()
				}
			case '*':
				l.skipBlockComment()
			default:
				return // lone '/' is the division operator
			}
		default:
			return
		}
	}
}

// skipBlockComment consumes a /* … */ comment. Newlines inside it still count
// towards the line number. An unterminated comment is reported and swallows
// the rest of the input.
func (l *Lexer) skipBlockComment() {
	line, col := l.line, l.col
	l.advance(2) // consume "/*"
	for l.pos < len(l.input) {
		if l.ch == '*' && l.peekChar() == '/' {
			l.advance(2)
			return
		}
		l.readChar()
	}
	l.errors = append(l.errors, diag.Diagnostic{
		Kind: diag.Lexical,
		Line: line,
		Col:  col,
		Near: "/*",
		Msg:  "unterminated block comment",
	})
}

// readIdentifier scans an identifier, reserved word or primitive type name.
// It leaves the cursor on the first character after the identifier.
func (l *Lexer) readIdentifier() ast.Token {
	startCol := l.col
	startLine := l.line
	start := l.pos

	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}

	literal := l.input[start:l.pos]
	return ast.Token{Type: ast.LookupIdent(literal), Literal: literal, Line: startLine, Col: startCol}
}

// readNumber scans an integer or floating-point literal.
//
//	INT    digits
//	FLOAT  digits? '.' digits exponent?
//	FLOAT  [1-9] digits* exponent
//
// A '.' that is not followed by a digit is left for the next call (1. lexes
// as INT DOT). It leaves the cursor on the first character after the literal.
func (l *Lexer) readNumber() ast.Token {
	startCol := l.col
	startLine := l.line
	start := l.pos
	tt := ast.INT

	for isDigit(l.ch) {
		l.readChar()
	}

	if l.ch == '.' && isDigit(l.peekChar()) {
		tt = ast.FLOAT
		l.readChar() // consume '.'
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	// The exponent-only form needs a non-zero leading digit.
	if tt == ast.FLOAT || l.input[start] != '0' {
		if n := l.exponentLen(); n > 0 {
			tt = ast.FLOAT
			l.advance(n)
		}
	}

	literal := l.input[start:l.pos]
	return ast.Token{Type: tt, Literal: literal, Line: startLine, Col: startCol}
}

// exponentLen returns the length of an exponent ([eE][+-]?digits) starting at
// the cursor, or 0 when there is none.
func (l *Lexer) exponentLen() int {
	rest := l.input[l.pos:]
	if len(rest) < 2 || (rest[0] != 'e' && rest[0] != 'E') {
		return 0
	}
	i := 1
	if rest[i] == '+' || rest[i] == '-' {
		i++
	}
	digits := 0
	for i < len(rest) && isDigit(rest[i]) {
		i++
		digits++
	}
	if digits == 0 {
		return 0
	}
	return i
}

// readString scans the shortest "…" on the current line. Without a closing
// quote on the line, the lone '"' becomes a DOUBLE_QUOTE token. The literal
// keeps both quotes.
func (l *Lexer) readString() ast.Token {
	startCol := l.col
	startLine := l.line
	start := l.pos

	rest := l.input[start+1:]
	end := strings.IndexAny(rest, "\"\n")
	if end < 0 || rest[end] == '\n' {
		l.readChar()
		return ast.Token{Type: ast.DOUBLE_QUOTE, Literal: `"`, Line: startLine, Col: startCol}
	}

	l.advance(end + 2)
	return ast.Token{Type: ast.STRING, Literal: l.input[start:l.pos], Line: startLine, Col: startCol}
}

// readCharLiteral scans a character literal: zero or one character between single
// quotes, or a backslash escape such as '\n'. A quote that does not open a
// literal becomes a QUOTE token. The literal keeps both quotes.
func (l *Lexer) readCharLiteral() ast.Token {
	startCol := l.col
	startLine := l.line
	start := l.pos
	rest := l.input[start+1:]

	n := 0 // bytes between the quotes
	switch {
	case strings.HasPrefix(rest, "'"):
		n = 0
	case len(rest) >= 3 && rest[0] == '\\' && rest[1] != '\n' && rest[2] == '\'':
		n = 2
	default:
		r, size := utf8.DecodeRuneInString(rest)
		if size == 0 || r == '\n' || !strings.HasPrefix(rest[size:], "'") {
			l.readChar()
			return ast.Token{Type: ast.QUOTE, Literal: "'", Line: startLine, Col: startCol}
		}
		n = size
	}

	l.advance(n + 2)
	return ast.Token{Type: ast.CHAR, Literal: l.input[start:l.pos], Line: startLine, Col: startCol}
}

// isLetter reports whether b is a valid identifier-start or identifier-continue
// character. Identifiers follow the pattern [a-zA-Z_][a-zA-Z0-9_]*.
func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		b == '_'
}

// isDigit reports whether b is an ASCII decimal digit (0–9).
func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
