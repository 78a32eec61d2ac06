// Package ast defines the token types, the Token struct and the generic tree node
// shared by the rsfront lexer and parser.
//
// Tokens are the smallest meaningful units of a source file. Every token carries its
// type, the exact literal text it was scanned from, and its source position (line + column).
// Position is 1-based: the first character of a file is Line 1, Col 1.
package ast

import "fmt"

// TokenType identifies the category of a scanned token.
// The zero value (0) is reserved and not a valid token.
type TokenType int

const (
	// ── Special ────────────────────────────────────────────────────────────────

	// ILLEGAL is the zero value. The lexer reports bad input as a diagnostic and
	// never hands an ILLEGAL token to the parser.
	ILLEGAL TokenType = iota
	// EOF marks the end of the input stream. The parser stops when it sees EOF.
	EOF

	// ── Primitive type keywords ────────────────────────────────────────────────

	// SIGNED_INT_TYPE is one of i8 i16 i32 i64 i128 isize.
	SIGNED_INT_TYPE
	// UNSIGNED_INT_TYPE is one of u8 u16 u32 u64 u128 usize.
	UNSIGNED_INT_TYPE
	// FLOAT_TYPE is f32 or f64.
	FLOAT_TYPE
	// BOOL_TYPE is bool.
	BOOL_TYPE
	// CHAR_TYPE is char.
	CHAR_TYPE

	// ── Identifiers and literals ───────────────────────────────────────────────

	// IDENT is an identifier: [a-zA-Z_][a-zA-Z0-9_]*
	// Identifiers that match a reserved word or a primitive type name are
	// re-classified by the lexer before the token is returned.
	IDENT
	// INT is a decimal integer literal, e.g. 0, 42.
	INT
	// FLOAT is a floating-point literal: 3.14, .5, 2.5E-3, 1e10.
	FLOAT
	// CHAR is a character literal including its quotes: 'a', ''.
	CHAR
	// STRING is a double-quoted string literal including its quotes.
	STRING

	// ── Reserved words ─────────────────────────────────────────────────────────

	AS
	BREAK
	CONST
	CONTINUE
	CRATE
	DYN
	ELSE
	ENUM
	EXTERN
	FALSE
	FN
	FOR
	IF
	IMPL
	IN
	LET
	LOOP
	MATCH
	MOD
	MOVE
	MUT
	PUB
	REF
	RETURN
	SELF
	STATIC
	STRUCT
	SUPER
	TRAIT
	TRUE
	TYPE
	UNSAFE
	USE
	WHERE
	WHILE

	// ── Arithmetic operators ────────────────────────────────────────────────────

	PLUS
	MINUS
	ASTERISK
	SLASH
	PERCENT

	// ── Bitwise operators ───────────────────────────────────────────────────────

	AMPERSAND
	PIPE
	CARET

	// ── Comparison operators ────────────────────────────────────────────────────

	EQ
	NEQ
	LT
	GT
	LTE
	GTE

	// ASSIGN is '='. Compound assignment (+=, &=, ...) is an operator token
	// followed by ASSIGN; there is no combined token.
	ASSIGN

	// ── Delimiters ──────────────────────────────────────────────────────────────

	LPAREN
	RPAREN
	LBRACE
	RBRACE
	DOT
	COMMA
	COLON
	SEMICOLON
	// QUOTE is a single quote that does not open a character literal.
	QUOTE
	// DOUBLE_QUOTE is a double quote with no closing quote on the same line.
	DOUBLE_QUOTE
)

var tokenNames = [...]string{
	ILLEGAL:           "ILLEGAL",
	EOF:               "EOF",
	SIGNED_INT_TYPE:   "SIGNED_INT_TYPE",
	UNSIGNED_INT_TYPE: "UNSIGNED_INT_TYPE",
	FLOAT_TYPE:        "FLOAT_TYPE",
	BOOL_TYPE:         "BOOL_TYPE",
	CHAR_TYPE:         "CHAR_TYPE",
	IDENT:             "IDENT",
	INT:               "INT",
	FLOAT:             "FLOAT",
	CHAR:              "CHAR",
	STRING:            "STRING",
	AS:                "AS",
	BREAK:             "BREAK",
	CONST:             "CONST",
	CONTINUE:          "CONTINUE",
	CRATE:             "CRATE",
	DYN:               "DYN",
	ELSE:              "ELSE",
	ENUM:              "ENUM",
	EXTERN:            "EXTERN",
	FALSE:             "FALSE",
	FN:                "FN",
	FOR:               "FOR",
	IF:                "IF",
	IMPL:              "IMPL",
	IN:                "IN",
	LET:               "LET",
	LOOP:              "LOOP",
	MATCH:             "MATCH",
	MOD:               "MOD",
	MOVE:              "MOVE",
	MUT:               "MUT",
	PUB:               "PUB",
	REF:               "REF",
	RETURN:            "RETURN",
	SELF:              "SELF",
	STATIC:            "STATIC",
	STRUCT:            "STRUCT",
	SUPER:             "SUPER",
	TRAIT:             "TRAIT",
	TRUE:              "TRUE",
	TYPE:              "TYPE",
	UNSAFE:            "UNSAFE",
	USE:               "USE",
	WHERE:             "WHERE",
	WHILE:             "WHILE",
	PLUS:              "PLUS",
	MINUS:             "MINUS",
	ASTERISK:          "ASTERISK",
	SLASH:             "SLASH",
	PERCENT:           "PERCENT",
	AMPERSAND:         "AMPERSAND",
	PIPE:              "PIPE",
	CARET:             "CARET",
	EQ:                "EQ",
	NEQ:               "NEQ",
	LT:                "LT",
	GT:                "GT",
	LTE:               "LTE",
	GTE:               "GTE",
	ASSIGN:            "ASSIGN",
	LPAREN:            "LPAREN",
	RPAREN:            "RPAREN",
	LBRACE:            "LBRACE",
	RBRACE:            "RBRACE",
	DOT:               "DOT",
	COMMA:             "COMMA",
	COLON:             "COLON",
	SEMICOLON:         "SEMICOLON",
	QUOTE:             "QUOTE",
	DOUBLE_QUOTE:      "DOUBLE_QUOTE",
}

// String returns the constant name of tt, e.g. "SEMICOLON".
func (tt TokenType) String() string {
	if tt >= 0 && int(tt) < len(tokenNames) && tokenNames[tt] != "" {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// keywords maps every reserved word and primitive type name to its TokenType.
// The lexer consults this map when it finishes scanning an identifier.
var keywords = map[string]TokenType{
	"i8":    SIGNED_INT_TYPE,
	"i16":   SIGNED_INT_TYPE,
	"i32":   SIGNED_INT_TYPE,
	"i64":   SIGNED_INT_TYPE,
	"i128":  SIGNED_INT_TYPE,
	"isize": SIGNED_INT_TYPE,
	"u8":    UNSIGNED_INT_TYPE,
	"u16":   UNSIGNED_INT_TYPE,
	"u32":   UNSIGNED_INT_TYPE,
	"u64":   UNSIGNED_INT_TYPE,
	"u128":  UNSIGNED_INT_TYPE,
	"usize": UNSIGNED_INT_TYPE,
	"f32":   FLOAT_TYPE,
	"f64":   FLOAT_TYPE,
	"bool":  BOOL_TYPE,
	"char":  CHAR_TYPE,

	"as":       AS,
	"break":    BREAK,
	"const":    CONST,
	"continue": CONTINUE,
	"crate":    CRATE,
	"dyn":      DYN,
	"else":     ELSE,
	"enum":     ENUM,
	"extern":   EXTERN,
	"false":    FALSE,
	"fn":       FN,
	"for":      FOR,
	"if":       IF,
	"impl":     IMPL,
	"in":       IN,
	"let":      LET,
	"loop":     LOOP,
	"match":    MATCH,
	"mod":      MOD,
	"move":     MOVE,
	"mut":      MUT,
	"pub":      PUB,
	"ref":      REF,
	"return":   RETURN,
	"self":     SELF,
	"static":   STATIC,
	"struct":   STRUCT,
	"super":    SUPER,
	"trait":    TRAIT,
	"true":     TRUE,
	"type":     TYPE,
	"unsafe":   UNSAFE,
	"use":      USE,
	"where":    WHERE,
	"while":    WHILE,
}

// LookupIdent checks whether ident is a reserved word or primitive type name and
// returns the corresponding TokenType. If it is neither, IDENT is returned.
func LookupIdent(ident string) TokenType {
	if tt, ok := keywords[ident]; ok {
		return tt
	}
	return IDENT
}

// IsPrimitiveType reports whether tt names one of the primitive scalar types.
func (tt TokenType) IsPrimitiveType() bool {
	return tt >= SIGNED_INT_TYPE && tt <= CHAR_TYPE
}

// Token is a single lexical unit produced by the lexer.
//
// Fields:
//   - Type   : the category of this token (see TokenType constants)
//   - Literal: the exact source text that was scanned
//   - Line   : 1-based source line number
//   - Col    : 1-based column of the first character of this token
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Col     int
}

// String returns the token's source text, or "end of input" for EOF. It is used
// verbatim in diagnostics.
func (t Token) String() string {
	if t.Type == EOF {
		return "end of input"
	}
	return t.Literal
}
