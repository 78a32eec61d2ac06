// Package parser implements the rsfront recursive-descent parser.
//
// The parser pulls tokens from a [TokenSource] and builds a generic [ast.Node]
// tree. Every grammar production is one method and yields exactly one node;
// productions that introduce a binding (fn, const, static, let) record it in
// the session's [scope.Table] as part of the same step, and every block opens
// a new scope before its body is parsed.
//
// Expression parsing uses Pratt (top-down operator precedence) so that
// precedence and associativity live in a small table rather than in a tangle
// of grammar rules.
//
// Usage:
//
//	table := scope.NewTable()
//	p := parser.New(lexer.New(source), table, parser.Options{})
//	root := p.Parse()
//	if p.Failed() { ... p.Errors() ... }
//
// Error recovery is panic mode (see [Recovery]): after a syntax error the
// innermost statement list discards tokens up to and including the next ';'
// and carries on, so several errors can be reported in one pass. A parse
// that saw any syntax error is failed even if a tree was built.
package parser

import (
	"fmt"
	"log/slog"

	"github.com/metaphox/rsfront/ast"
	"github.com/metaphox/rsfront/diag"
	"github.com/metaphox/rsfront/scope"
)

// ── Operator precedence ───────────────────────────────────────────────────────

// Precedence levels, ordered from lowest to highest.
const (
	precLowest  = iota // 0: starting point
	precReturn         // 1: return break (non-associative)
	precAssign         // 2: = and op= (right-associative)
	precCompare        // 3: == != < > <= >=
	precBitOr          // 4: |
	precBitXor         // 5: ^
	precBitAnd         // 6: &
	precSum            // 7: + -
	precProduct        // 8: * / %
	precPostfix        // 9: a.m(...)  f(...)
)

// binaryPrecedence maps a binary operator token to its precedence level.
// All binary operators are left-associative.
var binaryPrecedence = map[ast.TokenType]int{
	ast.EQ:        precCompare,
	ast.NEQ:       precCompare,
	ast.LT:        precCompare,
	ast.GT:        precCompare,
	ast.LTE:       precCompare,
	ast.GTE:       precCompare,
	ast.PIPE:      precBitOr,
	ast.CARET:     precBitXor,
	ast.AMPERSAND: precBitAnd,
	ast.PLUS:      precSum,
	ast.MINUS:     precSum,
	ast.ASTERISK:  precProduct,
	ast.SLASH:     precProduct,
	ast.PERCENT:   precProduct,
}

// compoundOp reports whether tt followed by '=' is a compound assignment.
// Only arithmetic and bitwise operators qualify.
func compoundOp(tt ast.TokenType) bool {
	p := binaryPrecedence[tt]
	return p >= precBitOr
}

// DefaultMaxDepth bounds the nesting of blocks and expressions.
const DefaultMaxDepth = 256

// ── Parser ────────────────────────────────────────────────────────────────────

// TokenSource is the pull side of a token stream. *lexer.Lexer implements it.
// After the input is exhausted NextToken must keep returning EOF.
type TokenSource interface {
	NextToken() ast.Token
}

// Options tunes a Parser.
type Options struct {
	// Logger receives a debug record for every reduction, declaration and
	// recovery. Nil discards them.
	Logger *slog.Logger
	// MaxDepth bounds nesting; 0 means DefaultMaxDepth.
	MaxDepth int
}

// Parser holds all state needed to parse one source text.
// Create one with [New] and call [Parser.Parse] once.
type Parser struct {
	src    TokenSource
	cur    ast.Token // current token (the next one to be consumed)
	peek   ast.Token // one-token look-ahead
	last   ast.Token // most recently consumed token
	scopes *scope.Table

	log      *slog.Logger
	depth    int
	maxDepth int

	rec    Recovery
	halted bool              // input ran out during recovery
	errors []diag.Diagnostic // syntax diagnostics
}

// New creates a Parser that reads tokens from src and records bindings in
// scopes. It primes the two-token lookahead.
func New(src TokenSource, scopes *scope.Table, opts Options) *Parser {
	p := &Parser{
		src:      src,
		scopes:   scopes,
		log:      opts.Logger,
		maxDepth: opts.MaxDepth,
	}
	if p.log == nil {
		p.log = slog.New(slog.DiscardHandler)
	}
	if p.maxDepth <= 0 {
		p.maxDepth = DefaultMaxDepth
	}

	p.advance()
	p.advance()
	return p
}

// Errors returns the syntax diagnostics collected during Parse.
func (p *Parser) Errors() []diag.Diagnostic {
	return p.errors
}

// Failed reports whether any syntax error occurred.
func (p *Parser) Failed() bool {
	return len(p.errors) > 0
}

// Halted reports whether parsing stopped because input ran out while
// recovering from an error.
func (p *Parser) Halted() bool {
	return p.halted
}

// Parse builds the tree for the whole input:
//
//	program -> list_stmt -> stmt...
//
// The returned tree may be partial when [Parser.Failed] is true.
func (p *Parser) Parse() *ast.Node {
	var stmts []*ast.Node
	for !p.halted && !p.curIs(ast.EOF) {
		s, _ := p.parseStatement(false)
		if s == nil {
			p.recover()
			continue
		}
		stmts = append(stmts, s)
	}
	if len(stmts) == 0 && !p.Failed() {
		p.errorf("expected at least one statement")
	}
	return p.node(ast.TagProgram, "", p.node(ast.TagListStmt, "", stmts...))
}

// ── Internal token management ─────────────────────────────────────────────────

// advance consumes one token, shifting peek into cur.
func (p *Parser) advance() {
	p.last = p.cur
	p.cur = p.peek
	p.peek = p.src.NextToken()
}

// curIs reports whether the current token has the given type.
func (p *Parser) curIs(tt ast.TokenType) bool { return p.cur.Type == tt }

// expect consumes the current token if it has type tt; otherwise it records
// an error and consumes nothing.
func (p *Parser) expect(tt ast.TokenType, context string) bool {
	if p.curIs(tt) {
		p.advance()
		return true
	}
	p.errorf("expected %s %s", describe(tt), context)
	return false
}

// expectIdent consumes an identifier and returns its name.
func (p *Parser) expectIdent(context string) (string, bool) {
	if !p.curIs(ast.IDENT) {
		p.errorf("expected identifier %s", context)
		return "", false
	}
	name := p.cur.Literal
	p.advance()
	return name, true
}

// errorf records a syntax error at the current token.
func (p *Parser) errorf(format string, args ...any) {
	p.errors = append(p.errors, diag.Diagnostic{
		Kind:  diag.Syntax,
		Line:  p.cur.Line,
		Col:   p.cur.Col,
		Near:  p.cur.Literal,
		AtEOF: p.curIs(ast.EOF),
		Msg:   fmt.Sprintf(format, args...),
	})
}

// node builds a node and traces the reduction.
func (p *Parser) node(tag, leaf string, children ...*ast.Node) *ast.Node {
	p.log.Debug("reduce", "tag", tag, "leaf", leaf, "line", p.last.Line)
	return ast.New(tag, leaf, children...)
}

// declare records a binding and traces the outcome.
func (p *Parser) declare(id int, name, kind string) {
	inserted := p.scopes.Declare(id, name, kind)
	p.log.Debug("declare", "scope", id, "name", name, "kind", kind, "inserted", inserted)
}

// enter counts one level of nesting. Callers must defer leave before calling it.
func (p *Parser) enter() bool {
	p.depth++
	if p.depth > p.maxDepth {
		p.errorf("nesting deeper than %d levels", p.maxDepth)
		return false
	}
	return true
}

func (p *Parser) leave() { p.depth-- }

// recover runs the panic-mode automaton from the current (offending) token:
// tokens are dropped up to and including the next ';'. Running out of input
// halts the parse.
func (p *Parser) recover() {
	if p.halted {
		return
	}
	offending := p.cur
	p.rec.Enter()
	p.log.Debug("recovery", "state", p.rec.State(), "line", offending.Line, "near", offending.String())
	for {
		switch p.rec.Feed(p.cur) {
		case Exhausted:
			p.halted = true
			if offending.Type != ast.EOF {
				p.errors = append(p.errors, diag.Diagnostic{
					Kind:  diag.EndOfInput,
					Line:  p.cur.Line,
					Col:   p.cur.Col,
					AtEOF: true,
					Msg:   fmt.Sprintf("no %s found after the error on line %d", describe(Sync), offending.Line),
				})
			}
			p.log.Debug("recovery", "state", p.rec.State(), "halted", true, "discarded", p.rec.Discarded())
			return
		case Synced:
			p.advance()
			p.log.Debug("recovery", "state", p.rec.State(), "discarded", p.rec.Discarded(), "resume_line", p.cur.Line)
			return
		default:
			p.advance()
		}
	}
}

// ── Statement parsing ─────────────────────────────────────────────────────────

// parseStatement parses one statement. Inside a block, an expression directly
// followed by '}' is the block's tail: it is returned bare with tail=true.
// Returns nil after recording an error.
func (p *Parser) parseStatement(inBlock bool) (node *ast.Node, tail bool) {
	switch p.cur.Type {
	case ast.SEMICOLON:
		p.advance()
		return p.node(ast.TagStmt, ";"), false
	case ast.FN, ast.CONST, ast.STATIC:
		item := p.parseItem()
		if item == nil {
			return nil, false
		}
		return p.node(ast.TagStmt, "", p.node(ast.TagDeclStmt, "", item)), false
	case ast.LET:
		decl := p.parseLetDecl()
		if decl == nil {
			return nil, false
		}
		return p.node(ast.TagStmt, "", p.node(ast.TagDeclStmt, "", decl)), false
	}
	return p.parseExpressionStatement(inBlock)
}

// parseExpressionStatement parses `expr ;`. Block-like expressions (if, while,
// loop, { }) stand alone without the ';'.
func (p *Parser) parseExpressionStatement(inBlock bool) (*ast.Node, bool) {
	var expr *ast.Node
	blockLike := p.startsBlockLike()
	if blockLike {
		expr = p.parseBlockLike()
	} else {
		expr = p.parseExpression(precLowest)
	}
	if expr == nil {
		return nil, false
	}

	switch {
	case p.curIs(ast.SEMICOLON):
		p.advance()
	case inBlock && p.curIs(ast.RBRACE):
		return expr, true
	case blockLike:
	default:
		p.errorf("expected %s after expression", describe(ast.SEMICOLON))
		return nil, false
	}
	return p.node(ast.TagStmt, "", p.node(ast.TagExprStmt, "", expr)), false
}

func (p *Parser) startsBlockLike() bool {
	switch p.cur.Type {
	case ast.IF, ast.WHILE, ast.LOOP, ast.LBRACE:
		return true
	}
	return false
}

func (p *Parser) parseBlockLike() *ast.Node {
	switch p.cur.Type {
	case ast.IF:
		return p.parseIf()
	case ast.WHILE:
		return p.parseWhile()
	case ast.LOOP:
		return p.parseLoop()
	default:
		return p.parseBlock()
	}
}

// ── Declaration parsing ───────────────────────────────────────────────────────

// parseItem parses `fn_item | const_item | static_item`.
func (p *Parser) parseItem() *ast.Node {
	var n *ast.Node
	switch p.cur.Type {
	case ast.FN:
		n = p.parseFnItem()
	case ast.CONST:
		n = p.parseConstItem(ast.TagConstItem)
	default:
		n = p.parseConstItem(ast.TagStaticItem)
	}
	if n == nil {
		return nil
	}
	return p.node(ast.TagItem, "", n)
}

// parseFnItem parses `fn NAME ( ) block`. The name is bound as "fn" in the
// scope that encloses the function, once the header has been accepted and
// before the body is parsed.
func (p *Parser) parseFnItem() *ast.Node {
	enclosing := p.scopes.Current()
	p.advance() // 'fn'

	name, ok := p.expectIdent("after fn")
	if !ok {
		return nil
	}
	if !p.expect(ast.LPAREN, "after the function name") {
		return nil
	}
	if !p.expect(ast.RPAREN, "(function items take no parameters)") {
		return nil
	}
	params := p.node(ast.TagParamList, "")
	p.declare(enclosing, name, scope.KindFn)

	body := p.parseBlock()
	if body == nil {
		return nil
	}
	return p.node(ast.TagFnItem, name, params, body)
}

// parseConstItem parses `const NAME : type = expr ;` and the static form.
// The name is bound to the type name.
func (p *Parser) parseConstItem(tag string) *ast.Node {
	target := p.scopes.Current()
	keyword := p.cur.Literal
	p.advance() // 'const' or 'static'

	name, ok := p.expectIdent("after " + keyword)
	if !ok {
		return nil
	}
	if !p.expect(ast.COLON, "after the "+keyword+" name") {
		return nil
	}
	typ := p.parseType()
	if typ == nil {
		return nil
	}
	if !p.expect(ast.ASSIGN, "after the "+keyword+" type") {
		return nil
	}
	value := p.parseExpression(precLowest)
	if value == nil {
		return nil
	}
	if !p.expect(ast.SEMICOLON, "after the "+keyword+" value") {
		return nil
	}

	p.declare(target, name, typ.Leaf)
	return p.node(tag, name, typ, value)
}

// parseLetDecl parses the eight let forms:
//
//	let [mut] NAME [: type] [= expr] ;
//
// The node's children are [type?, init?]. The name is bound to the type name
// when annotated, otherwise to "var".
func (p *Parser) parseLetDecl() *ast.Node {
	target := p.scopes.Current()
	p.advance() // 'let'
	if p.curIs(ast.MUT) {
		p.advance()
	}

	name, ok := p.expectIdent("after let")
	if !ok {
		return nil
	}

	kind := scope.KindVar
	var typ, init *ast.Node
	if p.curIs(ast.COLON) {
		p.advance()
		if typ = p.parseType(); typ == nil {
			return nil
		}
		kind = typ.Leaf
	}
	if p.curIs(ast.ASSIGN) {
		p.advance()
		value := p.parseExpression(precLowest)
		if value == nil {
			return nil
		}
		init = p.node(ast.TagInit, "", value)
	}
	if !p.expect(ast.SEMICOLON, "after let declaration") {
		return nil
	}

	p.declare(target, name, kind)
	return p.node(ast.TagLetDecl, name, typ, init)
}

// parseType parses one primitive type keyword.
func (p *Parser) parseType() *ast.Node {
	if !p.cur.Type.IsPrimitiveType() {
		p.errorf("expected a primitive type")
		return nil
	}
	name := p.cur.Literal
	p.advance()
	return p.node(ast.TagType, name)
}

// ── Block parsing ─────────────────────────────────────────────────────────────

// parseBlock parses `{ body }`. A new scope is allocated as soon as '{' is
// consumed. The body is statements optionally followed by a tail expression.
// A statement that fails is recovered from here, so one bad statement does
// not lose the rest of the block.
func (p *Parser) parseBlock() *ast.Node {
	defer p.leave()
	if !p.enter() {
		return nil
	}
	if !p.expect(ast.LBRACE, "to open a block") {
		return nil
	}
	p.scopes.NewScope()

	var body []*ast.Node
	for !p.curIs(ast.RBRACE) && !p.curIs(ast.EOF) {
		s, tail := p.parseStatement(true)
		if s == nil {
			if p.recover(); p.halted {
				return nil
			}
			continue
		}
		body = append(body, s)
		if tail {
			break
		}
	}
	if !p.expect(ast.RBRACE, "to close the block") {
		return nil
	}
	return p.node(ast.TagBlock, "", p.node(ast.TagBlockBody, "", body...))
}

// ── Control flow ──────────────────────────────────────────────────────────────

// parseIf parses `if cond block [else (if | block)]`.
func (p *Parser) parseIf() *ast.Node {
	defer p.leave()
	if !p.enter() {
		return nil
	}
	p.advance() // 'if'

	cond := p.parseCondition()
	if cond == nil {
		return nil
	}
	then := p.parseBlock()
	if then == nil {
		return nil
	}
	if !p.curIs(ast.ELSE) {
		return p.node(ast.TagIf, "", cond, then)
	}

	p.advance() // 'else'
	var branch *ast.Node
	switch p.cur.Type {
	case ast.IF:
		branch = p.parseIf()
	case ast.LBRACE:
		branch = p.parseBlock()
	default:
		p.errorf("expected 'if' or '{' after else")
	}
	if branch == nil {
		return nil
	}
	return p.node(ast.TagIf, "", cond, then, p.node(ast.TagElse, "", branch))
}

// parseWhile parses `while cond block`.
func (p *Parser) parseWhile() *ast.Node {
	p.advance() // 'while'
	cond := p.parseCondition()
	if cond == nil {
		return nil
	}
	body := p.parseBlock()
	if body == nil {
		return nil
	}
	return p.node(ast.TagWhile, "", cond, body)
}

// parseLoop parses `loop block`.
func (p *Parser) parseLoop() *ast.Node {
	p.advance() // 'loop'
	body := p.parseBlock()
	if body == nil {
		return nil
	}
	return p.node(ast.TagLoop, "", body)
}

// parseCondition parses the condition of if/while. Operands are literals and
// identifiers only, so a '{' can never be mistaken for part of the condition.
func (p *Parser) parseCondition() *ast.Node {
	expr := p.parseConditionExpr(precAssign)
	if expr == nil {
		return nil
	}
	return p.node(ast.TagCond, "", expr)
}

func (p *Parser) parseConditionExpr(prec int) *ast.Node {
	defer p.leave()
	if !p.enter() {
		return nil
	}
	left := p.parseLiteral()
	if left == nil {
		return nil
	}
	for {
		next, ok := binaryPrecedence[p.cur.Type]
		if !ok || next <= prec {
			return left
		}
		op := p.cur.Literal
		p.advance()
		right := p.parseConditionExpr(next)
		if right == nil {
			return nil
		}
		left = p.node(ast.TagBinop, op, left, right)
	}
}

// parseLiteral parses a literal or identifier reference.
func (p *Parser) parseLiteral() *ast.Node {
	tok := p.cur
	var tag string
	switch tok.Type {
	case ast.INT, ast.FLOAT:
		tag = ast.TagNumLit
	case ast.STRING:
		tag = ast.TagStringLit
	case ast.CHAR:
		tag = ast.TagCharLit
	case ast.TRUE, ast.FALSE:
		tag = ast.TagBoolLit
	case ast.IDENT:
		tag = ast.TagIdent
	default:
		p.errorf("expected a literal or identifier")
		return nil
	}
	p.advance()
	return p.node(tag, tok.Literal)
}

// ── Expression parsing (Pratt) ────────────────────────────────────────────────

// parseExpression is the Pratt parser entry point. prec is the binding power
// of the operator to the left; only operators binding tighter are consumed.
func (p *Parser) parseExpression(prec int) *ast.Node {
	defer p.leave()
	if !p.enter() {
		return nil
	}

	left := p.parsePrefix()
	for left != nil {
		next := p.infixPrec()
		if next <= prec {
			return left
		}
		left = p.parseInfix(left, next)
	}
	return nil
}

// infixPrec returns the precedence of the current token in infix position,
// or precLowest when it cannot continue an expression.
func (p *Parser) infixPrec() int {
	switch p.cur.Type {
	case ast.LPAREN, ast.DOT:
		return precPostfix
	case ast.ASSIGN:
		return precAssign
	}
	prec, ok := binaryPrecedence[p.cur.Type]
	if !ok {
		return precLowest
	}
	if compoundOp(p.cur.Type) && p.peek.Type == ast.ASSIGN {
		return precAssign
	}
	return prec
}

// startsExpression reports whether the current token can begin an expression.
func (p *Parser) startsExpression() bool {
	switch p.cur.Type {
	case ast.INT, ast.FLOAT, ast.STRING, ast.CHAR, ast.TRUE, ast.FALSE, ast.IDENT,
		ast.LPAREN, ast.LBRACE, ast.IF, ast.WHILE, ast.LOOP,
		ast.BREAK, ast.CONTINUE, ast.RETURN:
		return true
	}
	return false
}

// ── Prefix parse functions ────────────────────────────────────────────────────

func (p *Parser) parsePrefix() *ast.Node {
	switch p.cur.Type {
	case ast.IDENT:
		if p.peek.Type == ast.AS {
			return p.parseTypeCast()
		}
		return p.parseLiteral()
	case ast.INT, ast.FLOAT, ast.STRING, ast.CHAR, ast.TRUE, ast.FALSE:
		return p.parseLiteral()
	case ast.LPAREN:
		return p.parseParen()
	case ast.LBRACE, ast.IF, ast.WHILE, ast.LOOP:
		return p.parseBlockLike()
	case ast.BREAK:
		p.advance()
		return p.node(ast.TagBreak, "")
	case ast.CONTINUE:
		p.advance()
		return p.node(ast.TagContinue, "")
	case ast.RETURN:
		return p.parseReturn()
	default:
		p.errorf("expected an expression")
		return nil
	}
}

// parseTypeCast parses `NAME as type`.
func (p *Parser) parseTypeCast() *ast.Node {
	operand := p.parseLiteral()
	p.advance() // 'as'
	typ := p.parseType()
	if typ == nil {
		return nil
	}
	return p.node(ast.TagTypeCast, "", operand, typ)
}

// parseParen parses `( expr )`.
func (p *Parser) parseParen() *ast.Node {
	p.advance() // '('
	inner := p.parseExpression(precLowest)
	if inner == nil {
		return nil
	}
	if !p.expect(ast.RPAREN, "to close the parenthesis") {
		return nil
	}
	return p.node(ast.TagParen, "", inner)
}

// parseReturn parses `return [expr]`. The operand is optional: anything that
// cannot start an expression ends the return.
func (p *Parser) parseReturn() *ast.Node {
	p.advance() // 'return'
	if !p.startsExpression() {
		return p.node(ast.TagReturn, "")
	}
	value := p.parseExpression(precReturn)
	if value == nil {
		return nil
	}
	return p.node(ast.TagReturn, "", value)
}

// ── Infix parse functions ─────────────────────────────────────────────────────

// parseInfix extends left with the operator under the cursor, whose
// precedence is prec.
func (p *Parser) parseInfix(left *ast.Node, prec int) *ast.Node {
	switch {
	case p.curIs(ast.LPAREN):
		args := p.parseArgs()
		if args == nil {
			return nil
		}
		return p.node(ast.TagCall, "", left, args)

	case p.curIs(ast.DOT):
		return p.parseMethodCall(left)

	case p.curIs(ast.ASSIGN):
		p.advance() // '='
		right := p.parseExpression(precAssign - 1) // right-associative
		if right == nil {
			return nil
		}
		return p.node(ast.TagAssign, "=", left, right)

	case prec == precAssign:
		op := p.cur.Literal
		p.advance() // operator
		p.advance() // '='
		right := p.parseExpression(precAssign - 1)
		if right == nil {
			return nil
		}
		return p.node(ast.TagCompoundAssign, op+"=", left, right)

	default:
		op := p.cur.Literal
		p.advance()
		right := p.parseExpression(prec) // left-associative
		if right == nil {
			return nil
		}
		return p.node(ast.TagBinop, op, left, right)
	}
}

// parseMethodCall parses `. NAME ( args )` after the receiver.
func (p *Parser) parseMethodCall(receiver *ast.Node) *ast.Node {
	p.advance() // '.'
	name, ok := p.expectIdent("after '.'")
	if !ok {
		return nil
	}
	if !p.curIs(ast.LPAREN) {
		p.errorf("expected %s after method name %s", describe(ast.LPAREN), name)
		return nil
	}
	args := p.parseArgs()
	if args == nil {
		return nil
	}
	return p.node(ast.TagMethodCall, name, receiver, args)
}

// parseArgs parses `( [expr {, expr} [,]] )`. cur = '(' on entry.
func (p *Parser) parseArgs() *ast.Node {
	p.advance() // '('
	var args []*ast.Node
	for !p.curIs(ast.RPAREN) {
		arg := p.parseExpression(precLowest)
		if arg == nil {
			return nil
		}
		args = append(args, arg)
		if !p.curIs(ast.COMMA) {
			break
		}
		p.advance() // ','
	}
	if !p.expect(ast.RPAREN, "to close the argument list") {
		return nil
	}
	return p.node(ast.TagArgs, "", args...)
}

// describe returns the form of tt used in error messages.
func describe(tt ast.TokenType) string {
	switch tt {
	case ast.IDENT:
		return "identifier"
	case ast.SEMICOLON:
		return "';'"
	case ast.COLON:
		return "':'"
	case ast.ASSIGN:
		return "'='"
	case ast.LPAREN:
		return "'('"
	case ast.RPAREN:
		return "')'"
	case ast.LBRACE:
		return "'{'"
	case ast.RBRACE:
		return "'}'"
	default:
		return tt.String()
	}
}
