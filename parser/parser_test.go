// Package parser_test contains tests for the rsfront recursive-descent parser.
//
// Each test parses a snippet and inspects the returned tree either through a
// compact s-expression rendering (expressions) or the full indented rendering
// (whole programs).
//
// Test categories:
//   - Expressions:  literals, precedence, associativity, calls, casts, assignment
//   - Conditions:   the restricted if/while condition grammar
//   - Statements:   let forms, items, block-like statements, tail expressions
//   - Scopes:       allocation per block, declaration timing, global uniqueness
//   - Errors:       diagnostics, panic-mode recovery, nesting limit
package parser_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/metaphox/rsfront/ast"
	"github.com/metaphox/rsfront/diag"
	"github.com/metaphox/rsfront/lexer"
	"github.com/metaphox/rsfront/parser"
	"github.com/metaphox/rsfront/scope"
)

// ── Helpers ───────────────────────────────────────────────────────────────────

// parse runs the parser on input and fails the test if any syntax errors were
// collected.
func parse(t *testing.T, input string) (*ast.Node, *scope.Table) {
	t.Helper()
	p, root, table := parseWith(input, parser.Options{})
	if p.Failed() {
		t.Errorf("parser produced %d error(s):", len(p.Errors()))
		for _, e := range p.Errors() {
			t.Errorf("  %s", e)
		}
		t.FailNow()
	}
	return root, table
}

// parseWith runs the parser without asserting anything.
func parseWith(input string, opts parser.Options) (*parser.Parser, *ast.Node, *scope.Table) {
	table := scope.NewTable()
	p := parser.New(lexer.New(input), table, opts)
	return p, p.Parse(), table
}

// sexpr renders n compactly: childless nodes with a leaf print as the leaf,
// everything else as (tag [leaf] children...).
func sexpr(n *ast.Node) string {
	if n == nil {
		return "<nil>"
	}
	if len(n.Children) == 0 && n.Leaf != "" {
		return n.Leaf
	}
	var b strings.Builder
	b.WriteString("(" + n.Tag)
	if n.Leaf != "" {
		b.WriteString(" " + n.Leaf)
	}
	for _, c := range n.Children {
		b.WriteString(" " + sexpr(c))
	}
	b.WriteString(")")
	return b.String()
}

// exprOf parses `input;` and returns the statement's expression.
func exprOf(t *testing.T, input string) *ast.Node {
	t.Helper()
	root, _ := parse(t, input+";")
	es := root.Find(ast.TagExprStmt)
	if es == nil {
		t.Fatalf("no expr_stmt in:\n%s", root)
	}
	return es.Child(0)
}

// bodyOf returns the block_body of the first function in root.
func bodyOf(t *testing.T, root *ast.Node) *ast.Node {
	t.Helper()
	body := root.Find(ast.TagFnItem).Find(ast.TagBlockBody)
	if body == nil {
		t.Fatalf("no function body in:\n%s", root)
	}
	return body
}

func tagsOf(nodes []*ast.Node) []string {
	tags := make([]string, len(nodes))
	for i, n := range nodes {
		tags[i] = n.Tag
	}
	return tags
}

// ── Expressions ───────────────────────────────────────────────────────────────

func TestParser_Expressions(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		// literals
		{`42`, `42`},
		{`3.14 * .5`, `(binop * 3.14 .5)`},
		{`"s" == "t"`, `(binop == "s" "t")`},
		{`'c' != 'd'`, `(binop != 'c' 'd')`},
		{`true == false`, `(binop == true false)`},

		// precedence
		{`1 + 2 * 3`, `(binop + 1 (binop * 2 3))`},
		{`1 * 2 + 3`, `(binop + (binop * 1 2) 3)`},
		{`a + b % c`, `(binop + a (binop % b c))`},
		{`a | b ^ c & d`, `(binop | a (binop ^ b (binop & c d)))`},
		{`a & b == c`, `(binop == (binop & a b) c)`},
		{`a == b + 1`, `(binop == a (binop + b 1))`},
		{`(1 + 2) * 3`, `(binop * (paren_expr (binop + 1 2)) 3)`},

		// left associativity
		{`1 - 2 - 3`, `(binop - (binop - 1 2) 3)`},
		{`a < b == c`, `(binop == (binop < a b) c)`},
		{`8 / 4 / 2`, `(binop / (binop / 8 4) 2)`},

		// assignment, right associative
		{`a = b = c`, `(assign = a (assign = b c))`},
		{`a = b + 1`, `(assign = a (binop + b 1))`},
		{`a += b * 2`, `(compound_assign += a (binop * b 2))`},
		{`a -= b -= c`, `(compound_assign -= a (compound_assign -= b c))`},
		{`a % = 2`, `(compound_assign %= a 2)`},
		{`a ^= b | c`, `(compound_assign ^= a (binop | b c))`},
		{`x = y += 1`, `(assign = x (compound_assign += y 1))`},

		// casts
		{`x as i64`, `(type_cast x i64)`},
		{`x as i64 + 1`, `(binop + (type_cast x i64) 1)`},
		{`n = m as f32`, `(assign = n (type_cast m f32))`},

		// calls
		{`f()`, `(call f (args))`},
		{`f(1, a + b)`, `(call f (args 1 (binop + a b)))`},
		{`f(1,)`, `(call f (args 1))`},
		{`f(a)(b)`, `(call (call f (args a)) (args b))`},
		{`v.len()`, `(method_call len v (args))`},
		{`a.b(c).d()`, `(method_call d (method_call b a (args c)) (args))`},
		{`x.len() + 1`, `(binop + (method_call len x (args)) 1)`},
		{`"s".len()`, `(method_call len "s" (args))`},

		// control expressions
		{`return`, `(return)`},
		{`return a + 1`, `(return (binop + a 1))`},
		{`return a = 1`, `(return (assign = a 1))`},
		{`break`, `(break)`},
		{`continue`, `(continue)`},

		// block-like expressions as values
		{`x = loop { break; }`, `(assign = x (loop (block (block_body (stmt (expr_stmt (break)))))))`},
		{`y = { 1 }`, `(assign = y (block (block_body 1)))`},
		{`y = if a { 1 } else { 2 }`, `(assign = y (if (cond_expr a) (block (block_body 1)) (else (block (block_body 2)))))`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := sexpr(exprOf(t, tt.input)); got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

// ── Conditions ────────────────────────────────────────────────────────────────

func TestParser_Conditions(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`if a { }`, `(cond_expr a)`},
		{`if a + 1 < b * 2 { }`, `(cond_expr (binop < (binop + a 1) (binop * b 2)))`},
		{`while x != 'q' { }`, `(cond_expr (binop != x 'q'))`},
		{`while 1 == 1 { }`, `(cond_expr (binop == 1 1))`},
		{`if flag & mask == 0 { }`, `(cond_expr (binop == (binop & flag mask) 0))`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			root, _ := parse(t, tt.input)
			if got := sexpr(root.Find(ast.TagCond)); got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

// TestParser_ConditionsRestricted checks that calls, casts, assignments,
// parentheses and blocks cannot appear in a condition.
func TestParser_ConditionsRestricted(t *testing.T) {
	tests := []struct {
		input    string
		wantNear string
	}{
		{`if f() { }`, "("},
		{`while (x) { }`, "("},
		{`if x = 1 { }`, "="},
		{`if x as i32 { }`, "as"},
		{`if { } { }`, "{"},
		{`while a.b() { }`, "."},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, _, _ := parseWith(tt.input, parser.Options{})
			if !p.Failed() {
				t.Fatal("expected a syntax error")
			}
			if got := p.Errors()[0].Near; got != tt.wantNear {
				t.Errorf("error near %q, want %q (%s)", got, tt.wantNear, p.Errors()[0])
			}
		})
	}
}

// ── Statements ────────────────────────────────────────────────────────────────

func TestParser_LetForms(t *testing.T) {
	tests := []struct {
		input    string
		children []string
		kind     string
	}{
		{`let x;`, []string{}, "var"},
		{`let mut x;`, []string{}, "var"},
		{`let x: u8;`, []string{"type"}, "u8"},
		{`let mut x: u8;`, []string{"type"}, "u8"},
		{`let x = 1;`, []string{"init"}, "var"},
		{`let mut x = 1;`, []string{"init"}, "var"},
		{`let x: bool = true;`, []string{"type", "init"}, "bool"},
		{`let mut x: bool = true;`, []string{"type", "init"}, "bool"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			root, table := parse(t, tt.input)
			decl := root.Find(ast.TagLetDecl)
			if decl == nil || decl.Leaf != "x" {
				t.Fatalf("no let_decl => x in:\n%s", root)
			}
			if got := tagsOf(decl.Children); strings.Join(got, ",") != strings.Join(tt.children, ",") {
				t.Errorf("children = %v, want %v", got, tt.children)
			}
			sym, ok := table.Lookup("x")
			if !ok || sym.Scope != 0 || sym.Kind != tt.kind {
				t.Errorf("symbol = %+v (found %v), want x: %s in scope 0", sym, ok, tt.kind)
			}
		})
	}
}

func TestParser_MutDoesNotChangeTree(t *testing.T) {
	a, _ := parse(t, `let mut y: i32 = 10;`)
	b, _ := parse(t, `let y: i32 = 10;`)
	if !ast.Equal(a, b) {
		t.Errorf("trees differ:\n%s\n%s", a, b)
	}
}

func TestParser_Items(t *testing.T) {
	root, table := parse(t, "const MAX: u32 = 100;\nstatic NAME: char = 'a';\nfn main() { }")

	tests := []struct {
		tag  string
		want string
	}{
		{ast.TagConstItem, `(const_item MAX u32 100)`},
		{ast.TagStaticItem, `(static_item NAME char 'a')`},
		{ast.TagFnItem, `(fn_item main (paren_expr_list) (block (block_body)))`},
	}
	for _, tt := range tests {
		if got := sexpr(root.Find(tt.tag)); got != tt.want {
			t.Errorf("%s: got %s, want %s", tt.tag, got, tt.want)
		}
	}

	want := []scope.Symbol{
		{Scope: 0, Name: "MAX", Kind: "u32"},
		{Scope: 0, Name: "NAME", Kind: "char"},
		{Scope: 0, Name: "main", Kind: "fn"},
	}
	got := table.Dump()
	if len(got) != len(want) {
		t.Fatalf("symbols = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("symbol %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestParser_EmptyStatements(t *testing.T) {
	root, _ := parse(t, ";;;")
	list := root.Child(0)
	if len(list.Children) != 3 {
		t.Fatalf("got %d statements, want 3", len(list.Children))
	}
	for _, s := range list.Children {
		if s.Tag != ast.TagStmt || s.Leaf != ";" || len(s.Children) != 0 {
			t.Errorf("got %s, want stmt => ;", sexpr(s))
		}
	}
}

func TestParser_BlockLikeStatements(t *testing.T) {
	root, table := parse(t, `if a { } while b { } loop { } { }`)

	list := root.Child(0)
	if len(list.Children) != 4 {
		t.Fatalf("got %d statements, want 4:\n%s", len(list.Children), root)
	}
	want := []string{ast.TagIf, ast.TagWhile, ast.TagLoop, ast.TagBlock}
	for i, s := range list.Children {
		if got := s.Child(0).Child(0).Tag; got != want[i] {
			t.Errorf("statement %d: got %s, want %s", i, got, want[i])
		}
	}
	if table.Len() != 5 {
		t.Errorf("scopes = %d, want 5", table.Len())
	}

	// A trailing ';' after a block-like statement is absorbed.
	root, _ = parse(t, `if a { };`)
	if n := len(root.Child(0).Children); n != 1 {
		t.Errorf("`if a { };` gave %d statements, want 1", n)
	}
}

func TestParser_BlockBody(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{`fn f() { }`, []string{}},
		{`fn f() { 1; 2 }`, []string{"stmt", "num_lit"}},
		{`fn f() { let a = 1; a + 1 }`, []string{"stmt", "binop"}},
		{`fn f() { f() }`, []string{"call"}},
		{`fn f() { if a { 1 } else { 2 } }`, []string{"if"}},
		{`fn f() { while x < 3 { x += 1; } let y = 2; }`, []string{"stmt", "stmt"}},
		{`fn f() { loop { break; } return; }`, []string{"stmt", "stmt"}},
		{`fn f() { fn g() { } g(); }`, []string{"stmt", "stmt"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			root, _ := parse(t, tt.input)
			got := tagsOf(bodyOf(t, root).Children)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("block_body = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParser_ElseIfChain(t *testing.T) {
	e := exprOf(t, `if a { } else if b { } else { }`)
	want := `(if (cond_expr a) (block (block_body)) (else (if (cond_expr b) (block (block_body)) (else (block (block_body))))))`
	if got := sexpr(e); got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

// ── Rendering ─────────────────────────────────────────────────────────────────

func TestParser_Render(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "function",
			input: `fn main() { }`,
			want: `program
  list_stmt
    stmt
      decl_stmt
        item
          fn_item => main
            paren_expr_list
            block
              block_body
`,
		},
		{
			name:  "typed let",
			input: `let x: i32 = 5;`,
			want: `program
  list_stmt
    stmt
      decl_stmt
        let_decl => x
          type => i32
          init
            num_lit => 5
`,
		},
		{
			name:  "if else",
			input: `if 1 == 1 { 2 } else { 3 }`,
			want: `program
  list_stmt
    stmt
      expr_stmt
        if
          cond_expr
            binop => ==
              num_lit => 1
              num_lit => 1
          block
            block_body
              num_lit => 2
          else
            block
              block_body
                num_lit => 3
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, _ := parse(t, tt.input)
			got := root.String()
			if got != tt.want {
				t.Errorf("got:\n%s\nwant:\n%s", got, tt.want)
			}
			if again := root.String(); again != got {
				t.Error("rendering is not stable")
			}
		})
	}
}

// ── Scopes ────────────────────────────────────────────────────────────────────

func TestParser_ScopePerBlock(t *testing.T) {
	root, table := parse(t, `fn a() { { } { { } } } fn b() { }`)

	blocks := root.Count(ast.TagBlock)
	if blocks != 5 {
		t.Fatalf("blocks = %d, want 5", blocks)
	}
	if table.Len() != blocks+1 {
		t.Errorf("scopes = %d, want %d", table.Len(), blocks+1)
	}
	if table.Current() != blocks {
		t.Errorf("current = %d, want %d", table.Current(), blocks)
	}
}

func TestParser_ScopeTargets(t *testing.T) {
	_, table := parse(t, `fn main() {
    let x = 1;
    {
        let y: f64 = 2.0;
    }
    fn inner() { }
}`)

	tests := []struct {
		name  string
		scope int
		kind  string
	}{
		{"main", 0, "fn"},
		{"x", 1, "var"},
		{"y", 2, "f64"},
		{"inner", 2, "fn"}, // the cursor never moves back to 1
	}
	for _, tt := range tests {
		sym, ok := table.Lookup(tt.name)
		if !ok {
			t.Errorf("%s not declared", tt.name)
			continue
		}
		if sym.Scope != tt.scope || sym.Kind != tt.kind {
			t.Errorf("%s: got scope %d kind %s, want scope %d kind %s", tt.name, sym.Scope, sym.Kind, tt.scope, tt.kind)
		}
	}
	if table.Len() != 4 {
		t.Errorf("scopes = %d, want 4", table.Len())
	}
}

func TestParser_CursorIsMonotonic(t *testing.T) {
	_, table := parse(t, `fn a() { } let x = 1;`)
	sym, _ := table.Lookup("x")
	if sym.Scope != 1 {
		t.Errorf("x declared in scope %d, want 1", sym.Scope)
	}
}

func TestParser_FnDeclaredBeforeBody(t *testing.T) {
	_, table := parse(t, `fn f() { let f = 1; }`)
	sym, _ := table.Lookup("f")
	if sym.Kind != "fn" || sym.Scope != 0 {
		t.Errorf("f = %+v, want fn in scope 0", sym)
	}
	if s, _ := table.Scope(1); s.Len() != 0 {
		t.Errorf("scope 1 has %d symbols, want 0", s.Len())
	}
}

func TestParser_FirstDeclarationWins(t *testing.T) {
	p, _, table := parseWith("let x: i32 = 1;\nfn f() { let x: f64 = 2.0; }\nlet x = 3;", parser.Options{})
	if p.Failed() {
		t.Fatalf("redeclaration must not be an error: %v", p.Errors())
	}

	want := []scope.Symbol{
		{Scope: 0, Name: "x", Kind: "i32"},
		{Scope: 0, Name: "f", Kind: "fn"},
	}
	got := table.Dump()
	if len(got) != len(want) {
		t.Fatalf("symbols = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("symbol %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestParser_BlockInitializerBindsAtKeyword(t *testing.T) {
	p, _, table := parseWith("fn main() {\n    let a = { 1 };\n    const C: i32 = { 2 };\n}", parser.Options{})
	if p.Failed() {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	if table.Len() != 4 {
		t.Fatalf("scopes = %d, want 4", table.Len())
	}

	// Both names go to the scope current at their keyword, not the block
	// opened by the initializer.
	for _, name := range []string{"a", "C"} {
		sym, ok := table.Lookup(name)
		if !ok {
			t.Errorf("%s not declared", name)
			continue
		}
		if sym.Scope != 1 {
			t.Errorf("%s: scope = %d, want 1", name, sym.Scope)
		}
	}
}

// ── Errors and recovery ───────────────────────────────────────────────────────

func TestParser_ErrorMessages(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`let ;`, `line 1: syntax error at ";": expected identifier after let`},
		{`let x: y = 1;`, `line 1: syntax error at "y": expected a primitive type`},
		{`const C = 1;`, `line 1: syntax error at "=": expected ':' after the const name`},
		{`static S: i32 1;`, `line 1: syntax error at "1": expected '=' after the static type`},
		{`fn (){}`, `line 1: syntax error at "(": expected identifier after fn`},
		{`fn f(x) {}`, `line 1: syntax error at "x": expected ')' (function items take no parameters)`},
		{`let x = 1`, `line 1: syntax error at end of input: expected ';' after let declaration`},
		{`1 + 2`, `line 1: syntax error at end of input: expected ';' after expression`},
		{`let x = 1 +;`, `line 1: syntax error at ";": expected an expression`},
		{`a.b;`, `line 1: syntax error at ";": expected '(' after method name b`},
		{`f(1, 2;`, `line 1: syntax error at ";": expected ')' to close the argument list`},
		{`if a { } else x;`, `line 1: syntax error at "x": expected 'if' or '{' after else`},
		{`struct S;`, `line 1: syntax error at "struct": expected an expression`},
		{``, `line 1: syntax error at end of input: expected at least one statement`},
		{"\n\nlet 5;", `line 3: syntax error at "5": expected identifier after let`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, _, _ := parseWith(tt.input, parser.Options{})
			if !p.Failed() {
				t.Fatal("expected a syntax error")
			}
			if got := p.Errors()[0].Error(); got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestParser_RecoveryContinues(t *testing.T) {
	input := `let = 1;
let y = 2;
let ;
fn main() { let z = 3; }`

	p, root, table := parseWith(input, parser.Options{})
	errs := p.Errors()
	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2: %v", len(errs), errs)
	}
	if errs[0].Line != 1 || errs[1].Line != 3 {
		t.Errorf("error lines = %d, %d; want 1, 3", errs[0].Line, errs[1].Line)
	}
	if p.Halted() {
		t.Error("parser halted, want recovery to reach the end")
	}
	if n := len(root.Child(0).Children); n != 2 {
		t.Errorf("got %d statements, want 2", n)
	}
	for _, name := range []string{"y", "main", "z"} {
		if !table.IsDeclaredAnywhere(name) {
			t.Errorf("%s not declared", name)
		}
	}
}

func TestParser_RecoveryInsideBlock(t *testing.T) {
	input := `fn main() {
    let = 1;
    let z = 3;
}`

	p, root, table := parseWith(input, parser.Options{})
	if len(p.Errors()) != 1 || p.Errors()[0].Line != 2 {
		t.Fatalf("errors = %v, want one on line 2", p.Errors())
	}
	if got := tagsOf(bodyOf(t, root).Children); len(got) != 1 {
		t.Errorf("block_body = %v, want one statement", got)
	}
	if sym, _ := table.Lookup("z"); sym.Scope != 1 {
		t.Errorf("z in scope %d, want 1", sym.Scope)
	}
}

// TestParser_RecoverySwallowsBrace shows that the discard phase does not stop
// at '}': the block loses its closing brace and the parse ends at EOF.
func TestParser_RecoverySwallowsBrace(t *testing.T) {
	input := "fn main() {\n    let = 1 }\nlet w = 2;\n"

	p, _, table := parseWith(input, parser.Options{})
	errs := p.Errors()
	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2: %v", len(errs), errs)
	}
	if errs[0].Near != "=" || errs[0].Line != 2 {
		t.Errorf("first error = %s", errs[0])
	}
	if !errs[1].AtEOF {
		t.Errorf("second error = %s, want one at end of input", errs[1])
	}
	if !p.Halted() {
		t.Error("expected the parse to halt")
	}
	if table.IsDeclaredAnywhere("w") {
		t.Error("w was discarded during recovery and must not be declared")
	}
}

func TestParser_EndOfInputDuringRecovery(t *testing.T) {
	p, _, _ := parseWith("let = 1", parser.Options{})
	errs := p.Errors()
	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2: %v", len(errs), errs)
	}
	if errs[0].Kind != diag.Syntax {
		t.Errorf("first kind = %s, want syntax error", errs[0].Kind)
	}
	if errs[1].Kind != diag.EndOfInput || !errs[1].AtEOF || !errs[1].Fatal() {
		t.Errorf("second = %+v, want fatal end-of-input", errs[1])
	}
	if want := "line 1: unexpected end of input: no ';' found after the error on line 1"; errs[1].Error() != want {
		t.Errorf("second = %q, want %q", errs[1].Error(), want)
	}
	if !p.Halted() {
		t.Error("expected the parse to halt")
	}
}

func TestParser_ErrorAtEOFIsNotRepeated(t *testing.T) {
	p, _, _ := parseWith("let x = 1 +", parser.Options{})
	if len(p.Errors()) != 1 {
		t.Fatalf("got %v, want a single error", p.Errors())
	}
	if !p.Errors()[0].AtEOF {
		t.Errorf("error = %s, want one at end of input", p.Errors()[0])
	}
	if !p.Halted() {
		t.Error("expected the parse to halt")
	}
}

func TestParser_MalformedInputTerminates(t *testing.T) {
	inputs := []string{
		"} ; } ;",
		"else else",
		"let let let",
		"fn fn fn",
		"((((",
		"))))",
		"1 2 3",
		"a.b.c",
		"if if if",
		"= = =;",
		"fn main() { { { {",
		"match x { _ => 1 };",
		"'\"",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			p, root, _ := parseWith(input, parser.Options{})
			if !p.Failed() {
				t.Errorf("expected failure, got:\n%s", root)
			}
			if root == nil || root.Tag != ast.TagProgram {
				t.Errorf("root = %v, want a program node", root)
			}
		})
	}
}

func TestParser_MaxDepth(t *testing.T) {
	p, _, _ := parseWith("let x = ((((((1))))));", parser.Options{MaxDepth: 5})
	if len(p.Errors()) != 1 {
		t.Fatalf("got %v, want one error", p.Errors())
	}
	if msg := p.Errors()[0].Msg; msg != "nesting deeper than 5 levels" {
		t.Errorf("msg = %q", msg)
	}

	deep := strings.Repeat("(", 10000) + "1" + strings.Repeat(")", 10000) + ";"
	p, _, _ = parseWith(deep, parser.Options{})
	if len(p.Errors()) != 1 || p.Halted() {
		t.Errorf("deep nesting: errors %d, halted %v; want 1 error and recovery", len(p.Errors()), p.Halted())
	}

	if p, _, _ := parseWith("let x = ((1));", parser.Options{MaxDepth: 5}); p.Failed() {
		t.Errorf("shallow nesting failed: %v", p.Errors())
	}
}

// ── Tracing ───────────────────────────────────────────────────────────────────

func TestParser_Trace(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	parseWith("let x: i32 = 5;\nlet ;\n", parser.Options{Logger: logger})
	out := buf.String()

	for _, want := range []string{
		"msg=reduce tag=let_decl leaf=x line=1",
		"msg=reduce tag=program",
		"msg=declare scope=0 name=x kind=i32 inserted=true",
		"msg=recovery state=RECOVERING line=2",
		"msg=recovery state=NORMAL discarded=0",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("trace missing %q in:\n%s", want, out)
		}
	}
}
