package ast

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Node is the single node type of the syntax tree. Every grammar production
// yields exactly one Node:
//
//	Tag     : names the production ("let_decl", "binop", "block", ...)
//	Leaf    : atomic payload: an identifier, operator or literal text; "" when absent
//	Children: sub-nodes in left-to-right source order
//
// A node exclusively owns its children and nodes are not modified after the
// parser returns them.
type Node struct {
	Tag      string
	Leaf     string
	Children []*Node
}

// Production tags.
const (
	TagProgram  = "program"
	TagListStmt = "list_stmt"
	TagStmt     = "stmt"
	TagDeclStmt = "decl_stmt"
	TagExprStmt = "expr_stmt"
	TagItem     = "item"

	TagFnItem     = "fn_item"
	TagParamList  = "paren_expr_list"
	TagConstItem  = "const_item"
	TagStaticItem = "static_item"
	TagLetDecl    = "let_decl"
	TagInit       = "init"
	TagType       = "type"

	TagBlock     = "block"
	TagBlockBody = "block_body"

	TagNumLit    = "num_lit"
	TagStringLit = "string_lit"
	TagCharLit   = "char_lit"
	TagBoolLit   = "bool_lit"
	TagIdent     = "ident"

	TagParen          = "paren_expr"
	TagCall           = "call"
	TagMethodCall     = "method_call"
	TagArgs           = "args"
	TagBinop          = "binop"
	TagTypeCast       = "type_cast"
	TagAssign         = "assign"
	TagCompoundAssign = "compound_assign"

	TagWhile    = "while"
	TagLoop     = "loop"
	TagIf       = "if"
	TagElse     = "else"
	TagCond     = "cond_expr"
	TagBreak    = "break"
	TagContinue = "continue"
	TagReturn   = "return"
)

// New builds a node. Nil children are dropped so optional parts can be passed
// unconditionally.
func New(tag, leaf string, children ...*Node) *Node {
	n := &Node{Tag: tag, Leaf: leaf}
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// Child returns the i-th child, or nil when out of range.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// String renders the tree: one line per node, two spaces of indentation per
// level, the tag followed by " => leaf" when the node has a leaf. The output
// is deterministic and is the format written to result files.
func (n *Node) String() string {
	var b strings.Builder
	n.render(&b, 0)
	return b.String()
}

func (n *Node) render(b *strings.Builder, depth int) {
	if n == nil {
		return
	}
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(n.Tag)
	if n.Leaf != "" {
		b.WriteString(" => ")
		b.WriteString(n.Leaf)
	}
	b.WriteByte('\n')
	for _, c := range n.Children {
		c.render(b, depth+1)
	}
}

// Walk visits n and its descendants depth-first, parents before children.
// Returning false from fn skips the node's children.
func Walk(n *Node, fn func(n *Node, depth int) bool) {
	walk(n, 0, fn)
}

func walk(n *Node, depth int, fn func(*Node, int) bool) {
	if n == nil || !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		walk(c, depth+1, fn)
	}
}

// Equal reports whether two trees have the same shape, tags and leaves.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Tag != b.Tag || a.Leaf != b.Leaf || len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

// Find returns the first node with the given tag in depth-first order, or nil.
func (n *Node) Find(tag string) *Node {
	var found *Node
	Walk(n, func(x *Node, _ int) bool {
		if found != nil {
			return false
		}
		if x.Tag == tag {
			found = x
			return false
		}
		return true
	})
	return found
}

// Count returns how many nodes in the tree carry tag.
func (n *Node) Count(tag string) int {
	count := 0
	Walk(n, func(x *Node, _ int) bool {
		if x.Tag == tag {
			count++
		}
		return true
	})
	return count
}

// yamlNode is the serialised form; it keeps empty leaves and child lists out
// of the document.
type yamlNode struct {
	Tag      string  `yaml:"tag"`
	Leaf     string  `yaml:"leaf,omitempty"`
	Children []*Node `yaml:"children,omitempty"`
}

// MarshalYAML implements yaml.Marshaler.
func (n *Node) MarshalYAML() (interface{}, error) {
	return yamlNode{Tag: n.Tag, Leaf: n.Leaf, Children: n.Children}, nil
}

// UnmarshalYAML implements yaml.Unmarshaler so a dumped tree can be read back
// by tooling.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	var y yamlNode
	if err := value.Decode(&y); err != nil {
		return err
	}
	n.Tag, n.Leaf, n.Children = y.Tag, y.Leaf, y.Children
	return nil
}
