// Package scope is the symbol table family built while parsing.
//
// A [Table] holds numbered scopes. Scope 0 is the program scope and exists
// before parsing starts; every block entered allocates the next id. Ids are
// never reused, scopes are never removed, and there is no "pop": the current
// scope cursor only moves forward.
//
// Name checks are global. [Table.Declare] looks for the name in every scope
// created so far, not only in the lexical ancestors of the target scope, and
// silently keeps the first binding when the name already exists.
package scope

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Symbol kinds that are not a primitive type name.
const (
	KindFn  = "fn"
	KindVar = "var"
)

// Symbol is one binding.
type Symbol struct {
	Scope int    `yaml:"scope"`
	Name  string `yaml:"name"`
	Kind  string `yaml:"kind"` // "fn", "var" or a primitive type name
}

// Scope is a flat symbol table. Symbols keep their insertion order.
type Scope struct {
	ID      int
	symbols []Symbol
	index   map[string]int
}

// Symbols returns the bindings of s in insertion order.
func (s *Scope) Symbols() []Symbol {
	return append([]Symbol(nil), s.symbols...)
}

// Get returns the kind bound to name in s.
func (s *Scope) Get(name string) (string, bool) {
	i, ok := s.index[name]
	if !ok {
		return "", false
	}
	return s.symbols[i].Kind, true
}

// Len returns the number of bindings in s.
func (s *Scope) Len() int { return len(s.symbols) }

// Table is the session-wide collection of scopes plus the current scope cursor.
// It is not safe for concurrent use; each parse session owns its own Table.
type Table struct {
	scopes  []*Scope
	current int
}

// NewTable returns a table holding only the empty program scope 0.
func NewTable() *Table {
	t := &Table{}
	t.scopes = append(t.scopes, newScope(0))
	return t
}

func newScope(id int) *Scope {
	return &Scope{ID: id, index: make(map[string]int)}
}

// NewScope allocates the next scope id, makes it current and returns it.
func (t *Table) NewScope() int {
	id := len(t.scopes)
	t.scopes = append(t.scopes, newScope(id))
	t.current = id
	return id
}

// Current returns the id of the current scope.
func (t *Table) Current() int { return t.current }

// Len returns how many scopes exist.
func (t *Table) Len() int { return len(t.scopes) }

// Scope returns the scope with the given id.
func (t *Table) Scope(id int) (*Scope, bool) {
	if id < 0 || id >= len(t.scopes) {
		return nil, false
	}
	return t.scopes[id], true
}

// Declare binds name to kind in scope id unless name is already bound in any
// existing scope. It reports whether the binding was inserted; a repeated
// name is not an error, the first binding simply stays. Unknown ids insert
// nothing.
func (t *Table) Declare(id int, name, kind string) bool {
	s, ok := t.Scope(id)
	if !ok || t.IsDeclaredAnywhere(name) {
		return false
	}
	s.index[name] = len(s.symbols)
	s.symbols = append(s.symbols, Symbol{Scope: id, Name: name, Kind: kind})
	return true
}

// IsDeclaredAnywhere reports whether name is bound in any scope.
func (t *Table) IsDeclaredAnywhere(name string) bool {
	_, ok := t.Lookup(name)
	return ok
}

// Lookup returns the binding for name, searching scopes in id order.
func (t *Table) Lookup(name string) (Symbol, bool) {
	for _, s := range t.scopes {
		if i, ok := s.index[name]; ok {
			return s.symbols[i], true
		}
	}
	return Symbol{}, false
}

// Dump lists every binding ordered by scope id, then insertion order.
func (t *Table) Dump() []Symbol {
	var out []Symbol
	for _, s := range t.scopes {
		out = append(out, s.symbols...)
	}
	return out
}

// String renders the table, one header per scope and one indented line per
// binding:
//
//	scope 0
//	  main: fn
//	scope 1
//	  x: i32
func (t *Table) String() string {
	var b strings.Builder
	for _, s := range t.scopes {
		fmt.Fprintf(&b, "scope %d\n", s.ID)
		for _, sym := range s.symbols {
			fmt.Fprintf(&b, "  %s: %s\n", sym.Name, sym.Kind)
		}
	}
	return b.String()
}

type yamlScope struct {
	ID      int               `yaml:"id"`
	Symbols []yamlScopeSymbol `yaml:"symbols"`
}

type yamlScopeSymbol struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
}

// MarshalYAML implements yaml.Marshaler: a list of scopes with their bindings.
func (t *Table) MarshalYAML() (interface{}, error) {
	out := make([]yamlScope, 0, len(t.scopes))
	for _, s := range t.scopes {
		ys := yamlScope{ID: s.ID, Symbols: []yamlScopeSymbol{}}
		for _, sym := range s.symbols {
			ys.Symbols = append(ys.Symbols, yamlScopeSymbol{Name: sym.Name, Kind: sym.Kind})
		}
		out = append(out, ys)
	}
	return out, nil
}

var _ yaml.Marshaler = (*Table)(nil)
