package runtime

import (
	"fmt"

	"github.com/npillmayer/jss/value"
)

// Bindings of script variables. Every scope owns a flat symbol table, and
// scopes are chained to their enclosing scope. A frame keeps its scopes as a
// stack.

// --- Tags ------------------------------------------------------------------

// Tag is a variable binding. Tags are created for declarations as well as for
// implicit bindings (loop variables, function parameters, `args`). Loop
// variables are re-bound by updating Value in place.
type Tag struct {
	name  string
	Value value.Value // current value of the binding
}

// NewTag creates a tag bound to null.
func NewTag(nm string) *Tag {
	return &Tag{name: nm, Value: value.Null}
}

func (tag *Tag) String() string {
	return fmt.Sprintf("<tag '%s'=%s>", tag.name, tag.Value)
}

// Name gets the tag's name.
func (tag *Tag) Name() string {
	return tag.name
}

// === Symbol Tables =========================================================

// SymbolTable maps names to tags.
type SymbolTable struct {
	table map[string]*Tag
}

// NewSymbolTable creates an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{table: make(map[string]*Tag)}
}

// ResolveTag returns the tag for a name, or nil.
func (t *SymbolTable) ResolveTag(name string) *Tag {
	return t.table[name]
}

// DefineTag creates a new tag for a name, replacing an existing one.
// It returns the new tag and the replaced one, if any. Empty names are not
// accepted.
func (t *SymbolTable) DefineTag(name string) (tag *Tag, old *Tag) {
	if name == "" {
		return nil, nil
	}
	old = t.table[name]
	tag = NewTag(name)
	t.table[name] = tag
	return tag, old
}

// Size counts the tags in a symbol table.
func (t *SymbolTable) Size() int {
	return len(t.table)
}

// === Scopes ================================================================

// Scope is a block scope. Scopes link back to the enclosing scope.
type Scope struct {
	Name   string
	Parent *Scope
	symtab *SymbolTable
}

// NewScope creates a new scope, nested into parent.
func NewScope(nm string, parent *Scope) *Scope {
	return &Scope{Name: nm, Parent: parent, symtab: NewSymbolTable()}
}

func (s *Scope) String() string {
	return fmt.Sprintf("<scope %s, %d tags>", s.Name, s.symtab.Size())
}

// DefineTag declares a name in this scope, see SymbolTable.DefineTag.
func (s *Scope) DefineTag(name string) (*Tag, *Tag) {
	return s.symtab.DefineTag(name)
}

// ResolveTag searches this scope and its enclosing scopes for a name. It
// returns the tag (or nil) and the scope the tag lives in.
func (s *Scope) ResolveTag(name string) (*Tag, *Scope) {
	for sc := s; sc != nil; sc = sc.Parent {
		if tag := sc.symtab.ResolveTag(name); tag != nil {
			return tag, sc
		}
	}
	return nil, nil
}

// ---------------------------------------------------------------------------

// ScopeTree is the scope stack of a frame: blocks and loops push a new scope
// on entry and pop it on exit.
type ScopeTree struct {
	ScopeTOS *Scope
	depth    int
}

// Current gets the innermost scope.
func (scst *ScopeTree) Current() *Scope {
	if scst.ScopeTOS == nil {
		panic("attempt to access scope from empty stack")
	}
	return scst.ScopeTOS
}

// PushNewScope pushes a new, empty scope.
func (scst *ScopeTree) PushNewScope(nm string) *Scope {
	scst.ScopeTOS = NewScope(nm, scst.ScopeTOS)
	scst.depth++
	T().P("scope", nm).Debugf("pushing new scope")
	return scst.ScopeTOS
}

// PopScope pops the innermost scope and returns it.
func (scst *ScopeTree) PopScope() *Scope {
	if scst.ScopeTOS == nil {
		panic("attempt to pop scope from empty stack")
	}
	sc := scst.ScopeTOS
	T().Debugf("popping scope [%s]", sc.Name)
	scst.ScopeTOS = sc.Parent
	scst.depth--
	return sc
}

// Depth returns the number of scopes on the stack.
func (scst *ScopeTree) Depth() int {
	return scst.depth
}
