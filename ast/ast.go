/*
Package ast defines the program tree produced by the parser and walked by the
interpreter.

Every node carries a kind, an ordered child list, a map of named children,
an ordered list of literal strings and a map of literal tags. Which of these
are populated is fixed by the kind of a node; the shapes are documented with
the kind constants. The interpreter trusts these shapes.

Trees are built once and may be evaluated any number of times, e.g. a
function body is walked on every call. Clients must not modify a tree after it
has been handed to the interpreter.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package ast

import (
	"fmt"

	"github.com/npillmayer/jss"
)

// Kind is the discriminant of a Node.
type Kind int8

// Node kinds.
const (
	NoKind        Kind = iota
	Program            // Children: statements
	StmtList           // Children: statements, run inline by for-loops (init/incr)
	CodeBlock          // Children: statements
	ForLoop            // Named: init?, cond?, incr?, body; Tags: label?
	EachLoop           // Named: vars (VarList), collection, body; Tags: label?
	WhileLoop          // Named: cond, body; Tags: label?
	DoWhileLoop        // Named: cond, body; Tags: label?
	IfStmt             // Named: cond, body, else?; Children: else-if cond/stmt pairs
	DecStmt            // Data: [name]; Named: expr?
	Assign             // Named: target (PathExpr), expr?; Tags: assignType, fix
	Expr               // Children: operands of `||`
	BoolTerm           // Children: operands of `&&`
	BoolFactor         // Named: left, right?; Tags: op?, not?
	ArithExpr          // Children: operands; Data: operators `+`/`-` for operands 1…n
	ArithTerm          // Children: operands; Data: operators `*`/`/`/`%` for operands 1…n
	ArithFactor        // Named: expr (negated)
	Atom               // Named: path (PathExpr)
	Value              // Data: [literal]; Tags: type (number|string|bool|null)
	FuncCall           // Named: target (PathExpr), params (ParamsList)
	FuncDec            // Data: parameter names; Named: body
	ObjectLiteral      // Children: spreads; Data: keys; Named: one expression per key
	ArrayLiteral       // Children: elements or spreads
	PathExpr           // Data: [root name]; Children: key expressions
	Spread             // Named: expr
	VarList            // Data: names
	ParamsList         // Children: argument expressions or Spread
	BreakStmt          // Tags: label?
	ContinueStmt       // Tags: label?
	ReturnStmt         // Named: expr?
)

var kindNames = [...]string{
	"NONE", "PROGRAM", "STMTLIST", "CODEBLOCK", "FORLOOP", "EACHLOOP", "WHILELOOP",
	"DOWHILELOOP", "IFSTMT", "DECSTMT", "ASSIGN", "EXPR", "BOOLTERM", "BOOLFACTOR",
	"ARITHEXPR", "ARITHTERM", "ARITHFACTOR", "ATOM", "VALUE", "FUNCCALL", "FUNCDEC",
	"OBJECTLITERAL", "ARRAYLITERAL", "PATHEXPR", "SPREAD", "VARLIST", "PARAMSLIST",
	"BREAKSTMT", "CONTINUESTMT", "RETURNSTMT",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// IsLoop is a predicate: may nodes of kind k carry a label?
func (k Kind) IsLoop() bool {
	return k == ForLoop || k == EachLoop || k == WhileLoop || k == DoWhileLoop
}

// Node is a node of a program tree.
type Node struct {
	Kind     Kind
	Children []*Node
	Named    map[string]*Node
	Data     []string
	Tags     map[string]string
	Token    jss.Token // first token of the construct, for diagnostics
}

// New creates a node of kind k, positioned at token tok.
func New(k Kind, tok jss.Token) *Node {
	return &Node{Kind: k, Token: tok}
}

// Add appends children to n and returns n.
func (n *Node) Add(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// Child returns the named child, or nil.
func (n *Node) Child(name string) *Node {
	if n == nil || n.Named == nil {
		return nil
	}
	return n.Named[name]
}

// SetChild sets a named child. Setting a nil child is a no-op.
func (n *Node) SetChild(name string, c *Node) *Node {
	if c == nil {
		return n
	}
	if n.Named == nil {
		n.Named = make(map[string]*Node)
	}
	n.Named[name] = c
	return n
}

// Tag returns the tag value for key, or "".
func (n *Node) Tag(key string) string {
	if n == nil || n.Tags == nil {
		return ""
	}
	return n.Tags[key]
}

// SetTag sets a tag. Empty values are not stored.
func (n *Node) SetTag(key, val string) *Node {
	if val == "" {
		return n
	}
	if n.Tags == nil {
		n.Tags = make(map[string]string)
	}
	n.Tags[key] = val
	return n
}

// Datum returns the i-th literal of n, or "".
func (n *Node) Datum(i int) string {
	if n == nil || i < 0 || i >= len(n.Data) {
		return ""
	}
	return n.Data[i]
}

// Label returns the label of a loop or a break/continue statement. Unlabeled
// constructs return "".
func (n *Node) Label() string {
	return n.Tag("label")
}
