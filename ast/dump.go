package ast

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cnf/structhash"
	"github.com/pterm/pterm"
)

// String returns an s-expression dump of the tree rooted at n, e.g.
//
//    (ARITHEXPR [+] (VALUE [1] type=number) (ATOM :path (PATHEXPR [x])))
//
func (n *Node) String() string {
	var b strings.Builder
	n.dump(&b)
	return b.String()
}

func (n *Node) dump(b *strings.Builder) {
	if n == nil {
		b.WriteString("nil")
		return
	}
	b.WriteByte('(')
	b.WriteString(n.Kind.String())
	if len(n.Data) > 0 {
		fmt.Fprintf(b, " %q", n.Data)
	}
	for _, k := range sortedKeys(n.Tags) {
		fmt.Fprintf(b, " %s=%s", k, n.Tags[k])
	}
	for _, k := range n.names() {
		fmt.Fprintf(b, " :%s ", k)
		n.Named[k].dump(b)
	}
	for _, c := range n.Children {
		b.WriteByte(' ')
		c.dump(b)
	}
	b.WriteByte(')')
}

// names returns the names of the named children in a stable order. Object
// literals keep the order of their keys.
func (n *Node) names() []string {
	if n.Kind == ObjectLiteral {
		return n.Data
	}
	names := make([]string, 0, len(n.Named))
	for k := range n.Named {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// --- Tree rendering --------------------------------------------------------

// Tree returns n as a pterm tree, ready for rendering:
//
//    pterm.DefaultTree.WithRoot(prog.Tree()).Render()
//
func (n *Node) Tree() pterm.TreeNode {
	ll := n.leveled(pterm.LeveledList{}, 0, "")
	return pterm.NewTreeFromLeveledList(ll)
}

func (n *Node) leveled(ll pterm.LeveledList, level int, role string) pterm.LeveledList {
	text := "nil"
	if n != nil {
		text = n.Kind.String()
		if len(n.Data) > 0 {
			text += " " + strings.Join(n.Data, ", ")
		}
		for _, k := range sortedKeys(n.Tags) {
			text += fmt.Sprintf(" %s=%s", k, n.Tags[k])
		}
	}
	if role != "" {
		text = role + ": " + text
	}
	ll = append(ll, pterm.LeveledListItem{Level: level, Text: text})
	if n == nil {
		return ll
	}
	for _, k := range n.names() {
		ll = n.Named[k].leveled(ll, level+1, k)
	}
	for _, c := range n.Children {
		ll = c.leveled(ll, level+1, "")
	}
	return ll
}

// --- Fingerprints ----------------------------------------------------------

// digest is the hashable projection of a node. Positions are left out, so
// trees differing in layout only share a fingerprint.
type digest struct {
	Kind     string
	Data     []string
	Tags     map[string]string
	Named    map[string]*digest
	Children []*digest
}

func (n *Node) digest() *digest {
	if n == nil {
		return nil
	}
	d := &digest{Kind: n.Kind.String(), Data: n.Data, Tags: n.Tags}
	if len(n.Named) > 0 {
		d.Named = make(map[string]*digest, len(n.Named))
		for k, c := range n.Named {
			d.Named[k] = c.digest()
		}
	}
	for _, c := range n.Children {
		d.Children = append(d.Children, c.digest())
	}
	return d
}

// Fingerprint returns a structural hash of the tree rooted at n. Equal trees
// have equal fingerprints, regardless of source positions.
func (n *Node) Fingerprint() string {
	h, err := structhash.Hash(n.digest(), 1)
	if err != nil {
		tracer().Errorf("cannot fingerprint %s: %v", n.Kind, err)
		return ""
	}
	return h
}
