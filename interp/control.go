package interp

import (
	"github.com/npillmayer/jss/ast"
	"github.com/npillmayer/jss/runtime"
	"github.com/npillmayer/jss/value"
)

// ifStmt evaluates to the value of the branch taken, or null.
func (w *walker) ifStmt(n *ast.Node) (value.Value, signal) {
	c, sig := w.walk(n.Child("cond"))
	if sig.flow != normal {
		return c, sig
	}
	if c.Truthy() {
		return w.walk(n.Child("body"))
	}
	for i := 0; i+1 < len(n.Children); i += 2 {
		c, sig := w.walk(n.Children[i])
		if sig.flow != normal {
			return c, sig
		}
		if c.Truthy() {
			return w.walk(n.Children[i+1])
		}
	}
	return w.walk(n.Child("else"))
}

// loopControl interprets the signal of a loop body for a loop with the given
// label. It reports whether the loop has to terminate and the signal to pass
// on to the enclosing statement.
func loopControl(sig signal, label string) (stop bool, out signal) {
	switch sig.flow {
	case normal:
		return false, proceed
	case brk:
		if sig.targets(label) {
			return true, proceed
		}
	case cont:
		if sig.targets(label) {
			return false, proceed
		}
	}
	return true, sig
}

// A loop evaluates to the value of the last body run that completed normally.

func (w *walker) forLoop(n *ast.Node) (value.Value, signal) {
	fr := w.frame()
	fr.PushScope("for")
	defer fr.PopScope()
	inline := func(list *ast.Node) signal {
		if list == nil {
			return proceed
		}
		for _, stmt := range list.Children {
			if v, sig := w.walk(stmt); sig.flow != normal {
				sig.val = v
				return sig
			}
		}
		return proceed
	}
	if sig := inline(n.Child("init")); sig.flow != normal {
		return sig.val, sig
	}
	label, last := n.Label(), value.Null
	for {
		if cond := n.Child("cond"); cond != nil {
			c, sig := w.walk(cond)
			if sig.flow != normal {
				return c, sig
			}
			if !c.Truthy() {
				break
			}
		}
		v, sig := w.walk(n.Child("body"))
		if sig.flow == normal {
			last = v
		}
		if stop, out := loopControl(sig, label); stop {
			return last, out
		}
		if sig := inline(n.Child("incr")); sig.flow != normal {
			return sig.val, sig
		}
	}
	return last, proceed
}

// whileLoop runs while and do-while loops.
func (w *walker) whileLoop(n *ast.Node) (value.Value, signal) {
	label, last := n.Label(), value.Null
	check := n.Kind == ast.WhileLoop
	for {
		if check {
			c, sig := w.walk(n.Child("cond"))
			if sig.flow != normal {
				return c, sig
			}
			if !c.Truthy() {
				break
			}
		}
		check = true
		v, sig := w.walk(n.Child("body"))
		if sig.flow == normal {
			last = v
		}
		if stop, out := loopControl(sig, label); stop {
			return last, out
		}
	}
	return last, proceed
}

// eachLoop iterates over arrays (elements, or index and element) and objects
// (values, or key and value, in insertion order). Iterating over null is a
// no-op. The collection is snapshot before the first iteration.
func (w *walker) eachLoop(n *ast.Node) (value.Value, signal) {
	coll, sig := w.walk(n.Child("collection"))
	if sig.flow != normal {
		return coll, sig
	}
	var keys, vals []value.Value
	switch {
	case coll.AsArray() != nil:
		vals = coll.AsArray().Values()
		keys = make([]value.Value, len(vals))
		for i := range vals {
			keys[i] = value.Int(i)
		}
	case coll.AsObject() != nil:
		coll.AsObject().Each(func(k string, e value.Value) {
			keys = append(keys, value.String(k))
			vals = append(vals, e)
		})
	case coll.IsNull():
	default:
		return value.Null, w.failf(n, "cannot iterate over %s", coll.Kind())
	}
	fr := w.frame()
	fr.PushScope("each")
	defer fr.PopScope()
	var names []string
	if vars := n.Child("vars"); vars != nil {
		names = vars.Data
	}
	tags := make([]*runtime.Tag, len(names))
	for i, name := range names {
		tags[i] = fr.Declare(name, value.Null)
	}
	label, last := n.Label(), value.Null
	for i := range vals {
		switch len(tags) {
		case 0:
		case 1:
			tags[0].Value = vals[i]
		default:
			tags[0].Value = keys[i]
			tags[1].Value = vals[i]
		}
		v, sig := w.walk(n.Child("body"))
		if sig.flow == normal {
			last = v
		}
		if stop, out := loopControl(sig, label); stop {
			return last, out
		}
	}
	return last, proceed
}
