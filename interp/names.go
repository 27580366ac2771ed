package interp

import (
	"fmt"

	"github.com/npillmayer/jss/ast"
	"github.com/npillmayer/jss/host"
	"github.com/npillmayer/jss/value"
)

// Names resolve in this order: the scopes of the current frame, `this`, the
// members of the frame's this-context, and finally the interpreter's globals.

// lookup resolves a name.
func (w *walker) lookup(name string) (value.Value, bool) {
	fr := w.frame()
	if v, ok := fr.Lookup(name); ok {
		return v, true
	}
	if name == "this" {
		return fr.This, true
	}
	if obj := fr.This.AsObject(); obj != nil {
		if v, ok := obj.Get(name); ok {
			return v, true
		}
	} else if h, ok := host.Of(fr.This); ok {
		if v, ok := h.Get(name); ok {
			return v, true
		}
	}
	return w.ctx.ip.globals.Get(name)
}

// bind assigns to a name. Existing bindings are updated in resolution order.
// New names are created in the this-context if it is an object, otherwise they
// become globals.
func (w *walker) bind(name string, v value.Value) {
	fr := w.frame()
	if fr.Assign(name, v) {
		return
	}
	base := fr.This.AsObject()
	if base != nil && base.Has(name) {
		base.Set(name, v)
		return
	}
	if base == nil {
		if h, ok := host.Of(fr.This); ok && h.Set(name, v) {
			return
		}
	}
	globals := w.ctx.ip.globals
	if globals.Has(name) || base == nil {
		globals.Set(name, v)
		return
	}
	base.Set(name, v)
}

// member reads a member of a container, which may be a host object.
func member(container, key value.Value) (value.Value, bool) {
	if h, ok := host.Of(container); ok {
		return h.Get(key.Text())
	}
	return container.Get(key)
}

func setMember(container, key, v value.Value) error {
	if h, ok := host.Of(container); ok {
		if h.Set(key.Text(), v) {
			return nil
		}
		return fmt.Errorf("cannot set member %q of host object", key.Text())
	}
	return container.Set(key, v)
}

// read evaluates a path for reading. Undefined names and missing members read
// as null.
func (w *walker) read(path *ast.Node) (value.Value, signal) {
	root := path.Datum(0)
	v, found := w.lookup(root)
	if !found {
		tracer().Debugf("%s: undefined name %q reads as null", path.Token.Pos(), root)
	}
	for _, kn := range path.Children {
		k, sig := w.walk(kn)
		if sig.flow != normal {
			return k, sig
		}
		v, _ = member(v, k)
	}
	return v, proceed
}

// location is an assignable place: a plain name or a member of a container.
type location struct {
	w         *walker
	name      string
	container value.Value
	key       value.Value
}

func (l location) isMember() bool {
	return l.name == ""
}

func (l location) get() value.Value {
	if !l.isMember() {
		v, _ := l.w.lookup(l.name)
		return v
	}
	v, _ := member(l.container, l.key)
	return v
}

func (l location) set(v value.Value) error {
	if !l.isMember() {
		l.w.bind(l.name, v)
		return nil
	}
	return setMember(l.container, l.key, v)
}

// reference evaluates a path for writing. All but the last key must resolve.
func (w *walker) reference(path *ast.Node) (location, signal) {
	root := path.Datum(0)
	if len(path.Children) == 0 {
		return location{w: w, name: root}, proceed
	}
	container, found := w.lookup(root)
	if !found {
		return location{}, w.failf(path, "undefined name %q", root)
	}
	keys := make([]value.Value, len(path.Children))
	for i, kn := range path.Children {
		k, sig := w.walk(kn)
		if sig.flow != normal {
			return location{}, sig
		}
		keys[i] = k
	}
	for _, k := range keys[:len(keys)-1] {
		next, ok := member(container, k)
		if !ok {
			return location{}, w.failf(path, "no member %s in %q", k, root)
		}
		container = next
	}
	return location{w: w, container: container, key: keys[len(keys)-1]}, proceed
}

// --- Calls -----------------------------------------------------------------

// callTarget is the resolved target of a function call.
type callTarget struct {
	fn   value.Value
	this value.Value
	host host.ScriptHost // set if fn is no callable but this is a host
	name string
}

func (w *walker) callee(path *ast.Node) (callTarget, signal) {
	var t callTarget
	if len(path.Children) == 0 {
		t.name = path.Datum(0)
		t.fn, _ = w.lookup(t.name)
		t.this = w.frame().This
	} else {
		loc, sig := w.reference(path)
		if sig.flow != normal {
			return t, sig
		}
		t.name = loc.key.Text()
		t.fn, _ = member(loc.container, loc.key)
		t.this = loc.container
	}
	if t.fn.AsCallable() == nil {
		t.host, _ = host.Of(t.this)
	}
	return t, proceed
}

// call evaluates a function call. The target is resolved first, then the
// arguments from left to right. Promises returned by the callee are awaited.
func (w *walker) call(n *ast.Node) (value.Value, signal) {
	t, sig := w.callee(n.Child("target"))
	if sig.flow != normal {
		return value.Null, sig
	}
	var args []value.Value
	if params := n.Child("params"); params != nil {
		args = make([]value.Value, 0, len(params.Children))
		for _, p := range params.Children {
			v, sig := w.walk(p)
			if sig.flow != normal {
				return v, sig
			}
			if p.Kind == ast.Spread {
				args = append(args, spreadArgs(v)...)
				continue
			}
			args = append(args, v)
		}
	}
	var result value.Value
	var err error
	switch fn := t.fn.AsCallable().(type) {
	case nil:
		if t.host == nil {
			return value.Null, w.failf(n, "%q is not a function", t.name)
		}
		result, err = t.host.Call(t.name, args)
	case *Function:
		result, err = w.eff.call(w, fn, t.this, args)
	default:
		result, err = fn.Call(t.this, args)
	}
	if err == nil {
		result, err = w.eff.await(result)
	}
	if err != nil {
		return value.Null, w.fail(n, err)
	}
	return result, proceed
}

func spreadArgs(v value.Value) []value.Value {
	switch {
	case v.AsArray() != nil:
		return v.AsArray().Values()
	case v.AsObject() != nil:
		var vals []value.Value
		v.AsObject().Each(func(_ string, e value.Value) {
			vals = append(vals, e)
		})
		return vals
	case v.IsNull():
		return nil
	}
	return []value.Value{v}
}
