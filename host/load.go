package host

import (
	"reflect"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/npillmayer/jss/value"
)

// TypeName returns the namespace name for a receiver: the name of its type,
// pointers dereferenced.
func TypeName(receiver interface{}) string {
	t := reflect.TypeOf(receiver)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	return t.Name()
}

// LoadMethods installs the exported methods of receiver into binding, as
// functions of a namespace object named like the receiver's type. If filter
// names are given, only these methods are installed. The namespace object is
// returned; installing into an existing namespace adds to it.
func LoadMethods(binding *value.Object, receiver interface{}, filter ...string) *value.Object {
	ns := namespace(binding, TypeName(receiver))
	var allowed *treeset.Set
	if len(filter) > 0 {
		allowed = treeset.NewWithStringComparator()
		for _, f := range filter {
			allowed.Add(f)
		}
	}
	rv := reflect.ValueOf(receiver)
	t := rv.Type()
	installed := treeset.NewWithStringComparator()
	for i := 0; i < t.NumMethod(); i++ {
		meth := t.Method(i)
		if meth.PkgPath != "" || (allowed != nil && !allowed.Contains(meth.Name)) {
			continue
		}
		ns.Set(meth.Name, value.Func(wrap(meth.Name, rv.Method(i))))
		installed.Add(meth.Name)
	}
	tracer().Debugf("loaded methods of %s: %v", TypeName(receiver), installed.Values())
	return ns
}

// LoadFuncs installs Go functions into binding, as members of namespace ns. For
// an empty ns, functions are installed into binding directly. Installation
// happens in the order of function names.
func LoadFuncs(binding *value.Object, ns string, funcs map[string]interface{}) *value.Object {
	target := binding
	if ns != "" {
		target = namespace(binding, ns)
	}
	names := treeset.NewWithStringComparator()
	for name := range funcs {
		names.Add(name)
	}
	it := names.Iterator()
	for it.Next() {
		name := it.Value().(string)
		if fn := FuncOf(name, funcs[name]); !fn.IsNull() {
			target.Set(name, fn)
		}
	}
	return target
}

func namespace(binding *value.Object, name string) *value.Object {
	if v, ok := binding.Get(name); ok && v.AsObject() != nil {
		return v.AsObject()
	}
	ns := value.NewObject()
	binding.Set(name, value.Obj(ns))
	return ns
}
