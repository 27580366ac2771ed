package host

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/npillmayer/jss/future"
	"github.com/npillmayer/jss/value"
)

// ScriptHost is the capability set a native object offers to scripts.
type ScriptHost interface {
	Get(key string) (value.Value, bool)                       // read a member
	Set(key string, v value.Value) bool                       // write a member, if possible
	Call(key string, args []value.Value) (value.Value, error) // invoke a member function
}

// Of returns the script host behind a value, if any. Native values not
// implementing ScriptHost are reflected.
func Of(v value.Value) (ScriptHost, bool) {
	if v.Kind() != value.NativeKind {
		return nil, false
	}
	x := v.AsNative()
	if _, ok := x.(future.Promise); ok {
		return nil, false
	}
	if h := Reflect(x); h != nil {
		return h, true
	}
	return nil, false
}

// Bind wraps x as a native script value, accessible through ScriptHost.
func Bind(x interface{}) value.Value {
	if h := Reflect(x); h != nil {
		return value.Native(h)
	}
	return value.Null
}

// --- Reflection ------------------------------------------------------------

// members is the cached member table of a type.
type members struct {
	methods map[string]int   // method index of the type
	fields  map[string][]int // field index path of the (pointed-to) struct
}

var memberCache sync.Map // reflect.Type → *members

func membersOf(t reflect.Type) *members {
	if m, ok := memberCache.Load(t); ok {
		return m.(*members)
	}
	m := &members{
		methods: make(map[string]int),
		fields:  make(map[string][]int),
	}
	for i := 0; i < t.NumMethod(); i++ {
		if meth := t.Method(i); meth.PkgPath == "" {
			m.methods[meth.Name] = i
		}
	}
	st := t
	if st.Kind() == reflect.Ptr {
		st = st.Elem()
	}
	if st.Kind() == reflect.Struct {
		for _, f := range reflect.VisibleFields(st) {
			if f.PkgPath != "" || f.Anonymous {
				continue
			}
			m.fields[f.Name] = f.Index
		}
	}
	tracer().Debugf("reflected %d methods, %d fields of %s", len(m.methods), len(m.fields), t)
	actual, _ := memberCache.LoadOrStore(t, m)
	return actual.(*members)
}

// reflectHost adapts an arbitrary Go value to ScriptHost.
type reflectHost struct {
	rv reflect.Value
	m  *members
}

// Reflect returns a script host for x. Values already implementing ScriptHost
// are returned unchanged, nil returns nil.
func Reflect(x interface{}) ScriptHost {
	if x == nil {
		return nil
	}
	if h, ok := x.(ScriptHost); ok {
		return h
	}
	rv := reflect.ValueOf(x)
	return &reflectHost{rv: rv, m: membersOf(rv.Type())}
}

func (h *reflectHost) field(key string) (reflect.Value, bool) {
	index, ok := h.m.fields[key]
	if !ok {
		return reflect.Value{}, false
	}
	sv := h.rv
	if sv.Kind() == reflect.Ptr {
		if sv.IsNil() {
			return reflect.Value{}, false
		}
		sv = sv.Elem()
	}
	f, err := sv.FieldByIndexErr(index)
	return f, err == nil
}

// Get returns fields as converted values and methods as bound functions.
func (h *reflectHost) Get(key string) (value.Value, bool) {
	if f, ok := h.field(key); ok {
		return Result(f.Interface()), true
	}
	if i, ok := h.m.methods[key]; ok {
		return value.Func(wrap(key, h.rv.Method(i))), true
	}
	return value.Null, false
}

// Set assigns to a field of a struct reachable through a pointer.
func (h *reflectHost) Set(key string, v value.Value) bool {
	f, ok := h.field(key)
	if !ok || !f.CanSet() {
		return false
	}
	nv, err := value.ToNative(v, f.Type())
	if err != nil {
		tracer().Infof("cannot set %s: %v", key, err)
		return false
	}
	f.Set(nv)
	return true
}

// Call invokes a method.
func (h *reflectHost) Call(key string, args []value.Value) (value.Value, error) {
	i, ok := h.m.methods[key]
	if !ok {
		return value.Null, fmt.Errorf("%w: %s.%s", ErrNoSuchMember, h.rv.Type(), key)
	}
	return Invoke(key, h.rv.Method(i), args), nil
}
