package value

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
)

var valueType = reflect.TypeOf(Value{})

// --- Native → Value --------------------------------------------------------

// FromNative converts a Go value into a script value by structural reflection:
// numbers, strings, booleans, slices, string-keyed maps and structs (exported
// fields only, honouring `json` tags) are converted; everything else is
// wrapped as a native value.
func FromNative(x interface{}) Value {
	if v, ok := x.(Value); ok {
		return v
	}
	if x == nil {
		return Null
	}
	return FromReflect(reflect.ValueOf(x))
}

// FromReflect is like FromNative for reflected values. Pointers, maps and
// slices which lead back to themselves convert to null at the point of
// recursion.
func FromReflect(rv reflect.Value) Value {
	return fromReflect(rv, make(map[visit]bool))
}

// visit identifies a Go container under conversion.
type visit struct {
	ptr uintptr
	typ reflect.Type
	len int
}

func enter(rv reflect.Value, open map[visit]bool) (visit, bool) {
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice:
		if rv.IsNil() {
			return visit{}, true
		}
		v := visit{ptr: rv.Pointer(), typ: rv.Type()}
		if rv.Kind() == reflect.Slice {
			v.len = rv.Len()
		}
		if open[v] {
			return v, false
		}
		open[v] = true
		return v, true
	}
	return visit{}, true
}

func fromReflect(rv reflect.Value, open map[visit]bool) Value {
	if !rv.IsValid() {
		return Null
	}
	if rv.Type() == valueType {
		return rv.Interface().(Value)
	}
	if key, ok := enter(rv, open); !ok {
		return Null
	} else if key.ptr != 0 {
		defer delete(open, key)
	}
	switch rv.Kind() {
	case reflect.Interface, reflect.Ptr:
		if rv.IsNil() {
			return Null
		}
		return fromReflect(rv.Elem(), open)
	case reflect.Bool:
		return Bool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Number(float64(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Number(float64(rv.Uint()))
	case reflect.Float32, reflect.Float64:
		return Number(rv.Float())
	case reflect.String:
		return String(rv.String())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Null
		}
		arr := NewArray()
		for i := 0; i < rv.Len(); i++ {
			arr.Append(fromReflect(rv.Index(i), open))
		}
		return Arr(arr)
	case reflect.Map:
		if rv.IsNil() {
			return Null
		}
		keys := make([]string, 0, rv.Len())
		vals := make(map[string]reflect.Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := fmt.Sprint(iter.Key().Interface())
			keys = append(keys, k)
			vals[k] = iter.Value()
		}
		sort.Strings(keys) // map order is random, make it reproducible
		obj := NewObject()
		for _, k := range keys {
			obj.Set(k, fromReflect(vals[k], open))
		}
		return Obj(obj)
	case reflect.Struct:
		obj := NewObject()
		t := rv.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			name, ok := fieldName(f)
			if !ok {
				continue
			}
			obj.Set(name, fromReflect(rv.Field(i), open))
		}
		return Obj(obj)
	}
	if rv.CanInterface() {
		return Native(rv.Interface())
	}
	return Null
}

func fieldName(f reflect.StructField) (string, bool) {
	if f.PkgPath != "" { // unexported
		return "", false
	}
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", false
	}
	if name := strings.Split(tag, ",")[0]; name != "" {
		return name, true
	}
	return f.Name, true
}

// Interface converts v into generic Go data: nil, bool, float64, string,
// []interface{}, map[string]interface{}, or the wrapped callable/native data.
// A container nested inside itself converts to nil at the point of recursion.
func (v Value) Interface() interface{} {
	return v.generic(make(map[interface{}]bool))
}

func (v Value) generic(open map[interface{}]bool) interface{} {
	if v.kind == ArrayKind || v.kind == ObjectKind {
		if open[v.ref] {
			return nil
		}
		open[v.ref] = true
		defer delete(open, v.ref)
	}
	switch v.kind {
	case NullKind:
		return nil
	case BoolKind:
		return v.num != 0
	case NumberKind:
		return v.num
	case StringKind:
		return v.str
	case ArrayKind:
		vals := v.AsArray().Values()
		l := make([]interface{}, len(vals))
		for i, e := range vals {
			l[i] = e.generic(open)
		}
		return l
	case ObjectKind:
		m := make(map[string]interface{}, v.AsObject().Len())
		v.AsObject().Each(func(k string, e Value) {
			m[k] = e.generic(open)
		})
		return m
	}
	return v.ref
}

// --- Value → Native --------------------------------------------------------

// Satisfies is a predicate: can v be handed to a parameter of type t without any
// structural conversion?
func Satisfies(v Value, t reflect.Type) bool {
	if t == valueType {
		return true
	}
	if v.kind == NativeKind || v.kind == FuncKind {
		return reflect.TypeOf(v.ref).AssignableTo(t)
	}
	switch t.Kind() {
	case reflect.Bool:
		return v.kind == BoolKind
	case reflect.String:
		return v.kind == StringKind
	case reflect.Float32, reflect.Float64:
		return v.kind == NumberKind
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.kind == NumberKind && v.num == math.Trunc(v.num)
	case reflect.Interface:
		return t.NumMethod() == 0
	}
	return false
}

// ToNative converts v into a Go value of type t by structural matching. It
// returns an error if the shapes do not fit or if v contains itself.
func ToNative(v Value, t reflect.Type) (reflect.Value, error) {
	return toNative(v, t, make(map[interface{}]bool))
}

func toNative(v Value, t reflect.Type, open map[interface{}]bool) (reflect.Value, error) {
	if t == valueType {
		return reflect.ValueOf(v), nil
	}
	if v.kind == NativeKind || v.kind == FuncKind {
		if rv := reflect.ValueOf(v.ref); rv.Type().AssignableTo(t) {
			return rv, nil
		}
	}
	mismatch := func() (reflect.Value, error) {
		return reflect.Value{}, fmt.Errorf("%w: cannot convert %s to %s", ErrOperand, v.kind, t)
	}
	circular := func() (reflect.Value, error) {
		return reflect.Value{}, fmt.Errorf("%w: cannot convert circular %s to %s", ErrOperand, v.kind, t)
	}
	switch t.Kind() {
	case reflect.Interface:
		if t.NumMethod() != 0 {
			return mismatch()
		}
		if v.IsNull() {
			return reflect.Zero(t), nil
		}
		g := v.generic(open)
		if g == nil {
			return reflect.Zero(t), nil
		}
		return reflect.ValueOf(g), nil
	case reflect.Ptr:
		if v.IsNull() {
			return reflect.Zero(t), nil
		}
		elem, err := toNative(v, t.Elem(), open)
		if err != nil {
			return elem, err
		}
		p := reflect.New(t.Elem())
		p.Elem().Set(elem)
		return p, nil
	case reflect.Bool:
		if v.kind != BoolKind {
			return mismatch()
		}
		return reflect.ValueOf(v.num != 0).Convert(t), nil
	case reflect.String:
		if v.kind != StringKind {
			return mismatch()
		}
		return reflect.ValueOf(v.str).Convert(t), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		if v.kind != NumberKind {
			return mismatch()
		}
		return reflect.ValueOf(v.num).Convert(t), nil
	case reflect.Slice:
		arr := v.AsArray()
		if arr == nil {
			if v.IsNull() {
				return reflect.Zero(t), nil
			}
			return mismatch()
		}
		if open[v.ref] {
			return circular()
		}
		open[v.ref] = true
		defer delete(open, v.ref)
		vals := arr.Values()
		s := reflect.MakeSlice(t, len(vals), len(vals))
		for i, e := range vals {
			ev, err := toNative(e, t.Elem(), open)
			if err != nil {
				return reflect.Value{}, err
			}
			s.Index(i).Set(ev)
		}
		return s, nil
	case reflect.Map:
		obj := v.AsObject()
		if obj == nil || t.Key().Kind() != reflect.String {
			return mismatch()
		}
		if open[v.ref] {
			return circular()
		}
		open[v.ref] = true
		defer delete(open, v.ref)
		m := reflect.MakeMapWithSize(t, obj.Len())
		var err error
		obj.Each(func(k string, e Value) {
			if err != nil {
				return
			}
			var ev reflect.Value
			if ev, err = toNative(e, t.Elem(), open); err == nil {
				m.SetMapIndex(reflect.ValueOf(k).Convert(t.Key()), ev)
			}
		})
		if err != nil {
			return reflect.Value{}, err
		}
		return m, nil
	case reflect.Struct:
		obj := v.AsObject()
		if obj == nil {
			return mismatch()
		}
		if open[v.ref] {
			return circular()
		}
		open[v.ref] = true
		defer delete(open, v.ref)
		s := reflect.New(t).Elem()
		for i := 0; i < t.NumField(); i++ {
			name, ok := fieldName(t.Field(i))
			if !ok {
				continue
			}
			if e, found := obj.Get(name); found {
				fv, err := toNative(e, t.Field(i).Type, open)
				if err != nil {
					return reflect.Value{}, err
				}
				s.Field(i).Set(fv)
			}
		}
		return s, nil
	}
	return mismatch()
}
