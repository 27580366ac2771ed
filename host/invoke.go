package host

import (
	"reflect"

	"github.com/npillmayer/jss/future"
	"github.com/npillmayer/jss/value"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// wrap makes a Go function callable from scripts.
func wrap(name string, fn reflect.Value) value.Callable {
	return value.NativeFunc(func(_ value.Value, args []value.Value) (value.Value, error) {
		return Invoke(name, fn, args), nil
	})
}

// FuncOf wraps a Go function as a script function value. fn must be of kind
// func.
func FuncOf(name string, fn interface{}) value.Value {
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func {
		tracer().Errorf("%s is not a function: %T", name, fn)
		return value.Null
	}
	return value.Func(wrap(name, rv))
}

// Invoke calls fn with script arguments. Arguments are coerced one by one,
// results are converted to a script value. Errors and panics of fn are logged
// and produce null.
func Invoke(name string, fn reflect.Value, args []value.Value) (result value.Value) {
	defer func() {
		if r := recover(); r != nil {
			tracer().Errorf("host function %s panicked: %v", name, r)
			result = value.Null
		}
	}()
	ft := fn.Type()
	in := make([]reflect.Value, 0, ft.NumIn())
	for i := 0; i < ft.NumIn(); i++ {
		pt := ft.In(i)
		if ft.IsVariadic() && i == ft.NumIn()-1 {
			et := pt.Elem()
			for j := i; j < len(args); j++ {
				in = append(in, coerce(name, j, args[j], et))
			}
			break
		}
		if i < len(args) {
			in = append(in, coerce(name, i, args[i], pt))
		} else {
			in = append(in, reflect.Zero(pt))
		}
	}
	out := fn.Call(in)
	if n := len(out); n > 0 && ft.Out(n-1) == errorType {
		if err, _ := out[n-1].Interface().(error); err != nil {
			tracer().Errorf("host function %s failed: %v", name, err)
			return value.Null
		}
		out = out[:n-1]
	}
	if len(out) == 0 {
		return value.Null
	}
	return Result(out[0].Interface())
}

// coerce converts argument #i to type t, falling back to the zero value.
func coerce(name string, i int, arg value.Value, t reflect.Type) reflect.Value {
	if !value.Satisfies(arg, t) {
		tracer().Debugf("%s: argument #%d needs conversion to %s", name, i, t)
	}
	rv, err := value.ToNative(arg, t)
	if err != nil {
		tracer().Infof("%s: argument #%d: %v", name, i, err)
		return reflect.Zero(t)
	}
	if !rv.IsValid() {
		return reflect.Zero(t)
	}
	return rv
}

// Result converts the result of a host function. Promises, script hosts and
// callables stay opaque, everything else is converted structurally.
func Result(x interface{}) value.Value {
	switch r := x.(type) {
	case nil:
		return value.Null
	case value.Value:
		return r
	case future.Promise, ScriptHost:
		return value.Native(r)
	case value.Callable:
		return value.Func(r)
	}
	return value.FromNative(x)
}
