package value

import (
	"fmt"
	"math"
	"reflect"
	"strings"
)

// Operators on values. All binary operators are strict in both operands;
// short-circuit evaluation is up to the interpreter.

// Add adds numbers, concatenates strings (if either operand is a string),
// concatenates arrays and merges objects (right operand wins).
func Add(a, b Value) (Value, error) {
	if a.kind == StringKind || b.kind == StringKind {
		return String(a.Text() + b.Text()), nil
	}
	if a.kind == ArrayKind && b.kind == ArrayKind {
		arr := NewArray(a.AsArray().Values()...)
		arr.Append(b.AsArray().Values()...)
		return Arr(arr), nil
	}
	if a.kind == ObjectKind && b.kind == ObjectKind {
		obj := a.AsObject().Copy()
		b.AsObject().Each(func(k string, v Value) {
			obj.Set(k, v)
		})
		return Obj(obj), nil
	}
	x, y, err := numbers("+", a, b)
	if err != nil {
		return Null, err
	}
	return Number(x + y), nil
}

// Sub subtracts numbers.
func Sub(a, b Value) (Value, error) {
	x, y, err := numbers("-", a, b)
	if err != nil {
		return Null, err
	}
	return Number(x - y), nil
}

// Mul multiplies numbers.
func Mul(a, b Value) (Value, error) {
	x, y, err := numbers("*", a, b)
	if err != nil {
		return Null, err
	}
	return Number(x * y), nil
}

// Div divides numbers. Division by zero results in an infinity or NaN.
func Div(a, b Value) (Value, error) {
	x, y, err := numbers("/", a, b)
	if err != nil {
		return Null, err
	}
	return Number(x / y), nil
}

// Mod is the floating point remainder, with the sign of the dividend.
func Mod(a, b Value) (Value, error) {
	x, y, err := numbers("%", a, b)
	if err != nil {
		return Null, err
	}
	return Number(math.Mod(x, y)), nil
}

// Neg negates a number.
func Neg(a Value) (Value, error) {
	x, ok := toNumber(a)
	if !ok {
		return Null, fmt.Errorf("%w: cannot negate %s", ErrOperand, a.kind)
	}
	return Number(-x), nil
}

// Equals compares values structurally. Arrays and objects are equal if their
// members are equal, functions and natives only if they are identical.
// Self-referencing containers compare equal if they have the same shape.
func Equals(a, b Value) bool {
	return equals(a, b, nil)
}

// pair of containers under comparison
type pair struct {
	x, y interface{}
}

func equals(a, b Value, seen map[pair]bool) bool {
	if a.kind != b.kind {
		x, ok1 := toNumber(a)
		y, ok2 := toNumber(b)
		// null equals nothing but null
		return ok1 && ok2 && a.kind != NullKind && b.kind != NullKind && x == y
	}
	switch a.kind {
	case NullKind:
		return true
	case BoolKind, NumberKind:
		return a.num == b.num
	case StringKind:
		return a.str == b.str
	case ArrayKind:
		x, y := a.AsArray(), b.AsArray()
		if x == y {
			return true
		}
		if x.Len() != y.Len() {
			return false
		}
		if seen[pair{x, y}] {
			return true
		}
		seen = mark(seen, pair{x, y})
		xv, yv := x.Values(), y.Values()
		for i := range xv {
			if !equals(xv[i], yv[i], seen) {
				return false
			}
		}
		return true
	case ObjectKind:
		x, y := a.AsObject(), b.AsObject()
		if x == y {
			return true
		}
		if x.Len() != y.Len() {
			return false
		}
		if seen[pair{x, y}] {
			return true
		}
		seen = mark(seen, pair{x, y})
		eq := true
		x.Each(func(k string, v Value) {
			if !eq {
				return
			}
			if w, ok := y.Get(k); !ok || !equals(v, w, seen) {
				eq = false
			}
		})
		return eq
	}
	return sameRef(a.ref, b.ref)
}

func mark(seen map[pair]bool, p pair) map[pair]bool {
	if seen == nil {
		seen = make(map[pair]bool)
	}
	seen[p] = true
	return seen
}

// Compare orders numbers (and booleans/null as numbers) and strings. It returns
// -1, 0 or +1.
func Compare(a, b Value) (int, error) {
	if a.kind == StringKind && b.kind == StringKind {
		return strings.Compare(a.str, b.str), nil
	}
	x, y, err := numbers("<=>", a, b)
	if err != nil {
		return 0, err
	}
	switch {
	case x < y:
		return -1, nil
	case x > y:
		return 1, nil
	}
	return 0, nil
}

// Apply applies a binary operator, given by its lexeme.
func Apply(op string, a, b Value) (Value, error) {
	switch op {
	case "+":
		return Add(a, b)
	case "-":
		return Sub(a, b)
	case "*":
		return Mul(a, b)
	case "/":
		return Div(a, b)
	case "%":
		return Mod(a, b)
	case "==":
		return Bool(Equals(a, b)), nil
	case "!=":
		return Bool(!Equals(a, b)), nil
	case "&&":
		return Bool(a.Truthy() && b.Truthy()), nil
	case "||":
		return Bool(a.Truthy() || b.Truthy()), nil
	case "<", "<=", ">", ">=":
		c, err := Compare(a, b)
		if err != nil {
			return Null, err
		}
		switch op {
		case "<":
			return Bool(c < 0), nil
		case "<=":
			return Bool(c <= 0), nil
		case ">":
			return Bool(c > 0), nil
		}
		return Bool(c >= 0), nil
	}
	return Null, fmt.Errorf("%w: unknown operator %q", ErrOperand, op)
}

func numbers(op string, a, b Value) (float64, float64, error) {
	x, ok1 := toNumber(a)
	y, ok2 := toNumber(b)
	if !ok1 || !ok2 {
		return 0, 0, fmt.Errorf("%w: %s %s %s", ErrOperand, a.kind, op, b.kind)
	}
	return x, y, nil
}

func toNumber(v Value) (float64, bool) {
	switch v.kind {
	case NumberKind, BoolKind:
		return v.num, true
	case NullKind:
		return 0, true
	}
	return 0, false
}

// sameRef compares references without panicking on uncomparable dynamic types,
// e.g. NativeFunc.
func sameRef(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == b
	}
	x, y := reflect.ValueOf(a), reflect.ValueOf(b)
	if x.Type() != y.Type() {
		return false
	}
	switch x.Kind() {
	case reflect.Ptr, reflect.Func, reflect.Map, reflect.Slice, reflect.Chan, reflect.UnsafePointer:
		return x.Pointer() == y.Pointer()
	}
	if x.Type().Comparable() {
		return a == b
	}
	return false
}
