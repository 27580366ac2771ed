/*
Package value implements the dynamically typed values scripts operate on.

Values are modelled after JSON: null, booleans, numbers, strings, arrays and
objects. Two additional kinds exist for interop with the host: functions,
which are anything implementing Callable, and natives, which wrap arbitrary Go
data (host objects, promises, …) opaquely.

Objects remember the insertion order of their keys. Arrays and objects are
reference types: copying a Value copies the reference, not the container.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package value

import (
	"errors"
	"fmt"
	"math"
)

// Kind is the type tag of a value.
type Kind uint8

// The kinds of values. The zero Value is of kind NullKind.
const (
	NullKind Kind = iota
	BoolKind
	NumberKind
	StringKind
	ArrayKind
	ObjectKind
	FuncKind
	NativeKind
)

func (k Kind) String() string {
	switch k {
	case NullKind:
		return "null"
	case BoolKind:
		return "bool"
	case NumberKind:
		return "number"
	case StringKind:
		return "string"
	case ArrayKind:
		return "array"
	case ObjectKind:
		return "object"
	case FuncKind:
		return "func"
	case NativeKind:
		return "native"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ErrOperand is returned by operators which are not defined for the kinds of
// their operands.
var ErrOperand = errors.New("invalid operand")

// Value is a tagged union over all value kinds. The zero Value is null.
type Value struct {
	kind Kind
	num  float64     // numbers, and booleans as 0/1
	str  string      // strings
	ref  interface{} // *Object, *Array, Callable or native data
}

// Null is the null value.
var Null = Value{}

// True and False are the two boolean values.
var (
	True  = Value{kind: BoolKind, num: 1}
	False = Value{kind: BoolKind}
)

// Bool creates a boolean value.
func Bool(b bool) Value {
	if b {
		return True
	}
	return False
}

// Number creates a numeric value.
func Number(n float64) Value {
	return Value{kind: NumberKind, num: n}
}

// Int creates a numeric value from an integer.
func Int(n int) Value {
	return Value{kind: NumberKind, num: float64(n)}
}

// String creates a string value.
func String(s string) Value {
	return Value{kind: StringKind, str: s}
}

// Obj wraps an object. A nil object results in null.
func Obj(o *Object) Value {
	if o == nil {
		return Null
	}
	return Value{kind: ObjectKind, ref: o}
}

// Arr wraps an array. A nil array results in null.
func Arr(a *Array) Value {
	if a == nil {
		return Null
	}
	return Value{kind: ArrayKind, ref: a}
}

// Func wraps a callable. A nil callable results in null.
func Func(c Callable) Value {
	if c == nil {
		return Null
	}
	return Value{kind: FuncKind, ref: c}
}

// Native wraps arbitrary host data. A nil interface results in null.
func Native(x interface{}) Value {
	if x == nil {
		return Null
	}
	return Value{kind: NativeKind, ref: x}
}

// Kind returns the type tag of v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull is a predicate.
func (v Value) IsNull() bool {
	return v.kind == NullKind
}

// AsBool returns the boolean of a bool-value, false otherwise.
func (v Value) AsBool() bool {
	return v.kind == BoolKind && v.num != 0
}

// AsNumber returns the number of a numeric value, 0 otherwise.
func (v Value) AsNumber() float64 {
	if v.kind == NumberKind {
		return v.num
	}
	return 0
}

// AsString returns the string of a string-value, "" otherwise.
// Use Text to get a printable representation of any value.
func (v Value) AsString() string {
	if v.kind == StringKind {
		return v.str
	}
	return ""
}

// AsObject returns the object wrapped by v, or nil.
func (v Value) AsObject() *Object {
	if o, ok := v.ref.(*Object); ok && v.kind == ObjectKind {
		return o
	}
	return nil
}

// AsArray returns the array wrapped by v, or nil.
func (v Value) AsArray() *Array {
	if a, ok := v.ref.(*Array); ok && v.kind == ArrayKind {
		return a
	}
	return nil
}

// AsCallable returns the callable wrapped by v, or nil.
func (v Value) AsCallable() Callable {
	if v.kind == FuncKind {
		return v.ref.(Callable)
	}
	return nil
}

// AsNative returns the host data wrapped by v, or nil.
func (v Value) AsNative() interface{} {
	if v.kind == NativeKind {
		return v.ref
	}
	return nil
}

// Truthy interprets a value as a condition: null, false, 0, NaN and the empty string
// are false, everything else is true.
func (v Value) Truthy() bool {
	switch v.kind {
	case NullKind:
		return false
	case BoolKind:
		return v.num != 0
	case NumberKind:
		return v.num != 0 && !math.IsNaN(v.num)
	case StringKind:
		return v.str != ""
	}
	return true
}

// Text returns a human readable representation of v. Strings are returned without
// quotes, all other values in their JSON form.
func (v Value) Text() string {
	if v.kind == StringKind {
		return v.str
	}
	return v.String()
}

// Get returns a member of an object (by key) or an array (by index).
// Arrays and strings additionally know about "length".
// The boolean result is false if no such member exists.
func (v Value) Get(key Value) (Value, bool) {
	switch v.kind {
	case ObjectKind:
		return v.AsObject().Get(key.Text())
	case ArrayKind:
		a := v.AsArray()
		if i, ok := index(key); ok {
			return a.Get(i)
		}
		if key.AsString() == "length" {
			return Int(a.Len()), true
		}
	case StringKind:
		if key.AsString() == "length" {
			return Int(len([]rune(v.str))), true
		}
		if i, ok := index(key); ok {
			r := []rune(v.str)
			if i < len(r) {
				return String(string(r[i])), true
			}
		}
	}
	return Null, false
}

// Set stores a member of an object (by key) or an array (by index).
// Setting an array index beyond its length fills the gap with nulls, see
// Array.Set.
func (v Value) Set(key Value, val Value) error {
	switch v.kind {
	case ObjectKind:
		v.AsObject().Set(key.Text(), val)
		return nil
	case ArrayKind:
		i, ok := index(key)
		if !ok {
			return fmt.Errorf("%w: array index %s", ErrOperand, key)
		}
		return v.AsArray().Set(i, val)
	}
	return fmt.Errorf("%w: cannot set member %s of %s", ErrOperand, key, v.kind)
}

func index(key Value) (int, bool) {
	if key.kind != NumberKind || key.num < 0 || key.num > math.MaxInt32 ||
		key.num != math.Trunc(key.num) {
		return 0, false
	}
	return int(key.num), true
}

// --- Callables -------------------------------------------------------------

// Callable is implemented by every function value. Call receives the "this"
// context of the call and the evaluated arguments.
type Callable interface {
	Call(this Value, args []Value) (Value, error)
}

// NativeFunc is an adapter to use ordinary Go functions as callables.
type NativeFunc func(this Value, args []Value) (Value, error)

// Call is part of interface Callable.
func (f NativeFunc) Call(this Value, args []Value) (Value, error) {
	return f(this, args)
}

var _ Callable = NativeFunc(nil)
