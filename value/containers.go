package value

import (
	"fmt"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// --- Objects ---------------------------------------------------------------

// Object is a mapping from string keys to values, remembering the order in which
// keys have been inserted. Overwriting an existing key keeps its position.
type Object struct {
	m *linkedhashmap.Map
}

// NewObject creates an empty object.
func NewObject() *Object {
	return &Object{m: linkedhashmap.New()}
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	if v, ok := o.m.Get(key); ok {
		return v.(Value), true
	}
	return Null, false
}

// Set stores a value under key.
func (o *Object) Set(key string, v Value) {
	o.m.Put(key, v)
}

// Has is a predicate: does o contain key?
func (o *Object) Has(key string) bool {
	_, ok := o.m.Get(key)
	return ok
}

// Len returns the number of keys in o.
func (o *Object) Len() int {
	return o.m.Size()
}

// Keys returns all keys of o in insertion order.
func (o *Object) Keys() []string {
	keys := make([]string, 0, o.m.Size())
	it := o.m.Iterator()
	for it.Next() {
		keys = append(keys, it.Key().(string))
	}
	return keys
}

// Each calls f for every entry of o, in insertion order. f must not modify o.
func (o *Object) Each(f func(key string, v Value)) {
	it := o.m.Iterator()
	for it.Next() {
		f(it.Key().(string), it.Value().(Value))
	}
}

// Copy returns a shallow copy of o.
func (o *Object) Copy() *Object {
	c := NewObject()
	o.Each(func(k string, v Value) {
		c.Set(k, v)
	})
	return c
}

// --- Arrays ----------------------------------------------------------------

// Array is an ordered list of values.
type Array struct {
	list *arraylist.List
}

// NewArray creates an array holding vals.
func NewArray(vals ...Value) *Array {
	a := &Array{list: arraylist.New()}
	a.Append(vals...)
	return a
}

// Len returns the number of elements in a.
func (a *Array) Len() int {
	return a.list.Size()
}

// Get returns the element at index i.
func (a *Array) Get(i int) (Value, bool) {
	if v, ok := a.list.Get(i); ok {
		return v.(Value), true
	}
	return Null, false
}

// MaxArrayGap limits how many nulls Set will insert to reach an index beyond
// the end of an array.
const MaxArrayGap = 1 << 16

// Set stores v at index i. If i is beyond the end of a, the gap is filled
// with nulls, up to MaxArrayGap of them.
func (a *Array) Set(i int, v Value) error {
	if i < 0 {
		return fmt.Errorf("%w: negative array index %d", ErrOperand, i)
	}
	if i-a.list.Size() > MaxArrayGap {
		return fmt.Errorf("%w: array index %d too far beyond length %d", ErrOperand, i, a.list.Size())
	}
	for a.list.Size() < i {
		a.list.Add(Null)
	}
	a.list.Set(i, v)
	return nil
}

// Append adds vals to the end of a.
func (a *Array) Append(vals ...Value) {
	for _, v := range vals {
		a.list.Add(v)
	}
}

// Values returns the elements of a as a slice.
func (a *Array) Values() []Value {
	vals := make([]Value, 0, a.list.Size())
	it := a.list.Iterator()
	for it.Next() {
		vals = append(vals, it.Value().(Value))
	}
	return vals
}
