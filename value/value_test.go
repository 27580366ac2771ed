package value

import (
	"errors"
	"reflect"
	"testing"
)

func TestTruthy(t *testing.T) {
	falsy := []Value{Null, False, Int(0), String(""), Number(zero() / zero())}
	for i, v := range falsy {
		if v.Truthy() {
			t.Errorf("#%d: expected %v to be falsy", i, v)
		}
	}
	truthy := []Value{True, Int(-1), String("0"), Arr(NewArray()), Obj(NewObject())}
	for i, v := range truthy {
		if !v.Truthy() {
			t.Errorf("#%d: expected %v to be truthy", i, v)
		}
	}
}

func zero() float64 { return 0 }

func TestArithmetic(t *testing.T) {
	cases := []struct {
		op   string
		a, b Value
		want Value
	}{
		{"+", Int(5), Int(4), Int(9)},
		{"+", String("a"), Int(1), String("a1")},
		{"+", Int(1), String("a"), String("1a")},
		{"+", Number(1.5), String("x"), String("1.5x")},
		{"-", Int(5), Int(7), Int(-2)},
		{"*", Int(3), Number(0.5), Number(1.5)},
		{"/", Int(7), Int(2), Number(3.5)},
		{"%", Int(7), Int(3), Int(1)},
		{"%", Int(-7), Int(3), Int(-1)},
		{"<", Int(1), Int(2), True},
		{">=", String("b"), String("a"), True},
		{"==", Int(1), True, True},
		{"==", Null, Int(0), False},
		{"!=", String("a"), String("b"), True},
	}
	for i, c := range cases {
		got, err := Apply(c.op, c.a, c.b)
		if err != nil {
			t.Errorf("#%d: %v %s %v: unexpected error %v", i, c.a, c.op, c.b, err)
			continue
		}
		if !Equals(got, c.want) {
			t.Errorf("#%d: %v %s %v = %v, expected %v", i, c.a, c.op, c.b, got, c.want)
		}
	}
}

func TestOperandErrors(t *testing.T) {
	if _, err := Sub(String("a"), Int(1)); !errors.Is(err, ErrOperand) {
		t.Errorf("expected operand error for string subtraction, got %v", err)
	}
	if _, err := Compare(Obj(NewObject()), Int(1)); !errors.Is(err, ErrOperand) {
		t.Errorf("expected operand error for object comparison, got %v", err)
	}
	if _, err := Neg(String("x")); err == nil {
		t.Errorf("expected negation of string to fail")
	}
}

func TestAddContainers(t *testing.T) {
	a := Arr(NewArray(Int(1), Int(2)))
	b := Arr(NewArray(Int(3)))
	sum, _ := Add(a, b)
	if sum.String() != "[1,2,3]" {
		t.Errorf("expected array concatenation, got %s", sum)
	}
	x, y := NewObject(), NewObject()
	x.Set("a", Int(1))
	x.Set("b", Int(2))
	y.Set("b", Int(3))
	merged, _ := Add(Obj(x), Obj(y))
	if merged.String() != `{"a":1,"b":3}` {
		t.Errorf("expected merged object, got %s", merged)
	}
	if x.Len() != 2 || y.Len() != 1 {
		t.Errorf("operands must not be modified by +")
	}
}

func TestObjectOrder(t *testing.T) {
	o := NewObject()
	for _, k := range []string{"z", "a", "m"} {
		o.Set(k, String(k))
	}
	o.Set("a", Int(1)) // overwrite keeps position
	keys := o.Keys()
	if !reflect.DeepEqual(keys, []string{"z", "a", "m"}) {
		t.Errorf("expected insertion order, got %v", keys)
	}
	if v, _ := o.Get("a"); !Equals(v, Int(1)) {
		t.Errorf("expected a=1, got %v", v)
	}
}

func TestArraySetBeyondEnd(t *testing.T) {
	a := NewArray(Int(1))
	if err := a.Set(3, Int(4)); err != nil {
		t.Fatal(err)
	}
	if Arr(a).String() != "[1,null,null,4]" {
		t.Errorf("expected gap to be filled with nulls, got %s", Arr(a))
	}
	if err := a.Set(a.Len()+MaxArrayGap+1, Int(5)); !errors.Is(err, ErrOperand) {
		t.Errorf("expected operand error for far index, got %v", err)
	}
	if err := Arr(a).Set(Number(1e9), Int(5)); !errors.Is(err, ErrOperand) {
		t.Errorf("expected operand error for index 1e9, got %v", err)
	}
	if err := Arr(a).Set(Number(1e300), Int(5)); !errors.Is(err, ErrOperand) {
		t.Errorf("expected operand error for index 1e300, got %v", err)
	}
	if a.Len() != 4 {
		t.Errorf("rejected sets must not grow the array, length is %d", a.Len())
	}
}

func TestGetSet(t *testing.T) {
	o := Obj(NewObject())
	if err := o.Set(String("k"), Int(1)); err != nil {
		t.Fatal(err)
	}
	if v, ok := o.Get(String("k")); !ok || !Equals(v, Int(1)) {
		t.Errorf("expected k=1, got %v", v)
	}
	a := Arr(NewArray(String("x"), String("y")))
	if v, _ := a.Get(Int(1)); v.AsString() != "y" {
		t.Errorf("expected a[1]=y, got %v", v)
	}
	if v, _ := a.Get(String("length")); !Equals(v, Int(2)) {
		t.Errorf("expected length 2, got %v", v)
	}
	if err := Int(3).Set(String("x"), Null); err == nil {
		t.Errorf("expected setting a member of a number to fail")
	}
}

func TestParseKeepsOrder(t *testing.T) {
	v, err := Parse(`{"b": 1, "a": [true, null, "s", 2.5], "c": {"x": 0x10}}`)
	if err != nil {
		t.Fatal(err)
	}
	if v.String() != `{"b":1,"a":[true,null,"s",2.5],"c":{"x":16}}` {
		t.Errorf("unexpected parse result %s", v)
	}
	if _, err := Parse(`{"a": [1, 2}`); !errors.Is(err, ErrSyntax) {
		t.Errorf("expected syntax error, got %v", err)
	}
}

func TestStringQuoting(t *testing.T) {
	v := String("a\"b\n")
	if v.String() != `"a\"b\n"` {
		t.Errorf("unexpected quoting: %s", v)
	}
	if v.Text() != "a\"b\n" {
		t.Errorf("Text must not quote strings")
	}
	if FormatNumber(3) != "3" || FormatNumber(0.25) != "0.25" {
		t.Errorf("unexpected number formatting")
	}
}

type point struct {
	X     int
	Y     float64 `json:"why"`
	Label string
	skip  bool
}

func TestReflection(t *testing.T) {
	v := FromNative(point{X: 1, Y: 2.5, Label: "p"})
	if v.String() != `{"X":1,"why":2.5,"Label":"p"}` {
		t.Errorf("unexpected struct conversion %s", v)
	}
	rv, err := ToNative(v, reflect.TypeOf(point{}))
	if err != nil {
		t.Fatal(err)
	}
	p := rv.Interface().(point)
	if p.X != 1 || p.Y != 2.5 || p.Label != "p" {
		t.Errorf("unexpected back conversion %+v", p)
	}
	m := FromNative(map[string]int{"b": 2, "a": 1})
	if m.String() != `{"a":1,"b":2}` {
		t.Errorf("expected sorted map keys, got %s", m)
	}
	if _, err := ToNative(String("x"), reflect.TypeOf(0)); err == nil {
		t.Errorf("expected string → int to fail")
	}
	if !Satisfies(Int(3), reflect.TypeOf(int64(0))) || Satisfies(Number(0.5), reflect.TypeOf(0)) {
		t.Errorf("unexpected Satisfies result for numbers")
	}
	s, err := ToNative(Arr(NewArray(Int(1), Int(2))), reflect.TypeOf([]int{}))
	if err != nil || !reflect.DeepEqual(s.Interface(), []int{1, 2}) {
		t.Errorf("unexpected slice conversion %v, %v", s, err)
	}
}

func TestEqualsFunctions(t *testing.T) {
	f := NativeFunc(func(Value, []Value) (Value, error) { return Null, nil })
	g := NativeFunc(func(Value, []Value) (Value, error) { return Null, nil })
	if !Equals(Func(f), Func(f)) {
		t.Errorf("a function must equal itself")
	}
	if Equals(Func(f), Func(g)) {
		t.Errorf("distinct functions must not be equal")
	}
}

// loop returns an object whose member "self" refers to the object itself.
func loop() Value {
	o := NewObject()
	o.Set("n", Int(1))
	o.Set("self", Obj(o))
	return Obj(o)
}

func TestCircular(t *testing.T) {
	a, b := loop(), loop()
	if !Equals(a, b) {
		t.Errorf("expected self-referencing objects of the same shape to be equal")
	}
	c := loop()
	c.AsObject().Set("n", Int(2))
	if Equals(a, c) {
		t.Errorf("expected self-referencing objects with different members to differ")
	}
	l := NewArray(Int(1))
	l.Append(Arr(l))
	m := NewArray(Int(1))
	m.Append(Arr(m))
	if !Equals(Arr(l), Arr(m)) {
		t.Errorf("expected self-referencing arrays of the same shape to be equal")
	}
	if s := a.String(); s != `{"n":1,"self":"[circular]"}` {
		t.Errorf("unexpected text for circular object: %s", s)
	}
	if s := Arr(l).String(); s != `[1,"[circular]"]` {
		t.Errorf("unexpected text for circular array: %s", s)
	}
	shared := Arr(NewArray(Int(0)))
	twice := Arr(NewArray(shared, shared))
	if s := twice.String(); s != "[[0],[0]]" {
		t.Errorf("shared members are not circular, got %s", s)
	}
	g := a.Interface().(map[string]interface{})
	if g["self"] != nil || g["n"] != 1.0 {
		t.Errorf("unexpected generic form of circular object: %v", g)
	}
	if _, err := ToNative(a, reflect.TypeOf(map[string]interface{}{})); err != nil {
		t.Errorf("conversion into generic map should cut the cycle, got %v", err)
	}
	type node struct {
		N    int   `json:"n"`
		Self *node `json:"self"`
	}
	if _, err := ToNative(a, reflect.TypeOf(node{})); !errors.Is(err, ErrOperand) {
		t.Errorf("expected operand error for circular struct conversion, got %v", err)
	}
	n := &node{N: 7}
	n.Self = n
	if s := FromNative(n).String(); s != `{"n":7,"self":null}` {
		t.Errorf("unexpected conversion of circular Go pointer: %s", s)
	}
}
