package interp

import (
	"errors"
	"testing"

	"github.com/npillmayer/jss/ast"
	"github.com/npillmayer/jss/future"
	"github.com/npillmayer/jss/host"
	"github.com/npillmayer/jss/value"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/robertkrimen/otto"
)

var programs = []struct {
	src  string
	want string
}{
	{"5 + 4 + 3 + 2 + 1", "15"},
	{`"a" + 'b' + 1`, `"ab1"`},
	{"1 + 2 + 'x'", `"3x"`},
	{"1 + 2 * 3 == 7", "true"},
	{"true && null", "false"},
	{"0 || 'x'", "true"},
	{"var x = 5; var x = 2; return x;", "2"},
	{"var x = 1; { var x = 2 }; x", "1"},
	{"x = 5; x++; x;", "6"},
	{"x = 5; x++; -x;", "-6"},
	{"x = -5; x--; -x;", "6"},
	{"x = 5; x++", "5"},
	{"x = 5; ++x", "6"},
	{"x = 10; x -= 3; x *= 2; x /= 7; x %= 3", "2"},
	{"x = 0; for (var i = 0; i <= 10; i++) { x++ }", "10"},
	{"x = 0; for (var i = 0; i < 10; i++) { x++ }", "9"},
	{"x = 0; do { x++ } while (x < 10)", "9"},
	{"x = 0; do { x++ } while (x <= 10)", "10"},
	{"o = {a: {b: 1}}; o.a.b += 5; o.a['b']", "6"},
	{"l = [1, 2]; l[3] = 4; l", "[1,2,null,4]"},
	{"o = {}; o.x.y", "null"},
	{"if (false) 1 else if (true) 2 else 3", "2"},
	{"if (false) 1", "null"},
	{"x = 1; return 7; x = 2", "7"},
	{"a = {x: 1, y: 2}; b = {y: 3, z: 4}; return {...a, ...b}", `{"x":1,"y":3,"z":4}`},
	{"a = {x: 1}; return {...a, x: 2, y}", `{"x":2,"y":null}`},
	{"[...[1, 2, 3], ...[4, 5, 6]]", "[1,2,3,4,5,6]"},
	{"s = 0; each (v in [1, 2, 3]) { s = s + v }; s", "6"},
	{"s = 0; each (v in {a: 1, b: 2}) { s = s + v }; s", "3"},
	{"t = ''; each ((k, v) in {a: 1, b: 2}) { t = t + k + v }; t", `"a1b2"`},
	{"t = ''; each ((i, v) in ['x', 'y']) { t = t + i + v }; t", `"0x1y"`},
	{"each (v in null) { v }", "null"},
	{"s = 0; each (v in [1, 2, 3, 4]) { if (v == 3) { break }; s = s + v }; s", "3"},
	{"s = 0; each (v in [1, 2, 3, 4]) { if (v == 2) { continue }; s = s + v }; s", "8"},
	{"f = func(a, b) => a + b; f(1, 2)", "3"},
	{"f = func(a, b) -> { return argNames[1] + args[2] }; f(1, 2, 3)", `"b3"`},
	{"f = func(a, b) => args.length + argNames.length; f(1)", "3"},
	{"g = func(a, b) => b; g(1)", "null"},
	{"sum = func(a, b, c) => a + b + c; sum(...[1, 2], 3)", "6"},
	{"fact = func(n) -> { if (n <= 1) { return 1 } return n * fact(n - 1) }; fact(10)", "3628800"},
	{"f = func() -> { var i = 0; while (true) { i++; if (i == 4) { return i * 10 } } }; f()", "40"},
	{"o = {n: 1, inc: func() -> { this.n = this.n + 1 }, add: func(k) -> { n = n + k }}; o.inc(); o.add(10); o.n", "12"},
}

func TestEvaluation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jss.interp")
	defer teardown()
	//
	for _, p := range programs {
		v, err := Eval(p.src)
		if err != nil {
			t.Errorf("%q: unexpected fault %v", p.src, err)
			continue
		}
		if v.String() != p.want {
			t.Errorf("%q: expected %s, got %s", p.src, p.want, v)
		}
	}
}

func TestSyncAsyncEquality(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jss.interp")
	defer teardown()
	//
	sources := []string{labeledFor, labeledWhile, labeledContinue}
	for _, p := range programs {
		sources = append(sources, p.src)
	}
	for _, src := range sources {
		prog, err := Compile(src)
		if err != nil {
			t.Fatalf("%q: %v", src, err)
		}
		sync := New().NewContext().Execute(prog)
		var async value.Value
		yields := 0
		for v := range New().NewContext().Async(prog) {
			async = v
			yields++
		}
		if yields != 1 {
			t.Errorf("%q: expected no suspensions, got %d", src, yields-1)
		}
		if sync.String() != async.String() {
			t.Errorf("%q: sync %s differs from async %s", src, sync, async)
		}
		if stepped := future.Wait(New().NewContext().Run(prog)); stepped.String() != sync.String() {
			t.Errorf("%q: stepper %s differs from sync %s", src, stepped, sync)
		}
	}
}

const labeledFor = `
x = 0
:outer: for (var i = 0; i < 5; i++) {
	for (var j = 0; j < 5; j++) {
		if (i * j == 6) { break :outer: }
		x++
	}
}
x = x + 100
`

const labeledWhile = `
x = 0
i = 0
:outer: while (i < 5) {
	j = 0
	while (j < 5) {
		if (i * j == 6) { break :outer: }
		x++
		j++
	}
	i++
}
x = x + 100
`

const labeledContinue = `
n = 0
:a: for (var i = 0; i < 3; i++) {
	:b: for (var j = 0; j < 3; j++) {
		if (j == 1) { continue :a: }
		n++
	}
}
n
`

func TestLabeledBreak(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jss.interp")
	defer teardown()
	//
	for _, src := range []string{labeledFor, labeledWhile} {
		v, err := Eval(src)
		if err != nil {
			t.Fatal(err)
		}
		if !value.Equals(v, value.Int(113)) {
			t.Errorf("expected 113, got %v", v)
		}
	}
	v, err := Eval(labeledContinue)
	if err != nil || !value.Equals(v, value.Int(3)) {
		t.Errorf("expected labeled continue to count 3, got %v (%v)", v, err)
	}
}

// waiter installs a global function `wait`, which returns a promise resolving
// after delay steps.
func waiter(ip *Interpreter, delay int) {
	ip.Define("wait", func(_ value.Value, args []value.Value) (value.Value, error) {
		return value.Native(future.Delay(delay, value.True)), nil
	})
}

const waitingLoop = "hits = 0; for (var i = 0; i < 3; i++) { wait(); hits = hits + 1 }; hits"

func TestSuspension(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jss.interp")
	defer teardown()
	//
	prog, err := Compile(waitingLoop)
	if err != nil {
		t.Fatal(err)
	}
	ip := New()
	waiter(ip, 1)
	st := ip.NewContext().Run(prog)
	for step := 0; step < 3; step++ {
		st.Step()
		if st.Resolved() {
			t.Fatalf("step %d: stepper resolved too early", step)
		}
		if hits := ip.GetGlobal("hits"); !value.Equals(hits, value.Int(step)) {
			t.Errorf("step %d: expected %d hits, got %v", step, step, hits)
		}
	}
	st.Step()
	if !st.Resolved() || !value.Equals(st.Value(), value.Int(3)) {
		t.Errorf("expected stepper to resolve with 3 after 4 steps, got %v", st.Value())
	}
	//
	ip = New()
	waiter(ip, 2)
	st = ip.NewContext().Run(prog)
	for !st.Resolved() {
		st.Step()
	}
	if st.Steps() != 7 {
		t.Errorf("expected 1 + 2*3 steps, took %d", st.Steps())
	}
	//
	ip = New()
	waiter(ip, 1)
	if v, err := ip.Execute(prog); err != nil || !value.Equals(v, value.Int(3)) {
		t.Errorf("expected blocking run to produce 3, got %v (%v)", v, err)
	}
}

func TestSuspensionInFunctions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jss.interp")
	defer teardown()
	//
	prog, err := Compile("hits = 0; f = func() -> { wait(); hits++ }; f(); f(); hits")
	if err != nil {
		t.Fatal(err)
	}
	ip := New()
	waiter(ip, 1)
	var last value.Value
	yields := 0
	for v := range ip.Async(prog) {
		last = v
		yields++
	}
	if yields != 3 || !value.Equals(last, value.Int(2)) {
		t.Errorf("expected 2 suspensions and result 2, got %d yields and %v", yields, last)
	}
}

func TestAbandon(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jss.interp")
	defer teardown()
	//
	prog, err := Compile("f = func() -> { wait(); hits++ }; hits = 0; f(); f()")
	if err != nil {
		t.Fatal(err)
	}
	ip := New()
	waiter(ip, 1)
	ctx := ip.NewContext()
	for range ctx.Async(prog) {
		break
	}
	if ctx.Fault() != nil {
		t.Errorf("abandoning must not fault the context, got %v", ctx.Fault())
	}
	if d := ctx.Runtime().Frames.Depth(); d != 1 {
		t.Errorf("expected frames to be unwound, depth is %d", d)
	}
	if hits := ip.GetGlobal("hits"); !value.Equals(hits, value.Int(0)) {
		t.Errorf("expected abandoned walk to stop, got %v hits", hits)
	}
	st := ctx.Run(prog)
	st.Step()
	st.Stop()
	st.Step()
	if st.Resolved() || st.Active() {
		t.Errorf("stopped stepper must stay unresolved and inactive")
	}
}

func TestFaults(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jss.interp")
	defer teardown()
	//
	ip := New()
	ctx := ip.NewContext()
	bad, _ := Compile("x = 1; missing(1); x = 2")
	if v := ctx.Execute(bad); !v.IsNull() {
		t.Errorf("faulted program must produce null, got %v", v)
	}
	if !errors.Is(ctx.Fault(), ErrFault) {
		t.Errorf("expected a runtime fault, got %v", ctx.Fault())
	}
	if x := ip.GetGlobal("x"); !value.Equals(x, value.Int(1)) {
		t.Errorf("expected program to stop at the fault, x is %v", x)
	}
	good, _ := Compile("1 + 1")
	if v := ctx.Execute(good); !v.IsNull() {
		t.Errorf("faulted context must stay inert, got %v", v)
	}
	if v := ip.NewContext().Execute(good); !value.Equals(v, value.Int(2)) {
		t.Errorf("fresh context must be unaffected, got %v", v)
	}
	if v := ip.NewContext().Execute(nil); !v.IsNull() {
		t.Errorf("executing nothing must produce null")
	}
	//
	failing(ip)
	for _, c := range faulty {
		prog, err := Compile(c.src)
		if err != nil {
			t.Fatalf("%q: %v", c.src, err)
		}
		ctx := ip.NewContext()
		ctx.Execute(prog)
		checkFault(t, c.src, "sync", ctx, c.cause)
	}
}

var errBoom = errors.New("boom")

// failing installs the global functions `explode`, which returns an error,
// and `crash`, which panics.
func failing(ip *Interpreter) {
	ip.Define("explode", func(value.Value, []value.Value) (value.Value, error) {
		return value.Null, errBoom
	})
	ip.Define("crash", func(value.Value, []value.Value) (value.Value, error) {
		panic("crash")
	})
}

var faulty = []struct {
	src   string
	cause error
}{
	{"explode()", errBoom},
	{"f = func() => explode(); x = 1; f(); x = 2", errBoom},
	{"r = func(n) => r(n + 1); r(0)", ErrCallDepth},
	{"o = {}; o.x.y = 1", nil},
	{"each (v in 5) { v }", nil},
	{"crash()", nil},
	{"-'a'", value.ErrOperand},
	{"l = []; l[1e9] = 1", value.ErrOperand},
}

func checkFault(t *testing.T, src, mode string, ctx *Context, cause error) {
	t.Helper()
	if !errors.Is(ctx.Fault(), ErrFault) {
		t.Errorf("%s %q: expected fault, got %v", mode, src, ctx.Fault())
	}
	if cause != nil && !errors.Is(ctx.Fault(), cause) {
		t.Errorf("%s %q: expected fault caused by %v, got %v", mode, src, cause, ctx.Fault())
	}
	if d := ctx.Runtime().Frames.Depth(); d != 1 {
		t.Errorf("%s %q: expected frames to be unwound, depth is %d", mode, src, d)
	}
}

func TestSyncAsyncFaults(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jss.interp")
	defer teardown()
	//
	ip := New()
	failing(ip)
	for _, c := range faulty {
		prog, err := Compile(c.src)
		if err != nil {
			t.Fatalf("%q: %v", c.src, err)
		}
		ctx := ip.NewContext()
		var results []value.Value
		for v := range ctx.Async(prog) {
			results = append(results, v)
		}
		if len(results) != 1 || !results[0].IsNull() {
			t.Errorf("async %q: expected a single null result, got %v", c.src, results)
		}
		checkFault(t, c.src, "async", ctx, c.cause)
		//
		ctx = ip.NewContext()
		st := ctx.Run(prog)
		if v := future.Wait(st); !v.IsNull() {
			t.Errorf("stepper %q: expected null result, got %v", c.src, v)
		}
		if !errors.Is(st.Err(), ErrFault) {
			t.Errorf("stepper %q: expected fault, got %v", c.src, st.Err())
		}
		checkFault(t, c.src, "stepper", ctx, c.cause)
	}
}

func TestCircularValues(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jss.interp")
	defer teardown()
	//
	v, err := Eval("a = {}; a.s = a; b = {}; b.s = b; a == b")
	if err != nil || !value.Equals(v, value.True) {
		t.Errorf("expected self-referencing objects to compare equal, got %v (%v)", v, err)
	}
	v, err = Eval("a = {n: 1}; a.s = a; l = [a]; l[1] = l; l")
	if err != nil {
		t.Fatal(err)
	}
	if s := v.String(); s != `[{"n":1,"s":"[circular]"},"[circular]"]` {
		t.Errorf("unexpected text for circular result: %s", s)
	}
}

func TestDeterminism(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jss.interp")
	defer teardown()
	//
	src := "o = {b: 1, a: 2}; l = []; each ((k, v) in o) { l = l + [k] }; [l, o]"
	a, _ := Compile(src)
	b, _ := Compile(src)
	if a.Fingerprint() != b.Fingerprint() {
		t.Errorf("compiling identical source must produce identical trees")
	}
	ra, _ := New().Execute(a)
	rb, _ := New().Execute(b)
	if ra.String() != rb.String() || ra.String() != `[["b","a"],{"b":1,"a":2}]` {
		t.Errorf("expected identical results in insertion order, got %s and %s", ra, rb)
	}
}

type account struct {
	Owner   string
	Balance float64
}

func (a *account) Deposit(amount float64) float64 {
	a.Balance += amount
	return a.Balance
}

type tally struct{ n int }

func (t *tally) Add(k int) int {
	t.n += k
	return t.n
}

func TestHostInterop(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jss.interp")
	defer teardown()
	//
	ip := New()
	tl := &tally{}
	ip.LoadMethods(tl)
	acc := &account{Owner: "ann"}
	ip.SetGlobal("acc", host.Bind(acc))
	ip.LoadFuncs("str", map[string]interface{}{
		"Upper": func(s string) string {
			b := []byte(s)
			for i, c := range b {
				if c >= 'a' && c <= 'z' {
					b[i] = c - 32
				}
			}
			return string(b)
		},
	})
	prog, err := Compile(`
		tally.Add(2)
		tally.Add(3)
		acc.Balance = acc.Balance + 10
		acc.Deposit(5)
		return str.Upper(acc.Owner) + tally.Add(0)`)
	if err != nil {
		t.Fatal(err)
	}
	v, err := ip.Execute(prog)
	if err != nil {
		t.Fatal(err)
	}
	if v.AsString() != "ANN5" {
		t.Errorf("expected ANN5, got %v", v)
	}
	if tl.n != 5 || acc.Balance != 15 {
		t.Errorf("expected host state to change, got tally=%d balance=%g", tl.n, acc.Balance)
	}
	//
	if _, err := ip.Execute(mustCompile(t, "double = func(a) => a * 2")); err != nil {
		t.Fatal(err)
	}
	double := ip.GetGlobal("double").AsCallable()
	if double == nil {
		t.Fatalf("expected script function in globals")
	}
	r, err := double.Call(value.Null, []value.Value{value.Int(21)})
	if err != nil || !value.Equals(r, value.Int(42)) {
		t.Errorf("expected host call of script function to produce 42, got %v (%v)", r, err)
	}
}

func mustCompile(t *testing.T, src string) *ast.Node {
	t.Helper()
	prog, err := Compile(src)
	if err != nil {
		t.Fatalf("%q: %v", src, err)
	}
	return prog
}

func TestScheduler(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jss.interp")
	defer teardown()
	//
	ip := New()
	waiter(ip, 1)
	sch := NewScheduler(1)
	var steppers []*Stepper
	for n := 1; n <= 3; n++ {
		prog := mustCompile(t, "var n = 0; for (var i = 0; i < "+value.Int(n).String()+"; i++) { wait(); n++ }; n")
		steppers = append(steppers, sch.Spawn(ip.NewContext().Run(prog)))
	}
	var pending []int
	for sch.Pending() > 0 {
		pending = append(pending, sch.Tick())
	}
	if len(pending) != 4 || pending[0] != 3 || pending[1] != 2 || pending[2] != 1 || pending[3] != 0 {
		t.Errorf("unexpected pending counts per tick: %v", pending)
	}
	for i, st := range steppers {
		if !value.Equals(st.Value(), value.Int(i+1)) {
			t.Errorf("stepper #%d: expected %d, got %v", i, i+1, st.Value())
		}
	}
}

func TestAgainstOtto(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jss.interp")
	defer teardown()
	//
	vm := otto.New()
	for _, src := range []string{
		"5 + 4 * 3",
		"(1 + 2) * 3 - 4 / 8",
		"10 % 4 + 2",
		"'a' + 1 + 2",
		"1 + 2 + 'a'",
		"7 < 8 && 2 >= 2",
		"1 == 1 && 2 < 1",
		"-3 * -2",
		"10 / 4",
	} {
		ov, err := vm.Run(src)
		if err != nil {
			t.Fatalf("otto: %q: %v", src, err)
		}
		want, _ := ov.ToString()
		got, err := Eval(src)
		if err != nil {
			t.Errorf("%q: %v", src, err)
			continue
		}
		if got.Text() != want {
			t.Errorf("%q: expected %s, got %s", src, want, got.Text())
		}
	}
}
