package interp

import (
	"errors"
	"fmt"
	"iter"

	"github.com/npillmayer/jss/ast"
	"github.com/npillmayer/jss/host"
	"github.com/npillmayer/jss/parser"
	"github.com/npillmayer/jss/runtime"
	"github.com/npillmayer/jss/value"
)

// Interpreter owns the global scope shared by all of its contexts.
//
// The global scope is not synchronised. Contexts of one interpreter may live
// on different goroutines, but only one of them may be executed or stepped
// at a time. Interpreters do not share state, so separate interpreters may
// run in parallel.
type Interpreter struct {
	globals *value.Object
}

// New creates an interpreter with an empty global scope.
func New() *Interpreter {
	return &Interpreter{globals: value.NewObject()}
}

// Globals returns the global scope.
func (ip *Interpreter) Globals() *value.Object {
	return ip.globals
}

// GetGlobal reads a global binding. Unbound keys read as null.
func (ip *Interpreter) GetGlobal(key string) value.Value {
	v, _ := ip.globals.Get(key)
	return v
}

// SetGlobal creates or overwrites a global binding.
func (ip *Interpreter) SetGlobal(key string, v value.Value) {
	ip.globals.Set(key, v)
}

// SeedGlobals copies all entries of an object into the global scope.
func (ip *Interpreter) SeedGlobals(v value.Value) error {
	obj := v.AsObject()
	if obj == nil {
		return fmt.Errorf("globals must be an object, is %s", v.Kind())
	}
	obj.Each(func(k string, e value.Value) {
		ip.globals.Set(k, e)
	})
	return nil
}

// Define binds a native function to a global name.
func (ip *Interpreter) Define(name string, fn value.NativeFunc) {
	ip.globals.Set(name, value.Func(fn))
}

// LoadMethods installs the exported methods of receiver as a namespace in the
// global scope, see host.LoadMethods.
func (ip *Interpreter) LoadMethods(receiver interface{}, filter ...string) *value.Object {
	return host.LoadMethods(ip.globals, receiver, filter...)
}

// LoadFuncs installs Go functions as namespace ns in the global scope, see
// host.LoadFuncs.
func (ip *Interpreter) LoadFuncs(ns string, funcs map[string]interface{}) *value.Object {
	return host.LoadFuncs(ip.globals, ns, funcs)
}

// NewContext creates an execution context with a fresh frame stack.
func (ip *Interpreter) NewContext() *Context {
	return &Context{
		ip: ip,
		rt: runtime.NewRuntimeEnvironment(value.Obj(ip.globals)),
	}
}

// Execute runs prog synchronously in a new context.
func (ip *Interpreter) Execute(prog *ast.Node) (value.Value, error) {
	ctx := ip.NewContext()
	v := ctx.Execute(prog)
	return v, ctx.Fault()
}

// Async runs prog asynchronously in a new context.
func (ip *Interpreter) Async(prog *ast.Node) iter.Seq[value.Value] {
	return ip.NewContext().Async(prog)
}

// Compile parses source text into a program tree.
func Compile(source string) (*ast.Node, error) {
	prog, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}
	tracer().Debugf("compiled program %s", prog.Fingerprint())
	return prog, nil
}

// Eval compiles and executes source text with a fresh interpreter.
func Eval(source string) (value.Value, error) {
	prog, err := Compile(source)
	if err != nil {
		return value.Null, err
	}
	return New().Execute(prog)
}

// --- Contexts --------------------------------------------------------------

// Context executes programs. A context is not safe for concurrent use. Once a
// program run in a context has faulted, the context is inert.
type Context struct {
	ip    *Interpreter
	rt    *runtime.Runtime
	fault error
}

// Interpreter returns the interpreter a context belongs to.
func (c *Context) Interpreter() *Interpreter {
	return c.ip
}

// Runtime exposes the frame stack of a context.
func (c *Context) Runtime() *runtime.Runtime {
	return c.rt
}

// Fault returns the fault which made the context inert, if any.
func (c *Context) Fault() error {
	return c.fault
}

// ready is a predicate: may prog be run?
func (c *Context) ready(prog *ast.Node) bool {
	if prog == nil {
		tracer().Errorf("no program to execute")
		return false
	}
	if c.fault != nil {
		tracer().Infof("context has faulted, refusing to execute")
		return false
	}
	return true
}

// Execute runs prog synchronously and returns its result. A `return` at
// program level ends the program with the returned value. On a fault, the
// result is null.
func (c *Context) Execute(prog *ast.Node) value.Value {
	if !c.ready(prog) {
		return value.Null
	}
	w := &walker{ctx: c, eff: blocking{}}
	v, err := c.run(prog, func() (value.Value, signal) { return w.walk(prog) })
	if err != nil {
		c.record(err)
		return value.Null
	}
	return v
}

// Async runs prog asynchronously. The sequence yields every unresolved promise
// the walk suspends on, and finally the program's result. A consumer breaking
// out of the sequence abandons the walk.
func (c *Context) Async(prog *ast.Node) iter.Seq[value.Value] {
	return func(yield func(value.Value) bool) {
		if !c.ready(prog) {
			yield(value.Null)
			return
		}
		w := &walker{ctx: c, eff: &suspending{yield: yield}}
		v, err := c.run(prog, func() (value.Value, signal) { return w.walk(prog) })
		if errors.Is(err, ErrAbandoned) {
			tracer().Debugf("asynchronous walk abandoned")
			return
		}
		if err != nil {
			c.record(err)
			v = value.Null
		}
		yield(v)
	}
}

// Run runs prog asynchronously, driven by the returned stepper.
func (c *Context) Run(prog *ast.Node) *Stepper {
	return newStepper(func(yield func(value.Value) bool) (value.Value, error) {
		if !c.ready(prog) {
			return value.Null, nil
		}
		w := &walker{ctx: c, eff: &suspending{yield: yield}}
		v, err := c.run(prog, func() (value.Value, signal) { return w.walk(prog) })
		if err != nil && !errors.Is(err, ErrAbandoned) {
			c.record(err)
		}
		return v, err
	})
}

// run performs a walk, translating its final signal. Panics are turned into
// faults unless configured otherwise.
func (c *Context) run(n *ast.Node, walk func() (value.Value, signal)) (result value.Value, err error) {
	depth := c.rt.Frames.Depth()
	defer func() {
		if r := recover(); r != nil {
			if configured("jss.panic-on-fault") {
				panic(r)
			}
			for c.rt.Frames.Depth() > depth {
				c.rt.Frames.PopFrame()
			}
			result, err = value.Null, &RuntimeError{Node: n, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	v, sig := walk()
	switch sig.flow {
	case ret:
		return sig.val, nil
	case fault:
		return value.Null, sig.err
	case brk, cont:
		tracer().Infof("%s outside of loop, ignored", sig.flow)
	}
	return v, nil
}

// record makes a context inert.
func (c *Context) record(err error) {
	c.fault = err
	var rte *RuntimeError
	if errors.As(err, &rte) && rte.Node != nil {
		tracer().Errorf("%v\n    %s", err, rte.Node)
		return
	}
	tracer().Errorf("%v", err)
}
