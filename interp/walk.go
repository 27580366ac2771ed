package interp

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/npillmayer/jss/ast"
	"github.com/npillmayer/jss/runtime"
	"github.com/npillmayer/jss/value"
)

// walker evaluates program trees within a context. The effect decides between
// synchronous and asynchronous evaluation.
type walker struct {
	ctx *Context
	eff effect
}

func (w *walker) frame() *runtime.Frame {
	return w.ctx.rt.Frames.Current()
}

// fail creates a fault signal for an error raised at node n.
func (w *walker) fail(n *ast.Node, err error) signal {
	var rte *RuntimeError
	if errors.Is(err, ErrAbandoned) || errors.As(err, &rte) {
		return signal{flow: fault, err: err}
	}
	return signal{flow: fault, err: &RuntimeError{Node: n, Err: err}}
}

func (w *walker) failf(n *ast.Node, format string, args ...interface{}) signal {
	return w.fail(n, fmt.Errorf(format, args...))
}

// walk evaluates a node. A nil node evaluates to null.
func (w *walker) walk(n *ast.Node) (value.Value, signal) {
	if n == nil {
		return value.Null, proceed
	}
	switch n.Kind {
	case ast.Program, ast.StmtList, ast.CodeBlock:
		return w.block(n)
	case ast.DecStmt:
		v, sig := w.walk(n.Child("expr"))
		if sig.flow != normal {
			return v, sig
		}
		w.frame().Declare(n.Datum(0), v)
		return v, proceed
	case ast.Assign:
		return w.assign(n)
	case ast.Expr:
		return w.logical(n, true)
	case ast.BoolTerm:
		return w.logical(n, false)
	case ast.BoolFactor:
		return w.boolFactor(n)
	case ast.ArithExpr, ast.ArithTerm:
		return w.arith(n)
	case ast.ArithFactor:
		v, sig := w.walk(n.Child("expr"))
		if sig.flow != normal {
			return v, sig
		}
		neg, err := value.Neg(v)
		if err != nil {
			return value.Null, w.fail(n, err)
		}
		return neg, proceed
	case ast.Atom:
		if path := n.Child("path"); path != nil {
			return w.read(path)
		}
		return w.walk(n.Child("expr"))
	case ast.PathExpr:
		return w.read(n)
	case ast.Value:
		return w.literal(n)
	case ast.FuncCall:
		return w.call(n)
	case ast.FuncDec:
		return value.Func(&Function{decl: n, ip: w.ctx.ip}), proceed
	case ast.ObjectLiteral:
		return w.object(n)
	case ast.ArrayLiteral:
		return w.array(n)
	case ast.Spread:
		return w.walk(n.Child("expr"))
	case ast.IfStmt:
		return w.ifStmt(n)
	case ast.ForLoop:
		return w.forLoop(n)
	case ast.WhileLoop, ast.DoWhileLoop:
		return w.whileLoop(n)
	case ast.EachLoop:
		return w.eachLoop(n)
	case ast.BreakStmt:
		return value.Null, signal{flow: brk, label: n.Label()}
	case ast.ContinueStmt:
		return value.Null, signal{flow: cont, label: n.Label()}
	case ast.ReturnStmt:
		v, sig := w.walk(n.Child("expr"))
		if sig.flow != normal {
			return v, sig
		}
		return v, signal{flow: ret, val: v}
	}
	return value.Null, w.failf(n, "cannot evaluate node")
}

// block runs statements in a scope of their own. The value of a block is the
// value of its last statement.
func (w *walker) block(n *ast.Node) (value.Value, signal) {
	fr := w.frame()
	fr.PushScope(n.Kind.String())
	defer fr.PopScope()
	last := value.Null
	for _, stmt := range n.Children {
		v, sig := w.walk(stmt)
		if sig.flow != normal {
			return v, sig
		}
		last = v
	}
	return last, proceed
}

func (w *walker) literal(n *ast.Node) (value.Value, signal) {
	switch n.Tag("type") {
	case "number":
		f, err := strconv.ParseFloat(n.Datum(0), 64)
		if err != nil {
			return value.Null, w.fail(n, err)
		}
		return value.Number(f), proceed
	case "string":
		return value.String(n.Datum(0)), proceed
	case "bool":
		return value.Bool(n.Datum(0) == "true"), proceed
	}
	return value.Null, proceed
}

// --- Operators -------------------------------------------------------------

// logical folds `||` (or=true) and `&&` chains with short-circuit evaluation.
func (w *walker) logical(n *ast.Node, or bool) (value.Value, signal) {
	for _, c := range n.Children {
		v, sig := w.walk(c)
		if sig.flow != normal {
			return v, sig
		}
		if v.Truthy() == or {
			return value.Bool(or), proceed
		}
	}
	return value.Bool(!or), proceed
}

func (w *walker) boolFactor(n *ast.Node) (value.Value, signal) {
	res, sig := w.walk(n.Child("left"))
	if sig.flow != normal {
		return res, sig
	}
	if right := n.Child("right"); right != nil {
		r, sig := w.walk(right)
		if sig.flow != normal {
			return r, sig
		}
		var err error
		if res, err = value.Apply(n.Tag("op"), res, r); err != nil {
			return value.Null, w.fail(n, err)
		}
	}
	if n.Tag("not") != "" {
		res = value.Bool(!res.Truthy())
	}
	return res, proceed
}

// arith folds ARITHEXPR and ARITHTERM chains left to right.
func (w *walker) arith(n *ast.Node) (value.Value, signal) {
	if len(n.Children) == 0 {
		return value.Null, w.failf(n, "empty operator chain")
	}
	acc, sig := w.walk(n.Children[0])
	if sig.flow != normal {
		return acc, sig
	}
	dflt := "+"
	if n.Kind == ast.ArithTerm {
		dflt = "*"
	}
	for i, c := range n.Children[1:] {
		v, sig := w.walk(c)
		if sig.flow != normal {
			return v, sig
		}
		op := n.Datum(i)
		if op == "" {
			op = dflt
		}
		var err error
		if acc, err = value.Apply(op, acc, v); err != nil {
			return value.Null, w.fail(n, err)
		}
	}
	return acc, proceed
}

// --- Assignment ------------------------------------------------------------

func (w *walker) assign(n *ast.Node) (value.Value, signal) {
	loc, sig := w.reference(n.Child("target"))
	if sig.flow != normal {
		return value.Null, sig
	}
	rhs, sig := w.walk(n.Child("expr"))
	if sig.flow != normal {
		return rhs, sig
	}
	op := n.Tag("assignType")
	old := value.Null
	if op != "=" {
		old = loc.get()
	}
	var nv value.Value
	var err error
	switch op {
	case "=":
		nv = rhs
	case "++":
		nv, err = value.Add(old, value.Int(1))
	case "--":
		nv, err = value.Sub(old, value.Int(1))
	case "+=", "-=", "*=", "/=", "%=":
		nv, err = value.Apply(op[:1], old, rhs)
	default:
		err = fmt.Errorf("unknown assignment operator %q", op)
	}
	if err == nil {
		err = loc.set(nv)
	}
	if err != nil {
		return value.Null, w.fail(n, err)
	}
	if n.Tag("fix") == "post" {
		return old, proceed
	}
	return nv, proceed
}

// --- Literals --------------------------------------------------------------

// object builds an object literal. Spreads are applied first, explicit entries
// afterwards, each in the order of the literal.
func (w *walker) object(n *ast.Node) (value.Value, signal) {
	obj := value.NewObject()
	for _, spread := range n.Children {
		v, sig := w.walk(spread)
		if sig.flow != normal {
			return v, sig
		}
		switch {
		case v.AsObject() != nil:
			v.AsObject().Each(func(k string, e value.Value) {
				obj.Set(k, e)
			})
		case v.AsArray() != nil:
			for i, e := range v.AsArray().Values() {
				obj.Set(strconv.Itoa(i), e)
			}
		case v.IsNull():
		default:
			return value.Null, w.failf(spread, "cannot spread %s into an object", v.Kind())
		}
	}
	for _, k := range n.Data {
		v, sig := w.walk(n.Child(k))
		if sig.flow != normal {
			return v, sig
		}
		obj.Set(k, v)
	}
	return value.Obj(obj), proceed
}

// array builds an array literal. Spread arrays are flattened, spread objects
// contribute their values.
func (w *walker) array(n *ast.Node) (value.Value, signal) {
	arr := value.NewArray()
	for _, c := range n.Children {
		v, sig := w.walk(c)
		if sig.flow != normal {
			return v, sig
		}
		if c.Kind != ast.Spread {
			arr.Append(v)
			continue
		}
		switch {
		case v.AsArray() != nil:
			arr.Append(v.AsArray().Values()...)
		case v.AsObject() != nil:
			v.AsObject().Each(func(_ string, e value.Value) {
				arr.Append(e)
			})
		case v.IsNull():
		default:
			arr.Append(v)
		}
	}
	return value.Arr(arr), proceed
}
