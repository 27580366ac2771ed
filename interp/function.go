package interp

import (
	"errors"
	"fmt"

	"github.com/npillmayer/jss/ast"
	"github.com/npillmayer/jss/value"
)

// MaxCallDepth limits the nesting of script function calls.
const MaxCallDepth = 2000

// ErrCallDepth is raised when script recursion exceeds MaxCallDepth.
var ErrCallDepth = errors.New("call stack exhausted")

// Function is a script function value. Functions capture no variables: names
// resolve dynamically in the frame stack of the calling context.
type Function struct {
	decl *ast.Node // FUNCDEC
	ip   *Interpreter
}

var _ value.Callable = (*Function)(nil)

// Params returns the declared parameter names.
func (f *Function) Params() []string {
	return f.decl.Data
}

func (f *Function) String() string {
	return fmt.Sprintf("func(%d params) at %s", len(f.decl.Data), f.decl.Token.Pos())
}

// Call invokes f from the host side. It runs synchronously in a fresh context
// of the interpreter f was created by.
func (f *Function) Call(this value.Value, args []value.Value) (value.Value, error) {
	ctx := f.ip.NewContext()
	w := &walker{ctx: ctx, eff: blocking{}}
	return ctx.run(f.decl, func() (value.Value, signal) {
		v, err := w.invoke(f, this, args)
		if err != nil {
			return value.Null, w.fail(f.decl, err)
		}
		return v, proceed
	})
}

// invoke runs the body of f in a new frame. Parameters are bound positionally,
// missing arguments are null. The body sees all arguments in `args` and the
// parameter names in `argNames`.
func (w *walker) invoke(f *Function, this value.Value, args []value.Value) (value.Value, error) {
	frames := w.ctx.rt.Frames
	if frames.Depth() >= MaxCallDepth {
		return value.Null, ErrCallDepth
	}
	fr := frames.PushNewFrame("func", this)
	defer frames.PopFrame()
	fr.PushScope("params")
	defer fr.PopScope()
	names := make([]value.Value, len(f.decl.Data))
	for i, name := range f.decl.Data {
		v := value.Null
		if i < len(args) {
			v = args[i]
		}
		fr.Declare(name, v)
		names[i] = value.String(name)
	}
	fr.Declare("args", value.Arr(value.NewArray(args...)))
	fr.Declare("argNames", value.Arr(value.NewArray(names...)))
	v, sig := w.walk(f.decl.Child("body"))
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
