package interp

import (
	"github.com/npillmayer/jss/future"
	"github.com/npillmayer/jss/value"
)

// effect is what distinguishes synchronous from asynchronous evaluation.
type effect interface {
	// await turns the result of a call into a plain value. Promises are waited
	// for, all other values are returned unchanged.
	await(v value.Value) (value.Value, error)
	// call invokes a script function.
	call(w *walker, fn *Function, this value.Value, args []value.Value) (value.Value, error)
}

// blocking evaluates synchronously.
type blocking struct{}

func (blocking) await(v value.Value) (value.Value, error) {
	p, ok := future.Of(v)
	if !ok {
		return v, nil
	}
	r := future.Wait(p)
	if st, ok := p.(*Stepper); ok && st.Err() != nil {
		return value.Null, st.Err()
	}
	return r, nil
}

func (blocking) call(w *walker, fn *Function, this value.Value, args []value.Value) (value.Value, error) {
	return w.invoke(fn, this, args)
}

// suspending evaluates asynchronously, yielding unresolved promises.
type suspending struct {
	yield func(value.Value) bool
}

// await suspends the walk until p is resolved. Every resumption steps a
// steppable promise once. Steppers are started right away, as they run up to
// their first suspension.
func (s *suspending) await(v value.Value) (value.Value, error) {
	p, ok := future.Of(v)
	if !ok {
		return v, nil
	}
	st, isStepper := p.(*Stepper)
	if isStepper {
		st.Step()
	}
	for !p.Resolved() {
		if configured("jss.trace-steps") {
			tracer().Debugf("suspending on %T", p)
		}
		if !s.yield(value.Native(p)) {
			if isStepper {
				st.Stop()
			}
			return value.Null, ErrAbandoned
		}
		if sp, ok := p.(future.Steppable); ok {
			sp.Step()
		}
	}
	if isStepper && st.Err() != nil {
		return value.Null, st.Err()
	}
	return p.Value(), nil
}

// call wraps the invocation into a stepper with a suspending walk of its own.
func (s *suspending) call(w *walker, fn *Function, this value.Value, args []value.Value) (value.Value, error) {
	st := newStepper(func(yield func(value.Value) bool) (value.Value, error) {
		sub := &walker{ctx: w.ctx, eff: &suspending{yield: yield}}
		return sub.invoke(fn, this, args)
	})
	return s.await(value.Native(st))
}
