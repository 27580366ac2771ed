/*
Package future implements single-assignment async values.

A Promise starts out unresolved and is resolved exactly once. Promises are
the suspension markers of the interpreter's asynchronous walk: whenever a host
function hands out an unresolved promise, the walk pauses until the promise
has a value.

Promises are either resolved from the outside (Future.Resolve, possibly from a
different goroutine), or they are Steppable, i.e. they make progress each time
a driver calls Step.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package future

import (
	"sync"

	"github.com/npillmayer/jss/value"
)

// Promise is a single-assignment future value.
type Promise interface {
	Resolved() bool        // has the promise got a value?
	Value() value.Value    // the value, null if unresolved
	Done() <-chan struct{} // closed on resolution
}

// Steppable is a promise which advances when driven externally.
type Steppable interface {
	Promise
	Step()
}

// Future is the default promise implementation. The zero value is not usable,
// create futures with New.
type Future struct {
	mu       sync.Mutex
	done     chan struct{}
	resolved bool
	val      value.Value
}

var _ Promise = (*Future)(nil)

// New creates an unresolved future.
func New() *Future {
	return &Future{done: make(chan struct{})}
}

// Resolved creates a future which already holds v.
func Resolved(v value.Value) *Future {
	f := New()
	f.Resolve(v)
	return f
}

// Resolve sets the value of f. Only the first call has an effect; Resolve reports
// whether it was the first.
func (f *Future) Resolve(v value.Value) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.resolved {
		return false
	}
	f.val = v
	f.resolved = true
	close(f.done)
	return true
}

// Resolved is part of interface Promise.
func (f *Future) Resolved() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resolved
}

// Value is part of interface Promise.
func (f *Future) Value() value.Value {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.val
}

// Done is part of interface Promise.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// --- Countdown -------------------------------------------------------------

// Countdown is a steppable promise resolving with a fixed value after a given
// number of steps. It is the building block for host-side timers measured in
// scheduler ticks.
type Countdown struct {
	*Future
	remaining int
	result    value.Value
}

var _ Steppable = (*Countdown)(nil)

// Delay creates a countdown which resolves with v after n steps. For n ≤ 0 the
// countdown is resolved from the start.
func Delay(n int, v value.Value) *Countdown {
	c := &Countdown{Future: New(), remaining: n, result: v}
	if n <= 0 {
		c.Resolve(v)
	}
	return c
}

// Step counts down by one.
func (c *Countdown) Step() {
	if c.Resolved() {
		return
	}
	c.remaining--
	if c.remaining <= 0 {
		c.Resolve(c.result)
	}
}

// --- Helpers ---------------------------------------------------------------

// Wait blocks until p is resolved and returns its value. Steppable promises are
// driven to completion, all others are waited for.
func Wait(p Promise) value.Value {
	if st, ok := p.(Steppable); ok {
		for !st.Resolved() {
			st.Step()
		}
		return st.Value()
	}
	<-p.Done()
	return p.Value()
}

// Of extracts a promise from a native value.
func Of(v value.Value) (Promise, bool) {
	p, ok := v.AsNative().(Promise)
	return p, ok
}

// Pending is a predicate: is v an unresolved promise?
func Pending(v value.Value) bool {
	p, ok := Of(v)
	return ok && !p.Resolved()
}
