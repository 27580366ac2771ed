/*
Package interp executes jss programs.

An Interpreter owns the global scope, shared by all execution contexts
created from it. A Context owns a stack of call frames and executes program
trees, either synchronously (Execute) or asynchronously (Async, Run).

Both modes share a single tree walk. They differ in a small effect: how
promises handed out by host functions are awaited, and how script functions
are called. The blocking effect waits for promises and calls functions
directly. The suspending effect yields unresolved promises to the consumer of
an iter.Seq and wraps every function call into a Stepper, which is a promise
itself. Programs without suspending operations produce the same results in
both modes.

Control flow (break, continue, return) and runtime faults are passed as
signals alongside node values. A fault terminates the walk and is recorded on
the context, which refuses to execute anything afterwards.

Configuration

  jss.panic-on-fault   re-panic on runtime panics instead of recording them
  jss.trace-steps      trace every suspension of an asynchronous walk

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package interp

import (
	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'jss.interp'.
func tracer() tracing.Trace {
	return tracing.Select("jss.interp")
}

// configured reads a boolean configuration key. Unconfigured applications get false.
func configured(key string) (on bool) {
	defer func() {
		if r := recover(); r != nil {
			on = false
		}
	}()
	return gconf.GetBool(key)
}
