/*
Package runtime implements an interpreter runtime, consisting of
call frames, scopes and tags (variable bindings).

For a thorough discussion of an interpreter's runtime environment, refer to
"Language Implementation Patterns" by Terence Parr.

Symbol Table and Scopes

This module implements data structures for block scopes and symbol tables
attached to them. Each block or loop pushes a scope on entry and pops it on
exit, which gives declarations their lifetime.

Call Frames

This module implements a stack of call frames.
A frame is pushed per function invocation. Name resolution never looks
into frames other than the current one.


----------------------------------------------------------------------

BSD License

Copyright (c) 2017-21, Norbert Pillmayer

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software or the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE. */
package runtime

import (
	"github.com/npillmayer/jss/value"
	"github.com/npillmayer/schuko/tracing"
)

// T traces with key 'jss.runtime'.
func T() tracing.Trace {
	return tracing.Select("jss.runtime")
}

// Runtime is a type implementing a runtime environment for an interpreter
type Runtime struct {
	Frames *FrameStack // runtime stack of call frames
}

// NewRuntimeEnvironment constructs
// a new runtime environment, initialized with a root frame. The root frame
// uses globals as its base context, so bindings which are not found anywhere
// else end up there.
//
func NewRuntimeEnvironment(globals value.Value) *Runtime {
	rt := &Runtime{}
	rt.Frames = new(FrameStack)               // initialize call stack
	rt.Frames.PushNewFrame("global", globals) // root frame
	rt.Frames.Root().PushScope("globals")     // root frame gets a scope for top-level blocks
	return rt
}
