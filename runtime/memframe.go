package runtime

import (
	"fmt"

	"github.com/npillmayer/jss/value"
)

// This module implements a stack of call frames.
// Call frames are used by an interpreter to allocate local storage
// for active function invocations.

// Frame is a call frame, representing the local storage of a function
// invocation: a stack of scopes, one per active block, and a base context
// ("this"), which serves as a fallback for name lookup.
type Frame struct {
	Name   string
	This   value.Value // base context of the invocation
	Scopes ScopeTree   // block scopes, innermost on top
	Parent *Frame
}

// NewFrame creates a new call frame with an empty scope stack.
func NewFrame(nm string, this value.Value) *Frame {
	return &Frame{
		Name: nm,
		This: this,
	}
}

func (fr *Frame) String() string {
	return fmt.Sprintf("<frame %s, %d scopes>", fr.Name, fr.Scopes.Depth())
}

// PushScope enters a new block scope.
func (fr *Frame) PushScope(nm string) *Scope {
	return fr.Scopes.PushNewScope(nm)
}

// PopScope leaves the innermost block scope.
func (fr *Frame) PopScope() *Scope {
	return fr.Scopes.PopScope()
}

// Declare creates (or overwrites) a binding in the innermost scope.
// If no scope is active, one is pushed implicitly.
func (fr *Frame) Declare(name string, v value.Value) *Tag {
	if fr.Scopes.ScopeTOS == nil {
		fr.PushScope(fr.Name)
	}
	tag, _ := fr.Scopes.Current().DefineTag(name)
	if tag != nil {
		tag.Value = v
	}
	return tag
}

// Lookup searches the scope stack top-down for a binding.
func (fr *Frame) Lookup(name string) (value.Value, bool) {
	if fr.Scopes.ScopeTOS == nil {
		return value.Null, false
	}
	if tag, _ := fr.Scopes.Current().ResolveTag(name); tag != nil {
		return tag.Value, true
	}
	return value.Null, false
}

// Assign updates the nearest existing binding. It returns false if no scope of
// this frame binds name.
func (fr *Frame) Assign(name string, v value.Value) bool {
	if fr.Scopes.ScopeTOS == nil {
		return false
	}
	if tag, _ := fr.Scopes.Current().ResolveTag(name); tag != nil {
		tag.Value = v
		return true
	}
	return false
}

// ---------------------------------------------------------------------------

// FrameStack is a call-stack of frames.
type FrameStack struct {
	frameBase *Frame
	frameTOS  *Frame
	depth     int
}

// Current gets the current frame of a stack (TOS).
func (fst *FrameStack) Current() *Frame {
	if fst.frameTOS == nil {
		panic("attempt to access frame from empty stack")
	}
	return fst.frameTOS
}

// Root gets the outermost frame.
func (fst *FrameStack) Root() *Frame {
	if fst.frameBase == nil {
		panic("attempt to access root frame from empty stack")
	}
	return fst.frameBase
}

// Depth returns the number of frames on the stack.
func (fst *FrameStack) Depth() int {
	return fst.depth
}

// PushNewFrame pushes a new frame as TOS.
// A frame is constructed, having the recent TOS as its parent.
//
func (fst *FrameStack) PushNewFrame(nm string, this value.Value) *Frame {
	fp := fst.frameTOS
	newfr := NewFrame(nm, this)
	newfr.Parent = fp
	if fp == nil { // the new frame is the root frame
		fst.frameBase = newfr // make new frame anchor
	}
	fst.frameTOS = newfr // new frame now TOS
	fst.depth++
	T().P("frame", newfr.Name).Debugf("pushing new frame")
	return newfr
}

// PopFrame pops the top-most frame. Returns the popped frame.
func (fst *FrameStack) PopFrame() *Frame {
	if fst.frameTOS == nil {
		panic("attempt to pop frame from empty call stack")
	}
	fr := fst.frameTOS
	T().Debugf("popping frame [%s]", fr.Name)
	fst.frameTOS = fst.frameTOS.Parent
	if fst.frameTOS == nil {
		fst.frameBase = nil
	}
	fst.depth--
	return fr
}
