package interp

import "github.com/npillmayer/jss/value"

// flow discriminates signals.
type flow uint8

const (
	normal flow = iota
	brk
	cont
	ret
	fault
)

func (f flow) String() string {
	return [...]string{"normal", "break", "continue", "return", "fault"}[f]
}

// signal is the control-flow outcome of evaluating a node. Loops consume
// matching break and continue signals, function boundaries consume returns,
// faults run all the way up.
type signal struct {
	flow  flow
	label string      // target of break/continue, "" for the innermost loop
	val   value.Value // return value
	err   error       // cause of a fault
}

var proceed = signal{}

// targets is a predicate: is a break/continue signal meant for a loop labeled
// with label?
func (s signal) targets(label string) bool {
	return s.label == "" || s.label == label
}
