package interp

import (
	"errors"
	"iter"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/npillmayer/jss/future"
	"github.com/npillmayer/jss/value"
)

// Stepper is a promise driving an asynchronous walk. Every call to Step
// resumes the walk up to its next suspension. When the walk completes, the
// stepper resolves with the walk's result, or with null on a fault.
//
// A stepper must not be stepped concurrently. Steppers sharing a context must
// not be interleaved, as they share the context's frame stack.
type Stepper struct {
	*future.Future
	next     func() (value.Value, bool)
	stop     func()
	result   value.Value
	err      error
	finished bool // the walk has completed
	stopped  bool // no more steps possible
	steps    int
}

var _ future.Steppable = (*Stepper)(nil)

func newStepper(body func(yield func(value.Value) bool) (value.Value, error)) *Stepper {
	s := &Stepper{Future: future.New()}
	seq := iter.Seq[value.Value](func(yield func(value.Value) bool) {
		v, err := body(yield)
		if errors.Is(err, ErrAbandoned) {
			return
		}
		s.result, s.err, s.finished = v, err, true
	})
	s.next, s.stop = iter.Pull(seq)
	return s
}

// Step advances the walk until it suspends or completes.
func (s *Stepper) Step() {
	if s.stopped {
		return
	}
	s.steps++
	if _, suspended := s.next(); suspended {
		return
	}
	s.stopped = true
	s.stop()
	if !s.finished {
		return
	}
	if s.err != nil {
		s.Resolve(value.Null)
		return
	}
	s.Resolve(s.result)
}

// Stop abandons the walk. An abandoned stepper never resolves.
func (s *Stepper) Stop() {
	if !s.stopped {
		s.stopped = true
		s.stop()
	}
}

// Err returns the fault of a completed walk.
func (s *Stepper) Err() error {
	return s.err
}

// Steps returns the number of times the stepper has been advanced.
func (s *Stepper) Steps() int {
	return s.steps
}

// Active is a predicate: may further steps make progress?
func (s *Stepper) Active() bool {
	return !s.stopped
}

// --- Scheduler -------------------------------------------------------------

// Scheduler advances a set of steppers cooperatively. Each tick gives every
// active stepper a fixed budget of steps.
type Scheduler struct {
	budget int
	queue  *arraylist.List
}

// NewScheduler creates a scheduler granting stepsPerTick steps per stepper and
// tick.
func NewScheduler(stepsPerTick int) *Scheduler {
	if stepsPerTick < 1 {
		stepsPerTick = 1
	}
	return &Scheduler{budget: stepsPerTick, queue: arraylist.New()}
}

// Spawn adds a stepper to the scheduler.
func (sch *Scheduler) Spawn(st *Stepper) *Stepper {
	sch.queue.Add(st)
	return st
}

// Tick advances all steppers, in the order they have been spawned, and drops
// the ones which have completed. It returns the number of steppers still
// pending.
func (sch *Scheduler) Tick() int {
	sch.queue.Each(func(_ int, x interface{}) {
		st := x.(*Stepper)
		for i := 0; i < sch.budget && st.Active(); i++ {
			st.Step()
		}
	})
	sch.queue = sch.queue.Select(func(_ int, x interface{}) bool {
		return x.(*Stepper).Active()
	})
	return sch.queue.Size()
}

// Pending returns the number of steppers not yet completed.
func (sch *Scheduler) Pending() int {
	return sch.queue.Size()
}
