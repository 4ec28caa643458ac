// Package stepline renders horizontal step-progress indicators for
// multi-stage terminal workflows.
//
// A sequence of step labels and the index of the active step classify every
// step as completed, current, or pending. Rendering is a pure function of
// those two inputs: no state is held between calls and any integer index is
// accepted — out-of-range indices saturate the whole sequence to one state
// instead of failing.
package stepline

import "strconv"

// State classifies one step relative to the current index.
type State int

const (
	// StateCompleted marks steps before the current index.
	StateCompleted State = iota
	// StateCurrent marks the step at the current index.
	StateCurrent
	// StatePending marks steps after the current index.
	StatePending
)

// String returns the lowercase name of the state.
func (s State) String() string {
	switch s {
	case StateCompleted:
		return "completed"
	case StateCurrent:
		return "current"
	case StatePending:
		return "pending"
	default:
		return "state(" + strconv.Itoa(int(s)) + ")"
	}
}

// StateAt classifies index i against the current step index.
func StateAt(i, current int) State {
	switch {
	case i < current:
		return StateCompleted
	case i == current:
		return StateCurrent
	default:
		return StatePending
	}
}

// CompletedCount reports how many of n steps are classified completed for
// the given current index, clamped to [0, n].
func CompletedCount(n, current int) int {
	if current < 0 {
		return 0
	}
	if current > n {
		return n
	}
	return current
}

// Sequence is an ordered list of step labels and the active step index.
// Order is display order: index 0 renders leftmost.
type Sequence struct {
	Steps   []string
	Current int
}

// StateAt classifies step i of the sequence.
func (s Sequence) StateAt(i int) State {
	return StateAt(i, s.Current)
}

// Render produces the indicator for this sequence.
func (s Sequence) Render(opts ...Option) string {
	return Render(s.Steps, s.Current, opts...)
}
