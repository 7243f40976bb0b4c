package digital

import (
	"fmt"
	"slices"

	"github.com/roach88/lostar/internal/capture"
)

// MaxBit is the highest line index carried by a capture state.
const MaxBit = 31

// Visitor receives the level holding from time t onward.
type Visitor func(state bool, t float64)

// Timeline describes when a single line changes its state.
// It is immutable once built.
type Timeline struct {
	initialState bool
	transitions  []float64
}

// New scans the capture and keeps only the samples where the selected bit
// changes. The first sample is always kept as the anchor.
func New(c *capture.Capture, bit int) (*Timeline, error) {
	if bit < 0 || bit > MaxBit {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBit, bit)
	}

	mask := uint32(1) << uint(bit)
	tl := &Timeline{transitions: make([]float64, 0, len(c.Transitions))}

	var last bool
	for i, tr := range c.Transitions {
		state := tr.State&mask != 0
		if i == 0 {
			tl.initialState = state
			tl.transitions = append(tl.transitions, tr.Time)
			last = state
			continue
		}
		if state != last {
			tl.transitions = append(tl.transitions, tr.Time)
			last = state
		}
	}

	return tl, nil
}

// FromTransitions builds a timeline from an already deduplicated list.
func FromTransitions(initialState bool, transitions []float64) (*Timeline, error) {
	for i := 1; i < len(transitions); i++ {
		if transitions[i] <= transitions[i-1] {
			return nil, fmt.Errorf("%w: index %d", ErrNotIncreasing, i)
		}
	}
	return &Timeline{
		initialState: initialState,
		transitions:  slices.Clone(transitions),
	}, nil
}

// InitialState is the level right after the anchor transition.
func (t *Timeline) InitialState() bool {
	return t.initialState
}

// Len returns the number of stored transitions, anchor included.
func (t *Timeline) Len() int {
	return len(t.transitions)
}

// Transition returns the time of the i-th transition.
func (t *Timeline) Transition(i int) float64 {
	return t.transitions[i]
}

// Transitions returns a copy of the transition times.
func (t *Timeline) Transitions() []float64 {
	return slices.Clone(t.transitions)
}

// MinTime returns the anchor time.
func (t *Timeline) MinTime() (float64, bool) {
	if len(t.transitions) == 0 {
		return 0, false
	}
	return t.transitions[0], true
}

// MaxTime returns the time of the last transition.
func (t *Timeline) MaxTime() (float64, bool) {
	if len(t.transitions) == 0 {
		return 0, false
	}
	return t.transitions[len(t.transitions)-1], true
}

// StateAtIndex returns the level holding from the index-th transition.
//
//	index < 0         → !initialState
//	0 <= index < n    → initialState XOR (index is odd)
//	index >= n        → initialState XOR (n is even)
func (t *Timeline) StateAtIndex(index int) bool {
	n := len(t.transitions)
	switch {
	case index < 0:
		return !t.initialState
	case index >= n:
		return t.initialState != (n%2 == 0)
	default:
		return t.initialState != (index%2 != 0)
	}
}

// StateAt returns the level at the given time. At a transition time the
// new level is returned.
func (t *Timeline) StateAt(sec float64) bool {
	index, found := slices.BinarySearch(t.transitions, sec)
	if found {
		return t.StateAtIndex(index)
	}
	return t.StateAtIndex(index - 1)
}

// ForEach visits the levels inside [from, to] and returns the level
// holding at from.
//
// The visitor first receives a boundary event at from unless a transition
// falls exactly there, then every transition in the window, then a closing
// event at to unless the last visited transition is exactly there. The
// closing event carries the level of the first transition at or after to.
// A nil visitor only computes the starting level.
func (t *Timeline) ForEach(from, to float64, visit Visitor) (bool, error) {
	if from >= to {
		return false, fmt.Errorf("%w: [%g, %g]", ErrInvalidRange, from, to)
	}

	start, found := slices.BinarySearch(t.transitions, from)
	if !found && start >= len(t.transitions) {
		// the window starts after the last transition
		return t.StateAtIndex(start), nil
	}

	end, found := slices.BinarySearch(t.transitions, to)
	if !found && end <= 0 {
		// the window ends before the first transition
		return t.StateAtIndex(-1), nil
	}

	if visit != nil {
		last := from
		if from < t.transitions[start] {
			visit(t.StateAtIndex(start-1), from)
		}

		for i := start; i < end; i++ {
			last = t.transitions[i]
			visit(t.StateAtIndex(i), last)
		}

		if to > last {
			visit(t.StateAtIndex(end), to)
		}
	}

	return t.StateAt(from), nil
}

// NearestTransition returns the closest transition before (or after) sec.
// ok is false when there is none on the requested side. A transition
// exactly at sec is never returned; the anchor is only returned as the
// predecessor of the second transition.
func (t *Timeline) NearestTransition(sec float64, before bool) (float64, bool) {
	index, found := slices.BinarySearch(t.transitions, sec)
	if !found {
		index--
	}

	if before {
		if index <= 0 {
			return 0, false
		}
		if found {
			index--
		}
		return t.transitions[index], true
	}

	if index >= len(t.transitions)-1 {
		return 0, false
	}
	return t.transitions[index+1], true
}
