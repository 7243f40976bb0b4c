package digital

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/roach88/lostar/internal/capture"
)

// ErrAnchorMismatch is returned when composed lines start at different times.
var ErrAnchorMismatch = errors.New("digital: lines do not share the same anchor")

// Compose packs lines into a capture, line i becoming bit i of every
// sample. All lines must share the same anchor time.
func Compose(lines ...*Timeline) (*capture.Capture, error) {
	if len(lines) == 0 {
		return &capture.Capture{}, nil
	}
	if len(lines) > MaxBit+1 {
		return nil, fmt.Errorf("%w: %d lines", ErrInvalidBit, len(lines))
	}

	type edge struct {
		time float64
		bit  int
	}

	if lines[0].Len() == 0 {
		return nil, fmt.Errorf("%w: line 0 is empty", ErrAnchorMismatch)
	}
	anchor := lines[0].transitions[0]
	var state uint32
	var edges []edge
	for bit, line := range lines {
		if line.Len() == 0 || line.transitions[0] != anchor {
			return nil, fmt.Errorf("%w: line %d", ErrAnchorMismatch, bit)
		}
		if line.initialState {
			state |= 1 << uint(bit)
		}
		for _, t := range line.transitions[1:] {
			edges = append(edges, edge{time: t, bit: bit})
		}
	}
	slices.SortFunc(edges, func(a, b edge) int {
		if c := cmp.Compare(a.time, b.time); c != 0 {
			return c
		}
		return a.bit - b.bit
	})

	samples := make([]capture.Transition, 0, len(edges)+1)
	samples = append(samples, capture.Transition{Time: anchor, State: state})
	for _, e := range edges {
		state ^= 1 << uint(e.bit)
		if last := &samples[len(samples)-1]; last.Time == e.time {
			last.State = state
			continue
		}
		samples = append(samples, capture.Transition{Time: e.time, State: state})
	}

	return &capture.Capture{
		TransitionCount: len(samples),
		BufferSize:      len(samples),
		Transitions:     samples,
	}, nil
}
