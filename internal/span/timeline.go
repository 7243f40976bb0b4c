package span

import (
	"cmp"
	"fmt"
	"slices"
	"sort"
)

// Timeline is an ordered sequence of non-overlapping spans.
// The zero value is an empty timeline ready to use.
type Timeline[T any] struct {
	spans []Span[T]
}

// NewTimeline returns an empty timeline.
func NewTimeline[T any]() *Timeline[T] {
	return &Timeline[T]{}
}

// Len returns the number of spans.
func (tl *Timeline[T]) Len() int {
	return len(tl.spans)
}

// At returns the i-th span in time order.
func (tl *Timeline[T]) At(i int) Span[T] {
	return tl.spans[i]
}

// Spans returns a copy of all spans.
func (tl *Timeline[T]) Spans() []Span[T] {
	return slices.Clone(tl.spans)
}

// Last returns the most recently appended span.
func (tl *Timeline[T]) Last() (Span[T], bool) {
	if len(tl.spans) == 0 {
		return Span[T]{}, false
	}
	return tl.spans[len(tl.spans)-1], true
}

// Clear removes every span.
func (tl *Timeline[T]) Clear() {
	tl.spans = tl.spans[:0]
}

// Append adds s after the last span. s must start strictly after the last
// span ends.
func (tl *Timeline[T]) Append(s Span[T]) error {
	if s.Duration < 0 {
		return fmt.Errorf("%w: %g", ErrNegativeDuration, s.Duration)
	}
	if last, ok := tl.Last(); ok && s.Start <= last.End() {
		return fmt.Errorf("%w: start %g <= end %g", ErrOverlap, s.Start, last.End())
	}
	tl.spans = append(tl.spans, s)
	return nil
}

// ExtendLast stretches the last span so that it ends at end and replaces
// its payload. The span can only grow.
func (tl *Timeline[T]) ExtendLast(end float64, payload T) error {
	n := len(tl.spans)
	if n == 0 {
		return ErrEmpty
	}
	last := &tl.spans[n-1]
	if end < last.End() {
		return fmt.Errorf("%w: end %g before %g", ErrNegativeDuration, end, last.End())
	}
	last.Duration = end - last.Start
	last.Payload = payload
	return nil
}

// search returns the index of the span starting exactly at t, or the
// insertion point when there is none.
func (tl *Timeline[T]) search(t float64) (int, bool) {
	return slices.BinarySearchFunc(tl.spans, t, func(s Span[T], t float64) int {
		return cmp.Compare(s.Start, t)
	})
}

// ForEach visits, in order, every span overlapping [from, to], including
// spans that only partially fall inside the window.
func (tl *Timeline[T]) ForEach(from, to float64, visit func(Span[T])) error {
	if from > to {
		return fmt.Errorf("%w: [%g, %g]", ErrInvalidRange, from, to)
	}

	index, found := tl.search(from)
	if !found {
		// the previous span may still cover from
		index--
		if index < 0 {
			index = 0
		} else if tl.spans[index].End() < from {
			index++
		}
	}

	for ; index < len(tl.spans); index++ {
		s := tl.spans[index]
		if s.Start > to {
			break
		}
		visit(s)
	}
	return nil
}

// SpanAt returns the span covering t.
func (tl *Timeline[T]) SpanAt(t float64) (Span[T], bool) {
	index, found := tl.search(t)
	if found {
		return tl.spans[index], true
	}

	index--
	if index < 0 {
		return Span[T]{}, false
	}
	if s := tl.spans[index]; s.End() > t {
		return s, true
	}
	return Span[T]{}, false
}

// NearestEvent treats every span start and end as an event and returns
// the closest one strictly before (or after) t. ok is false when there is
// no event on the requested side. An event exactly at t is skipped on both
// sides: asking before a span's end returns its start.
func (tl *Timeline[T]) NearestEvent(t float64, before bool) (float64, bool) {
	n := len(tl.spans)

	if before {
		// spans starting before t
		i := sort.Search(n, func(i int) bool { return tl.spans[i].Start >= t })
		if i == 0 {
			return 0, false
		}
		s := tl.spans[i-1]
		if s.End() < t {
			return s.End(), true
		}
		return s.Start, true
	}

	// first span ending after t
	j := sort.Search(n, func(i int) bool { return tl.spans[i].End() > t })
	if j == n {
		return 0, false
	}
	s := tl.spans[j]
	if s.Start > t {
		return s.Start, true
	}
	return s.End(), true
}
