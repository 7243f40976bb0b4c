package span

import "fmt"

// Span is the interval [Start, Start+Duration) carrying a payload.
type Span[T any] struct {
	Start    float64
	Duration float64
	Payload  T
}

// New builds a span, rejecting negative durations.
func New[T any](start, duration float64, payload T) (Span[T], error) {
	if duration < 0 {
		return Span[T]{}, fmt.Errorf("%w: %g", ErrNegativeDuration, duration)
	}
	return Span[T]{Start: start, Duration: duration, Payload: payload}, nil
}

// End returns Start + Duration.
func (s Span[T]) End() float64 {
	return s.Start + s.Duration
}

// Contains reports whether t falls in [Start, End).
func (s Span[T]) Contains(t float64) bool {
	return s.Start <= t && t < s.End()
}
