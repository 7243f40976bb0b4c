package span

import "errors"

var (
	// ErrOverlap is returned when an appended span does not start after the last one ends.
	ErrOverlap = errors.New("span: the passed time span overlaps the last one")

	// ErrNegativeDuration is returned for spans with a negative duration.
	ErrNegativeDuration = errors.New("span: the duration cannot be negative")

	// ErrInvalidRange is returned when a query window has from > to.
	ErrInvalidRange = errors.New("span: the initial time is more than the final time")

	// ErrEmpty is returned when the last span is modified on an empty timeline.
	ErrEmpty = errors.New("span: timeline is empty")
)
