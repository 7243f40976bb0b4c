package digital

import "errors"

var (
	// ErrInvalidRange is returned when a query window has from >= to.
	ErrInvalidRange = errors.New("digital: the initial time equals or is more than the final time")

	// ErrInvalidBit is returned when the selected line is outside the state bitmask.
	ErrInvalidBit = errors.New("digital: bit index out of range")

	// ErrNotIncreasing is returned when transition times are not strictly increasing.
	ErrNotIncreasing = errors.New("digital: transition times must be strictly increasing")
)
