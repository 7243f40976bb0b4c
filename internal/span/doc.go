// Package span stores ordered, non-overlapping time intervals that carry a
// typed payload.
//
// Spans are appended in time order while the owning timeline is built and
// are read-only afterwards. Consecutive spans may neither overlap nor touch:
// every new span must start strictly after the previous one ends. Lookups
// binary-search the span starts.
package span
