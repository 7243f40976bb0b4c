package protocol

import (
	"container/heap"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"sort"

	"github.com/roach88/lostar/internal/span"
)

// ErrFrozen is returned by Add once the timeline has been merged.
var ErrFrozen = errors.New("protocol: timeline already initialized")

// Payload is the constraint on span payloads that can be exported.
type Payload interface {
	Bytes() []byte
}

// Source is a time-ordered sequence of spans. *span.Timeline and the
// decoder timelines that embed it satisfy it.
type Source[T any] interface {
	Len() int
	At(i int) span.Span[T]
}

// Entry is one span of the merged view with the label of its stream.
type Entry[T any] struct {
	Label string
	Span  span.Span[T]
}

type stream[T any] struct {
	label  string
	source Source[T]
}

// Timeline is the merged view over registered streams.
type Timeline[T Payload] struct {
	streams     []stream[T]
	entries     []Entry[T]
	initialized bool
}

// New returns an empty timeline in its registration phase.
func New[T Payload]() *Timeline[T] {
	return &Timeline[T]{}
}

// Add registers a stream. Registration order breaks ties between spans
// starting at the same time.
func (tl *Timeline[T]) Add(label string, src Source[T]) error {
	if tl.initialized {
		return fmt.Errorf("%w: cannot add %q", ErrFrozen, label)
	}
	if isNil(src) {
		return fmt.Errorf("protocol: nil source for %q", label)
	}
	tl.streams = append(tl.streams, stream[T]{label: label, source: src})
	return nil
}

// isNil reports whether src is nil or holds a nil pointer, such as a nil
// *span.Timeline or *uart.Timeline.
func isNil(src any) bool {
	if src == nil {
		return true
	}
	v := reflect.ValueOf(src)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// Init merges every registered stream. Calling it again is a no-op.
func (tl *Timeline[T]) Init() error {
	if tl.initialized {
		return nil
	}

	total := 0
	for _, s := range tl.streams {
		total += s.source.Len()
	}
	entries := make([]Entry[T], 0, total)

	h := make(cursorHeap, 0, len(tl.streams))
	for i, s := range tl.streams {
		if s.source.Len() > 0 {
			h = append(h, cursor{start: s.source.At(0).Start, stream: i})
		}
	}
	heap.Init(&h)

	for h.Len() > 0 {
		c := &h[0]
		s := tl.streams[c.stream]
		entries = append(entries, Entry[T]{Label: s.label, Span: s.source.At(c.next)})

		c.next++
		if c.next < s.source.Len() {
			next := s.source.At(c.next).Start
			if next < c.start {
				return fmt.Errorf("protocol: stream %q is not ordered at span %d", s.label, c.next)
			}
			c.start = next
			heap.Fix(&h, 0)
		} else {
			heap.Pop(&h)
		}
	}

	tl.entries = entries
	tl.initialized = true
	slog.Debug("protocol: merged streams", "streams", len(tl.streams), "entries", len(entries))
	return nil
}

// Initialized reports whether Init has run.
func (tl *Timeline[T]) Initialized() bool {
	return tl.initialized
}

// Labels returns the registered stream labels in registration order.
func (tl *Timeline[T]) Labels() []string {
	labels := make([]string, len(tl.streams))
	for i, s := range tl.streams {
		labels[i] = s.label
	}
	return labels
}

// Len returns the number of merged entries; zero before Init.
func (tl *Timeline[T]) Len() int {
	return len(tl.entries)
}

// At returns the i-th merged entry.
func (tl *Timeline[T]) At(i int) Entry[T] {
	return tl.entries[i]
}

// Entries returns a copy of the merged sequence.
func (tl *Timeline[T]) Entries() []Entry[T] {
	return slices.Clone(tl.entries)
}

// Following returns the index of the first entry starting at or after t,
// or Len() when there is none.
func (tl *Timeline[T]) Following(t float64) int {
	return sort.Search(len(tl.entries), func(i int) bool {
		return tl.entries[i].Span.Start >= t
	})
}

// cursor tracks the next unconsumed span of one stream.
type cursor struct {
	start  float64
	stream int
	next   int
}

type cursorHeap []cursor

func (h cursorHeap) Len() int { return len(h) }

func (h cursorHeap) Less(i, j int) bool {
	if h[i].start != h[j].start {
		return h[i].start < h[j].start
	}
	return h[i].stream < h[j].stream
}

func (h cursorHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *cursorHeap) Push(x any) { *h = append(*h, x.(cursor)) }

func (h *cursorHeap) Pop() any {
	old := *h
	n := len(old)
	c := old[n-1]
	*h = old[:n-1]
	return c
}
