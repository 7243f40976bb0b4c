package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lostar/internal/span"
	"github.com/roach88/lostar/internal/uart"
)

func startsAt(t *testing.T, starts ...float64) *span.Timeline[uart.Message] {
	t.Helper()
	tl := span.NewTimeline[uart.Message]()
	for _, start := range starts {
		require.NoError(t, tl.Append(span.Span[uart.Message]{Start: start, Duration: 1, Payload: uart.Message{byte(start)}}))
	}
	return tl
}

func labelsAndStarts(tl *Timeline[uart.Message]) ([]string, []float64) {
	var labels []string
	var starts []float64
	for _, e := range tl.Entries() {
		labels = append(labels, e.Label)
		starts = append(starts, e.Span.Start)
	}
	return labels, starts
}

func TestInit_SingleSpanStreams(t *testing.T) {
	tl := New[uart.Message]()
	require.NoError(t, tl.Add("TimelineA", startsAt(t, 10)))
	require.NoError(t, tl.Add("TimelineB", startsAt(t, 20)))
	require.NoError(t, tl.Add("TimelineC", startsAt(t, 30)))

	require.NoError(t, tl.Init())

	require.Equal(t, 3, tl.Len())
	labels, starts := labelsAndStarts(tl)
	assert.Equal(t, []string{"TimelineA", "TimelineB", "TimelineC"}, labels)
	assert.Equal(t, []float64{10, 20, 30}, starts)
}

func TestInit_InterleavesStreams(t *testing.T) {
	tl := New[uart.Message]()
	require.NoError(t, tl.Add("A", startsAt(t, 10, 30)))
	require.NoError(t, tl.Add("B", startsAt(t, 20)))
	require.NoError(t, tl.Init())

	labels, starts := labelsAndStarts(tl)
	assert.Equal(t, []string{"A", "B", "A"}, labels)
	assert.Equal(t, []float64{10, 20, 30}, starts)
	assert.Equal(t, 3, tl.Len())
}

func TestInit_MultipleSpans(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		times []float64
	}{
		{"two streams", []string{"A", "A", "B", "A", "B"}, []float64{10, 20, 30, 40, 50}},
		{"three streams", []string{"A", "C", "B", "A", "B"}, []float64{10, 20, 30, 40, 50}},
		{"one span then run", []string{"B", "A", "A", "A", "A"}, []float64{10, 20, 30, 40, 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var order []string
			streams := map[string]*span.Timeline[uart.Message]{}
			for i, name := range tt.names {
				if _, ok := streams[name]; !ok {
					streams[name] = span.NewTimeline[uart.Message]()
					order = append(order, name)
				}
				require.NoError(t, streams[name].Append(span.Span[uart.Message]{Start: tt.times[i], Duration: 1}))
			}

			tl := New[uart.Message]()
			for _, name := range order {
				require.NoError(t, tl.Add(name, streams[name]))
			}
			require.NoError(t, tl.Init())

			labels, starts := labelsAndStarts(tl)
			assert.Equal(t, tt.names, labels)
			assert.Equal(t, tt.times, starts)
		})
	}
}

func TestInit_TiesFollowRegistrationOrder(t *testing.T) {
	tl := New[uart.Message]()
	require.NoError(t, tl.Add("late", startsAt(t, 5, 20)))
	require.NoError(t, tl.Add("early", startsAt(t, 5, 10)))
	require.NoError(t, tl.Add("third", startsAt(t, 5)))
	require.NoError(t, tl.Init())

	labels, starts := labelsAndStarts(tl)
	assert.Equal(t, []string{"late", "early", "third", "early", "late"}, labels)
	assert.Equal(t, []float64{5, 5, 5, 10, 20}, starts)
}

func TestInit_EmptyStreams(t *testing.T) {
	tl := New[uart.Message]()
	require.NoError(t, tl.Add("empty", startsAt(t)))
	require.NoError(t, tl.Add("one", startsAt(t, 1)))
	require.NoError(t, tl.Init())

	require.Equal(t, 1, tl.Len())
	assert.Equal(t, "one", tl.At(0).Label)
	assert.Equal(t, []string{"empty", "one"}, tl.Labels())
}

func TestInit_AcceptsDecodedTimelines(t *testing.T) {
	rx, err := uart.Decode(digitalFixture(), uart.Config{Baud: 9600})
	require.NoError(t, err)

	tl := New[uart.Message]()
	require.NoError(t, tl.Add("rx", rx))
	require.NoError(t, tl.Init())

	require.Equal(t, rx.Len(), tl.Len())
	assert.Equal(t, uart.Message("OK"), tl.At(0).Span.Payload)
}

func TestInit_Idempotent(t *testing.T) {
	tl := New[uart.Message]()
	require.NoError(t, tl.Add("A", startsAt(t, 1, 2)))
	require.NoError(t, tl.Init())
	require.NoError(t, tl.Init())

	assert.Equal(t, 2, tl.Len())
	assert.True(t, tl.Initialized())
}

func TestAdd_AfterInitFails(t *testing.T) {
	tl := New[uart.Message]()
	require.NoError(t, tl.Init())

	err := tl.Add("A", startsAt(t, 1))
	assert.ErrorIs(t, err, ErrFrozen)
	assert.Equal(t, 0, tl.Len())
}

func TestAdd_NilSource(t *testing.T) {
	var nilSpans *span.Timeline[uart.Message]
	var nilDecoded *uart.Timeline

	tests := []struct {
		name string
		src  Source[uart.Message]
	}{
		{"untyped", nil},
		{"span timeline", nilSpans},
		{"decoded timeline", nilDecoded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl := New[uart.Message]()
			assert.ErrorContains(t, tl.Add("A", tt.src), "nil source")
			assert.NotPanics(t, func() { require.NoError(t, tl.Init()) })
			assert.Equal(t, 0, tl.Len())
		})
	}
}

func TestLen_ZeroBeforeInit(t *testing.T) {
	tl := New[uart.Message]()
	require.NoError(t, tl.Add("A", startsAt(t, 1, 2)))

	assert.Equal(t, 0, tl.Len())
	assert.False(t, tl.Initialized())
	assert.Equal(t, 0, tl.Following(0))
}

func TestFollowing(t *testing.T) {
	tl := New[uart.Message]()
	require.NoError(t, tl.Add("A", startsAt(t, 10, 30)))
	require.NoError(t, tl.Add("B", startsAt(t, 20, 30)))
	require.NoError(t, tl.Init())

	tests := []struct {
		at   float64
		want int
	}{
		{0, 0},
		{10, 0},
		{10.5, 1},
		{20, 1},
		{29.9, 2},
		{30, 2},
		{30.1, 4},
		{100, 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tl.Following(tt.at), "Following(%g)", tt.at)
	}
}

func TestEntries_ReturnsCopy(t *testing.T) {
	tl := New[uart.Message]()
	require.NoError(t, tl.Add("A", startsAt(t, 1)))
	require.NoError(t, tl.Init())

	entries := tl.Entries()
	entries[0].Label = "changed"
	assert.Equal(t, "A", tl.At(0).Label)
}
