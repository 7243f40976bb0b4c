package digital

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lostar/internal/capture"
	"github.com/roach88/lostar/internal/testutil"
)

func newTwoLine(t *testing.T, bit int) *Timeline {
	t.Helper()
	tl, err := New(testutil.TwoLineCapture(), bit)
	require.NoError(t, err)
	return tl
}

func TestNew_StoresOnlyStateChanges(t *testing.T) {
	tl := newTwoLine(t, 0)
	assert.False(t, tl.InitialState())
	assert.Equal(t, []float64{1.0, 1.1, 1.3}, tl.Transitions())

	tl = newTwoLine(t, 1)
	assert.True(t, tl.InitialState())
	assert.Equal(t, []float64{1.0, 1.1, 1.2, 1.4}, tl.Transitions())
}

func TestNew_InvalidBit(t *testing.T) {
	for _, bit := range []int{-1, 32} {
		_, err := New(testutil.TwoLineCapture(), bit)
		assert.ErrorIs(t, err, ErrInvalidBit)
	}
}

func TestNew_EmptyCapture(t *testing.T) {
	tl, err := New(&capture.Capture{}, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, tl.Len())

	_, ok := tl.MinTime()
	assert.False(t, ok)
	_, ok = tl.NearestTransition(1, false)
	assert.False(t, ok)
}

func TestFromTransitions(t *testing.T) {
	_, err := FromTransitions(true, []float64{0, 1, 1})
	assert.ErrorIs(t, err, ErrNotIncreasing)

	src := []float64{0, 1, 2}
	tl, err := FromTransitions(true, src)
	require.NoError(t, err)
	src[1] = 5
	assert.Equal(t, 1.0, tl.Transition(1), "input slice must be copied")

	min, _ := tl.MinTime()
	max, _ := tl.MaxTime()
	assert.Equal(t, 0.0, min)
	assert.Equal(t, 2.0, max)
}

func TestStateAtIndex(t *testing.T) {
	tl := newTwoLine(t, 0)

	tests := []struct {
		index int
		want  bool
	}{
		{-1, true},
		{0, false},
		{1, true},
		{2, false},
		{3, false},
		{4, false},
		{5, false},
		{6, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tl.StateAtIndex(tt.index), "index %d", tt.index)
	}
}

func TestStateAtIndex_EvenCountFlipsPastEnd(t *testing.T) {
	tl := newTwoLine(t, 1) // 4 transitions, initial true
	assert.False(t, tl.StateAtIndex(3))
	assert.False(t, tl.StateAtIndex(4))
	assert.False(t, tl.StateAtIndex(100))
}

func TestStateAt(t *testing.T) {
	tl := newTwoLine(t, 0)

	tests := []struct {
		time float64
		want bool
	}{
		{0.0, true},
		{1.0, false},
		{1.099999, false},
		{1.1, true},
		{2, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tl.StateAt(tt.time), "time %g", tt.time)
	}
}

func TestStateAt_BeforeAnchorIsComplement(t *testing.T) {
	for bit := 0; bit < 2; bit++ {
		tl := newTwoLine(t, bit)
		assert.Equal(t, !tl.InitialState(), tl.StateAt(0.5))
	}
}

func TestStateAt_Alternates(t *testing.T) {
	tl := GenerateUART(9600, 0.01, 0x55, 0xA3, 0x00)
	for i := 1; i < tl.Len(); i++ {
		assert.NotEqual(t, tl.StateAt(tl.Transition(i)), tl.StateAt(tl.Transition(i-1)), "transition %d", i)
	}
}

func TestForEach_InvalidRange(t *testing.T) {
	tl := newTwoLine(t, 0)

	_, err := tl.ForEach(10.0, 9.0, nil)
	require.ErrorIs(t, err, ErrInvalidRange)
	assert.Contains(t, err.Error(), "or is more than")

	_, err = tl.ForEach(1.0, 1.0, nil)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestForEach_WindowOutsideData(t *testing.T) {
	tl := newTwoLine(t, 0)
	visited := 0
	count := func(bool, float64) { visited++ }

	state, err := tl.ForEach(3.0, 3.1, count)
	require.NoError(t, err)
	assert.False(t, state)

	state, err = tl.ForEach(0, 0.1, count)
	require.NoError(t, err)
	assert.True(t, state)

	assert.Zero(t, visited)
}

func TestForEach_Ranges(t *testing.T) {
	tests := []struct {
		name       string
		from, to   float64
		bit        int
		wantState  bool
		wantStates []bool
		wantTimes  []float64
	}{
		{"whole capture", 0.0, 2.0, 0, true,
			[]bool{true, false, true, false, false}, []float64{0.0, 1, 1.1, 1.3, 2.0}},
		{"ends between transitions", 0.0, 1.25, 0, true,
			[]bool{true, false, true, false}, []float64{0, 1, 1.1, 1.25}},
		{"ends on transition", 0.0, 1.3, 0, true,
			[]bool{true, false, true, false}, []float64{0, 1, 1.1, 1.3}},
		{"ends just after transition", 0.0, 1.3001, 0, true,
			[]bool{true, false, true, false, false}, []float64{0, 1, 1.1, 1.3, 1.3001}},
		{"inside data", 1.05, 1.25, 0, false,
			[]bool{false, true, false}, []float64{1.05, 1.1, 1.25}},
		{"no transition in window", 1.25, 1.26, 0, true,
			[]bool{true, false}, []float64{1.25, 1.26}},
		{"second line", 0.0, 2.0, 1, false,
			[]bool{false, true, false, true, false, false}, []float64{0.0, 1, 1.1, 1.2, 1.4, 2.0}},
		{"starts on transition", 1.1, 1.2, 0, true,
			[]bool{true, false}, []float64{1.1, 1.2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl := newTwoLine(t, tt.bit)

			var states []bool
			var times []float64
			state, err := tl.ForEach(tt.from, tt.to, func(s bool, at float64) {
				states = append(states, s)
				times = append(times, at)
			})
			require.NoError(t, err)

			assert.Equal(t, tt.wantState, state)
			assert.Equal(t, tl.StateAt(tt.from), state)
			assert.Equal(t, tt.wantStates, states)
			assert.Equal(t, tt.wantTimes, times)
		})
	}
}

func TestNearestTransition(t *testing.T) {
	tl := newTwoLine(t, 0)

	tests := []struct {
		time   float64
		before bool
		want   float64
		ok     bool
	}{
		{1.3, true, 1.1, true},
		{1.3, false, 0, false},
		{1.05, true, 0, false},
		{1.05, false, 1.1, true},
		{1.15, true, 1.1, true},
		{1.15, false, 1.3, true},
		{1.35, true, 1.3, true},
		{1.35, false, 0, false},
		{1.1, true, 1.0, true},
		{0.5, true, 0, false},
		{0.5, false, 1.0, true},
		{1.0, false, 1.1, true},
	}

	for _, tt := range tests {
		got, ok := tl.NearestTransition(tt.time, tt.before)
		assert.Equal(t, tt.ok, ok, "time %g before=%v", tt.time, tt.before)
		assert.Equal(t, tt.want, got, "time %g before=%v", tt.time, tt.before)
	}
}
