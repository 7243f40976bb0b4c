package capture

// Transition is a sample of the input lines taken when at least one of them
// changed state.
type Transition struct {
	// Time in seconds from the beginning of the acquisition.
	Time float64 `cbor:"1,keyasint" yaml:"time"`

	// State of the sampled lines. Bit 0 is the first line.
	State uint32 `cbor:"2,keyasint" yaml:"state"`
}

// Capture is the data recorded in one acquisition.
type Capture struct {
	// TransitionCount is the total number of transitions seen by the
	// recorder. It can exceed len(Transitions) when the buffer wrapped.
	TransitionCount int `cbor:"1,keyasint" yaml:"transition_count"`

	// BufferSize is the capacity of the recorder buffer.
	BufferSize int `cbor:"2,keyasint" yaml:"buffer_size"`

	// Transitions are the stored samples in time order.
	Transitions []Transition `cbor:"3,keyasint" yaml:"transitions"`
}

// Len returns the number of stored transitions.
func (c *Capture) Len() int {
	return len(c.Transitions)
}

// MinTime returns the time of the first stored transition.
func (c *Capture) MinTime() (float64, bool) {
	if len(c.Transitions) == 0 {
		return 0, false
	}
	return c.Transitions[0].Time, true
}

// MaxTime returns the time of the last stored transition.
// Only the first TransitionCount entries are considered valid.
func (c *Capture) MaxTime() (float64, bool) {
	count := c.TransitionCount
	if count > len(c.Transitions) || count <= 0 {
		count = len(c.Transitions)
	}
	if count == 0 {
		return 0, false
	}
	return c.Transitions[count-1].Time, true
}

// Validate checks that transition times are strictly increasing.
func (c *Capture) Validate() error {
	for i := 1; i < len(c.Transitions); i++ {
		if c.Transitions[i].Time <= c.Transitions[i-1].Time {
			return &FormatError{
				Code:    ErrCodeNotMonotonic,
				Message: "transition times must be strictly increasing",
				Index:   i,
			}
		}
	}
	return nil
}

// normalize fills metadata that compact formats may omit.
func (c *Capture) normalize() {
	if c.TransitionCount == 0 {
		c.TransitionCount = len(c.Transitions)
	}
	if c.BufferSize == 0 {
		c.BufferSize = len(c.Transitions)
	}
}
