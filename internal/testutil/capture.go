package testutil

import "github.com/roach88/lostar/internal/capture"

// TwoLineCapture returns a capture where two lines have the following states:
//
//	(s)  1 0
//	1.0  H L
//	1.1  L H
//	1.2  H H
//	1.3  H L
//	1.4  L L
//
// Bit 0 yields initial state false with transitions [1.0 1.1 1.3].
// Bit 1 yields initial state true with transitions [1.0 1.1 1.2 1.4].
func TwoLineCapture() *capture.Capture {
	return &capture.Capture{
		TransitionCount: 5,
		BufferSize:      100,
		Transitions: []capture.Transition{
			{Time: 1.0, State: 0x02},
			{Time: 1.1, State: 0x01},
			{Time: 1.2, State: 0x03},
			{Time: 1.3, State: 0x02},
			{Time: 1.4, State: 0x00},
		},
	}
}
