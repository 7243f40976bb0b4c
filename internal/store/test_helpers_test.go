package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/lostar/internal/capture"
	"github.com/roach88/lostar/internal/protocol"
	"github.com/roach88/lostar/internal/span"
	"github.com/roach88/lostar/internal/uart"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestCapture returns a small capture with distinct states.
func createTestCapture() *capture.Capture {
	return &capture.Capture{
		TransitionCount: 4,
		BufferSize:      1024,
		Transitions: []capture.Transition{
			{Time: 0, State: 0xFFFFFFFF},
			{Time: 0.25, State: 0x01},
			{Time: 0.5, State: 0x03},
			{Time: 1.75, State: 0x00},
		},
	}
}

// createTestEntry creates a merged entry with the given payload.
func createTestEntry(label string, start float64, payload string) protocol.Entry[uart.Message] {
	return protocol.Entry[uart.Message]{
		Label: label,
		Span:  span.Span[uart.Message]{Start: start, Duration: 0.001, Payload: uart.Message(payload)},
	}
}
