package session

import (
	"fmt"
	"log/slog"

	"github.com/roach88/lostar/internal/capture"
	"github.com/roach88/lostar/internal/digital"
	"github.com/roach88/lostar/internal/protocol"
	"github.com/roach88/lostar/internal/uart"
)

// ChannelResult is the decode outcome of one channel.
type ChannelResult struct {
	Channel  Channel
	Line     *digital.Timeline
	Timeline *uart.Timeline
}

// Result holds every decoded channel and their merged view.
type Result struct {
	Session  *Session
	Channels []ChannelResult
	Protocol *protocol.Timeline[uart.Message]
}

// Build decodes every channel of s from c and merges them in channel
// order, so earlier channels win ties.
func Build(c *capture.Capture, s *Session) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	res := &Result{
		Session:  s,
		Channels: make([]ChannelResult, 0, len(s.Channels)),
		Protocol: protocol.New[uart.Message](),
	}

	for _, ch := range s.Channels {
		line, err := digital.New(c, ch.Bit)
		if err != nil {
			return nil, fmt.Errorf("channel %q: %w", ch.Label, err)
		}

		tl, err := uart.Decode(line, uart.Config{Baud: ch.Baud, Invert: ch.Invert, DataBits: ch.DataBits})
		if err != nil {
			return nil, fmt.Errorf("channel %q: %w", ch.Label, err)
		}

		if err := res.Protocol.Add(ch.Label, tl); err != nil {
			return nil, err
		}
		res.Channels = append(res.Channels, ChannelResult{Channel: ch, Line: line, Timeline: tl})

		slog.Debug("session: decoded channel",
			"label", ch.Label,
			"bit", ch.Bit,
			"messages", tl.Stats.Messages,
			"dropped", tl.Stats.Dropped)
	}

	if err := res.Protocol.Init(); err != nil {
		return nil, err
	}
	return res, nil
}

// BytesPerLine returns the export width configured by the session, or
// fallback when the session does not set one.
func (r *Result) BytesPerLine(fallback int) int {
	return r.Session.ExportWidth(fallback)
}

// Export writes the merged view as a fixed-width text file.
func (r *Result) Export(path string, fallbackBytesPerLine int) error {
	return r.Protocol.TxtExport(path, r.BytesPerLine(fallbackBytesPerLine))
}
