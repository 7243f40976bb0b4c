package uart

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/lostar/internal/digital"
	"github.com/roach88/lostar/internal/span"
)

// DefaultDataBits is the frame size used when Config.DataBits is zero.
const DefaultDataBits = 8

// coalesceGap is the largest gap, in bit times, between two frames of the
// same message.
const coalesceGap = 2.0

// ErrInvalidConfig is returned for unusable decoder settings.
var ErrInvalidConfig = errors.New("uart: invalid configuration")

// Config holds the line settings.
type Config struct {
	Baud     int
	Invert   bool
	DataBits int
}

func (c Config) withDefaults() (Config, error) {
	if c.DataBits == 0 {
		c.DataBits = DefaultDataBits
	}
	if c.Baud <= 0 {
		return c, fmt.Errorf("%w: baud must be positive, got %d", ErrInvalidConfig, c.Baud)
	}
	if c.DataBits < 1 || c.DataBits > 8 {
		return c, fmt.Errorf("%w: data bits must be in [1, 8], got %d", ErrInvalidConfig, c.DataBits)
	}
	return c, nil
}

// Stats summarizes a decode.
type Stats struct {
	Frames   int // accepted frames
	Messages int // spans after coalescing
	Dropped  int // frames with a low stop bit
}

// Timeline is the span timeline of decoded messages.
type Timeline struct {
	*span.Timeline[Message]

	Config Config
	Stats  Stats
}

// Decode runs the frame state machine over a digital line.
// A line with fewer than DataBits+3 transitions cannot hold a frame and
// yields an empty timeline.
func Decode(line *digital.Timeline, cfg Config) (*Timeline, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}

	tl := &Timeline{Timeline: span.NewTimeline[Message](), Config: cfg}
	if line.Len() < cfg.DataBits+3 {
		slog.Debug("uart: not enough transitions for a frame", "transitions", line.Len())
		return tl, nil
	}

	d := decoder{line: line, cfg: cfg, bit: 1.0 / float64(cfg.Baud), out: tl}
	if err := d.run(); err != nil {
		return nil, err
	}

	tl.Stats.Messages = tl.Len()
	slog.Debug("uart: decode complete",
		"baud", cfg.Baud,
		"frames", tl.Stats.Frames,
		"messages", tl.Stats.Messages,
		"dropped", tl.Stats.Dropped,
	)
	return tl, nil
}

type decoder struct {
	line *digital.Timeline
	cfg  Config
	bit  float64
	out  *Timeline
}

// idle reports whether the line is at its idle level at t.
func (d *decoder) idle(t float64) bool {
	return d.line.StateAt(t) != d.cfg.Invert
}

func (d *decoder) run() error {
	// The anchor is not a real edge. When the line starts away from idle
	// the first meaningful edge is the return to idle.
	current := d.line.Transition(0)
	if d.line.InitialState() == d.cfg.Invert {
		current = d.line.Transition(1)
	}

	frameLen := float64(d.cfg.DataBits+2)*d.bit - 0.5*d.bit

	for {
		if b, ok := d.frameAt(current); ok {
			if err := d.accept(current, frameLen, b); err != nil {
				return err
			}
		}

		next, ok := d.line.NearestTransition(current+frameLen, false)
		if !ok {
			return nil
		}
		current = next
	}
}

// frameAt samples a frame whose start edge is at t. ok is false when
// there is no start bit or the stop bit is wrong.
func (d *decoder) frameAt(t float64) (byte, bool) {
	mid := t + d.bit/2
	if d.idle(mid) {
		return 0, false
	}

	var b byte
	for i := 0; i < d.cfg.DataBits; i++ {
		if d.idle(mid + float64(i+1)*d.bit) {
			b |= 1 << i
		}
	}

	if !d.idle(mid + float64(d.cfg.DataBits+1)*d.bit) {
		d.out.Stats.Dropped++
		slog.Debug("uart: frame dropped, stop bit not idle", "time", t, "value", b)
		return 0, false
	}
	return b, true
}

func (d *decoder) accept(start, frameLen float64, b byte) error {
	d.out.Stats.Frames++
	end := start + frameLen

	if last, ok := d.out.Last(); ok && start-last.End() <= coalesceGap*d.bit {
		return d.out.ExtendLast(end, append(last.Payload, b))
	}
	return d.out.Append(span.Span[Message]{Start: start, Duration: frameLen, Payload: Message{b}})
}
