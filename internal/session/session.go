package session

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/roach88/lostar/internal/digital"
)

// Channel is one decoded line.
type Channel struct {
	Label    string `yaml:"label" json:"label"`
	Bit      int    `yaml:"bit" json:"bit"`
	Baud     int    `yaml:"baud,omitempty" json:"baud,omitempty"`
	Invert   bool   `yaml:"invert,omitempty" json:"invert,omitempty"`
	DataBits int    `yaml:"data_bits,omitempty" json:"data_bits,omitempty"`
}

// Session lists the channels to decode from a capture.
type Session struct {
	Name         string    `yaml:"name,omitempty" json:"name,omitempty"`
	BytesPerLine int       `yaml:"bytes_per_line,omitempty" json:"bytes_per_line,omitempty"`
	Channels     []Channel `yaml:"channels" json:"channels"`
}

// ErrInvalidSession wraps every validation failure.
var ErrInvalidSession = errors.New("invalid session")

// Validate checks the channel list. A zero baud is allowed and means the
// default set with SetDefaultBaud.
func (s *Session) Validate() error {
	if len(s.Channels) == 0 {
		return fmt.Errorf("%w: channels list is required and must be non-empty", ErrInvalidSession)
	}
	if s.BytesPerLine < 0 {
		return fmt.Errorf("%w: bytes_per_line must be positive", ErrInvalidSession)
	}

	seen := make(map[string]int, len(s.Channels))
	for i, ch := range s.Channels {
		if strings.TrimSpace(ch.Label) == "" {
			return fmt.Errorf("%w: channels[%d]: label is required", ErrInvalidSession, i)
		}
		if prev, ok := seen[ch.Label]; ok {
			return fmt.Errorf("%w: channels[%d]: label %q already used by channels[%d]", ErrInvalidSession, i, ch.Label, prev)
		}
		seen[ch.Label] = i

		if ch.Bit < 0 || ch.Bit > digital.MaxBit {
			return fmt.Errorf("%w: channels[%d]: bit must be in [0, %d], got %d", ErrInvalidSession, i, digital.MaxBit, ch.Bit)
		}
		if ch.Baud < 0 {
			return fmt.Errorf("%w: channels[%d]: baud must be positive, got %d", ErrInvalidSession, i, ch.Baud)
		}
		if ch.DataBits < 0 || ch.DataBits > 8 {
			return fmt.Errorf("%w: channels[%d]: data_bits must be in [1, 8], got %d", ErrInvalidSession, i, ch.DataBits)
		}
	}
	return nil
}

// SetDefaultBaud fills channels that have no baud rate.
func (s *Session) SetDefaultBaud(baud int) {
	for i := range s.Channels {
		if s.Channels[i].Baud == 0 {
			s.Channels[i].Baud = baud
		}
	}
}

// Single builds a one-channel session, used when no session file is given.
func Single(label string, bit, baud int, invert bool) *Session {
	if label == "" {
		label = fmt.Sprintf("bit%d", bit)
	}
	return &Session{
		Name:     label,
		Channels: []Channel{{Label: label, Bit: bit, Baud: baud, Invert: invert}},
	}
}

func defaultName(s *Session, path string) {
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
}

// ExportWidth returns the session's bytes per export line, or fallback
// when it sets none.
func (s *Session) ExportWidth(fallback int) int {
	if s.BytesPerLine > 0 {
		return s.BytesPerLine
	}
	return fallback
}
