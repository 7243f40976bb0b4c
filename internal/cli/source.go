package cli

import (
	"context"
	"errors"
	"os"

	"github.com/roach88/lostar/internal/capture"
	"github.com/roach88/lostar/internal/protocol"
	"github.com/roach88/lostar/internal/session"
	"github.com/roach88/lostar/internal/store"
	"github.com/roach88/lostar/internal/uart"
)

// loadCapture reads ref as a capture file when it exists, otherwise
// resolves it as a stored capture id or name in db.
func loadCapture(ctx context.Context, f *OutputFormatter, ref, db string) (*capture.Capture, error) {
	if _, err := os.Stat(ref); err == nil {
		c, err := capture.LoadFile(ref)
		if err != nil {
			return nil, commandError(f, ErrCodeLoadFailed, "failed to load capture", err)
		}
		f.VerboseLog("Loaded %d transitions from %s", c.Len(), ref)
		return c, nil
	}

	if _, err := os.Stat(db); err != nil {
		return nil, commandError(f, ErrCodeNotFound, "capture not found: "+ref, err)
	}

	st, err := store.Open(db)
	if err != nil {
		return nil, commandError(f, ErrCodeStoreFailed, "failed to open database", err)
	}
	defer st.Close()

	id, err := st.ResolveCapture(ctx, ref)
	if errors.Is(err, store.ErrNotFound) {
		return nil, commandError(f, ErrCodeNotFound, "capture not found: "+ref, err)
	}
	if err != nil {
		return nil, commandError(f, ErrCodeStoreFailed, "failed to resolve capture", err)
	}

	c, err := st.ReadCapture(ctx, id)
	if err != nil {
		return nil, commandError(f, ErrCodeStoreFailed, "failed to read capture", err)
	}
	f.VerboseLog("Loaded %d transitions from %s (%s)", c.Len(), db, id)
	return c, nil
}

// channelFlags selects a single channel when no session file is given.
type channelFlags struct {
	Session string
	Label   string
	Bit     int
	Baud    int
	Invert  bool
}

// loadSession reads the session file, or builds a single-channel session
// from the flags. Channels without a baud rate get defaultBaud.
func loadSession(f *OutputFormatter, flags channelFlags, defaultBaud int) (*session.Session, error) {
	var s *session.Session
	if flags.Session != "" {
		var err error
		s, err = session.Load(flags.Session)
		if err != nil {
			return nil, commandError(f, ErrCodeLoadFailed, "failed to load session", err)
		}
	} else {
		s = session.Single(flags.Label, flags.Bit, flags.Baud, flags.Invert)
		if err := s.Validate(); err != nil {
			return nil, commandError(f, ErrCodeInvalidArgs, "invalid channel", err)
		}
	}
	s.SetDefaultBaud(defaultBaud)
	return s, nil
}

// storedView is a protocol view read back from the database.
type storedView struct {
	CaptureID string
	Session   *session.Session
	Protocol  *protocol.Timeline[uart.Message]
}

// loadStoredView returns the decoded view saved with "lostar import
// --session" for a stored capture. ok is false when ref is a file, is not a
// stored capture, or was stored without a decode; the caller then decodes
// the raw samples. A window with from < to keeps only entries starting in
// [from, to].
func loadStoredView(ctx context.Context, f *OutputFormatter, ref, db string, window *timeWindow) (*storedView, bool, error) {
	if _, err := os.Stat(ref); err == nil {
		return nil, false, nil
	}
	if _, err := os.Stat(db); err != nil {
		return nil, false, nil
	}

	st, err := store.Open(db)
	if err != nil {
		return nil, false, commandError(f, ErrCodeStoreFailed, "failed to open database", err)
	}
	defer st.Close()

	id, err := st.ResolveCapture(ctx, ref)
	if errors.Is(err, store.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, commandError(f, ErrCodeStoreFailed, "failed to resolve capture", err)
	}

	sess, entries, err := st.ReadProtocol(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		f.VerboseLog("No stored view for %s, decoding samples", id)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, commandError(f, ErrCodeStoreFailed, "failed to read protocol view", err)
	}
	if window != nil {
		entries, err = st.ReadProtocolWindow(ctx, id, window.From, window.To)
		if err != nil {
			return nil, false, commandError(f, ErrCodeStoreFailed, "failed to read protocol view", err)
		}
	}

	tl, err := store.ProtocolTimeline(sess, entries)
	if err != nil {
		return nil, false, commandError(f, ErrCodeStoreFailed, "failed to rebuild protocol view", err)
	}
	f.VerboseLog("Loaded stored view of %s (%d entries)", id, tl.Len())
	return &storedView{CaptureID: id, Session: sess, Protocol: tl}, true, nil
}
