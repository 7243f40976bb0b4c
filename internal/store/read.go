package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/lostar/internal/capture"
	"github.com/roach88/lostar/internal/protocol"
	"github.com/roach88/lostar/internal/session"
	"github.com/roach88/lostar/internal/span"
	"github.com/roach88/lostar/internal/uart"
)

// CaptureInfo summarizes a stored capture.
type CaptureInfo struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	TransitionCount int    `json:"transition_count"`
	BufferSize      int    `json:"buffer_size"`
	Seq             int64  `json:"seq"`
	Samples         int    `json:"samples"`
	Entries         int    `json:"entries"`
}

// ListCaptures returns every stored capture in insertion order.
// Returns an empty slice (not nil) when the store is empty.
func (s *Store) ListCaptures(ctx context.Context) ([]CaptureInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.transition_count, c.buffer_size, c.seq,
			(SELECT COUNT(*) FROM samples WHERE capture_id = c.id),
			(SELECT COUNT(*) FROM protocol_entries WHERE capture_id = c.id)
		FROM captures c
		ORDER BY c.seq ASC, c.id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query captures: %w", err)
	}
	defer rows.Close()

	infos := []CaptureInfo{}
	for rows.Next() {
		var info CaptureInfo
		if err := rows.Scan(&info.ID, &info.Name, &info.TransitionCount, &info.BufferSize,
			&info.Seq, &info.Samples, &info.Entries); err != nil {
			return nil, fmt.Errorf("scan capture: %w", err)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate captures: %w", err)
	}
	return infos, nil
}

// ResolveCapture finds a capture by id, or by name when no id matches.
// A name shared by several captures resolves to the most recent one.
func (s *Store) ResolveCapture(ctx context.Context, ref string) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM captures
		WHERE id = ? OR name = ?
		ORDER BY (id = ?) DESC, seq DESC
		LIMIT 1
	`, ref, ref, ref).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	if err != nil {
		return "", fmt.Errorf("resolve capture: %w", err)
	}
	return id, nil
}

// ReadCapture loads a capture and its samples.
func (s *Store) ReadCapture(ctx context.Context, id string) (*capture.Capture, error) {
	c := &capture.Capture{}
	err := s.db.QueryRowContext(ctx, `
		SELECT transition_count, buffer_size FROM captures WHERE id = ?
	`, id).Scan(&c.TransitionCount, &c.BufferSize)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("read capture: %w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("read capture: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT time, state FROM samples
		WHERE capture_id = ?
		ORDER BY seq ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query samples: %w", err)
	}
	defer rows.Close()

	c.Transitions = make([]capture.Transition, 0, c.TransitionCount)
	for rows.Next() {
		var tr capture.Transition
		var state int64
		if err := rows.Scan(&tr.Time, &state); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		tr.State = uint32(state)
		c.Transitions = append(c.Transitions, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate samples: %w", err)
	}
	return c, nil
}

// ReadProtocol loads the stored decode of a capture and the session that
// produced it. Returns ErrNotFound when the capture was never decoded.
func (s *Store) ReadProtocol(ctx context.Context, captureID string) (*session.Session, []protocol.Entry[uart.Message], error) {
	var sessionJSON string
	err := s.db.QueryRowContext(ctx, `
		SELECT session FROM protocol_views WHERE capture_id = ?
	`, captureID).Scan(&sessionJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("read protocol: %w: %s", ErrNotFound, captureID)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read protocol: %w", err)
	}

	sess, err := unmarshalSession(sessionJSON)
	if err != nil {
		return nil, nil, err
	}

	entries, err := s.queryEntries(ctx, `
		SELECT label, time_start, duration, payload FROM protocol_entries
		WHERE capture_id = ?
		ORDER BY seq ASC
	`, captureID)
	if err != nil {
		return nil, nil, err
	}
	return sess, entries, nil
}

// ReadProtocolWindow returns the stored entries starting in [from, to].
func (s *Store) ReadProtocolWindow(ctx context.Context, captureID string, from, to float64) ([]protocol.Entry[uart.Message], error) {
	return s.queryEntries(ctx, `
		SELECT label, time_start, duration, payload FROM protocol_entries
		WHERE capture_id = ? AND time_start >= ? AND time_start <= ?
		ORDER BY seq ASC
	`, captureID, from, to)
}

func (s *Store) queryEntries(ctx context.Context, query string, args ...any) ([]protocol.Entry[uart.Message], error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query protocol entries: %w", err)
	}
	defer rows.Close()

	entries := []protocol.Entry[uart.Message]{}
	for rows.Next() {
		var e protocol.Entry[uart.Message]
		var payload []byte
		if err := rows.Scan(&e.Label, &e.Span.Start, &e.Span.Duration, &payload); err != nil {
			return nil, fmt.Errorf("scan protocol entry: %w", err)
		}
		e.Span.Payload = uart.Message(payload)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate protocol entries: %w", err)
	}
	return entries, nil
}

// ProtocolTimeline rebuilds a merged timeline from stored entries. Streams
// are registered in the session's channel order so ties merge the same way
// as the decode that produced them; labels unknown to the session follow in
// order of first appearance.
func ProtocolTimeline(sess *session.Session, entries []protocol.Entry[uart.Message]) (*protocol.Timeline[uart.Message], error) {
	streams := map[string]*span.Timeline[uart.Message]{}
	var labels []string
	stream := func(label string) *span.Timeline[uart.Message] {
		st, ok := streams[label]
		if !ok {
			st = span.NewTimeline[uart.Message]()
			streams[label] = st
			labels = append(labels, label)
		}
		return st
	}

	if sess != nil {
		for _, ch := range sess.Channels {
			stream(ch.Label)
		}
	}
	for _, e := range entries {
		if err := stream(e.Label).Append(e.Span); err != nil {
			return nil, fmt.Errorf("stream %q: %w", e.Label, err)
		}
	}

	tl := protocol.New[uart.Message]()
	for _, label := range labels {
		if err := tl.Add(label, streams[label]); err != nil {
			return nil, err
		}
	}
	if err := tl.Init(); err != nil {
		return nil, err
	}
	return tl, nil
}
