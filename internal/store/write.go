package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/lostar/internal/capture"
	"github.com/roach88/lostar/internal/protocol"
	"github.com/roach88/lostar/internal/session"
	"github.com/roach88/lostar/internal/uart"
)

// WriteCapture stores a capture and its samples under a new UUIDv7 id.
// The capture gets the next logical seq.
func (s *Store) WriteCapture(ctx context.Context, name string, c *capture.Capture) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("write capture: generate id: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("write capture: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM captures`).Scan(&seq); err != nil {
		return "", fmt.Errorf("write capture: next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO captures (id, name, transition_count, buffer_size, seq)
		VALUES (?, ?, ?, ?, ?)
	`, id.String(), name, c.TransitionCount, c.BufferSize, seq)
	if err != nil {
		return "", fmt.Errorf("write capture: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO samples (capture_id, seq, time, state)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("write capture: prepare samples: %w", err)
	}
	defer stmt.Close()

	for i, tr := range c.Transitions {
		if _, err := stmt.ExecContext(ctx, id.String(), i, tr.Time, int64(tr.State)); err != nil {
			return "", fmt.Errorf("write capture: sample %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("write capture: commit: %w", err)
	}
	return id.String(), nil
}

// WriteProtocol stores the merged decode of a capture together with the
// session that produced it, replacing any previous decode.
func (s *Store) WriteProtocol(ctx context.Context, captureID string, sess *session.Session, entries []protocol.Entry[uart.Message]) error {
	sessionJSON, err := marshalSession(sess)
	if err != nil {
		return fmt.Errorf("write protocol: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write protocol: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM captures WHERE id = ?`, captureID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("write protocol: %w: %s", ErrNotFound, captureID)
	}
	if err != nil {
		return fmt.Errorf("write protocol: %w", err)
	}

	for _, table := range []string{"protocol_entries", "protocol_views"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE capture_id = ?`, captureID); err != nil {
			return fmt.Errorf("write protocol: clear %s: %w", table, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO protocol_views (capture_id, session) VALUES (?, ?)
	`, captureID, sessionJSON); err != nil {
		return fmt.Errorf("write protocol: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO protocol_entries (capture_id, seq, label, time_start, duration, payload)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("write protocol: prepare entries: %w", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		payload := e.Span.Payload.Bytes()
		if payload == nil {
			payload = []byte{}
		}
		if _, err := stmt.ExecContext(ctx, captureID, i, e.Label, e.Span.Start, e.Span.Duration, payload); err != nil {
			return fmt.Errorf("write protocol: entry %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write protocol: commit: %w", err)
	}
	return nil
}
