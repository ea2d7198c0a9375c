package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/cricket"
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/engine"
)

// CreateMatch records a new match. Matches are numbered by created_seq in
// creation order.
//
// Returns ErrMatchExists if the id is already taken.
func (s *Store) CreateMatch(ctx context.Context, setup cricket.MatchSetup) error {
	setupJSON, err := marshalSetup(setup)
	if err != nil {
		return fmt.Errorf("create match: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create match: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var next int64
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(created_seq), 0) + 1 FROM matches`,
	).Scan(&next); err != nil {
		return fmt.Errorf("create match: next seq: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO matches (id, setup, created_seq)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, setup.ID, setupJSON, next)
	if err != nil {
		return fmt.Errorf("create match: insert: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("create match: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("create match %q: %w", setup.ID, ErrMatchExists)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("create match: commit: %w", err)
	}
	return nil
}

// AppendEvent journals one event at the end of a match's log.
//
// Writing the same event twice is a no-op: the event id is content
// addressed, so a retried append after a lost acknowledgement is safe.
// Any other event must carry the next seq; gaps and rewrites are errors.
//
// Returns the event id.
func (s *Store) AppendEvent(ctx context.Context, matchID string, ev engine.Event) (string, error) {
	payload, err := marshalEvent(ev)
	if err != nil {
		return "", fmt.Errorf("append event: %w", err)
	}
	id := cricket.EventID(matchID, ev.Seq, []byte(payload))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("append event: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if err := matchExists(ctx, tx, matchID); err != nil {
		return "", fmt.Errorf("append event: %w", err)
	}

	var existing int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM events WHERE id = ?`, id,
	).Scan(&existing); err != nil {
		return "", fmt.Errorf("append event: lookup: %w", err)
	}
	if existing > 0 {
		return id, nil
	}

	last, err := lastSeq(ctx, tx, matchID)
	if err != nil {
		return "", fmt.Errorf("append event: %w", err)
	}
	if ev.Seq != last+1 {
		return "", fmt.Errorf("append event: match %q expects seq %d, got %d", matchID, last+1, ev.Seq)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO events (id, match_id, seq, kind, payload)
		VALUES (?, ?, ?, ?, ?)
	`, id, matchID, ev.Seq, string(ev.Kind), payload); err != nil {
		return "", fmt.Errorf("append event: insert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("append event: commit: %w", err)
	}
	return id, nil
}

// DeleteLastEvent removes the most recent event of a match and returns its
// seq. Used to journal an undo.
//
// Returns ErrNoEvents if the journal is empty.
func (s *Store) DeleteLastEvent(ctx context.Context, matchID string) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("delete last event: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if err := matchExists(ctx, tx, matchID); err != nil {
		return 0, fmt.Errorf("delete last event: %w", err)
	}

	last, err := lastSeq(ctx, tx, matchID)
	if err != nil {
		return 0, fmt.Errorf("delete last event: %w", err)
	}
	if last == 0 {
		return 0, fmt.Errorf("delete last event: match %q: %w", matchID, ErrNoEvents)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM events WHERE match_id = ? AND seq = ?`, matchID, last,
	); err != nil {
		return 0, fmt.Errorf("delete last event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("delete last event: commit: %w", err)
	}
	return last, nil
}

// DeleteMatch removes a match and its journal.
func (s *Store) DeleteMatch(ctx context.Context, matchID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM matches WHERE id = ?`, matchID)
	if err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete match: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete match %q: %w", matchID, ErrMatchNotFound)
	}
	return nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func matchExists(ctx context.Context, q queryer, matchID string) error {
	var one int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM matches WHERE id = ?`, matchID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("match %q: %w", matchID, ErrMatchNotFound)
	}
	if err != nil {
		return fmt.Errorf("lookup match: %w", err)
	}
	return nil
}

func lastSeq(ctx context.Context, q queryer, matchID string) (int64, error) {
	var last int64
	if err := q.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), 0) FROM events WHERE match_id = ?`, matchID,
	).Scan(&last); err != nil {
		return 0, fmt.Errorf("last seq: %w", err)
	}
	return last, nil
}
