package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/cricket"
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/engine"
)

// MatchRecord is a stored match without its journal.
type MatchRecord struct {
	ID         string
	Setup      cricket.MatchSetup
	CreatedSeq int64
	Events     int
}

// StoredEvent is a journaled event with its content-addressed id.
type StoredEvent struct {
	ID    string
	Event engine.Event
}

// ReadMatch returns the setup of one match.
// Returns ErrMatchNotFound if the id is unknown.
func (s *Store) ReadMatch(ctx context.Context, matchID string) (MatchRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT m.id, m.setup, m.created_seq,
		       (SELECT COUNT(*) FROM events e WHERE e.match_id = m.id)
		FROM matches m
		WHERE m.id = ?
	`, matchID)

	rec, err := scanMatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return MatchRecord{}, fmt.Errorf("read match %q: %w", matchID, ErrMatchNotFound)
	}
	if err != nil {
		return MatchRecord{}, fmt.Errorf("read match: %w", err)
	}
	return rec, nil
}

// ListMatches returns every match in creation order.
// Returns an empty slice (not nil) if the store is empty.
func (s *Store) ListMatches(ctx context.Context) ([]MatchRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.id, m.setup, m.created_seq,
		       (SELECT COUNT(*) FROM events e WHERE e.match_id = m.id)
		FROM matches m
		ORDER BY m.created_seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	matches := []MatchRecord{}
	for rows.Next() {
		rec, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matches: %w", err)
	}
	return matches, nil
}

// ReadEvents returns a match's journal in seq order.
// Returns an empty slice (not nil) if no events exist.
func (s *Store) ReadEvents(ctx context.Context, matchID string) ([]StoredEvent, error) {
	if err := matchExists(ctx, s.db, matchID); err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, match_id, seq, kind, payload
		FROM events
		WHERE match_id = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, matchID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []StoredEvent{}
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// GetLastSeq returns the highest event seq of a match, 0 if none.
func (s *Store) GetLastSeq(ctx context.Context, matchID string) (int64, error) {
	return lastSeq(ctx, s.db, matchID)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMatch(sc scanner) (MatchRecord, error) {
	var (
		rec       MatchRecord
		setupJSON string
	)
	if err := sc.Scan(&rec.ID, &setupJSON, &rec.CreatedSeq, &rec.Events); err != nil {
		return MatchRecord{}, err
	}
	setup, err := unmarshalSetup(setupJSON)
	if err != nil {
		return MatchRecord{}, fmt.Errorf("match %q: %w", rec.ID, err)
	}
	rec.Setup = setup
	return rec, nil
}

// scanEvent decodes one row and checks that its id still matches its
// content.
func scanEvent(sc scanner) (StoredEvent, error) {
	var (
		id, matchID, kind, payload string
		seq                        int64
	)
	if err := sc.Scan(&id, &matchID, &seq, &kind, &payload); err != nil {
		return StoredEvent{}, fmt.Errorf("scan event: %w", err)
	}
	if want := cricket.EventID(matchID, seq, []byte(payload)); want != id {
		return StoredEvent{}, fmt.Errorf("event %s (match %q, seq %d): content does not match id", id, matchID, seq)
	}
	ev, err := unmarshalEvent(payload)
	if err != nil {
		return StoredEvent{}, fmt.Errorf("event %s: %w", id, err)
	}
	if ev.Seq != seq || string(ev.Kind) != kind {
		return StoredEvent{}, fmt.Errorf("event %s: payload disagrees with row (seq %d/%d, kind %s/%s)",
			id, ev.Seq, seq, ev.Kind, kind)
	}
	return StoredEvent{ID: id, Event: ev}, nil
}
