package store

import (
	"context"
	"fmt"

	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/engine"
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/rules"
)

// LoadSession rebuilds a match's scoring session by replaying its journal
// through the engine. The policy must be the one the match was scored
// under; a nil policy means rules.DefaultPolicy().
func (s *Store) LoadSession(ctx context.Context, matchID string, policy *rules.Policy) (*engine.Session, error) {
	rec, err := s.ReadMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	stored, err := s.ReadEvents(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	sess, err := engine.Replay(rec.Setup, policy, Events(stored))
	if err != nil {
		return nil, fmt.Errorf("load session %q: %w", matchID, err)
	}
	return sess, nil
}

// Events strips ids from stored events.
func Events(stored []StoredEvent) []engine.Event {
	out := make([]engine.Event, len(stored))
	for i, se := range stored {
		out[i] = se.Event
	}
	return out
}
