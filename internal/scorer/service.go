// Package scorer serves many matches concurrently.
//
// Each match is scored by one engine.Session. The Service serializes all
// operations on a match behind that match's mutex, journals every accepted
// event before acknowledging it, and hands emissions to the dispatcher.
// Operations on different matches proceed in parallel.
package scorer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/cricket"
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/engine"
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/report"
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/rules"
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/store"
)

var (
	// ErrMatchNotFound is returned for an unknown match id.
	ErrMatchNotFound = errors.New("match not found")

	// ErrMatchExists is returned when creating a match whose id is taken.
	ErrMatchExists = errors.New("match already exists")
)

// Journal is the durable log behind a Service. Implemented by *store.Store.
type Journal interface {
	CreateMatch(ctx context.Context, setup cricket.MatchSetup) error
	AppendEvent(ctx context.Context, matchID string, ev engine.Event) (string, error)
	DeleteLastEvent(ctx context.Context, matchID string) (int64, error)
	DeleteMatch(ctx context.Context, matchID string) error
	ListMatches(ctx context.Context) ([]store.MatchRecord, error)
	ReadEvents(ctx context.Context, matchID string) ([]store.StoredEvent, error)
}

// Service is the goroutine-safe front of the scoring engine.
//
// Thread-safety model:
//   - every method is safe from any goroutine
//   - operations on one match are serialized in arrival order
//   - the match table lock is never held while a match is being scored
type Service struct {
	journal    Journal
	policy     *rules.Policy
	ids        engine.IDGenerator
	dispatcher *engine.Dispatcher

	mu      sync.RWMutex
	matches map[string]*entry
	order   []string
}

type entry struct {
	mu   sync.Mutex
	sess *engine.Session
}

// Option configures a Service.
type Option func(*Service)

// WithJournal persists every accepted event. Without a journal the
// Service keeps matches in memory only.
func WithJournal(j Journal) Option {
	return func(s *Service) {
		s.journal = j
	}
}

// WithPolicy sets the rule table for every match. Default:
// rules.DefaultPolicy().
func WithPolicy(p *rules.Policy) Option {
	return func(s *Service) {
		s.policy = p
	}
}

// WithIDGenerator sets how ids are assigned to matches created without
// one. Default: engine.UUIDv7Generator.
func WithIDGenerator(g engine.IDGenerator) Option {
	return func(s *Service) {
		s.ids = g
	}
}

// WithDispatcher forwards every emission to d.
func WithDispatcher(d *engine.Dispatcher) Option {
	return func(s *Service) {
		s.dispatcher = d
	}
}

// New creates a Service.
func New(opts ...Option) *Service {
	s := &Service{
		policy:  rules.DefaultPolicy(),
		ids:     engine.UUIDv7Generator{},
		matches: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy returns the rule table matches are scored under.
func (s *Service) Policy() *rules.Policy {
	return s.policy
}

// CreateMatch registers a new match in the Setup phase. An empty setup id
// is filled from the id generator.
func (s *Service) CreateMatch(ctx context.Context, setup cricket.MatchSetup) (*engine.Snapshot, error) {
	if setup.ID == "" {
		setup.ID = s.ids.Generate()
	}
	sess, err := engine.NewSession(setup, s.policy)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.matches[setup.ID]; ok {
		return nil, fmt.Errorf("create match %q: %w", setup.ID, ErrMatchExists)
	}
	if s.journal != nil {
		if err := s.journal.CreateMatch(ctx, sess.Setup()); err != nil {
			if errors.Is(err, store.ErrMatchExists) {
				return nil, fmt.Errorf("create match %q: %w", setup.ID, ErrMatchExists)
			}
			return nil, fmt.Errorf("journal match %q: %w", setup.ID, err)
		}
	}
	s.register(sess)

	slog.Info("match created", "match_id", setup.ID, "overs", setup.OversLimit)
	return sess.Snapshot(), nil
}

// Start resolves the toss and opens the first innings.
func (s *Service) Start(ctx context.Context, matchID string) (*engine.Result, error) {
	return s.mutate(ctx, matchID, (*engine.Session).Start)
}

// SubmitBall validates and applies one delivery.
func (s *Service) SubmitBall(ctx context.Context, matchID string, d cricket.Delivery) (*engine.Result, error) {
	return s.mutate(ctx, matchID, func(sess *engine.Session) (*engine.Result, error) {
		return sess.SubmitBall(d)
	})
}

// SelectIncomingBatsman fills the vacant crease slot.
func (s *Service) SelectIncomingBatsman(ctx context.Context, matchID string, player cricket.PlayerID) (*engine.Result, error) {
	return s.mutate(ctx, matchID, func(sess *engine.Session) (*engine.Result, error) {
		return sess.SelectIncomingBatsman(player)
	})
}

// SwitchStrike swaps the batters.
func (s *Service) SwitchStrike(ctx context.Context, matchID string) (*engine.Result, error) {
	return s.mutate(ctx, matchID, (*engine.Session).SwitchStrike)
}

// Abandon ends the match without a result.
func (s *Service) Abandon(ctx context.Context, matchID, reason string) (*engine.Result, error) {
	return s.mutate(ctx, matchID, func(sess *engine.Session) (*engine.Result, error) {
		return sess.Abandon(reason)
	})
}

// Undo reverts the most recent event of a match.
//
// The journal is truncated first; if the engine then cannot rebuild its
// state the event is written back.
func (s *Service) Undo(ctx context.Context, matchID string) (*engine.Result, error) {
	e, err := s.lookup(matchID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	last, ok := e.sess.Last()
	if !ok {
		return e.sess.Undo()
	}

	if s.journal != nil {
		if _, err := s.journal.DeleteLastEvent(ctx, matchID); err != nil {
			return nil, fmt.Errorf("journal undo %q: %w", matchID, err)
		}
	}

	res, err := e.sess.Undo()
	if err != nil {
		if s.journal != nil {
			if _, jerr := s.journal.AppendEvent(ctx, matchID, last); jerr != nil {
				slog.Error("failed to restore journal after undo error",
					"match_id", matchID, "seq", last.Seq, "error", jerr)
			}
		}
		return nil, err
	}

	slog.Debug("event undone", "match_id", matchID, "seq", last.Seq, "kind", last.Kind)
	s.dispatch(res)
	return res, nil
}

// Delete discards a match and its journal. An operation already waiting
// on the match runs first.
func (s *Service) Delete(ctx context.Context, matchID string) error {
	e, err := s.lookup(matchID)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.matches[matchID] != e {
		return fmt.Errorf("match %q: %w", matchID, ErrMatchNotFound)
	}
	if s.journal != nil {
		if err := s.journal.DeleteMatch(ctx, matchID); err != nil && !errors.Is(err, store.ErrMatchNotFound) {
			return fmt.Errorf("journal delete %q: %w", matchID, err)
		}
	}
	delete(s.matches, matchID)
	s.order = slices.DeleteFunc(s.order, func(id string) bool { return id == matchID })

	slog.Info("match deleted", "match_id", matchID, "seq", e.sess.Snapshot().Seq)
	return nil
}

// Snapshot returns the current state of a match.
func (s *Service) Snapshot(matchID string) (*engine.Snapshot, error) {
	e, err := s.lookup(matchID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sess.Snapshot(), nil
}

// History returns the event log of a match.
func (s *Service) History(matchID string) ([]engine.Event, error) {
	e, err := s.lookup(matchID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sess.History(), nil
}

// Result reports the winner and margin, or progress for a live match.
func (s *Service) Result(matchID string) (report.Result, error) {
	snap, err := s.Snapshot(matchID)
	if err != nil {
		return report.Result{}, err
	}
	return report.Compute(snap.Match), nil
}

// Summary is one line of the match list.
type Summary struct {
	MatchID string         `json:"match_id"`
	Teams   [2]string      `json:"teams"`
	Status  cricket.Status `json:"status"`
	Phase   cricket.Phase  `json:"phase"`
	Seq     int64          `json:"seq"`
	Score   string         `json:"score"`
}

// List summarizes every match in creation order.
func (s *Service) List() []Summary {
	s.mu.RLock()
	ids := append([]string(nil), s.order...)
	s.mu.RUnlock()

	out := make([]Summary, 0, len(ids))
	for _, id := range ids {
		snap, err := s.Snapshot(id)
		if err != nil {
			continue
		}
		setup := snap.Match.Setup
		out = append(out, Summary{
			MatchID: id,
			Teams:   [2]string{string(setup.Teams[0].ID), string(setup.Teams[1].ID)},
			Status:  snap.Status,
			Phase:   snap.Phase,
			Seq:     snap.Seq,
			Score:   report.Compute(snap.Match).Summary,
		})
	}
	return out
}

// Restore loads every journaled match and replays it. Matches that fail to
// replay are logged and skipped; their errors are returned joined.
//
// Restore is meant to run once at startup, before any other call.
func (s *Service) Restore(ctx context.Context) (int, error) {
	if s.journal == nil {
		return 0, nil
	}
	records, err := s.journal.ListMatches(ctx)
	if err != nil {
		return 0, fmt.Errorf("restore: %w", err)
	}

	var errs []error
	restored := 0
	for _, rec := range records {
		stored, err := s.journal.ReadEvents(ctx, rec.ID)
		if err != nil {
			errs = append(errs, fmt.Errorf("restore %q: %w", rec.ID, err))
			continue
		}
		sess, err := engine.Replay(rec.Setup, s.policy, store.Events(stored))
		if err != nil {
			slog.Error("match replay failed", "match_id", rec.ID, "events", len(stored), "error", err)
			errs = append(errs, fmt.Errorf("restore %q: %w", rec.ID, err))
			continue
		}

		s.mu.Lock()
		if _, ok := s.matches[rec.ID]; !ok {
			s.register(sess)
			restored++
		}
		s.mu.Unlock()
		slog.Debug("match restored", "match_id", rec.ID, "events", len(stored))
	}

	slog.Info("restore complete", "matches", restored, "failed", len(errs))
	return restored, errors.Join(errs...)
}

// mutate runs one forward operation under the match lock and journals the
// event it recorded. If the journal write fails the operation is undone so
// memory never runs ahead of the log.
func (s *Service) mutate(ctx context.Context, matchID string, op func(*engine.Session) (*engine.Result, error)) (*engine.Result, error) {
	e, err := s.lookup(matchID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	res, err := op(e.sess)
	if err != nil {
		slog.Debug("operation rejected", "match_id", matchID, "reason", cricket.ReasonOf(err))
		return nil, err
	}

	ev, _ := e.sess.Last()
	if s.journal != nil {
		if _, err := s.journal.AppendEvent(ctx, matchID, ev); err != nil {
			if _, uerr := e.sess.Undo(); uerr != nil {
				slog.Error("failed to revert after journal error",
					"match_id", matchID, "seq", ev.Seq, "error", uerr)
			}
			return nil, fmt.Errorf("journal event %d of %q: %w", ev.Seq, matchID, err)
		}
	}

	slog.Debug("event recorded", "match_id", matchID, "seq", ev.Seq, "kind", ev.Kind)
	s.dispatch(res)
	return res, nil
}

func (s *Service) dispatch(res *engine.Result) {
	if s.dispatcher == nil {
		return
	}
	if !s.dispatcher.Enqueue(res.Emissions...) {
		slog.Warn("dispatcher stopped; emissions dropped", "count", len(res.Emissions))
	}
}

func (s *Service) lookup(matchID string) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.matches[matchID]
	if !ok {
		return nil, fmt.Errorf("match %q: %w", matchID, ErrMatchNotFound)
	}
	return e, nil
}

// register adds a session. Caller holds s.mu.
func (s *Service) register(sess *engine.Session) {
	s.matches[sess.MatchID()] = &entry{sess: sess}
	s.order = append(s.order, sess.MatchID())
}
