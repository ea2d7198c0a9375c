package engine

import (
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/cricket"
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/rules"
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/stats"
)

// apply mutates match state and statistics for one event. It is the single
// code path for live operations, undo and restore. ev.Ball is replaced by
// the recorded copy so the log keeps derived flags such as EndsOver.
func (s *Session) apply(ev *Event) []EmissionKind {
	m := s.match
	switch ev.Kind {
	case EventStart:
		startMatch(m)
		s.ensureCard()
		return []EmissionKind{EmitMatchStarted}

	case EventBall:
		card := s.cards[m.InningsNumber()-1]
		recorded := applyBall(m, *ev.Ball)
		ev.Ball = &recorded
		stats.Update(card, recorded, s.policy)
		kinds := append([]EmissionKind{EmitBallApplied}, advance(m)...)
		s.ensureCard()
		return kinds

	case EventSelectBatsman:
		selectBatsman(m.CurrentInnings(), ev.Player)
		return []EmissionKind{EmitBatsmanSelected}

	case EventSwitchStrike:
		swapStrike(m.CurrentInnings())
		return []EmissionKind{EmitStrikeSwitched}

	case EventAbandon:
		abandonMatch(m, ev.Reason)
		return []EmissionKind{EmitMatchAbandoned}
	}
	return nil
}

// ensureCard opens a scorecard for every innings that has started.
func (s *Session) ensureCard() {
	for len(s.cards) < s.match.InningsNumber() {
		s.cards = append(s.cards, stats.NewCard(len(s.cards)+1))
	}
}

// replayable checks that an event from a stored log can be applied to the
// current state. Live events are validated before they are recorded; this
// guards against logs written by something else.
func (s *Session) replayable(ev Event) error {
	m := s.match
	switch ev.Kind {
	case EventStart:
		if m.Phase != cricket.PhaseSetup {
			return cricket.RuleViolation(cricket.ReasonMatchAlreadyStarted, "match already started")
		}
		return nil
	case EventBall:
		if ev.Ball == nil {
			return cricket.RuleViolation(cricket.ReasonInvalidRuns, "ball event without a ball")
		}
		return rules.CheckBallAllowed(m)
	case EventSelectBatsman:
		return rules.CheckIncomingBatsman(m, ev.Player)
	case EventSwitchStrike:
		return rules.CheckSwitchStrike(m)
	case EventAbandon:
		if m.Phase.Terminal() {
			return cricket.RuleViolation(cricket.ReasonMatchTerminal, "match already ended")
		}
		return nil
	}
	return cricket.RuleViolation(cricket.ReasonReplayFailed, "unknown event kind %q", ev.Kind)
}

// replay rebuilds the session from an empty match by applying events in
// order. On failure the previous state is kept.
func (s *Session) replay(events []Event) error {
	prevMatch, prevCards, prevLog := s.match, s.cards, s.log
	s.reset()
	for i, ev := range events {
		ev = ev.clone()
		if err := s.replayable(ev); err != nil {
			s.match, s.cards, s.log = prevMatch, prevCards, prevLog
			return cricket.InternalInconsistency(cricket.ReasonReplayFailed,
				"event %d (%s) cannot be replayed: %v", i+1, ev.Kind, err)
		}
		ev.Seq = int64(len(s.log) + 1)
		s.apply(&ev)
		s.log = append(s.log, ev.clone())
	}
	return nil
}

// Replay builds a session by replaying a stored event log.
func Replay(setup cricket.MatchSetup, policy *rules.Policy, events []Event) (*Session, error) {
	s, err := NewSession(setup, policy)
	if err != nil {
		return nil, err
	}
	if err := s.replay(events); err != nil {
		return nil, s.tag(err)
	}
	return s, nil
}
