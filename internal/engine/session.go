package engine

import (
	"errors"

	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/commentary"
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/cricket"
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/rules"
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/stats"
)

// Session owns the state of one match.
//
// Thread-safety: none. The caller must serialize all operations on a
// session; see scorer.Service.
type Session struct {
	setup  cricket.MatchSetup
	policy *rules.Policy
	match  *cricket.Match
	cards  []*stats.Card
	log    []Event
}

// NewSession validates the setup and returns a session in the Setup phase.
// A nil policy means rules.DefaultPolicy().
func NewSession(setup cricket.MatchSetup, policy *rules.Policy) (*Session, error) {
	if err := ValidateSetup(setup); err != nil {
		return nil, err
	}
	if policy == nil {
		policy = rules.DefaultPolicy()
	}
	s := &Session{
		setup:  setup.Clone(),
		policy: policy,
	}
	s.reset()
	return s, nil
}

// reset returns the session to an empty match with no history.
func (s *Session) reset() {
	s.match = cricket.NewMatch(s.setup.Clone())
	s.cards = []*stats.Card{}
	s.log = []Event{}
}

// MatchID returns the id of the match this session scores.
func (s *Session) MatchID() string {
	return s.setup.ID
}

// Setup returns a copy of the match setup.
func (s *Session) Setup() cricket.MatchSetup {
	return s.setup.Clone()
}

// Policy returns the rule table the session validates against.
func (s *Session) Policy() *rules.Policy {
	return s.policy
}

// Start resolves the toss and opens the first innings.
func (s *Session) Start() (*Result, error) {
	if s.match.Phase.Terminal() {
		return nil, s.tag(cricket.RuleViolation(cricket.ReasonMatchTerminal,
			"match is %s", s.match.Phase))
	}
	if s.match.Phase != cricket.PhaseSetup {
		return nil, s.tag(cricket.RuleViolation(cricket.ReasonMatchAlreadyStarted,
			"match is already in phase %s", s.match.Phase))
	}
	return s.commit(Event{Kind: EventStart}), nil
}

// SubmitBall validates a proposed delivery and applies it.
//
// A rejected delivery leaves the session untouched and returns a
// *cricket.ScoringError.
func (s *Session) SubmitBall(d cricket.Delivery) (*Result, error) {
	ball, err := rules.Validate(s.match, d, s.policy)
	if err != nil {
		return nil, s.tag(err)
	}
	return s.commit(Event{Kind: EventBall, Ball: &ball}), nil
}

// SelectIncomingBatsman fills the vacant crease slot. Required after every
// wicket and twice at the start of each innings.
func (s *Session) SelectIncomingBatsman(id cricket.PlayerID) (*Result, error) {
	if err := rules.CheckIncomingBatsman(s.match, id); err != nil {
		return nil, s.tag(err)
	}
	return s.commit(Event{Kind: EventSelectBatsman, Player: id}), nil
}

// SwitchStrike swaps striker and non-striker. This is a scorer correction
// and is recorded like any other event.
func (s *Session) SwitchStrike() (*Result, error) {
	if err := rules.CheckSwitchStrike(s.match); err != nil {
		return nil, s.tag(err)
	}
	return s.commit(Event{Kind: EventSwitchStrike}), nil
}

// Abandon ends the match without a result.
func (s *Session) Abandon(reason string) (*Result, error) {
	if s.match.Phase.Terminal() {
		return nil, s.tag(cricket.RuleViolation(cricket.ReasonMatchTerminal,
			"match is already %s", s.match.Phase))
	}
	return s.commit(Event{Kind: EventAbandon, Reason: reason}), nil
}

// Undo removes the most recent event and rebuilds state by replaying the
// remaining history from an empty match.
func (s *Session) Undo() (*Result, error) {
	if len(s.log) == 0 {
		return nil, s.tag(cricket.NoHistory())
	}
	remaining := s.log[:len(s.log)-1]
	if err := s.replay(remaining); err != nil {
		return nil, s.tag(err)
	}
	snap := s.Snapshot()
	return &Result{
		Snapshot: snap,
		Emissions: []Emission{{
			Kind:     EmitStateReverted,
			MatchID:  s.MatchID(),
			Seq:      snap.Seq,
			Innings:  s.match.InningsNumber(),
			Snapshot: snap,
		}},
	}, nil
}

// History returns a copy of the event log in order.
func (s *Session) History() []Event {
	out := make([]Event, len(s.log))
	for i, ev := range s.log {
		out[i] = ev.clone()
	}
	return out
}

// Last returns a copy of the most recent event.
func (s *Session) Last() (Event, bool) {
	if len(s.log) == 0 {
		return Event{}, false
	}
	return s.log[len(s.log)-1].clone(), true
}

// commit records an accepted event, applies it and packages the result.
// Commentary is rendered from the recorded ball so it sees EndsOver, and
// every emission a ball produces carries the same text.
func (s *Session) commit(ev Event) *Result {
	ev.Seq = int64(len(s.log) + 1)
	kinds := s.apply(&ev)
	s.log = append(s.log, ev.clone())

	var text string
	if ev.Ball != nil {
		text = commentary.Describe(s.match, *ev.Ball)
	}

	snap := s.Snapshot()
	res := &Result{Snapshot: snap, Emissions: make([]Emission, 0, len(kinds))}
	for _, k := range kinds {
		em := Emission{
			Kind:       k,
			MatchID:    s.MatchID(),
			Seq:        ev.Seq,
			Innings:    s.match.InningsNumber(),
			Snapshot:   snap,
			Commentary: text,
		}
		res.Emissions = append(res.Emissions, em)
	}
	return res
}

// tag attaches the match id to scoring errors.
func (s *Session) tag(err error) error {
	var se *cricket.ScoringError
	if errors.As(err, &se) && se.MatchID == "" {
		return se.WithMatch(s.MatchID())
	}
	return err
}

func (ev Event) clone() Event {
	if ev.Ball != nil {
		b := ev.Ball.Clone()
		ev.Ball = &b
	}
	return ev
}
