package engine

import (
	"encoding/json"

	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/cricket"
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/stats"
)

// Snapshot is the full state of a match at one point in its history: match
// state, scorecards and a summary of the innings in play. Snapshots share
// nothing with the session and are safe to hand to other goroutines.
type Snapshot struct {
	MatchID string          `json:"match_id"`
	Seq     int64           `json:"seq"`
	Status  cricket.Status  `json:"status"`
	Phase   cricket.Phase   `json:"phase"`
	Current *InningsSummary `json:"current,omitempty"`
	Match   *cricket.Match  `json:"match"`
	Cards   []*stats.Card   `json:"cards"`

	// Digest fingerprints Match; equal digests mean equal match state.
	Digest string `json:"digest"`
}

// InningsSummary is the at-a-glance view of the innings in play.
type InningsSummary struct {
	Number         int                `json:"number"`
	Batting        cricket.TeamID     `json:"batting"`
	Bowling        cricket.TeamID     `json:"bowling"`
	Runs           int                `json:"runs"`
	Wickets        int                `json:"wickets"`
	Overs          string             `json:"overs"`
	Target         int                `json:"target,omitempty"`
	Striker        cricket.PlayerID   `json:"striker,omitempty"`
	NonStriker     cricket.PlayerID   `json:"non_striker,omitempty"`
	Bowler         cricket.PlayerID   `json:"bowler,omitempty"`
	LastBowler     cricket.PlayerID   `json:"last_bowler,omitempty"`
	AwaitingBatter bool               `json:"awaiting_batter"`
	Complete       bool               `json:"complete"`
	Partnership    *stats.Partnership `json:"partnership,omitempty"`
}

// Snapshot captures the current state.
func (s *Session) Snapshot() *Snapshot {
	m := s.match.Clone()
	snap := &Snapshot{
		MatchID: s.MatchID(),
		Seq:     int64(len(s.log)),
		Status:  m.Status,
		Phase:   m.Phase,
		Match:   m,
		Cards:   cloneCards(s.cards),
	}
	if inn := m.CurrentInnings(); inn != nil {
		sum := &InningsSummary{
			Number:         inn.Number,
			Batting:        inn.Batting,
			Bowling:        inn.Bowling,
			Runs:           inn.Runs,
			Wickets:        inn.Wickets,
			Overs:          inn.OversBowled(),
			Target:         inn.Target,
			Striker:        inn.Striker,
			NonStriker:     inn.NonStriker,
			LastBowler:     inn.PreviousBowler(),
			AwaitingBatter: !inn.Complete && m.Phase.InProgress() && inn.AwaitingBatter(),
			Complete:       inn.Complete,
		}
		if over := inn.CurrentOver(); over != nil {
			sum.Bowler = over.Bowler
		}
		if card := snap.Card(inn.Number); card != nil {
			sum.Partnership = card.CurrentPartnership()
		}
		snap.Current = sum
	}
	// Match holds only strings, ints and bools, so the digest cannot fail.
	snap.Digest = cricket.MustStateDigest(m)
	return snap
}

// Card returns the scorecard for an innings number, or nil.
func (snap *Snapshot) Card(innings int) *stats.Card {
	if innings < 1 || innings > len(snap.Cards) {
		return nil
	}
	return snap.Cards[innings-1]
}

// cloneCards deep-copies scorecards through their JSON form.
func cloneCards(cards []*stats.Card) []*stats.Card {
	out := make([]*stats.Card, len(cards))
	for i, c := range cards {
		data, err := json.Marshal(c)
		if err != nil {
			panic(err)
		}
		var cp stats.Card
		if err := json.Unmarshal(data, &cp); err != nil {
			panic(err)
		}
		out[i] = &cp
	}
	return out
}
