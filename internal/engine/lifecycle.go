package engine

import (
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/cricket"
)

// startMatch resolves the toss and opens the first innings.
func startMatch(m *cricket.Match) {
	batting := m.Setup.BattingFirst()
	m.Status = cricket.StatusInProgress
	m.Phase = cricket.PhaseInningsOneInProgress
	m.Innings = append(m.Innings, newInnings(1, batting, m.Setup.Opponent(batting)))
}

func newInnings(number int, batting, bowling cricket.TeamID) *cricket.Innings {
	return &cricket.Innings{
		Number:    number,
		Batting:   batting,
		Bowling:   bowling,
		Overs:     []*cricket.Over{},
		Dismissed: []cricket.PlayerID{},
	}
}

// inningsOver reports whether the current innings has ended: all out,
// overs exhausted, or target reached in the chase.
func inningsOver(m *cricket.Match) bool {
	inn := m.CurrentInnings()
	if inn.Wickets >= m.BattingTeam().AllOutWickets() {
		return true
	}
	if inn.LegalBalls >= m.BallLimit() {
		return true
	}
	return inn.Number == 2 && inn.Runs >= inn.Target
}

// advance runs lifecycle transitions after a ball and returns an emission
// for each one taken. The second innings can end as soon as it opens when
// penalty runs carried into it already reach the target.
func advance(m *cricket.Match) []EmissionKind {
	var kinds []EmissionKind
	for m.Phase.InProgress() && inningsOver(m) {
		m.CurrentInnings().Complete = true
		kinds = append(kinds, EmitInningsComplete)

		if m.InningsNumber() == 1 {
			m.Phase = cricket.PhaseInningsOneComplete
			openSecondInnings(m)
			continue
		}

		// InningsTwoComplete is transient: the match ends with the second innings.
		m.Phase = cricket.PhaseMatchComplete
		m.Status = cricket.StatusCompleted
		kinds = append(kinds, EmitMatchComplete)
	}
	return kinds
}

// openSecondInnings swaps roles and sets the target. Penalty runs awarded
// to the chasing side during the first innings are credited immediately.
func openSecondInnings(m *cricket.Match) {
	first := m.Innings[0]
	second := newInnings(2, first.Bowling, first.Batting)
	second.Target = first.Runs + 1
	if m.CarriedPenalty > 0 {
		second.AwardedPenalty = m.CarriedPenalty
		second.Runs = m.CarriedPenalty
	}
	m.Innings = append(m.Innings, second)
	m.Phase = cricket.PhaseInningsTwoInProgress
}

// abandonMatch ends the match without a result.
func abandonMatch(m *cricket.Match, reason string) {
	m.Phase = cricket.PhaseAbandoned
	m.Status = cricket.StatusAbandoned
	m.AbandonReason = reason
}
