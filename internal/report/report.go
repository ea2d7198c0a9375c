// Package report derives the match result from the lifecycle state.
//
// The engine only decides when a match is over; who won and by how much is
// read off the completed innings here.
package report

import (
	"fmt"

	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/cricket"
)

// Outcome is the kind of result.
type Outcome string

const (
	OutcomeInProgress Outcome = "in_progress"
	OutcomeWon        Outcome = "won"
	OutcomeTied       Outcome = "tied"
	OutcomeNoResult   Outcome = "no_result"
)

// Margin is how far the winner finished ahead. Exactly one of Runs or
// Wickets is set.
type Margin struct {
	Runs           int `json:"runs,omitempty"`
	Wickets        int `json:"wickets,omitempty"`
	BallsRemaining int `json:"balls_remaining,omitempty"`
}

// InningsLine is the headline score of one innings.
type InningsLine struct {
	Team    cricket.TeamID `json:"team"`
	Runs    int            `json:"runs"`
	Wickets int            `json:"wickets"`
	Overs   string         `json:"overs"`
}

// String renders the line as "A 154/6 (20.0 ov)".
func (l InningsLine) String() string {
	return fmt.Sprintf("%s %d/%d (%s ov)", l.Team, l.Runs, l.Wickets, l.Overs)
}

// Result is the outcome of a match.
type Result struct {
	MatchID string         `json:"match_id"`
	Outcome Outcome        `json:"outcome"`
	Winner  cricket.TeamID `json:"winner,omitempty"`
	Margin  *Margin        `json:"margin,omitempty"`
	Summary string         `json:"summary"`
	Innings []InningsLine  `json:"innings"`
}

// Compute reads the result off a match in any phase.
func Compute(m *cricket.Match) Result {
	r := Result{
		MatchID: m.ID(),
		Innings: make([]InningsLine, 0, len(m.Innings)),
	}
	for _, inn := range m.Innings {
		r.Innings = append(r.Innings, InningsLine{
			Team:    inn.Batting,
			Runs:    inn.Runs,
			Wickets: inn.Wickets,
			Overs:   inn.OversBowled(),
		})
	}

	switch m.Phase {
	case cricket.PhaseAbandoned:
		r.Outcome = OutcomeNoResult
		r.Summary = "No result"
		if m.AbandonReason != "" {
			r.Summary += " (" + m.AbandonReason + ")"
		}
		return r
	case cricket.PhaseMatchComplete:
	default:
		r.Outcome = OutcomeInProgress
		r.Summary = inProgressSummary(m)
		return r
	}

	first, second := m.Innings[0], m.Innings[1]
	switch {
	case second.Runs >= second.Target:
		chasing, _ := m.Setup.Team(second.Batting)
		r.Outcome = OutcomeWon
		r.Winner = second.Batting
		r.Margin = &Margin{
			Wickets:        chasing.AllOutWickets() - wicketsBeforeWin(second),
			BallsRemaining: m.BallLimit() - second.LegalBalls,
		}
		r.Summary = fmt.Sprintf("%s won by %s", teamName(m, r.Winner), plural(r.Margin.Wickets, "wicket"))
		if r.Margin.BallsRemaining > 0 {
			r.Summary += fmt.Sprintf(" (%s remaining)", plural(r.Margin.BallsRemaining, "ball"))
		}
	case second.Runs == first.Runs:
		r.Outcome = OutcomeTied
		r.Summary = "Match tied"
	default:
		r.Outcome = OutcomeWon
		r.Winner = first.Batting
		r.Margin = &Margin{Runs: first.Runs - second.Runs}
		r.Summary = fmt.Sprintf("%s won by %s", teamName(m, r.Winner), plural(r.Margin.Runs, "run"))
	}
	return r
}

// wicketsBeforeWin counts the chase's wickets excluding one that fell on the
// winning ball: the match was decided once those runs were completed.
func wicketsBeforeWin(inn *cricket.Innings) int {
	balls := inn.Balls()
	if n := len(balls); n > 0 && balls[n-1].IsWicket() {
		return inn.Wickets - 1
	}
	return inn.Wickets
}

func inProgressSummary(m *cricket.Match) string {
	inn := m.CurrentInnings()
	if inn == nil {
		return "Match not started"
	}
	line := fmt.Sprintf("%s %d/%d (%s ov)", teamName(m, inn.Batting), inn.Runs, inn.Wickets, inn.OversBowled())
	if inn.Number == 2 && !inn.Complete {
		need := inn.Target - inn.Runs
		left := m.BallLimit() - inn.LegalBalls
		line += fmt.Sprintf(", need %s from %s", plural(need, "run"), plural(left, "ball"))
	}
	return line
}

func teamName(m *cricket.Match, id cricket.TeamID) string {
	if t, ok := m.Setup.Team(id); ok && t.Name != "" {
		return t.Name
	}
	return string(id)
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
