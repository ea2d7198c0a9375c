package engine

import (
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/cricket"
)

// applyBall records a validated ball in the current innings and updates
// totals, strike and the over. Lifecycle transitions are handled by the
// caller. The returned Ball is the recorded copy, with EndsOver set.
func applyBall(m *cricket.Match, b cricket.Ball) cricket.Ball {
	inn := m.CurrentInnings()

	over := inn.CurrentOver()
	if over == nil {
		over = &cricket.Over{
			Number: len(inn.Overs),
			Bowler: b.Bowler,
			Balls:  []cricket.Ball{},
		}
		inn.Overs = append(inn.Overs, over)
	}

	if b.Legal() {
		over.LegalBalls++
		inn.LegalBalls++
		b.EndsOver = over.LegalBalls == cricket.BallsPerOver
	}

	inn.Runs += b.TotalRuns()
	inn.Extras = inn.Extras.Add(b.Extras)
	inn.Penalty += b.PenaltyRuns
	over.Runs += b.TotalRuns()
	over.Conceded += b.Conceded()

	if b.RunsRun()%2 == 1 {
		swapStrike(inn)
	}

	if w := b.Wicket; w != nil {
		inn.Wickets++
		inn.Dismissed = append(inn.Dismissed, w.PlayerOut)
		if b.Crossed {
			swapStrike(inn)
		}
		switch w.PlayerOut {
		case inn.Striker:
			inn.Striker = ""
		case inn.NonStriker:
			inn.NonStriker = ""
		}
	}

	if b.FieldingPenalty > 0 {
		awardFieldingPenalty(m, b.FieldingPenalty)
	}

	if b.EndsOver {
		over.Complete = true
		over.Maiden = over.Conceded == 0
		swapStrike(inn)
	}

	over.Balls = append(over.Balls, b.Clone())
	return b.Clone()
}

// awardFieldingPenalty credits penalty runs to the side currently in the
// field. In the first innings they are held until that side bats; during
// the chase they go on the first innings total and raise the target.
func awardFieldingPenalty(m *cricket.Match, runs int) {
	if m.InningsNumber() == 1 {
		m.CarriedPenalty += runs
		return
	}
	first := m.Innings[0]
	first.AwardedPenalty += runs
	first.Runs += runs
	m.CurrentInnings().Target += runs
}

func swapStrike(inn *cricket.Innings) {
	inn.Striker, inn.NonStriker = inn.NonStriker, inn.Striker
}

// selectBatsman fills the empty crease slot. With both empty the striker
// is filled first.
func selectBatsman(inn *cricket.Innings, id cricket.PlayerID) {
	if inn.Striker == "" {
		inn.Striker = id
		return
	}
	inn.NonStriker = id
}
