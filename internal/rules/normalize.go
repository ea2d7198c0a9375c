package rules

import (
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/cricket"
)

// normalize converts intent-level extras into the accounting form stored on
// a Ball.
//
// Rules applied, in order:
//   - a no-ball carries exactly the no-ball penalty; anything recorded as
//     wide runs on a no-ball becomes byes
//   - a wide carries the wide penalty plus every run taken off it
//   - byes and leg byes are exclusive, and neither mixes with bat runs
//   - a dead ball keeps its wide or no-ball penalty and penalty runs only
//   - a short run forfeits one run; a deliberate short run forfeits all of
//     them and awards the short-run penalty to the fielding side
func normalize(d cricket.Delivery, p *Policy) (cricket.Ball, error) {
	ex := d.Extras
	if err := checkRunSources(d.BatRuns, ex); err != nil {
		return cricket.Ball{}, err
	}

	ball := cricket.Ball{
		BatRuns:     d.BatRuns,
		Wicket:      d.Wicket,
		PenaltyRuns: d.PenaltyRuns,
		Crossed:     d.Crossed,
	}

	switch {
	case ex.NoBalls > 0:
		ran := ex.Byes
		if ex.Wides > cricket.WidePenalty {
			ran += ex.Wides - cricket.WidePenalty
		}
		ball.Extras = cricket.Extras{
			NoBalls: cricket.NoBallPenalty,
			Byes:    ran,
			LegByes: ex.LegByes,
		}
	case ex.Wides > 0:
		// Nothing can be hit off a wide; every run taken is a wide.
		wides := ex.Wides
		if wides < cricket.WidePenalty {
			wides = cricket.WidePenalty
		}
		ball.Extras = cricket.Extras{Wides: wides + d.BatRuns + ex.Byes + ex.LegByes}
		ball.BatRuns = 0
	default:
		ball.Extras = cricket.Extras{Byes: ex.Byes, LegByes: ex.LegByes}
	}
	// Wide runs on a no-ball were turned into byes above.
	if err := checkRunSources(ball.BatRuns, ball.Extras); err != nil {
		return cricket.Ball{}, err
	}

	if d.DeadBall {
		ball.DeadBall = true
		ball.BatRuns = 0
		ball.Wicket = nil
		ball.Crossed = false
		ball.Extras.Byes = 0
		ball.Extras.LegByes = 0
		if ball.Extras.Wides > 0 {
			ball.Extras.Wides = cricket.WidePenalty
		}
		return ball, nil
	}

	switch {
	case d.DeliberateShortRun:
		forfeitRuns(&ball, ball.RunsRun())
		ball.ShortRun = true
		ball.FieldingPenalty = p.Conditions.ShortRunPenalty
	case d.ShortRun:
		if ball.RunsRun() == 0 {
			return cricket.Ball{}, cricket.RuleViolation(cricket.ReasonInvalidRuns,
				"a short run needs at least one run to forfeit")
		}
		forfeitRuns(&ball, 1)
		ball.ShortRun = true
	}

	return ball, nil
}

func checkRunSources(bat int, ex cricket.Extras) error {
	if ex.Byes > 0 && ex.LegByes > 0 {
		return cricket.RuleViolation(cricket.ReasonConflictingExtras,
			"a delivery cannot yield both byes and leg byes")
	}
	if bat > 0 && (ex.Byes > 0 || ex.LegByes > 0) {
		return cricket.RuleViolation(cricket.ReasonConflictingExtras,
			"runs off the bat cannot be combined with byes or leg byes")
	}
	return nil
}

// forfeitRuns removes n runs that the batters ran, from whichever bucket
// holds them. Penalty extras are never forfeited.
func forfeitRuns(b *cricket.Ball, n int) {
	take := func(v *int, floor int) {
		for n > 0 && *v > floor {
			*v--
			n--
		}
	}
	take(&b.BatRuns, 0)
	take(&b.Extras.Byes, 0)
	take(&b.Extras.LegByes, 0)
	if b.Extras.Wides > 0 {
		take(&b.Extras.Wides, cricket.WidePenalty)
	}
}
