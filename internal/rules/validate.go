package rules

import (
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/cricket"
)

// Validate checks a proposed delivery against the current match state.
//
// On success it returns the normalized Ball ready for the processor: crease
// and bowler ids resolved, extras normalized, dead-ball and short-run
// accounting applied, over and ball numbers assigned. On failure it returns
// a *cricket.ScoringError and the match is untouched.
func Validate(m *cricket.Match, d cricket.Delivery, p *Policy) (cricket.Ball, error) {
	if err := checkInPlay(m); err != nil {
		return cricket.Ball{}, err
	}
	inn := m.CurrentInnings()
	batting := m.BattingTeam()
	bowling := m.BowlingTeam()

	if err := checkCrease(inn, batting, d); err != nil {
		return cricket.Ball{}, err
	}

	bowler, err := resolveBowler(inn, bowling, d.Bowler, p)
	if err != nil {
		return cricket.Ball{}, err
	}

	if err := checkRunValues(d, p); err != nil {
		return cricket.Ball{}, err
	}

	ball, err := normalize(d, p)
	if err != nil {
		return cricket.Ball{}, err
	}
	ball.Striker = inn.Striker
	ball.NonStriker = inn.NonStriker
	ball.Bowler = bowler

	if ball.Wicket != nil {
		w, err := checkWicket(inn, batting, bowling, ball, p)
		if err != nil {
			return cricket.Ball{}, err
		}
		ball.Wicket = w
		if !p.HonoursCrossing(w.Kind) {
			ball.Crossed = false
		}
	} else {
		ball.Crossed = false
	}

	if over := inn.CurrentOver(); over != nil {
		ball.Over = over.Number
		ball.Number = over.LegalBalls + 1
	} else {
		ball.Over = len(inn.Overs)
		ball.Number = 1
	}

	return ball, nil
}

// CheckBallAllowed reports whether any ball could be accepted right now,
// ignoring its content. Used to gate operations that precede a delivery.
func CheckBallAllowed(m *cricket.Match) error {
	if err := checkInPlay(m); err != nil {
		return err
	}
	if m.CurrentInnings().AwaitingBatter() {
		return cricket.RuleViolation(cricket.ReasonBatsmanRequired,
			"an incoming batsman must be selected before the next ball")
	}
	return nil
}

// CheckIncomingBatsman validates a batsman selection.
func CheckIncomingBatsman(m *cricket.Match, id cricket.PlayerID) error {
	if err := checkInPlay(m); err != nil {
		return err
	}
	inn := m.CurrentInnings()
	if !inn.AwaitingBatter() {
		return cricket.RuleViolation(cricket.ReasonNoVacancy,
			"both batsmen are already at the crease")
	}
	batting := m.BattingTeam()
	if !batting.Has(id) {
		return cricket.InvalidReference(cricket.ReasonUnknownPlayer, id,
			"player %q is not in batting team %q", id, batting.ID)
	}
	if inn.AtCrease(id) || inn.IsDismissed(id) {
		return cricket.RuleViolation(cricket.ReasonBatsmanUnavailable,
			"player %q has already batted or is at the crease", id)
	}
	return nil
}

// CheckSwitchStrike validates a manual strike swap.
func CheckSwitchStrike(m *cricket.Match) error {
	return CheckBallAllowed(m)
}

func checkInPlay(m *cricket.Match) error {
	if m.Phase.Terminal() {
		return cricket.RuleViolation(cricket.ReasonMatchTerminal,
			"match is %s", m.Phase)
	}
	if !m.Phase.InProgress() {
		return cricket.RuleViolation(cricket.ReasonMatchNotInProgress,
			"match is in phase %s", m.Phase)
	}
	inn := m.CurrentInnings()
	if inn == nil || inn.Complete {
		return cricket.RuleViolation(cricket.ReasonInningsComplete,
			"innings is already complete")
	}
	if inn.Wickets >= m.BattingTeam().AllOutWickets() {
		return cricket.RuleViolation(cricket.ReasonAllOut,
			"innings already has %d wickets", inn.Wickets)
	}
	return nil
}

func checkCrease(inn *cricket.Innings, batting cricket.Team, d cricket.Delivery) error {
	if inn.AwaitingBatter() {
		return cricket.RuleViolation(cricket.ReasonBatsmanRequired,
			"an incoming batsman must be selected before the next ball")
	}
	if d.Striker != "" {
		if !batting.Has(d.Striker) {
			return cricket.InvalidReference(cricket.ReasonUnknownPlayer, d.Striker,
				"striker %q is not in batting team %q", d.Striker, batting.ID)
		}
		if d.Striker != inn.Striker {
			return cricket.RuleViolation(cricket.ReasonStrikerMismatch,
				"%q is not on strike; %q is", d.Striker, inn.Striker)
		}
	}
	if d.NonStriker != "" {
		if !batting.Has(d.NonStriker) {
			return cricket.InvalidReference(cricket.ReasonUnknownPlayer, d.NonStriker,
				"non-striker %q is not in batting team %q", d.NonStriker, batting.ID)
		}
		if d.NonStriker != inn.NonStriker {
			return cricket.RuleViolation(cricket.ReasonStrikerMismatch,
				"%q is not the non-striker; %q is", d.NonStriker, inn.NonStriker)
		}
	}
	return nil
}

// resolveBowler applies the one-bowler-per-over and no-consecutive-overs
// rules. An empty id continues the open over.
func resolveBowler(inn *cricket.Innings, bowling cricket.Team, id cricket.PlayerID, p *Policy) (cricket.PlayerID, error) {
	over := inn.CurrentOver()
	if id == "" {
		if over == nil {
			return "", cricket.RuleViolation(cricket.ReasonBowlerRequired,
				"a bowler must be named for a new over")
		}
		return over.Bowler, nil
	}
	if !bowling.Has(id) {
		return "", cricket.InvalidReference(cricket.ReasonUnknownPlayer, id,
			"bowler %q is not in bowling team %q", id, bowling.ID)
	}
	if over != nil {
		if id != over.Bowler {
			return "", cricket.RuleViolation(cricket.ReasonBowlerChanged,
				"over %d is being bowled by %q", over.Number+1, over.Bowler)
		}
		return id, nil
	}
	if prev := inn.PreviousBowler(); prev != "" && prev == id {
		return "", cricket.RuleViolation(cricket.ReasonConsecutiveOver,
			"%q bowled the previous over", id)
	}
	if limit := p.Conditions.MaxOversPerBowler; limit > 0 && inn.BowlerOvers(id) >= limit {
		return "", cricket.RuleViolation(cricket.ReasonBowlerQuota,
			"%q has bowled the maximum of %d overs", id, limit)
	}
	return id, nil
}

func checkRunValues(d cricket.Delivery, p *Policy) error {
	limit := p.Conditions.MaxRunsPerBall
	values := []struct {
		name string
		n    int
	}{
		{"runs", d.BatRuns},
		{"byes", d.Extras.Byes},
		{"leg byes", d.Extras.LegByes},
		{"wides", d.Extras.Wides},
		{"no balls", d.Extras.NoBalls},
		{"penalty runs", d.PenaltyRuns},
	}
	for _, v := range values {
		if v.n < 0 {
			return cricket.RuleViolation(cricket.ReasonInvalidRuns,
				"%s must not be negative, got %d", v.name, v.n)
		}
	}
	if d.BatRuns > limit || d.Extras.Byes > limit || d.Extras.LegByes > limit {
		return cricket.RuleViolation(cricket.ReasonInvalidRuns,
			"at most %d runs can be scored from one delivery", limit)
	}
	if d.Extras.Wides > limit+cricket.WidePenalty {
		return cricket.RuleViolation(cricket.ReasonInvalidRuns,
			"wide runs %d exceed the per-ball limit", d.Extras.Wides)
	}
	return nil
}

func checkWicket(inn *cricket.Innings, batting, bowling cricket.Team, ball cricket.Ball, p *Policy) (*cricket.Wicket, error) {
	w := *ball.Wicket
	if !w.Kind.Valid() {
		return nil, cricket.RuleViolation(cricket.ReasonUnknownDismissal,
			"unknown dismissal kind %q", w.Kind)
	}
	if w.PlayerOut == "" {
		w.PlayerOut = inn.Striker
	}
	if !batting.Has(w.PlayerOut) {
		return nil, cricket.InvalidReference(cricket.ReasonUnknownPlayer, w.PlayerOut,
			"dismissed player %q is not in batting team %q", w.PlayerOut, batting.ID)
	}
	if !inn.AtCrease(w.PlayerOut) {
		return nil, cricket.RuleViolation(cricket.ReasonWrongBatsmanOut,
			"%q is not at the crease", w.PlayerOut)
	}
	if p.StrikerOnly(w.Kind) && w.PlayerOut != inn.Striker {
		return nil, cricket.RuleViolation(cricket.ReasonWrongBatsmanOut,
			"%s can only dismiss the striker", w.Kind)
	}
	if dec := p.Dismissal(w.Kind, ball.Context()); !dec.Allowed {
		return nil, cricket.RuleViolation(cricket.ReasonDismissalNotAllowed,
			"%s is not possible on a %s delivery (%s)", w.Kind, ball.Context(), dec.Reason)
	}
	if n := ball.RunsRun(); n > 0 && !p.RunsAllowed(w.Kind) {
		return nil, cricket.RuleViolation(cricket.ReasonDismissalNotAllowed,
			"no runs can be completed on a %s dismissal, got %d", w.Kind, n)
	}
	if w.Fielder != "" && !bowling.Has(w.Fielder) {
		return nil, cricket.InvalidReference(cricket.ReasonUnknownFielder, w.Fielder,
			"fielder %q is not in fielding team %q", w.Fielder, bowling.ID)
	}
	return &w, nil
}
