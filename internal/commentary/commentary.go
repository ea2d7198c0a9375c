// Package commentary renders a one-line description of each recorded ball.
//
// Describe never fails: a panic while rendering degrades to Fallback so
// that commentary can never block scoring.
package commentary

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/cricket"
)

// Fallback is returned when a description cannot be rendered.
const Fallback = "Ball recorded."

// Describe renders ball b in the context of match m. m may be the state
// after b was applied: only player names are read from it, and the ball
// itself carries the over, number and crease it was bowled to.
func Describe(m *cricket.Match, b cricket.Ball) (text string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("commentary failed", "panic", r)
			text = Fallback
		}
	}()
	return describe(m, b)
}

func describe(m *cricket.Match, b cricket.Ball) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d.%d %s to %s, ", b.Over, b.Number, m.PlayerName(b.Bowler), m.PlayerName(b.Striker))
	sb.WriteString(outcome(m, b))
	return sb.String()
}

func outcome(m *cricket.Match, b cricket.Ball) string {
	var parts []string

	switch {
	case b.DeadBall:
		parts = append(parts, "dead ball")
		if b.Extras.Wides > 0 {
			parts = append(parts, "wide")
		}
		if b.Extras.NoBalls > 0 {
			parts = append(parts, "no ball")
		}
	case b.Extras.Wides > 0:
		parts = append(parts, plural(b.Extras.Wides, "wide", "wides"))
	case b.Extras.NoBalls > 0:
		nb := "no ball"
		if b.BatRuns > 0 {
			nb += ", " + batRuns(b.BatRuns)
		}
		if b.Extras.Byes > 0 {
			nb += ", " + plural(b.Extras.Byes, "bye", "byes")
		}
		if b.Extras.LegByes > 0 {
			nb += ", " + plural(b.Extras.LegByes, "leg bye", "leg byes")
		}
		parts = append(parts, nb)
	case b.Extras.Byes > 0:
		parts = append(parts, plural(b.Extras.Byes, "bye", "byes"))
	case b.Extras.LegByes > 0:
		parts = append(parts, plural(b.Extras.LegByes, "leg bye", "leg byes"))
	case b.BatRuns > 0:
		parts = append(parts, batRuns(b.BatRuns))
	case b.Wicket == nil:
		parts = append(parts, "no run")
	}

	if b.ShortRun {
		parts = append(parts, "one short")
	}
	if b.FieldingPenalty > 0 {
		parts = append(parts, fmt.Sprintf("%d penalty runs to the fielding side", b.FieldingPenalty))
	}
	if b.PenaltyRuns > 0 {
		parts = append(parts, fmt.Sprintf("%d penalty runs", b.PenaltyRuns))
	}
	if w := b.Wicket; w != nil {
		parts = append(parts, "OUT! "+dismissal(m, b, w))
	}
	if b.EndsOver {
		parts = append(parts, "end of over")
	}
	return strings.Join(parts, ", ")
}

func batRuns(n int) string {
	switch n {
	case 4:
		return "FOUR"
	case 6:
		return "SIX"
	}
	return plural(n, "run", "runs")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}

func dismissal(m *cricket.Match, b cricket.Ball, w *cricket.Wicket) string {
	out := m.PlayerName(w.PlayerOut)
	bowler := m.PlayerName(b.Bowler)
	fielder := m.PlayerName(w.Fielder)
	switch w.Kind {
	case cricket.DismissalBowled:
		return fmt.Sprintf("%s b %s", out, bowler)
	case cricket.DismissalCaught:
		if w.Fielder == "" || w.Fielder == b.Bowler {
			return fmt.Sprintf("%s c & b %s", out, bowler)
		}
		return fmt.Sprintf("%s c %s b %s", out, fielder, bowler)
	case cricket.DismissalLBW:
		return fmt.Sprintf("%s lbw b %s", out, bowler)
	case cricket.DismissalStumped:
		if w.Fielder == "" {
			return fmt.Sprintf("%s st b %s", out, bowler)
		}
		return fmt.Sprintf("%s st %s b %s", out, fielder, bowler)
	case cricket.DismissalHitWicket:
		return fmt.Sprintf("%s hit wicket b %s", out, bowler)
	case cricket.DismissalRunOut:
		if w.Fielder == "" {
			return fmt.Sprintf("%s run out", out)
		}
		return fmt.Sprintf("%s run out (%s)", out, fielder)
	case cricket.DismissalHitBallTwice:
		return fmt.Sprintf("%s hit the ball twice", out)
	case cricket.DismissalObstructingField:
		return fmt.Sprintf("%s obstructing the field", out)
	}
	return fmt.Sprintf("%s %s", out, w.Kind)
}
