package engine

import (
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/cricket"
)

// ValidateSetup checks that a match can be scored: two distinct teams of at
// least two players, no player in both squads, a positive overs limit and
// a toss won by one of the teams.
func ValidateSetup(s cricket.MatchSetup) error {
	if s.ID == "" {
		return invalidSetup("match id is required")
	}
	if s.OversLimit < 1 {
		return invalidSetup("overs limit must be at least 1, got %d", s.OversLimit)
	}
	a, b := s.Teams[0], s.Teams[1]
	if a.ID == "" || b.ID == "" {
		return invalidSetup("both teams need an id")
	}
	if a.ID == b.ID {
		return invalidSetup("teams must differ, both are %q", a.ID)
	}

	seen := make(map[cricket.PlayerID]cricket.TeamID)
	for _, t := range s.Teams {
		if len(t.Players) < 2 {
			return invalidSetup("team %q needs at least two players", t.ID)
		}
		for _, p := range t.Players {
			if p.ID == "" {
				return invalidSetup("team %q has a player without an id", t.ID)
			}
			if other, dup := seen[p.ID]; dup {
				return invalidSetup("player %q appears in %q and %q", p.ID, other, t.ID)
			}
			seen[p.ID] = t.ID
		}
	}

	if s.Toss.Winner != a.ID && s.Toss.Winner != b.ID {
		return invalidSetup("toss winner %q is not playing", s.Toss.Winner)
	}
	if s.Toss.Decision != cricket.TossBat && s.Toss.Decision != cricket.TossBowl {
		return invalidSetup("toss decision must be %q or %q, got %q",
			cricket.TossBat, cricket.TossBowl, s.Toss.Decision)
	}
	return nil
}

func invalidSetup(format string, args ...any) error {
	return cricket.RuleViolation(cricket.ReasonInvalidSetup, format, args...)
}
