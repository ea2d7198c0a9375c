package rules

import (
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/cricket"
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/testutil"
)

// inPlay returns a match in the first innings with A1 on strike, A2 at the
// other end and no balls bowled.
func inPlay() *cricket.Match {
	m := cricket.NewMatch(testutil.Setup("m1", 5))
	m.Status = cricket.StatusInProgress
	m.Phase = cricket.PhaseInningsOneInProgress
	m.Innings = []*cricket.Innings{{
		Number:     1,
		Batting:    "A",
		Bowling:    "B",
		Overs:      []*cricket.Over{},
		Striker:    "A1",
		NonStriker: "A2",
		Dismissed:  []cricket.PlayerID{},
	}}
	return m
}

// withOpenOver appends an over in progress bowled by bowler with legal
// deliveries already bowled.
func withOpenOver(m *cricket.Match, bowler cricket.PlayerID, legal int) *cricket.Match {
	inn := m.CurrentInnings()
	inn.Overs = append(inn.Overs, &cricket.Over{
		Number:     len(inn.Overs),
		Bowler:     bowler,
		Balls:      make([]cricket.Ball, legal),
		LegalBalls: legal,
	})
	inn.LegalBalls += legal
	return m
}

// withCompleteOver appends a finished over.
func withCompleteOver(m *cricket.Match, bowler cricket.PlayerID) *cricket.Match {
	withOpenOver(m, bowler, cricket.BallsPerOver)
	m.CurrentInnings().LastOver().Complete = true
	return m
}
