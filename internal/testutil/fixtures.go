// Package testutil provides fixtures shared by tests across packages.
package testutil

import (
	"fmt"

	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/cricket"
)

// Team builds a squad of n players with ids "<prefix>1".."<prefix>n".
func Team(id cricket.TeamID, prefix string, n int) cricket.Team {
	t := cricket.Team{ID: id, Name: "Team " + string(id), Players: make([]cricket.Player, n)}
	for i := range t.Players {
		t.Players[i] = cricket.Player{
			ID:   cricket.PlayerID(fmt.Sprintf("%s%d", prefix, i+1)),
			Name: fmt.Sprintf("%s Player %d", prefix, i+1),
		}
	}
	return t
}

// Setup returns a match between team "A" (A1..A11) and team "B" (B1..B11).
// A wins the toss and bats.
func Setup(id string, overs int) cricket.MatchSetup {
	return cricket.MatchSetup{
		ID:         id,
		Teams:      [2]cricket.Team{Team("A", "A", 11), Team("B", "B", 11)},
		OversLimit: overs,
		Toss:       cricket.Toss{Winner: "A", Decision: cricket.TossBat},
	}
}

// Runs is a legal delivery with runs off the bat.
func Runs(bowler cricket.PlayerID, n int) cricket.Delivery {
	return cricket.Delivery{Bowler: bowler, BatRuns: n}
}

// Dot is a legal delivery with no runs.
func Dot(bowler cricket.PlayerID) cricket.Delivery {
	return Runs(bowler, 0)
}

// Byes is a legal delivery with byes.
func Byes(bowler cricket.PlayerID, n int) cricket.Delivery {
	return cricket.Delivery{Bowler: bowler, Extras: cricket.Extras{Byes: n}}
}

// Wide is a wide with n runs in total (penalty included).
func Wide(bowler cricket.PlayerID, n int) cricket.Delivery {
	return cricket.Delivery{Bowler: bowler, Extras: cricket.Extras{Wides: n}}
}

// NoBall is a no-ball with runs off the bat.
func NoBall(bowler cricket.PlayerID, batRuns int) cricket.Delivery {
	return cricket.Delivery{Bowler: bowler, BatRuns: batRuns, Extras: cricket.Extras{NoBalls: 1}}
}

// Out is a legal delivery on which the striker is dismissed.
func Out(bowler cricket.PlayerID, kind cricket.DismissalKind) cricket.Delivery {
	return cricket.Delivery{Bowler: bowler, Wicket: &cricket.Wicket{Kind: kind}}
}
