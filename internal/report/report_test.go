package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/cricket"
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/testutil"
)

// finished builds a completed match from two innings scores. Team A bats
// first over 20 overs.
func finished(first, second cricket.Innings) *cricket.Match {
	m := cricket.NewMatch(testutil.Setup("m1", 20))
	first.Number, first.Batting, first.Bowling = 1, "A", "B"
	first.Complete = true
	second.Number, second.Batting, second.Bowling = 2, "B", "A"
	second.Target = first.Runs + 1
	second.Complete = true
	m.Innings = []*cricket.Innings{&first, &second}
	m.Status = cricket.StatusCompleted
	m.Phase = cricket.PhaseMatchComplete
	return m
}

func TestCompute_ChaseWon(t *testing.T) {
	m := finished(
		cricket.Innings{Runs: 150, Wickets: 7, LegalBalls: 120},
		cricket.Innings{Runs: 151, Wickets: 4, LegalBalls: 113},
	)

	r := Compute(m)
	assert.Equal(t, OutcomeWon, r.Outcome)
	assert.Equal(t, cricket.TeamID("B"), r.Winner)
	require.NotNil(t, r.Margin)
	assert.Equal(t, 6, r.Margin.Wickets)
	assert.Equal(t, 7, r.Margin.BallsRemaining)
	assert.Zero(t, r.Margin.Runs)
	assert.Equal(t, "Team B won by 6 wickets (7 balls remaining)", r.Summary)
}

func TestCompute_LastBallWin(t *testing.T) {
	m := finished(
		cricket.Innings{Runs: 99, Wickets: 10, LegalBalls: 100},
		cricket.Innings{Runs: 102, Wickets: 9, LegalBalls: 120},
	)

	r := Compute(m)
	assert.Equal(t, "Team B won by 1 wicket", r.Summary)
	assert.Zero(t, r.Margin.BallsRemaining)
}

func TestCompute_WicketOnWinningBall(t *testing.T) {
	m := finished(
		cricket.Innings{Runs: 0, Wickets: 10, LegalBalls: 12},
		cricket.Innings{
			Runs: 1, Wickets: 1, LegalBalls: 1,
			Overs: []*cricket.Over{{
				Bowler: "A1",
				Balls: []cricket.Ball{{
					Striker: "B1", NonStriker: "B2", Bowler: "A1", BatRuns: 1, Crossed: true,
					Wicket: &cricket.Wicket{Kind: cricket.DismissalRunOut, PlayerOut: "B2"},
				}},
				LegalBalls: 1,
			}},
		},
	)

	r := Compute(m)
	require.NotNil(t, r.Margin)
	assert.Equal(t, 10, r.Margin.Wickets)
	assert.Equal(t, "Team B won by 10 wickets (119 balls remaining)", r.Summary)
}

func TestCompute_WicketBeforeWinningBall(t *testing.T) {
	m := finished(
		cricket.Innings{Runs: 0, Wickets: 10, LegalBalls: 12},
		cricket.Innings{
			Runs: 1, Wickets: 1, LegalBalls: 2,
			Overs: []*cricket.Over{{
				Bowler: "A1",
				Balls: []cricket.Ball{
					{Striker: "B1", NonStriker: "B2", Bowler: "A1", Wicket: &cricket.Wicket{Kind: cricket.DismissalBowled, PlayerOut: "B1"}},
					{Striker: "B3", NonStriker: "B2", Bowler: "A1", BatRuns: 1},
				},
				LegalBalls: 2,
			}},
		},
	)

	r := Compute(m)
	assert.Equal(t, "Team B won by 9 wickets (118 balls remaining)", r.Summary)
}

func TestCompute_DefendedTotal(t *testing.T) {
	m := finished(
		cricket.Innings{Runs: 180, Wickets: 5, LegalBalls: 120},
		cricket.Innings{Runs: 179, Wickets: 10, LegalBalls: 118},
	)

	r := Compute(m)
	assert.Equal(t, OutcomeWon, r.Outcome)
	assert.Equal(t, cricket.TeamID("A"), r.Winner)
	assert.Equal(t, &Margin{Runs: 1}, r.Margin)
	assert.Equal(t, "Team A won by 1 run", r.Summary)
}

func TestCompute_Tie(t *testing.T) {
	m := finished(
		cricket.Innings{Runs: 140, Wickets: 8, LegalBalls: 120},
		cricket.Innings{Runs: 140, Wickets: 6, LegalBalls: 120},
	)

	r := Compute(m)
	assert.Equal(t, OutcomeTied, r.Outcome)
	assert.Empty(t, r.Winner)
	assert.Nil(t, r.Margin)
	assert.Equal(t, "Match tied", r.Summary)
}

func TestCompute_Abandoned(t *testing.T) {
	m := cricket.NewMatch(testutil.Setup("m1", 20))
	m.Phase = cricket.PhaseAbandoned
	m.Status = cricket.StatusAbandoned
	m.AbandonReason = "rain"

	r := Compute(m)
	assert.Equal(t, OutcomeNoResult, r.Outcome)
	assert.Equal(t, "No result (rain)", r.Summary)
	assert.Empty(t, r.Innings)
}

func TestCompute_InProgress(t *testing.T) {
	m := cricket.NewMatch(testutil.Setup("m1", 20))
	assert.Equal(t, "Match not started", Compute(m).Summary)

	m.Phase = cricket.PhaseInningsTwoInProgress
	m.Innings = []*cricket.Innings{
		{Number: 1, Batting: "A", Bowling: "B", Runs: 160, Wickets: 6, LegalBalls: 120, Complete: true},
		{Number: 2, Batting: "B", Bowling: "A", Runs: 100, Wickets: 3, LegalBalls: 75, Target: 161},
	}

	r := Compute(m)
	assert.Equal(t, OutcomeInProgress, r.Outcome)
	assert.Equal(t, "Team B 100/3 (12.3 ov), need 61 runs from 45 balls", r.Summary)
	require.Len(t, r.Innings, 2)
	assert.Equal(t, "A 160/6 (20.0 ov)", r.Innings[0].String())
}
