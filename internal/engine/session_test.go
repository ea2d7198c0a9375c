package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/cricket"
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/testutil"
)

func TestNewSession_RejectsBadSetup(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*cricket.MatchSetup)
	}{
		{"no id", func(s *cricket.MatchSetup) { s.ID = "" }},
		{"zero overs", func(s *cricket.MatchSetup) { s.OversLimit = 0 }},
		{"same team twice", func(s *cricket.MatchSetup) { s.Teams[1].ID = s.Teams[0].ID }},
		{"tiny squad", func(s *cricket.MatchSetup) { s.Teams[1].Players = s.Teams[1].Players[:1] }},
		{"shared player", func(s *cricket.MatchSetup) { s.Teams[1].Players[0].ID = "A1" }},
		{"unknown toss winner", func(s *cricket.MatchSetup) { s.Toss.Winner = "Z" }},
		{"bad toss decision", func(s *cricket.MatchSetup) { s.Toss.Decision = "field" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setup := testutil.Setup("m1", 20)
			tt.mutate(&setup)
			_, err := NewSession(setup, nil)
			require.Error(t, err)
			assert.True(t, cricket.IsRuleViolation(err))
			assert.Equal(t, cricket.ReasonInvalidSetup, cricket.ReasonOf(err))
		})
	}
}

func TestSession_StartResolvesToss(t *testing.T) {
	setup := testutil.Setup("m1", 20)
	setup.Toss = cricket.Toss{Winner: "A", Decision: cricket.TossBowl}
	s, err := NewSession(setup, nil)
	require.NoError(t, err)

	res, err := s.Start()
	require.NoError(t, err)

	assert.Equal(t, []EmissionKind{EmitMatchStarted}, emissionKinds(res))
	assert.Equal(t, cricket.PhaseInningsOneInProgress, res.Snapshot.Phase)
	assert.Equal(t, cricket.StatusInProgress, res.Snapshot.Status)
	assert.Equal(t, cricket.TeamID("B"), res.Snapshot.Current.Batting)
	assert.Equal(t, cricket.TeamID("A"), res.Snapshot.Current.Bowling)
	assert.True(t, res.Snapshot.Current.AwaitingBatter)

	_, err = s.Start()
	assert.Equal(t, cricket.ReasonMatchAlreadyStarted, cricket.ReasonOf(err))
}

func TestSession_BallBeforeStart(t *testing.T) {
	s, err := NewSession(testutil.Setup("m1", 20), nil)
	require.NoError(t, err)

	_, err = s.SubmitBall(testutil.Dot("B1"))
	require.Error(t, err)
	assert.True(t, cricket.IsRuleViolation(err))
	assert.Equal(t, cricket.ReasonMatchNotInProgress, cricket.ReasonOf(err))
}

func TestSession_OpenersFillStrikerFirst(t *testing.T) {
	s := startedSession(t, 20)
	inn := currentInnings(s)

	assert.Equal(t, cricket.PlayerID("A1"), inn.Striker)
	assert.Equal(t, cricket.PlayerID("A2"), inn.NonStriker)

	_, err := s.SelectIncomingBatsman("A3")
	assert.Equal(t, cricket.ReasonNoVacancy, cricket.ReasonOf(err))
}

func TestSession_SelectIncomingBatsman_Errors(t *testing.T) {
	s, err := NewSession(testutil.Setup("m1", 20), nil)
	require.NoError(t, err)
	_, err = s.Start()
	require.NoError(t, err)

	_, err = s.SelectIncomingBatsman("B1")
	assert.True(t, cricket.IsInvalidReference(err), "fielding side cannot bat")

	_, err = s.SelectIncomingBatsman("Z9")
	assert.True(t, cricket.IsInvalidReference(err))

	_, err = s.SelectIncomingBatsman("A1")
	require.NoError(t, err)
	_, err = s.SelectIncomingBatsman("A1")
	assert.Equal(t, cricket.ReasonBatsmanUnavailable, cricket.ReasonOf(err))
}

// Six singles: strike flips six times (net none), then once more at the
// end of the over.
func TestScenario_SimpleOver(t *testing.T) {
	s := startedSession(t, 20)

	for i := 0; i < 6; i++ {
		submit(t, s, testutil.Runs("B1", 1))
	}

	inn := currentInnings(s)
	require.Len(t, inn.Overs, 1)
	over := inn.Overs[0]
	assert.True(t, over.Complete)
	assert.Equal(t, 6, over.LegalBalls)
	assert.Equal(t, 6, over.Runs)
	assert.False(t, over.Maiden)
	assert.Equal(t, 6, inn.Runs)
	assert.Equal(t, cricket.PlayerID("A2"), inn.Striker, "end-of-over swap moves strike off the opener")
	assert.Equal(t, cricket.PlayerID("A1"), inn.NonStriker)
	require.NoError(t, Verify(s))
}

func TestScenario_WideThenLegal(t *testing.T) {
	s := startedSession(t, 20)

	submit(t, s, testutil.Wide("B1", 1))
	res := submit(t, s, testutil.Dot(""))

	inn := currentInnings(s)
	over := inn.CurrentOver()
	require.NotNil(t, over)
	assert.Len(t, over.Balls, 2)
	assert.Equal(t, 1, over.LegalBalls)
	assert.Equal(t, 1, inn.Runs)
	assert.Equal(t, 1, over.Balls[0].Number, "wide repeats the ball number")
	assert.Equal(t, 1, over.Balls[1].Number)
	assert.Equal(t, "0.1", res.Snapshot.Current.Overs)
}

func TestScenario_WicketRequiresIncomingBatsman(t *testing.T) {
	s := startedSession(t, 20)

	submit(t, s, testutil.Dot("B1"))
	submit(t, s, testutil.Dot(""))
	res := submit(t, s, testutil.Out("", cricket.DismissalBowled))
	assert.True(t, res.Snapshot.Current.AwaitingBatter)
	assert.Equal(t, 1, res.Snapshot.Current.Wickets)

	before := s.Snapshot()
	_, err := s.SubmitBall(testutil.Dot(""))
	require.Error(t, err)
	assert.True(t, cricket.IsRuleViolation(err))
	assert.Equal(t, cricket.ReasonBatsmanRequired, cricket.ReasonOf(err))
	assert.Equal(t, before.Digest, s.Snapshot().Digest, "rejection must not mutate")

	_, err = s.SelectIncomingBatsman("A3")
	require.NoError(t, err)
	assert.Equal(t, cricket.PlayerID("A3"), currentInnings(s).Striker)

	submit(t, s, testutil.Dot(""))
	assert.Equal(t, 4, currentInnings(s).LegalBalls)
}

func TestScenario_UndoAfterOverCompletion(t *testing.T) {
	s := startedSession(t, 20)

	for i := 0; i < 5; i++ {
		submit(t, s, testutil.Dot("B1"))
	}
	afterFive := s.Snapshot()

	submit(t, s, testutil.Dot("B1"))
	_, err := s.SubmitBall(testutil.Dot("B1"))
	assert.Equal(t, cricket.ReasonConsecutiveOver, cricket.ReasonOf(err))

	res, err := s.Undo()
	require.NoError(t, err)
	assert.Equal(t, []EmissionKind{EmitStateReverted}, emissionKinds(res))

	assert.Equal(t, afterFive.Digest, res.Snapshot.Digest)
	assert.Equal(t, afterFive.Cards, res.Snapshot.Cards)
	assert.Equal(t, cricket.PlayerID("B1"), res.Snapshot.Current.Bowler, "B1 is bowling the open over again")

	// B1 may finish the over it started.
	submit(t, s, testutil.Dot("B1"))
	require.NoError(t, Verify(s))
}

func TestSession_ConsecutiveOverRejectedWithoutMutation(t *testing.T) {
	s := startedSession(t, 20)
	for i := 0; i < 6; i++ {
		submit(t, s, testutil.Dot("B1"))
	}
	before := s.Snapshot()

	_, err := s.SubmitBall(testutil.Dot("B1"))
	require.Error(t, err)
	assert.True(t, cricket.IsRuleViolation(err))

	var se *cricket.ScoringError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "m1", se.MatchID)

	assert.Equal(t, before, s.Snapshot())
	assert.Len(t, s.History(), len(before.Match.Innings[0].Balls())+3)
}

func TestSession_BowlerCannotChangeMidOver(t *testing.T) {
	s := startedSession(t, 20)
	submit(t, s, testutil.Dot("B1"))

	_, err := s.SubmitBall(testutil.Dot("B2"))
	assert.Equal(t, cricket.ReasonBowlerChanged, cricket.ReasonOf(err))

	_, err = s.SubmitBall(testutil.Dot("A5"))
	assert.True(t, cricket.IsInvalidReference(err))
}

func TestSession_NewOverNeedsBowler(t *testing.T) {
	s := startedSession(t, 20)
	_, err := s.SubmitBall(testutil.Dot(""))
	assert.Equal(t, cricket.ReasonBowlerRequired, cricket.ReasonOf(err))
}

func TestSession_SwitchStrike(t *testing.T) {
	s := startedSession(t, 20)

	res, err := s.SwitchStrike()
	require.NoError(t, err)
	assert.Equal(t, []EmissionKind{EmitStrikeSwitched}, emissionKinds(res))
	assert.Equal(t, cricket.PlayerID("A2"), res.Snapshot.Current.Striker)

	res, err = s.Undo()
	require.NoError(t, err)
	assert.Equal(t, cricket.PlayerID("A1"), res.Snapshot.Current.Striker)
}

func TestSession_UndoEmptyHistory(t *testing.T) {
	s, err := NewSession(testutil.Setup("m1", 20), nil)
	require.NoError(t, err)

	_, err = s.Undo()
	require.Error(t, err)
	assert.True(t, cricket.IsNoHistory(err))
}

func TestSession_UndoBackToSetup(t *testing.T) {
	s := startedSession(t, 20)
	for i := 0; i < 3; i++ {
		_, err := s.Undo()
		require.NoError(t, err)
	}

	snap := s.Snapshot()
	assert.Equal(t, cricket.PhaseSetup, snap.Phase)
	assert.Nil(t, snap.Current)
	assert.Empty(t, s.History())
}

func TestSession_AllOutOpensSecondInnings(t *testing.T) {
	s := startedSession(t, 20)

	bowlers := []cricket.PlayerID{"B1", "B2"}
	next := 3
	var last *Result
	for w := 0; w < 10; w++ {
		bowler := cricket.PlayerID("")
		if currentInnings(s).CurrentOver() == nil {
			bowler = bowlers[len(currentInnings(s).Overs)%2]
		}
		last = submit(t, s, testutil.Out(bowler, cricket.DismissalBowled))
		if w < 9 {
			_, err := s.SelectIncomingBatsman(cricket.PlayerID(fmt.Sprintf("A%d", next)))
			require.NoError(t, err)
			next++
		}
	}

	assert.Equal(t, []EmissionKind{EmitBallApplied, EmitInningsComplete}, emissionKinds(last))
	snap := last.Snapshot
	assert.Equal(t, cricket.PhaseInningsTwoInProgress, snap.Phase)
	assert.True(t, snap.Match.Innings[0].Complete)
	assert.Equal(t, 10, snap.Match.Innings[0].Wickets)
	assert.Equal(t, 2, snap.Current.Number)
	assert.Equal(t, cricket.TeamID("B"), snap.Current.Batting)
	assert.Equal(t, 1, snap.Current.Target)
	assert.Len(t, snap.Cards, 2)
	require.NoError(t, Verify(s))

	_, err := s.SelectIncomingBatsman("A11")
	assert.True(t, cricket.IsInvalidReference(err), "innings two is batted by B")
}

func TestSession_ChaseCompletesMatch(t *testing.T) {
	s := startedSession(t, 1)
	for i := 0; i < 6; i++ {
		bowler := cricket.PlayerID("")
		if i == 0 {
			bowler = "B1"
		}
		submit(t, s, testutil.Runs(bowler, 1))
	}
	require.Equal(t, cricket.PhaseInningsTwoInProgress, s.match.Phase)
	assert.Equal(t, 7, currentInnings(s).Target)

	_, err := s.SelectIncomingBatsman("B1")
	require.NoError(t, err)
	_, err = s.SelectIncomingBatsman("B2")
	require.NoError(t, err)

	submit(t, s, testutil.Runs("A1", 6))
	res := submit(t, s, testutil.Runs("", 1))

	assert.Equal(t, []EmissionKind{EmitBallApplied, EmitInningsComplete, EmitMatchComplete}, emissionKinds(res))
	assert.Equal(t, cricket.PhaseMatchComplete, res.Snapshot.Phase)
	assert.Equal(t, cricket.StatusCompleted, res.Snapshot.Status)

	_, err = s.SubmitBall(testutil.Dot(""))
	assert.Equal(t, cricket.ReasonMatchTerminal, cricket.ReasonOf(err))
	require.NoError(t, Verify(s))

	// Undo reopens the chase.
	res, err = s.Undo()
	require.NoError(t, err)
	assert.Equal(t, cricket.PhaseInningsTwoInProgress, res.Snapshot.Phase)
	assert.Equal(t, 6, res.Snapshot.Current.Runs)
}

func TestSession_OversExhaustedEndsInnings(t *testing.T) {
	s := startedSession(t, 2)
	for i := 0; i < 12; i++ {
		bowler := cricket.PlayerID("")
		switch i {
		case 0:
			bowler = "B1"
		case 6:
			bowler = "B2"
		}
		submit(t, s, testutil.Dot(bowler))
	}
	snap := s.Snapshot()
	assert.Equal(t, 2, snap.Current.Number)
	assert.Equal(t, "2.0", snap.Match.Innings[0].OversBowled())
	assert.True(t, snap.Match.Innings[0].Overs[0].Maiden)
}

func TestSession_Abandon(t *testing.T) {
	s := startedSession(t, 20)
	submit(t, s, testutil.Runs("B1", 4))

	res, err := s.Abandon("rain")
	require.NoError(t, err)
	assert.Equal(t, []EmissionKind{EmitMatchAbandoned}, emissionKinds(res))
	assert.Equal(t, cricket.PhaseAbandoned, res.Snapshot.Phase)
	assert.Equal(t, cricket.StatusAbandoned, res.Snapshot.Status)
	assert.Equal(t, "rain", res.Snapshot.Match.AbandonReason)

	_, err = s.Abandon("again")
	assert.Equal(t, cricket.ReasonMatchTerminal, cricket.ReasonOf(err))
	_, err = s.SubmitBall(testutil.Dot(""))
	assert.Equal(t, cricket.ReasonMatchTerminal, cricket.ReasonOf(err))

	res, err = s.Undo()
	require.NoError(t, err)
	assert.Equal(t, cricket.PhaseInningsOneInProgress, res.Snapshot.Phase)
}

func TestSession_BallAppliedCarriesCommentary(t *testing.T) {
	s := startedSession(t, 20)
	res := submit(t, s, testutil.Runs("B1", 4))

	require.Len(t, res.Emissions, 1)
	em := res.Emissions[0]
	assert.Equal(t, EmitBallApplied, em.Kind)
	assert.Equal(t, "m1", em.MatchID)
	assert.Equal(t, int64(4), em.Seq)
	assert.Equal(t, "0.1 B Player 1 to A Player 1, FOUR", em.Commentary)
}

func TestSession_InningsCompleteCarriesCommentary(t *testing.T) {
	s := startedSession(t, 1)
	for i := 0; i < 5; i++ {
		bowler := cricket.PlayerID("")
		if i == 0 {
			bowler = "B1"
		}
		submit(t, s, testutil.Dot(bowler))
	}
	res := submit(t, s, testutil.Dot(""))

	require.Equal(t, []EmissionKind{EmitBallApplied, EmitInningsComplete}, emissionKinds(res))
	want := "0.6 B Player 1 to A Player 1, no run, end of over"
	for _, em := range res.Emissions {
		assert.Equal(t, want, em.Commentary, "%s", em.Kind)
	}
}

func TestSession_MatchCompleteCarriesCommentary(t *testing.T) {
	s := startedSession(t, 1)
	submit(t, s, testutil.Runs("B1", 1))
	for i := 0; i < 5; i++ {
		submit(t, s, testutil.Dot(""))
	}
	_, err := s.SelectIncomingBatsman("B1")
	require.NoError(t, err)
	_, err = s.SelectIncomingBatsman("B2")
	require.NoError(t, err)

	res := submit(t, s, testutil.Runs("A1", 2))
	require.Equal(t, []EmissionKind{EmitBallApplied, EmitInningsComplete, EmitMatchComplete}, emissionKinds(res))
	for _, em := range res.Emissions {
		assert.Equal(t, "0.1 A Player 1 to B Player 1, 2 runs", em.Commentary, "%s", em.Kind)
	}
}

func TestSession_HistoryIsACopy(t *testing.T) {
	s := startedSession(t, 20)
	submit(t, s, testutil.Out("B1", cricket.DismissalBowled))

	h := s.History()
	require.Len(t, h, 4)
	assert.Equal(t, EventBall, h[3].Kind)
	h[3].Ball.Wicket.PlayerOut = "tampered"

	assert.Equal(t, cricket.PlayerID("A1"), s.History()[3].Ball.Wicket.PlayerOut)
}

func TestReplay_RebuildsIdenticalState(t *testing.T) {
	s := startedSession(t, 20)
	submit(t, s, testutil.Runs("B1", 1))
	submit(t, s, testutil.Wide("", 2))
	submit(t, s, testutil.NoBall("", 4))
	submit(t, s, testutil.Out("", cricket.DismissalLBW))

	r, err := Replay(s.Setup(), nil, s.History())
	require.NoError(t, err)
	assert.Equal(t, s.Snapshot(), r.Snapshot())
}

func TestReplay_RejectsCorruptLog(t *testing.T) {
	events := []Event{
		{Seq: 1, Kind: EventStart},
		{Seq: 2, Kind: EventBall, Ball: &cricket.Ball{Bowler: "B1"}},
	}
	_, err := Replay(testutil.Setup("m1", 20), nil, events)
	require.Error(t, err)
	assert.True(t, cricket.IsInternalInconsistency(err))
	assert.Equal(t, cricket.ReasonReplayFailed, cricket.ReasonOf(err))
}

func TestSession_Last(t *testing.T) {
	s, err := NewSession(testutil.Setup("m1", 20), nil)
	require.NoError(t, err)
	_, ok := s.Last()
	assert.False(t, ok)

	s = startedSession(t, 20)
	submit(t, s, testutil.Runs("B1", 2))

	last, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, int64(4), last.Seq)
	assert.Equal(t, EventBall, last.Kind)
	assert.Equal(t, 2, last.Ball.BatRuns)

	last.Ball.BatRuns = 6
	again, _ := s.Last()
	assert.Equal(t, 2, again.Ball.BatRuns)
}

func TestSession_CommentaryMarksEndOfOver(t *testing.T) {
	s := startedSession(t, 20)
	for i := 0; i < 5; i++ {
		submit(t, s, testutil.Dot("B1"))
	}
	res := submit(t, s, testutil.Dot(""))
	assert.Equal(t, "0.6 B Player 1 to A Player 1, no run, end of over", res.Emissions[0].Commentary)
}
