package engine

import (
	"reflect"

	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/cricket"
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/stats"
)

// Verify recomputes everything derivable and compares it with the live
// session: run conservation and over legality per innings, scorecards
// rebuilt from the ball stream, and a full replay of the event log.
// Any difference is an INTERNAL_INCONSISTENCY error.
func Verify(s *Session) error {
	m := s.match
	if len(s.cards) != len(m.Innings) {
		return s.tag(cricket.InternalInconsistency(cricket.ReasonStatsDiverged,
			"%d scorecards for %d innings", len(s.cards), len(m.Innings)))
	}
	for i, inn := range m.Innings {
		if err := verifyInnings(inn); err != nil {
			return s.tag(err)
		}
		rebuilt := stats.Rebuild(inn, s.policy)
		if !reflect.DeepEqual(rebuilt, s.cards[i]) {
			return s.tag(cricket.InternalInconsistency(cricket.ReasonStatsDiverged,
				"innings %d scorecard differs from replayed balls", inn.Number))
		}
		if rebuilt.Runs+inn.AwardedPenalty != inn.Runs {
			return s.tag(cricket.InternalInconsistency(cricket.ReasonStatsDiverged,
				"innings %d scorecard has %d runs, innings has %d", inn.Number, rebuilt.Runs, inn.Runs))
		}
	}

	replayed, err := Replay(s.setup, s.policy, s.log)
	if err != nil {
		return err
	}
	want := cricket.MustStateDigest(m)
	if got := cricket.MustStateDigest(replayed.match); got != want {
		return s.tag(cricket.InternalInconsistency(cricket.ReasonReplayFailed,
			"replayed state digest %s differs from live %s", got[:12], want[:12]))
	}
	return nil
}

func verifyInnings(inn *cricket.Innings) error {
	if got := inn.Recount(); got != inn.Runs {
		return cricket.InternalInconsistency(cricket.ReasonRunsNotConserved,
			"innings %d total %d but balls sum to %d", inn.Number, inn.Runs, got)
	}
	if inn.Wickets > cricket.MaxWickets {
		return cricket.InternalInconsistency(cricket.ReasonStatsDiverged,
			"innings %d has %d wickets", inn.Number, inn.Wickets)
	}
	legal := 0
	for _, o := range inn.Overs {
		if o.LegalBalls > cricket.BallsPerOver || (o.Complete && o.LegalBalls != cricket.BallsPerOver) {
			return cricket.InternalInconsistency(cricket.ReasonStatsDiverged,
				"innings %d over %d has %d legal balls", inn.Number, o.Number+1, o.LegalBalls)
		}
		legal += o.LegalBalls
	}
	if legal != inn.LegalBalls {
		return cricket.InternalInconsistency(cricket.ReasonStatsDiverged,
			"innings %d counts %d legal balls, overs hold %d", inn.Number, inn.LegalBalls, legal)
	}
	return nil
}
