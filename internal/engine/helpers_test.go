package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/cricket"
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/testutil"
)

// startedSession returns a session in the first innings with A1 on strike
// and A2 at the non-striker's end.
func startedSession(t *testing.T, overs int) *Session {
	t.Helper()
	s, err := NewSession(testutil.Setup("m1", overs), nil)
	require.NoError(t, err)
	_, err = s.Start()
	require.NoError(t, err)
	_, err = s.SelectIncomingBatsman("A1")
	require.NoError(t, err)
	_, err = s.SelectIncomingBatsman("A2")
	require.NoError(t, err)
	return s
}

func submit(t *testing.T, s *Session, d cricket.Delivery) *Result {
	t.Helper()
	res, err := s.SubmitBall(d)
	require.NoError(t, err)
	return res
}

func currentInnings(s *Session) *cricket.Innings {
	return s.match.CurrentInnings()
}

func emissionKinds(res *Result) []EmissionKind {
	kinds := make([]EmissionKind, len(res.Emissions))
	for i, e := range res.Emissions {
		kinds[i] = e.Kind
	}
	return kinds
}
