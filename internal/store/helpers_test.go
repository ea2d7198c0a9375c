package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/cricket"
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/engine"
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/testutil"
)

// createTestStore opens a fresh store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// pragma reads the current value of a SQLite pragma as text.
func pragma(t *testing.T, s *Store, name string) string {
	t.Helper()
	var value string
	require.NoError(t, s.db.QueryRow("PRAGMA "+name).Scan(&value))
	return value
}

// scoredSession plays a short opening passage and returns the session.
func scoredSession(t *testing.T, id string) *engine.Session {
	t.Helper()
	sess, err := engine.NewSession(testutil.Setup(id, 2), nil)
	require.NoError(t, err)

	_, err = sess.Start()
	require.NoError(t, err)
	for _, p := range []cricket.PlayerID{"A1", "A2"} {
		_, err = sess.SelectIncomingBatsman(p)
		require.NoError(t, err)
	}
	for _, d := range []cricket.Delivery{
		testutil.Runs("B1", 1),
		testutil.Wide("B1", 1),
		testutil.Runs("B1", 4),
		testutil.Out("B1", cricket.DismissalBowled),
	} {
		_, err = sess.SubmitBall(d)
		require.NoError(t, err)
	}
	_, err = sess.SelectIncomingBatsman("A3")
	require.NoError(t, err)
	return sess
}

// journal writes a session's setup and full history to the store.
func journal(t *testing.T, s *Store, sess *engine.Session) {
	t.Helper()
	ctx := t.Context()
	require.NoError(t, s.CreateMatch(ctx, sess.Setup()))
	for _, ev := range sess.History() {
		_, err := s.AppendEvent(ctx, sess.MatchID(), ev)
		require.NoError(t, err)
	}
}
