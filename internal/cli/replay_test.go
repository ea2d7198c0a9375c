package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/engine"
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/store"
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/testutil"
)

func TestReplayCommand_RequiresDB(t *testing.T) {
	_, err := execute(t, "replay")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "db" not set`)
}

func TestReplayCommand_MissingDB(t *testing.T) {
	_, err := execute(t, "replay", "--db", filepath.Join(t.TempDir(), "none.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "database not found")
}

func TestReplayCommand_EmptyDB(t *testing.T) {
	db := filepath.Join(t.TempDir(), "scorer.db")
	st, err := store.Open(db)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	out, err := execute(t, "replay", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No matches found in database.")

	_, err = execute(t, "replay", "--db", db, "--match", "ghost")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestReplayCommand_CorruptJournal(t *testing.T) {
	db := filepath.Join(t.TempDir(), "scorer.db")
	st, err := store.Open(db)
	require.NoError(t, err)
	require.NoError(t, st.CreateMatch(t.Context(), testutil.Setup("bad", 2)))
	_, err = st.AppendEvent(t.Context(), "bad", engine.Event{Seq: 1, Kind: engine.EventSwitchStrike})
	require.NoError(t, err)
	require.NoError(t, st.Close())

	out, err := execute(t, "replay", "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ bad: 1 events")
	assert.Contains(t, out, "cannot be replayed")
	assert.Contains(t, out, "Error [E_REPLAY_FAILED]: 1 of 1 match(es) failed verification")
}

func TestReplayCommand_BadPolicy(t *testing.T) {
	_, err := execute(t, "replay", "--db", "x.db", "--policy", filepath.Join(t.TempDir(), "none.cue"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to load policy")
}
