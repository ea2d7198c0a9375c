package cli

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const script = `
name: scripted
description: "openers and two balls"
match:
  id: m1
  overs: 1
  toss: { winner: A, decision: bat }
  teams:
    - { id: A, name: Aces, players: [Ava, Amir, Asha] }
    - { id: B, name: Bolts, players: [Ben, Bea, Bo] }
steps:
  - action: start
  - action: batsman
    player: A1
  - action: batsman
    player: A2
  - action: ball
    ball: { bowler: B1, runs: 4 }
  - action: ball
    ball: { runs: 1 }
`

func TestScoreCommand_Transcript(t *testing.T) {
	path := writeFile(t, "match.yaml", script)

	out, err := execute(t, "score", path)
	require.NoError(t, err)

	want := strings.Join([]string{
		"scenario: scripted",
		"[1] start -> match_started",
		"[2] batsman A1 -> batsman_selected",
		"[3] batsman A2 -> batsman_selected",
		"[4] ball bowler=B1 runs=4 -> ball_applied",
		"    0.1 Ben to Ava, FOUR",
		"[5] ball runs=1 -> ball_applied",
		"    0.2 Ben to Ava, 1 run",
		"result: Aces 5/0 (0.2 ov)",
		"",
	}, "\n")
	assert.Equal(t, want, out)
}

func TestScoreCommand_JournalThenReplay(t *testing.T) {
	path := writeFile(t, "match.yaml", script)
	db := filepath.Join(t.TempDir(), "scorer.db")

	_, err := execute(t, "score", path, "--db", db)
	require.NoError(t, err)

	out, err := execute(t, "replay", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ m1: 5 events")
	assert.Contains(t, out, "Aces 5/0 (0.2 ov)")

	out, err = execute(t, "replay", "--db", db, "--match", "m1", "--format", "json")
	require.NoError(t, err)
	var resp struct {
		Status string       `json:"status"`
		Data   ReplayResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Matches, 1)
	m := resp.Data.Matches[0]
	assert.True(t, m.Deterministic)
	assert.True(t, m.Consistent)
	assert.Len(t, m.Digest, 64)

	_, err = execute(t, "score", path, "--db", db)
	require.Error(t, err, "match id already journaled")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestScoreCommand_UnexpectedRejection(t *testing.T) {
	path := writeFile(t, "match.yaml", script+`
  - action: ball
    ball: { bowler: B2 }
`)

	out, err := execute(t, "score", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "[6] ball bowler=B2 !! RULE_VIOLATION bowler_changed_mid_over")
	assert.Contains(t, out, "Error [E_SCRIPT_FAILED]: 1 expectation(s) failed")
}

func TestScoreCommand_InvalidSetup(t *testing.T) {
	path := writeFile(t, "match.yaml", strings.Replace(script, "overs: 1", "overs: 0", 1))

	out, err := execute(t, "score", path, "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "RULE_VIOLATION", resp.Error.Code)
}

func TestScoreCommand_MissingScript(t *testing.T) {
	_, err := execute(t, "score", filepath.Join(t.TempDir(), "none.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
