package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarios_Golden(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		sc, err := LoadScenario(path)
		require.NoError(t, err, path)

		t.Run(sc.Name, func(t *testing.T) {
			result, err := RunWithGolden(t, sc)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

const minimal = `
name: minimal
description: "two openers and a dot ball"
match:
  id: m1
  overs: 1
  toss: { winner: A, decision: bat }
  teams:
    - { id: A, players: [Ava, Amir, Asha] }
    - { id: B, players: [Ben, Bea, Bo] }
steps:
  - action: start
  - action: batsman
    player: A1
  - action: batsman
    player: A2
  - action: ball
    ball: { bowler: B1 }
`

func TestRun_Minimal(t *testing.T) {
	sc, err := ParseScenario([]byte(minimal))
	require.NoError(t, err)

	result, err := Run(t.Context(), sc)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	require.Len(t, result.Trace, 4)

	last := result.Trace[3]
	assert.Equal(t, int64(4), last.Seq)
	assert.Equal(t, "bowler=B1", last.Detail)
	assert.Equal(t, []string{"0.1 Ben to Ava, no run"}, last.Commentary)
	assert.Equal(t, "A 0/0 (0.1 ov)", result.Outcome.Summary, "unnamed teams fall back to ids")
}

func TestRun_UnexpectedRejectionFails(t *testing.T) {
	sc, err := ParseScenario([]byte(minimal + `
  - action: ball
    ball: { bowler: B2 }
`))
	require.NoError(t, err)

	result, err := Run(t.Context(), sc)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "step 5 (ball): unexpected RULE_VIOLATION bowler_changed_mid_over")

	rejected := result.Trace[4]
	assert.False(t, rejected.Accepted())
	assert.Equal(t, int64(4), rejected.Seq, "rejection records nothing")
}

func TestRun_ExpectMismatches(t *testing.T) {
	sc, err := ParseScenario([]byte(minimal + `
  - action: ball
    ball: { runs: 1 }
    expect:
      error: RULE_VIOLATION
  - action: ball
    ball: { runs: 2 }
    expect:
      emits: [ball_applied, innings_complete]
      commentary: "0.3 Ben to Amir, SIX"
`))
	require.NoError(t, err)

	result, err := Run(t.Context(), sc)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 3)
	assert.Contains(t, result.Errors[0], `expected error "RULE_VIOLATION", got ""`)
	assert.Contains(t, result.Errors[1], "expected emissions")
	assert.Contains(t, result.Errors[2], "expected commentary")
}

func TestRun_FailedAssertions(t *testing.T) {
	sc, err := ParseScenario([]byte(minimal + `
assertions:
  - type: state
    path: current.runs
    equals: 4
  - type: state
    path: current.nope
    equals: 1
  - type: emitted_count
    kind: ball_applied
    count: 2
  - type: emitted_order
    kinds: [ball_applied, match_started]
  - type: consistent
`))
	require.NoError(t, err)

	result, err := Run(t.Context(), sc)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 4, "consistent holds: %v", result.Errors)
	assert.Contains(t, result.Errors[0], "current.runs = 4")
	assert.Contains(t, result.Errors[1], `no field "nope"`)
	assert.Contains(t, result.Errors[2], "1 occurrences")
	assert.Contains(t, result.Errors[3], "match_started missing")
}

func TestRun_BadPolicy(t *testing.T) {
	sc, err := ParseScenario([]byte(minimal))
	require.NoError(t, err)
	sc.Policy = filepath.Join(t.TempDir(), "missing.cue")

	_, err = Run(t.Context(), sc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load policy")
}

func TestTranscript(t *testing.T) {
	result := NewResult()
	result.Trace = []TraceEvent{
		{Step: 1, Action: ActionStart, Emissions: []string{"match_started"}},
		{Step: 2, Action: ActionBall, Detail: "bowler=B1", Emissions: []string{"ball_applied"}, Commentary: []string{"0.1 Ben to Ava, no run"}},
		{Step: 3, Action: ActionBall, Detail: "bowler=B2", Error: "RULE_VIOLATION", Reason: "bowler_changed_mid_over"},
	}
	result.Outcome.Summary = "A 0/0 (0.1 ov)"

	want := strings.Join([]string{
		"scenario: t",
		"[1] start -> match_started",
		"[2] ball bowler=B1 -> ball_applied",
		"    0.1 Ben to Ava, no run",
		"[3] ball bowler=B2 !! RULE_VIOLATION bowler_changed_mid_over",
		"result: A 0/0 (0.1 ov)",
		"",
	}, "\n")
	assert.Equal(t, want, string(Transcript("t", result)))
}
