package harness

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/cricket"
)

func TestParseScenario_Setup(t *testing.T) {
	sc, err := ParseScenario([]byte(minimal))
	require.NoError(t, err)

	setup := sc.Setup()
	assert.Equal(t, "m1", setup.ID)
	assert.Equal(t, 1, setup.OversLimit)
	assert.Equal(t, cricket.Toss{Winner: "A", Decision: cricket.TossBat}, setup.Toss)
	require.Len(t, setup.Teams[0].Players, 3)
	assert.Equal(t, cricket.Player{ID: "A2", Name: "Amir"}, setup.Teams[0].Players[1])
	assert.Equal(t, cricket.Player{ID: "B3", Name: "Bo"}, setup.Teams[1].Players[2])
}

func TestParseScenario_Errors(t *testing.T) {
	tests := []struct {
		name    string
		replace [2]string
		want    string
	}{
		{"unknown field", [2]string{"description:", "descripton:"}, "failed to parse YAML"},
		{"no name", [2]string{"name: minimal", "name: \"\""}, "name is required"},
		{"no match id", [2]string{"id: m1", "id: \"\""}, "match.id is required"},
		{"unknown action", [2]string{"action: start", "action: kickoff"}, `unknown action "kickoff"`},
		{"batsman without player", [2]string{"player: A1", "player: \"\""}, "player is required"},
		{"ball without delivery", [2]string{"    ball: { bowler: B1 }\n", ""}, "ball is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := strings.Replace(minimal, tt.replace[0], tt.replace[1], 1)
			require.NotEqual(t, minimal, src)
			_, err := ParseScenario([]byte(src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseScenario_AssertionErrors(t *testing.T) {
	tests := []struct {
		name      string
		assertion string
		want      string
	}{
		{"unknown type", "  - type: bogus\n", `unknown assertion type "bogus"`},
		{"state without path", "  - type: state\n    equals: 1\n", "path is required"},
		{"order without kinds", "  - type: emitted_order\n", "kinds list is required"},
		{"count without kind", "  - type: emitted_count\n    count: 1\n", "kind is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(minimal + "assertions:\n" + tt.assertion))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseScenario_ReasonNeedsError(t *testing.T) {
	src := minimal + "    expect: { reason: consecutive_over }\n"
	_, err := ParseScenario([]byte(src))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reason requires error")
}

func TestLoadScenario_ResolvesPolicy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte("policy: rules.cue\n"+minimal), 0o644))

	sc, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "rules.cue"), sc.Policy)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}
