package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Transcript renders a run as plain text: one line per step, the
// commentary of each accepted ball indented beneath it, and the result.
func Transcript(name string, result *Result) []byte {
	var buf strings.Builder
	fmt.Fprintf(&buf, "scenario: %s\n", name)

	for _, ev := range result.Trace {
		head := fmt.Sprintf("[%d] %s", ev.Step, ev.Action)
		if ev.Detail != "" {
			head += " " + ev.Detail
		}
		if ev.Accepted() {
			fmt.Fprintf(&buf, "%s -> %s\n", head, strings.Join(ev.Emissions, ", "))
		} else {
			fmt.Fprintf(&buf, "%s !! %s %s\n", head, ev.Error, ev.Reason)
		}
		for _, line := range ev.Commentary {
			fmt.Fprintf(&buf, "    %s\n", line)
		}
	}

	fmt.Fprintf(&buf, "result: %s\n", result.Outcome.Summary)
	return []byte(buf.String())
}

// RunWithGolden executes a scenario, fails t on any failed expectation,
// and compares its transcript against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, sc *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(t.Context(), sc)
	if err != nil {
		return nil, err
	}
	for _, msg := range result.Errors {
		t.Error(msg)
	}

	AssertGolden(t, sc.Name, result)
	return result, nil
}

// AssertGolden compares an existing result's transcript against its
// golden file.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, Transcript(name, result))
}
