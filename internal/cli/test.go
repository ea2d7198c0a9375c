package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update    bool   // regenerate golden files
	Filter    string // scenario filter (glob pattern)
	GoldenDir string
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Golden string   `json:"golden,omitempty"` // "match", "updated", "missing"
	Errors []string `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run scoring scenarios",
		Long: `Run scripted scoring scenarios through the engine.

Every step's expectations and every assertion must hold, and the
commentary transcript must match the scenario's golden file. Golden files
are read from ../golden next to the scenarios directory unless --golden is
given. A scenario without a golden file is judged on its expectations only.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  scorer test ./testdata/scenarios
  scorer test ./testdata/scenarios --filter "short_*"
  scorer test ./testdata/scenarios --update
  scorer test ./testdata/scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(cmd, opts, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")
	cmd.Flags().StringVar(&opts.GoldenDir, "golden", "", "golden file directory")

	return cmd
}

func runTests(cmd *cobra.Command, opts *TestOptions, scenariosDir string) error {
	if _, err := os.Stat(scenariosDir); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("scenarios directory not found: %s", scenariosDir))
	}
	goldenDir := opts.GoldenDir
	if goldenDir == "" {
		goldenDir = filepath.Join(filepath.Dir(filepath.Clean(scenariosDir)), "golden")
	}

	files, err := findScenarioFiles(scenariosDir, opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	result := TestResult{Scenarios: make([]ScenarioResult, 0, len(files)), Total: len(files)}
	if len(files) == 0 {
		return out.Result(result, func(w io.Writer) {
			fmt.Fprintln(w, "No scenarios found.")
		})
	}

	for _, file := range files {
		sr := runScenario(cmd, file, goldenDir, opts.Update)
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
		result.Scenarios = append(result.Scenarios, sr)
	}

	render := func(w io.Writer) {
		for _, sr := range result.Scenarios {
			mark := "✓"
			if !sr.Pass {
				mark = "✗"
			}
			line := fmt.Sprintf("%s %s", mark, sr.Name)
			if sr.Golden == "updated" {
				line += " (golden updated)"
			}
			fmt.Fprintln(w, line)
			for _, e := range sr.Errors {
				fmt.Fprintf(w, "  %s\n", strings.ReplaceAll(strings.TrimRight(e, "\n"), "\n", "\n  "))
			}
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
	}

	if result.Failed > 0 {
		msg := fmt.Sprintf("%d scenario(s) failed", result.Failed)
		if err := out.Failure(result, "E_TEST_FAILED", msg, render); err != nil {
			return err
		}
		return NewExitError(ExitFailure, msg)
	}
	return out.Result(result, func(w io.Writer) {
		render(w)
		fmt.Fprintln(w, "✓ All scenarios passed")
	})
}

// findScenarioFiles finds all YAML scenario files under dir, in lexical
// order.
func findScenarioFiles(dir string, filter string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	return files, err
}

// runScenario executes one scenario file and checks its golden transcript.
func runScenario(cmd *cobra.Command, file, goldenDir string, update bool) ScenarioResult {
	sc, err := harness.LoadScenario(file)
	if err != nil {
		return ScenarioResult{
			Name:   filepath.Base(file),
			Errors: []string{fmt.Sprintf("failed to load scenario: %v", err)},
		}
	}

	result, err := harness.Run(cmd.Context(), sc)
	if err != nil {
		return ScenarioResult{
			Name:   sc.Name,
			Errors: []string{fmt.Sprintf("execution failed: %v", err)},
		}
	}

	sr := ScenarioResult{Name: sc.Name, Pass: result.Pass, Errors: result.Errors}
	transcript := harness.Transcript(sc.Name, result)
	goldenPath := filepath.Join(goldenDir, sc.Name+".golden")

	if update {
		if err := writeGolden(goldenPath, transcript); err != nil {
			sr.Pass = false
			sr.Errors = append(sr.Errors, fmt.Sprintf("failed to update golden file: %v", err))
			return sr
		}
		sr.Golden = "updated"
		return sr
	}

	want, err := os.ReadFile(goldenPath)
	switch {
	case os.IsNotExist(err):
		sr.Golden = "missing"
	case err != nil:
		sr.Pass = false
		sr.Errors = append(sr.Errors, fmt.Sprintf("failed to read golden file: %v", err))
	case !bytes.Equal(want, transcript):
		sr.Pass = false
		sr.Errors = append(sr.Errors, "transcript does not match golden file (run with --update to regenerate)")
	default:
		sr.Golden = "match"
	}
	return sr
}

func writeGolden(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
