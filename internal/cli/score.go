package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/cricket"
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/harness"
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/store"
)

// ScoreOptions holds flags for the score command.
type ScoreOptions struct {
	*RootOptions
	Database string // empty means a throwaway in-memory journal
}

// NewScoreCommand creates the score command.
func NewScoreCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScoreOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "score <script.yaml>",
		Short: "Score a scripted match",
		Long: `Create a match and apply a script of scorer actions to it.

The script uses the scenario format of "scorer test". Each action is
printed with the events it emitted and the commentary of every ball;
rejected actions are printed with their error code and reason. With --db
the match is journaled and can later be served or replayed.

Exit codes:
  0 - Every action ended as the script expected
  1 - An action was rejected unexpectedly or an assertion failed
  2 - Command error (unreadable script, match id taken, etc.)

Examples:
  scorer score ./final.yaml
  scorer score ./final.yaml --db ./scorer.db
  scorer score ./final.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "journal the match into this SQLite database")

	return cmd
}

func runScore(cmd *cobra.Command, opts *ScoreOptions, path string) error {
	sc, err := harness.LoadScenario(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load script", err)
	}

	runOpts := []harness.Option{harness.WithLogger(slog.Default())}
	if opts.Database != "" {
		st, err := store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer st.Close()
		runOpts = append(runOpts, harness.WithStore(st))
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	result, err := harness.Run(cmd.Context(), sc, runOpts...)
	if err != nil {
		if cricket.CodeOf(err) != "" {
			if ferr := out.ScoringFailure(err); ferr != nil {
				return ferr
			}
			return WrapExitError(ExitFailure, "match rejected", err)
		}
		return WrapExitError(ExitCommandError, "failed to score match", err)
	}

	render := func(w io.Writer) {
		_, _ = w.Write(harness.Transcript(sc.Name, result))
		for _, e := range result.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}
	if !result.Pass {
		msg := fmt.Sprintf("%d expectation(s) failed", len(result.Errors))
		if err := out.Failure(result, "E_SCRIPT_FAILED", msg, render); err != nil {
			return err
		}
		return NewExitError(ExitFailure, msg)
	}
	return out.Result(result, render)
}
