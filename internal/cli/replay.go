package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/engine"
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/report"
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/rules"
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	MatchID  string // optional - one match only
	Policy   string
}

// ReplayMatchResult holds the replay result for a single match.
type ReplayMatchResult struct {
	MatchID       string `json:"match_id"`
	Events        int    `json:"events"`
	Digest        string `json:"digest,omitempty"`
	Summary       string `json:"summary,omitempty"`
	Deterministic bool   `json:"deterministic"`
	Consistent    bool   `json:"consistent"`
	Error         string `json:"error,omitempty"`
}

// OK reports whether the match replayed deterministically and passed the
// self-check.
func (r ReplayMatchResult) OK() bool {
	return r.Deterministic && r.Consistent
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Matches []ReplayMatchResult `json:"matches"`
	Total   int                 `json:"total"`
	Failed  int                 `json:"failed"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay journaled matches and verify them",
		Long: `Rebuild every journaled match from its event log and verify it.

Each match is replayed twice and the state digests compared, then the
engine self-check recomputes scorecards and run totals from the ball
stream. Matches must be replayed under the policy they were scored with.

Exit codes:
  0 - All matches verified
  1 - A match failed to replay or diverged
  2 - Command error (database not found, etc.)

Examples:
  scorer replay --db ./scorer.db
  scorer replay --db ./scorer.db --match final-2024
  scorer replay --db ./scorer.db --policy ./conditions.cue --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.MatchID, "match", "", "replay one match only")
	cmd.Flags().StringVar(&opts.Policy, "policy", "", "CUE playing conditions the matches were scored under")

	return cmd
}

func runReplay(cmd *cobra.Command, opts *ReplayOptions) error {
	ctx := cmd.Context()

	policy, err := loadPolicy(opts.Policy)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load policy", err)
	}

	st, err := openExistingStore(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	var ids []string
	if opts.MatchID != "" {
		ids = []string{opts.MatchID}
	} else {
		records, err := st.ListMatches(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list matches", err)
		}
		for _, rec := range records {
			ids = append(ids, rec.ID)
		}
	}

	result := ReplayResult{Matches: make([]ReplayMatchResult, 0, len(ids)), Total: len(ids)}
	for _, id := range ids {
		mr, err := replayMatch(ctx, st, id, policy)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to read match %s", id), err)
		}
		if !mr.OK() {
			result.Failed++
		}
		result.Matches = append(result.Matches, mr)
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	render := func(w io.Writer) {
		if len(result.Matches) == 0 {
			fmt.Fprintln(w, "No matches found in database.")
			return
		}
		for _, mr := range result.Matches {
			if mr.OK() {
				fmt.Fprintf(w, "✓ %s: %d events, digest %s\n", mr.MatchID, mr.Events, shortDigest(mr.Digest))
				fmt.Fprintf(w, "  %s\n", mr.Summary)
				continue
			}
			fmt.Fprintf(w, "✗ %s: %d events\n", mr.MatchID, mr.Events)
			fmt.Fprintf(w, "  %s\n", mr.Error)
		}
	}

	if result.Failed > 0 {
		msg := fmt.Sprintf("%d of %d match(es) failed verification", result.Failed, result.Total)
		if err := out.Failure(result, "E_REPLAY_FAILED", msg, render); err != nil {
			return err
		}
		return NewExitError(ExitFailure, msg)
	}
	return out.Result(result, render)
}

// replayMatch rebuilds one match twice and runs the self-check. Only a
// failure to read the journal is returned as an error; replay problems are
// recorded in the result.
func replayMatch(ctx context.Context, st *store.Store, matchID string, policy *rules.Policy) (ReplayMatchResult, error) {
	rec, err := st.ReadMatch(ctx, matchID)
	if err != nil {
		return ReplayMatchResult{}, err
	}
	mr := ReplayMatchResult{MatchID: matchID, Events: rec.Events}

	first, err := st.LoadSession(ctx, matchID, policy)
	if err != nil {
		mr.Error = err.Error()
		return mr, nil
	}
	second, err := st.LoadSession(ctx, matchID, policy)
	if err != nil {
		mr.Error = err.Error()
		return mr, nil
	}

	snap := first.Snapshot()
	mr.Digest = snap.Digest
	mr.Summary = report.Compute(snap.Match).Summary
	if again := second.Snapshot().Digest; again != snap.Digest {
		mr.Error = fmt.Sprintf("replays produced different digests %s and %s", shortDigest(snap.Digest), shortDigest(again))
		return mr, nil
	}
	mr.Deterministic = true

	if err := engine.Verify(first); err != nil {
		mr.Error = err.Error()
		return mr, nil
	}
	mr.Consistent = true
	return mr, nil
}

// openExistingStore opens a database that must already exist. store.Open
// would silently create an empty one.
func openExistingStore(path string) (*store.Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, WrapExitError(ExitCommandError, "database not found", err)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

// loadPolicy returns the default policy for an empty path.
func loadPolicy(path string) (*rules.Policy, error) {
	if path == "" {
		return rules.DefaultPolicy(), nil
	}
	return rules.LoadPolicyFile(path)
}

func shortDigest(d string) string {
	if len(d) > 12 {
		return d[:12]
	}
	return d
}
