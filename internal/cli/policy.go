package cli

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/cricket"
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/rules"
)

// NewPolicyCommand creates the policy command.
func NewPolicyCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policy [file.cue]",
		Short: "Validate and print playing conditions",
		Long: `Print the effective playing conditions and dismissal table.

Without a file the built-in limited-overs conditions are printed. A CUE
file is applied on top of them and validated: unknown fields, dismissal
kinds and delivery contexts are errors.

Exit codes:
  0 - Policy is valid
  1 - Policy file is invalid
  2 - Command error (file not found, etc.)

Examples:
  scorer policy
  scorer policy ./conditions.cue
  scorer policy ./conditions.cue --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runPolicy(cmd, rootOpts, path)
		},
	}
	return cmd
}

func runPolicy(cmd *cobra.Command, opts *RootOptions, path string) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return WrapExitError(ExitCommandError, "policy file not found", err)
		}
	}
	policy, err := loadPolicy(path)
	if err != nil {
		if ferr := out.Failure(nil, "E_POLICY_INVALID", err.Error(), nil); ferr != nil {
			return ferr
		}
		return WrapExitError(ExitFailure, "invalid policy", err)
	}

	return out.Result(policy, func(w io.Writer) {
		writePolicy(w, policy)
	})
}

func writePolicy(w io.Writer, p *rules.Policy) {
	c := p.Conditions
	quota := fmt.Sprint(c.MaxOversPerBowler)
	if c.MaxOversPerBowler == 0 {
		quota = "unlimited"
	}
	fmt.Fprintln(w, "conditions:")
	fmt.Fprintf(w, "  max overs per bowler: %s\n", quota)
	fmt.Fprintf(w, "  short run penalty:    %d\n", c.ShortRunPenalty)
	fmt.Fprintf(w, "  max runs per ball:    %d\n", c.MaxRunsPerBall)
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprint(tw, "dismissal")
	for _, ctx := range cricket.DeliveryContexts {
		fmt.Fprintf(tw, "\t%s", ctx)
	}
	fmt.Fprintln(tw, "\tstriker only\tbowler credited\thonours crossing\truns allowed")

	for _, kind := range cricket.DismissalKinds {
		fmt.Fprint(tw, kind)
		for _, ctx := range cricket.DeliveryContexts {
			fmt.Fprintf(tw, "\t%s", yesNo(p.Dismissal(kind, ctx).Allowed))
		}
		fmt.Fprintf(tw, "\t%s\t%s\t%s\t%s\n",
			yesNo(p.StrikerOnly(kind)), yesNo(p.BowlerCredited(kind)),
			yesNo(p.HonoursCrossing(kind)), yesNo(p.RunsAllowed(kind)))
	}
	_ = tw.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
