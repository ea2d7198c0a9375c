package harness

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/cricket"
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/engine"
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/report"
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/rules"
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/scorer"
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/store"
)

// Harness drives one scenario through a scorer.Service backed by an
// in-memory journal.
type Harness struct {
	store  *store.Store
	svc    *scorer.Service
	policy *rules.Policy
	logger *slog.Logger
}

// Option configures a run.
type Option func(*Harness)

// WithStore journals the run into st instead of a fresh in-memory
// database. The caller keeps ownership of st.
func WithStore(st *store.Store) Option {
	return func(h *Harness) {
		h.store = st
	}
}

// WithLogger sets the logger for step progress. Default: discard.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = l
	}
}

// Run executes a scenario and evaluates its expectations.
//
// Unless WithStore is given, each run gets a fresh in-memory database, so
// scenarios never share state.
// A non-nil error means the scenario could not be run at all; failed
// expectations are reported in Result.Errors.
func Run(ctx context.Context, sc *Scenario, opts ...Option) (*Result, error) {
	policy := rules.DefaultPolicy()
	if sc.Policy != "" {
		p, err := rules.LoadPolicyFile(sc.Policy)
		if err != nil {
			return nil, fmt.Errorf("load policy: %w", err)
		}
		policy = p
	}

	h := &Harness{
		policy: policy,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.store == nil {
		st, err := store.Open(":memory:")
		if err != nil {
			return nil, fmt.Errorf("failed to create in-memory store: %w", err)
		}
		defer st.Close()
		h.store = st
	}
	st := h.store
	h.svc = scorer.New(scorer.WithJournal(st), scorer.WithPolicy(policy))

	if _, err := h.svc.CreateMatch(ctx, sc.Setup()); err != nil {
		return nil, fmt.Errorf("create match: %w", err)
	}

	result := NewResult()
	for i, step := range sc.Steps {
		ev, err := h.execute(ctx, sc.Match.ID, i+1, step)
		if err != nil {
			return nil, err
		}
		result.Trace = append(result.Trace, ev)
		for _, msg := range checkExpect(step, ev) {
			result.AddError(msg)
		}
	}

	snap, err := h.svc.Snapshot(sc.Match.ID)
	if err != nil {
		return nil, err
	}
	result.Snapshot = snap
	result.Outcome = report.Compute(snap.Match)

	actx := &AssertionContext{Ctx: ctx, Store: st, Policy: policy}
	for _, msg := range EvaluateAssertions(result, sc.Assertions, actx) {
		result.AddError(msg)
	}
	return result, nil
}

// execute applies one step. Scoring errors are part of the trace; any
// other error aborts the run.
func (h *Harness) execute(ctx context.Context, matchID string, n int, step Step) (TraceEvent, error) {
	ev := TraceEvent{Step: n, Action: step.Action}

	var res *engine.Result
	var err error
	switch step.Action {
	case ActionStart:
		res, err = h.svc.Start(ctx, matchID)
	case ActionBall:
		ev.Detail = describeDelivery(*step.Ball)
		res, err = h.svc.SubmitBall(ctx, matchID, *step.Ball)
	case ActionBatsman:
		ev.Detail = string(step.Player)
		res, err = h.svc.SelectIncomingBatsman(ctx, matchID, step.Player)
	case ActionStrike:
		res, err = h.svc.SwitchStrike(ctx, matchID)
	case ActionUndo:
		res, err = h.svc.Undo(ctx, matchID)
	case ActionAbandon:
		ev.Detail = step.Reason
		res, err = h.svc.Abandon(ctx, matchID, step.Reason)
	default:
		return ev, fmt.Errorf("step %d: unknown action %q", n, step.Action)
	}

	if err != nil {
		if cricket.CodeOf(err) == "" {
			return ev, fmt.Errorf("step %d (%s): %w", n, step.Action, err)
		}
		ev.Error = string(cricket.CodeOf(err))
		ev.Reason = cricket.ReasonOf(err)
		snap, serr := h.svc.Snapshot(matchID)
		if serr != nil {
			return ev, serr
		}
		ev.Seq = snap.Seq
		h.logger.Debug("step rejected", "step", n, "action", step.Action, "code", ev.Error, "reason", ev.Reason)
		return ev, nil
	}

	ev.Seq = res.Snapshot.Seq
	for _, e := range res.Emissions {
		ev.Emissions = append(ev.Emissions, string(e.Kind))
		if e.Kind == engine.EmitBallApplied && e.Commentary != "" {
			ev.Commentary = append(ev.Commentary, e.Commentary)
		}
	}
	h.logger.Debug("step applied", "step", n, "action", step.Action, "seq", ev.Seq)
	return ev, nil
}

// checkExpect compares a step's outcome with its expect clause.
func checkExpect(step Step, ev TraceEvent) []string {
	exp := step.Expect
	if exp == nil {
		if !ev.Accepted() {
			return []string{fmt.Sprintf("step %d (%s): unexpected %s %s", ev.Step, ev.Action, ev.Error, ev.Reason)}
		}
		return nil
	}

	var errs []string
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf("step %d (%s): ", ev.Step, ev.Action)+fmt.Sprintf(format, args...))
	}

	if string(exp.Error) != ev.Error {
		fail("expected error %q, got %q", exp.Error, ev.Error)
	}
	if exp.Reason != "" && exp.Reason != ev.Reason {
		fail("expected reason %q, got %q", exp.Reason, ev.Reason)
	}
	if len(exp.Emits) > 0 && !slices.Equal(exp.Emits, ev.Emissions) {
		fail("expected emissions %v, got %v", exp.Emits, ev.Emissions)
	}
	if exp.Commentary != "" && !slices.Contains(ev.Commentary, exp.Commentary) {
		fail("expected commentary %q, got %q", exp.Commentary, ev.Commentary)
	}
	return errs
}

// describeDelivery renders the non-zero fields of a delivery compactly.
func describeDelivery(d cricket.Delivery) string {
	var parts []string
	add := func(format string, args ...any) {
		parts = append(parts, fmt.Sprintf(format, args...))
	}
	if d.Bowler != "" {
		add("bowler=%s", d.Bowler)
	}
	if d.BatRuns != 0 {
		add("runs=%d", d.BatRuns)
	}
	if d.Extras.Wides != 0 {
		add("wides=%d", d.Extras.Wides)
	}
	if d.Extras.NoBalls != 0 {
		add("no_balls=%d", d.Extras.NoBalls)
	}
	if d.Extras.Byes != 0 {
		add("byes=%d", d.Extras.Byes)
	}
	if d.Extras.LegByes != 0 {
		add("leg_byes=%d", d.Extras.LegByes)
	}
	if w := d.Wicket; w != nil {
		add("wicket=%s", w.Kind)
	}
	if len(parts) == 0 {
		return "dot"
	}
	return strings.Join(parts, " ")
}
