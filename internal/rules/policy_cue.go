package rules

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/cricket"
)

// LoadPolicyFile reads a CUE policy override from disk.
func LoadPolicyFile(path string) (*Policy, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy: %w", err)
	}
	return ParsePolicy(path, src)
}

// ParsePolicy applies a CUE document on top of DefaultPolicy.
//
// Every field is optional:
//
//	conditions: {
//		max_overs_per_bowler: 4
//		short_run_penalty:    5
//	}
//	dismissals: stumped: {
//		wide:         false
//		striker_only: true
//		runs_allowed: false
//	}
//
// Context fields (legal, wide, no_ball) take a bool. Unknown dismissal
// kinds, contexts and condition names are errors.
func ParsePolicy(filename string, src []byte) (*Policy, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	p := DefaultPolicy()

	if condVal := v.LookupPath(cue.ParsePath("conditions")); condVal.Exists() {
		if err := parseConditions(condVal, &p.Conditions); err != nil {
			return nil, err
		}
	}

	if dismVal := v.LookupPath(cue.ParsePath("dismissals")); dismVal.Exists() {
		if err := parseDismissals(dismVal, p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func parseConditions(v cue.Value, c *Conditions) error {
	iter, err := v.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		name := iter.Label()
		n, err := iter.Value().Int64()
		if err != nil {
			return formatCUEError(err)
		}
		if n < 0 {
			return &PolicyError{
				Field:   "conditions." + name,
				Message: "must not be negative",
				Pos:     iter.Value().Pos(),
			}
		}
		switch name {
		case "max_overs_per_bowler":
			c.MaxOversPerBowler = int(n)
		case "short_run_penalty":
			c.ShortRunPenalty = int(n)
		case "max_runs_per_ball":
			c.MaxRunsPerBall = int(n)
		default:
			return &PolicyError{
				Field:   "conditions." + name,
				Message: "unknown playing condition",
				Pos:     iter.Value().Pos(),
			}
		}
	}
	return nil
}

func parseDismissals(v cue.Value, p *Policy) error {
	iter, err := v.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		kind := cricket.DismissalKind(iter.Label())
		rule, ok := p.Dismissals[kind]
		if !ok {
			return &PolicyError{
				Field:   "dismissals." + string(kind),
				Message: "unknown dismissal kind",
				Pos:     iter.Value().Pos(),
			}
		}
		if err := parseDismissalRule(iter.Value(), string(kind), &rule); err != nil {
			return err
		}
		p.Dismissals[kind] = rule
	}
	return nil
}

func parseDismissalRule(v cue.Value, kind string, rule *DismissalRule) error {
	iter, err := v.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		field := iter.Label()
		b, err := iter.Value().Bool()
		if err != nil {
			return formatCUEError(err)
		}
		switch field {
		case "striker_only":
			rule.StrikerOnly = b
		case "bowler_credited":
			rule.BowlerCredited = b
		case "honours_crossing":
			rule.HonoursCrossing = b
		case "runs_allowed":
			rule.RunsAllowed = b
		case string(cricket.ContextLegal), string(cricket.ContextWide), string(cricket.ContextNoBall):
			if b {
				rule.Contexts[cricket.DeliveryContext(field)] = allowed()
			} else {
				rule.Contexts[cricket.DeliveryContext(field)] = forbid(ForbiddenByPolicy)
			}
		default:
			return &PolicyError{
				Field:   "dismissals." + kind + "." + field,
				Message: "unknown dismissal setting",
				Pos:     iter.Value().Pos(),
			}
		}
	}
	return nil
}

// PolicyError is a policy file error with source position.
type PolicyError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *PolicyError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &PolicyError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
