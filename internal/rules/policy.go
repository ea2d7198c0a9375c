package rules

import (
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/cricket"
)

// Reasons a dismissal kind is forbidden in a delivery context.
const (
	ForbiddenOnWide   = "not_possible_off_a_wide"
	ForbiddenOnNoBall = "not_possible_off_a_no_ball"
	ForbiddenByPolicy = "disabled_by_policy"
)

// Decision is one cell of the dismissal table.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

func allowed() Decision        { return Decision{Allowed: true} }
func forbid(r string) Decision { return Decision{Allowed: false, Reason: r} }

// Conditions are the numeric playing conditions.
type Conditions struct {
	// MaxOversPerBowler caps overs per bowler per innings. 0 means no cap.
	MaxOversPerBowler int `json:"max_overs_per_bowler"`

	// ShortRunPenalty is awarded to the fielding side for a deliberate
	// short run.
	ShortRunPenalty int `json:"short_run_penalty"`

	// MaxRunsPerBall bounds bat runs and byes on one delivery.
	MaxRunsPerBall int `json:"max_runs_per_ball"`
}

// DismissalRule describes how one dismissal kind behaves.
type DismissalRule struct {
	Contexts map[cricket.DeliveryContext]Decision `json:"contexts"`

	// StrikerOnly kinds can dismiss only the batter on strike.
	StrikerOnly bool `json:"striker_only"`

	// BowlerCredited kinds count toward the bowler's wickets.
	BowlerCredited bool `json:"bowler_credited"`

	// HonoursCrossing kinds consult Ball.Crossed to decide which end the
	// incoming batter takes.
	HonoursCrossing bool `json:"honours_crossing"`

	// RunsAllowed kinds can fall after the batters have run. For the rest
	// the ball is dead at the moment of dismissal.
	RunsAllowed bool `json:"runs_allowed"`
}

// Policy is the complete rule table consulted by Validate and the engine.
// A Policy is read-only once built; use Clone before modifying it.
type Policy struct {
	Conditions Conditions                              `json:"conditions"`
	Dismissals map[cricket.DismissalKind]DismissalRule `json:"dismissals"`
}

// DefaultPolicy returns limited-overs ICC playing conditions.
func DefaultPolicy() *Policy {
	return &Policy{
		Conditions: Conditions{
			MaxOversPerBowler: 0,
			ShortRunPenalty:   5,
			MaxRunsPerBall:    6,
		},
		Dismissals: map[cricket.DismissalKind]DismissalRule{
			cricket.DismissalBowled: {
				Contexts: map[cricket.DeliveryContext]Decision{
					cricket.ContextLegal:  allowed(),
					cricket.ContextWide:   forbid(ForbiddenOnWide),
					cricket.ContextNoBall: forbid(ForbiddenOnNoBall),
				},
				StrikerOnly:    true,
				BowlerCredited: true,
			},
			cricket.DismissalCaught: {
				Contexts: map[cricket.DeliveryContext]Decision{
					cricket.ContextLegal:  allowed(),
					cricket.ContextWide:   forbid(ForbiddenOnWide),
					cricket.ContextNoBall: forbid(ForbiddenOnNoBall),
				},
				StrikerOnly:    true,
				BowlerCredited: true,
			},
			cricket.DismissalLBW: {
				Contexts: map[cricket.DeliveryContext]Decision{
					cricket.ContextLegal:  allowed(),
					cricket.ContextWide:   forbid(ForbiddenOnWide),
					cricket.ContextNoBall: forbid(ForbiddenOnNoBall),
				},
				StrikerOnly:    true,
				BowlerCredited: true,
			},
			cricket.DismissalRunOut: {
				Contexts: map[cricket.DeliveryContext]Decision{
					cricket.ContextLegal:  allowed(),
					cricket.ContextWide:   allowed(),
					cricket.ContextNoBall: allowed(),
				},
				HonoursCrossing: true,
				RunsAllowed:     true,
			},
			cricket.DismissalStumped: {
				Contexts: map[cricket.DeliveryContext]Decision{
					cricket.ContextLegal:  allowed(),
					cricket.ContextWide:   allowed(),
					cricket.ContextNoBall: forbid(ForbiddenOnNoBall),
				},
				StrikerOnly:    true,
				BowlerCredited: true,
			},
			cricket.DismissalHitWicket: {
				Contexts: map[cricket.DeliveryContext]Decision{
					cricket.ContextLegal:  allowed(),
					cricket.ContextWide:   allowed(),
					cricket.ContextNoBall: forbid(ForbiddenOnNoBall),
				},
				StrikerOnly:    true,
				BowlerCredited: true,
			},
			cricket.DismissalHitBallTwice: {
				Contexts: map[cricket.DeliveryContext]Decision{
					cricket.ContextLegal:  allowed(),
					cricket.ContextWide:   forbid(ForbiddenOnWide),
					cricket.ContextNoBall: allowed(),
				},
				StrikerOnly: true,
			},
			cricket.DismissalObstructingField: {
				Contexts: map[cricket.DeliveryContext]Decision{
					cricket.ContextLegal:  allowed(),
					cricket.ContextWide:   allowed(),
					cricket.ContextNoBall: allowed(),
				},
				HonoursCrossing: true,
				RunsAllowed:     true,
			},
		},
	}
}

// Dismissal looks up whether kind may occur in ctx. Kinds or contexts missing
// from the table are forbidden.
func (p *Policy) Dismissal(kind cricket.DismissalKind, ctx cricket.DeliveryContext) Decision {
	rule, ok := p.Dismissals[kind]
	if !ok {
		return forbid(ForbiddenByPolicy)
	}
	d, ok := rule.Contexts[ctx]
	if !ok {
		return forbid(ForbiddenByPolicy)
	}
	return d
}

// StrikerOnly reports whether kind can dismiss only the striker.
func (p *Policy) StrikerOnly(kind cricket.DismissalKind) bool {
	return p.Dismissals[kind].StrikerOnly
}

// BowlerCredited reports whether kind counts toward the bowler's wickets.
func (p *Policy) BowlerCredited(kind cricket.DismissalKind) bool {
	return p.Dismissals[kind].BowlerCredited
}

// HonoursCrossing reports whether kind consults the crossed flag.
func (p *Policy) HonoursCrossing(kind cricket.DismissalKind) bool {
	return p.Dismissals[kind].HonoursCrossing
}

// RunsAllowed reports whether runs can be completed on a ball dismissed by kind.
func (p *Policy) RunsAllowed(kind cricket.DismissalKind) bool {
	return p.Dismissals[kind].RunsAllowed
}

// Clone returns a deep copy that can be modified independently.
func (p *Policy) Clone() *Policy {
	cp := &Policy{
		Conditions: p.Conditions,
		Dismissals: make(map[cricket.DismissalKind]DismissalRule, len(p.Dismissals)),
	}
	for kind, rule := range p.Dismissals {
		ctxs := make(map[cricket.DeliveryContext]Decision, len(rule.Contexts))
		for c, d := range rule.Contexts {
			ctxs[c] = d
		}
		rule.Contexts = ctxs
		cp.Dismissals[kind] = rule
	}
	return cp
}
