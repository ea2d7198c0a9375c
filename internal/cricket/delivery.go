package cricket

// Extras counts runs credited to the batting side but not to the batter.
//
// Wides and NoBalls hold runs, not deliveries: a wide on which the batters
// ran one is Wides=2. A normalized no-ball always carries NoBalls=1 (the
// mandatory penalty); runs taken off a no-ball are bat runs or byes.
type Extras struct {
	Wides   int `json:"wides" yaml:"wides"`
	NoBalls int `json:"no_balls" yaml:"no_balls"`
	Byes    int `json:"byes" yaml:"byes"`
	LegByes int `json:"leg_byes" yaml:"leg_byes"`
}

// Total is the sum of all extras.
func (e Extras) Total() int {
	return e.Wides + e.NoBalls + e.Byes + e.LegByes
}

// Add returns the component-wise sum.
func (e Extras) Add(o Extras) Extras {
	return Extras{
		Wides:   e.Wides + o.Wides,
		NoBalls: e.NoBalls + o.NoBalls,
		Byes:    e.Byes + o.Byes,
		LegByes: e.LegByes + o.LegByes,
	}
}

// DismissalKind is how a batter got out.
type DismissalKind string

const (
	DismissalBowled           DismissalKind = "bowled"
	DismissalCaught           DismissalKind = "caught"
	DismissalLBW              DismissalKind = "lbw"
	DismissalRunOut           DismissalKind = "run_out"
	DismissalStumped          DismissalKind = "stumped"
	DismissalHitWicket        DismissalKind = "hit_wicket"
	DismissalHitBallTwice     DismissalKind = "hit_ball_twice"
	DismissalObstructingField DismissalKind = "obstructing_field"
)

// DismissalKinds lists every kind in a stable order.
var DismissalKinds = []DismissalKind{
	DismissalBowled,
	DismissalCaught,
	DismissalLBW,
	DismissalRunOut,
	DismissalStumped,
	DismissalHitWicket,
	DismissalHitBallTwice,
	DismissalObstructingField,
}

// Valid reports whether k is a known dismissal kind.
func (k DismissalKind) Valid() bool {
	for _, known := range DismissalKinds {
		if k == known {
			return true
		}
	}
	return false
}

// DeliveryContext classifies a delivery for dismissal policy lookups.
type DeliveryContext string

const (
	ContextLegal  DeliveryContext = "legal"
	ContextWide   DeliveryContext = "wide"
	ContextNoBall DeliveryContext = "no_ball"
)

// DeliveryContexts lists every context in a stable order.
var DeliveryContexts = []DeliveryContext{ContextLegal, ContextWide, ContextNoBall}

// Wicket describes a dismissal on a delivery.
type Wicket struct {
	Kind      DismissalKind `json:"kind" yaml:"kind"`
	PlayerOut PlayerID      `json:"player_out" yaml:"player_out"`
	Fielder   PlayerID      `json:"fielder,omitempty" yaml:"fielder,omitempty"`
}

// Delivery is a proposed ball as it arrives from the intent layer.
//
// Empty Striker, NonStriker or Bowler mean "whoever is current". Run values
// are already disambiguated; the rules package normalizes conflicting extras
// and rejects illegal combinations.
type Delivery struct {
	Striker            PlayerID `json:"striker,omitempty" yaml:"striker,omitempty"`
	NonStriker         PlayerID `json:"non_striker,omitempty" yaml:"non_striker,omitempty"`
	Bowler             PlayerID `json:"bowler,omitempty" yaml:"bowler,omitempty"`
	BatRuns            int      `json:"bat_runs" yaml:"runs"`
	Extras             Extras   `json:"extras" yaml:"extras"`
	Wicket             *Wicket  `json:"wicket,omitempty" yaml:"wicket,omitempty"`
	ShortRun           bool     `json:"short_run,omitempty" yaml:"short_run,omitempty"`
	DeliberateShortRun bool     `json:"deliberate_short_run,omitempty" yaml:"deliberate_short_run,omitempty"`
	DeadBall           bool     `json:"dead_ball,omitempty" yaml:"dead_ball,omitempty"`
	PenaltyRuns        int      `json:"penalty_runs,omitempty" yaml:"penalty_runs,omitempty"`
	Crossed            bool     `json:"crossed,omitempty" yaml:"crossed,omitempty"`
}

// Ball is a normalized, accepted delivery. Immutable once recorded.
//
// Over is the zero-based over index. Number is the display ball number
// within the over: illegal deliveries repeat the number of the next legal
// ball instead of advancing it.
type Ball struct {
	Over            int      `json:"over"`
	Number          int      `json:"number"`
	Striker         PlayerID `json:"striker"`
	NonStriker      PlayerID `json:"non_striker"`
	Bowler          PlayerID `json:"bowler"`
	BatRuns         int      `json:"bat_runs"`
	Extras          Extras   `json:"extras"`
	Wicket          *Wicket  `json:"wicket,omitempty"`
	ShortRun        bool     `json:"short_run,omitempty"`
	DeadBall        bool     `json:"dead_ball,omitempty"`
	PenaltyRuns     int      `json:"penalty_runs,omitempty"`
	FieldingPenalty int      `json:"fielding_penalty,omitempty"`
	Crossed         bool     `json:"crossed,omitempty"`
	EndsOver        bool     `json:"ends_over,omitempty"`
}

// Legal reports whether the ball counts toward the six-ball over.
func (b Ball) Legal() bool {
	return b.Extras.Wides == 0 && b.Extras.NoBalls == 0
}

// Context classifies the ball for dismissal policy lookups.
// A no-ball takes precedence over a wide.
func (b Ball) Context() DeliveryContext {
	switch {
	case b.Extras.NoBalls > 0:
		return ContextNoBall
	case b.Extras.Wides > 0:
		return ContextWide
	default:
		return ContextLegal
	}
}

// TotalRuns is everything the ball adds to the batting side's innings.
func (b Ball) TotalRuns() int {
	return b.BatRuns + b.Extras.Total() + b.PenaltyRuns
}

// RunsRun is the number of times the batters crossed by running.
// Wide run-throughs count; the one-run wide penalty does not.
func (b Ball) RunsRun() int {
	n := b.BatRuns + b.Extras.Byes + b.Extras.LegByes
	if b.Extras.Wides > 0 {
		n += b.Extras.Wides - WidePenalty
	}
	return n
}

// Conceded is the runs charged to the bowler: bat runs, wides and no-balls.
func (b Ball) Conceded() int {
	return b.BatRuns + b.Extras.Wides + b.Extras.NoBalls
}

// FacedByBatter reports whether the striker is charged with a ball faced.
// Wides are not faced; no-balls are.
func (b Ball) FacedByBatter() bool {
	return b.Extras.Wides == 0
}

// IsWicket reports whether the ball dismissed a batter.
func (b Ball) IsWicket() bool {
	return b.Wicket != nil
}

// Clone returns a copy that shares no pointers with b.
func (b Ball) Clone() Ball {
	if b.Wicket != nil {
		w := *b.Wicket
		b.Wicket = &w
	}
	return b
}
