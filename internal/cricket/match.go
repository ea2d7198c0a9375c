package cricket

import "fmt"

// Over is one bowler's set of deliveries. Illegal deliveries are recorded
// but do not count toward LegalBalls.
type Over struct {
	Number     int      `json:"number"`
	Bowler     PlayerID `json:"bowler"`
	Balls      []Ball   `json:"balls"`
	LegalBalls int      `json:"legal_balls"`
	Runs       int      `json:"runs"`
	Conceded   int      `json:"conceded"`
	Complete   bool     `json:"complete"`
	Maiden     bool     `json:"maiden"`
}

// Innings belongs to exactly one match.
//
// An empty Striker or NonStriker slot means a batter must be selected
// before the next ball is accepted.
type Innings struct {
	Number         int        `json:"number"`
	Batting        TeamID     `json:"batting"`
	Bowling        TeamID     `json:"bowling"`
	Overs          []*Over    `json:"overs"`
	Runs           int        `json:"runs"`
	Wickets        int        `json:"wickets"`
	LegalBalls     int        `json:"legal_balls"`
	Extras         Extras     `json:"extras"`
	Penalty        int        `json:"penalty"`
	AwardedPenalty int        `json:"awarded_penalty"`
	Target         int        `json:"target,omitempty"`
	Complete       bool       `json:"complete"`
	Striker        PlayerID   `json:"striker"`
	NonStriker     PlayerID   `json:"non_striker"`
	Dismissed      []PlayerID `json:"dismissed"`
}

// CurrentOver returns the open over, or nil between overs.
func (inn *Innings) CurrentOver() *Over {
	if len(inn.Overs) == 0 {
		return nil
	}
	last := inn.Overs[len(inn.Overs)-1]
	if last.Complete {
		return nil
	}
	return last
}

// LastOver returns the most recent over regardless of completion.
func (inn *Innings) LastOver() *Over {
	if len(inn.Overs) == 0 {
		return nil
	}
	return inn.Overs[len(inn.Overs)-1]
}

// PreviousBowler returns the bowler of the most recent completed over.
// Empty for the innings' first over.
func (inn *Innings) PreviousBowler() PlayerID {
	for i := len(inn.Overs) - 1; i >= 0; i-- {
		if inn.Overs[i].Complete {
			return inn.Overs[i].Bowler
		}
	}
	return ""
}

// Balls returns every recorded ball of the innings in order.
func (inn *Innings) Balls() []Ball {
	var balls []Ball
	for _, o := range inn.Overs {
		balls = append(balls, o.Balls...)
	}
	return balls
}

// AwaitingBatter reports whether a crease slot is empty.
func (inn *Innings) AwaitingBatter() bool {
	return inn.Striker == "" || inn.NonStriker == ""
}

// AtCrease reports whether the player currently occupies a crease slot.
func (inn *Innings) AtCrease(id PlayerID) bool {
	return id != "" && (inn.Striker == id || inn.NonStriker == id)
}

// IsDismissed reports whether the player is already out this innings.
func (inn *Innings) IsDismissed(id PlayerID) bool {
	for _, d := range inn.Dismissed {
		if d == id {
			return true
		}
	}
	return false
}

// OversBowled renders legal balls in the conventional "overs.balls" form.
func (inn *Innings) OversBowled() string {
	return FormatOvers(inn.LegalBalls)
}

// Recount sums the recorded balls. The result equals Runs whenever
// run conservation holds.
func (inn *Innings) Recount() int {
	total := inn.AwardedPenalty
	for _, o := range inn.Overs {
		for _, b := range o.Balls {
			total += b.TotalRuns()
		}
	}
	return total
}

// BowlerOvers counts overs the bowler has started this innings.
func (inn *Innings) BowlerOvers(id PlayerID) int {
	n := 0
	for _, o := range inn.Overs {
		if o.Bowler == id {
			n++
		}
	}
	return n
}

// FormatOvers renders a legal-ball count as "overs.balls".
func FormatOvers(legalBalls int) string {
	return fmt.Sprintf("%d.%d", legalBalls/BallsPerOver, legalBalls%BallsPerOver)
}

// Match is the root of the state tree owned by one scoring session.
type Match struct {
	Setup          MatchSetup `json:"setup"`
	Status         Status     `json:"status"`
	Phase          Phase      `json:"phase"`
	Innings        []*Innings `json:"innings"`
	CarriedPenalty int        `json:"carried_penalty,omitempty"`
	AbandonReason  string     `json:"abandon_reason,omitempty"`
}

// NewMatch creates a match in the Setup phase.
func NewMatch(setup MatchSetup) *Match {
	return &Match{
		Setup:   setup,
		Status:  StatusNotStarted,
		Phase:   PhaseSetup,
		Innings: []*Innings{},
	}
}

// ID returns the match id.
func (m *Match) ID() string {
	return m.Setup.ID
}

// CurrentInnings returns the innings in play, or nil.
func (m *Match) CurrentInnings() *Innings {
	if len(m.Innings) == 0 {
		return nil
	}
	return m.Innings[len(m.Innings)-1]
}

// InningsNumber is 1 or 2 once started, 0 before.
func (m *Match) InningsNumber() int {
	return len(m.Innings)
}

// BattingTeam returns the team batting in the current innings.
func (m *Match) BattingTeam() Team {
	inn := m.CurrentInnings()
	if inn == nil {
		return Team{}
	}
	t, _ := m.Setup.Team(inn.Batting)
	return t
}

// BowlingTeam returns the team bowling in the current innings.
func (m *Match) BowlingTeam() Team {
	inn := m.CurrentInnings()
	if inn == nil {
		return Team{}
	}
	t, _ := m.Setup.Team(inn.Bowling)
	return t
}

// PlayerName resolves a player id against both squads.
func (m *Match) PlayerName(id PlayerID) string {
	for _, t := range m.Setup.Teams {
		if t.Has(id) {
			return t.PlayerName(id)
		}
	}
	return string(id)
}

// BallLimit is the legal-ball count that exhausts an innings.
func (m *Match) BallLimit() int {
	return m.Setup.OversLimit * BallsPerOver
}

// Clone returns a deep copy of the match.
func (m *Match) Clone() *Match {
	cp := *m
	cp.Setup = m.Setup.Clone()
	cp.Innings = make([]*Innings, len(m.Innings))
	for i, inn := range m.Innings {
		cp.Innings[i] = inn.Clone()
	}
	return &cp
}

// Clone returns a deep copy of the innings.
func (inn *Innings) Clone() *Innings {
	cp := *inn
	if inn.Dismissed != nil {
		cp.Dismissed = make([]PlayerID, len(inn.Dismissed))
		copy(cp.Dismissed, inn.Dismissed)
	}
	cp.Overs = make([]*Over, len(inn.Overs))
	for i, o := range inn.Overs {
		ov := *o
		ov.Balls = make([]Ball, len(o.Balls))
		for j, b := range o.Balls {
			ov.Balls[j] = b.Clone()
		}
		cp.Overs[i] = &ov
	}
	return &cp
}
