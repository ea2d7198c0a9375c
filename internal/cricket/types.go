package cricket

// PlayerID identifies a player within a match.
type PlayerID string

// TeamID identifies one of the two teams in a match.
type TeamID string

// BallsPerOver is the number of legal deliveries in a completed over.
const BallsPerOver = 6

// MaxWickets is the most wickets an innings can ever record.
const MaxWickets = 10

// Mandatory one-run penalties for illegal deliveries.
const (
	WidePenalty   = 1
	NoBallPenalty = 1
)

// Player is a squad member.
type Player struct {
	ID   PlayerID `json:"id" yaml:"id"`
	Name string   `json:"name" yaml:"name"`
}

// Team is a squad of players.
type Team struct {
	ID      TeamID   `json:"id" yaml:"id"`
	Name    string   `json:"name" yaml:"name"`
	Players []Player `json:"players" yaml:"players"`
}

// Has reports whether the player belongs to the team.
func (t Team) Has(id PlayerID) bool {
	for _, p := range t.Players {
		if p.ID == id {
			return true
		}
	}
	return false
}

// PlayerName returns the display name for a player, or the id itself.
func (t Team) PlayerName(id PlayerID) string {
	for _, p := range t.Players {
		if p.ID == id {
			if p.Name != "" {
				return p.Name
			}
			break
		}
	}
	return string(id)
}

// AllOutWickets is the wicket count at which the team is bowled out.
// A squad of n players can lose at most n-1 wickets, capped at MaxWickets.
func (t Team) AllOutWickets() int {
	n := len(t.Players) - 1
	if n > MaxWickets || n < 1 {
		return MaxWickets
	}
	return n
}

// TossDecision is what the toss winner elected to do.
type TossDecision string

const (
	TossBat  TossDecision = "bat"
	TossBowl TossDecision = "bowl"
)

// Toss records the toss result.
type Toss struct {
	Winner   TeamID       `json:"winner" yaml:"winner"`
	Decision TossDecision `json:"decision" yaml:"decision"`
}

// MatchSetup is everything needed to create a match.
// It is created externally and never mutated by the engine.
type MatchSetup struct {
	ID         string  `json:"id" yaml:"id"`
	Teams      [2]Team `json:"teams" yaml:"teams"`
	OversLimit int     `json:"overs_limit" yaml:"overs_limit"`
	Toss       Toss    `json:"toss" yaml:"toss"`
}

// Team returns the team with the given id.
func (s MatchSetup) Team(id TeamID) (Team, bool) {
	for _, t := range s.Teams {
		if t.ID == id {
			return t, true
		}
	}
	return Team{}, false
}

// Opponent returns the id of the other team.
func (s MatchSetup) Opponent(id TeamID) TeamID {
	if s.Teams[0].ID == id {
		return s.Teams[1].ID
	}
	return s.Teams[0].ID
}

// BattingFirst resolves the toss into the side that bats in innings one.
func (s MatchSetup) BattingFirst() TeamID {
	if s.Toss.Decision == TossBowl {
		return s.Opponent(s.Toss.Winner)
	}
	return s.Toss.Winner
}

// Status is the coarse match status.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusAbandoned  Status = "abandoned"
)

// Phase is the lifecycle state of a match.
type Phase string

const (
	PhaseSetup                Phase = "setup"
	PhaseInningsOneInProgress Phase = "innings_one_in_progress"
	PhaseInningsOneComplete   Phase = "innings_one_complete"
	PhaseInningsTwoInProgress Phase = "innings_two_in_progress"
	PhaseInningsTwoComplete   Phase = "innings_two_complete"
	PhaseMatchComplete        Phase = "match_complete"
	PhaseAbandoned            Phase = "abandoned"
)

// Terminal reports whether no further transition is possible.
func (p Phase) Terminal() bool {
	return p == PhaseMatchComplete || p == PhaseAbandoned
}

// InProgress reports whether deliveries may be bowled in this phase.
func (p Phase) InProgress() bool {
	return p == PhaseInningsOneInProgress || p == PhaseInningsTwoInProgress
}

// Clone returns a deep copy of the setup.
func (s MatchSetup) Clone() MatchSetup {
	for i, t := range s.Teams {
		if t.Players != nil {
			s.Teams[i].Players = make([]Player, len(t.Players))
			copy(s.Teams[i].Players, t.Players)
		}
	}
	return s
}
