package engine

import (
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/cricket"
)

// EventKind identifies a recorded scoring action.
type EventKind string

const (
	EventStart         EventKind = "start"
	EventBall          EventKind = "ball"
	EventSelectBatsman EventKind = "select_batsman"
	EventSwitchStrike  EventKind = "switch_strike"
	EventAbandon       EventKind = "abandon"
)

// Event is one entry in a match's history. Balls are stored normalized, so
// replaying an event never re-runs validation.
type Event struct {
	Seq    int64            `json:"seq"`
	Kind   EventKind        `json:"kind"`
	Ball   *cricket.Ball    `json:"ball,omitempty"`
	Player cricket.PlayerID `json:"player,omitempty"`
	Reason string           `json:"reason,omitempty"`
}

// EmissionKind identifies a notification for external broadcasters.
type EmissionKind string

const (
	EmitMatchStarted    EmissionKind = "match_started"
	EmitBallApplied     EmissionKind = "ball_applied"
	EmitBatsmanSelected EmissionKind = "batsman_selected"
	EmitStrikeSwitched  EmissionKind = "strike_switched"
	EmitInningsComplete EmissionKind = "innings_complete"
	EmitMatchComplete   EmissionKind = "match_complete"
	EmitMatchAbandoned  EmissionKind = "match_abandoned"
	EmitStateReverted   EmissionKind = "state_reverted"

	// EmitSnapshot is never produced by a Session. Transports send it to a
	// viewer that has just connected.
	EmitSnapshot EmissionKind = "snapshot"
)

// Emission is a notification produced by an operation. Commentary is set
// only on ball_applied.
type Emission struct {
	Kind       EmissionKind `json:"kind"`
	MatchID    string       `json:"match_id"`
	Seq        int64        `json:"seq"`
	Innings    int          `json:"innings,omitempty"`
	Commentary string       `json:"commentary,omitempty"`
	Snapshot   *Snapshot    `json:"snapshot"`
}

// Result is what every mutating Session operation returns.
type Result struct {
	Snapshot  *Snapshot  `json:"snapshot"`
	Emissions []Emission `json:"emissions"`
}
