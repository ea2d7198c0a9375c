package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/cricket"
)

// Scenario is one scripted match.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Policy is an optional CUE playing-conditions file.
	Policy string `yaml:"policy,omitempty"`

	Match MatchSpec `yaml:"match"`

	// Steps are applied in order. A step without an expect clause must
	// succeed.
	Steps []Step `yaml:"steps"`

	Assertions []Assertion `yaml:"assertions"`
}

// MatchSpec describes the match to create.
type MatchSpec struct {
	ID    string       `yaml:"id"`
	Overs int          `yaml:"overs"`
	Toss  cricket.Toss `yaml:"toss"`
	Teams []TeamSpec   `yaml:"teams"`
}

// TeamSpec is a squad listed by player name.
type TeamSpec struct {
	ID      cricket.TeamID `yaml:"id"`
	Name    string         `yaml:"name"`
	Players []string       `yaml:"players"`
}

// Step actions.
const (
	ActionStart   = "start"
	ActionBall    = "ball"
	ActionBatsman = "batsman"
	ActionStrike  = "strike"
	ActionUndo    = "undo"
	ActionAbandon = "abandon"
)

// Step is one scorer action.
type Step struct {
	Action string            `yaml:"action"`
	Ball   *cricket.Delivery `yaml:"ball,omitempty"`
	Player cricket.PlayerID  `yaml:"player,omitempty"`
	Reason string            `yaml:"reason,omitempty"`
	Expect *Expect           `yaml:"expect,omitempty"`
}

// Expect states how a step should end. An empty Error means success.
type Expect struct {
	Error      cricket.ErrorCode `yaml:"error,omitempty"`
	Reason     string            `yaml:"reason,omitempty"`
	Emits      []string          `yaml:"emits,omitempty"`
	Commentary string            `yaml:"commentary,omitempty"`
}

// Assertion validates the final state or the emissions.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Path and Equals are used by state.
	Path   string `yaml:"path,omitempty"`
	Equals any    `yaml:"equals,omitempty"`

	// Kinds is used by emitted_order.
	Kinds []string `yaml:"kinds,omitempty"`

	// Kind and Count are used by emitted_count.
	Kind  string `yaml:"kind,omitempty"`
	Count int    `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertState        = "state"
	AssertEmittedOrder = "emitted_order"
	AssertEmittedCount = "emitted_count"
	AssertConsistent   = "consistent"
)

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected. A relative policy path is resolved against the scenario's
// directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	sc, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}
	if sc.Policy != "" && !filepath.IsAbs(sc.Policy) {
		sc.Policy = filepath.Join(filepath.Dir(path), sc.Policy)
	}
	return sc, nil
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&sc); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &sc, nil
}

// Setup builds the match setup. Player ids are team id + squad position.
func (s *Scenario) Setup() cricket.MatchSetup {
	setup := cricket.MatchSetup{
		ID:         s.Match.ID,
		OversLimit: s.Match.Overs,
		Toss:       s.Match.Toss,
	}
	for i, ts := range s.Match.Teams {
		if i >= len(setup.Teams) {
			break
		}
		team := cricket.Team{ID: ts.ID, Name: ts.Name, Players: make([]cricket.Player, len(ts.Players))}
		for j, name := range ts.Players {
			team.Players[j] = cricket.Player{
				ID:   cricket.PlayerID(fmt.Sprintf("%s%d", ts.ID, j+1)),
				Name: name,
			}
		}
		setup.Teams[i] = team
	}
	return setup
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Match.ID == "" {
		return fmt.Errorf("match.id is required")
	}
	if len(s.Match.Teams) != 2 {
		return fmt.Errorf("match.teams must list exactly two teams, got %d", len(s.Match.Teams))
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, step); err != nil {
			return err
		}
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(i, a); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(i int, step Step) error {
	switch step.Action {
	case ActionBall:
		if step.Ball == nil {
			return fmt.Errorf("steps[%d]: ball is required for %q", i, step.Action)
		}
	case ActionBatsman:
		if step.Player == "" {
			return fmt.Errorf("steps[%d]: player is required for %q", i, step.Action)
		}
	case ActionStart, ActionStrike, ActionUndo, ActionAbandon:
	case "":
		return fmt.Errorf("steps[%d]: action is required", i)
	default:
		return fmt.Errorf("steps[%d]: unknown action %q", i, step.Action)
	}
	if step.Expect != nil && step.Expect.Reason != "" && step.Expect.Error == "" {
		return fmt.Errorf("steps[%d].expect: reason requires error", i)
	}
	return nil
}

func validateAssertion(i int, a Assertion) error {
	switch a.Type {
	case AssertState:
		if a.Path == "" {
			return fmt.Errorf("assertions[%d]: path is required for state", i)
		}
	case AssertEmittedOrder:
		if len(a.Kinds) == 0 {
			return fmt.Errorf("assertions[%d]: kinds list is required for emitted_order", i)
		}
	case AssertEmittedCount:
		if a.Kind == "" {
			return fmt.Errorf("assertions[%d]: kind is required for emitted_count", i)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for emitted_count", i)
		}
	case AssertConsistent:
	case "":
		return fmt.Errorf("assertions[%d]: type is required", i)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", i, a.Type)
	}
	return nil
}
