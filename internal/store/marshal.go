package store

import (
	"encoding/json"
	"fmt"

	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/cricket"
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/engine"
)

// marshalSetup converts a match setup to canonical JSON TEXT for storage.
func marshalSetup(setup cricket.MatchSetup) (string, error) {
	data, err := cricket.MarshalCanonical(setup)
	if err != nil {
		return "", fmt.Errorf("marshal setup: %w", err)
	}
	return string(data), nil
}

// marshalEvent converts an event to canonical JSON TEXT for storage.
// The same bytes feed the content-addressed event id.
func marshalEvent(ev engine.Event) (string, error) {
	data, err := cricket.MarshalCanonical(ev)
	if err != nil {
		return "", fmt.Errorf("marshal event: %w", err)
	}
	return string(data), nil
}

func unmarshalSetup(data string) (cricket.MatchSetup, error) {
	var setup cricket.MatchSetup
	if err := json.Unmarshal([]byte(data), &setup); err != nil {
		return cricket.MatchSetup{}, fmt.Errorf("unmarshal setup: %w", err)
	}
	return setup, nil
}

func unmarshalEvent(data string) (engine.Event, error) {
	var ev engine.Event
	if err := json.Unmarshal([]byte(data), &ev); err != nil {
		return engine.Event{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return ev, nil
}
