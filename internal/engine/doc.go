// Package engine implements the per-match scoring state machine.
//
// A Session owns one match. Every operation follows the same path:
//
//  1. Validate the request against current state (package rules)
//  2. Record it as an Event in the match's ordered log
//  3. Apply the event: ball processor, statistics, lifecycle
//  4. Return a Snapshot plus the Emissions for external broadcasters
//
// The apply step is the same code whether an event is new or being
// replayed. Undo drops the last event and replays the rest from an empty
// match, so the state after undo is exactly the state that existed before
// the undone event. Restoring a match from storage is the same replay.
//
// A Session is not safe for concurrent use. Callers serialize operations
// per match (see package scorer); different matches are independent.
//
// The engine performs no I/O. Dispatcher is the one asynchronous piece: it
// hands emissions to sinks on its own goroutine so a slow broadcaster
// never delays scoring.
package engine
