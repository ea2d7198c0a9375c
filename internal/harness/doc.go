// Package harness runs scripted scoring scenarios against the real engine.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: wide_then_wicket
//	description: "A wide repeats the ball number; a wicket opens a vacancy"
//	policy: conditions.cue        # optional, relative to the scenario file
//	match:
//	  id: m1
//	  overs: 1
//	  toss: { winner: A, decision: bat }
//	  teams:
//	    - { id: A, name: Aces, players: [Ava, Amir, Asha] }
//	    - { id: B, name: Bolts, players: [Ben, Bea, Bo] }
//	steps:
//	  - action: start
//	  - action: batsman
//	    player: A1
//	  - action: ball
//	    ball: { bowler: B1, extras: { wides: 1 } }
//	  - action: ball
//	    ball: { bowler: B2 }
//	    expect: { error: RULE_VIOLATION, reason: bowler_changed_mid_over }
//	assertions:
//	  - type: state
//	    path: current.runs
//	    equals: 1
//	  - type: emitted_order
//	    kinds: [match_started, ball_applied]
//
// Player ids are the team id followed by the 1-based squad position, so
// Amir above is A2.
//
// # Assertion Types
//
//   - state: the value at a dotted path of the final snapshot equals a value.
//     Paths index arrays by position ("cards.0.batting.1.runs"); the
//     "result." prefix reads the match result instead.
//   - emitted_order: emission kinds appear in this order (gaps allowed)
//   - emitted_count: an emission kind appears exactly N times
//   - consistent: replaying the journal reproduces the final state and the
//     engine self-check passes
//
// # Determinism
//
// Every scenario runs against a fresh in-memory journal, and a step's
// outcome depends only on the steps before it. Transcripts of accepted and
// rejected steps are therefore stable and are compared against golden files
// with RunWithGolden.
package harness
