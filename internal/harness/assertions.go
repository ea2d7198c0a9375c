package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/engine"
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/rules"
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/store"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, ev := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s %s %v\n", ev.Step, ev.Action, ev.Detail, ev.Emissions)
		}
	}
	return buf.String()
}

// assertState checks one value of the final snapshot.
func assertState(result *Result, a Assertion) error {
	doc, err := stateDocument(result)
	if err != nil {
		return err
	}

	actual, err := lookupPath(doc, a.Path)
	if err != nil {
		return &AssertionError{
			Type:     AssertState,
			Expected: fmt.Sprintf("%s = %v", a.Path, a.Equals),
			Actual:   err.Error(),
		}
	}
	if !valuesEqual(actual, a.Equals) {
		return &AssertionError{
			Type:     AssertState,
			Expected: fmt.Sprintf("%s = %v (type %T)", a.Path, a.Equals, a.Equals),
			Actual:   fmt.Sprintf("%s = %v (type %T)", a.Path, actual, actual),
		}
	}
	return nil
}

// assertEmittedOrder checks that kinds appear in order. Gaps are allowed
// and a kind may match any later occurrence.
func assertEmittedOrder(result *Result, a Assertion) error {
	emitted := result.Emitted()
	pos := 0
	for _, want := range a.Kinds {
		found := false
		for pos < len(emitted) {
			pos++
			if emitted[pos-1] == want {
				found = true
				break
			}
		}
		if !found {
			return &AssertionError{
				Type:     AssertEmittedOrder,
				Expected: fmt.Sprintf("emissions in order: %v", a.Kinds),
				Actual:   fmt.Sprintf("%s missing after position %d of %v", want, pos, emitted),
				Trace:    result.Trace,
			}
		}
	}
	return nil
}

// assertEmittedCount checks that a kind was emitted exactly Count times.
func assertEmittedCount(result *Result, a Assertion) error {
	count := 0
	for _, k := range result.Emitted() {
		if k == a.Kind {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertEmittedCount,
			Expected: fmt.Sprintf("%d occurrences of %s", a.Count, a.Kind),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertConsistent replays the journal and compares it with the live
// snapshot, then runs the engine self-check on the replayed session.
func assertConsistent(ctx context.Context, st *store.Store, policy *rules.Policy, result *Result) error {
	if result.Snapshot == nil {
		return fmt.Errorf("consistent assertion requires a final snapshot")
	}
	sess, err := st.LoadSession(ctx, result.Snapshot.MatchID, policy)
	if err != nil {
		return &AssertionError{
			Type:     AssertConsistent,
			Expected: "journal replays",
			Actual:   err.Error(),
		}
	}
	if got := sess.Snapshot().Digest; got != result.Snapshot.Digest {
		return &AssertionError{
			Type:     AssertConsistent,
			Expected: fmt.Sprintf("replayed digest %s", result.Snapshot.Digest),
			Actual:   fmt.Sprintf("replayed digest %s", got),
		}
	}
	if err := engine.Verify(sess); err != nil {
		return &AssertionError{
			Type:     AssertConsistent,
			Expected: "self-check passes",
			Actual:   err.Error(),
		}
	}
	return nil
}

// stateDocument is the JSON view of the final snapshot with the match
// result under "result".
func stateDocument(result *Result) (map[string]any, error) {
	data, err := json.Marshal(result.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	data, err = json.Marshal(result.Outcome)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	var outcome any
	if err := json.Unmarshal(data, &outcome); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	doc["result"] = outcome
	return doc, nil
}

// lookupPath walks a decoded JSON document along a dotted path. Numeric
// segments index arrays.
func lookupPath(doc any, path string) (any, error) {
	cur := doc
	for _, seg := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[seg]
			if !ok {
				return nil, fmt.Errorf("%s: no field %q", path, seg)
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil {
				return nil, fmt.Errorf("%s: %q is not an index", path, seg)
			}
			if i < 0 || i >= len(node) {
				return nil, fmt.Errorf("%s: index %d out of range (len %d)", path, i, len(node))
			}
			cur = node[i]
		default:
			return nil, fmt.Errorf("%s: cannot descend into %T at %q", path, cur, seg)
		}
	}
	return cur, nil
}

// valuesEqual compares a decoded JSON value with a YAML-parsed expectation.
// JSON numbers decode as float64 while YAML integers decode as int.
func valuesEqual(actual, expected any) bool {
	if a, ok := toFloat(actual); ok {
		if e, ok := toFloat(expected); ok {
			return a == e
		}
		return false
	}
	return reflect.DeepEqual(actual, expected)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// AssertionContext provides what the consistent assertion needs.
type AssertionContext struct {
	Ctx    context.Context
	Store  *store.Store
	Policy *rules.Policy
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, a := range assertions {
		var err error

		switch a.Type {
		case AssertState:
			err = assertState(result, a)
		case AssertEmittedOrder:
			err = assertEmittedOrder(result, a)
		case AssertEmittedCount:
			err = assertEmittedCount(result, a)
		case AssertConsistent:
			if actx == nil || actx.Store == nil {
				err = fmt.Errorf("assertion[%d]: consistent requires a journal", i)
			} else {
				err = assertConsistent(actx.Ctx, actx.Store, actx.Policy, result)
			}
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, a.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}
	return errors
}
