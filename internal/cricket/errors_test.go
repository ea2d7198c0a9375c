package cricket

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoringError_Error(t *testing.T) {
	err := RuleViolation(ReasonConsecutiveOver, "%q bowled the previous over", "B1")
	assert.Equal(t, `RULE_VIOLATION: "B1" bowled the previous over (reason=consecutive_over)`, err.Error())

	tagged := err.WithMatch("m1")
	assert.Equal(t, `RULE_VIOLATION: "B1" bowled the previous over (match=m1, reason=consecutive_over)`, tagged.Error())
	assert.Empty(t, err.MatchID, "WithMatch must not modify the original")

	bare := &ScoringError{Code: ErrCodeInternalInconsistency, Message: "boom"}
	assert.Equal(t, "INTERNAL_INCONSISTENCY: boom", bare.Error())
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name string
		err  error
		rv   bool
		ir   bool
		nh   bool
		ii   bool
	}{
		{"rule violation", RuleViolation(ReasonAllOut, "all out"), true, false, false, false},
		{"invalid reference", InvalidReference(ReasonUnknownPlayer, "Z9", "who"), false, true, false, false},
		{"no history", NoHistory(), false, false, true, false},
		{"internal", InternalInconsistency(ReasonStatsDiverged, "diverged"), false, false, false, true},
		{"wrapped", fmt.Errorf("submit: %w", NoHistory()), false, false, true, false},
		{"plain error", fmt.Errorf("io"), false, false, false, false},
		{"nil", nil, false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.rv, IsRuleViolation(tt.err))
			assert.Equal(t, tt.ir, IsInvalidReference(tt.err))
			assert.Equal(t, tt.nh, IsNoHistory(tt.err))
			assert.Equal(t, tt.ii, IsInternalInconsistency(tt.err))
		})
	}
}

func TestInvalidReference_Details(t *testing.T) {
	err := InvalidReference(ReasonUnknownFielder, "X1", "fielder %q unknown", "X1")
	assert.Equal(t, "X1", err.Details["player_id"])
	assert.Equal(t, ReasonUnknownFielder, ReasonOf(err))
	assert.Equal(t, ErrCodeInvalidReference, CodeOf(err))
	assert.Equal(t, "", ReasonOf(fmt.Errorf("plain")))
}
