package cricket

import (
	"errors"
	"fmt"
)

// ScoringError represents an expected failure of a scoring operation.
//
// Scoring errors include:
//   - Rule violations: the delivery or action breaks a playing condition
//   - Invalid references: a player id is not part of the match
//   - No history: undo requested with an empty log
//   - Internal inconsistency: incremental state diverged from a replay
//
// ScoringError is returned, never panicked; callers decide whether to show
// it to a human scorer.
type ScoringError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Reason is a machine-readable rejection reason (see Reason* constants).
	Reason string

	// Message is a human-readable description.
	Message string

	// MatchID identifies the affected match when known.
	MatchID string

	// Details contains additional context.
	Details map[string]string
}

// ErrorCode categorizes scoring errors.
type ErrorCode string

const (
	// ErrCodeRuleViolation indicates a recoverable playing-condition breach.
	ErrCodeRuleViolation ErrorCode = "RULE_VIOLATION"

	// ErrCodeInvalidReference indicates a player id not in the match or team.
	ErrCodeInvalidReference ErrorCode = "INVALID_REFERENCE"

	// ErrCodeNoHistory indicates undo with an empty event log.
	ErrCodeNoHistory ErrorCode = "NO_HISTORY"

	// ErrCodeInternalInconsistency indicates recomputed state diverged.
	ErrCodeInternalInconsistency ErrorCode = "INTERNAL_INCONSISTENCY"
)

// Rejection reasons carried in ScoringError.Reason.
const (
	ReasonMatchNotInProgress  = "match_not_in_progress"
	ReasonMatchAlreadyStarted = "match_already_started"
	ReasonMatchTerminal       = "match_terminal"
	ReasonInningsComplete     = "innings_complete"
	ReasonAllOut              = "all_out"
	ReasonBatsmanRequired     = "batsman_required"
	ReasonNoVacancy           = "no_vacancy"
	ReasonBatsmanUnavailable  = "batsman_unavailable"
	ReasonConsecutiveOver     = "consecutive_over"
	ReasonBowlerRequired      = "bowler_required"
	ReasonBowlerChanged       = "bowler_changed_mid_over"
	ReasonBowlerQuota         = "bowler_quota_exceeded"
	ReasonStrikerMismatch     = "striker_mismatch"
	ReasonInvalidRuns         = "invalid_runs"
	ReasonConflictingExtras   = "conflicting_extras"
	ReasonDismissalNotAllowed = "dismissal_not_allowed"
	ReasonUnknownDismissal    = "unknown_dismissal"
	ReasonWrongBatsmanOut     = "wrong_batsman_out"
	ReasonUnknownPlayer       = "unknown_player"
	ReasonUnknownFielder      = "unknown_fielder"
	ReasonInvalidSetup        = "invalid_setup"
	ReasonEmptyHistory        = "empty_history"
	ReasonStatsDiverged       = "stats_diverged"
	ReasonRunsNotConserved    = "runs_not_conserved"
	ReasonReplayFailed        = "replay_failed"
)

// Error implements the error interface.
func (e *ScoringError) Error() string {
	if e.MatchID != "" {
		return fmt.Sprintf("%s: %s (match=%s, reason=%s)", e.Code, e.Message, e.MatchID, e.Reason)
	}
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s (reason=%s)", e.Code, e.Message, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// WithMatch returns a copy of the error tagged with a match id.
func (e *ScoringError) WithMatch(matchID string) *ScoringError {
	cp := *e
	cp.MatchID = matchID
	return &cp
}

// RuleViolation creates a RULE_VIOLATION error.
func RuleViolation(reason, format string, args ...any) *ScoringError {
	return &ScoringError{
		Code:    ErrCodeRuleViolation,
		Reason:  reason,
		Message: fmt.Sprintf(format, args...),
	}
}

// InvalidReference creates an INVALID_REFERENCE error for a player id.
func InvalidReference(reason string, id PlayerID, format string, args ...any) *ScoringError {
	return &ScoringError{
		Code:    ErrCodeInvalidReference,
		Reason:  reason,
		Message: fmt.Sprintf(format, args...),
		Details: map[string]string{"player_id": string(id)},
	}
}

// NoHistory creates a NO_HISTORY error.
func NoHistory() *ScoringError {
	return &ScoringError{
		Code:    ErrCodeNoHistory,
		Reason:  ReasonEmptyHistory,
		Message: "nothing to undo",
	}
}

// InternalInconsistency creates an INTERNAL_INCONSISTENCY error.
func InternalInconsistency(reason, format string, args ...any) *ScoringError {
	return &ScoringError{
		Code:    ErrCodeInternalInconsistency,
		Reason:  reason,
		Message: fmt.Sprintf(format, args...),
	}
}

// CodeOf returns the scoring error code of err, or "" if err is not one.
// Uses errors.As to handle wrapped errors.
func CodeOf(err error) ErrorCode {
	var se *ScoringError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// ReasonOf returns the rejection reason of err, or "".
func ReasonOf(err error) string {
	var se *ScoringError
	if errors.As(err, &se) {
		return se.Reason
	}
	return ""
}

// IsRuleViolation returns true if err is a RULE_VIOLATION.
func IsRuleViolation(err error) bool {
	return CodeOf(err) == ErrCodeRuleViolation
}

// IsInvalidReference returns true if err is an INVALID_REFERENCE.
func IsInvalidReference(err error) bool {
	return CodeOf(err) == ErrCodeInvalidReference
}

// IsNoHistory returns true if err is a NO_HISTORY error.
func IsNoHistory(err error) bool {
	return CodeOf(err) == ErrCodeNoHistory
}

// IsInternalInconsistency returns true if err is an INTERNAL_INCONSISTENCY.
func IsInternalInconsistency(err error) bool {
	return CodeOf(err) == ErrCodeInternalInconsistency
}
