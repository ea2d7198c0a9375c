package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/cricket"
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/scorer"
)

const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Code    string            `json:"code,omitempty"`
	Reason  string            `json:"reason,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		slog.Debug("request failed", "status", status, "message", message, "error", err)
	}
	respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

// respondServiceError maps a scorer error to a status. Scoring errors carry
// their code and reason so clients can react without parsing messages.
func respondServiceError(w http.ResponseWriter, err error) {
	var se *cricket.ScoringError
	if errors.As(err, &se) {
		status := statusForCode(se.Code)
		if status >= http.StatusInternalServerError {
			slog.Error("scoring failure", "match_id", se.MatchID, "reason", se.Reason, "error", err)
		}
		respondJSON(w, status, ErrorResponse{
			Error:   http.StatusText(status),
			Message: se.Message,
			Code:    string(se.Code),
			Reason:  se.Reason,
			Details: se.Details,
		})
		return
	}

	switch {
	case errors.Is(err, scorer.ErrMatchNotFound):
		respondError(w, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, scorer.ErrMatchExists):
		respondError(w, http.StatusConflict, err.Error(), nil)
	default:
		slog.Error("request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error", nil)
	}
}

func statusForCode(code cricket.ErrorCode) int {
	switch code {
	case cricket.ErrCodeRuleViolation, cricket.ErrCodeNoHistory:
		return http.StatusConflict
	case cricket.ErrCodeInvalidReference:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
