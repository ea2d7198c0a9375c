package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/cricket"
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/engine"
)

// batsmanRequest selects the next batter.
type batsmanRequest struct {
	Player cricket.PlayerID `json:"player"`
}

// abandonRequest ends a match without a result.
type abandonRequest struct {
	Reason string `json:"reason"`
}

// CreateMatch registers a match from a MatchSetup body.
func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	var setup cricket.MatchSetup
	if err := decodeJSON(w, r, &setup); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	snap, err := h.svc.CreateMatch(r.Context(), setup)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, snap)
}

// ListMatches summarizes every match.
func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	matches := h.svc.List()
	respondJSON(w, http.StatusOK, map[string]any{
		"matches": matches,
		"count":   len(matches),
	})
}

// GetMatch returns the current snapshot.
func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Snapshot(chi.URLParam(r, "matchID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

// DeleteMatch discards a match and its journal.
func (h *Handler) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "matchID")); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetHistory returns the event log.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.History(chi.URLParam(r, "matchID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"events": events,
		"count":  len(events),
	})
}

// GetResult returns the winner and margin, or the state of the chase.
func (h *Handler) GetResult(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Result(chi.URLParam(r, "matchID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// Start opens the first innings.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Start(r.Context(), chi.URLParam(r, "matchID"))
	respondResult(w, res, err)
}

// SubmitBall records a delivery from a Delivery body.
func (h *Handler) SubmitBall(w http.ResponseWriter, r *http.Request) {
	var d cricket.Delivery
	if err := decodeJSON(w, r, &d); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	res, err := h.svc.SubmitBall(r.Context(), chi.URLParam(r, "matchID"), d)
	respondResult(w, res, err)
}

// SelectBatsman fills the vacant crease slot.
func (h *Handler) SelectBatsman(w http.ResponseWriter, r *http.Request) {
	var req batsmanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Player == "" {
		respondError(w, http.StatusBadRequest, "player is required", nil)
		return
	}
	res, err := h.svc.SelectIncomingBatsman(r.Context(), chi.URLParam(r, "matchID"), req.Player)
	respondResult(w, res, err)
}

// SwitchStrike swaps the batters.
func (h *Handler) SwitchStrike(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.SwitchStrike(r.Context(), chi.URLParam(r, "matchID"))
	respondResult(w, res, err)
}

// Undo reverts the last recorded event.
func (h *Handler) Undo(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Undo(r.Context(), chi.URLParam(r, "matchID"))
	respondResult(w, res, err)
}

// Abandon ends the match without a result.
func (h *Handler) Abandon(w http.ResponseWriter, r *http.Request) {
	var req abandonRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	res, err := h.svc.Abandon(r.Context(), chi.URLParam(r, "matchID"), req.Reason)
	respondResult(w, res, err)
}

// Watch upgrades to a WebSocket that receives every emission of the match,
// starting with its current snapshot.
func (h *Handler) Watch(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		respondError(w, http.StatusNotFound, "live updates are not enabled", nil)
		return
	}
	matchID := chi.URLParam(r, "matchID")
	snap, err := h.svc.Snapshot(matchID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	initial := &engine.Emission{
		Kind:     engine.EmitSnapshot,
		MatchID:  matchID,
		Seq:      snap.Seq,
		Snapshot: snap,
	}
	// The upgrader has already answered the client on failure.
	if err := h.hub.Serve(h.wsCtx, w, r, matchID, initial); err != nil {
		slog.Debug("websocket upgrade failed", "match_id", matchID, "error", err)
	}
}

func respondResult(w http.ResponseWriter, res *engine.Result, err error) {
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}
