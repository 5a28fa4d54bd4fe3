package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/golazo-app/quiniela/internal/usecase"
)

func (h *Handler) ListSeasonMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSeasonMatches")
	defer span.End()

	seasonID := r.PathValue("seasonID")
	matches, err := h.matchService.ListBySeason(ctx, seasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "list season matches failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchDTO, 0, len(matches))
	for _, m := range matches {
		items = append(items, matchViewToDTO(m))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	matchID := r.PathValue("matchID")
	view, err := h.matchService.Get(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchViewToDTO(view))
}

type overrideLockRequest struct {
	// Locked forces the lock state; null clears the override so the
	// kickoff clock decides again.
	Locked *bool `json:"locked"`
}

func (h *Handler) OverrideMatchLock(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.OverrideMatchLock")
	defer span.End()

	matchID := r.PathValue("matchID")

	var req overrideLockRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}

	view, err := h.matchService.OverrideLock(ctx, matchID, req.Locked)
	if err != nil {
		h.logger.WarnContext(ctx, "override match lock failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchViewToDTO(view))
}

type applyResultRequest struct {
	HomeScore *int `json:"home_score" validate:"required,min=0"`
	AwayScore *int `json:"away_score" validate:"required,min=0"`
}

func (h *Handler) ApplyMatchResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApplyMatchResult")
	defer span.End()

	matchID := r.PathValue("matchID")

	var req applyResultRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	scored, err := h.scoringService.ApplyResult(ctx, usecase.ApplyResultInput{
		MatchID:   matchID,
		HomeScore: *req.HomeScore,
		AwayScore: *req.AwayScore,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "apply match result failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"match_id":           matchID,
		"predictions_scored": scored,
	})
}

func (h *Handler) RescoreMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RescoreMatch")
	defer span.End()

	matchID := r.PathValue("matchID")
	scored, err := h.scoringService.RescoreMatch(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "rescore match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"match_id":           matchID,
		"predictions_scored": scored,
	})
}
