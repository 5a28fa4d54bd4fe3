package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/golazo-app/quiniela/internal/domain/pool"
	"github.com/golazo-app/quiniela/internal/usecase"
)

func (h *Handler) ListPools(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPools")
	defer span.End()

	pools, err := h.poolService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list pools failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]poolDTO, 0, len(pools))
	for _, p := range pools {
		items = append(items, poolToDTO(p))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetPool(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPool")
	defer span.End()

	poolID := r.PathValue("poolID")
	p, err := h.poolService.Get(ctx, poolID)
	if err != nil {
		h.logger.WarnContext(ctx, "get pool failed", "pool_id", poolID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, poolToDTO(p))
}

type updateRuleSetRequest struct {
	ExactPoints int                `json:"exact_points" validate:"min=0"`
	DiffPoints  int                `json:"diff_points" validate:"min=0"`
	SignPoints  int                `json:"sign_points" validate:"min=0"`
	Rounds      *roundRangeRequest `json:"rounds,omitempty"`
}

type roundRangeRequest struct {
	Start int `json:"start" validate:"required,gt=0"`
	End   int `json:"end" validate:"required,gt=0"`
}

func (h *Handler) UpdatePoolRuleSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdatePoolRuleSet")
	defer span.End()

	poolID := r.PathValue("poolID")

	var req updateRuleSetRequest
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

	ruleSet := pool.RuleSet{
		ExactPoints: req.ExactPoints,
		DiffPoints:  req.DiffPoints,
		SignPoints:  req.SignPoints,
	}
	if req.Rounds != nil {
		ruleSet.Rounds = &pool.RoundRange{Start: req.Rounds.Start, End: req.Rounds.End}
	}

	report, err := h.poolService.UpdateRuleSet(ctx, poolID, ruleSet)
	if err != nil {
		h.logger.WarnContext(ctx, "update pool rule set failed", "pool_id", poolID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}

func (h *Handler) RetirePool(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RetirePool")
	defer span.End()

	poolID := r.PathValue("poolID")
	if err := h.poolService.Retire(ctx, poolID); err != nil {
		h.logger.WarnContext(ctx, "retire pool failed", "pool_id", poolID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"pool_id": poolID, "status": "retired"})
}

type leaderboardEntryDTO struct {
	UserID      string `json:"user_id"`
	TotalPoints int    `json:"total_points"`
	Rank        int    `json:"rank"`
}

func (h *Handler) GetPoolLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPoolLeaderboard")
	defer span.End()

	poolID := r.PathValue("poolID")
	entries, err := h.leaderboardService.Compute(ctx, poolID)
	if err != nil {
		h.logger.WarnContext(ctx, "compute leaderboard failed", "pool_id", poolID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leaderboardEntryDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, leaderboardEntryDTO{
			UserID:      entry.UserID,
			TotalPoints: entry.TotalPoints,
			Rank:        entry.Rank,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
