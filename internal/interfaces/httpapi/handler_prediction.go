package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/golazo-app/quiniela/internal/usecase"
)

type submitPredictionRequest struct {
	MatchID   string `json:"match_id" validate:"required"`
	HomeScore int    `json:"home_score" validate:"min=0,max=99"`
	AwayScore int    `json:"away_score" validate:"min=0,max=99"`
}

func (h *Handler) SubmitPrediction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitPrediction")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	poolID := r.PathValue("poolID")

	var req submitPredictionRequest
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

	saved, err := h.predictionService.Submit(ctx, usecase.SubmitPredictionInput{
		UserID:    principal.UserID,
		PoolID:    poolID,
		MatchID:   req.MatchID,
		HomeScore: req.HomeScore,
		AwayScore: req.AwayScore,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit prediction failed", "user_id", principal.UserID, "pool_id", poolID, "match_id", req.MatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, predictionToDTO(saved))
}

type bulkPredictionItemRequest struct {
	MatchID   string `json:"match_id" validate:"required"`
	HomeScore int    `json:"home_score"`
	AwayScore int    `json:"away_score"`
}

type bulkPredictionsRequest struct {
	Predictions []bulkPredictionItemRequest `json:"predictions" validate:"required,min=1,dive"`
}

type bulkPredictionsResponse struct {
	Saved   []predictionDTO             `json:"saved"`
	Skipped []usecase.SkippedPrediction `json:"skipped"`
}

func (h *Handler) BulkSavePredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.BulkSavePredictions")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	poolID := r.PathValue("poolID")

	var req bulkPredictionsRequest
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

	items := make([]usecase.BulkPredictionItem, 0, len(req.Predictions))
	for _, item := range req.Predictions {
		items = append(items, usecase.BulkPredictionItem{
			MatchID:   item.MatchID,
			HomeScore: item.HomeScore,
			AwayScore: item.AwayScore,
		})
	}

	result, err := h.predictionService.BulkSave(ctx, principal.UserID, poolID, items)
	if err != nil {
		h.logger.WarnContext(ctx, "bulk save predictions failed", "user_id", principal.UserID, "pool_id", poolID, "error", err)
		writeError(ctx, w, err)
		return
	}

	saved := make([]predictionDTO, 0, len(result.Saved))
	for _, p := range result.Saved {
		saved = append(saved, predictionToDTO(p))
	}
	skipped := result.Skipped
	if skipped == nil {
		skipped = []usecase.SkippedPrediction{}
	}

	writeSuccess(ctx, w, http.StatusOK, bulkPredictionsResponse{
		Saved:   saved,
		Skipped: skipped,
	})
}

func (h *Handler) ListMyPredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyPredictions")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	poolID := r.PathValue("poolID")
	predictions, err := h.predictionService.ListMine(ctx, principal.UserID, poolID)
	if err != nil {
		h.logger.WarnContext(ctx, "list my predictions failed", "user_id", principal.UserID, "pool_id", poolID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]predictionDTO, 0, len(predictions))
	for _, p := range predictions {
		items = append(items, predictionToDTO(p))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
