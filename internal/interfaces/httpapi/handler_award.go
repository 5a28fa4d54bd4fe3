package httpapi

import (
	"net/http"
)

func (h *Handler) AssignAwards(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AssignAwards")
	defer span.End()

	poolID := r.PathValue("poolID")
	created, err := h.awardService.Assign(ctx, poolID)
	if err != nil {
		h.logger.WarnContext(ctx, "assign awards failed", "pool_id", poolID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"pool_id": poolID,
		"created": created,
	})
}

func (h *Handler) ListAwards(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListAwards")
	defer span.End()

	poolID := r.PathValue("poolID")
	awards, err := h.awardService.ListByPool(ctx, poolID)
	if err != nil {
		h.logger.WarnContext(ctx, "list awards failed", "pool_id", poolID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]awardDTO, 0, len(awards))
	for _, a := range awards {
		items = append(items, awardToDTO(a))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) MarkAwardDelivered(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MarkAwardDelivered")
	defer span.End()

	awardID := r.PathValue("awardID")
	if err := h.awardService.MarkDelivered(ctx, awardID); err != nil {
		h.logger.WarnContext(ctx, "mark award delivered failed", "award_id", awardID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"award_id": awardID, "status": "delivered"})
}

func (h *Handler) MarkAwardNotified(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MarkAwardNotified")
	defer span.End()

	awardID := r.PathValue("awardID")
	if err := h.awardService.MarkNotified(ctx, awardID); err != nil {
		h.logger.WarnContext(ctx, "mark award notified failed", "award_id", awardID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"award_id": awardID, "status": "notified"})
}

func (h *Handler) VoidAward(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.VoidAward")
	defer span.End()

	awardID := r.PathValue("awardID")
	if err := h.awardService.Void(ctx, awardID); err != nil {
		h.logger.WarnContext(ctx, "void award failed", "award_id", awardID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"award_id": awardID, "status": "voided"})
}
