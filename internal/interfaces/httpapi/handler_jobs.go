package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/golazo-app/quiniela/internal/usecase"
	jsoniter "github.com/json-iterator/go"
	"go.opentelemetry.io/otel/trace"
)

type standingsMaintenanceJobRequest struct {
	Reschedule bool `json:"reschedule"`
}

func (h *Handler) RunStandingsMaintenanceJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunStandingsMaintenanceJob")
	defer span.End()

	if h.jobService == nil {
		writeError(ctx, w, fmt.Errorf("%w: job service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req standingsMaintenanceJobRequest
	if err := decodeInternalJobRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.jobService.RunStandingsMaintenance(ctx, usecase.StandingsMaintenanceInput{
		Reschedule: req.Reschedule,
	})
	if err != nil {
		traceID, spanID := traceMetaFromContext(ctx)
		h.logger.WarnContext(ctx, "standings maintenance job failed",
			"reschedule", req.Reschedule,
			"trace_id", traceID,
			"span_id", spanID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

type rescoreJobRequest struct {
	MatchIDs []string `json:"match_ids" validate:"required,min=1,dive,required"`
}

func (h *Handler) RunRescoreJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRescoreJob")
	defer span.End()

	var req rescoreJobRequest
	if err := decodeInternalJobRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	report, err := h.scoringService.RescoreMatches(ctx, req.MatchIDs)
	if err != nil {
		traceID, spanID := traceMetaFromContext(ctx)
		h.logger.WarnContext(ctx, "rescore job failed",
			"matches", len(req.MatchIDs),
			"trace_id", traceID,
			"span_id", spanID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}

// decodeInternalJobRequest tolerates an empty body so the scheduler can hit
// job routes without a payload.
func decodeInternalJobRequest(r *http.Request, target any) error {
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func traceMetaFromContext(ctx context.Context) (string, string) {
	spanContext := trace.SpanContextFromContext(ctx)
	if !spanContext.IsValid() {
		return "", ""
	}
	return spanContext.TraceID().String(), spanContext.SpanID().String()
}
