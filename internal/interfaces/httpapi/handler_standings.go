package httpapi

import (
	"encoding/json"
	"net/http"
	"time"
)

type standingsSnapshotDTO struct {
	CompetitionID string          `json:"competition_id"`
	SeasonID      string          `json:"season_id"`
	FetchedAt     time.Time       `json:"fetched_at"`
	Standings     json.RawMessage `json:"standings"`
}

func (h *Handler) GetCompetitionStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCompetitionStandings")
	defer span.End()

	competitionID := r.PathValue("competitionID")
	snapshot, err := h.standingsService.Get(ctx, competitionID)
	if err != nil {
		h.logger.WarnContext(ctx, "get competition standings failed", "competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, standingsSnapshotDTO{
		CompetitionID: snapshot.CompetitionID,
		SeasonID:      snapshot.SeasonID,
		FetchedAt:     snapshot.FetchedAt,
		Standings:     json.RawMessage(snapshot.Payload),
	})
}
