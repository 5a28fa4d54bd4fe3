package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golazo-app/quiniela/internal/domain/award"
	"github.com/golazo-app/quiniela/internal/domain/pool"
	"github.com/golazo-app/quiniela/internal/domain/prediction"
	"github.com/golazo-app/quiniela/internal/platform/logging"
	"github.com/golazo-app/quiniela/internal/usecase"
)

type Handler struct {
	poolService        *usecase.PoolService
	matchService       *usecase.MatchService
	predictionService  *usecase.PredictionService
	scoringService     *usecase.ScoringService
	leaderboardService *usecase.LeaderboardService
	awardService       *usecase.AwardService
	standingsService   *usecase.StandingsService
	jobService         *usecase.JobService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	poolService *usecase.PoolService,
	matchService *usecase.MatchService,
	predictionService *usecase.PredictionService,
	scoringService *usecase.ScoringService,
	leaderboardService *usecase.LeaderboardService,
	awardService *usecase.AwardService,
	standingsService *usecase.StandingsService,
	jobService *usecase.JobService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		poolService:        poolService,
		matchService:       matchService,
		predictionService:  predictionService,
		scoringService:     scoringService,
		leaderboardService: leaderboardService,
		awardService:       awardService,
		standingsService:   standingsService,
		jobService:         jobService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type roundRangeDTO struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

type ruleSetDTO struct {
	ExactPoints int            `json:"exact_points"`
	DiffPoints  int            `json:"diff_points"`
	SignPoints  int            `json:"sign_points"`
	Rounds      *roundRangeDTO `json:"rounds,omitempty"`
}

type poolDTO struct {
	ID        string     `json:"id"`
	Slug      string     `json:"slug"`
	SeasonID  string     `json:"season_id"`
	RuleSet   ruleSetDTO `json:"rule_set"`
	Retired   bool       `json:"retired"`
	CreatedAt time.Time  `json:"created_at"`
}

func poolToDTO(p pool.Pool) poolDTO {
	dto := poolDTO{
		ID:       p.ID,
		Slug:     p.Slug,
		SeasonID: p.SeasonID,
		RuleSet: ruleSetDTO{
			ExactPoints: p.RuleSet.ExactPoints,
			DiffPoints:  p.RuleSet.DiffPoints,
			SignPoints:  p.RuleSet.SignPoints,
		},
		Retired:   p.Retired(),
		CreatedAt: p.CreatedAt,
	}
	if p.RuleSet.Rounds != nil {
		dto.RuleSet.Rounds = &roundRangeDTO{
			Start: p.RuleSet.Rounds.Start,
			End:   p.RuleSet.Rounds.End,
		}
	}
	return dto
}

type matchDTO struct {
	ID        string    `json:"id"`
	SeasonID  string    `json:"season_id"`
	Round     int       `json:"round"`
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	KickoffAt time.Time `json:"kickoff_at"`
	HomeScore *int      `json:"home_score,omitempty"`
	AwayScore *int      `json:"away_score,omitempty"`
	Locked    bool      `json:"locked"`
}

func matchViewToDTO(v usecase.MatchView) matchDTO {
	return matchDTO{
		ID:        v.ID,
		SeasonID:  v.SeasonID,
		Round:     v.Round,
		HomeTeam:  v.HomeTeam,
		AwayTeam:  v.AwayTeam,
		KickoffAt: v.KickoffAt,
		HomeScore: v.HomeScore,
		AwayScore: v.AwayScore,
		Locked:    v.Locked,
	}
}

type predictionDTO struct {
	ID          string    `json:"id"`
	PoolID      string    `json:"pool_id"`
	MatchID     string    `json:"match_id"`
	UserID      string    `json:"user_id"`
	HomeScore   int       `json:"home_score"`
	AwayScore   int       `json:"away_score"`
	SubmittedAt time.Time `json:"submitted_at"`
	Points      *int      `json:"points,omitempty"`
}

func predictionToDTO(p prediction.Prediction) predictionDTO {
	return predictionDTO{
		ID:          p.ID,
		PoolID:      p.PoolID,
		MatchID:     p.MatchID,
		UserID:      p.UserID,
		HomeScore:   p.HomeScore,
		AwayScore:   p.AwayScore,
		SubmittedAt: p.SubmittedAt,
		Points:      p.Points,
	}
}

type awardDTO struct {
	ID          string     `json:"id"`
	PoolID      string     `json:"pool_id"`
	UserID      string     `json:"user_id"`
	Rank        int        `json:"rank"`
	PrizeID     string     `json:"prize_id"`
	RankFrom    int        `json:"rank_from"`
	RankTo      int        `json:"rank_to"`
	AwardedAt   time.Time  `json:"awarded_at"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
	Notified    bool       `json:"notified"`
	VoidedAt    *time.Time `json:"voided_at,omitempty"`
}

func awardToDTO(a award.Award) awardDTO {
	return awardDTO{
		ID:          a.ID,
		PoolID:      a.PoolID,
		UserID:      a.UserID,
		Rank:        a.Rank,
		PrizeID:     a.PrizeID,
		RankFrom:    a.RankFrom,
		RankTo:      a.RankTo,
		AwardedAt:   a.AwardedAt,
		DeliveredAt: a.DeliveredAt,
		Notified:    a.Notified,
		VoidedAt:    a.VoidedAt,
	}
}
