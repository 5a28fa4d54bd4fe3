package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golazo-app/quiniela/internal/domain/match"
	"github.com/golazo-app/quiniela/internal/domain/pool"
	"github.com/golazo-app/quiniela/internal/domain/prediction"
	"github.com/golazo-app/quiniela/internal/domain/registration"
	idgen "github.com/golazo-app/quiniela/internal/platform/id"
	"github.com/golazo-app/quiniela/internal/platform/logging"
)

// Skip reason codes reported per item by BulkSave.
const (
	SkipReasonLocked        = "LOCKED"
	SkipReasonInvalidScore  = "INVALID_SCORE"
	SkipReasonMatchNotFound = "MATCH_NOT_FOUND"
)

type PredictionService struct {
	poolRepo         pool.Repository
	matchRepo        match.Repository
	registrationRepo registration.Repository
	predictionRepo   prediction.Repository
	idGen            idgen.Generator
	logger           *logging.Logger
	now              func() time.Time
}

type SubmitPredictionInput struct {
	UserID    string
	PoolID    string
	MatchID   string
	HomeScore int
	AwayScore int
}

type BulkPredictionItem struct {
	MatchID   string
	HomeScore int
	AwayScore int
}

type SkippedPrediction struct {
	MatchID string `json:"match_id"`
	Reason  string `json:"reason"`
}

// BulkSaveResult carries one outcome per submitted item: an item that fails
// its own preconditions lands in Skipped without aborting the rest.
type BulkSaveResult struct {
	Saved   []prediction.Prediction
	Skipped []SkippedPrediction
}

func NewPredictionService(
	poolRepo pool.Repository,
	matchRepo match.Repository,
	registrationRepo registration.Repository,
	predictionRepo prediction.Repository,
	idGen idgen.Generator,
	logger *logging.Logger,
) *PredictionService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PredictionService{
		poolRepo:         poolRepo,
		matchRepo:        matchRepo,
		registrationRepo: registrationRepo,
		predictionRepo:   predictionRepo,
		idGen:            idGen,
		logger:           logger,
		now:              time.Now,
	}
}

func (s *PredictionService) Submit(ctx context.Context, input SubmitPredictionInput) (prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Submit")
	defer span.End()

	p, err := s.resolvePool(ctx, input.PoolID)
	if err != nil {
		return prediction.Prediction{}, err
	}
	if err := s.requireRegistration(ctx, input.UserID, input.PoolID); err != nil {
		return prediction.Prediction{}, err
	}

	if !prediction.ValidScore(input.HomeScore) || !prediction.ValidScore(input.AwayScore) {
		return prediction.Prediction{}, fmt.Errorf("%w: score must be between %d and %d",
			ErrInvalidInput, prediction.MinScore, prediction.MaxScore)
	}

	m, exists, err := s.matchRepo.GetByID(ctx, input.MatchID)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("get match: %w", err)
	}
	if !exists || m.SeasonID != p.SeasonID {
		return prediction.Prediction{}, fmt.Errorf("%w: match=%s", ErrNotFound, input.MatchID)
	}

	// The lock check runs with a fresh clock reading immediately before the
	// upsert: a match crossing its kickoff between caller and write is
	// rejected rather than silently accepted.
	now := s.now().UTC()
	if m.IsLocked(now) {
		return prediction.Prediction{}, fmt.Errorf("%w: match %s is locked", ErrForbidden, m.ID)
	}

	predictionID, err := s.idGen.NewID()
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("generate prediction id: %w", err)
	}
	saved, err := s.predictionRepo.Upsert(ctx, prediction.Prediction{
		ID:          predictionID,
		PoolID:      input.PoolID,
		MatchID:     input.MatchID,
		UserID:      input.UserID,
		HomeScore:   input.HomeScore,
		AwayScore:   input.AwayScore,
		SubmittedAt: now,
	})
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("upsert prediction pool=%s match=%s: %w", input.PoolID, input.MatchID, err)
	}
	return saved, nil
}

// BulkSave applies Submit's preconditions independently per item. The batch is
// never all-or-nothing: invalid or locked items are reported in Skipped while
// everything else commits. The lock state is evaluated per item at that item's
// write instant, so a batch straddling a kickoff saves the still-open matches
// and skips the one that just locked.
func (s *PredictionService) BulkSave(ctx context.Context, userID, poolID string, items []BulkPredictionItem) (BulkSaveResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.BulkSave")
	defer span.End()

	p, err := s.resolvePool(ctx, poolID)
	if err != nil {
		return BulkSaveResult{}, err
	}
	if err := s.requireRegistration(ctx, userID, poolID); err != nil {
		return BulkSaveResult{}, err
	}

	result := BulkSaveResult{
		Saved:   make([]prediction.Prediction, 0, len(items)),
		Skipped: make([]SkippedPrediction, 0),
	}

	for _, item := range items {
		if !prediction.ValidScore(item.HomeScore) || !prediction.ValidScore(item.AwayScore) {
			result.Skipped = append(result.Skipped, SkippedPrediction{MatchID: item.MatchID, Reason: SkipReasonInvalidScore})
			continue
		}

		m, exists, err := s.matchRepo.GetByID(ctx, item.MatchID)
		if err != nil {
			return BulkSaveResult{}, fmt.Errorf("get match %s for bulk save: %w", item.MatchID, err)
		}
		if !exists || m.SeasonID != p.SeasonID {
			result.Skipped = append(result.Skipped, SkippedPrediction{MatchID: item.MatchID, Reason: SkipReasonMatchNotFound})
			continue
		}

		now := s.now().UTC()
		if m.IsLocked(now) {
			result.Skipped = append(result.Skipped, SkippedPrediction{MatchID: item.MatchID, Reason: SkipReasonLocked})
			continue
		}

		predictionID, err := s.idGen.NewID()
		if err != nil {
			return BulkSaveResult{}, fmt.Errorf("generate prediction id: %w", err)
		}
		saved, err := s.predictionRepo.Upsert(ctx, prediction.Prediction{
			ID:          predictionID,
			PoolID:      poolID,
			MatchID:     item.MatchID,
			UserID:      userID,
			HomeScore:   item.HomeScore,
			AwayScore:   item.AwayScore,
			SubmittedAt: now,
		})
		if err != nil {
			return BulkSaveResult{}, fmt.Errorf("upsert prediction pool=%s match=%s: %w", poolID, item.MatchID, err)
		}
		result.Saved = append(result.Saved, saved)
	}

	if len(result.Skipped) > 0 {
		s.logger.InfoContext(ctx, "bulk prediction save finished with skips",
			"pool_id", poolID,
			"user_id", userID,
			"saved", len(result.Saved),
			"skipped", len(result.Skipped),
		)
	}
	return result, nil
}

func (s *PredictionService) ListMine(ctx context.Context, userID, poolID string) ([]prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.ListMine")
	defer span.End()

	if _, err := s.resolvePool(ctx, poolID); err != nil {
		return nil, err
	}
	if err := s.requireRegistration(ctx, userID, poolID); err != nil {
		return nil, err
	}

	items, err := s.predictionRepo.ListByUserAndPool(ctx, userID, poolID)
	if err != nil {
		return nil, fmt.Errorf("list predictions user=%s pool=%s: %w", userID, poolID, err)
	}
	return items, nil
}

func (s *PredictionService) resolvePool(ctx context.Context, poolID string) (pool.Pool, error) {
	poolID = strings.TrimSpace(poolID)
	if poolID == "" {
		return pool.Pool{}, fmt.Errorf("%w: pool id is required", ErrInvalidInput)
	}

	p, exists, err := s.poolRepo.GetByID(ctx, poolID)
	if err != nil {
		return pool.Pool{}, fmt.Errorf("get pool: %w", err)
	}
	if !exists {
		return pool.Pool{}, fmt.Errorf("%w: pool=%s", ErrNotFound, poolID)
	}
	if p.Retired() {
		return pool.Pool{}, fmt.Errorf("%w: pool %s is retired", ErrForbidden, poolID)
	}
	return p, nil
}

func (s *PredictionService) requireRegistration(ctx context.Context, userID, poolID string) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	registered, err := s.registrationRepo.Exists(ctx, userID, poolID)
	if err != nil {
		return fmt.Errorf("check registration user=%s pool=%s: %w", userID, poolID, err)
	}
	if !registered {
		return fmt.Errorf("%w: user %s is not registered in pool %s", ErrForbidden, userID, poolID)
	}
	return nil
}
