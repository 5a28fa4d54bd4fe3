package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/golazo-app/quiniela/internal/domain/match"
	"github.com/golazo-app/quiniela/internal/domain/pool"
	"github.com/golazo-app/quiniela/internal/platform/logging"
)

type PoolService struct {
	poolRepo   pool.Repository
	matchRepo  match.Repository
	scoringSvc *ScoringService
	logger     *logging.Logger
}

func NewPoolService(
	poolRepo pool.Repository,
	matchRepo match.Repository,
	scoringSvc *ScoringService,
	logger *logging.Logger,
) *PoolService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PoolService{
		poolRepo:   poolRepo,
		matchRepo:  matchRepo,
		scoringSvc: scoringSvc,
		logger:     logger,
	}
}

func (s *PoolService) List(ctx context.Context) ([]pool.Pool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PoolService.List")
	defer span.End()

	pools, err := s.poolRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pools: %w", err)
	}
	return pools, nil
}

func (s *PoolService) Get(ctx context.Context, poolID string) (pool.Pool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PoolService.Get")
	defer span.End()

	p, exists, err := s.poolRepo.GetByID(ctx, poolID)
	if err != nil {
		return pool.Pool{}, fmt.Errorf("get pool: %w", err)
	}
	if !exists {
		return pool.Pool{}, fmt.Errorf("%w: pool=%s", ErrNotFound, poolID)
	}
	return p, nil
}

// UpdateRuleSet replaces the pool's scoring configuration and rescores every
// finished match in the pool's season so stored points match the new weights.
func (s *PoolService) UpdateRuleSet(ctx context.Context, poolID string, ruleSet pool.RuleSet) (RescoreReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PoolService.UpdateRuleSet")
	defer span.End()

	if err := ruleSet.Validate(); err != nil {
		return RescoreReport{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	p, err := s.Get(ctx, poolID)
	if err != nil {
		return RescoreReport{}, err
	}
	if p.Retired() {
		return RescoreReport{}, fmt.Errorf("%w: pool %s is retired", ErrForbidden, poolID)
	}

	if err := s.poolRepo.UpdateRuleSet(ctx, poolID, ruleSet); err != nil {
		return RescoreReport{}, fmt.Errorf("update rule set pool=%s: %w", poolID, err)
	}

	matches, err := s.matchRepo.ListBySeason(ctx, p.SeasonID)
	if err != nil {
		return RescoreReport{}, fmt.Errorf("list matches season=%s: %w", p.SeasonID, err)
	}
	matchIDs := make([]string, 0, len(matches))
	for _, m := range matches {
		if m.HasResult() {
			matchIDs = append(matchIDs, m.ID)
		}
	}
	report, err := s.scoringSvc.RescoreMatches(ctx, matchIDs)
	if err != nil {
		return report, err
	}

	s.logger.InfoContext(ctx, "pool rule set updated",
		"pool_id", poolID,
		"rescored_matches", report.Matches,
		"rescored_predictions", report.Predictions,
	)
	return report, nil
}

// Retire closes the pool. Retired pools reject new predictions but stay
// readable for leaderboards and award exports.
func (s *PoolService) Retire(ctx context.Context, poolID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.PoolService.Retire")
	defer span.End()

	p, err := s.Get(ctx, poolID)
	if err != nil {
		return err
	}
	if p.Retired() {
		return nil
	}
	if err := s.poolRepo.Retire(ctx, poolID); err != nil {
		return fmt.Errorf("retire pool=%s: %w", poolID, err)
	}
	s.logger.InfoContext(ctx, "pool retired", "pool_id", poolID, "slug", strings.TrimSpace(p.Slug))
	return nil
}
