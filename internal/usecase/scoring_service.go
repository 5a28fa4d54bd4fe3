package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	concpool "github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/golazo-app/quiniela/internal/domain/match"
	"github.com/golazo-app/quiniela/internal/domain/pool"
	"github.com/golazo-app/quiniela/internal/domain/prediction"
	"github.com/golazo-app/quiniela/internal/platform/logging"
)

const defaultRescoreConcurrency = 4

// ScoringService recomputes prediction points whenever a match result lands
// or a pool's rule set changes. Rescoring is idempotent: running it twice
// over the same inputs writes the same points.
type ScoringService struct {
	poolRepo       pool.Repository
	matchRepo      match.Repository
	predictionRepo prediction.Repository
	logger         *logging.Logger
	concurrency    int
	now            func() time.Time
}

type ApplyResultInput struct {
	MatchID   string
	HomeScore int
	AwayScore int
}

// RescoreReport summarizes one rescore pass over a set of matches.
type RescoreReport struct {
	Matches     int `json:"matches"`
	Predictions int `json:"predictions"`
	Failed      int `json:"failed"`
}

func NewScoringService(
	poolRepo pool.Repository,
	matchRepo match.Repository,
	predictionRepo prediction.Repository,
	logger *logging.Logger,
) *ScoringService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ScoringService{
		poolRepo:       poolRepo,
		matchRepo:      matchRepo,
		predictionRepo: predictionRepo,
		logger:         logger,
		concurrency:    defaultRescoreConcurrency,
		now:            time.Now,
	}
}

// ApplyResult records the final score of a match and immediately rescores
// every prediction placed on it.
func (s *ScoringService) ApplyResult(ctx context.Context, input ApplyResultInput) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.ApplyResult")
	defer span.End()
	span.SetAttributes(attribute.String("match.id", input.MatchID))

	if input.HomeScore < 0 || input.AwayScore < 0 {
		return 0, fmt.Errorf("%w: result scores must be non-negative", ErrInvalidInput)
	}

	m, exists, err := s.matchRepo.GetByID(ctx, input.MatchID)
	if err != nil {
		return 0, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return 0, fmt.Errorf("%w: match=%s", ErrNotFound, input.MatchID)
	}

	if err := s.matchRepo.SetResult(ctx, m.ID, input.HomeScore, input.AwayScore); err != nil {
		return 0, fmt.Errorf("set result match=%s: %w", m.ID, err)
	}

	m.HomeScore = &input.HomeScore
	m.AwayScore = &input.AwayScore
	scored, err := s.rescoreOne(ctx, m)
	if err != nil {
		return 0, err
	}

	s.logger.InfoContext(ctx, "match result applied",
		"match_id", m.ID,
		"home_score", input.HomeScore,
		"away_score", input.AwayScore,
		"predictions_scored", scored,
	)
	return scored, nil
}

// RescoreMatch recomputes points for every prediction on one finished match.
// Useful after a rule set change or a corrected result feed.
func (s *ScoringService) RescoreMatch(ctx context.Context, matchID string) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.RescoreMatch")
	defer span.End()

	m, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return 0, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return 0, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	if !m.HasResult() {
		return 0, fmt.Errorf("%w: match %s has no result yet", ErrInvalidInput, matchID)
	}
	return s.rescoreOne(ctx, m)
}

// RescoreMatches fans the work out over a bounded goroutine pool. Matches
// without a result are counted as failures rather than aborting the wave.
func (s *ScoringService) RescoreMatches(ctx context.Context, matchIDs []string) (RescoreReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.RescoreMatches")
	defer span.End()

	matchIDs = dedupeStrings(matchIDs)
	if len(matchIDs) == 0 {
		return RescoreReport{}, nil
	}

	var (
		mu     sync.Mutex
		report = RescoreReport{Matches: len(matchIDs)}
	)

	workers := concpool.New().WithMaxGoroutines(s.concurrency).WithContext(ctx)
	for _, matchID := range matchIDs {
		matchID := matchID
		workers.Go(func(ctx context.Context) error {
			scored, err := s.RescoreMatch(ctx, matchID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed++
				s.logger.WarnContext(ctx, "rescore failed", "match_id", matchID, "error", err)
				return nil
			}
			report.Predictions += scored
			return nil
		})
	}
	if err := workers.Wait(); err != nil {
		return report, fmt.Errorf("rescore wave: %w", err)
	}
	return report, nil
}

func (s *ScoringService) rescoreOne(ctx context.Context, m match.Match) (int, error) {
	if !m.HasResult() {
		return 0, fmt.Errorf("%w: match %s has no result yet", ErrInvalidInput, m.ID)
	}

	items, err := s.predictionRepo.ListByMatch(ctx, m.ID)
	if err != nil {
		return 0, fmt.Errorf("list predictions match=%s: %w", m.ID, err)
	}
	if len(items) == 0 {
		return 0, nil
	}

	ruleSets := make(map[string]pool.RuleSet, 4)
	scored := 0
	for _, item := range items {
		rs, ok := ruleSets[item.PoolID]
		if !ok {
			p, exists, err := s.poolRepo.GetByID(ctx, item.PoolID)
			if err != nil {
				return scored, fmt.Errorf("get pool %s: %w", item.PoolID, err)
			}
			if !exists {
				continue
			}
			rs = p.RuleSet
			ruleSets[item.PoolID] = rs
		}

		points := 0
		if rs.InScope(m.Round) {
			points = rs.Score(item.HomeScore, item.AwayScore, *m.HomeScore, *m.AwayScore)
		}
		if item.Points != nil && *item.Points == points {
			continue
		}
		if err := s.predictionRepo.SetPoints(ctx, item.ID, points); err != nil {
			return scored, fmt.Errorf("set points prediction=%s: %w", item.ID, err)
		}
		scored++
	}
	return scored, nil
}

func dedupeStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
