package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/golazo-app/quiniela/internal/domain/leaderboard"
	"github.com/golazo-app/quiniela/internal/domain/match"
	"github.com/golazo-app/quiniela/internal/domain/pool"
	"github.com/golazo-app/quiniela/internal/domain/prediction"
	"github.com/golazo-app/quiniela/internal/domain/registration"
)

// LeaderboardService aggregates scored predictions into a ranked table.
type LeaderboardService struct {
	poolRepo         pool.Repository
	matchRepo        match.Repository
	registrationRepo registration.Repository
	predictionRepo   prediction.Repository
}

func NewLeaderboardService(
	poolRepo pool.Repository,
	matchRepo match.Repository,
	registrationRepo registration.Repository,
	predictionRepo prediction.Repository,
) *LeaderboardService {
	return &LeaderboardService{
		poolRepo:         poolRepo,
		matchRepo:        matchRepo,
		registrationRepo: registrationRepo,
		predictionRepo:   predictionRepo,
	}
}

// Compute builds the standings for one pool. Every registered user appears,
// including users with no predictions, who total 0. Predictions on matches
// outside the pool's round scope do not contribute even if they carry stale
// points from an earlier rule set.
//
// Ranks follow standard competition ranking: ties share a rank and the next
// distinct total skips past them, so totals [50, 50, 40] rank [1, 1, 3].
func (s *LeaderboardService) Compute(ctx context.Context, poolID string) ([]leaderboard.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Compute")
	defer span.End()

	p, exists, err := s.poolRepo.GetByID(ctx, poolID)
	if err != nil {
		return nil, fmt.Errorf("get pool: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: pool=%s", ErrNotFound, poolID)
	}

	members, err := s.registrationRepo.ListByPool(ctx, poolID)
	if err != nil {
		return nil, fmt.Errorf("list registrations pool=%s: %w", poolID, err)
	}

	inScope, err := s.inScopeMatches(ctx, p)
	if err != nil {
		return nil, err
	}

	items, err := s.predictionRepo.ListByPool(ctx, poolID)
	if err != nil {
		return nil, fmt.Errorf("list predictions pool=%s: %w", poolID, err)
	}

	totals := make(map[string]int, len(members))
	for _, member := range members {
		totals[member.UserID] = 0
	}
	for _, item := range items {
		if _, registered := totals[item.UserID]; !registered {
			continue
		}
		if _, ok := inScope[item.MatchID]; !ok {
			continue
		}
		if item.Points == nil {
			continue
		}
		totals[item.UserID] += *item.Points
	}

	entries := make([]leaderboard.Entry, 0, len(totals))
	for userID, total := range totals {
		entries = append(entries, leaderboard.Entry{UserID: userID, TotalPoints: total})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalPoints != entries[j].TotalPoints {
			return entries[i].TotalPoints > entries[j].TotalPoints
		}
		return entries[i].UserID < entries[j].UserID
	})

	for i := range entries {
		if i > 0 && entries[i].TotalPoints == entries[i-1].TotalPoints {
			entries[i].Rank = entries[i-1].Rank
			continue
		}
		entries[i].Rank = i + 1
	}
	return entries, nil
}

func (s *LeaderboardService) inScopeMatches(ctx context.Context, p pool.Pool) (map[string]struct{}, error) {
	matches, err := s.matchRepo.ListBySeason(ctx, p.SeasonID)
	if err != nil {
		return nil, fmt.Errorf("list matches season=%s: %w", p.SeasonID, err)
	}
	out := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		if p.RuleSet.InScope(m.Round) {
			out[m.ID] = struct{}{}
		}
	}
	return out, nil
}
