package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/golazo-app/quiniela/internal/domain/match"
)

type MatchRepository struct {
	mu      sync.RWMutex
	matches map[string]match.Match
}

func NewMatchRepository(matches []match.Match) *MatchRepository {
	byID := make(map[string]match.Match, len(matches))
	for _, item := range matches {
		byID[item.ID] = item
	}
	return &MatchRepository{matches: byID}
}

func (r *MatchRepository) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.matches[matchID]
	return item, ok, nil
}

func (r *MatchRepository) ListBySeason(_ context.Context, seasonID string) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, len(r.matches))
	for _, item := range r.matches {
		if item.SeasonID == seasonID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Round != out[j].Round {
			return out[i].Round < out[j].Round
		}
		return out[i].KickoffAt.Before(out[j].KickoffAt)
	})
	return out, nil
}

func (r *MatchRepository) SetResult(_ context.Context, matchID string, homeScore, awayScore int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.matches[matchID]
	if !ok {
		return nil
	}
	item.HomeScore = &homeScore
	item.AwayScore = &awayScore
	r.matches[matchID] = item
	return nil
}

func (r *MatchRepository) SetLockOverride(_ context.Context, matchID string, locked *bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.matches[matchID]
	if !ok {
		return nil
	}
	item.LockOverride = locked
	r.matches[matchID] = item
	return nil
}
