package memory

import (
	"context"
	"sync"
	"time"

	"github.com/golazo-app/quiniela/internal/domain/standings"
)

type StandingsRepository struct {
	mu        sync.RWMutex
	snapshots map[string]standings.Snapshot
}

func NewStandingsRepository(snapshots []standings.Snapshot) *StandingsRepository {
	byCompetition := make(map[string]standings.Snapshot, len(snapshots))
	for _, item := range snapshots {
		byCompetition[item.CompetitionID] = item
	}
	return &StandingsRepository{snapshots: byCompetition}
}

func (r *StandingsRepository) GetByCompetition(_ context.Context, competitionID string) (standings.Snapshot, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.snapshots[competitionID]
	return item, ok, nil
}

func (r *StandingsRepository) ListStale(_ context.Context, threshold time.Time) ([]standings.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]standings.Snapshot, 0)
	for _, item := range r.snapshots {
		if item.FetchedAt.Before(threshold) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *StandingsRepository) Replace(_ context.Context, item standings.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.snapshots[item.CompetitionID]
	if ok && item.FetchedAt.Before(existing.FetchedAt) {
		// An older fetch never clobbers a newer snapshot.
		return nil
	}
	r.snapshots[item.CompetitionID] = item
	return nil
}

func (r *StandingsRepository) DeleteOlderThan(_ context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := 0
	for competitionID, item := range r.snapshots {
		if item.FetchedAt.Before(cutoff) {
			delete(r.snapshots, competitionID)
			deleted++
		}
	}
	return deleted, nil
}
