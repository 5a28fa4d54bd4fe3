package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/golazo-app/quiniela/internal/domain/standings"
	idgen "github.com/golazo-app/quiniela/internal/platform/id"
	"github.com/golazo-app/quiniela/internal/platform/logging"
	"github.com/golazo-app/quiniela/internal/platform/resilience"
)

const (
	defaultRefreshWorkers = 4
	defaultFetchTimeout   = 15 * time.Second
)

// StandingsProvider fetches the current standings table for a competition
// from the upstream football data feed.
type StandingsProvider interface {
	FetchStandings(ctx context.Context, competitionID, seasonID string) ([]byte, error)
}

// StandingsService keeps the cached competition standings fresh. Refresh is
// driven by the snapshot's age: a snapshot newer than the threshold is left
// alone, which is what makes overlapping maintenance runs safe.
type StandingsService struct {
	standingsRepo standings.Repository
	provider      StandingsProvider
	idGen         idgen.Generator
	logger        *logging.Logger
	flight        resilience.SingleFlight
	workers       int
	fetchTimeout  time.Duration
	now           func() time.Time
}

// RefreshResult reports one refresh pass. Scanned counts snapshots past the
// staleness threshold; Refreshed and Failed partition the fetch outcomes.
type RefreshResult struct {
	Scanned   int `json:"scanned"`
	Refreshed int `json:"refreshed"`
	Failed    int `json:"failed"`
}

func NewStandingsService(
	standingsRepo standings.Repository,
	provider StandingsProvider,
	idGen idgen.Generator,
	logger *logging.Logger,
) *StandingsService {
	if logger == nil {
		logger = logging.Default()
	}
	return &StandingsService{
		standingsRepo: standingsRepo,
		provider:      provider,
		idGen:         idGen,
		logger:        logger,
		workers:       defaultRefreshWorkers,
		fetchTimeout:  defaultFetchTimeout,
		now:           time.Now,
	}
}

func (s *StandingsService) Get(ctx context.Context, competitionID string) (standings.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Get")
	defer span.End()

	snap, exists, err := s.standingsRepo.GetByCompetition(ctx, competitionID)
	if err != nil {
		return standings.Snapshot{}, fmt.Errorf("get standings competition=%s: %w", competitionID, err)
	}
	if !exists {
		return standings.Snapshot{}, fmt.Errorf("%w: standings competition=%s", ErrNotFound, competitionID)
	}
	return snap, nil
}

// RefreshStale re-fetches every snapshot older than olderThan. Fetches run on
// a bounded worker pool; a singleflight keyed by competition collapses
// duplicate fetches when two maintenance runs overlap. One competition
// failing counts toward Failed and never stops the rest.
func (s *StandingsService) RefreshStale(ctx context.Context, olderThan time.Duration) (RefreshResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.RefreshStale")
	defer span.End()

	if olderThan <= 0 {
		return RefreshResult{}, fmt.Errorf("%w: staleness threshold must be positive", ErrInvalidInput)
	}

	threshold := s.now().UTC().Add(-olderThan)
	stale, err := s.standingsRepo.ListStale(ctx, threshold)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("list stale standings: %w", err)
	}

	result := RefreshResult{Scanned: len(stale)}
	if len(stale) == 0 {
		return result, nil
	}

	workerPool, err := ants.NewPool(s.workers)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, snap := range stale {
		snap := snap
		wg.Add(1)
		if err := workerPool.Submit(func() {
			defer wg.Done()

			refreshErr := s.refreshOne(ctx, snap)
			mu.Lock()
			defer mu.Unlock()
			if refreshErr != nil {
				result.Failed++
				s.logger.WarnContext(ctx, "standings refresh failed",
					"competition_id", snap.CompetitionID,
					"error", refreshErr,
				)
				return
			}
			result.Refreshed++
		}); err != nil {
			wg.Done()
			return result, fmt.Errorf("submit refresh task: %w", err)
		}
	}
	wg.Wait()

	s.logger.InfoContext(ctx, "standings refresh pass finished",
		"scanned", result.Scanned,
		"refreshed", result.Refreshed,
		"failed", result.Failed,
	)
	return result, nil
}

// CleanupOld deletes snapshots whose payload is older than the retention
// window and returns how many were removed.
func (s *StandingsService) CleanupOld(ctx context.Context, olderThan time.Duration) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.CleanupOld")
	defer span.End()

	if olderThan <= 0 {
		return 0, fmt.Errorf("%w: retention window must be positive", ErrInvalidInput)
	}

	cutoff := s.now().UTC().Add(-olderThan)
	deleted, err := s.standingsRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete old standings: %w", err)
	}
	if deleted > 0 {
		s.logger.InfoContext(ctx, "old standings removed", "deleted", deleted, "cutoff", cutoff)
	}
	return deleted, nil
}

func (s *StandingsService) refreshOne(ctx context.Context, snap standings.Snapshot) error {
	if s.provider == nil {
		return fmt.Errorf("%w: standings provider is not configured", ErrDependencyUnavailable)
	}

	_, err, _ := s.flight.Do(snap.CompetitionID, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
		defer cancel()

		payload, err := s.provider.FetchStandings(fetchCtx, snap.CompetitionID, snap.SeasonID)
		if err != nil {
			return nil, fmt.Errorf("fetch standings competition=%s: %w", snap.CompetitionID, err)
		}

		snapshotID, err := s.idGen.NewID()
		if err != nil {
			return nil, fmt.Errorf("generate snapshot id: %w", err)
		}
		if err := s.standingsRepo.Replace(ctx, standings.Snapshot{
			ID:            snapshotID,
			CompetitionID: snap.CompetitionID,
			SeasonID:      snap.SeasonID,
			Payload:       payload,
			FetchedAt:     s.now().UTC(),
		}); err != nil {
			return nil, fmt.Errorf("replace standings competition=%s: %w", snap.CompetitionID, err)
		}
		return nil, nil
	})
	return err
}
