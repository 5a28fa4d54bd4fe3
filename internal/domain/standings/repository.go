package standings

import (
	"context"
	"time"
)

// Repository persists standings snapshots. Replace must keep FetchedAt
// monotonically non-decreasing per competition: an update carrying an older
// FetchedAt than the stored row is dropped, not applied.
type Repository interface {
	GetByCompetition(ctx context.Context, competitionID string) (Snapshot, bool, error)
	ListStale(ctx context.Context, threshold time.Time) ([]Snapshot, error)
	Replace(ctx context.Context, item Snapshot) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}
