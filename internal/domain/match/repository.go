package match

import "context"

// Repository exposes match read and administrative write operations.
type Repository interface {
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
	ListBySeason(ctx context.Context, seasonID string) ([]Match, error)
	SetResult(ctx context.Context, matchID string, homeScore, awayScore int) error
	SetLockOverride(ctx context.Context, matchID string, locked *bool) error
}
