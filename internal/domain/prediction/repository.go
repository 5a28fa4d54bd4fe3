package prediction

import "context"

// Repository persists predictions. Upsert must be atomic per
// (PoolID, MatchID, UserID) row so the later of two racing writes wins
// without interleaving half a score pair.
type Repository interface {
	Upsert(ctx context.Context, item Prediction) (Prediction, error)
	GetByKey(ctx context.Context, poolID, matchID, userID string) (Prediction, bool, error)
	ListByMatch(ctx context.Context, matchID string) ([]Prediction, error)
	ListByPool(ctx context.Context, poolID string) ([]Prediction, error)
	ListByUserAndPool(ctx context.Context, userID, poolID string) ([]Prediction, error)
	SetPoints(ctx context.Context, predictionID string, points int) error
}
