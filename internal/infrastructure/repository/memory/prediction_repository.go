package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/golazo-app/quiniela/internal/domain/prediction"
)

type predictionKey struct {
	poolID  string
	matchID string
	userID  string
}

// PredictionRepository keeps one row per (pool, match, user). The mutex makes
// Upsert atomic per key, matching the ON CONFLICT semantics of the postgres
// implementation.
type PredictionRepository struct {
	mu          sync.RWMutex
	predictions map[predictionKey]prediction.Prediction
}

func NewPredictionRepository() *PredictionRepository {
	return &PredictionRepository{
		predictions: make(map[predictionKey]prediction.Prediction),
	}
}

func (r *PredictionRepository) Upsert(_ context.Context, item prediction.Prediction) (prediction.Prediction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := predictionKey{poolID: item.PoolID, matchID: item.MatchID, userID: item.UserID}
	if existing, ok := r.predictions[key]; ok {
		// Replacing a prediction keeps its identity and drops stale points.
		item.ID = existing.ID
	}
	item.Points = nil
	r.predictions[key] = item
	return item, nil
}

func (r *PredictionRepository) GetByKey(_ context.Context, poolID, matchID, userID string) (prediction.Prediction, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.predictions[predictionKey{poolID: poolID, matchID: matchID, userID: userID}]
	return item, ok, nil
}

func (r *PredictionRepository) ListByMatch(_ context.Context, matchID string) ([]prediction.Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]prediction.Prediction, 0)
	for key, item := range r.predictions {
		if key.matchID == matchID {
			out = append(out, item)
		}
	}
	sortPredictions(out)
	return out, nil
}

func (r *PredictionRepository) ListByPool(_ context.Context, poolID string) ([]prediction.Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]prediction.Prediction, 0)
	for key, item := range r.predictions {
		if key.poolID == poolID {
			out = append(out, item)
		}
	}
	sortPredictions(out)
	return out, nil
}

func (r *PredictionRepository) ListByUserAndPool(_ context.Context, userID, poolID string) ([]prediction.Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]prediction.Prediction, 0)
	for key, item := range r.predictions {
		if key.userID == userID && key.poolID == poolID {
			out = append(out, item)
		}
	}
	sortPredictions(out)
	return out, nil
}

func (r *PredictionRepository) SetPoints(_ context.Context, predictionID string, points int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, item := range r.predictions {
		if item.ID == predictionID {
			item.Points = &points
			r.predictions[key] = item
			return nil
		}
	}
	return nil
}

func sortPredictions(items []prediction.Prediction) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].MatchID != items[j].MatchID {
			return items[i].MatchID < items[j].MatchID
		}
		return items[i].UserID < items[j].UserID
	})
}
