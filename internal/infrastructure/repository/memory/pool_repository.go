package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/golazo-app/quiniela/internal/domain/pool"
)

type PoolRepository struct {
	mu    sync.RWMutex
	pools map[string]pool.Pool
}

func NewPoolRepository(pools []pool.Pool) *PoolRepository {
	byID := make(map[string]pool.Pool, len(pools))
	for _, item := range pools {
		byID[item.ID] = item
	}
	return &PoolRepository{pools: byID}
}

func (r *PoolRepository) List(_ context.Context) ([]pool.Pool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pool.Pool, 0, len(r.pools))
	for _, item := range r.pools {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

func (r *PoolRepository) GetByID(_ context.Context, poolID string) (pool.Pool, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.pools[poolID]
	return item, ok, nil
}

func (r *PoolRepository) UpdateRuleSet(_ context.Context, poolID string, ruleSet pool.RuleSet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.pools[poolID]
	if !ok {
		return nil
	}
	item.RuleSet = ruleSet
	r.pools[poolID] = item
	return nil
}

func (r *PoolRepository) Retire(_ context.Context, poolID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.pools[poolID]
	if !ok || item.RetiredAt != nil {
		return nil
	}
	now := time.Now().UTC()
	item.RetiredAt = &now
	r.pools[poolID] = item
	return nil
}
