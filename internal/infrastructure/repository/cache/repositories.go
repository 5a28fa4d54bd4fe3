// Package cache wraps repositories with a read-through TTL cache. Writes go
// straight to the wrapped repository and invalidate the affected keys.
package cache

import (
	"context"

	"github.com/golazo-app/quiniela/internal/domain/match"
	"github.com/golazo-app/quiniela/internal/domain/pool"
	"github.com/golazo-app/quiniela/internal/domain/registration"
	basecache "github.com/golazo-app/quiniela/internal/platform/cache"
)

type PoolRepository struct {
	next  pool.Repository
	cache *basecache.Store
}

func NewPoolRepository(next pool.Repository, cache *basecache.Store) *PoolRepository {
	return &PoolRepository{next: next, cache: cache}
}

func (r *PoolRepository) List(ctx context.Context) ([]pool.Pool, error) {
	v, err := r.cache.GetOrLoad(ctx, "pool:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]pool.Pool(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]pool.Pool)
	return append([]pool.Pool(nil), items...), nil
}

func (r *PoolRepository) GetByID(ctx context.Context, poolID string) (pool.Pool, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, poolByIDKey(poolID), func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, poolID)
		if err != nil {
			return nil, err
		}
		return cachedPoolByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return pool.Pool{}, false, err
	}

	cached, _ := v.(cachedPoolByID)
	return cached.value, cached.exists, nil
}

func (r *PoolRepository) UpdateRuleSet(ctx context.Context, poolID string, ruleSet pool.RuleSet) error {
	if err := r.next.UpdateRuleSet(ctx, poolID, ruleSet); err != nil {
		return err
	}
	r.invalidate(ctx, poolID)
	return nil
}

func (r *PoolRepository) Retire(ctx context.Context, poolID string) error {
	if err := r.next.Retire(ctx, poolID); err != nil {
		return err
	}
	r.invalidate(ctx, poolID)
	return nil
}

func (r *PoolRepository) invalidate(ctx context.Context, poolID string) {
	r.cache.Delete(ctx, poolByIDKey(poolID))
	r.cache.Delete(ctx, "pool:list")
}

type cachedPoolByID struct {
	value  pool.Pool
	exists bool
}

func poolByIDKey(poolID string) string {
	return "pool:id:" + poolID
}

type MatchRepository struct {
	next  match.Repository
	cache *basecache.Store
}

func NewMatchRepository(next match.Repository, cache *basecache.Store) *MatchRepository {
	return &MatchRepository{next: next, cache: cache}
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, matchByIDKey(matchID), func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, matchID)
		if err != nil {
			return nil, err
		}
		return cachedMatchByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return match.Match{}, false, err
	}

	cached, _ := v.(cachedMatchByID)
	return cached.value, cached.exists, nil
}

func (r *MatchRepository) ListBySeason(ctx context.Context, seasonID string) ([]match.Match, error) {
	v, err := r.cache.GetOrLoad(ctx, "match:list:season:"+seasonID, func(ctx context.Context) (any, error) {
		items, err := r.next.ListBySeason(ctx, seasonID)
		if err != nil {
			return nil, err
		}
		return append([]match.Match(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]match.Match)
	return append([]match.Match(nil), items...), nil
}

func (r *MatchRepository) SetResult(ctx context.Context, matchID string, homeScore, awayScore int) error {
	if err := r.next.SetResult(ctx, matchID, homeScore, awayScore); err != nil {
		return err
	}
	r.invalidate(ctx, matchID)
	return nil
}

func (r *MatchRepository) SetLockOverride(ctx context.Context, matchID string, locked *bool) error {
	if err := r.next.SetLockOverride(ctx, matchID, locked); err != nil {
		return err
	}
	r.invalidate(ctx, matchID)
	return nil
}

func (r *MatchRepository) invalidate(ctx context.Context, matchID string) {
	r.cache.Delete(ctx, matchByIDKey(matchID))
	// The season is unknown here, so all season listings go.
	r.cache.DeletePrefix(ctx, "match:list:season:")
}

type cachedMatchByID struct {
	value  match.Match
	exists bool
}

func matchByIDKey(matchID string) string {
	return "match:id:" + matchID
}

type RegistrationRepository struct {
	next  registration.Repository
	cache *basecache.Store
}

func NewRegistrationRepository(next registration.Repository, cache *basecache.Store) *RegistrationRepository {
	return &RegistrationRepository{next: next, cache: cache}
}

func (r *RegistrationRepository) Exists(ctx context.Context, userID, poolID string) (bool, error) {
	v, err := r.cache.GetOrLoad(ctx, registrationMemberKey(userID, poolID), func(ctx context.Context) (any, error) {
		exists, err := r.next.Exists(ctx, userID, poolID)
		if err != nil {
			return nil, err
		}
		return exists, nil
	})
	if err != nil {
		return false, err
	}

	exists, _ := v.(bool)
	return exists, nil
}

func (r *RegistrationRepository) Add(ctx context.Context, item registration.Registration) error {
	if err := r.next.Add(ctx, item); err != nil {
		return err
	}
	r.cache.Delete(ctx, registrationMemberKey(item.UserID, item.PoolID))
	r.cache.Delete(ctx, "registration:list:pool:"+item.PoolID)
	return nil
}

func (r *RegistrationRepository) ListByPool(ctx context.Context, poolID string) ([]registration.Registration, error) {
	v, err := r.cache.GetOrLoad(ctx, "registration:list:pool:"+poolID, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByPool(ctx, poolID)
		if err != nil {
			return nil, err
		}
		return append([]registration.Registration(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]registration.Registration)
	return append([]registration.Registration(nil), items...), nil
}

func registrationMemberKey(userID, poolID string) string {
	return "registration:member:" + poolID + ":" + userID
}
