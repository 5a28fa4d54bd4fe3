package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/golazo-app/quiniela/internal/domain/award"
)

type AwardRepository struct {
	mu     sync.RWMutex
	tiers  map[string][]award.Tier
	awards map[string]award.Award
}

func NewAwardRepository(tiers []award.Tier) *AwardRepository {
	byPool := make(map[string][]award.Tier)
	for _, tier := range tiers {
		byPool[tier.PoolID] = append(byPool[tier.PoolID], tier)
	}
	for _, list := range byPool {
		sort.Slice(list, func(i, j int) bool { return list[i].FromRank < list[j].FromRank })
	}
	return &AwardRepository{
		tiers:  byPool,
		awards: make(map[string]award.Award),
	}
}

func (r *AwardRepository) ListTiersByPool(_ context.Context, poolID string) ([]award.Tier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.tiers[poolID]
	out := make([]award.Tier, 0, len(items))
	out = append(out, items...)
	return out, nil
}

func (r *AwardRepository) ListByPool(_ context.Context, poolID string) ([]award.Award, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]award.Award, 0)
	for _, item := range r.awards {
		if item.PoolID == poolID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rank != out[j].Rank {
			return out[i].Rank < out[j].Rank
		}
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}

func (r *AwardRepository) GetByID(_ context.Context, awardID string) (award.Award, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.awards[awardID]
	return item, ok, nil
}

func (r *AwardRepository) Insert(_ context.Context, item award.Award) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// One active award per (pool, prize, user) slot; voided awards free the slot.
	for _, existing := range r.awards {
		if existing.PoolID == item.PoolID && existing.PrizeID == item.PrizeID && existing.UserID == item.UserID && !existing.Voided() {
			return nil
		}
	}
	r.awards[item.ID] = item
	return nil
}

func (r *AwardRepository) MarkDelivered(_ context.Context, awardID string) error {
	return r.update(awardID, func(item *award.Award) {
		now := time.Now().UTC()
		item.DeliveredAt = &now
	})
}

func (r *AwardRepository) MarkNotified(_ context.Context, awardID string) error {
	return r.update(awardID, func(item *award.Award) {
		item.Notified = true
	})
}

func (r *AwardRepository) Void(_ context.Context, awardID string) error {
	return r.update(awardID, func(item *award.Award) {
		now := time.Now().UTC()
		item.VoidedAt = &now
	})
}

func (r *AwardRepository) update(awardID string, apply func(*award.Award)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.awards[awardID]
	if !ok {
		return nil
	}
	apply(&item)
	r.awards[awardID] = item
	return nil
}
