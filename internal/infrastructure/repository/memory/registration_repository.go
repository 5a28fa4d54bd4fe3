package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/golazo-app/quiniela/internal/domain/registration"
)

type registrationKey struct {
	userID string
	poolID string
}

type RegistrationRepository struct {
	mu      sync.RWMutex
	members map[registrationKey]registration.Registration
}

func NewRegistrationRepository(items []registration.Registration) *RegistrationRepository {
	members := make(map[registrationKey]registration.Registration, len(items))
	for _, item := range items {
		members[registrationKey{userID: item.UserID, poolID: item.PoolID}] = item
	}
	return &RegistrationRepository{members: members}
}

func (r *RegistrationRepository) Exists(_ context.Context, userID, poolID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.members[registrationKey{userID: userID, poolID: poolID}]
	return ok, nil
}

func (r *RegistrationRepository) Add(_ context.Context, item registration.Registration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := registrationKey{userID: item.UserID, poolID: item.PoolID}
	if _, ok := r.members[key]; ok {
		return nil
	}
	r.members[key] = item
	return nil
}

func (r *RegistrationRepository) ListByPool(_ context.Context, poolID string) ([]registration.Registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]registration.Registration, 0)
	for key, item := range r.members {
		if key.poolID == poolID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}
