package award

import "context"

// Repository persists awards and the prize tier configuration they come from.
type Repository interface {
	ListTiersByPool(ctx context.Context, poolID string) ([]Tier, error)
	ListByPool(ctx context.Context, poolID string) ([]Award, error)
	GetByID(ctx context.Context, awardID string) (Award, bool, error)
	Insert(ctx context.Context, item Award) error
	MarkDelivered(ctx context.Context, awardID string) error
	MarkNotified(ctx context.Context, awardID string) error
	Void(ctx context.Context, awardID string) error
}
