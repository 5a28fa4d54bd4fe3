package registration

import "context"

// Repository is the membership lookup the submission path depends on.
type Repository interface {
	Exists(ctx context.Context, userID, poolID string) (bool, error)
	Add(ctx context.Context, item Registration) error
	ListByPool(ctx context.Context, poolID string) ([]Registration, error)
}
