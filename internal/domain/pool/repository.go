package pool

import "context"

// Repository exposes pool read/configuration operations.
type Repository interface {
	List(ctx context.Context) ([]Pool, error)
	GetByID(ctx context.Context, poolID string) (Pool, bool, error)
	UpdateRuleSet(ctx context.Context, poolID string, ruleSet RuleSet) error
	Retire(ctx context.Context, poolID string) error
}
