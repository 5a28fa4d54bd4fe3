package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/golazo-app/quiniela/internal/domain/pool"
	qb "github.com/golazo-app/quiniela/internal/platform/querybuilder"
)

type PoolRepository struct {
	db *sqlx.DB
}

func NewPoolRepository(db *sqlx.DB) *PoolRepository {
	return &PoolRepository{db: db}
}

func (r *PoolRepository) List(ctx context.Context) ([]pool.Pool, error) {
	query, args, err := qb.Select("*").From("pools").
		Where(qb.IsNull("deleted_at")).
		OrderBy("slug", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select pools query: %w", err)
	}

	var rows []poolTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select pools: %w", err)
	}

	out := make([]pool.Pool, 0, len(rows))
	for _, row := range rows {
		out = append(out, poolFromRow(row))
	}
	return out, nil
}

func (r *PoolRepository) GetByID(ctx context.Context, poolID string) (pool.Pool, bool, error) {
	query, args, err := qb.Select("*").From("pools").
		Where(
			qb.Eq("public_id", poolID),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return pool.Pool{}, false, fmt.Errorf("build select pool query: %w", err)
	}

	var row poolTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return pool.Pool{}, false, nil
		}
		return pool.Pool{}, false, fmt.Errorf("select pool: %w", err)
	}
	return poolFromRow(row), true, nil
}

func (r *PoolRepository) UpdateRuleSet(ctx context.Context, poolID string, ruleSet pool.RuleSet) error {
	roundsFrom := sql.NullInt64{}
	roundsTo := sql.NullInt64{}
	if ruleSet.Rounds != nil {
		roundsFrom = sql.NullInt64{Int64: int64(ruleSet.Rounds.Start), Valid: true}
		roundsTo = sql.NullInt64{Int64: int64(ruleSet.Rounds.End), Valid: true}
	}

	query, args, err := qb.Update("pools").
		Set("exact_points", ruleSet.ExactPoints).
		Set("diff_points", ruleSet.DiffPoints).
		Set("sign_points", ruleSet.SignPoints).
		Set("rounds_from", roundsFrom).
		Set("rounds_to", roundsTo).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", poolID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update pool rule set query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update pool rule set: %w", err)
	}
	return nil
}

func (r *PoolRepository) Retire(ctx context.Context, poolID string) error {
	query, args, err := qb.Update("pools").
		SetExpr("retired_at", "NOW()").
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", poolID),
			qb.IsNull("retired_at"),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build retire pool query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("retire pool: %w", err)
	}
	return nil
}
