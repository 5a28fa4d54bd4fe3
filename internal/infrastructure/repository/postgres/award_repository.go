package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/golazo-app/quiniela/internal/domain/award"
	qb "github.com/golazo-app/quiniela/internal/platform/querybuilder"
)

type AwardRepository struct {
	db *sqlx.DB
}

func NewAwardRepository(db *sqlx.DB) *AwardRepository {
	return &AwardRepository{db: db}
}

func (r *AwardRepository) ListTiersByPool(ctx context.Context, poolID string) ([]award.Tier, error) {
	query, args, err := qb.Select("*").From("pool_prize_tiers").
		Where(qb.Eq("pool_public_id", poolID)).
		OrderBy("rank_from", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select prize tiers query: %w", err)
	}

	var rows []awardTierTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select prize tiers: %w", err)
	}

	out := make([]award.Tier, 0, len(rows))
	for _, row := range rows {
		out = append(out, award.Tier{
			PoolID:   row.PoolID,
			PrizeID:  row.PrizeID,
			FromRank: row.FromRank,
			ToRank:   row.ToRank,
		})
	}
	return out, nil
}

func (r *AwardRepository) ListByPool(ctx context.Context, poolID string) ([]award.Award, error) {
	query, args, err := qb.Select("*").From("awards").
		Where(
			qb.Eq("pool_public_id", poolID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("rank", "user_id", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select awards query: %w", err)
	}

	var rows []awardTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select awards: %w", err)
	}

	out := make([]award.Award, 0, len(rows))
	for _, row := range rows {
		out = append(out, awardFromRow(row))
	}
	return out, nil
}

func (r *AwardRepository) GetByID(ctx context.Context, awardID string) (award.Award, bool, error) {
	query, args, err := qb.Select("*").From("awards").
		Where(
			qb.Eq("public_id", awardID),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return award.Award{}, false, fmt.Errorf("build select award query: %w", err)
	}

	var row awardTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return award.Award{}, false, nil
		}
		return award.Award{}, false, fmt.Errorf("select award: %w", err)
	}
	return awardFromRow(row), true, nil
}

func (r *AwardRepository) Insert(ctx context.Context, item award.Award) error {
	insertModel := awardInsertModel{
		PublicID:  item.ID,
		PoolID:    item.PoolID,
		UserID:    item.UserID,
		Rank:      item.Rank,
		PrizeID:   item.PrizeID,
		RankFrom:  item.RankFrom,
		RankTo:    item.RankTo,
		AwardedAt: item.AwardedAt,
	}

	query, args, err := qb.InsertModel("awards", insertModel, `ON CONFLICT (pool_public_id, prize_id, user_id) WHERE voided_at IS NULL AND deleted_at IS NULL
DO NOTHING`)
	if err != nil {
		return fmt.Errorf("build insert award query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert award: %w", err)
	}
	return nil
}

func (r *AwardRepository) MarkDelivered(ctx context.Context, awardID string) error {
	return r.setTimestamp(ctx, awardID, "delivered_at")
}

func (r *AwardRepository) MarkNotified(ctx context.Context, awardID string) error {
	query, args, err := qb.Update("awards").
		Set("notified", true).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", awardID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark award notified query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark award notified: %w", err)
	}
	return nil
}

func (r *AwardRepository) Void(ctx context.Context, awardID string) error {
	return r.setTimestamp(ctx, awardID, "voided_at")
}

func (r *AwardRepository) setTimestamp(ctx context.Context, awardID, column string) error {
	query, args, err := qb.Update("awards").
		SetExpr(column, "NOW()").
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", awardID),
			qb.IsNull(column),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update award %s query: %w", column, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update award %s: %w", column, err)
	}
	return nil
}
