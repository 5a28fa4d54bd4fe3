package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/golazo-app/quiniela/internal/domain/prediction"
	qb "github.com/golazo-app/quiniela/internal/platform/querybuilder"
)

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

// Upsert is a single-statement insert-or-update on the
// (pool, match, user) unique index, so concurrent submissions for the same
// slot serialize on the row and the later write wins whole.
func (r *PredictionRepository) Upsert(ctx context.Context, item prediction.Prediction) (prediction.Prediction, error) {
	insertModel := predictionInsertModel{
		PublicID:    item.ID,
		PoolID:      item.PoolID,
		MatchID:     item.MatchID,
		UserID:      item.UserID,
		HomeScore:   item.HomeScore,
		AwayScore:   item.AwayScore,
		SubmittedAt: item.SubmittedAt,
	}

	query, args, err := qb.InsertModel("predictions", insertModel, `ON CONFLICT (pool_public_id, match_public_id, user_id) WHERE deleted_at IS NULL
DO UPDATE SET
    home_score = EXCLUDED.home_score,
    away_score = EXCLUDED.away_score,
    submitted_at = EXCLUDED.submitted_at,
    points = NULL,
    updated_at = NOW()
RETURNING *`)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("build upsert prediction query: %w", err)
	}

	var row predictionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return prediction.Prediction{}, fmt.Errorf("upsert prediction: %w", err)
	}
	return predictionFromRow(row), nil
}

func (r *PredictionRepository) GetByKey(ctx context.Context, poolID, matchID, userID string) (prediction.Prediction, bool, error) {
	query, args, err := qb.Select("*").From("predictions").
		Where(
			qb.Eq("pool_public_id", poolID),
			qb.Eq("match_public_id", matchID),
			qb.Eq("user_id", userID),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return prediction.Prediction{}, false, fmt.Errorf("build select prediction query: %w", err)
	}

	var row predictionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return prediction.Prediction{}, false, nil
		}
		return prediction.Prediction{}, false, fmt.Errorf("select prediction: %w", err)
	}
	return predictionFromRow(row), true, nil
}

func (r *PredictionRepository) ListByMatch(ctx context.Context, matchID string) ([]prediction.Prediction, error) {
	return r.list(ctx, qb.Eq("match_public_id", matchID))
}

func (r *PredictionRepository) ListByPool(ctx context.Context, poolID string) ([]prediction.Prediction, error) {
	return r.list(ctx, qb.Eq("pool_public_id", poolID))
}

func (r *PredictionRepository) ListByUserAndPool(ctx context.Context, userID, poolID string) ([]prediction.Prediction, error) {
	return r.list(ctx, qb.Eq("user_id", userID), qb.Eq("pool_public_id", poolID))
}

func (r *PredictionRepository) SetPoints(ctx context.Context, predictionID string, points int) error {
	query, args, err := qb.Update("predictions").
		Set("points", points).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", predictionID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update prediction points query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update prediction points: %w", err)
	}
	return nil
}

func (r *PredictionRepository) list(ctx context.Context, conditions ...qb.Condition) ([]prediction.Prediction, error) {
	conditions = append(conditions, qb.IsNull("deleted_at"))
	query, args, err := qb.Select("*").From("predictions").
		Where(conditions...).
		OrderBy("match_public_id", "user_id", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select predictions query: %w", err)
	}

	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select predictions: %w", err)
	}

	out := make([]prediction.Prediction, 0, len(rows))
	for _, row := range rows {
		out = append(out, predictionFromRow(row))
	}
	return out, nil
}
