package postgres

import (
	"database/sql"
	"time"

	"github.com/golazo-app/quiniela/internal/domain/prediction"
)

type predictionTableModel struct {
	ID          int64         `db:"id"`
	PublicID    string        `db:"public_id"`
	PoolID      string        `db:"pool_public_id"`
	MatchID     string        `db:"match_public_id"`
	UserID      string        `db:"user_id"`
	HomeScore   int           `db:"home_score"`
	AwayScore   int           `db:"away_score"`
	Points      sql.NullInt64 `db:"points"`
	SubmittedAt time.Time     `db:"submitted_at"`
	CreatedAt   time.Time     `db:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at"`
	DeletedAt   *time.Time    `db:"deleted_at"`
}

type predictionInsertModel struct {
	PublicID    string    `db:"public_id"`
	PoolID      string    `db:"pool_public_id"`
	MatchID     string    `db:"match_public_id"`
	UserID      string    `db:"user_id"`
	HomeScore   int       `db:"home_score"`
	AwayScore   int       `db:"away_score"`
	SubmittedAt time.Time `db:"submitted_at"`
}

func predictionFromRow(row predictionTableModel) prediction.Prediction {
	return prediction.Prediction{
		ID:          row.PublicID,
		PoolID:      row.PoolID,
		MatchID:     row.MatchID,
		UserID:      row.UserID,
		HomeScore:   row.HomeScore,
		AwayScore:   row.AwayScore,
		Points:      nullInt64ToIntPtr(row.Points),
		SubmittedAt: row.SubmittedAt,
	}
}
