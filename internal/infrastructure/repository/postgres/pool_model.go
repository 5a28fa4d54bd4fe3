package postgres

import (
	"database/sql"
	"time"

	"github.com/golazo-app/quiniela/internal/domain/pool"
)

type poolTableModel struct {
	ID          int64         `db:"id"`
	PublicID    string        `db:"public_id"`
	TenantID    string        `db:"tenant_id"`
	Slug        string        `db:"slug"`
	SeasonID    string        `db:"season_public_id"`
	ExactPoints int           `db:"exact_points"`
	DiffPoints  int           `db:"diff_points"`
	SignPoints  int           `db:"sign_points"`
	RoundsFrom  sql.NullInt64 `db:"rounds_from"`
	RoundsTo    sql.NullInt64 `db:"rounds_to"`
	RetiredAt   *time.Time    `db:"retired_at"`
	CreatedAt   time.Time     `db:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at"`
	DeletedAt   *time.Time    `db:"deleted_at"`
}

func poolFromRow(row poolTableModel) pool.Pool {
	ruleSet := pool.RuleSet{
		ExactPoints: row.ExactPoints,
		DiffPoints:  row.DiffPoints,
		SignPoints:  row.SignPoints,
	}
	if row.RoundsFrom.Valid && row.RoundsTo.Valid {
		ruleSet.Rounds = &pool.RoundRange{
			Start: int(row.RoundsFrom.Int64),
			End:   int(row.RoundsTo.Int64),
		}
	}
	return pool.Pool{
		ID:        row.PublicID,
		TenantID:  row.TenantID,
		Slug:      row.Slug,
		SeasonID:  row.SeasonID,
		RuleSet:   ruleSet,
		CreatedAt: row.CreatedAt,
		RetiredAt: row.RetiredAt,
	}
}
