package postgres

import (
	"database/sql"
	"time"

	"github.com/golazo-app/quiniela/internal/domain/match"
)

type matchTableModel struct {
	ID           int64         `db:"id"`
	PublicID     string        `db:"public_id"`
	SeasonID     string        `db:"season_public_id"`
	Round        int           `db:"round"`
	HomeTeam     string        `db:"home_team"`
	AwayTeam     string        `db:"away_team"`
	KickoffAt    time.Time     `db:"kickoff_at"`
	HomeScore    sql.NullInt64 `db:"home_score"`
	AwayScore    sql.NullInt64 `db:"away_score"`
	LockOverride sql.NullBool  `db:"lock_override"`
	CreatedAt    time.Time     `db:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at"`
	DeletedAt    *time.Time    `db:"deleted_at"`
}

func matchFromRow(row matchTableModel) match.Match {
	return match.Match{
		ID:           row.PublicID,
		SeasonID:     row.SeasonID,
		Round:        row.Round,
		HomeTeam:     row.HomeTeam,
		AwayTeam:     row.AwayTeam,
		KickoffAt:    row.KickoffAt,
		HomeScore:    nullInt64ToIntPtr(row.HomeScore),
		AwayScore:    nullInt64ToIntPtr(row.AwayScore),
		LockOverride: nullBoolToPtr(row.LockOverride),
	}
}
