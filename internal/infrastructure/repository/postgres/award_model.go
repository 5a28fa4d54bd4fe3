package postgres

import (
	"database/sql"
	"time"

	"github.com/golazo-app/quiniela/internal/domain/award"
)

type awardTierTableModel struct {
	ID       int64  `db:"id"`
	PoolID   string `db:"pool_public_id"`
	PrizeID  string `db:"prize_id"`
	FromRank int    `db:"rank_from"`
	ToRank   int    `db:"rank_to"`
}

type awardTableModel struct {
	ID          int64        `db:"id"`
	PublicID    string       `db:"public_id"`
	PoolID      string       `db:"pool_public_id"`
	UserID      string       `db:"user_id"`
	Rank        int          `db:"rank"`
	PrizeID     string       `db:"prize_id"`
	RankFrom    int          `db:"rank_from"`
	RankTo      int          `db:"rank_to"`
	AwardedAt   time.Time    `db:"awarded_at"`
	DeliveredAt sql.NullTime `db:"delivered_at"`
	Notified    bool         `db:"notified"`
	VoidedAt    sql.NullTime `db:"voided_at"`
	CreatedAt   time.Time    `db:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at"`
	DeletedAt   *time.Time   `db:"deleted_at"`
}

type awardInsertModel struct {
	PublicID  string    `db:"public_id"`
	PoolID    string    `db:"pool_public_id"`
	UserID    string    `db:"user_id"`
	Rank      int       `db:"rank"`
	PrizeID   string    `db:"prize_id"`
	RankFrom  int       `db:"rank_from"`
	RankTo    int       `db:"rank_to"`
	AwardedAt time.Time `db:"awarded_at"`
}

func awardFromRow(row awardTableModel) award.Award {
	item := award.Award{
		ID:        row.PublicID,
		PoolID:    row.PoolID,
		UserID:    row.UserID,
		Rank:      row.Rank,
		PrizeID:   row.PrizeID,
		RankFrom:  row.RankFrom,
		RankTo:    row.RankTo,
		AwardedAt: row.AwardedAt,
		Notified:  row.Notified,
	}
	if row.DeliveredAt.Valid {
		deliveredAt := row.DeliveredAt.Time
		item.DeliveredAt = &deliveredAt
	}
	if row.VoidedAt.Valid {
		voidedAt := row.VoidedAt.Time
		item.VoidedAt = &voidedAt
	}
	return item
}
