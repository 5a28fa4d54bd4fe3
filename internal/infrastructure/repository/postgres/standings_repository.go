package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/golazo-app/quiniela/internal/domain/standings"
	qb "github.com/golazo-app/quiniela/internal/platform/querybuilder"
)

type standingsTableModel struct {
	ID            int64     `db:"id"`
	PublicID      string    `db:"public_id"`
	CompetitionID string    `db:"competition_id"`
	SeasonID      string    `db:"season_public_id"`
	Payload       []byte    `db:"payload"`
	FetchedAt     time.Time `db:"fetched_at"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type standingsInsertModel struct {
	PublicID      string    `db:"public_id"`
	CompetitionID string    `db:"competition_id"`
	SeasonID      string    `db:"season_public_id"`
	Payload       []byte    `db:"payload"`
	FetchedAt     time.Time `db:"fetched_at"`
}

type StandingsRepository struct {
	db *sqlx.DB
}

func NewStandingsRepository(db *sqlx.DB) *StandingsRepository {
	return &StandingsRepository{db: db}
}

func (r *StandingsRepository) GetByCompetition(ctx context.Context, competitionID string) (standings.Snapshot, bool, error) {
	query, args, err := qb.Select("*").From("standings_snapshots").
		Where(qb.Eq("competition_id", competitionID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return standings.Snapshot{}, false, fmt.Errorf("build select standings query: %w", err)
	}

	var row standingsTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return standings.Snapshot{}, false, nil
		}
		return standings.Snapshot{}, false, fmt.Errorf("select standings: %w", err)
	}
	return standingsFromRow(row), true, nil
}

func (r *StandingsRepository) ListStale(ctx context.Context, threshold time.Time) ([]standings.Snapshot, error) {
	query, args, err := qb.Select("*").From("standings_snapshots").
		Where(qb.Expr("fetched_at < ?", threshold)).
		OrderBy("fetched_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select stale standings query: %w", err)
	}

	var rows []standingsTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select stale standings: %w", err)
	}

	out := make([]standings.Snapshot, 0, len(rows))
	for _, row := range rows {
		out = append(out, standingsFromRow(row))
	}
	return out, nil
}

// Replace keeps fetched_at monotone per competition: the conditional update
// drops a payload older than the stored one instead of applying it.
func (r *StandingsRepository) Replace(ctx context.Context, item standings.Snapshot) error {
	insertModel := standingsInsertModel{
		PublicID:      item.ID,
		CompetitionID: item.CompetitionID,
		SeasonID:      item.SeasonID,
		Payload:       item.Payload,
		FetchedAt:     item.FetchedAt,
	}

	query, args, err := qb.InsertModel("standings_snapshots", insertModel, `ON CONFLICT (competition_id)
DO UPDATE SET
    season_public_id = EXCLUDED.season_public_id,
    payload = EXCLUDED.payload,
    fetched_at = EXCLUDED.fetched_at,
    updated_at = NOW()
WHERE standings_snapshots.fetched_at <= EXCLUDED.fetched_at`)
	if err != nil {
		return fmt.Errorf("build replace standings query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("replace standings: %w", err)
	}
	return nil
}

func (r *StandingsRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM standings_snapshots WHERE fetched_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete old standings: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected delete old standings: %w", err)
	}
	return int(affected), nil
}

func standingsFromRow(row standingsTableModel) standings.Snapshot {
	return standings.Snapshot{
		ID:            row.PublicID,
		CompetitionID: row.CompetitionID,
		SeasonID:      row.SeasonID,
		Payload:       row.Payload,
		FetchedAt:     row.FetchedAt,
	}
}
