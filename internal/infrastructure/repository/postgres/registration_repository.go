package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/golazo-app/quiniela/internal/domain/registration"
	qb "github.com/golazo-app/quiniela/internal/platform/querybuilder"
)

type registrationTableModel struct {
	ID        int64      `db:"id"`
	UserID    string     `db:"user_id"`
	PoolID    string     `db:"pool_public_id"`
	JoinedAt  time.Time  `db:"joined_at"`
	CreatedAt time.Time  `db:"created_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type registrationInsertModel struct {
	UserID   string    `db:"user_id"`
	PoolID   string    `db:"pool_public_id"`
	JoinedAt time.Time `db:"joined_at"`
}

type RegistrationRepository struct {
	db *sqlx.DB
}

func NewRegistrationRepository(db *sqlx.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

func (r *RegistrationRepository) Exists(ctx context.Context, userID, poolID string) (bool, error) {
	query, args, err := qb.Select("COUNT(1)").From("pool_registrations").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("pool_public_id", poolID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build count registration query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return false, fmt.Errorf("count registration: %w", err)
	}
	return count > 0, nil
}

func (r *RegistrationRepository) Add(ctx context.Context, item registration.Registration) error {
	insertModel := registrationInsertModel{
		UserID:   item.UserID,
		PoolID:   item.PoolID,
		JoinedAt: item.JoinedAt,
	}

	query, args, err := qb.InsertModel("pool_registrations", insertModel, `ON CONFLICT (user_id, pool_public_id) WHERE deleted_at IS NULL
DO NOTHING`)
	if err != nil {
		return fmt.Errorf("build insert registration query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert registration: %w", err)
	}
	return nil
}

func (r *RegistrationRepository) ListByPool(ctx context.Context, poolID string) ([]registration.Registration, error) {
	query, args, err := qb.Select("*").From("pool_registrations").
		Where(
			qb.Eq("pool_public_id", poolID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select registrations query: %w", err)
	}

	var rows []registrationTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select registrations: %w", err)
	}

	out := make([]registration.Registration, 0, len(rows))
	for _, row := range rows {
		out = append(out, registration.Registration{
			UserID:   row.UserID,
			PoolID:   row.PoolID,
			JoinedAt: row.JoinedAt,
		})
	}
	return out, nil
}
