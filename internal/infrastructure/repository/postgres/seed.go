package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/golazo-app/quiniela/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the demo pools, matches, registrations, and prize tiers
// into an empty database. A database that already has pools is left alone.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM pools WHERE deleted_at IS NULL`); err != nil {
		return fmt.Errorf("count pools for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, p := range memory.SeedPools() {
		params := map[string]any{
			"public_id":        p.ID,
			"tenant_id":        p.TenantID,
			"slug":             p.Slug,
			"season_public_id": p.SeasonID,
			"exact_points":     p.RuleSet.ExactPoints,
			"diff_points":      p.RuleSet.DiffPoints,
			"sign_points":      p.RuleSet.SignPoints,
			"rounds_from":      nil,
			"rounds_to":        nil,
		}
		if p.RuleSet.Rounds != nil {
			params["rounds_from"] = p.RuleSet.Rounds.Start
			params["rounds_to"] = p.RuleSet.Rounds.End
		}
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO pools (public_id, tenant_id, slug, season_public_id, exact_points, diff_points, sign_points, rounds_from, rounds_to)
VALUES (:public_id, :tenant_id, :slug, :season_public_id, :exact_points, :diff_points, :sign_points, :rounds_from, :rounds_to)
ON CONFLICT (public_id) DO NOTHING`, params)
		if err != nil {
			return fmt.Errorf("bind seed pool %s query: %w", p.ID, err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(sqlQuery), args...); err != nil {
			return fmt.Errorf("seed pool %s: %w", p.ID, err)
		}
	}

	for _, m := range memory.SeedMatches() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO matches (public_id, season_public_id, round, home_team, away_team, kickoff_at)
VALUES (:public_id, :season_public_id, :round, :home_team, :away_team, :kickoff_at)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":        m.ID,
			"season_public_id": m.SeasonID,
			"round":            m.Round,
			"home_team":        m.HomeTeam,
			"away_team":        m.AwayTeam,
			"kickoff_at":       m.KickoffAt,
		})
		if err != nil {
			return fmt.Errorf("bind seed match %s query: %w", m.ID, err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(sqlQuery), args...); err != nil {
			return fmt.Errorf("seed match %s: %w", m.ID, err)
		}
	}

	for _, reg := range memory.SeedRegistrations() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO pool_registrations (user_id, pool_public_id, joined_at)
VALUES (:user_id, :pool_public_id, :joined_at)
ON CONFLICT DO NOTHING`, map[string]any{
			"user_id":        reg.UserID,
			"pool_public_id": reg.PoolID,
			"joined_at":      reg.JoinedAt,
		})
		if err != nil {
			return fmt.Errorf("bind seed registration %s/%s query: %w", reg.UserID, reg.PoolID, err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(sqlQuery), args...); err != nil {
			return fmt.Errorf("seed registration %s/%s: %w", reg.UserID, reg.PoolID, err)
		}
	}

	for _, tier := range memory.SeedAwardTiers() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO pool_prize_tiers (pool_public_id, prize_id, rank_from, rank_to)
VALUES (:pool_public_id, :prize_id, :rank_from, :rank_to)
ON CONFLICT DO NOTHING`, map[string]any{
			"pool_public_id": tier.PoolID,
			"prize_id":       tier.PrizeID,
			"rank_from":      tier.FromRank,
			"rank_to":        tier.ToRank,
		})
		if err != nil {
			return fmt.Errorf("bind seed prize tier %s/%s query: %w", tier.PoolID, tier.PrizeID, err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(sqlQuery), args...); err != nil {
			return fmt.Errorf("seed prize tier %s/%s: %w", tier.PoolID, tier.PrizeID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}
