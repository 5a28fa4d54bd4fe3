package memory

import (
	"time"

	"github.com/golazo-app/quiniela/internal/domain/award"
	"github.com/golazo-app/quiniela/internal/domain/match"
	"github.com/golazo-app/quiniela/internal/domain/pool"
	"github.com/golazo-app/quiniela/internal/domain/registration"
)

const (
	SeasonIDLigaMX2026 = "mex-liga-mx-2026"
	PoolIDOficina      = "pool-oficina-2026"
	PoolIDFamilia      = "pool-familia-2026"
	TenantIDDemo       = "tenant-demo"
)

func seedKickoff(day int, hour int) time.Time {
	return time.Date(2026, time.August, day, hour, 0, 0, 0, time.UTC)
}

func SeedPools() []pool.Pool {
	return []pool.Pool{
		{
			ID:       PoolIDOficina,
			TenantID: TenantIDDemo,
			Slug:     "quiniela-oficina",
			SeasonID: SeasonIDLigaMX2026,
			RuleSet:  pool.RuleSet{ExactPoints: 5, DiffPoints: 3, SignPoints: 1},
		},
		{
			ID:       PoolIDFamilia,
			TenantID: TenantIDDemo,
			Slug:     "quiniela-familia",
			SeasonID: SeasonIDLigaMX2026,
			RuleSet: pool.RuleSet{
				ExactPoints: 3,
				DiffPoints:  2,
				SignPoints:  1,
				Rounds:      &pool.RoundRange{Start: 1, End: 17},
			},
		},
	}
}

func SeedMatches() []match.Match {
	return []match.Match{
		{ID: "mx-r1-ama-chv", SeasonID: SeasonIDLigaMX2026, Round: 1, HomeTeam: "América", AwayTeam: "Chivas", KickoffAt: seedKickoff(1, 18)},
		{ID: "mx-r1-tig-mty", SeasonID: SeasonIDLigaMX2026, Round: 1, HomeTeam: "Tigres", AwayTeam: "Monterrey", KickoffAt: seedKickoff(1, 20)},
		{ID: "mx-r2-cru-pum", SeasonID: SeasonIDLigaMX2026, Round: 2, HomeTeam: "Cruz Azul", AwayTeam: "Pumas", KickoffAt: seedKickoff(8, 18)},
		{ID: "mx-r2-tol-leo", SeasonID: SeasonIDLigaMX2026, Round: 2, HomeTeam: "Toluca", AwayTeam: "León", KickoffAt: seedKickoff(8, 20)},
	}
}

func SeedRegistrations() []registration.Registration {
	joined := seedKickoff(1, 0)
	return []registration.Registration{
		{UserID: "user-ana", PoolID: PoolIDOficina, JoinedAt: joined},
		{UserID: "user-luis", PoolID: PoolIDOficina, JoinedAt: joined},
		{UserID: "user-caro", PoolID: PoolIDOficina, JoinedAt: joined},
		{UserID: "user-ana", PoolID: PoolIDFamilia, JoinedAt: joined},
	}
}

func SeedAwardTiers() []award.Tier {
	return []award.Tier{
		{PoolID: PoolIDOficina, PrizeID: "prize-gold", FromRank: 1, ToRank: 1},
		{PoolID: PoolIDOficina, PrizeID: "prize-silver", FromRank: 2, ToRank: 3},
	}
}
