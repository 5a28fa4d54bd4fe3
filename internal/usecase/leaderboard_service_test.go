package usecase

import (
	"testing"

	"github.com/golazo-app/quiniela/internal/domain/leaderboard"
	"github.com/golazo-app/quiniela/internal/infrastructure/repository/memory"
)

func TestLeaderboardService_Compute_CompetitionRanking(t *testing.T) {
	t.Parallel()

	poolRepo := memory.NewPoolRepository(memory.SeedPools())
	matchRepo := memory.NewMatchRepository(memory.SeedMatches())
	predictionRepo := memory.NewPredictionRepository()
	scoring := NewScoringService(poolRepo, matchRepo, predictionRepo, nil)
	service := NewLeaderboardService(poolRepo, matchRepo, memory.NewRegistrationRepository(memory.SeedRegistrations()), predictionRepo)

	// Result 2-1: ana and luis both exact (5 each), caro misses entirely.
	seedPrediction(t, predictionRepo, "p-ana", memory.PoolIDOficina, "mx-r1-ama-chv", "user-ana", 2, 1)
	seedPrediction(t, predictionRepo, "p-luis", memory.PoolIDOficina, "mx-r1-ama-chv", "user-luis", 2, 1)
	seedPrediction(t, predictionRepo, "p-caro", memory.PoolIDOficina, "mx-r1-ama-chv", "user-caro", 0, 2)
	if _, err := scoring.ApplyResult(t.Context(), ApplyResultInput{MatchID: "mx-r1-ama-chv", HomeScore: 2, AwayScore: 1}); err != nil {
		t.Fatalf("apply result: %v", err)
	}

	entries, err := service.Compute(t.Context(), memory.PoolIDOficina)
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}

	want := []leaderboard.Entry{
		{UserID: "user-ana", TotalPoints: 5, Rank: 1},
		{UserID: "user-luis", TotalPoints: 5, Rank: 1},
		{UserID: "user-caro", TotalPoints: 0, Rank: 3},
	}
	if len(entries) != len(want) {
		t.Fatalf("unexpected entry count: got=%d want=%d", len(entries), len(want))
	}
	for i, entry := range entries {
		if entry != want[i] {
			t.Fatalf("unexpected entry at %d: got=%+v want=%+v", i, entry, want[i])
		}
	}
}

func TestLeaderboardService_Compute_IncludesUsersWithoutPredictions(t *testing.T) {
	t.Parallel()

	poolRepo := memory.NewPoolRepository(memory.SeedPools())
	matchRepo := memory.NewMatchRepository(memory.SeedMatches())
	service := NewLeaderboardService(poolRepo, matchRepo, memory.NewRegistrationRepository(memory.SeedRegistrations()), memory.NewPredictionRepository())

	entries, err := service.Compute(t.Context(), memory.PoolIDOficina)
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("every registered user must appear: got=%d want=3", len(entries))
	}
	for _, entry := range entries {
		if entry.TotalPoints != 0 || entry.Rank != 1 {
			t.Fatalf("empty pool must rank everyone first with 0 points, got=%+v", entry)
		}
	}
}

func TestLeaderboardService_Compute_IgnoresOutOfScopeRounds(t *testing.T) {
	t.Parallel()

	pools := memory.SeedPools()
	for i := range pools {
		if pools[i].ID == memory.PoolIDFamilia {
			pools[i].RuleSet.Rounds.Start = 2
			pools[i].RuleSet.Rounds.End = 2
		}
	}
	poolRepo := memory.NewPoolRepository(pools)
	matchRepo := memory.NewMatchRepository(memory.SeedMatches())
	predictionRepo := memory.NewPredictionRepository()
	service := NewLeaderboardService(poolRepo, matchRepo, memory.NewRegistrationRepository(memory.SeedRegistrations()), predictionRepo)

	// Stale points on a round 1 match must not leak into the total.
	seedPrediction(t, predictionRepo, "p-old", memory.PoolIDFamilia, "mx-r1-ama-chv", "user-ana", 2, 1)
	if err := predictionRepo.SetPoints(t.Context(), "p-old", 5); err != nil {
		t.Fatalf("set points: %v", err)
	}

	entries, err := service.Compute(t.Context(), memory.PoolIDFamilia)
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("unexpected entry count: got=%d want=1", len(entries))
	}
	if entries[0].TotalPoints != 0 {
		t.Fatalf("out-of-scope points must not count: got=%d want=0", entries[0].TotalPoints)
	}
}
