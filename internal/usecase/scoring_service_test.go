package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golazo-app/quiniela/internal/domain/prediction"
	"github.com/golazo-app/quiniela/internal/infrastructure/repository/memory"
)

func seedPrediction(t *testing.T, repo *memory.PredictionRepository, id, poolID, matchID, userID string, home, away int) {
	t.Helper()
	_, err := repo.Upsert(context.Background(), prediction.Prediction{
		ID:          id,
		PoolID:      poolID,
		MatchID:     matchID,
		UserID:      userID,
		HomeScore:   home,
		AwayScore:   away,
		SubmittedAt: time.Date(2026, time.July, 31, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("seed prediction %s: %v", id, err)
	}
}

func TestScoringService_ApplyResult_ScoresByTier(t *testing.T) {
	t.Parallel()

	poolRepo := memory.NewPoolRepository(memory.SeedPools())
	matchRepo := memory.NewMatchRepository(memory.SeedMatches())
	predictionRepo := memory.NewPredictionRepository()
	service := NewScoringService(poolRepo, matchRepo, predictionRepo, nil)

	// Result will be 2-1: exact, same diff, same sign, miss.
	seedPrediction(t, predictionRepo, "p-exact", memory.PoolIDOficina, "mx-r1-ama-chv", "user-ana", 2, 1)
	seedPrediction(t, predictionRepo, "p-diff", memory.PoolIDOficina, "mx-r1-ama-chv", "user-luis", 3, 2)
	seedPrediction(t, predictionRepo, "p-sign", memory.PoolIDOficina, "mx-r1-ama-chv", "user-caro", 3, 1)
	seedPrediction(t, predictionRepo, "p-miss", memory.PoolIDOficina, "mx-r1-tig-mty", "user-ana", 0, 0)

	scored, err := service.ApplyResult(t.Context(), ApplyResultInput{
		MatchID:   "mx-r1-ama-chv",
		HomeScore: 2,
		AwayScore: 1,
	})
	if err != nil {
		t.Fatalf("apply result failed: %v", err)
	}
	if scored != 3 {
		t.Fatalf("unexpected scored count: got=%d want=3", scored)
	}

	wantPoints := map[string]int{"user-ana": 5, "user-luis": 3, "user-caro": 1}
	items, err := predictionRepo.ListByMatch(t.Context(), "mx-r1-ama-chv")
	if err != nil {
		t.Fatalf("list predictions: %v", err)
	}
	for _, item := range items {
		if item.Points == nil {
			t.Fatalf("prediction %s not scored", item.ID)
		}
		if got, want := *item.Points, wantPoints[item.UserID]; got != want {
			t.Fatalf("unexpected points for %s: got=%d want=%d", item.UserID, got, want)
		}
	}
}

func TestScoringService_RescoreMatch_Idempotent(t *testing.T) {
	t.Parallel()

	poolRepo := memory.NewPoolRepository(memory.SeedPools())
	matchRepo := memory.NewMatchRepository(memory.SeedMatches())
	predictionRepo := memory.NewPredictionRepository()
	service := NewScoringService(poolRepo, matchRepo, predictionRepo, nil)

	seedPrediction(t, predictionRepo, "p-1", memory.PoolIDOficina, "mx-r1-ama-chv", "user-ana", 2, 1)

	if _, err := service.ApplyResult(t.Context(), ApplyResultInput{MatchID: "mx-r1-ama-chv", HomeScore: 2, AwayScore: 1}); err != nil {
		t.Fatalf("apply result: %v", err)
	}

	rescored, err := service.RescoreMatch(t.Context(), "mx-r1-ama-chv")
	if err != nil {
		t.Fatalf("rescore: %v", err)
	}
	if rescored != 0 {
		t.Fatalf("second pass must rewrite nothing, got=%d", rescored)
	}
}

func TestScoringService_RescoreMatch_OutOfScopeRoundScoresZero(t *testing.T) {
	t.Parallel()

	pools := memory.SeedPools()
	for i := range pools {
		if pools[i].ID == memory.PoolIDFamilia {
			// Narrow the familia pool to round 2 only.
			pools[i].RuleSet.Rounds.Start = 2
			pools[i].RuleSet.Rounds.End = 2
		}
	}
	poolRepo := memory.NewPoolRepository(pools)
	matchRepo := memory.NewMatchRepository(memory.SeedMatches())
	predictionRepo := memory.NewPredictionRepository()
	service := NewScoringService(poolRepo, matchRepo, predictionRepo, nil)

	seedPrediction(t, predictionRepo, "p-1", memory.PoolIDFamilia, "mx-r1-ama-chv", "user-ana", 2, 1)

	if _, err := service.ApplyResult(t.Context(), ApplyResultInput{MatchID: "mx-r1-ama-chv", HomeScore: 2, AwayScore: 1}); err != nil {
		t.Fatalf("apply result: %v", err)
	}

	stored, ok, err := predictionRepo.GetByKey(t.Context(), memory.PoolIDFamilia, "mx-r1-ama-chv", "user-ana")
	if err != nil || !ok {
		t.Fatalf("get prediction: ok=%v err=%v", ok, err)
	}
	if stored.Points == nil || *stored.Points != 0 {
		t.Fatalf("out-of-scope round must score 0, got=%v", stored.Points)
	}
}

func TestScoringService_RescoreMatches_CountsFailures(t *testing.T) {
	t.Parallel()

	poolRepo := memory.NewPoolRepository(memory.SeedPools())
	matchRepo := memory.NewMatchRepository(memory.SeedMatches())
	predictionRepo := memory.NewPredictionRepository()
	service := NewScoringService(poolRepo, matchRepo, predictionRepo, nil)

	seedPrediction(t, predictionRepo, "p-1", memory.PoolIDOficina, "mx-r1-ama-chv", "user-ana", 1, 0)
	if err := matchRepo.SetResult(t.Context(), "mx-r1-ama-chv", 1, 0); err != nil {
		t.Fatalf("set result: %v", err)
	}

	// mx-r2-cru-pum has no result yet and mx-missing does not exist.
	report, err := service.RescoreMatches(t.Context(), []string{"mx-r1-ama-chv", "mx-r2-cru-pum", "mx-missing"})
	if err != nil {
		t.Fatalf("rescore wave: %v", err)
	}
	if report.Matches != 3 {
		t.Fatalf("unexpected match count: got=%d want=3", report.Matches)
	}
	if report.Predictions != 1 {
		t.Fatalf("unexpected scored predictions: got=%d want=1", report.Predictions)
	}
	if report.Failed != 2 {
		t.Fatalf("unexpected failure count: got=%d want=2", report.Failed)
	}
}

func TestScoringService_ApplyResult_RejectsNegativeScore(t *testing.T) {
	t.Parallel()

	service := NewScoringService(
		memory.NewPoolRepository(memory.SeedPools()),
		memory.NewMatchRepository(memory.SeedMatches()),
		memory.NewPredictionRepository(),
		nil,
	)

	_, err := service.ApplyResult(t.Context(), ApplyResultInput{MatchID: "mx-r1-ama-chv", HomeScore: -1, AwayScore: 0})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
