package usecase

import (
	"errors"
	"testing"

	"github.com/golazo-app/quiniela/internal/domain/pool"
	"github.com/golazo-app/quiniela/internal/infrastructure/repository/memory"
)

func newPoolFixture() (*PoolService, *memory.PoolRepository, *memory.MatchRepository, *memory.PredictionRepository) {
	poolRepo := memory.NewPoolRepository(memory.SeedPools())
	matchRepo := memory.NewMatchRepository(memory.SeedMatches())
	predictionRepo := memory.NewPredictionRepository()
	scoring := NewScoringService(poolRepo, matchRepo, predictionRepo, nil)
	service := NewPoolService(poolRepo, matchRepo, scoring, nil)
	return service, poolRepo, matchRepo, predictionRepo
}

func TestPoolService_UpdateRuleSet_RescoresFinishedMatches(t *testing.T) {
	t.Parallel()

	service, poolRepo, matchRepo, predictionRepo := newPoolFixture()

	seedPrediction(t, predictionRepo, "p-1", memory.PoolIDOficina, "mx-r1-ama-chv", "user-ana", 2, 1)
	if err := matchRepo.SetResult(t.Context(), "mx-r1-ama-chv", 2, 1); err != nil {
		t.Fatalf("set result: %v", err)
	}

	report, err := service.UpdateRuleSet(t.Context(), memory.PoolIDOficina, pool.RuleSet{
		ExactPoints: 10,
		DiffPoints:  4,
		SignPoints:  2,
	})
	if err != nil {
		t.Fatalf("update rule set failed: %v", err)
	}
	if report.Matches != 1 || report.Predictions != 1 {
		t.Fatalf("unexpected rescore report: %+v", report)
	}

	stored, ok, err := predictionRepo.GetByKey(t.Context(), memory.PoolIDOficina, "mx-r1-ama-chv", "user-ana")
	if err != nil || !ok {
		t.Fatalf("get prediction: ok=%v err=%v", ok, err)
	}
	if stored.Points == nil || *stored.Points != 10 {
		t.Fatalf("points must follow the new weights: got=%v want=10", stored.Points)
	}

	updated, _, err := poolRepo.GetByID(t.Context(), memory.PoolIDOficina)
	if err != nil {
		t.Fatalf("get pool: %v", err)
	}
	if updated.RuleSet.ExactPoints != 10 {
		t.Fatalf("rule set not persisted: %+v", updated.RuleSet)
	}
}

func TestPoolService_UpdateRuleSet_RejectsInvalidRuleSet(t *testing.T) {
	t.Parallel()

	service, _, _, _ := newPoolFixture()

	_, err := service.UpdateRuleSet(t.Context(), memory.PoolIDOficina, pool.RuleSet{
		ExactPoints: -1,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	_, err = service.UpdateRuleSet(t.Context(), memory.PoolIDOficina, pool.RuleSet{
		ExactPoints: 5,
		Rounds:      &pool.RoundRange{Start: 9, End: 3},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for malformed round range, got %v", err)
	}
}

func TestPoolService_Retire_Idempotent(t *testing.T) {
	t.Parallel()

	service, poolRepo, _, _ := newPoolFixture()

	if err := service.Retire(t.Context(), memory.PoolIDOficina); err != nil {
		t.Fatalf("retire: %v", err)
	}
	if err := service.Retire(t.Context(), memory.PoolIDOficina); err != nil {
		t.Fatalf("second retire: %v", err)
	}

	p, _, err := poolRepo.GetByID(t.Context(), memory.PoolIDOficina)
	if err != nil {
		t.Fatalf("get pool: %v", err)
	}
	if !p.Retired() {
		t.Fatalf("pool must be retired")
	}
}
