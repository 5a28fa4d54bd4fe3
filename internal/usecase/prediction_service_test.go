package usecase

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golazo-app/quiniela/internal/infrastructure/repository/memory"
)

type seqIDGenerator struct {
	prefix string
	n      int
}

func (g *seqIDGenerator) NewID() (string, error) {
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n), nil
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func newPredictionService() (*PredictionService, *memory.MatchRepository, *memory.PredictionRepository) {
	matchRepo := memory.NewMatchRepository(memory.SeedMatches())
	predictionRepo := memory.NewPredictionRepository()
	service := NewPredictionService(
		memory.NewPoolRepository(memory.SeedPools()),
		matchRepo,
		memory.NewRegistrationRepository(memory.SeedRegistrations()),
		predictionRepo,
		&seqIDGenerator{prefix: "pred"},
		nil,
	)
	return service, matchRepo, predictionRepo
}

func TestPredictionService_Submit_BeforeKickoff(t *testing.T) {
	t.Parallel()

	service, _, _ := newPredictionService()
	// All seeded round 1 matches kick off 2026-08-01.
	service.now = fixedClock(time.Date(2026, time.July, 31, 12, 0, 0, 0, time.UTC))

	saved, err := service.Submit(t.Context(), SubmitPredictionInput{
		UserID:    "user-ana",
		PoolID:    memory.PoolIDOficina,
		MatchID:   "mx-r1-ama-chv",
		HomeScore: 2,
		AwayScore: 1,
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if saved.HomeScore != 2 || saved.AwayScore != 1 {
		t.Fatalf("unexpected saved score: got=%d-%d want=2-1", saved.HomeScore, saved.AwayScore)
	}
	if saved.Points != nil {
		t.Fatalf("fresh prediction must carry no points")
	}
}

func TestPredictionService_Submit_LockedAtKickoff(t *testing.T) {
	t.Parallel()

	service, _, _ := newPredictionService()
	// Exactly at kickoff the match is locked.
	service.now = fixedClock(time.Date(2026, time.August, 1, 18, 0, 0, 0, time.UTC))

	_, err := service.Submit(t.Context(), SubmitPredictionInput{
		UserID:    "user-ana",
		PoolID:    memory.PoolIDOficina,
		MatchID:   "mx-r1-ama-chv",
		HomeScore: 1,
		AwayScore: 0,
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden at kickoff instant, got %v", err)
	}
}

func TestPredictionService_Submit_ForcedOpenOverridesKickoff(t *testing.T) {
	t.Parallel()

	service, matchRepo, _ := newPredictionService()
	service.now = fixedClock(time.Date(2026, time.August, 1, 19, 0, 0, 0, time.UTC))

	open := false
	if err := matchRepo.SetLockOverride(t.Context(), "mx-r1-ama-chv", &open); err != nil {
		t.Fatalf("set override: %v", err)
	}

	if _, err := service.Submit(t.Context(), SubmitPredictionInput{
		UserID:    "user-ana",
		PoolID:    memory.PoolIDOficina,
		MatchID:   "mx-r1-ama-chv",
		HomeScore: 0,
		AwayScore: 0,
	}); err != nil {
		t.Fatalf("submit on forced-open match failed: %v", err)
	}
}

func TestPredictionService_Submit_ReplacesEarlierPrediction(t *testing.T) {
	t.Parallel()

	service, _, predictionRepo := newPredictionService()
	service.now = fixedClock(time.Date(2026, time.July, 31, 12, 0, 0, 0, time.UTC))

	input := SubmitPredictionInput{
		UserID:    "user-ana",
		PoolID:    memory.PoolIDOficina,
		MatchID:   "mx-r1-ama-chv",
		HomeScore: 2,
		AwayScore: 1,
	}
	if _, err := service.Submit(t.Context(), input); err != nil {
		t.Fatalf("first submit: %v", err)
	}

	input.HomeScore, input.AwayScore = 0, 3
	if _, err := service.Submit(t.Context(), input); err != nil {
		t.Fatalf("second submit: %v", err)
	}

	stored, ok, err := predictionRepo.GetByKey(t.Context(), memory.PoolIDOficina, "mx-r1-ama-chv", "user-ana")
	if err != nil || !ok {
		t.Fatalf("get prediction: ok=%v err=%v", ok, err)
	}
	if stored.HomeScore != 0 || stored.AwayScore != 3 {
		t.Fatalf("last submission must win: got=%d-%d want=0-3", stored.HomeScore, stored.AwayScore)
	}
}

func TestPredictionService_Submit_RequiresRegistration(t *testing.T) {
	t.Parallel()

	service, _, _ := newPredictionService()
	service.now = fixedClock(time.Date(2026, time.July, 31, 12, 0, 0, 0, time.UTC))

	_, err := service.Submit(t.Context(), SubmitPredictionInput{
		UserID:    "user-stranger",
		PoolID:    memory.PoolIDOficina,
		MatchID:   "mx-r1-ama-chv",
		HomeScore: 1,
		AwayScore: 1,
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for unregistered user, got %v", err)
	}
}

func TestPredictionService_Submit_ScoreOutOfRange(t *testing.T) {
	t.Parallel()

	service, _, _ := newPredictionService()
	service.now = fixedClock(time.Date(2026, time.July, 31, 12, 0, 0, 0, time.UTC))

	_, err := service.Submit(t.Context(), SubmitPredictionInput{
		UserID:    "user-ana",
		PoolID:    memory.PoolIDOficina,
		MatchID:   "mx-r1-ama-chv",
		HomeScore: 100,
		AwayScore: 0,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for score 100, got %v", err)
	}
}

func TestPredictionService_BulkSave_PartialFailure(t *testing.T) {
	t.Parallel()

	service, _, _ := newPredictionService()
	// Round 1 already kicked off, round 2 still open.
	service.now = fixedClock(time.Date(2026, time.August, 2, 12, 0, 0, 0, time.UTC))

	result, err := service.BulkSave(t.Context(), "user-ana", memory.PoolIDOficina, []BulkPredictionItem{
		{MatchID: "mx-r1-ama-chv", HomeScore: 1, AwayScore: 0},
		{MatchID: "mx-r2-cru-pum", HomeScore: 2, AwayScore: 2},
		{MatchID: "mx-r2-tol-leo", HomeScore: -1, AwayScore: 0},
		{MatchID: "mx-r9-ghost", HomeScore: 1, AwayScore: 1},
	})
	if err != nil {
		t.Fatalf("bulk save failed: %v", err)
	}

	if len(result.Saved) != 1 || result.Saved[0].MatchID != "mx-r2-cru-pum" {
		t.Fatalf("unexpected saved set: %+v", result.Saved)
	}

	reasons := make(map[string]string, len(result.Skipped))
	for _, skipped := range result.Skipped {
		reasons[skipped.MatchID] = skipped.Reason
	}
	want := map[string]string{
		"mx-r1-ama-chv": SkipReasonLocked,
		"mx-r2-tol-leo": SkipReasonInvalidScore,
		"mx-r9-ghost":   SkipReasonMatchNotFound,
	}
	if len(reasons) != len(want) {
		t.Fatalf("unexpected skipped count: got=%d want=%d (%+v)", len(reasons), len(want), result.Skipped)
	}
	for matchID, reason := range want {
		if reasons[matchID] != reason {
			t.Fatalf("unexpected skip reason for %s: got=%q want=%q", matchID, reasons[matchID], reason)
		}
	}
}

func TestPredictionService_BulkSave_RetiredPool(t *testing.T) {
	t.Parallel()

	poolRepo := memory.NewPoolRepository(memory.SeedPools())
	if err := poolRepo.Retire(t.Context(), memory.PoolIDOficina); err != nil {
		t.Fatalf("retire pool: %v", err)
	}
	service := NewPredictionService(
		poolRepo,
		memory.NewMatchRepository(memory.SeedMatches()),
		memory.NewRegistrationRepository(memory.SeedRegistrations()),
		memory.NewPredictionRepository(),
		&seqIDGenerator{prefix: "pred"},
		nil,
	)

	_, err := service.BulkSave(t.Context(), "user-ana", memory.PoolIDOficina, []BulkPredictionItem{
		{MatchID: "mx-r2-cru-pum", HomeScore: 1, AwayScore: 1},
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for retired pool, got %v", err)
	}
}
