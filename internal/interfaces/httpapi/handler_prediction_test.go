package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/golazo-app/quiniela/internal/domain/user"
	"github.com/golazo-app/quiniela/internal/infrastructure/repository/memory"
	idgen "github.com/golazo-app/quiniela/internal/platform/id"
	"github.com/golazo-app/quiniela/internal/usecase"
)

type staticVerifier struct {
	userID string
}

func (v staticVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	if strings.TrimSpace(token) == "" {
		return user.Principal{}, fmt.Errorf("%w: empty token", usecase.ErrUnauthorized)
	}
	return user.Principal{UserID: v.userID}, nil
}

func newTestRouter(t *testing.T, userID string) http.Handler {
	t.Helper()

	poolRepo := memory.NewPoolRepository(memory.SeedPools())
	matchRepo := memory.NewMatchRepository(memory.SeedMatches())
	registrationRepo := memory.NewRegistrationRepository(memory.SeedRegistrations())
	predictionRepo := memory.NewPredictionRepository()
	awardRepo := memory.NewAwardRepository(memory.SeedAwardTiers())
	standingsRepo := memory.NewStandingsRepository(nil)

	generator := idgen.NewRandomGenerator()
	predictionService := usecase.NewPredictionService(poolRepo, matchRepo, registrationRepo, predictionRepo, generator, nil)
	scoringService := usecase.NewScoringService(poolRepo, matchRepo, predictionRepo, nil)
	poolService := usecase.NewPoolService(poolRepo, matchRepo, scoringService, nil)
	matchService := usecase.NewMatchService(matchRepo, nil)
	leaderboardService := usecase.NewLeaderboardService(poolRepo, matchRepo, registrationRepo, predictionRepo)
	awardService := usecase.NewAwardService(awardRepo, leaderboardService, generator, nil)
	standingsService := usecase.NewStandingsService(standingsRepo, nil, generator, nil)
	jobService := usecase.NewJobService(standingsService, usecase.NewNoopJobQueue(), usecase.JobConfig{}, nil)

	handler := NewHandler(
		poolService,
		matchService,
		predictionService,
		scoringService,
		leaderboardService,
		awardService,
		standingsService,
		jobService,
		nil,
	)

	return NewRouter(handler, staticVerifier{userID: userID}, nil, false, nil, "job-token")
}

func TestSubmitPrediction_RequiresAuth(t *testing.T) {
	router := newTestRouter(t, "user-ana")

	body := strings.NewReader(`{"match_id":"mx-r1-ama-chv","home_score":2,"away_score":1}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/pools/"+memory.PoolIDOficina+"/predictions", body)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without bearer token, got %d", rec.Code)
	}
}

func TestSubmitPrediction_LockedMatch(t *testing.T) {
	router := newTestRouter(t, "user-ana")

	// Seed kickoffs are in the past relative to the service clock.
	body := strings.NewReader(`{"match_id":"mx-r1-ama-chv","home_score":2,"away_score":1}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/pools/"+memory.PoolIDOficina+"/predictions", body)
	req.Header.Set("Authorization", "Bearer token-ana")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403 for locked match, got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	errorObj, ok := envelope["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object, got %v", envelope)
	}
	if got, _ := errorObj["status"].(string); got != "FORBIDDEN" {
		t.Fatalf("expected FORBIDDEN status, got %v", errorObj["status"])
	}
}

func TestSubmitPrediction_OpenMatchAfterOverride(t *testing.T) {
	router := newTestRouter(t, "user-ana")

	lockBody := strings.NewReader(`{"locked":false}`)
	lockReq := httptest.NewRequest(http.MethodPut, "/v1/matches/mx-r1-ama-chv/lock", lockBody)
	lockReq.Header.Set("Authorization", "Bearer token-ops")
	lockRec := httptest.NewRecorder()
	router.ServeHTTP(lockRec, lockReq)
	if lockRec.Code != http.StatusOK {
		t.Fatalf("expected status 200 for lock override, got %d: %s", lockRec.Code, lockRec.Body.String())
	}

	body := strings.NewReader(`{"match_id":"mx-r1-ama-chv","home_score":2,"away_score":1}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/pools/"+memory.PoolIDOficina+"/predictions", body)
	req.Header.Set("Authorization", "Bearer token-ana")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201 after forced-open override, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSubmitPrediction_ScoreOutOfRange(t *testing.T) {
	router := newTestRouter(t, "user-ana")

	body := strings.NewReader(`{"match_id":"mx-r1-ama-chv","home_score":100,"away_score":0}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/pools/"+memory.PoolIDOficina+"/predictions", body)
	req.Header.Set("Authorization", "Bearer token-ana")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for out-of-range score, got %d", rec.Code)
	}
}

func TestBulkSavePredictions_PartialFailure(t *testing.T) {
	router := newTestRouter(t, "user-ana")

	payload := `{"predictions":[` +
		`{"match_id":"mx-r1-ama-chv","home_score":2,"away_score":1},` +
		`{"match_id":"no-such-match","home_score":1,"away_score":1}]}`
	req := httptest.NewRequest(http.MethodPut, "/v1/pools/"+memory.PoolIDOficina+"/predictions", strings.NewReader(payload))
	req.Header.Set("Authorization", "Bearer token-ana")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 for bulk save, got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data bulkPredictionsResponse `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(envelope.Data.Saved) != 0 {
		t.Fatalf("expected no saved items for locked seed matches, got %d", len(envelope.Data.Saved))
	}
	if len(envelope.Data.Skipped) != 2 {
		t.Fatalf("expected 2 skipped items, got %d", len(envelope.Data.Skipped))
	}
}

func TestInternalJobRoute_RequiresToken(t *testing.T) {
	router := newTestRouter(t, "user-ana")

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/standings-maintenance", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without job token, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/standings-maintenance", strings.NewReader(`{}`))
	req.Header.Set("X-Internal-Job-Token", "job-token")
	rec = httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 with job token, got %d: %s", rec.Code, rec.Body.String())
	}
}
