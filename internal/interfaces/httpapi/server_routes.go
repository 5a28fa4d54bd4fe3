package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/pools", handler.ListPools)
	mux.HandleFunc("GET /v1/pools/{poolID}", handler.GetPool)
	mux.HandleFunc("GET /v1/pools/{poolID}/leaderboard", handler.GetPoolLeaderboard)
	mux.HandleFunc("GET /v1/seasons/{seasonID}/matches", handler.ListSeasonMatches)
	mux.HandleFunc("GET /v1/matches/{matchID}", handler.GetMatch)
	mux.HandleFunc("GET /v1/competitions/{competitionID}/standings", handler.GetCompetitionStandings)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	registerAuthorizedPredictionRoutes(mux, handler, verifier)
	registerAuthorizedOperatorRoutes(mux, handler, verifier)
}

func registerAuthorizedPredictionRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/pools/{poolID}/predictions", RequireAuth(verifier, http.HandlerFunc(handler.SubmitPrediction)))
	mux.Handle("PUT /v1/pools/{poolID}/predictions", RequireAuth(verifier, http.HandlerFunc(handler.BulkSavePredictions)))
	mux.Handle("GET /v1/pools/{poolID}/predictions/me", RequireAuth(verifier, http.HandlerFunc(handler.ListMyPredictions)))
}

func registerAuthorizedOperatorRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("PUT /v1/pools/{poolID}/rules", RequireAuth(verifier, http.HandlerFunc(handler.UpdatePoolRuleSet)))
	mux.Handle("DELETE /v1/pools/{poolID}", RequireAuth(verifier, http.HandlerFunc(handler.RetirePool)))
	mux.Handle("PUT /v1/matches/{matchID}/lock", RequireAuth(verifier, http.HandlerFunc(handler.OverrideMatchLock)))
	mux.Handle("POST /v1/matches/{matchID}/result", RequireAuth(verifier, http.HandlerFunc(handler.ApplyMatchResult)))
	mux.Handle("POST /v1/matches/{matchID}/rescore", RequireAuth(verifier, http.HandlerFunc(handler.RescoreMatch)))
	mux.Handle("POST /v1/pools/{poolID}/awards/assign", RequireAuth(verifier, http.HandlerFunc(handler.AssignAwards)))
	mux.Handle("GET /v1/pools/{poolID}/awards", RequireAuth(verifier, http.HandlerFunc(handler.ListAwards)))
	mux.Handle("POST /v1/awards/{awardID}/delivered", RequireAuth(verifier, http.HandlerFunc(handler.MarkAwardDelivered)))
	mux.Handle("POST /v1/awards/{awardID}/notified", RequireAuth(verifier, http.HandlerFunc(handler.MarkAwardNotified)))
	mux.Handle("POST /v1/awards/{awardID}/void", RequireAuth(verifier, http.HandlerFunc(handler.VoidAward)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/standings-maintenance", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunStandingsMaintenanceJob)))
	mux.Handle("POST /v1/internal/jobs/rescore", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRescoreJob)))
}
