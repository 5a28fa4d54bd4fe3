// Package app assembles the service: repositories, use case services, the
// auth verifier, and the HTTP router.
package app

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/golazo-app/quiniela/external/footballdata"
	"github.com/golazo-app/quiniela/external/jobqueue"
	"github.com/golazo-app/quiniela/internal/config"
	"github.com/golazo-app/quiniela/internal/domain/award"
	"github.com/golazo-app/quiniela/internal/domain/match"
	"github.com/golazo-app/quiniela/internal/domain/pool"
	"github.com/golazo-app/quiniela/internal/domain/prediction"
	"github.com/golazo-app/quiniela/internal/domain/registration"
	"github.com/golazo-app/quiniela/internal/domain/standings"
	"github.com/golazo-app/quiniela/internal/infrastructure/account/passport"
	cacherepo "github.com/golazo-app/quiniela/internal/infrastructure/repository/cache"
	"github.com/golazo-app/quiniela/internal/infrastructure/repository/memory"
	"github.com/golazo-app/quiniela/internal/infrastructure/repository/postgres"
	"github.com/golazo-app/quiniela/internal/interfaces/httpapi"
	platformcache "github.com/golazo-app/quiniela/internal/platform/cache"
	idgen "github.com/golazo-app/quiniela/internal/platform/id"
	"github.com/golazo-app/quiniela/internal/platform/logging"
	"github.com/golazo-app/quiniela/internal/platform/resilience"
	"github.com/golazo-app/quiniela/internal/usecase"
)

type repositories struct {
	pools         pool.Repository
	matches       match.Repository
	predictions   prediction.Repository
	registrations registration.Repository
	standings     standings.Repository
	awards        award.Repository
}

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repos := buildRepositories(context.Background(), cfg, logger)
	if cfg.CacheEnabled {
		store := platformcache.NewStore(cfg.CacheTTL)
		repos.pools = cacherepo.NewPoolRepository(repos.pools, store)
		repos.matches = cacherepo.NewMatchRepository(repos.matches, store)
		repos.registrations = cacherepo.NewRegistrationRepository(repos.registrations, store)
	}

	idGen := idgen.NewRandomGenerator()

	scoringSvc := usecase.NewScoringService(repos.pools, repos.matches, repos.predictions, logger)
	poolSvc := usecase.NewPoolService(repos.pools, repos.matches, scoringSvc, logger)
	matchSvc := usecase.NewMatchService(repos.matches, logger)
	predictionSvc := usecase.NewPredictionService(
		repos.pools,
		repos.matches,
		repos.registrations,
		repos.predictions,
		idGen,
		logger,
	)
	leaderboardSvc := usecase.NewLeaderboardService(repos.pools, repos.matches, repos.registrations, repos.predictions)
	awardSvc := usecase.NewAwardService(repos.awards, leaderboardSvc, idGen, logger)
	standingsSvc := usecase.NewStandingsService(repos.standings, buildStandingsProvider(cfg, logger), idGen, logger)
	jobSvc := usecase.NewJobService(standingsSvc, buildJobQueue(cfg, logger), usecase.JobConfig{
		StandingsStaleAfter: cfg.StandingsStaleAfter,
		StandingsRetention:  cfg.StandingsRetention,
		MaintenanceInterval: cfg.StandingsMaintenanceInterval,
	}, logger)

	verifier := passport.NewClient(nil, passport.ClientConfig{
		BaseURL:        cfg.PassportBaseURL,
		IntrospectPath: cfg.PassportIntrospectPath,
		AdminKey:       cfg.PassportAdminKey,
		Timeout:        cfg.PassportTimeout,
		CacheTTL:       cfg.PassportCacheTTL,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.PassportCircuitEnabled,
			FailureThreshold: cfg.PassportCircuitFailureCount,
			OpenTimeout:      cfg.PassportCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.PassportCircuitHalfOpenMaxReq,
		},
		Logger: logger,
	})

	handler := httpapi.NewHandler(
		poolSvc,
		matchSvc,
		predictionSvc,
		scoringSvc,
		leaderboardSvc,
		awardSvc,
		standingsSvc,
		jobSvc,
		logger,
	)
	router := httpapi.NewRouter(handler, verifier, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

// buildRepositories prefers postgres and falls back to the seeded in-memory
// set when no database is reachable, so a bare `go run` still serves traffic.
func buildRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) repositories {
	if strings.TrimSpace(cfg.DBURL) == "" {
		logger.Info("db url empty, using in-memory repositories")
		return memoryRepositories()
	}

	db, err := openDB(cfg)
	if err != nil {
		logger.Warn("database unavailable, using in-memory repositories", "error", err)
		return memoryRepositories()
	}

	if err := postgres.BootstrapSeed(ctx, db); err != nil {
		logger.Warn("bootstrap seed failed", "error", err)
	}

	return repositories{
		pools:         postgres.NewPoolRepository(db),
		matches:       postgres.NewMatchRepository(db),
		predictions:   postgres.NewPredictionRepository(db),
		registrations: postgres.NewRegistrationRepository(db),
		standings:     postgres.NewStandingsRepository(db),
		awards:        postgres.NewAwardRepository(db),
	}
}

func memoryRepositories() repositories {
	return repositories{
		pools:         memory.NewPoolRepository(memory.SeedPools()),
		matches:       memory.NewMatchRepository(memory.SeedMatches()),
		predictions:   memory.NewPredictionRepository(),
		registrations: memory.NewRegistrationRepository(memory.SeedRegistrations()),
		standings:     memory.NewStandingsRepository(nil),
		awards:        memory.NewAwardRepository(memory.SeedAwardTiers()),
	}
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Connect("postgres", dsn,
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

func buildStandingsProvider(cfg config.Config, logger *logging.Logger) usecase.StandingsProvider {
	if !cfg.FootballDataEnabled {
		return nil
	}

	var provider usecase.StandingsProvider = footballdata.NewClient(footballdata.ClientConfig{
		BaseURL:    cfg.FootballDataBaseURL,
		Token:      cfg.FootballDataToken,
		Timeout:    cfg.FootballDataTimeout,
		MaxRetries: cfg.FootballDataMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FootballDataCircuitEnabled,
			FailureThreshold: cfg.FootballDataCircuitFailureCount,
			OpenTimeout:      cfg.FootballDataCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FootballDataCircuitHalfOpenMaxReq,
		},
	})
	if len(cfg.FootballDataSeasonByCompetition) > 0 {
		provider = seasonMappedProvider{
			inner:   provider,
			seasons: cfg.FootballDataSeasonByCompetition,
		}
	}
	return provider
}

// seasonMappedProvider translates internal season ids into the numeric
// season year the upstream feed filters on.
type seasonMappedProvider struct {
	inner   usecase.StandingsProvider
	seasons map[string]int64
}

func (p seasonMappedProvider) FetchStandings(ctx context.Context, competitionID, seasonID string) ([]byte, error) {
	if year, ok := p.seasons[competitionID]; ok {
		seasonID = strconv.FormatInt(year, 10)
	}
	return p.inner.FetchStandings(ctx, competitionID, seasonID)
}

func buildJobQueue(cfg config.Config, logger *logging.Logger) usecase.JobQueue {
	if !cfg.QStashEnabled {
		return usecase.NewNoopJobQueue()
	}

	return jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
		BaseURL:          cfg.QStashBaseURL,
		Token:            cfg.QStashToken,
		TargetBaseURL:    cfg.QStashTargetBaseURL,
		Retries:          cfg.QStashRetries,
		InternalJobToken: cfg.InternalJobToken,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.QStashCircuitEnabled,
			FailureThreshold: cfg.QStashCircuitFailureCount,
			OpenTimeout:      cfg.QStashCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.QStashCircuitHalfOpenMaxReq,
		},
	}, logger)
}
