package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/golazo-app/quiniela/internal/platform/logging"
)

// JobQueue enqueues a delayed callback to one of our internal job endpoints.
type JobQueue interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

type noopJobQueue struct{}

func (noopJobQueue) Enqueue(_ context.Context, _ string, _ any, _ time.Duration, _ string) error {
	return nil
}

func NewNoopJobQueue() JobQueue {
	return noopJobQueue{}
}

type JobConfig struct {
	StandingsStaleAfter time.Duration
	StandingsRetention  time.Duration
	MaintenanceInterval time.Duration
}

type StandingsMaintenanceInput struct {
	// Reschedule controls whether the run enqueues its own successor.
	// Direct invocations from an operator leave it false.
	Reschedule bool
}

type StandingsMaintenanceResult struct {
	Refresh   RefreshResult `json:"refresh"`
	Deleted   int           `json:"deleted"`
	Requeued  bool          `json:"requeued"`
	NextRunAt time.Time     `json:"next_run_at,omitempty"`
}

// JobService is the entry point the external scheduler calls. Each run does
// one standings maintenance pass and, when asked, re-enqueues the next run
// with a time-bucketed deduplication id so a duplicated callback cannot fan
// out into parallel schedules.
type JobService struct {
	standingsSvc *StandingsService
	queue        JobQueue
	cfg          JobConfig
	logger       *logging.Logger
	now          func() time.Time
}

var dedupUnsafeCharRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

func NewJobService(
	standingsSvc *StandingsService,
	queue JobQueue,
	cfg JobConfig,
	logger *logging.Logger,
) *JobService {
	if queue == nil {
		queue = NewNoopJobQueue()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.StandingsStaleAfter <= 0 {
		cfg.StandingsStaleAfter = 24 * time.Hour
	}
	if cfg.StandingsRetention <= 0 {
		cfg.StandingsRetention = 365 * 24 * time.Hour
	}
	if cfg.MaintenanceInterval <= 0 {
		cfg.MaintenanceInterval = time.Hour
	}

	return &JobService{
		standingsSvc: standingsSvc,
		queue:        queue,
		cfg:          cfg,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *JobService) RunStandingsMaintenance(ctx context.Context, input StandingsMaintenanceInput) (StandingsMaintenanceResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.JobService.RunStandingsMaintenance")
	defer span.End()

	refresh, err := s.standingsSvc.RefreshStale(ctx, s.cfg.StandingsStaleAfter)
	if err != nil {
		return StandingsMaintenanceResult{}, err
	}

	deleted, err := s.standingsSvc.CleanupOld(ctx, s.cfg.StandingsRetention)
	if err != nil {
		return StandingsMaintenanceResult{Refresh: refresh}, err
	}

	result := StandingsMaintenanceResult{Refresh: refresh, Deleted: deleted}

	if input.Reschedule {
		delay := s.cfg.MaintenanceInterval
		nextRun := s.now().UTC().Add(delay)
		dedupID := dedupKey("standings-maintenance", nextRun, s.cfg.MaintenanceInterval)
		payload := map[string]any{"reschedule": true}
		if err := s.queue.Enqueue(ctx, "/v1/internal/jobs/standings-maintenance", payload, delay, dedupID); err != nil {
			s.logger.ErrorContext(ctx, "failed to enqueue next maintenance run",
				"dedup_id", dedupID,
				"error", err,
			)
			return result, fmt.Errorf("%w: enqueue next maintenance run: %v", ErrDependencyUnavailable, err)
		}
		result.Requeued = true
		result.NextRunAt = nextRun
	}

	s.logger.InfoContext(ctx, "standings maintenance finished",
		"scanned", refresh.Scanned,
		"refreshed", refresh.Refreshed,
		"failed", refresh.Failed,
		"deleted", deleted,
		"requeued", result.Requeued,
	)
	return result, nil
}

func dedupKey(prefix string, at time.Time, bucket time.Duration) string {
	if bucket <= 0 {
		bucket = time.Minute
	}
	slot := at.UTC().Truncate(bucket).Format("20060102T150405Z")
	return sanitizeDedupSegment(prefix) + "-" + slot
}

func sanitizeDedupSegment(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return dedupUnsafeCharRegex.ReplaceAllString(value, "-")
}
