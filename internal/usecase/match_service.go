package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/golazo-app/quiniela/internal/domain/match"
	"github.com/golazo-app/quiniela/internal/platform/logging"
)

type MatchService struct {
	matchRepo match.Repository
	logger    *logging.Logger
	now       func() time.Time
}

// MatchView is a match decorated with its lock state as seen at read time.
type MatchView struct {
	match.Match
	Locked bool `json:"locked"`
}

func NewMatchService(matchRepo match.Repository, logger *logging.Logger) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchService{
		matchRepo: matchRepo,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *MatchService) Get(ctx context.Context, matchID string) (MatchView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Get")
	defer span.End()

	m, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return MatchView{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return MatchView{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	return MatchView{Match: m, Locked: m.IsLocked(s.now())}, nil
}

func (s *MatchService) ListBySeason(ctx context.Context, seasonID string) ([]MatchView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListBySeason")
	defer span.End()

	matches, err := s.matchRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list matches season=%s: %w", seasonID, err)
	}

	now := s.now()
	views := make([]MatchView, 0, len(matches))
	for _, m := range matches {
		views = append(views, MatchView{Match: m, Locked: m.IsLocked(now)})
	}
	return views, nil
}

// OverrideLock pins the match lock state regardless of the kickoff clock.
// A nil locked clears the override and hands control back to the clock.
// A forced-open override survives kickoff until an operator re-locks or
// clears it; it is never revoked automatically.
func (s *MatchService) OverrideLock(ctx context.Context, matchID string, locked *bool) (MatchView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.OverrideLock")
	defer span.End()

	m, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return MatchView{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return MatchView{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	if err := s.matchRepo.SetLockOverride(ctx, matchID, locked); err != nil {
		return MatchView{}, fmt.Errorf("set lock override match=%s: %w", matchID, err)
	}
	m.LockOverride = locked

	state := "cleared"
	if locked != nil {
		if *locked {
			state = "locked"
		} else {
			state = "open"
		}
	}
	s.logger.InfoContext(ctx, "match lock override changed", "match_id", matchID, "state", state)

	return MatchView{Match: m, Locked: m.IsLocked(s.now())}, nil
}
