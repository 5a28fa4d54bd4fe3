package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/golazo-app/quiniela/internal/domain/award"
	idgen "github.com/golazo-app/quiniela/internal/platform/id"
	"github.com/golazo-app/quiniela/internal/platform/logging"
)

// AwardService turns a final leaderboard into prize awards and exposes the
// narrow state transitions the fulfillment side needs.
type AwardService struct {
	awardRepo   award.Repository
	leaderboard *LeaderboardService
	idGen       idgen.Generator
	logger      *logging.Logger
	now         func() time.Time
}

func NewAwardService(
	awardRepo award.Repository,
	leaderboard *LeaderboardService,
	idGen idgen.Generator,
	logger *logging.Logger,
) *AwardService {
	if logger == nil {
		logger = logging.Default()
	}
	return &AwardService{
		awardRepo:   awardRepo,
		leaderboard: leaderboard,
		idGen:       idGen,
		logger:      logger,
		now:         time.Now,
	}
}

// Assign computes the pool leaderboard and creates one award per
// (user, prize tier) the user's rank falls into. Re-running is safe: a user
// already holding a non-voided award for the same prize is skipped, so a
// crashed run resumes by creating only what is missing. Ties can push more
// winners into a tier than its rank span; everyone sharing a covered rank
// gets the prize.
func (s *AwardService) Assign(ctx context.Context, poolID string) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AwardService.Assign")
	defer span.End()

	tiers, err := s.awardRepo.ListTiersByPool(ctx, poolID)
	if err != nil {
		return 0, fmt.Errorf("list prize tiers pool=%s: %w", poolID, err)
	}
	if len(tiers) == 0 {
		return 0, nil
	}

	entries, err := s.leaderboard.Compute(ctx, poolID)
	if err != nil {
		return 0, err
	}

	existing, err := s.awardRepo.ListByPool(ctx, poolID)
	if err != nil {
		return 0, fmt.Errorf("list awards pool=%s: %w", poolID, err)
	}
	held := make(map[string]struct{}, len(existing))
	for _, a := range existing {
		if a.Voided() {
			continue
		}
		held[a.UserID+"\x00"+a.PrizeID] = struct{}{}
	}

	created := 0
	awardedAt := s.now().UTC()
	for _, tier := range tiers {
		for _, entry := range entries {
			if !tier.Covers(entry.Rank) {
				continue
			}
			key := entry.UserID + "\x00" + tier.PrizeID
			if _, ok := held[key]; ok {
				continue
			}
			awardID, err := s.idGen.NewID()
			if err != nil {
				return created, fmt.Errorf("generate award id: %w", err)
			}
			if err := s.awardRepo.Insert(ctx, award.Award{
				ID:        awardID,
				PoolID:    poolID,
				UserID:    entry.UserID,
				Rank:      entry.Rank,
				PrizeID:   tier.PrizeID,
				RankFrom:  tier.FromRank,
				RankTo:    tier.ToRank,
				AwardedAt: awardedAt,
			}); err != nil {
				return created, fmt.Errorf("insert award pool=%s user=%s prize=%s: %w", poolID, entry.UserID, tier.PrizeID, err)
			}
			held[key] = struct{}{}
			created++
		}
	}

	s.logger.InfoContext(ctx, "awards assigned",
		"pool_id", poolID,
		"tiers", len(tiers),
		"created", created,
	)
	return created, nil
}

func (s *AwardService) MarkDelivered(ctx context.Context, awardID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.AwardService.MarkDelivered")
	defer span.End()

	if err := s.requireActive(ctx, awardID); err != nil {
		return err
	}
	if err := s.awardRepo.MarkDelivered(ctx, awardID); err != nil {
		return fmt.Errorf("mark delivered award=%s: %w", awardID, err)
	}
	return nil
}

func (s *AwardService) MarkNotified(ctx context.Context, awardID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.AwardService.MarkNotified")
	defer span.End()

	if err := s.requireActive(ctx, awardID); err != nil {
		return err
	}
	if err := s.awardRepo.MarkNotified(ctx, awardID); err != nil {
		return fmt.Errorf("mark notified award=%s: %w", awardID, err)
	}
	return nil
}

// Void retires an award without deleting it. Voided awards stay readable for
// audit and are ignored by the next Assign pass, which may then re-create the
// prize for the corrected winner.
func (s *AwardService) Void(ctx context.Context, awardID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.AwardService.Void")
	defer span.End()

	a, exists, err := s.awardRepo.GetByID(ctx, awardID)
	if err != nil {
		return fmt.Errorf("get award: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: award=%s", ErrNotFound, awardID)
	}
	if a.Voided() {
		return nil
	}
	if err := s.awardRepo.Void(ctx, awardID); err != nil {
		return fmt.Errorf("void award=%s: %w", awardID, err)
	}
	s.logger.InfoContext(ctx, "award voided", "award_id", awardID, "pool_id", a.PoolID, "user_id", a.UserID)
	return nil
}

func (s *AwardService) ListByPool(ctx context.Context, poolID string) ([]award.Award, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AwardService.ListByPool")
	defer span.End()

	items, err := s.awardRepo.ListByPool(ctx, poolID)
	if err != nil {
		return nil, fmt.Errorf("list awards pool=%s: %w", poolID, err)
	}
	return items, nil
}

func (s *AwardService) requireActive(ctx context.Context, awardID string) error {
	a, exists, err := s.awardRepo.GetByID(ctx, awardID)
	if err != nil {
		return fmt.Errorf("get award: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: award=%s", ErrNotFound, awardID)
	}
	if a.Voided() {
		return fmt.Errorf("%w: award %s is voided", ErrInvalidInput, awardID)
	}
	return nil
}
