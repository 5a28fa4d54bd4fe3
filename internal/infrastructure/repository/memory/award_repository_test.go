package memory

import (
	"testing"
	"time"

	"github.com/golazo-app/quiniela/internal/domain/award"
)

func TestAwardRepository_Insert_OneActivePerSlot(t *testing.T) {
	t.Parallel()

	repo := NewAwardRepository(SeedAwardTiers())
	awardedAt := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	first := award.Award{
		ID:        "award-1",
		PoolID:    PoolIDOficina,
		UserID:    "user-ana",
		Rank:      1,
		PrizeID:   "prize-gold",
		RankFrom:  1,
		RankTo:    1,
		AwardedAt: awardedAt,
	}
	if err := repo.Insert(t.Context(), first); err != nil {
		t.Fatalf("insert: %v", err)
	}

	// A second insert for the same (pool, prize, user) slot is absorbed.
	duplicate := first
	duplicate.ID = "award-2"
	if err := repo.Insert(t.Context(), duplicate); err != nil {
		t.Fatalf("duplicate insert: %v", err)
	}

	awards, err := repo.ListByPool(t.Context(), PoolIDOficina)
	if err != nil {
		t.Fatalf("list awards: %v", err)
	}
	if len(awards) != 1 {
		t.Fatalf("unexpected award count after duplicate insert: got=%d want=1", len(awards))
	}
	if awards[0].ID != "award-1" {
		t.Fatalf("duplicate insert must keep the first award, got=%q", awards[0].ID)
	}

	// Voiding the holder frees the slot for a fresh award.
	if err := repo.Void(t.Context(), "award-1"); err != nil {
		t.Fatalf("void: %v", err)
	}
	replacement := first
	replacement.ID = "award-3"
	if err := repo.Insert(t.Context(), replacement); err != nil {
		t.Fatalf("insert after void: %v", err)
	}

	awards, err = repo.ListByPool(t.Context(), PoolIDOficina)
	if err != nil {
		t.Fatalf("list awards: %v", err)
	}
	active := 0
	for _, a := range awards {
		if !a.Voided() {
			active++
		}
	}
	if active != 1 {
		t.Fatalf("unexpected active award count after void: got=%d want=1", active)
	}
}
