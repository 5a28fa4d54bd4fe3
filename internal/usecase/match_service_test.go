package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/golazo-app/quiniela/internal/infrastructure/repository/memory"
)

func TestMatchService_ListBySeason_DecoratesLockState(t *testing.T) {
	t.Parallel()

	service := NewMatchService(memory.NewMatchRepository(memory.SeedMatches()), nil)
	// Round 1 kicked off, round 2 has not.
	service.now = fixedClock(time.Date(2026, time.August, 2, 12, 0, 0, 0, time.UTC))

	views, err := service.ListBySeason(t.Context(), memory.SeasonIDLigaMX2026)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(views) != 4 {
		t.Fatalf("unexpected match count: got=%d want=4", len(views))
	}
	for _, view := range views {
		wantLocked := view.Round == 1
		if view.Locked != wantLocked {
			t.Fatalf("unexpected lock state for %s: got=%v want=%v", view.ID, view.Locked, wantLocked)
		}
	}
}

func TestMatchService_OverrideLock_Transitions(t *testing.T) {
	t.Parallel()

	service := NewMatchService(memory.NewMatchRepository(memory.SeedMatches()), nil)
	afterKickoff := fixedClock(time.Date(2026, time.August, 2, 12, 0, 0, 0, time.UTC))
	service.now = afterKickoff

	open := false
	view, err := service.OverrideLock(t.Context(), "mx-r1-ama-chv", &open)
	if err != nil {
		t.Fatalf("force open: %v", err)
	}
	if view.Locked {
		t.Fatalf("forced-open match must read unlocked past kickoff")
	}

	// Clearing the override hands control back to the kickoff clock.
	view, err = service.OverrideLock(t.Context(), "mx-r1-ama-chv", nil)
	if err != nil {
		t.Fatalf("clear override: %v", err)
	}
	if !view.Locked {
		t.Fatalf("cleared override past kickoff must read locked")
	}

	locked := true
	service.now = fixedClock(time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC))
	view, err = service.OverrideLock(t.Context(), "mx-r1-ama-chv", &locked)
	if err != nil {
		t.Fatalf("force lock: %v", err)
	}
	if !view.Locked {
		t.Fatalf("forced-locked match must read locked before kickoff")
	}
}

func TestMatchService_OverrideLock_UnknownMatch(t *testing.T) {
	t.Parallel()

	service := NewMatchService(memory.NewMatchRepository(memory.SeedMatches()), nil)
	locked := true
	if _, err := service.OverrideLock(t.Context(), "mx-missing", &locked); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
