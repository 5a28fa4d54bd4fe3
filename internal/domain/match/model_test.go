package match

import (
	"testing"
	"time"
)

func TestMatch_IsLocked_KickoffClock(t *testing.T) {
	t.Parallel()

	kickoff := time.Date(2026, 3, 7, 20, 0, 0, 0, time.UTC)
	m := Match{ID: "m-1", KickoffAt: kickoff}

	if m.IsLocked(kickoff.Add(-time.Second)) {
		t.Fatalf("match must be open before kickoff")
	}
	if !m.IsLocked(kickoff) {
		t.Fatalf("match must lock at the kickoff instant")
	}
	if !m.IsLocked(kickoff.Add(time.Hour)) {
		t.Fatalf("match must stay locked after kickoff")
	}
}

func TestMatch_IsLocked_OverrideWins(t *testing.T) {
	t.Parallel()

	kickoff := time.Date(2026, 3, 7, 20, 0, 0, 0, time.UTC)

	forcedLocked := true
	early := Match{ID: "m-1", KickoffAt: kickoff, LockOverride: &forcedLocked}
	if !early.IsLocked(kickoff.Add(-2 * time.Hour)) {
		t.Fatalf("forced lock must apply before kickoff")
	}

	forcedOpen := false
	reopened := Match{ID: "m-2", KickoffAt: kickoff, LockOverride: &forcedOpen}
	if reopened.IsLocked(kickoff.Add(48 * time.Hour)) {
		t.Fatalf("forced open must survive the kickoff clock until explicitly re-locked")
	}
}

func TestMatch_HasResult(t *testing.T) {
	t.Parallel()

	home, away := 2, 1
	if (Match{HomeScore: &home}).HasResult() {
		t.Fatalf("half a result is no result")
	}
	if !(Match{HomeScore: &home, AwayScore: &away}).HasResult() {
		t.Fatalf("expected result to be present")
	}
}
