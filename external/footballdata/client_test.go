package footballdata

import (
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/valyala/fasthttp"
)

func TestMarshalSnapshot_KeepsOnlyTotalTable(t *testing.T) {
	t.Parallel()

	var envelope standingsEnvelope
	raw := `{
		"standings": [
			{
				"type": "TOTAL",
				"table": [
					{"position": 2, "team": {"name": "Tigres", "tla": "TIG"}, "playedGames": 10, "won": 6, "draw": 2, "lost": 2, "goalsFor": 18, "goalsAgainst": 10, "goalDifference": 8, "points": 20},
					{"position": 1, "team": {"name": "América", "tla": "AME"}, "playedGames": 10, "won": 7, "draw": 2, "lost": 1, "goalsFor": 21, "goalsAgainst": 9, "goalDifference": 12, "points": 23}
				]
			},
			{
				"type": "HOME",
				"table": [
					{"position": 1, "team": {"name": "Toluca"}, "playedGames": 5, "won": 5, "points": 15}
				]
			}
		]
	}`
	if err := sonic.Unmarshal([]byte(raw), &envelope); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}

	payload, err := marshalSnapshot("mex-liga-mx", "2026", envelope)
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}

	var snapshot snapshotPayload
	if err := sonic.Unmarshal(payload, &snapshot); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	if snapshot.CompetitionID != "mex-liga-mx" || snapshot.SeasonID != "2026" {
		t.Fatalf("unexpected snapshot identity: %+v", snapshot)
	}
	if len(snapshot.Table) != 2 {
		t.Fatalf("home table must be dropped: got=%d rows want=2", len(snapshot.Table))
	}
	if snapshot.Table[0].Team != "América" || snapshot.Table[0].Position != 1 {
		t.Fatalf("rows must be ordered by position, got first=%+v", snapshot.Table[0])
	}
	if snapshot.Table[1].Points != 20 {
		t.Fatalf("unexpected second row points: got=%d want=20", snapshot.Table[1].Points)
	}
}

func TestIsRetryableStatus(t *testing.T) {
	t.Parallel()

	for _, status := range []int{fasthttp.StatusRequestTimeout, fasthttp.StatusTooManyRequests, fasthttp.StatusBadGateway} {
		if !isRetryableStatus(status) {
			t.Fatalf("status %d must be retryable", status)
		}
	}
	for _, status := range []int{fasthttp.StatusNotFound, fasthttp.StatusForbidden, fasthttp.StatusUnprocessableEntity} {
		if isRetryableStatus(status) {
			t.Fatalf("status %d must not be retryable", status)
		}
	}
}

func TestAbbreviateBody(t *testing.T) {
	t.Parallel()

	long := make([]byte, 400)
	for i := range long {
		long[i] = 'x'
	}
	got := abbreviateBody(long)
	if len(got) != 300+len("...(truncated)") {
		t.Fatalf("unexpected abbreviated length: %d", len(got))
	}
	if abbreviateBody([]byte(" short ")) != "short" {
		t.Fatalf("short bodies must pass through trimmed")
	}
}
