package jobqueue

import (
	"strings"
	"testing"
	"time"
)

func TestNormalizeDelay(t *testing.T) {
	t.Parallel()

	if got := normalizeDelay(0); got != "0s" {
		t.Fatalf("unexpected zero delay: %q", got)
	}
	if got := normalizeDelay(90 * time.Second); got != "90s" {
		t.Fatalf("unexpected delay: %q", got)
	}
	if got := normalizeDelay(1500 * time.Millisecond); got != "2s" {
		t.Fatalf("sub-second delays must round, got %q", got)
	}
}

func TestValidateHTTPBaseURL(t *testing.T) {
	t.Parallel()

	if _, err := validateHTTPBaseURL(""); err == nil {
		t.Fatalf("empty url must fail")
	}
	if _, err := validateHTTPBaseURL("ftp://qstash.example.com"); err == nil {
		t.Fatalf("non-http scheme must fail")
	}
	got, err := validateHTTPBaseURL("https://qstash.upstash.io/")
	if err != nil {
		t.Fatalf("valid url rejected: %v", err)
	}
	if got != "https://qstash.upstash.io" {
		t.Fatalf("trailing slash must be trimmed, got %q", got)
	}
}

func TestBuildCurlPreview_RedactsSecrets(t *testing.T) {
	t.Parallel()

	preview := buildCurlPreview(
		"https://qstash.upstash.io/v2/publish/https://api.example.com/v1/internal/jobs/standings-maintenance",
		"/v1/internal/jobs/standings-maintenance",
		"3600s",
		2,
		"standings-maintenance-20260820T120000Z",
		`{"reschedule":true}`,
		true,
	)

	if strings.Contains(preview, "Bearer ey") {
		t.Fatalf("token must never appear in preview: %s", preview)
	}
	if !strings.Contains(preview, "Authorization: Bearer ***") {
		t.Fatalf("redacted auth header missing: %s", preview)
	}
	if !strings.Contains(preview, "Upstash-Deduplication-Id: standings-maintenance-20260820T120000Z") {
		t.Fatalf("dedup header missing: %s", preview)
	}
	if !strings.Contains(preview, "Upstash-Forward-X-Internal-Job-Token: ***") {
		t.Fatalf("forwarded job token must be redacted: %s", preview)
	}
}
