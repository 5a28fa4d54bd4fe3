package footballdata

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/fasthttp"

	"github.com/golazo-app/quiniela/internal/platform/logging"
	"github.com/golazo-app/quiniela/internal/platform/resilience"
	"github.com/golazo-app/quiniela/internal/usecase"
)

const (
	defaultBaseURL = "https://api.football-data.org/v4"
	defaultTimeout = 15 * time.Second
	maxBodySize    = 4 << 20
)

var errFootballDataTransient = crerr.New("football data transient failure")

type ClientConfig struct {
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client fetches competition standings from the football data feed and
// normalizes them into the snapshot payload the cache stores.
type Client struct {
	http           *fasthttp.Client
	baseURL        string
	token          string
	timeout        time.Duration
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

var _ usecase.StandingsProvider = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		http: &fasthttp.Client{
			ReadBufferSize:      16 * 1024,
			MaxResponseBodySize: maxBodySize,
		},
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		timeout:        timeout,
		maxRetries:     max(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type standingsEnvelope struct {
	Standings []struct {
		Type  string `json:"type"`
		Table []struct {
			Position int `json:"position"`
			Team     struct {
				Name string `json:"name"`
				TLA  string `json:"tla"`
			} `json:"team"`
			PlayedGames    int `json:"playedGames"`
			Won            int `json:"won"`
			Draw           int `json:"draw"`
			Lost           int `json:"lost"`
			GoalsFor       int `json:"goalsFor"`
			GoalsAgainst   int `json:"goalsAgainst"`
			GoalDifference int `json:"goalDifference"`
			Points         int `json:"points"`
		} `json:"table"`
	} `json:"standings"`
}

type tableRow struct {
	Position       int    `json:"position"`
	Team           string `json:"team"`
	Short          string `json:"short,omitempty"`
	Played         int    `json:"played"`
	Won            int    `json:"won"`
	Draw           int    `json:"draw"`
	Lost           int    `json:"lost"`
	GoalsFor       int    `json:"goals_for"`
	GoalsAgainst   int    `json:"goals_against"`
	GoalDifference int    `json:"goal_difference"`
	Points         int    `json:"points"`
}

type snapshotPayload struct {
	CompetitionID string     `json:"competition_id"`
	SeasonID      string     `json:"season_id"`
	Table         []tableRow `json:"table"`
}

func (c *Client) FetchStandings(ctx context.Context, competitionID, seasonID string) ([]byte, error) {
	competitionID = strings.TrimSpace(competitionID)
	if competitionID == "" {
		return nil, crerr.New("competition id is required")
	}

	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "football data circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: standings provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	query := url.Values{}
	if seasonID = strings.TrimSpace(seasonID); seasonID != "" {
		query.Set("season", seasonID)
	}
	fullURL := c.baseURL + "/competitions/" + url.PathEscape(competitionID) + "/standings"
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && stderrors.Is(reqErr, errFootballDataTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}

	var envelope standingsEnvelope
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode standings payload: %w", err)
	}
	return marshalSnapshot(competitionID, seasonID, envelope)
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, status, err := c.do(fullURL)
		switch {
		case err != nil:
			lastErr = fmt.Errorf("%w: send request: %v", errFootballDataTransient, err)
		case status >= 200 && status < 300:
			return raw, nil
		case isRetryableStatus(status):
			lastErr = fmt.Errorf("%w: provider status=%d body=%s", errFootballDataTransient, status, abbreviateBody(raw))
		default:
			return nil, fmt.Errorf("provider status=%d body=%s", status, abbreviateBody(raw))
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "football data request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func (c *Client) do(fullURL string) ([]byte, int, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("X-Auth-Token", c.token)
	}

	if err := c.http.DoTimeout(req, resp, c.timeout); err != nil {
		return nil, 0, err
	}

	body := append([]byte(nil), resp.Body()...)
	return body, resp.StatusCode(), nil
}

// marshalSnapshot flattens the provider envelope into our cache payload,
// keeping only the total table and ordering by position.
func marshalSnapshot(competitionID, seasonID string, envelope standingsEnvelope) ([]byte, error) {
	rows := make([]tableRow, 0, 20)
	for _, standing := range envelope.Standings {
		if standing.Type != "" && !strings.EqualFold(standing.Type, "TOTAL") {
			continue
		}
		for _, entry := range standing.Table {
			rows = append(rows, tableRow{
				Position:       entry.Position,
				Team:           entry.Team.Name,
				Short:          entry.Team.TLA,
				Played:         entry.PlayedGames,
				Won:            entry.Won,
				Draw:           entry.Draw,
				Lost:           entry.Lost,
				GoalsFor:       entry.GoalsFor,
				GoalsAgainst:   entry.GoalsAgainst,
				GoalDifference: entry.GoalDifference,
				Points:         entry.Points,
			})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Position < rows[j].Position })

	payload, err := sonic.Marshal(snapshotPayload{
		CompetitionID: competitionID,
		SeasonID:      seasonID,
		Table:         rows,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal standings snapshot: %w", err)
	}
	return payload, nil
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == fasthttp.StatusRequestTimeout ||
		statusCode == fasthttp.StatusTooManyRequests ||
		statusCode >= fasthttp.StatusInternalServerError
}

func abbreviateBody(raw []byte) string {
	text := strings.TrimSpace(string(raw))
	if len(text) > 300 {
		return text[:300] + "...(truncated)"
	}
	return text
}
