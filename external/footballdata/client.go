// Package footballdata wraps the API-Football v3 fixtures endpoint for the
// backfill and the daily prediction push.
package footballdata

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/wibowo/causal-football/internal/platform/logging"
	"github.com/wibowo/causal-football/internal/platform/resilience"
	"github.com/wibowo/causal-football/internal/usecase"
)

const (
	defaultBaseURL = "https://v3.football.api-sports.io"
	maxBodyBytes   = 6 << 20
)

var errFootballDataTransient = crerr.New("footballdata transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timezone       string
	Season         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	timezone       string
	season         string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timezone := strings.TrimSpace(cfg.Timezone)
	if timezone == "" {
		timezone = "UTC"
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		timezone:       timezone,
		season:         strings.TrimSpace(cfg.Season),
		maxRetries:     cfg.MaxRetries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// fixturesEnvelope mirrors the provider's response shape; only the fields
// the mapper reads are declared.
type fixturesEnvelope struct {
	Response []fixtureItem `json:"response"`
	Paging   struct {
		Current int `json:"current"`
		Total   int `json:"total"`
	} `json:"paging"`
}

type fixtureItem struct {
	Fixture struct {
		ID   int64  `json:"id"`
		Date string `json:"date"`
	} `json:"fixture"`
	League struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"league"`
	Teams struct {
		Home struct {
			Name string `json:"name"`
		} `json:"home"`
		Away struct {
			Name string `json:"name"`
		} `json:"away"`
	} `json:"teams"`
}

// FetchSeasonFixtures pulls every fixture of one league season, following
// the provider's pagination.
func (c *Client) FetchSeasonFixtures(ctx context.Context, leagueID int, season string) ([]usecase.ExternalMatch, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: football data api key is not configured", usecase.ErrDependencyUnavailable)
	}
	return c.fetchFixtures(ctx, map[string]string{
		"league": strconv.Itoa(leagueID),
		"season": season,
	})
}

// FetchFixturesByDate pulls all fixtures on one date (YYYY-MM-DD), scoped
// to a league when leagueID is non-empty.
func (c *Client) FetchFixturesByDate(ctx context.Context, date string, leagueID string) ([]usecase.ExternalMatch, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: football data api key is not configured", usecase.ErrDependencyUnavailable)
	}
	query := map[string]string{"date": date}
	if leagueID != "" {
		query["league"] = leagueID
	}
	if c.season != "" {
		query["season"] = c.season
	}
	return c.fetchFixtures(ctx, query)
}

func (c *Client) fetchFixtures(ctx context.Context, baseQuery map[string]string) ([]usecase.ExternalMatch, error) {
	out := make([]usecase.ExternalMatch, 0, 32)

	page := 1
	for {
		query := make(map[string]string, len(baseQuery)+2)
		for k, v := range baseQuery {
			query[k] = v
		}
		query["timezone"] = c.timezone
		query["page"] = strconv.Itoa(page)

		var envelope fixturesEnvelope
		if err := c.doJSON(ctx, "/fixtures", query, &envelope); err != nil {
			return nil, err
		}

		for _, item := range envelope.Response {
			m, ok := mapFixture(item)
			if !ok {
				continue
			}
			out = append(out, m)
		}

		if envelope.Paging.Total <= page {
			break
		}
		page++
	}

	return out, nil
}

func mapFixture(item fixtureItem) (usecase.ExternalMatch, bool) {
	if item.Fixture.ID <= 0 || item.Teams.Home.Name == "" || item.Teams.Away.Name == "" {
		return usecase.ExternalMatch{}, false
	}

	league := item.League.Name
	if league == "" {
		league = fmt.Sprintf("L-%d", item.League.ID)
	}

	kickoff, _ := time.Parse(time.RFC3339, item.Fixture.Date)

	return usecase.ExternalMatch{
		MatchID: fmt.Sprintf("af_%d", item.Fixture.ID),
		League:  league,
		Home:    item.Teams.Home.Name,
		Away:    item.Teams.Away.Name,
		Kickoff: kickoff,
	}, true
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "footballdata circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: football data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
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
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set("x-apisports-key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errFootballDataTransient, redactKey(err.Error(), c.apiKey))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errFootballDataTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errFootballDataTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
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
	c.logger.WarnContext(ctx, "footballdata request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func redactKey(value, key string) string {
	value = strings.TrimSpace(value)
	if key != "" {
		value = strings.ReplaceAll(value, key, "REDACTED")
	}
	return value
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
