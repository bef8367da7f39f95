package espn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/CalebUK/kicker-genius-app-sub000/internal/config"
	"github.com/avast/retry-go/v4"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://lm-api-reads.fantasy.espn.com/apis/v3/games/ffl"

// ESPN throttles unauthenticated bursts; live sync stays well under this.
const (
	requestsPerSecond = 5
	requestBurst      = 5
)

type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	Config     config.ESPNAPI
}

func NewClient(cfg config.ESPNAPI) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), requestBurst),
		baseURL:    baseURL,
		Config:     cfg,
	}
}

// ErrUnauthorized means ESPN refused the league, usually a private league
// without valid SWID and espn_s2 cookies.
var ErrUnauthorized = errors.New("espn league access denied")

const (
	getAttempts   = 3
	getRetryDelay = 250 * time.Millisecond
)

// Get decodes a league view into result. Transport errors and 5xx
// responses are retried.
func (c *Client) Get(ctx context.Context, endpoint string, params, headers map[string]string, result interface{}) error {
	return retry.Do(
		func() error {
			return c.get(ctx, endpoint, params, headers, result)
		},
		retry.Context(ctx),
		retry.Attempts(getAttempts),
		retry.Delay(getRetryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			slog.Warn("ESPN request failed, retrying", "endpoint", endpoint, "attempt", n+1, "error", err)
		}),
	)
}

func (c *Client) get(ctx context.Context, endpoint string, params, headers map[string]string, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return retry.Unrecoverable(fmt.Errorf("waiting for rate limiter: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return retry.Unrecoverable(fmt.Errorf("error creating request: %w", err))
	}

	q := req.URL.Query()
	for key, value := range params {
		for _, v := range strings.Split(value, ",") {
			q.Add(key, strings.TrimSpace(v))
		}
	}
	req.URL.RawQuery = q.Encode()

	c.setCookies(req)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return retry.Unrecoverable(fmt.Errorf("%w: status %d", ErrUnauthorized, resp.StatusCode))
	case resp.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return retry.Unrecoverable(fmt.Errorf("unexpected status code: %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return retry.Unrecoverable(fmt.Errorf("error decoding response: %w", err))
	}
	return nil
}

// Private leagues need both cookies; public leagues ignore them.
func (c *Client) setCookies(req *http.Request) {
	if c.Config.SWID == "" && c.Config.ESPNS2 == "" {
		return
	}
	cookie := fmt.Sprintf("SWID=%s; espn_s2=%s", c.Config.SWID, c.Config.ESPNS2)
	req.Header.Set("Cookie", cookie)
}

func (c *Client) leagueEndpoint() string {
	return fmt.Sprintf("/seasons/%s/segments/0/leagues/%s", c.Config.Year, c.Config.LeagueID)
}
