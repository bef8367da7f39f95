package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/CalebUK/kicker-genius-app-sub000/internal/config"
	"github.com/CalebUK/kicker-genius-app-sub000/internal/models"
	"github.com/avast/retry-go/v4"
)

// Client loads the analytics snapshot from an HTTP(S) URL or a local path.
type Client struct {
	httpClient *http.Client
	Config     config.Snapshot
}

func NewClient(cfg config.Snapshot) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if cfg.Attempts == 0 {
		cfg.Attempts = 1
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		Config:     cfg,
	}
}

// Fetch loads and decodes the snapshot. Network errors and 5xx responses
// are retried; anything else fails at once.
func (c *Client) Fetch(ctx context.Context) (*models.Snapshot, error) {
	return retry.DoWithData(
		func() (*models.Snapshot, error) {
			return c.fetchOnce(ctx)
		},
		retry.Context(ctx),
		retry.Attempts(c.Config.Attempts),
		retry.Delay(c.Config.RetryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			slog.Warn("Snapshot fetch failed, retrying", "attempt", n+1, "error", err)
		}),
	)
}

func (c *Client) fetchOnce(ctx context.Context) (*models.Snapshot, error) {
	body, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var snap models.Snapshot
	if err := json.NewDecoder(body).Decode(&snap); err != nil {
		return nil, retry.Unrecoverable(fmt.Errorf("error decoding snapshot: %w", err))
	}
	return &snap, nil
}

func (c *Client) open(ctx context.Context) (io.ReadCloser, error) {
	src := c.Config.URL
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		f, err := os.Open(strings.TrimPrefix(src, "file://"))
		if err != nil {
			return nil, retry.Unrecoverable(fmt.Errorf("error opening snapshot file: %w", err))
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, retry.Unrecoverable(fmt.Errorf("error creating request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	// The feed is republished in place; skip intermediate caches.
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		err := fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		if resp.StatusCode < http.StatusInternalServerError {
			return nil, retry.Unrecoverable(err)
		}
		return nil, err
	}
	return resp.Body, nil
}
