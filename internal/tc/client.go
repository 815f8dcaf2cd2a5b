package tc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"reiswerk/internal"
	"reiswerk/internal/config"
)

// Client fetches bookings from the Travel Compositor API. It only retrieves
// the raw payload; all interpretation happens in internal/pipeline.
type Client struct {
	cfg        config.Config
	httpClient *http.Client
	limiter    *RateLimiter
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.TCTimeoutMs) * time.Millisecond},
		limiter:    NewRateLimiter(cfg.TCRateLimitRPS),
	}
}

func (c *Client) GetBooking(ctx context.Context, bookingRef string) (internal.SourcePayload, error) {
	if strings.TrimSpace(bookingRef) == "" {
		return nil, errors.New("empty booking reference")
	}

	body, err := c.fetchJSON(ctx, "booking/"+url.PathEscape(bookingRef), map[string]string{})
	if err != nil {
		return nil, err
	}

	var payload internal.SourcePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}

	// Some TC endpoints wrap the booking in an envelope.
	if inner, ok := payload["booking"].(map[string]any); ok {
		return internal.SourcePayload(inner), nil
	}
	return payload, nil
}

func (c *Client) fetchJSON(ctx context.Context, endpoint string, params map[string]string) ([]byte, error) {
	if strings.TrimSpace(c.cfg.TCAPIToken) == "" {
		return nil, errors.New("missing TC_API_TOKEN")
	}

	baseURL := strings.TrimRight(c.cfg.TCAPIBaseURL, "/") + "/"
	u, err := url.Parse(baseURL + endpoint)
	if err != nil {
		return nil, err
	}

	q := u.Query()
	for k, v := range params {
		if strings.TrimSpace(v) != "" {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()

	var lastErr error
	for attempt := 1; attempt <= 5; attempt++ {
		c.limiter.WaitTurn()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("auth-token", c.cfg.TCAPIToken)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("booking not found: %s", endpoint)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			if isRetryableStatus(resp.StatusCode) && attempt < 5 {
				backoff := time.Duration(250*(1<<(attempt-1))+rand.Intn(100)) * time.Millisecond
				time.Sleep(backoff)
				lastErr = fmt.Errorf("tc status %d", resp.StatusCode)
				continue
			}
			return nil, fmt.Errorf("tc api error: status=%d body=%s", resp.StatusCode, string(body))
		}

		return body, nil
	}

	if lastErr == nil {
		lastErr = errors.New("tc request failed")
	}
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}
