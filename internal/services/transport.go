package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

const (
	defaultRetryAfter = time.Second
	defaultMaxRetries = 5
)

// apiTransport paces outgoing requests and retries rate-limited (HTTP 429) responses.
//
// Every other status, and transport errors, are returned to the caller untouched.
type apiTransport struct {
	base       http.RoundTripper
	limiter    *rate.Limiter
	maxRetries int
	logger     *log.Logger
	now        func() time.Time
}

// newAPITransport builds an [apiTransport]. A non-positive rps disables pacing.
func newAPITransport(base http.RoundTripper, rps float64, maxRetries int, logger *log.Logger) *apiTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	if maxRetries < 0 {
		maxRetries = defaultMaxRetries
	}

	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}

	return &apiTransport{
		base:       base,
		limiter:    rate.NewLimiter(limit, 1),
		maxRetries: maxRetries,
		logger:     logger,
		now:        time.Now,
	}
}

func (t *apiTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	for attempt := 0; ; attempt++ {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		r := req
		if attempt > 0 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("reset request body: %w", err)
			}
			r = req.Clone(ctx)
			r.Body = body
		}

		resp, err := t.base.RoundTrip(r)
		if err != nil || resp.StatusCode != http.StatusTooManyRequests || attempt >= t.maxRetries {
			return resp, err
		}

		delay := parseRetryAfter(resp.Header.Get("Retry-After"), t.now())
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if t.logger != nil {
			t.logger.Warn("rate limited by API", "retry_in", delay, "attempt", attempt+1, "max_retries", t.maxRetries)
		}

		if err := sleepWithContext(ctx, delay); err != nil {
			return nil, err
		}
	}
}

// parseRetryAfter reads a Retry-After header given either as delay-seconds or as an HTTP date.
// Missing or unparseable values fall back to one second; dates in the past mean no wait.
func parseRetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return defaultRetryAfter
	}

	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return defaultRetryAfter
		}
		return time.Duration(seconds) * time.Second
	}

	if when, err := http.ParseTime(value); err == nil {
		if until := when.Sub(now); until > 0 {
			return until
		}
		return 0
	}

	return defaultRetryAfter
}

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("request canceled: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
