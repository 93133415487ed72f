package news

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"
)

// HTTPClient wraps http.Client with a request rate limit and exponential
// backoff on transport errors, 429 and 5xx responses.
type HTTPClient struct {
	client  *http.Client
	limiter *rate.Limiter

	initialInterval time.Duration
	maxElapsed      time.Duration
}

type HTTPClientOptions struct {
	Timeout           time.Duration
	RequestsPerMinute int
	InitialInterval   time.Duration
	MaxRetryTimeout   time.Duration
}

func NewHTTPClient(opts HTTPClientOptions) *HTTPClient {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RequestsPerMinute <= 0 {
		opts.RequestsPerMinute = 5
	}
	if opts.InitialInterval == 0 {
		opts.InitialInterval = 500 * time.Millisecond
	}
	if opts.MaxRetryTimeout == 0 {
		opts.MaxRetryTimeout = 30 * time.Second
	}

	return &HTTPClient{
		client:          &http.Client{Timeout: opts.Timeout},
		limiter:         rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), 1),
		initialInterval: opts.InitialInterval,
		maxElapsed:      opts.MaxRetryTimeout,
	}
}

// Get returns a 200 response; the caller closes the body.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	var resp *http.Response
	operation := func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		r, err := c.client.Do(req)
		if err != nil {
			return err
		}

		if r.StatusCode == http.StatusOK {
			resp = r
			return nil
		}

		r.Body.Close()
		statusErr := &HTTPStatusError{StatusCode: r.StatusCode}
		if r.StatusCode == http.StatusTooManyRequests || r.StatusCode >= 500 {
			return statusErr
		}
		return backoff.Permanent(statusErr)
	}

	strategy := backoff.NewExponentialBackOff()
	strategy.InitialInterval = c.initialInterval
	strategy.MaxElapsedTime = c.maxElapsed

	if err := backoff.Retry(operation, backoff.WithContext(strategy, ctx)); err != nil {
		return nil, err
	}

	return resp, nil
}

type HTTPStatusError struct {
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}
