package archive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// Retry defaults used by NewClient.
const (
	DefaultRetries       = 2
	DefaultRetryInterval = 500 * time.Millisecond
)

const (
	maxPageBytes = 10 << 20
	userAgent    = "sentinel-archiver/1.0"
)

// HTTPClient interface for making HTTP requests (allows injection for testing).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the logger used for fetch attempts.
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRetries sets how many times a failed fetch is retried. Only network
// errors and 5xx responses are retried.
func WithRetries(n uint64, interval time.Duration) ClientOption {
	return func(c *Client) {
		c.retries = n
		c.retryInterval = interval
	}
}

// Client fetches external articles.
type Client struct {
	httpClient    HTTPClient
	logger        *zap.Logger
	retries       uint64
	retryInterval time.Duration
}

// NewClient creates a new article client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		logger:        zap.NewNop(),
		retries:       DefaultRetries,
		retryInterval: DefaultRetryInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch downloads the page at rawURL and extracts its article.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Article, error) {
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return nil, ErrInvalidURL
	}

	var page []byte
	attempt := 0
	op := func() error {
		attempt++
		data, err := c.get(ctx, rawURL)
		if err != nil {
			c.logger.Debug("fetch attempt failed",
				zap.String("url", rawURL), zap.Int("attempt", attempt), zap.Error(err))
			return err
		}
		page = data
		return nil
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = c.retryInterval
	policy := backoff.WithContext(backoff.WithMaxRetries(eb, c.retries), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}

	c.logger.Info("fetched article", zap.String("url", rawURL), zap.Int("bytes", len(page)))
	return Extract(page, rawURL)
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		statusErr := &StatusError{URL: rawURL, Code: resp.StatusCode}
		if resp.StatusCode >= 500 {
			return nil, statusErr
		}
		return nil, backoff.Permanent(statusErr)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read article: %w", err)
	}
	return body, nil
}
