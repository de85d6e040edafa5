// Package hgvs proxies HGVS variant descriptions to a Mutalyzer-style
// normalization service.
package hgvs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultEndpoint is the public Mutalyzer normalization API.
const DefaultEndpoint = "https://mutalyzer.nl/api/normalize"

// DefaultTimeout bounds a single normalization request.
const DefaultTimeout = 30 * time.Second

// ErrEmptyDescriptor is returned for a blank variant description.
var ErrEmptyDescriptor = errors.New("empty variant descriptor")

// HTTPError is a non-2xx reply from the service. Body is the response body
// as received.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HGVS service error %d: %s", e.StatusCode, e.Body)
}

// Client calls the normalization endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client for endpoint. Empty endpoint and non-positive
// timeout fall back to the defaults.
func NewClient(endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for request tracing.
func (c *Client) SetLogger(l *zap.Logger) {
	c.logger = l
}

// Endpoint returns the configured endpoint.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Normalize sends descriptor as the final path segment of the endpoint and
// returns the JSON reply unchanged.
func (c *Client) Normalize(ctx context.Context, descriptor string) (json.RawMessage, error) {
	descriptor = strings.TrimSpace(descriptor)
	if descriptor == "" {
		return nil, ErrEmptyDescriptor
	}

	u := c.endpoint + "/" + url.PathEscape(descriptor)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build HGVS request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HGVS request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read HGVS response: %w", err)
	}
	c.logger.Debug("hgvs normalize",
		zap.String("descriptor", descriptor),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("HGVS service returned invalid JSON: %.200s", body)
	}
	return json.RawMessage(body), nil
}
