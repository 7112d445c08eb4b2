package fetcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"strconv"
	"time"

	"github.com/hickst/qmtools/internal/query"
)

const (
	// DefaultTimeout bounds each HTTP request to the MRIQC server.
	DefaultTimeout = 60 * time.Second

	// DefaultUserAgent identifies qmtools in HTTP requests.
	DefaultUserAgent = "qmtools/1.0 (+https://github.com/hickst/qmtools)"

	// DefaultMaxBodySize limits how much of a response body is read.
	// A full page of 1000 bold records is a few megabytes.
	DefaultMaxBodySize = 64 * 1024 * 1024
)

// HealthStatus is the result of probing the MRIQC server.
type HealthStatus struct {
	// StatusCode is the HTTP status of the health check.
	StatusCode int `json:"status_code"`

	// Total is the number of bold records the server reports.
	Total int `json:"total"`
}

// Client performs HTTP requests against the MRIQC web API.
type Client struct {
	httpClient  *http.Client
	builder     *query.Builder
	validator   *envelopeValidator
	userAgent   string
	headers     map[string]string
	maxBodySize int64
	timeout     time.Duration
	metrics     *Metrics
	logger      *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the HTTP client requests are sent with.
// The client is copied; its Timeout is replaced by the configured timeout
// when that is positive.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithHeaders adds custom headers to every request, for example an API
// token required by a private MRIQC mirror.
func WithHeaders(headers map[string]string) ClientOption {
	return func(c *Client) {
		c.headers = maps.Clone(headers)
	}
}

// WithMaxBodySize limits the number of response bytes read per request.
func WithMaxBodySize(n int64) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.maxBodySize = n
		}
	}
}

// WithClientMetrics records request counts and latencies into m.
func WithClientMetrics(m *Metrics) ClientOption {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithClientLogger sets a custom logger.
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a Client issuing queries built by builder.
func NewClient(builder *query.Builder, opts ...ClientOption) (*Client, error) {
	validator, err := newEnvelopeValidator()
	if err != nil {
		return nil, err
	}

	c := &Client{
		builder:     builder,
		validator:   validator,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
		timeout:     DefaultTimeout,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	} else {
		hc := *c.httpClient
		c.httpClient = &hc
	}
	if c.timeout > 0 {
		c.httpClient.Timeout = c.timeout
	}

	base := c.httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	c.httpClient.Transport = &headerInjectingTransport{
		base:      base,
		userAgent: c.userAgent,
		headers:   c.headers,
	}

	c.logger.Debug("client configured",
		"base_url", builder.BaseURL(),
		"page_size", builder.PageSize(),
		"timeout", c.httpClient.Timeout,
		"headers", c.headers,
	)
	return c, nil
}

// Builder returns the query builder used by the client.
func (c *Client) Builder() *query.Builder {
	return c.builder
}

// GetPage issues a GET for url and decodes the response envelope.
// A non-2xx status is returned as a *StatusError.
func (c *Client) GetPage(ctx context.Context, modality, url string) (*Envelope, error) {
	body, err := c.get(ctx, modality, url)
	if err != nil {
		return nil, err
	}
	env, err := c.validator.decode(body)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", url, err)
	}
	return env, nil
}

// Health checks the server with a one-record query.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	url := c.builder.HealthQuery()
	body, err := c.get(ctx, "health", url)
	if err != nil {
		return nil, err
	}
	env, err := c.validator.decode(body)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", url, err)
	}
	return &HealthStatus{StatusCode: http.StatusOK, Total: env.Meta.Total}, nil
}

func (c *Client) get(ctx context.Context, label, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("requesting page", "url", url)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.observeRequest(label, "error", time.Since(start))
		return nil, fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	c.metrics.observeRequest(label, strconv.Itoa(resp.StatusCode), time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096)) //nolint:errcheck // best effort
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: url}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", url, err)
	}
	return body, nil
}

// headerInjectingTransport wraps an http.RoundTripper to set the user agent
// and custom headers on every request.
type headerInjectingTransport struct {
	base      http.RoundTripper
	userAgent string
	headers   map[string]string
}

// RoundTrip implements http.RoundTripper.
func (t *headerInjectingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())

	if t.userAgent != "" {
		clone.Header.Set("User-Agent", t.userAgent)
	}
	for key, value := range t.headers {
		clone.Header.Set(key, value)
	}

	return t.base.RoundTrip(clone)
}
