package searchapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/wechange-eg/cosinnus-core-sub001/internal/domain"
)

// RequestIDHeader carries the per-request correlation id
const RequestIDHeader = "X-Request-ID"

// maxBodySize caps how much of a response body is read
const maxBodySize = 16 << 20

// Request is one search call: merged query parameters plus an optional filter group
type Request struct {
	Params      url.Values
	FilterGroup string
}

// Searcher issues search requests. A cancelled ctx must yield an error
// satisfying errors.Is(err, context.Canceled).
type Searcher interface {
	Search(ctx context.Context, req Request) (*Response, error)
}

// Client talks to the portal search endpoint over HTTP
type Client struct {
	baseURL    string
	path       string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client for baseURL + path, e.g. "http://localhost:8000" + "/maps/search/"
func NewClient(baseURL, path string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		path:       path,
		httpClient: &http.Client{Timeout: timeout},
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the full URL for a request
func (c *Client) Endpoint(req Request) (string, error) {
	segments := []string{c.path}
	if req.FilterGroup != "" {
		segments = append(segments, url.PathEscape(req.FilterGroup)+"/")
	}
	u, err := url.JoinPath(c.baseURL, segments...)
	if err != nil {
		return "", fmt.Errorf("invalid search endpoint: %w", err)
	}
	if len(req.Params) > 0 {
		u += "?" + req.Params.Encode()
	}
	return u, nil
}

// Search performs a GET against the endpoint and decodes the payload
func (c *Client) Search(ctx context.Context, req Request) (*Response, error) {
	endpoint, err := c.Endpoint(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	requestID := uuid.NewString()
	httpReq.Header.Set(RequestIDHeader, requestID)
	httpReq.Header.Set("Accept", "application/json")
	// The portal answers ajax-only endpoints based on this header
	httpReq.Header.Set("X-Requested-With", "XMLHttpRequest")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			c.logger.Debug("search request aborted", "request_id", requestID)
			return nil, context.Canceled
		}
		return nil, &domain.NetworkError{URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, context.Canceled
		}
		return nil, &domain.NetworkError{URL: endpoint, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("search request failed", "request_id", requestID, "status", resp.StatusCode)
		return nil, &domain.NetworkError{
			URL:    endpoint,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	decoded, err := DecodeResponse(body)
	if err != nil {
		return nil, &domain.NetworkError{URL: endpoint, Status: resp.StatusCode, Err: err}
	}
	c.logger.Debug("search request done",
		"request_id", requestID,
		"count", decoded.Count,
		"items", len(decoded.Items),
		"took", time.Since(start))
	return decoded, nil
}
