// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api contains the two HTTP clients of the storefront.

  - [Client] issues requests that need no credential (catalog reads,
    registration, login). Failures propagate unchanged.
  - [AuthClient] attaches the session credential to every request and runs
    the one-shot refresh-and-replay cycle when the backend reports expiry.

Both speak JSON to the base address from [config.Config.APIURL] and classify
failures through [apperr].
*/
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/taibuivan/storefront/internal/platform/apperr"
	"github.com/taibuivan/storefront/internal/platform/config"
	"github.com/taibuivan/storefront/internal/platform/constants"
	"github.com/taibuivan/storefront/internal/platform/ctxutil"
	"github.com/taibuivan/storefront/pkg/uuid"
)

// Options configures a [Client].
type Options struct {
	// BaseURL is the backend address, e.g. "http://localhost:4000".
	BaseURL string
	// HTTPClient defaults to a plain &http.Client{} (transport defaults, no timeout).
	HTTPClient *http.Client
	// Limiter throttles outgoing requests when non-nil.
	Limiter *rate.Limiter
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Client is the unauthenticated HTTP client.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient validates the options and builds a [Client].
func NewClient(opts Options) (*Client, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("api: base URL must be absolute, got %q", opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    base,
		httpClient: httpClient,
		limiter:    opts.Limiter,
		logger:     logger,
	}, nil
}

// NewClientFromConfig builds a [Client] from the loaded configuration.
func NewClientFromConfig(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	opts := Options{BaseURL: cfg.APIURL, Logger: logger}
	if cfg.RateLimitRPS > 0 {
		opts.Limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	}
	return NewClient(opts)
}

// BaseURL returns the configured backend address.
func (c *Client) BaseURL() string { return c.baseURL.String() }

// Do sends req without any credential.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	p, err := prepare(req)
	if err != nil {
		return nil, err
	}

	result := c.send(ctx, p, nil)
	return result.resp, result.err
}

// send performs exactly one HTTP exchange. When credential is non-nil the
// Authorization header is set to "Bearer <credential>", even if it is empty.
func (c *Client) send(ctx context.Context, p prepared, credential *string) attempt {
	requestID := ctxutil.GetRequestID(ctx)
	if requestID == "" {
		requestID = uuid.New()
	}
	logger := c.logger.With(
		slog.String("request_id", requestID),
		slog.String("method", p.method),
		slog.String("path", p.path),
	)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return attempt{err: apperr.Network(p.method, p.path, err)}
		}
	}

	var body io.Reader
	if p.body != nil {
		body = bytes.NewReader(p.body)
	}

	httpRequest, err := http.NewRequestWithContext(ctx, p.method, c.resolve(p), body)
	if err != nil {
		return attempt{err: apperr.Network(p.method, p.path, err)}
	}
	httpRequest.Header.Set("Accept", constants.ContentTypeJSON)
	httpRequest.Header.Set(constants.HeaderXRequestID, requestID)
	if p.body != nil {
		httpRequest.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	}
	if credential != nil {
		httpRequest.Header.Set(constants.HeaderAuthorization, "Bearer "+*credential)
	}

	startTime := time.Now()
	httpResponse, err := c.httpClient.Do(httpRequest)
	if err != nil {
		logger.Debug("http_request_failed", slog.Any("error", err))
		return attempt{err: apperr.Network(p.method, p.path, err)}
	}
	defer httpResponse.Body.Close()

	payload, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return attempt{err: apperr.Network(p.method, p.path, fmt.Errorf("read body: %w", err))}
	}

	logger.Debug("http_request_finished",
		slog.Int("status", httpResponse.StatusCode),
		slog.Int64("latency_ms", time.Since(startTime).Milliseconds()),
	)

	if httpResponse.StatusCode < 200 || httpResponse.StatusCode > 299 {
		return attempt{err: apperr.FromResponse(p.method, p.path, httpResponse.StatusCode, payload)}
	}

	return attempt{resp: &Response{
		Status: httpResponse.StatusCode,
		Header: httpResponse.Header,
		Body:   payload,
		method: p.method,
		path:   p.path,
	}}
}

// resolve joins the base URL, the request path and the query string.
func (c *Client) resolve(p prepared) string {
	target := *c.baseURL
	target.Path = strings.TrimRight(target.Path, "/") + p.path
	target.RawPath = ""
	target.RawQuery = ""
	if len(p.query) > 0 {
		target.RawQuery = p.query.Encode()
	}
	return target.String()
}
