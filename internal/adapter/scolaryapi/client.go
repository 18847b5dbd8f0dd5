// Package scolaryapi is the HTTP client for the Scolary REST backend.
// It joins paths onto the configured base URL, attaches the bearer token,
// encodes JSON bodies and maps non-2xx responses to *APIError.
package scolaryapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/scolary/internal/domain"
	"github.com/heartmarshall/scolary/pkg/ctxutil"
)

const (
	defaultTimeout = 15 * time.Second
	retryDelay     = 500 * time.Millisecond
	maxErrorBody   = 64 << 10
)

// TokenSource yields the bearer token for the current session.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
}

// Client performs requests against the Scolary REST API.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	tokens     TokenSource
	log        *slog.Logger
	retryDelay time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the default *http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithRetryDelay sets the pause before the single GET retry.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) { c.retryDelay = d }
}

// New creates a Client for baseURL. tokens may be nil for anonymous use.
func New(baseURL string, tokens TokenSource, logger *slog.Logger, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("scolaryapi: parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("scolaryapi: base url %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: defaultTimeout},
		tokens:     tokens,
		log:        logger.With("adapter", "scolaryapi"),
		retryDelay: retryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

// Do sends req to path and decodes a JSON response into out.
// out may be nil. A 204 response leaves out untouched.
func (c *Client) Do(ctx context.Context, path string, req Request, out any) error {
	resp, err := c.send(ctx, path, req, "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent || out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("scolaryapi: read body: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("scolaryapi: decode json: %w", err)
	}
	return nil
}

// DoBlob sends req to path and returns the raw response body, typically a PDF.
// A 204 response returns nil, nil.
func (c *Client) DoBlob(ctx context.Context, path string, req Request) (*Blob, error) {
	resp, err := c.send(ctx, path, req, "application/pdf, application/octet-stream")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("scolaryapi: read blob: %w", err)
	}
	return &Blob{ContentType: resp.Header.Get("Content-Type"), Data: data}, nil
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, username, password string) (*domain.AccessToken, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var token domain.AccessToken
	err := c.Do(ctx, "/login/access-token", Request{
		Method:      http.MethodPost,
		Body:        strings.NewReader(form.Encode()),
		ContentType: "application/x-www-form-urlencoded",
		Anonymous:   true,
	}, &token)
	if err != nil {
		return nil, err
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("scolaryapi: login: empty access token")
	}
	return &token, nil
}

func (c *Client) send(ctx context.Context, path string, req Request, accept string) (*http.Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	fullURL, err := c.resolve(path, req.Query)
	if err != nil {
		return nil, err
	}

	body, contentType, err := req.encode()
	if err != nil {
		return nil, err
	}

	requestID := ctxutil.RequestIDFromCtx(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	build := func() (*http.Request, error) {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		httpReq, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
		if err != nil {
			return nil, fmt.Errorf("scolaryapi: create request: %w", err)
		}
		httpReq.Header.Set("Accept", accept)
		httpReq.Header.Set("X-Request-Id", requestID)
		if contentType != "" {
			httpReq.Header.Set("Content-Type", contentType)
		}
		if !req.Anonymous && c.tokens != nil {
			if token, ok := c.tokens.Token(ctx); ok {
				httpReq.Header.Set("Authorization", "Bearer "+token)
			}
		}
		for k, v := range req.Headers {
			httpReq.Header.Set(k, v)
		}
		return httpReq, nil
	}

	c.log.DebugContext(ctx, "scolaryapi request",
		slog.String("method", method),
		slog.String("path", path),
		slog.String("request_id", requestID),
		slog.String("page", ctxutil.PageFromCtx(ctx)),
	)

	// Only idempotent reads are retried.
	resp, err := c.doWithRetry(ctx, build, method == http.MethodGet, path)
	if err != nil {
		c.log.ErrorContext(ctx, "scolaryapi request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("scolaryapi: %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		apiErr := parseError(resp)
		c.log.WarnContext(ctx, "scolaryapi error response",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
			slog.String("message", apiErr.Message),
		)
		return nil, apiErr
	}

	return resp, nil
}

// doWithRetry executes the request with a single retry on 5xx or network errors.
func (c *Client) doWithRetry(ctx context.Context, build func() (*http.Request, error), retryable bool, path string) (*http.Response, error) {
	httpReq, err := build()
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(httpReq)

	shouldRetry := retryable && (err != nil || (resp != nil && resp.StatusCode >= 500))
	if !shouldRetry {
		return resp, err
	}

	// Don't retry if context is already cancelled.
	if ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil && resp != nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
	}
	c.log.WarnContext(ctx, "scolaryapi retry", slog.String("path", path), slog.String("reason", reason))

	// Close body from the failed attempt before retrying.
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(c.retryDelay):
	}

	httpReq, err = build()
	if err != nil {
		return nil, err
	}
	return c.httpClient.Do(httpReq)
}

func (c *Client) resolve(path string, query url.Values) (string, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("scolaryapi: parse path %q: %w", path, err)
	}

	u := *c.baseURL
	u.Path = strings.TrimRight(c.baseURL.Path, "/") + "/" + strings.TrimLeft(ref.Path, "/")

	q := ref.Query()
	for k, vals := range query {
		for _, v := range vals {
			if strings.TrimSpace(v) == "" {
				continue
			}
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
