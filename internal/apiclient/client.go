package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/SAP-F-2025/kambaz-client/internal/config"
	"github.com/SAP-F-2025/kambaz-client/internal/utils"
)

// Client issues one HTTP request per backend action with the session cookies attached.
// It never retries.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  utils.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its jar is kept when set.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc.Jar == nil {
			hc.Jar = c.http.Jar
		}
		c.http = hc
	}
}

// WithJar sets the cookie jar holding the session cookie
func WithJar(jar http.CookieJar) Option {
	return func(c *Client) {
		c.http.Jar = jar
	}
}

func New(cfg *config.Config, logger utils.Logger, opts ...Option) (*Client, error) {
	base, err := url.Parse(cfg.APIBaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL %q: %w", cfg.APIBaseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid API base URL %q: scheme and host are required", cfg.APIBaseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	c := &Client{
		baseURL: base,
		http:    &http.Client{Jar: jar, Timeout: cfg.HTTPTimeout},
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL is the origin the session cookies belong to
func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

// RestoreSession loads persisted session cookies into the jar when it supports it
func (c *Client) RestoreSession(ctx context.Context) error {
	if pj, ok := c.http.Jar.(*PersistentJar); ok {
		return pj.Restore(ctx, c.baseURL)
	}
	return nil
}

func (c *Client) forgetSession(ctx context.Context) {
	if pj, ok := c.http.Jar.(*PersistentJar); ok {
		if err := pj.Forget(ctx, c.baseURL); err != nil {
			c.logger.Warn("Failed to forget persisted session", "error", err)
		}
	}
}

type errorPayload struct {
	Error string `json:"error"`
}

// do performs the request and decodes a 2xx body into out when out is not nil
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, fallback string) error {
	op := strings.ToLower(fallback)

	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: failed to encode request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "API request failed", "method", method, "path", u.Path, "error", err)
		return transportError(op, err)
	}
	defer resp.Body.Close()
	c.logger.LogRequest(ctx, method, u.Path, resp.StatusCode, time.Since(start))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportError(op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload errorPayload
		// A body that is not JSON leaves the fallback in place
		_ = json.Unmarshal(raw, &payload)
		return newAPIError(resp.StatusCode, payload.Error, fallback)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return transportError(op, fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}
