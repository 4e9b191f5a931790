// Package httputil provides the authenticated HTTP transport used to
// talk to the IQM execution service.
package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const maxBodyBytes = 8 << 20

// Client wraps an http.Client with bearer-token authentication and an
// optional client-side rate limit shared by all requests.
type Client struct {
	httpClient *http.Client
	token      string
	userAgent  string
	limiter    *rate.Limiter
}

// Config configures a Client.
type Config struct {
	// Token is the bearer token attached to every request.
	Token string
	// UserAgent identifies the client to the service.
	UserAgent string
	// Timeout bounds each individual request. Defaults to 30s.
	Timeout time.Duration
	// HTTPClient overrides the underlying client; Timeout is ignored
	// when set.
	HTTPClient *http.Client
	// Limiter throttles outgoing requests when non-nil.
	Limiter *rate.Limiter
}

// NewClient creates an authenticated client.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		httpClient: httpClient,
		token:      cfg.Token,
		userAgent:  cfg.UserAgent,
		limiter:    cfg.Limiter,
	}
}

// Get performs an authenticated GET request.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	return c.do(ctx, http.MethodGet, url, nil)
}

// PostJSON performs an authenticated POST request with a JSON body.
// A nil body posts an empty request.
func (c *Client) PostJSON(ctx context.Context, url string, body any) (*http.Response, error) {
	return c.do(ctx, http.MethodPost, url, body)
}

func (c *Client) do(ctx context.Context, method, url string, body any) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	// Lets the server signal readiness before the request data is sent.
	req.Header.Set("Expect", "100-continue")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	return resp, nil
}

// StatusError reports a non-success HTTP status, with a snippet of the
// response body when one was readable.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("request failed with status %d", e.Code)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.Code, e.Body)
}

// DecodeResponse decodes a JSON response into target and closes the
// body. Any non-2xx status yields a *StatusError carrying a bounded
// snippet of the body. A nil target drains and discards the body.
func DecodeResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, truncated, err := ReadAllWithLimit(resp.Body, 64<<10)
		if err != nil {
			return fmt.Errorf("read error response body: %w", err)
		}
		msg := strings.TrimSpace(string(body))
		if truncated {
			msg += "...(truncated)"
		}
		return &StatusError{Code: resp.StatusCode, Body: msg}
	}

	if target == nil {
		if _, err := io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes)); err != nil {
			return fmt.Errorf("discard response body: %w", err)
		}
		return nil
	}

	body, _, err := ReadAllWithLimit(resp.Body, maxBodyBytes)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// ReadAllWithLimit reads at most limit bytes from r. The second return
// value reports whether the input was truncated at the limit.
func ReadAllWithLimit(r io.Reader, limit int64) ([]byte, bool, error) {
	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, false, err
	}
	if int64(len(body)) > limit {
		return body[:limit], true, nil
	}
	return body, false, nil
}
