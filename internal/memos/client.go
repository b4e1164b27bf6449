package memos

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"memos-mcp/config"
	"memos-mcp/pkg/log"
)

// UserAgent identifies this client to the remote Memos instance.
const UserAgent = "memos-mcp/" + Version

// Version is the release version reported by get_server_info.
const Version = "0.1.0"

// Result is a successful transport outcome: the decoded 2xx body plus how
// many attempts the call took.
type Result struct {
	Body       json.RawMessage
	StatusCode int
	Attempts   int
}

// Client is the HTTP wrapper for the Memos REST API. Every call attaches the
// bearer token, consults the rate limiter before each attempt, applies the
// per-attempt timeout and retries transient failures with backoff.
type Client struct {
	baseURL     string
	apiVersion  string
	accessToken string
	timeout     time.Duration
	policy      retryPolicy
	limiter     *RateLimiter
	httpClient  *http.Client
	l           log.Logger
}

// NewClient creates a Memos HTTP client from validated settings.
func NewClient(cfg config.MemosConfig, limiter *RateLimiter, l log.Logger) *Client {
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiVersion:  cfg.APIVersion,
		accessToken: cfg.AccessToken,
		timeout:     cfg.Timeout,
		policy:      defaultRetryPolicy(cfg.MaxRetries),
		limiter:     limiter,
		httpClient:  &http.Client{},
		l:           l,
	}
}

// BaseURL returns the configured instance URL (safe to expose, carries no
// credentials).
func (c *Client) BaseURL() string {
	return c.baseURL
}

// APIVersion returns the configured API version segment.
func (c *Client) APIVersion() string {
	return c.apiVersion
}

// Execute performs an HTTP call against {base_url}/api/{api_version}{path}.
// payload, when non-nil, is JSON-encoded as the request body. Transient
// failures (timeouts, network errors, 429, 5xx) are retried with exponential
// backoff and jitter; other 4xx responses fail immediately. On failure the
// returned error is always an *APIError.
func (c *Client) Execute(ctx context.Context, method, path string, query url.Values, payload any) (*Result, error) {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return nil, &APIError{
				Kind:    KindValidation,
				Op:      opName(method, path),
				Message: fmt.Sprintf("failed to encode request body: %v", err),
				Err:     err,
			}
		}
	}

	requestURL := fmt.Sprintf("%s/api/%s%s", c.baseURL, c.apiVersion, path)
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	op := opName(method, path)
	callID := uuid.NewString()
	state := newRetryState(c.policy)

	for {
		// Every attempt goes through the limiter; the caller's deadline
		// bounds the wait.
		if err := c.limiter.Acquire(ctx); err != nil {
			return nil, c.failure(state, &APIError{
				Kind:    KindTimeout,
				Op:      op,
				Message: "timed out waiting for rate limit capacity",
				Err:     err,
			})
		}

		result, attemptErr := c.attempt(ctx, method, requestURL, body, op)
		state.record(attemptErr)

		if attemptErr == nil {
			result.Attempts = state.attempts()
			return result, nil
		}

		c.l.Warnf(ctx, "memos client: %s attempt %d/%d failed (call %s): %v",
			op, state.attempts(), c.policy.maxRetries+1, callID, attemptErr)

		if !state.shouldRetry() {
			return nil, c.failure(state, attemptErr)
		}
		if err := state.wait(ctx); err != nil {
			return nil, c.failure(state, &APIError{
				Kind:    KindTimeout,
				Op:      op,
				Message: "call cancelled during retry backoff",
				Err:     err,
			})
		}
	}
}

// attempt runs a single HTTP round trip under the per-attempt timeout.
func (c *Client) attempt(ctx context.Context, method, requestURL string, body []byte, op string) (*Result, *APIError) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(attemptCtx, method, requestURL, reader)
	if err != nil {
		return nil, &APIError{
			Kind:    KindValidation,
			Op:      op,
			Message: fmt.Sprintf("failed to build request: %v", err),
			Err:     err,
		}
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("User-Agent", UserAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		kind := KindNetwork
		message := "request failed"
		if errors.Is(err, context.DeadlineExceeded) || attemptCtx.Err() != nil {
			kind = KindTimeout
			message = "request timed out"
		}
		return nil, &APIError{Kind: kind, Op: op, Message: message, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{
			Kind:    KindNetwork,
			Op:      op,
			Message: "failed to read response body",
			Err:     err,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		kind := kindFromStatus(resp.StatusCode)
		return nil, &APIError{
			Kind:       kind,
			StatusCode: resp.StatusCode,
			Op:         op,
			Message:    messageForKind(kind, resp.StatusCode),
		}
	}

	if len(raw) == 0 {
		raw = []byte("{}")
	}
	if !json.Valid(raw) {
		return nil, &APIError{
			Kind:       KindMalformedResponse,
			StatusCode: resp.StatusCode,
			Op:         op,
			Message:    "response body is not valid JSON",
		}
	}

	return &Result{Body: raw, StatusCode: resp.StatusCode}, nil
}

// failure stamps the final attempt count onto the terminal error.
func (c *Client) failure(state *retryState, apiErr *APIError) error {
	apiErr.Attempts = state.attempts()
	return apiErr
}

func opName(method, path string) string {
	return method + " " + path
}
