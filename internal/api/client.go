// Package api is the HTTP client for the remote hospital API. Every response is
// validated at this boundary: callers get typed values or a typed error, never
// half-decoded payloads.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/Veraticus/carepoint/internal/common"
	"github.com/google/uuid"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 4 << 20

// Config configures a Client.
type Config struct {
	HTTPClient *http.Client
	BaseURL    string
	Timeout    time.Duration
	Retries    int
}

// Client talks to the hospital API. Cookies set by the login endpoint are kept in an
// in-memory jar for the life of the Client and are never written to disk.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	retry      common.RetryOptions
}

// NewClient creates a new API client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: base URL is required", common.ErrMissingConfig)
	}

	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: base URL: %v", common.ErrInvalidConfig, err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if httpClient.Jar == nil {
		jar, jarErr := cookiejar.New(nil)
		if jarErr != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", jarErr)
		}
		httpClient.Jar = jar
	}

	retries := cfg.Retries
	if retries <= 0 {
		retries = 1
	}

	return &Client{
		baseURL:    base,
		httpClient: httpClient,
		retry:      common.RetryOptions{MaxAttempts: retries},
	}, nil
}

// get issues an idempotent GET, retrying transient failures when configured to.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	var body []byte
	err := common.WithRetry(ctx, func() error {
		var reqErr error
		body, _, reqErr = c.do(ctx, http.MethodGet, path, query, nil)
		return reqErr
	}, c.retry)
	return body, err
}

// post sends a JSON body. Submissions are never retried.
func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, int, error) {
	return c.do(ctx, http.MethodPost, path, nil, payload)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, int, error) {
	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, &common.NetworkError{Op: method + " " + path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, &common.NetworkError{Op: method + " " + path, Err: err}
	}

	slog.Debug("API request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		remoteErr := &common.RemoteError{
			Path:    path,
			Status:  resp.StatusCode,
			Message: serverMessage(body),
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			// Rate limited: worth another try even though it is a 4xx.
			return body, resp.StatusCode, &common.RetryableError{Err: remoteErr, Retryable: true}
		}
		return body, resp.StatusCode, remoteErr
	}

	return body, resp.StatusCode, nil
}

// serverMessage pulls a human message out of an error body, if there is one.
func serverMessage(body []byte) string {
	var envelope struct {
		Error   any    `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	if s, ok := envelope.Error.(string); ok && s != "" {
		return s
	}
	return envelope.Message
}
