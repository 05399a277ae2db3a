package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// RequestHook runs on every outgoing request before it is sent. A non-nil error aborts the call.
type RequestHook func(*http.Request) error

// Recorder receives one measurement per backend round trip
type Recorder interface {
	RecordRequest(ctx context.Context, method, resource string, statusCode int, duration time.Duration, err error)
}

// Client talks JSON to the POS backend
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	recorder   Recorder

	mu             sync.RWMutex
	hooks          []RequestHook
	onUnauthorized []func()
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func WithRecorder(recorder Recorder) Option {
	return func(c *Client) { c.recorder = recorder }
}

// New creates a client for baseURL, e.g. http://localhost:8080/api
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Use appends a pre-request hook
func (c *Client) Use(hook RequestHook) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks = append(c.hooks, hook)
}

// OnUnauthorized registers fn to run whenever the backend answers 401
func (c *Client) OnUnauthorized(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = append(c.onUnauthorized, fn)
}

// Do sends body as JSON (when non-nil) and decodes the response into out (when non-nil)
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.mu.RLock()
	hooks := append([]RequestHook(nil), c.hooks...)
	c.mu.RUnlock()
	for _, hook := range hooks {
		if err := hook(req); err != nil {
			return fmt.Errorf("request hook rejected %s %s: %w", method, path, err)
		}
	}

	start := time.Now()
	statusCode, err := c.send(req, out)
	c.record(ctx, method, path, statusCode, time.Since(start), err)

	if errors.Is(err, ErrUnauthorized) {
		c.notifyUnauthorized()
	}
	return err
}

func (c *Client) send(req *http.Request, out any) (int, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, &RemoteError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, &RemoteError{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return resp.StatusCode, &RemoteError{
			StatusCode: resp.StatusCode,
			Message:    extractMessage(data),
			Err:        fmt.Errorf("%s %s", req.Method, req.URL.Path),
		}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
	}
	return resp.StatusCode, nil
}

// extractMessage reads `message`, then `error`, from a JSON error body
func extractMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}

func (c *Client) record(ctx context.Context, method, path string, statusCode int, duration time.Duration, err error) {
	resource := resourceOf(path)
	if err != nil {
		c.logger.Warn("Backend request failed",
			"method", method,
			"resource", resource,
			"status_code", statusCode,
			"duration_ms", duration.Milliseconds(),
			"error", err,
		)
	} else {
		c.logger.Debug("Backend request completed",
			"method", method,
			"resource", resource,
			"status_code", statusCode,
			"duration_ms", duration.Milliseconds(),
		)
	}

	if c.recorder != nil {
		c.recorder.RecordRequest(ctx, method, resource, statusCode, duration, err)
	}
}

func (c *Client) notifyUnauthorized() {
	c.mu.RLock()
	callbacks := append([]func(){}, c.onUnauthorized...)
	c.mu.RUnlock()
	for _, fn := range callbacks {
		fn()
	}
}

// resourceOf keeps the first path segment so ids never become metric labels
func resourceOf(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if idx := strings.IndexAny(trimmed, "/?"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return trimmed
}
