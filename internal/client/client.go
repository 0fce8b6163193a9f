// Package client talks to a movecalc API server. A Client is both a
// configuration store and an identity provider, so a terminal session can
// work against the same remote data the browser uses.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"movecalc/internal/identity"
	"movecalc/internal/model"
	"movecalc/internal/store"
)

// Client is an HTTP client for the movecalc API.
type Client struct {
	BaseURL string
	HTTP    *http.Client

	mu        sync.Mutex
	device    string // anonymous device id issued by the server
	session   *identity.Session
	listeners map[int]func(*identity.Session)
	nextID    int
}

// New creates a client. If baseURL is empty, defaults to "http://localhost:8080".
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
		listeners: make(map[int]func(*identity.Session)),
	}
}

// APIError is an error envelope returned by the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	RetryAfter string // For rate limit errors
}

func (e *APIError) Error() string {
	return e.Message
}

// Unwrap maps server error codes back onto the sentinel errors callers
// check with errors.Is.
func (e *APIError) Unwrap() error {
	switch e.Code {
	case "NOT_FOUND":
		return store.ErrNotFound
	case "EMPTY_NAME":
		return store.ErrEmptyName
	case "INVALID_EMAIL":
		return identity.ErrInvalidEmail
	case "WEAK_PASSWORD":
		return identity.ErrWeakPassword
	case "EMAIL_TAKEN":
		return identity.ErrEmailTaken
	case "INVALID_CREDENTIALS":
		return identity.ErrInvalidCredentials
	case "NO_SESSION", "INVALID_SESSION":
		return identity.ErrNoSession
	case "IDENTITY_DISABLED":
		return identity.ErrNotConfigured
	}
	return nil
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// do sends a JSON request and decodes a JSON response into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	} else if device := c.DeviceID(); device != "" {
		req.Header.Set(deviceHeader, device)
	}

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		log.Printf("[Client] %s %s failed: %v (duration: %v)", method, u.Path, err, time.Since(start))
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()
	c.rememberDevice(resp.Header.Get(deviceHeader))

	if resp.StatusCode >= 400 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Code:       "API_ERROR",
			Message:    fmt.Sprintf("API returned status %d", resp.StatusCode),
			RetryAfter: resp.Header.Get("Retry-After"),
		}
		var env errorEnvelope
		if err := json.NewDecoder(resp.Body).Decode(&env); err == nil && env.Error.Code != "" {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// deviceHeader carries the id the server uses to keep anonymous
// configurations apart.
const deviceHeader = "X-Device-ID"

// DeviceID returns the anonymous device id, empty until the server issues one.
func (c *Client) DeviceID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.device
}

// UseDevice sets the device id sent with anonymous requests.
func (c *Client) UseDevice(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.device = id
}

func (c *Client) rememberDevice(id string) {
	if id == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == "" {
		c.device = id
	}
}

func (c *Client) token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return ""
	}
	return c.session.Token
}

// Calculate asks the server to compute results for in.
func (c *Client) Calculate(ctx context.Context, in model.Inputs) (model.Results, error) {
	var out struct {
		Results model.Results `json:"results"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/calculate", in, &out); err != nil {
		return model.Results{}, err
	}
	return out.Results, nil
}

// Defaults fetches the server's starting inputs.
func (c *Client) Defaults(ctx context.Context) (model.Inputs, error) {
	var out struct {
		Inputs model.Inputs `json:"inputs"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/defaults", nil, &out); err != nil {
		return model.Inputs{}, err
	}
	return out.Inputs, nil
}

// IsAPIError reports whether err came from the server with the given code.
func IsAPIError(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}
