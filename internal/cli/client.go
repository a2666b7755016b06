package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mcoot/mountainshoot/internal/api/apierr"
	"github.com/mcoot/mountainshoot/internal/api/request"
	"github.com/mcoot/mountainshoot/internal/api/response"
	"github.com/mcoot/mountainshoot/internal/middleware"
	"github.com/mcoot/mountainshoot/internal/model"
)

// Client talks to the session API of a mountain shoot server
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// APIError is an error body returned by the server
type APIError struct {
	Status    int
	Code      string
	Message   string
	RequestID string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

// Is matches the game error the server reported, so callers can use
// errors.Is(err, model.ErrActionNotAllowed) on client errors
func (e *APIError) Is(target error) bool {
	switch e.Code {
	case apierr.CodeSessionNotFound:
		return target == model.ErrSessionNotFound
	case apierr.CodeNotAllowed:
		return target == model.ErrActionNotAllowed
	case apierr.CodeInvalidPlayer:
		return target == model.ErrInvalidPlayer
	case apierr.CodeInvalidArgument:
		return target == model.ErrInvalidArgument
	case apierr.CodeUnknownEvent:
		return target == model.ErrUnknownEvent
	}
	return false
}

// HealthResult is the server's health report
type HealthResult struct {
	Status string `json:"status"`
}

// Health checks the server is up
func (c *Client) Health(ctx context.Context) (*HealthResult, error) {
	var result HealthResult
	if err := c.do(ctx, http.MethodGet, "/api/v1/health", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateSession creates a session; unset request fields take server defaults
func (c *Client) CreateSession(ctx context.Context, req request.CreateSessionRequest) (*response.Session, error) {
	var result response.Session
	if err := c.do(ctx, http.MethodPost, "/api/v1/sessions", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetSession fetches a session's current state
func (c *Client) GetSession(ctx context.Context, id string) (*response.Session, error) {
	var result response.Session
	if err := c.do(ctx, http.MethodGet, sessionPath(id, ""), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteSession deletes a session
func (c *Client) DeleteSession(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, sessionPath(id, ""), nil, nil)
}

// Dispatch sends a game event and returns the resulting session
func (c *Client) Dispatch(ctx context.Context, id string, req request.EventRequest) (*response.Session, error) {
	var result response.Session
	if err := c.do(ctx, http.MethodPost, sessionPath(id, "events"), req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Shoot resolves a projectile position against the session's players
func (c *Client) Shoot(ctx context.Context, id string, req request.ShotRequest) (*response.ShotResult, error) {
	var result response.ShotResult
	if err := c.do(ctx, http.MethodPost, sessionPath(id, "shots"), req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func sessionPath(id, sub string) string {
	p := "/api/v1/sessions/" + url.PathEscape(id)
	if sub != "" {
		p += "/" + sub
	}
	return p
}

// do performs a JSON request. Each request carries a fresh request id so
// failures can be found in the server log.
func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(middleware.RequestIDHeader, uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return decodeError(resp, respBody)
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

func decodeError(resp *http.Response, body []byte) error {
	var errResp apierr.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error.Code == "" {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return &APIError{
		Status:    resp.StatusCode,
		Code:      errResp.Error.Code,
		Message:   errResp.Error.Message,
		RequestID: resp.Header.Get(middleware.RequestIDHeader),
	}
}
