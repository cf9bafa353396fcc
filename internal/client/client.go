// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package client talks to the chat backend that hosts the agent: it delivers
// permission decisions and looks up slash commands.
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
	"time"

	"golang.org/x/time/rate"

	"github.com/jeranaias/rigrun-acp/internal/commands"
	"github.com/jeranaias/rigrun-acp/internal/permission"
)

const (
	// DefaultBaseURL is the backend used when none is configured.
	DefaultBaseURL = "http://127.0.0.1:8000"

	// DefaultTimeout bounds a single request.
	DefaultTimeout = 30 * time.Second

	// DefaultLookupRate is the sustained slash-command lookup rate per second.
	DefaultLookupRate = 2

	// DefaultLookupBurst allows a short burst of lookups while typing.
	DefaultLookupBurst = 4

	// MaxResponseSize bounds a response body.
	MaxResponseSize = 1 << 20

	permissionsPath   = "/api/acp/permissions"
	slashCommandsPath = "/api/acp/slash_commands"
)

var (
	// ErrNotConfigured indicates the client has no backend URL.
	ErrNotConfigured = errors.New("backend URL not configured")

	// ErrRejected indicates the backend refused a permission decision.
	ErrRejected = errors.New("permission rejected by backend")
)

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend error (HTTP %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend error (HTTP %d)", e.Status)
}

// errorResponse is the error body shape the backend uses.
type errorResponse struct {
	Detail string `json:"detail"`
	Error  string `json:"error"`
}

type slashCommandsResponse struct {
	Commands []commands.Command `json:"commands"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Client is an HTTP client for the backend. It implements
// permission.Submitter and commands.Source.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

var (
	_ permission.Submitter = (*Client)(nil)
	_ commands.Source      = (*Client)(nil)
)

// New creates a client for the backend at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(DefaultLookupRate), DefaultLookupBurst),
	}
}

// WithToken sets a bearer token sent with every request.
func (c *Client) WithToken(token string) *Client {
	c.token = strings.TrimSpace(token)
	return c
}

// WithTimeout sets the request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	if timeout > 0 {
		c.httpClient.Timeout = timeout
	}
	return c
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.httpClient = hc
	}
	return c
}

// WithLookupRate sets the slash-command lookup throttle. A non-positive
// perSecond disables throttling.
func (c *Client) WithLookupRate(perSecond float64, burst int) *Client {
	if perSecond <= 0 {
		c.limiter = rate.NewLimiter(rate.Inf, 0)
		return c
	}
	if burst < 1 {
		burst = 1
	}
	c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	return c
}

// BaseURL returns the backend URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// PERMISSIONS
// =============================================================================

// SubmitPermission posts a decision. Any 2xx status is success; the resolved
// state arrives later as a new snapshot.
func (c *Client) SubmitPermission(ctx context.Context, d permission.Decision) error {
	if c.baseURL == "" {
		return ErrNotConfigured
	}

	body, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal decision: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+permissionsPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := readResponse(resp)
		apiErr := newAPIError(resp.StatusCode, data)
		if resp.StatusCode == http.StatusConflict || resp.StatusCode == http.StatusUnprocessableEntity {
			return fmt.Errorf("%w: %v", ErrRejected, apiErr)
		}
		return apiErr
	}
	io.Copy(io.Discard, io.LimitReader(resp.Body, MaxResponseSize))
	return nil
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// SlashCommands fetches the commands available in a chat, optionally scoped
// to a persona. Names come back normalised to a leading "/".
func (c *Client) SlashCommands(ctx context.Context, chatPath, persona string) ([]commands.Command, error) {
	if c.baseURL == "" {
		return nil, ErrNotConfigured
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("lookup throttled: %w", err)
	}

	endpoint := c.baseURL + slashCommandsPath
	if persona = strings.TrimSpace(persona); persona != "" {
		endpoint += "/" + url.PathEscape(persona)
	}
	query := url.Values{}
	query.Set("chat_path", chatPath)
	endpoint += "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := readResponse(resp)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, newAPIError(resp.StatusCode, data)
	}

	var out slashCommandsResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse slash commands: %w", err)
	}
	for i := range out.Commands {
		out.Commands[i].Name = commands.Normalize(out.Commands[i].Name)
	}
	return out.Commands, nil
}

// =============================================================================
// TRANSPORT
// =============================================================================

// do sends a request, logging method, path, status and duration only.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("User-Agent", "rigrun-acp")

	start := time.Now()
	resp, err := c.httpClient.Do(req)

	// keep the token out of anything that logs the request later
	req.Header.Del("Authorization")

	if err != nil {
		log.Printf("BACKEND_REQUEST_FAILED | method=%s path=%s error=%v", req.Method, req.URL.Path, err)
		return nil, fmt.Errorf("request failed: %w", err)
	}
	log.Printf("BACKEND_REQUEST | method=%s path=%s status=%d duration=%v",
		req.Method, req.URL.Path, resp.StatusCode, time.Since(start))
	return resp, nil
}

// readResponse reads a body up to MaxResponseSize.
func readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if len(body) > MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

func newAPIError(status int, body []byte) *APIError {
	e := &APIError{Status: status}
	var parsed errorResponse
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Detail != "" {
			e.Message = parsed.Detail
		} else {
			e.Message = parsed.Error
		}
	}
	if e.Message == "" {
		e.Message = strings.TrimSpace(string(body))
	}
	return e
}
