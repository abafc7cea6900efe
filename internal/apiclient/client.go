package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Route paths of the account API.
const (
	PathLogin          = "/api/user/login"
	PathRegister       = "/api/user/register"
	PathUpdatePassword = "/api/user/update-password"
	PathDelete         = "/api/user/delete"
)

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 1 << 20

// LoginRequest is the body of POST /api/user/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /api/user/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

// UpdatePasswordRequest is the body of PUT /api/user/update-password.
type UpdatePasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"new_password"`
}

// DeleteRequest is the body of DELETE /api/user/delete.
type DeleteRequest struct {
	Email string `json:"email"`
}

// Profile is the user record returned in the data field of a login response.
type Profile struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

// LoginResponse is the subset of the login response the client uses.
type LoginResponse struct {
	Status  string  `json:"status"`
	Data    Profile `json:"data"`
	Message string  `json:"message"`
}

// Client talks to the account API. Each call is a single request/response
// exchange; nothing is retried.
type Client struct {
	baseURL    string
	http       *http.Client
	timeout    time.Duration
	hasTimeout bool
	logger     *slog.Logger
}

// DefaultTimeout bounds each exchange unless WithTimeout or WithHTTPClient say otherwise.
const DefaultTimeout = 30 * time.Second

// Option is a function that configures a Client.
type Option func(*Client)

// WithHTTPClient sets the http.Client requests are based on. New works on a
// copy, so hc itself is never modified.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout bounds each exchange, on top of the caller's context. It
// overrides the timeout of a client given with WithHTTPClient, in any order.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
		c.hasTimeout = true
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New creates a Client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	hc := http.Client{Timeout: DefaultTimeout}
	if c.http != nil {
		hc = *c.http
	}
	if c.hasTimeout {
		hc.Timeout = c.timeout
	}
	c.http = &hc
	return c
}

// Login authenticates and returns the user's profile.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	body, err := c.do(ctx, http.MethodPost, PathLogin, req)
	if err != nil {
		return nil, err
	}
	var resp LoginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode login response: %w: %v", ErrMalformedResponse, err)
	}
	return &resp, nil
}

// Register creates an account. It does not log the user in.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	_, err := c.do(ctx, http.MethodPost, PathRegister, req)
	return err
}

// UpdatePassword replaces the password of the account identified by req.Email.
func (c *Client) UpdatePassword(ctx context.Context, req UpdatePasswordRequest) error {
	_, err := c.do(ctx, http.MethodPut, PathUpdatePassword, req)
	return err
}

// Delete removes the account identified by req.Email.
func (c *Client) Delete(ctx context.Context, req DeleteRequest) error {
	_, err := c.do(ctx, http.MethodDelete, PathDelete, req)
	return err
}

// do performs one JSON exchange and returns the body of a 2xx response.
// Non-2xx responses become *APIError; anything without a response wraps ErrTransport.
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s body: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("Request failed without response", "method", method, "path", path, "error", err)
		return nil, fmt.Errorf("%s %s: %w: %v", method, path, ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s %s response: %w: %v", method, path, ErrTransport, err)
	}

	c.logger.Debug("Request completed",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeAPIError(resp.StatusCode, body)
	}
	return body, nil
}
