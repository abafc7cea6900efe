package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/accountdesk/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHTTPErrorHandler_WithStackTrace(t *testing.T) {
	e := echo.New()

	var logBuffer bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuffer, &slog.HandlerOptions{AddSource: true}))
	originalLogger := slog.Default()
	slog.SetDefault(logger)
	defer slog.SetDefault(originalLogger)

	setupErrorHandling(e)

	e.GET("/test-unhandled-error", func(c echo.Context) error {
		return errors.New("a deliberate unhandled error occurred")
	})

	req := httptest.NewRequest(http.MethodGet, "/test-unhandled-error", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"detail":"Internal Server Error"}`, rec.Body.String())

	logOutput := logBuffer.String()
	assert.Contains(t, logOutput, "Internal Server Error (Unhandled)")
	assert.Contains(t, logOutput, "error=\"a deliberate unhandled error occurred\"")
	assert.Contains(t, logOutput, "stack_trace=")
	assert.Contains(t, logOutput, "runtime/debug/stack.go")
	assert.Contains(t, logOutput, "internal/server/server_test.go")
}

func TestHTTPErrorHandler_HTTPError(t *testing.T) {
	e := echo.New()
	setupErrorHandling(e)

	e.GET("/gone", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "User not Found.")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/gone", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"User not Found."}`, rec.Body.String())

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/no-such-route", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"Not Found"}`, rec.Body.String())
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	accounts := database.NewAccounts(database.NewUserStore(), database.WithBcryptCost(bcrypt.MinCost))
	return New(
		WithAccounts(accounts),
		WithRateLimit(0),
		WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))),
	)
}

func doJSON(s *Server, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.E.ServeHTTP(rec, req)
	return rec
}

func TestUserRoutes(t *testing.T) {
	s := newTestServer(t)

	steps := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		detail string
	}{
		{"login before register", http.MethodPost, "/api/user/login", `{"email":"dana@example.com","password":"secret123"}`, http.StatusBadRequest, "User not Found."},
		{"register", http.MethodPost, "/api/user/register", `{"email":"dana@example.com","password":"secret123","username":"dana"}`, http.StatusCreated, ""},
		{"register again", http.MethodPost, "/api/user/register", `{"email":"dana@example.com","password":"secret123","username":"dana"}`, http.StatusBadRequest, "User already Exists."},
		{"wrong password", http.MethodPost, "/api/user/login", `{"email":"dana@example.com","password":"nope"}`, http.StatusBadRequest, "Invalid ID/PW"},
		{"login", http.MethodPost, "/api/user/login", `{"email":"dana@example.com","password":"secret123"}`, http.StatusOK, ""},
		{"update password", http.MethodPut, "/api/user/update-password", `{"email":"dana@example.com","new_password":"brandnew1"}`, http.StatusOK, ""},
		{"old password rejected", http.MethodPost, "/api/user/login", `{"email":"dana@example.com","password":"secret123"}`, http.StatusBadRequest, "Invalid ID/PW"},
		{"update unknown", http.MethodPut, "/api/user/update-password", `{"email":"erin@example.com","new_password":"brandnew1"}`, http.StatusNotFound, "User not Found."},
		{"delete", http.MethodDelete, "/api/user/delete", `{"email":"dana@example.com"}`, http.StatusOK, ""},
		{"delete again", http.MethodDelete, "/api/user/delete", `{"email":"dana@example.com"}`, http.StatusNotFound, "User not Found."},
		{"malformed body", http.MethodPost, "/api/user/login", `{`, http.StatusBadRequest, "Malformed request body."},
	}

	for _, step := range steps {
		rec := doJSON(s, step.method, step.path, step.body)
		require.Equal(t, step.status, rec.Code, "%s: %s", step.name, rec.Body.String())
		if step.detail != "" {
			assert.JSONEq(t, `{"detail":"`+step.detail+`"}`, rec.Body.String(), step.name)
		}
	}
}

func TestUserRoutes_LoginPayload(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated,
		doJSON(s, http.MethodPost, "/api/user/register", `{"email":"fay@example.com","password":"secret123","username":"fay"}`).Code)

	rec := doJSON(s, http.MethodPost, "/api/user/login", `{"email":"fay@example.com","password":"secret123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

	var body struct {
		Status string `json:"status"`
		Data   struct {
			Email    string `json:"email"`
			Username string `json:"username"`
		} `json:"data"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "success", body.Status)
	assert.Equal(t, "fay", body.Data.Username)
	assert.Equal(t, "Login Success.", body.Message)
}

func TestUserRoutes_ValidationDetail(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(s, http.MethodPost, "/api/user/register", `{"email":"fay@example.com","password":"short","username":"fay"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body struct {
		Detail []struct {
			Loc  []string `json:"loc"`
			Msg  string   `json:"msg"`
			Type string   `json:"type"`
		} `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Detail, 1)
	assert.Equal(t, []string{"body", "password"}, body.Detail[0].Loc)
	assert.Equal(t, "password: should have at least 8 characters", body.Detail[0].Msg)
}

func TestRateLimitedRoutes(t *testing.T) {
	s := New(WithRateLimit(1), WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))

	req := func() int {
		r := httptest.NewRequest(http.MethodPost, "/api/user/login", strings.NewReader(`{"email":"x@example.com","password":"p"}`))
		r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		r.RemoteAddr = "192.0.2.9:4321"
		rec := httptest.NewRecorder()
		s.E.ServeHTTP(rec, r)
		return rec.Code
	}

	assert.Equal(t, http.StatusBadRequest, req())
	assert.Equal(t, http.StatusTooManyRequests, req())
}

func TestRateLimitedRoutes_OnlyCredentialEndpoints(t *testing.T) {
	s := New(WithRateLimit(1), WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))

	send := func(method, path, body string) int {
		r := httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		r.RemoteAddr = "192.0.2.10:4321"
		rec := httptest.NewRecorder()
		s.E.ServeHTTP(rec, r)
		return rec.Code
	}

	for i := 0; i < 3; i++ {
		code := send(http.MethodPut, "/api/user/update-password", `{"email":"x@example.com","new_password":"newpassword1"}`)
		assert.NotEqual(t, http.StatusTooManyRequests, code, "update-password request %d", i+1)
		code = send(http.MethodDelete, "/api/user/delete", `{"email":"x@example.com"}`)
		assert.NotEqual(t, http.StatusTooManyRequests, code, "delete request %d", i+1)
	}

	// Login and register draw on one budget per client.
	assert.NotEqual(t, http.StatusTooManyRequests, send(http.MethodPost, "/api/user/login", `{"email":"x@example.com","password":"p"}`))
	assert.Equal(t, http.StatusTooManyRequests, send(http.MethodPost, "/api/user/register", `{"email":"x@example.com","password":"p","username":"x"}`))
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.E.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}
