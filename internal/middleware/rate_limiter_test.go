package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter(t *testing.T) {
	e := echo.New()

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	}

	// Burst equals the limit, so the first 10 requests from one IP pass.
	e.POST("/", handler, RateLimiter(10))

	t.Run("allows requests within the limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		rec := httptest.NewRecorder()

		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("blocks requests exceeding the limit", func(t *testing.T) {
		limit := 10
		clientIP := "192.0.2.2:1234"

		for i := 0; i < limit; i++ {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			req.RemoteAddr = clientIP
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code, "request %d should be allowed", i+1)
		}

		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = clientIP
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.JSONEq(t, `{"detail":"`+TooManyRequestsDetail+`"}`, rec.Body.String())
	})
}

func TestRateLimiter_DeniedClientIsLoggedAndOthersPass(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	e.Use(Logger(slog.New(slog.NewTextHandler(&buf, nil))))
	e.POST("/api/user/login", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, RateLimiter(1))

	send := func(remote string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/user/login", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, send("198.51.100.7:5000"))
	require.Equal(t, http.StatusTooManyRequests, send("198.51.100.7:5001"))
	assert.Equal(t, http.StatusOK, send("198.51.100.8:5000"), "budgets are per client IP")

	assert.Contains(t, buf.String(), `msg="Rate limit exceeded"`)
	assert.Contains(t, buf.String(), "client=198.51.100.7")
	assert.NotContains(t, buf.String(), "client=198.51.100.8")
}
