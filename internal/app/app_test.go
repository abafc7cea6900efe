package app_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nfrund/accountdesk/internal/app"
	"github.com/nfrund/accountdesk/internal/config"
	"github.com/nfrund/accountdesk/internal/database"
	"github.com/nfrund/accountdesk/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// startAPI runs the reference server in-process.
func startAPI(t *testing.T) *httptest.Server {
	t.Helper()
	accounts := database.NewAccounts(database.NewUserStore(), database.WithBcryptCost(bcrypt.MinCost))
	srv := server.New(
		server.WithAccounts(accounts),
		server.WithRateLimit(0),
		server.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	ts := httptest.NewServer(srv.E)
	t.Cleanup(ts.Close)
	return ts
}

func TestApp_EndToEnd(t *testing.T) {
	ts := startAPI(t)
	cfg := &config.Config{
		APIBaseURL:      ts.URL,
		RequestTimeout:  5 * time.Second,
		AutofillRecheck: 0,
	}

	var out bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.New(ctx, app.Dependencies{
		Config: cfg,
		Out:    &out,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	defer a.Close()

	script := strings.Join([]string{
		"register", "dana@example.com", "secret123", "dana",
		"register", "dana@example.com", "secret123", "dana",
		"login", "dana@example.com", "wrongpass",
		"login", "dana@example.com", "secret123",
		"passwd", "short",
		"passwd", "brandnew1",
		"delete",
		"delete",
		"quit",
	}, "\n") + "\n"

	require.NoError(t, a.Run(ctx, strings.NewReader(script)))

	transcript := out.String()
	for _, want := range []string{
		"[success] Registration successful! Welcome, dana.\n",
		"[error] Registration failed: User already Exists.\n",
		"[error] Login failed: Invalid ID/PW\n",
		"-- logged in: dana! --\n",
		"[success] Welcome back, dana!\n",
		"  ✗ new password\n",
		"[error] Password update failed: new_password: should have at least 8 characters\n",
		"[success] Password successfully updated!\n",
		"-- login --\n",
		"[success] User deleted successfully!\n",
		"[error] No user is logged in.\n",
	} {
		assert.Contains(t, transcript, want)
	}

	_, loggedIn := a.Controller.Session().Email()
	assert.False(t, loggedIn)
}

func TestApp_ServerUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	var out bytes.Buffer
	a, err := app.New(context.Background(), app.Dependencies{
		Config: &config.Config{APIBaseURL: url, RequestTimeout: time.Second},
		Out:    &out,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.Run(context.Background(), strings.NewReader("login\na@b.co\npassword\n")))
	assert.Contains(t, out.String(), "[error] Login failed: could not reach the server.\n")
}

func TestApp_RequiresConfig(t *testing.T) {
	_, err := app.New(context.Background(), app.Dependencies{})
	assert.Error(t, err)
}

func TestNewCatalog(t *testing.T) {
	names := []string{}
	for _, info := range app.NewCatalog().List() {
		names = append(names, info.Name)
	}
	assert.Equal(t, []string{"field.state", "notice.posted", "screen.changed"}, names)
}
