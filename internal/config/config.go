package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
)

// Environment keys read by Load.
const (
	KeyAPIURL          = "ACCOUNT_API_URL"
	KeyRequestTimeout  = "ACCOUNT_REQUEST_TIMEOUT"
	KeyAutofillRecheck = "ACCOUNT_AUTOFILL_RECHECK"
	KeyListenAddr      = "ACCOUNTD_ADDR"
	KeyLogFormat       = "LOG_FORMAT"
	KeyLogLevel        = "LOG_LEVEL"
)

// Defaults applied when neither the .env file nor the environment set a key.
const (
	DefaultAPIURL          = "http://localhost:8000"
	DefaultRequestTimeout  = 30 * time.Second
	DefaultAutofillRecheck = 80 * time.Millisecond
	DefaultListenAddr      = ":8000"
)

// Provider is the read-only view of the configuration handed to components.
type Provider interface {
	GetAPIBaseURL() string
	GetRequestTimeout() time.Duration
	GetAutofillRecheck() time.Duration
	GetListenAddr() string
	GetLogFormat() string
	GetLogLevel() string
}

// Config holds all configuration for the client and the reference server.
type Config struct {
	APIBaseURL      string
	RequestTimeout  time.Duration
	AutofillRecheck time.Duration
	ListenAddr      string
	LogFormat       string
	LogLevel        string
}

// New loads configuration from ./.env (if present) and the process environment.
func New() (*Config, error) {
	return Load(afero.NewOsFs(), ".env")
}

// Load reads the dotenv file at path from fsys, then overlays the process
// environment. A missing file is not an error.
func Load(fsys afero.Fs, path string) (*Config, error) {
	values := map[string]string{}

	f, err := fsys.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		values, err = godotenv.Parse(f)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		slog.Debug("No .env file found, relying on environment variables", "path", path)
	default:
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	// Empty environment values count as unset so the file can still supply them.
	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v
		}
		return values[key]
	}

	cfg := &Config{
		APIBaseURL:      orDefault(lookup(KeyAPIURL), DefaultAPIURL),
		RequestTimeout:  DefaultRequestTimeout,
		AutofillRecheck: DefaultAutofillRecheck,
		ListenAddr:      orDefault(lookup(KeyListenAddr), DefaultListenAddr),
		LogFormat:       orDefault(lookup(KeyLogFormat), "text"),
		LogLevel:        orDefault(lookup(KeyLogLevel), "info"),
	}

	if cfg.RequestTimeout, err = parseDuration(KeyRequestTimeout, lookup(KeyRequestTimeout), DefaultRequestTimeout); err != nil {
		return nil, err
	}
	if cfg.AutofillRecheck, err = parseDuration(KeyAutofillRecheck, lookup(KeyAutofillRecheck), DefaultAutofillRecheck); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that would otherwise fail late, on first use.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL, got %q", KeyAPIURL, c.APIBaseURL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%s must be positive", KeyRequestTimeout)
	}
	if c.AutofillRecheck < 0 {
		return fmt.Errorf("%s must not be negative", KeyAutofillRecheck)
	}
	return nil
}

func parseDuration(key, raw string, def time.Duration) (time.Duration, error) {
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func (c *Config) GetAPIBaseURL() string             { return c.APIBaseURL }
func (c *Config) GetRequestTimeout() time.Duration  { return c.RequestTimeout }
func (c *Config) GetAutofillRecheck() time.Duration { return c.AutofillRecheck }
func (c *Config) GetListenAddr() string             { return c.ListenAddr }
func (c *Config) GetLogFormat() string              { return c.LogFormat }
func (c *Config) GetLogLevel() string               { return c.LogLevel }
