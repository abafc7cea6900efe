package server

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/nfrund/accountdesk/internal/database"
	"github.com/nfrund/accountdesk/internal/handlers"
	"github.com/nfrund/accountdesk/internal/middleware"
	"golang.org/x/time/rate"
)

// defaultRateLimit is the per-IP request rate for login and register.
const defaultRateLimit rate.Limit = 10

// Server holds the dependencies for the HTTP server.
type Server struct {
	E         *echo.Echo
	accounts  handlers.AccountService
	rateLimit rate.Limit
	logger    *slog.Logger
}

// Option is a function that configures a Server.
type Option func(*Server)

// WithAccounts replaces the account service. The default is an in-memory
// store with bcrypt hashing.
func WithAccounts(accounts handlers.AccountService) Option {
	return func(s *Server) {
		s.accounts = accounts
	}
}

// WithRateLimit sets the per-IP rate for login and register. Zero disables it.
func WithRateLimit(limit rate.Limit) Option {
	return func(s *Server) {
		s.rateLimit = limit
	}
}

// WithLogger sets the logger used for request logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates a new Server instance with its middleware and routes registered.
func New(opts ...Option) *Server {
	s := &Server{
		rateLimit: defaultRateLimit,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.accounts == nil {
		s.accounts = database.NewAccounts(database.NewUserStore())
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewValidator()
	setupErrorHandling(e)

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.Logger(s.logger))
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			middleware.FromContext(c.Request().Context()).Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"remote_ip", v.RemoteIP,
			)
			return nil
		},
	}))
	e.Use(echomw.Recover())

	s.E = e
	s.RegisterRoutes()
	return s
}
