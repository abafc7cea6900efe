package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/accountdesk/internal/handlers"
	"github.com/nfrund/accountdesk/internal/middleware"
)

// RegisterRoutes sets up all the application routes.
func (s *Server) RegisterRoutes() {
	userHandler := handlers.NewUserHandler(s.accounts)

	var limited []echo.MiddlewareFunc
	if s.rateLimit > 0 {
		limited = append(limited, middleware.RateLimiter(s.rateLimit))
	}

	user := s.E.Group("/api/user")
	user.POST("/login", userHandler.Login, limited...)
	user.POST("/register", userHandler.Register, limited...)
	user.PUT("/update-password", userHandler.UpdatePassword)
	user.DELETE("/delete", userHandler.Delete)

	s.E.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
}
