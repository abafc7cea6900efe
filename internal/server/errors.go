package server

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/accountdesk/internal/handlers"
	"github.com/nfrund/accountdesk/internal/middleware"
)

// setupErrorHandling installs an error handler that answers with the
// {"detail": ...} payload clients expect. Errors that are not
// *echo.HTTPError are logged with a stack trace and become a 500.
func setupErrorHandling(e *echo.Echo) {
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		logger := middleware.FromContext(c.Request().Context())

		code := http.StatusInternalServerError
		var detail any = http.StatusText(code)

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			detail = he.Message
			if he.Internal != nil {
				logger.Debug("Request rejected", "status", code, "error", he.Internal)
			}
		} else {
			logger.Error("Internal Server Error (Unhandled)",
				"error", err,
				"path", c.Path(),
				"stack_trace", string(debug.Stack()),
			)
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(code)
		} else {
			werr = c.JSON(code, handlers.ErrorResponse{Detail: detail})
		}
		if werr != nil {
			logger.Error("Failed to write error response", "error", werr)
		}
	}
}
