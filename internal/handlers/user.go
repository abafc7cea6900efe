package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/accountdesk/internal/domain"
	"github.com/nfrund/accountdesk/internal/middleware"
)

// Detail texts returned to clients.
const (
	detailUserExists   = "User already Exists."
	detailUserNotFound = "User not Found."
	detailInvalidLogin = "Invalid ID/PW"
	detailMalformed    = "Malformed request body."
)

// AccountService is the set of account use cases the handler needs.
type AccountService interface {
	Register(ctx context.Context, email, password, username string) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	ChangePassword(ctx context.Context, email, newPassword string) (*domain.User, error)
	Remove(ctx context.Context, email string) (*domain.User, error)
}

// UserHandler serves /api/user/*.
type UserHandler struct {
	accounts AccountService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(accounts AccountService) *UserHandler {
	return &UserHandler{accounts: accounts}
}

// Login handles POST /api/user/login.
func (h *UserHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.accounts.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		middleware.FromContext(c.Request().Context()).Warn("Failed login attempt", "email", req.Email, "error", err)
		return userError(err, http.StatusBadRequest)
	}
	return c.JSON(http.StatusOK, success(user, "Login Success."))
}

// Register handles POST /api/user/register.
func (h *UserHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.accounts.Register(c.Request().Context(), req.Email, req.Password, req.Username)
	if err != nil {
		return userError(err, http.StatusBadRequest)
	}
	middleware.FromContext(c.Request().Context()).Info("User registered", "email", user.Email)
	return c.JSON(http.StatusCreated, success(user, "User registration success."))
}

// UpdatePassword handles PUT /api/user/update-password.
func (h *UserHandler) UpdatePassword(c echo.Context) error {
	var req UpdatePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.accounts.ChangePassword(c.Request().Context(), req.Email, req.NewPassword)
	if err != nil {
		return userError(err, http.StatusNotFound)
	}
	return c.JSON(http.StatusOK, success(user, "User password update success."))
}

// Delete handles DELETE /api/user/delete.
func (h *UserHandler) Delete(c echo.Context) error {
	var req DeleteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.accounts.Remove(c.Request().Context(), req.Email)
	if err != nil {
		return userError(err, http.StatusNotFound)
	}
	middleware.FromContext(c.Request().Context()).Info("User deleted", "email", user.Email)
	return c.JSON(http.StatusOK, success(user, "User Deletion Success."))
}

// bindAndValidate decodes the JSON body into req. A malformed body is a 400
// and a body that fails validation a 422 with a list-shaped detail.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, detailMalformed).SetInternal(err)
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, validationIssues(err)).SetInternal(err)
	}
	return nil
}

// userError maps a domain error to an HTTP error carrying the client-facing
// detail. Unknown errors are passed through to the server's error handler.
func userError(err error, status int) error {
	switch {
	case errors.Is(err, domain.ErrUserAlreadyExists):
		return echo.NewHTTPError(status, detailUserExists)
	case errors.Is(err, domain.ErrUserNotFound):
		return echo.NewHTTPError(status, detailUserNotFound)
	case errors.Is(err, domain.ErrInvalidCredentials):
		return echo.NewHTTPError(status, detailInvalidLogin)
	default:
		return err
	}
}
