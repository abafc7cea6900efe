package account

import (
	"errors"
	"fmt"

	"github.com/nfrund/accountdesk/internal/apiclient"
)

// Level classifies a user-visible notice.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notice is a message shown to the user.
type Notice struct {
	Op    Operation `json:"op"`
	Level Level     `json:"level"`
	Text  string    `json:"text"`
}

// Notice texts.
const (
	msgNoSession       = "No user is logged in."
	msgLoggedIn        = "Welcome back, %s"
	msgRegistered      = "Registration successful! Welcome, %s."
	msgPasswordUpdated = "Password successfully updated!"
	msgDeleted         = "User deleted successfully!"
	msgPending         = "%s is already in progress."
	msgFailed          = "%s failed: %s"
)

// failureText renders the notice for a failed exchange: the server's detail
// verbatim for rejections, a generic line for transport failures.
func failureText(op Operation, err error) string {
	var apiErr *apiclient.APIError
	switch {
	case errors.As(err, &apiErr):
		return fmt.Sprintf(msgFailed, op.Title(), apiErr.Detail)
	case errors.Is(err, apiclient.ErrTransport):
		return fmt.Sprintf(msgFailed, op.Title(), "could not reach the server.")
	default:
		return fmt.Sprintf(msgFailed, op.Title(), "unexpected error.")
	}
}
