package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrTransport wraps failures where no HTTP response was obtained.
	ErrTransport = errors.New("could not reach the server")

	// ErrMalformedResponse indicates a 2xx response whose body could not be decoded.
	ErrMalformedResponse = errors.New("malformed response from server")
)

// APIError is a non-2xx response. Detail is the human-readable message the
// server sent, or a generic fallback when it sent none.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return e.Detail
}

// errorBody is the error payload: detail is a string, or a list of
// {loc, msg, type} objects for request validation failures.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type validationIssue struct {
	Msg string `json:"msg"`
}

// decodeAPIError builds an APIError from a non-2xx status and its body.
func decodeAPIError(status int, body []byte) *APIError {
	return &APIError{StatusCode: status, Detail: detailFrom(status, body)}
}

func detailFrom(status int, body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && len(eb.Detail) > 0 {
		var s string
		if err := json.Unmarshal(eb.Detail, &s); err == nil && s != "" {
			return s
		}
		var issues []validationIssue
		if err := json.Unmarshal(eb.Detail, &issues); err == nil {
			msgs := make([]string, 0, len(issues))
			for _, issue := range issues {
				if issue.Msg != "" {
					msgs = append(msgs, issue.Msg)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
	}
	return fallbackDetail(status)
}

func fallbackDetail(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return fmt.Sprintf("request failed: status %d", status)
	}
	return "request failed: " + text
}
