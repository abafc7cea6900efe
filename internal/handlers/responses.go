package handlers

import "github.com/nfrund/accountdesk/internal/domain"

// ErrorResponse is the standard format for API error responses. Detail is
// a string, or a []ValidationIssue for request validation failures.
type ErrorResponse struct {
	Detail any `json:"detail"`
}

// UserData is the public view of a user.
type UserData struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

// BaseResponse wraps every successful response.
type BaseResponse struct {
	Status  string   `json:"status"`
	Data    UserData `json:"data"`
	Message string   `json:"message"`
}

func success(user *domain.User, message string) BaseResponse {
	return BaseResponse{
		Status:  "success",
		Data:    UserData{Email: user.Email, Username: user.Username},
		Message: message,
	}
}
