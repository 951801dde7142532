// File: internal/api/responses.go
package api

import "messenger-user-management/internal/model"

// ErrorResponse is the body of every failed request.
// swagger:model api.ErrorResponse
type ErrorResponse struct {
	Error string `json:"error" example:"user already exists"`
}

// UserResponse wraps the password-stripped user projection returned by the
// create and get endpoints.
// swagger:model api.UserResponse
type UserResponse struct {
	User model.UserInfo `json:"user"`
}
