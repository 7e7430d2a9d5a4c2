package model

// FieldError describes a single rejected field in a request.
type FieldError struct {
	Message string `json:"message"`
	Code    int    `json:"code,omitempty"`
}

// FieldErrors maps a dot separated field path to its error.
type FieldErrors map[string]FieldError

// ErrorResponse is the error envelope sent to clients.
type ErrorResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Errors  FieldErrors `json:"errors,omitempty"`
}

// Envelope statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Generic messages shared by the API.
const (
	MsgUnauthorized        = "User doesn't have permissions to perform this action."
	MsgUnauthenticated     = "Authentication required. Sign in again to continue."
	MsgBadRequest          = "The API request is malformed or invalid"
	MsgResourceNotFound    = "Resource could not be found."
	MsgInternalServerError = "Internal Server Error."
	MsgValidationFailed    = "Request parameters didn't match the expected format."
	MsgNonExistentUser     = "No user with the given username or id exists"
	MsgMismatchingLogin    = "password or email fields incorrect/don't match."
	MsgTooManyRequests     = "Too many requests, try again later."
)
