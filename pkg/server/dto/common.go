// Package dto defines the request and response shapes of the HTTP API.
package dto

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// StatusResponse acknowledges an operation that returns no payload.
type StatusResponse struct {
	Status string `json:"status"`
}
