package safestreet

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// APIError is the typed form of a backend failure payload. The server is not
// consistent about its error shape — the human-readable text may live under
// "message" or "error", or be absent entirely — so construction tries each
// known field in order and falls back to a generic message.
type APIError struct {
	// Status is the HTTP status code of the failed response.
	Status int
	// Message is the extracted human-readable text.
	Message string
	// Path is the request path that failed.
	Path string

	sentinel error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("safestreet: %s (status %d, path %s)", e.Message, e.Status, e.Path)
}

// Unwrap exposes the sentinel classification so callers can use errors.Is
// against [ErrAccessDenied], [ErrSessionExpired], or [ErrRequestFailed].
func (e *APIError) Unwrap() error {
	return e.sentinel
}

// errorBody covers the known server error payload shapes.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// extractMessage pulls the first non-empty known field out of the response
// body, falling back to a status-derived generic message.
func extractMessage(body []byte, status int) string {
	var payload errorBody
	if len(body) > 0 && json.Unmarshal(body, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return "request failed"
}

func newAPIError(status int, body []byte, path string) *APIError {
	sentinel := ErrRequestFailed
	switch status {
	case http.StatusUnauthorized:
		sentinel = ErrAuthenticationRequired
	case http.StatusForbidden:
		sentinel = ErrAccessDenied
	}
	return &APIError{
		Status:   status,
		Message:  extractMessage(body, status),
		Path:     path,
		sentinel: sentinel,
	}
}
