package api

import "encoding/json"

// genericErrorMessage is used when the backend's error body carries no
// parseable detail.
const genericErrorMessage = "An error occurred"

// Error is the single error kind every failed backend call surfaces as:
// transport failures, non-2xx responses and malformed 2xx bodies all arrive
// here with a human-readable Message. Callers never need to distinguish the
// cases; the message is fit for direct display.
type Error struct {
	Message string
	Status  int // HTTP status, 0 for transport failures
	cause   error
}

func (e *Error) Error() string { return e.Message }

// Unwrap exposes the underlying transport or decode error, when there is one.
func (e *Error) Unwrap() error { return e.cause }

// errorBody is the backend's structured error payload.
type errorBody struct {
	Detail string `json:"detail"`
}

// newStatusError builds an Error from a non-2xx response body. A body that
// is not `{"detail": ...}` falls back to the generic message.
func newStatusError(status int, raw []byte) *Error {
	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil && body.Detail != "" {
		return &Error{Message: body.Detail, Status: status}
	}
	return &Error{Message: genericErrorMessage, Status: status}
}
