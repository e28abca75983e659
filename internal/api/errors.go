// internal/api/errors.go
package api

import (
	"context"
	"errors"
	"fmt"
)

const (
	// UnknownErrorCode is used when a failure carries no structured payload
	UnknownErrorCode = "UNKNOWN_ERROR"
	// UnknownErrorMessage is the generic message paired with UnknownErrorCode
	UnknownErrorMessage = "An unexpected error occurred"
	// TimeoutErrorCode marks a request abandoned locally at its deadline
	TimeoutErrorCode = "REQUEST_TIMEOUT"
)

// Error is a non-2xx backend response
type Error struct {
	StatusCode int
	Code       string
	Message    string
	Hint       string
	// Body is the raw response when it carried no structured payload
	Body string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("backend error %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	if e.Message != "" {
		return fmt.Sprintf("backend error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend error %d: %s", e.StatusCode, e.Body)
}

// TransportError wraps failures that never produced a backend payload
type TransportError struct {
	Op         string
	Underlying error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Underlying)
}

func (e *TransportError) Unwrap() error {
	return e.Underlying
}

// WrapTransportError creates a TransportError from underlying error
func WrapTransportError(op string, err error) error {
	return &TransportError{Op: op, Underlying: err}
}

// Normalize converts any failure into its display form.
// Missing fields fall back to UNKNOWN_ERROR and a generic message.
func Normalize(err error) *QueryError {
	qe := &QueryError{Code: UnknownErrorCode, Message: UnknownErrorMessage}
	if err == nil {
		return qe
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		if apiErr.Code != "" {
			qe.Code = apiErr.Code
		}
		if apiErr.Message != "" {
			qe.Message = apiErr.Message
		}
		qe.Hint = apiErr.Hint
		return qe
	}

	var queryErr *QueryError
	if errors.As(err, &queryErr) {
		if queryErr.Code != "" {
			qe.Code = queryErr.Code
		}
		if queryErr.Message != "" {
			qe.Message = queryErr.Message
		}
		qe.Hint = queryErr.Hint
		return qe
	}

	if errors.Is(err, context.DeadlineExceeded) {
		qe.Code = TimeoutErrorCode
		qe.Message = "The service did not answer before the local deadline"
		qe.Hint = "The query may still be running on the server. Raise the timeout in the options."
	}
	return qe
}

// Message returns the backend-supplied message of err, or fallback
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
