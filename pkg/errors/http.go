package errors

import "net/http"

// HTTPError is an error rendered to clients with its own code and status.
type HTTPError struct {
	Code       int
	Message    string
	StatusCode int
}

// NewHTTPError returns a new HTTPError. A zero statusCode defaults to 400.
func NewHTTPError(code int, message string, statusCode int) *HTTPError {
	if statusCode == 0 {
		statusCode = http.StatusBadRequest
	}
	return &HTTPError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

func NewNotFoundHTTPError(code int, message string) *HTTPError {
	return NewHTTPError(code, message, http.StatusNotFound)
}

func (e *HTTPError) Error() string {
	return e.Message
}
