package dispatch

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// HTTPError is an error with the status code it is written with.
type HTTPError struct {
	// Err is the underlying error. It is logged, never written.
	Err error

	// Message is the user-facing error message.
	Message string

	// Route is the action that failed, when known.
	Route string

	// Code is the HTTP status code.
	Code int
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func (e *HTTPError) StatusCode() int {
	return e.Code
}

func (e *HTTPError) StatusText() string {
	return http.StatusText(e.Code)
}

// HTTPErrorOption configures an HTTPError.
type HTTPErrorOption func(*HTTPError)

// NewHTTPError creates a new HTTPError with the given status code and message.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	e := &HTTPError{Code: code, Message: message}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func WithError(err error) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Err = err
	}
}

func WithRoute(name string) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Route = name
	}
}

func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, message, opts...)
}

func ErrUnauthorized(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusUnauthorized, message, opts...)
}

func ErrForbidden(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusForbidden, message, opts...)
}

func ErrInternal(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, message, opts...)
}

// AsHTTPError extracts the HTTPError from err, unwrapping as needed.
func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	if errors.As(err, &he) {
		return he, true
	}
	return nil, false
}

// PanicError represents a recovered panic.
type PanicError struct {
	Value any    // The panic value
	Stack []byte // Stack trace (nil if disabled)
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// ErrorHandler writes the response of a failed request.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteError is the default ErrorHandler. It writes a JSON body with the status of an
// HTTPError, or 500 for any other error.
func WriteError(w http.ResponseWriter, _ *http.Request, err error) {
	he, ok := AsHTTPError(err)
	if !ok {
		he = ErrInternal(http.StatusText(http.StatusInternalServerError), WithError(err))
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(he.Code)
	_ = json.NewEncoder(w).Encode(errorBody{Error: he.StatusText(), Message: he.Message})
}
