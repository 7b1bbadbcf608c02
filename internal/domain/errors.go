package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthenticated means no session exists; nothing was sent.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrSessionExpired means the service rejected the bearer token and the
	// local session has been ended.
	ErrSessionExpired = errors.New("session expired")
	// ErrNetwork classifies failures where no response was received.
	ErrNetwork = errors.New("network error")
	// ErrStorageUnavailable classifies credential store read/write failures.
	ErrStorageUnavailable = errors.New("credential storage unavailable")

	// ErrEmptyToken is returned when asked to establish a session without a token.
	ErrEmptyToken = errors.New("empty session token")
	// ErrMissingToken is returned when a login response carries no token.
	ErrMissingToken = errors.New("login response carried no token")
	// ErrMalformedResponse is returned when a success body is not valid JSON.
	ErrMalformedResponse = errors.New("malformed response body")
)

// NetworkError wraps a transport failure. The session is left untouched and
// the call may be retried.
type NetworkError struct {
	Method   string
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Endpoint, e.Err)
}

// Unwrap exposes the cause (for example context.Canceled).
func (e *NetworkError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrNetwork) match.
func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// RequestFailedError is any non-success response other than an
// authorization failure on a protected call.
type RequestFailedError struct {
	StatusCode int
	Message    string
}

func (e *RequestFailedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("request failed (%d): %s", e.StatusCode, e.Message)
}

// RequiresLogin reports whether err should send the user back to the login
// entry point.
func RequiresLogin(err error) bool {
	return errors.Is(err, ErrSessionExpired) || errors.Is(err, ErrUnauthenticated)
}
