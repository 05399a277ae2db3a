package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized matches any RemoteError carrying a 401
	ErrUnauthorized = errors.New("unauthorized")

	// ErrOperationNotSupported is returned without a network call for endpoints the backend does not expose
	ErrOperationNotSupported = errors.New("operation not supported")
)

// RemoteError is a failed backend call: a 4xx/5xx answer or a transport failure (StatusCode 0)
type RemoteError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *RemoteError) Error() string {
	switch {
	case e.StatusCode == 0:
		return fmt.Sprintf("backend unreachable: %v", e.Err)
	case e.Message != "":
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("backend returned %d", e.StatusCode)
	}
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

func (e *RemoteError) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// MessageOr returns the backend's message when it sent one, otherwise fallback
func MessageOr(err error, fallback string) string {
	var remote *RemoteError
	if errors.As(err, &remote) && remote.Message != "" {
		return remote.Message
	}
	return fallback
}
