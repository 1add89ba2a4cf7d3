package client

import (
	"fmt"

	"github.com/dmitrijs2005/snappy/internal/common"
)

var (
	ErrUnavailable       = fmt.Errorf("server unavailable: %w", common.ErrNetwork)
	ErrUnexpectedStatus  = fmt.Errorf("unexpected status: %w", common.ErrNetwork)
	ErrMalformedResponse = fmt.Errorf("malformed response: %w", common.ErrNetwork)
	ErrRejected          = fmt.Errorf("request rejected: %w", common.ErrRemoteRejection)
)

// StatusError is returned for non-2xx responses. It matches
// ErrUnexpectedStatus (and therefore common.ErrNetwork) with errors.Is.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected %d response from %s %s: %s", e.StatusCode, e.Method, e.Path, e.Body)
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}
