package services

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/snappy/internal/common"
)

var (
	ErrNoSelection     = fmt.Errorf("no avatar selected: %w", common.ErrValidation)
	ErrIndexOutOfRange = fmt.Errorf("index out of range: %w", common.ErrValidation)
	ErrAvatarRejected  = fmt.Errorf("avatar not accepted: %w", common.ErrRemoteRejection)

	// ErrNotReady is returned when an operation is issued in a state that
	// does not allow it, e.g. a roster load without a Ready decision.
	ErrNotReady = errors.New("operation not allowed in current state")

	// ErrStaleView is returned when a result arrived after its screen was
	// left or re-entered; the result was discarded.
	ErrStaleView = errors.New("view no longer active")

	// ErrSubmissionInFlight is returned by Start while an avatar submission
	// is still outstanding.
	ErrSubmissionInFlight = errors.New("avatar submission in flight")
)
