// Package common defines shared constants and sentinel errors used across
// the Snappy client layers. Callers should use errors.Is to match these
// values, and KindOf to map an arbitrary error onto the failure taxonomy.
package common

import "errors"

var (
	// ErrStorageCorrupt marks a stored identity record that could not be
	// decoded or violates the record invariants. It is always recovered
	// locally by treating the record as absent.
	ErrStorageCorrupt = errors.New("storage corrupt")

	// ErrNetwork marks a request that failed to complete: transport error,
	// timeout or non-success status.
	ErrNetwork = errors.New("network failure")

	// ErrValidation marks an operation rejected locally because a
	// precondition was not satisfied. It never reaches the network layer.
	ErrValidation = errors.New("validation failure")

	// ErrRemoteRejection marks a request the remote side answered but declined.
	ErrRemoteRejection = errors.New("remote rejection")
)

// Kind is a coarse failure class used for reporting.
type Kind string

const (
	KindNone            Kind = ""
	KindStorageCorrupt  Kind = "storage_corrupt"
	KindNetworkFailure  Kind = "network_failure"
	KindValidation      Kind = "validation_failure"
	KindRemoteRejection Kind = "remote_rejection"
	KindInternal        Kind = "internal"
)

// Severity is the level attached to a user-visible notification.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// KindOf classifies err. Unknown non-nil errors are KindInternal.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrStorageCorrupt):
		return KindStorageCorrupt
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrRemoteRejection):
		return KindRemoteRejection
	case errors.Is(err, ErrNetwork):
		return KindNetworkFailure
	default:
		return KindInternal
	}
}

// Severity returns the notification severity for failures of kind k.
func (k Kind) Severity() Severity {
	switch k {
	case KindNone:
		return SeverityInfo
	case KindValidation, KindStorageCorrupt:
		return SeverityWarning
	default:
		return SeverityError
	}
}
