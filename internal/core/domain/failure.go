package domain

import (
	"errors"
	"fmt"
)

// FailureKind classifies why a request to the remote API did not succeed.
type FailureKind string

const (
	// FailureNetwork: no structured response was available.
	FailureNetwork FailureKind = "network"
	// FailureRejected: the API answered with an error status.
	FailureRejected FailureKind = "rejected"
	// FailureValidation: the input was refused before any network call.
	FailureValidation FailureKind = "validation"
)

// Failure is the single error shape returned by the API gateway and by the
// controllers' local checks.
type Failure struct {
	Kind    FailureKind
	Message string
	// Status is the HTTP status of a rejected request, zero otherwise.
	Status int
	Err    error
}

func (f *Failure) Error() string {
	switch {
	case f.Status != 0 && f.Message != "":
		return fmt.Sprintf("%s (%d): %s", f.Kind, f.Status, f.Message)
	case f.Status != 0:
		return fmt.Sprintf("%s (%d)", f.Kind, f.Status)
	case f.Message != "":
		return fmt.Sprintf("%s: %s", f.Kind, f.Message)
	case f.Err != nil:
		return fmt.Sprintf("%s: %v", f.Kind, f.Err)
	default:
		return string(f.Kind)
	}
}

func (f *Failure) Unwrap() error { return f.Err }

// Invalid builds a local validation failure.
func Invalid(message string) *Failure {
	return &Failure{Kind: FailureValidation, Message: message}
}

// Rejected builds a failure for an error status returned by the API.
func Rejected(status int, message string) *Failure {
	return &Failure{Kind: FailureRejected, Status: status, Message: message}
}

// Unreachable wraps a transport-level error.
func Unreachable(err error) *Failure {
	return &Failure{Kind: FailureNetwork, Err: err}
}

// AsFailure extracts a *Failure from err's chain.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// IsKind reports whether err is a Failure of the given kind.
func IsKind(err error, kind FailureKind) bool {
	f, ok := AsFailure(err)
	return ok && f.Kind == kind
}

// UserMessage picks the text shown to the operator: the server's or the
// local check's message when there is one, fallback otherwise.
func UserMessage(err error, fallback string) string {
	f, ok := AsFailure(err)
	if !ok || f.Kind == FailureNetwork || f.Message == "" {
		return fallback
	}
	return f.Message
}
