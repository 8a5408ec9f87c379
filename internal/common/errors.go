// Package common holds error values and small helpers shared between the
// client coordinator and the dev ledger service.
package common

import "errors"

var (
	// validation errors: the caller must correct the input, never retried
	ErrInvalidAmount = errors.New("invalid amount")
	ErrValidation    = errors.New("validation error")

	// authorization errors
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrStakeRequired    = errors.New("stake required")

	// state errors: operation illegal in the campaign's current status
	ErrWrongState = errors.New("wrong campaign state")

	// transfer errors
	ErrTransferInProgress = errors.New("transfer already in progress")
	ErrIncompleteTransfer = errors.New("incomplete transfer")

	ErrNotFound = errors.New("not found")
)

// RemoteError wraps a transport or service-level failure. The client does
// not classify remote failures further and never retries them.
type RemoteError struct {
	Cause error
}

func (e *RemoteError) Error() string {
	return "remote failure: " + e.Cause.Error()
}

func (e *RemoteError) Unwrap() error {
	return e.Cause
}

// Remote wraps err in a *RemoteError, or returns nil for a nil err.
func Remote(err error) error {
	if err == nil {
		return nil
	}
	return &RemoteError{Cause: err}
}
