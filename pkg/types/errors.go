package types

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized means the credential is missing or invalid.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden means the caller is authenticated but not permitted.
	ErrForbidden = errors.New("forbidden")

	ErrAccountNotFound = errors.New("account not found")
	ErrRequestNotFound = errors.New("donation request not found")
	ErrFundNotFound    = errors.New("fund record not found")

	ErrInvalidInput = errors.New("invalid input")

	// ErrBlockedAccount means the acting account is suspended.
	ErrBlockedAccount = errors.New("account is blocked")

	// ErrInvalidTransition means the requested status change is not in
	// the lifecycle table.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// InvalidInput wraps ErrInvalidInput with the validation reason.
func InvalidInput(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}
