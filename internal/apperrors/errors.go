package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the caller is not allowed to perform the operation.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidDelta indicates a ledger entry with a zero delta was requested.
var ErrInvalidDelta = errors.New("ledger delta must be non-zero")

// ErrInsufficientBalance indicates a debit would drive the account balance below zero.
var ErrInsufficientBalance = errors.New("insufficient coin balance")

// ErrNotEligible indicates the actor's profile is not approved for the attempted action.
var ErrNotEligible = errors.New("profile not approved for this action")

// ErrInvalidTarget indicates a connection request aimed at an invalid target,
// e.g. the requester themselves or a non-approved member.
var ErrInvalidTarget = errors.New("invalid connection target")

// ErrAlreadyDecided indicates the subject is already in a terminal status.
var ErrAlreadyDecided = errors.New("subject already decided")

// ErrNotOwner indicates the requester does not own the subject.
var ErrNotOwner = errors.New("requester does not own the subject")

// ErrDomainEffect indicates the domain write of a gated action failed; the
// whole atomic unit, including the debit, has been rolled back.
var ErrDomainEffect = errors.New("domain effect failed")

// ErrRefundIntegrity indicates the one-shot refund guard was bypassed or a
// duplicate refund was attempted. This is an integrity fault, not a user
// error: it is logged distinctly and excluded from retry paths.
var ErrRefundIntegrity = errors.New("refund integrity violation")

// AppError wraps a lower-level failure with an HTTP-ish code and a message
// safe to surface.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that satisfies errors.Is(err, ErrNotFound).
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}
