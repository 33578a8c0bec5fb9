package domain

import "errors"

// Error taxonomy shared by every layer.
// Repositories wrap ErrNotFound / ErrConflict, use cases wrap ErrValidation,
// and the transport layer maps each family to a response status.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrInternal   = errors.New("internal failure")
)

// Specific validation failures. Each one wraps ErrValidation so callers can
// match either the family or the exact cause with errors.Is.
var (
	ErrInvalidTaxID          = validationError("invalid tax id")
	ErrInvalidInvestmentType = validationError("invalid investment type")
	ErrInvalidDate           = validationError("invalid date, expected dd-mm-yyyy")
	ErrEmptyInvestmentList   = validationError("investment list must not be empty")
	ErrAmountOutOfRange      = validationError("amount out of range")
)

type kindError struct {
	msg  string
	kind error
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

func validationError(msg string) error {
	return &kindError{msg: msg, kind: ErrValidation}
}
