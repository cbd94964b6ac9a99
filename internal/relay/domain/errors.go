package domain

import "errors"

var (
	ErrAmountRequired     = errors.New("Amount is required")
	ErrMissingPaymentData = errors.New("Missing payment data")
	ErrOrderNotFound      = errors.New("order not found")
	ErrAlreadyPaid        = errors.New("order already paid")
	ErrBadSignature       = errors.New("invalid payment signature")
	ErrDuplicateRequest   = errors.New("duplicate request")
)
