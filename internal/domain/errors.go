package domain

import "errors"

// Generic sentinels. Services wrap them with %w; the HTTP layer maps them to
// status codes with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
)

// Login failures. Both surface to clients as the same 401.
var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidSecondFactor = errors.New("invalid second factor")
)

// KYC review failures.
var (
	ErrDocumentNotFound   = errors.New("kyc document not found")
	ErrAlreadyReviewed    = errors.New("kyc document already reviewed")
	ErrTransactionFailure = errors.New("transaction failure")
)
