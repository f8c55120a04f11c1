package domain

import "errors"

// Authentication errors
var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotVerified        = errors.New("account not verified")
	ErrAlreadyVerified    = errors.New("account already verified")
	ErrInvalidCode        = errors.New("incorrect verification code")
	ErrCodeExpired        = errors.New("verification code expired")
	ErrWrongAnswer        = errors.New("incorrect secret answer")
	ErrInvalidToken       = errors.New("invalid token")
)

// Validation and delivery errors
var (
	ErrValidation = errors.New("missing or invalid fields")
	ErrDelivery   = errors.New("failed to deliver verification code")
)
