package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrProviderFailure     = errors.New("provider failure")
)
