package domain

import "errors"

var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrEmptyCart    = errors.New("cart is empty")
	ErrUnauthorized = errors.New("missing credentials")
	ErrForbidden    = errors.New("forbidden")
)
