package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrMissingSKU is returned when a block configuration carries no sku.
	ErrMissingSKU = errors.New("sku required")
	// ErrInvalidTheme marks a theme outside the supported set.
	ErrInvalidTheme = errors.New("invalid theme")
)
