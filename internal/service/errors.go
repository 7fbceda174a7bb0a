// Package service provides business logic for the application.
package service

import "errors"

// Service errors. Storage errors from the model package (not found,
// duplicate key, dangling reference, unsupported) pass through unchanged.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrImageIO      = errors.New("image storage failure")
)
