package model

import "errors"

// Storage errors shared by the datastore and every repository backed by it.
var (
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrNotFound          = errors.New("not found")
	ErrDanglingReference = errors.New("dangling reference")
	ErrUnsupported       = errors.New("operation not supported")
)
