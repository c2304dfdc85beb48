package core

import "errors"

// Common errors.
var (
	ErrNotFound  = errors.New("note not found")
	ErrCancelled = errors.New("prompt cancelled")
	ErrReadOnly  = errors.New("store is in read-only mode")
)
