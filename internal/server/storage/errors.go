package storage

import "errors"

// Common storage errors
var (
	// ErrItemNotFound indicates that the review item was not found
	ErrItemNotFound = errors.New("item not found")
)
