package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrItemNotFound indicates the requested media item does not exist
	ErrItemNotFound = errors.New("media item not found")

	// ErrLibraryUnreadable indicates the library source could not be parsed
	ErrLibraryUnreadable = errors.New("library source is unreadable")

	// ErrStoreClosed indicates a read or write against a closed store
	ErrStoreClosed = errors.New("store is closed")
)
