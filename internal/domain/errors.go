package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrFetchFailure indicates posts could not be fetched or decoded
	ErrFetchFailure = errors.New("failed to fetch posts")

	// ErrServerOffline indicates the content source is unreachable
	ErrServerOffline = errors.New("content source is unreachable")

	// ErrInvalidConfiguration indicates a deck was configured with missing or bad options
	ErrInvalidConfiguration = errors.New("invalid slideshow configuration")

	// ErrEmptyResultSet indicates the source returned zero posts
	ErrEmptyResultSet = errors.New("source returned no posts")
)
