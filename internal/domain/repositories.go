package domain

import "context"

// PostRepository fetches post listings from a content source over the network
type PostRepository interface {
	// FetchPosts returns the raw JSON post list served by source.
	// source must already be normalized.
	FetchPosts(ctx context.Context, source string) ([]byte, error)
}
