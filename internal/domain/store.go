package domain

// PostStore handles the local post cache (BoltDB + memory).
// Entries are keyed by the exact normalized source and hold the raw
// response body so a cache hit decodes exactly what the server sent.
type PostStore interface {
	// === Posts ===
	GetPosts(source string) ([]byte, bool)
	SavePosts(source string, raw []byte) error

	// === Source history ===
	RecentSources() []string
	TouchSource(source string) error

	// === Invalidation ===
	InvalidateSource(source string)
	InvalidateAll()

	Close() error
}
