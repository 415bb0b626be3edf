package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mmcdole/postdeck/internal/domain"
	"github.com/mmcdole/postdeck/internal/wordpress"
)

// LoadResult is the outcome of resolving a source to its posts
type LoadResult struct {
	Source    string // normalized source the posts belong to
	Posts     []domain.Post
	FromCache bool
}

// LoaderOptions tunes cache behavior
type LoaderOptions struct {
	// ClearOnLoad wipes the whole cache before every lookup, so nothing is
	// ever served from cache. Off by default.
	ClearOnLoad bool
}

// Loader resolves a source identifier to posts, cache first.
type Loader struct {
	repo   domain.PostRepository
	store  domain.PostStore
	opts   LoaderOptions
	logger *slog.Logger
}

// NewLoader creates a new content loader
func NewLoader(repo domain.PostRepository, store domain.PostStore, opts LoaderOptions, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		repo:   repo,
		store:  store,
		opts:   opts,
		logger: logger,
	}
}

// Load returns the ordered posts for source. A cached response for the exact
// normalized source is used when present; otherwise a single request is made
// and its raw body stored before decoding.
func (l *Loader) Load(ctx context.Context, source string) (LoadResult, error) {
	source = wordpress.NormalizeSource(source)
	result := LoadResult{Source: source}
	if source == "" {
		return result, errors.Join(domain.ErrFetchFailure, errors.New("empty source"))
	}

	if l.opts.ClearOnLoad {
		l.store.InvalidateAll()
	}

	if raw, ok := l.store.GetPosts(source); ok {
		posts, err := wordpress.DecodePosts(raw)
		if err == nil {
			l.logger.Debug("cache hit", "source", source, "count", len(posts))
			l.remember(source)
			result.Posts = posts
			result.FromCache = true
			return result, nil
		}
		// Unreadable entry: drop it and refetch
		l.logger.Warn("discarding corrupt cache entry", "source", source, "error", err)
		l.store.InvalidateSource(source)
	}

	raw, err := l.repo.FetchPosts(ctx, source)
	if err != nil {
		l.logger.Error("failed to fetch posts", "source", source, "error", err)
		return result, err
	}

	posts, err := wordpress.DecodePosts(raw)
	if err != nil {
		l.logger.Error("failed to decode posts", "source", source, "error", err)
		return result, err
	}

	if err := l.store.SavePosts(source, raw); err != nil {
		l.logger.Warn("failed to cache posts", "source", source, "error", err)
	}
	l.remember(source)

	l.logger.Info("loaded posts", "source", source, "count", len(posts))
	result.Posts = posts
	return result, nil
}

// Invalidate drops the cached posts for source
func (l *Loader) Invalidate(source string) {
	source = wordpress.NormalizeSource(source)
	l.logger.Debug("invalidating source", "source", source)
	l.store.InvalidateSource(source)
}

// InvalidateAll drops every cached source
func (l *Loader) InvalidateAll() {
	l.store.InvalidateAll()
}

// RecentSources returns previously loaded sources, most recent first
func (l *Loader) RecentSources() []string {
	return l.store.RecentSources()
}

func (l *Loader) remember(source string) {
	if err := l.store.TouchSource(source); err != nil {
		l.logger.Warn("failed to record source history", "source", source, "error", err)
	}
}
