package wordpress

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/postdeck/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "Postdeck/1.0"

	// PostsPath is the REST route for the post collection
	PostsPath = "/wp-json/wp/v2/posts"

	// PostsQuery selects only the fields a slide renders and embeds the
	// featured media so no second request is needed.
	PostsQuery = "_fields=title,date,excerpt,link,_links.wp:featuredmedia,_embedded.wp:featuredmedia&_embed"
)

// Client implements domain.PostRepository against the WordPress REST API
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new WordPress REST client
func NewClient(logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// PostsURL returns the full post listing URL for a normalized source
func PostsURL(source string) string {
	return source + PostsPath + "?" + PostsQuery
}

// FetchPosts performs the single listing request for source and returns the raw body
func (c *Client) FetchPosts(ctx context.Context, source string) ([]byte, error) {
	reqURL := PostsURL(source)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", domain.ErrFetchFailure, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("wordpress request", "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("wordpress request failed", "url", reqURL, "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFailure, domain.ErrServerOffline)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", domain.ErrFetchFailure, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("wordpress request error", "status", resp.StatusCode, "bodyLen", len(body))
		return nil, fmt.Errorf("%w: unexpected status code: %d", domain.ErrFetchFailure, resp.StatusCode)
	}

	return body, nil
}

var _ domain.PostRepository = (*Client)(nil)
