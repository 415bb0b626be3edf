package wordpress

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mmcdole/postdeck/internal/domain"
	"golang.org/x/net/html"
)

// DecodePosts parses a raw /wp/v2/posts response into domain posts.
// Order is preserved. Malformed JSON yields domain.ErrFetchFailure.
func DecodePosts(raw []byte) ([]domain.Post, error) {
	var dtos []PostDTO
	if err := json.Unmarshal(raw, &dtos); err != nil {
		return nil, fmt.Errorf("%w: failed to parse response: %v", domain.ErrFetchFailure, err)
	}
	return MapPosts(dtos), nil
}

// MapPosts converts post DTOs to domain posts
func MapPosts(dtos []PostDTO) []domain.Post {
	posts := make([]domain.Post, 0, len(dtos))
	for _, d := range dtos {
		posts = append(posts, MapPost(d))
	}
	return posts
}

// MapPost converts a single post DTO to a domain post
func MapPost(d PostDTO) domain.Post {
	post := domain.Post{
		Title:       d.Title.Rendered,
		TitleText:   HTMLToText(d.Title.Rendered),
		Date:        d.Date,
		Excerpt:     d.Excerpt.Rendered,
		ExcerptText: HTMLToText(d.Excerpt.Rendered),
		Link:        d.Link,
	}
	if d.Embedded != nil && len(d.Embedded.FeaturedMedia) > 0 {
		post.FeaturedImage = d.Embedded.FeaturedMedia[0].SourceURL
	}
	return post
}

// blockTags start a new line when rendered as text
var blockTags = map[string]bool{
	"p": true, "br": true, "div": true, "li": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "tr": true,
}

// HTMLToText strips markup from server-rendered rich text, decoding entities
// and collapsing whitespace. Block elements become line breaks.
func HTMLToText(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return collapse(fragment)
	}

	var sb strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF or a malformed tail; keep what was read
			return collapse(sb.String())
		case html.TextToken:
			sb.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if blockTags[string(name)] {
				sb.WriteByte('\n')
			}
		}
	}
}

// collapse squeezes runs of spaces within lines and drops empty lines
func collapse(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
