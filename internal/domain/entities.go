package domain

import "strings"

// Post is a single WordPress post as presented on a slide.
// Title and Excerpt carry the server-rendered markup; the *Text variants are
// the same content with markup removed for terminal display.
type Post struct {
	Title         string `json:"title"`
	TitleText     string `json:"title_text"`
	Date          string `json:"date"` // ISO 8601 as returned by the server
	Excerpt       string `json:"excerpt"`
	ExcerptText   string `json:"excerpt_text"`
	Link          string `json:"link"`
	FeaturedImage string `json:"featured_image,omitempty"` // empty when the post has no media
}

// DisplayDate returns the date portion of Date with "/" separators,
// e.g. "2024-03-09T10:00:00" becomes "2024/03/09".
func (p Post) DisplayDate() string {
	date, _, _ := strings.Cut(p.Date, "T")
	return strings.ReplaceAll(date, "-", "/")
}

// Image returns the featured image URL, or placeholder if the post has none.
func (p Post) Image(placeholder string) string {
	if p.FeaturedImage == "" {
		return placeholder
	}
	return p.FeaturedImage
}

// HasImage reports whether the post carries its own featured image
func (p Post) HasImage() bool {
	return p.FeaturedImage != ""
}
