package wordpress

// Rendered wraps a server-rendered rich text field
type Rendered struct {
	Rendered string `json:"rendered"`
}

// FeaturedMedia is the embedded attachment for a post's featured image
type FeaturedMedia struct {
	SourceURL string `json:"source_url"`
}

// Embedded holds the _embed expansion of a post
type Embedded struct {
	FeaturedMedia []FeaturedMedia `json:"wp:featuredmedia,omitempty"`
}

// PostDTO is the subset of a /wp/v2/posts entry requested via _fields
type PostDTO struct {
	Title    Rendered  `json:"title"`
	Date     string    `json:"date"`
	Excerpt  Rendered  `json:"excerpt"`
	Link     string    `json:"link"`
	Embedded *Embedded `json:"_embedded,omitempty"`
}
