package domain

import "time"

// Metrics holds the engagement counts rendered on a post page. A nil field
// means the count was not found, which is not the same as zero.
type Metrics struct {
	Likes   *int64 `json:"likes,omitempty"`
	Reposts *int64 `json:"reposts,omitempty"`
	Replies *int64 `json:"replies,omitempty"`
	Views   *int64 `json:"views,omitempty"`
}

// PostRecord is the structured result of extracting a single post.
type PostRecord struct {
	URL         string     `json:"url"`                   // canonical post URL, query and fragment stripped
	Author      string     `json:"author,omitempty"`      // handle taken from the URL path, e.g. "@nasa"
	AuthorName  string     `json:"author_name,omitempty"` // display name as rendered on the page
	Text        string     `json:"text,omitempty"`
	Metrics     Metrics    `json:"metrics"`
	Images      []string   `json:"images,omitempty"` // ordered, deduplicated media URLs
	PublishedAt *time.Time `json:"published_at,omitempty"`
	ExtractedAt time.Time  `json:"extracted_at"`
}
