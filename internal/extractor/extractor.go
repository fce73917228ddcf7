package extractor

import (
	"context"

	"github.com/vankhoa205/tweet-extractor-service/internal/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=extractor.go -destination=mocks/mock.go

// Result pairs one batch URL with its outcome. Exactly one of Record and
// Err is set.
type Result struct {
	URL    string
	Record *domain.PostRecord
	Err    error
}

type Client interface {
	// Extract scrapes a single post page into a PostRecord. Transient
	// failures are retried internally; returned errors carry the sentinel
	// taxonomy so callers can map them.
	Extract(ctx context.Context, url string) (*domain.PostRecord, error)

	// ExtractBatch processes every URL independently and returns one result
	// per input, in input order. A failing URL never affects the others.
	ExtractBatch(ctx context.Context, urls []string) []Result
}
