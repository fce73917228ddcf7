package browser

import (
	"context"
	"time"
)

//go:generate go run go.uber.org/mock/mockgen -source=browser.go -destination=mocks/mock.go

// Session is one isolated headless-browser page. Implementations own a
// dedicated browser process; Close must release it on every exit path.
type Session interface {
	// Navigate loads url and returns once the document has been parsed.
	Navigate(url string, timeout time.Duration) error

	// WaitVisible blocks until a node matching selector becomes visible.
	WaitVisible(selector string, timeout time.Duration) error

	// Visible reports whether a node matching selector is currently visible.
	Visible(selector string) bool

	// Click clicks the first node matching selector.
	Click(selector string, timeout time.Duration) error

	// Text returns the rendered text of the first node matching selector.
	Text(selector string) (string, error)

	// Attribute returns the value of attr on the first node matching selector.
	Attribute(selector, attr string) (string, error)

	// AttributeAll returns attr for every node matching selector, in document
	// order, skipping nodes where the attribute is absent.
	AttributeAll(selector, attr string) ([]string, error)

	// Screenshot writes a full-page capture to path.
	Screenshot(path string) error

	// Close tears down the page, the context and the browser process.
	Close() error
}

// Factory hands out isolated sessions. Implementations may cap the number
// of live sessions; NewSession then blocks until a slot frees up or ctx is
// done.
type Factory interface {
	NewSession(ctx context.Context) (Session, error)
}
