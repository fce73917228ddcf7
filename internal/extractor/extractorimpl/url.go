package extractorimpl

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	apperrors "github.com/vankhoa205/tweet-extractor-service/pkg/errors"
)

// postPathRe matches post permalinks on either domain the platform serves.
var postPathRe = regexp.MustCompile(`^https?://(?:www\.)?(?:twitter\.com|x\.com)/([^/]+)/status/(\d+)`)

// postURL is a validated, canonicalized post address.
type postURL struct {
	Canonical string
	Handle    string
	ID        string
}

// parsePostURL checks raw against the post permalink shape and strips the
// query and fragment. Anything else fails with ErrInvalidInput.
func parsePostURL(raw string) (postURL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return postURL{}, fmt.Errorf("%w: url is required", apperrors.ErrInvalidInput)
	}

	matches := postPathRe.FindStringSubmatch(raw)
	if matches == nil {
		return postURL{}, fmt.Errorf("%w: %q is not a post url", apperrors.ErrInvalidInput, raw)
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return postURL{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	parsed.RawQuery = ""
	parsed.Fragment = ""

	return postURL{
		Canonical: parsed.String(),
		Handle:    matches[1],
		ID:        matches[2],
	}, nil
}
