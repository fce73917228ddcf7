package extractorimpl

// DOM selectors for post pages. The platform reshuffles its markup
// regularly; update these when extractions start coming back empty.
const (
	postSelector      = `article[data-testid="tweet"]`
	tombstoneSelector = `div[data-testid="error-detail"]`

	// renderedSelector matches either outcome of a page load, so one wait
	// covers both the post and the deleted/private banner.
	renderedSelector = postSelector + `, ` + tombstoneSelector

	timestampSelector = postSelector + ` time`
)

// candidate is one way to locate a field: a CSS query plus, optionally, an
// attribute to read instead of the rendered text.
type candidate struct {
	query string
	attr  string
}

// Per-field fallback lists in priority order; the first hit wins.
var (
	authorNameCandidates = []candidate{
		{query: postSelector + ` div[data-testid="User-Name"] a span span`},
		{query: postSelector + ` div[data-testid="User-Name"] span`},
		{query: postSelector + ` a[role="link"] div[dir="auto"] span span`},
	}

	textCandidates = []candidate{
		{query: postSelector + ` div[data-testid="tweetText"]`},
		{query: postSelector + ` div[lang]`},
	}

	likesCandidates = []candidate{
		{query: postSelector + ` button[data-testid="like"] span[data-testid="app-text-transition-container"]`},
		{query: postSelector + ` button[data-testid="like"]`, attr: "aria-label"},
	}

	repostsCandidates = []candidate{
		{query: postSelector + ` button[data-testid="retweet"] span[data-testid="app-text-transition-container"]`},
		{query: postSelector + ` button[data-testid="retweet"]`, attr: "aria-label"},
	}

	repliesCandidates = []candidate{
		{query: postSelector + ` button[data-testid="reply"] span[data-testid="app-text-transition-container"]`},
		{query: postSelector + ` button[data-testid="reply"]`, attr: "aria-label"},
	}

	viewsCandidates = []candidate{
		{query: postSelector + ` a[aria-label*="view"]`, attr: "aria-label"},
		{query: postSelector + ` a[href$="/analytics"]`},
	}

	imageCandidates = []candidate{
		{query: postSelector + ` div[data-testid="tweetPhoto"] img`, attr: "src"},
		{query: postSelector + ` img[alt="Image"]`, attr: "src"},
	}

	// Interstitials that cover the post: generic modal close buttons and
	// the cookie bar. Absent dialogs are the normal case.
	dialogCloseCandidates = []candidate{
		{query: `div[aria-modal="true"] div[role="button"][aria-label="Close"]`},
		{query: `div[data-testid="BottomBar"] div[role="button"]`},
	}
)
