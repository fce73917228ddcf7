package extractorimpl

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vankhoa205/tweet-extractor-service/internal/browser"
	"github.com/vankhoa205/tweet-extractor-service/internal/domain"
	apperrors "github.com/vankhoa205/tweet-extractor-service/pkg/errors"
	"github.com/vankhoa205/tweet-extractor-service/pkg/formatter"
	"github.com/vankhoa205/tweet-extractor-service/pkg/retry"
)

const dialogClickTimeout = 3 * time.Second

// Extract scrapes one post page. Invalid URLs fail before any session is
// created; tombstoned posts fail on the first attempt; everything else is
// retried with backoff until the record is complete enough or attempts run
// out.
func (e *Impl) Extract(ctx context.Context, rawURL string) (*domain.PostRecord, error) {
	post, err := parsePostURL(rawURL)
	if err != nil {
		return nil, err
	}

	extractionID := uuid.NewString()
	e.logger.Info("Extracting post",
		"extraction_id", extractionID,
		"url", post.Canonical,
		"author", post.Handle,
	)

	var record *domain.PostRecord
	attempts := 0

	operation := func() error {
		attempts++
		rec, err := e.extractOnce(ctx, post, extractionID, attempts)
		if err != nil {
			if apperrors.IsNotFound(err) || apperrors.IsInvalidInput(err) {
				return retry.Permanent(err)
			}
			return err
		}
		record = rec
		return nil
	}

	if err := retry.Do(ctx, e.logger, "ExtractPost", operation, e.retryCfg); err != nil {
		if apperrors.IsNotFound(err) || apperrors.IsInvalidInput(err) {
			e.logger.Info("Extraction aborted",
				"extraction_id", extractionID,
				"url", post.Canonical,
				"error", err,
			)
			return nil, err
		}

		e.logger.Error("Extraction failed",
			"extraction_id", extractionID,
			"url", post.Canonical,
			"attempts", attempts,
			"error", err,
		)
		return nil, &apperrors.ExtractionFailed{Attempts: attempts, LastErr: err}
	}

	e.logger.Info("Extraction succeeded",
		"extraction_id", extractionID,
		"url", post.Canonical,
		"attempts", attempts,
	)
	return record, nil
}

// extractOnce runs a single attempt inside a fresh browser session.
func (e *Impl) extractOnce(ctx context.Context, post postURL, extractionID string, attempt int) (*domain.PostRecord, error) {
	sess, err := e.sessions.NewSession(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := sess.Close(); err != nil {
			e.logger.Warn("Failed to close browser session",
				"extraction_id", extractionID,
				"error", err,
			)
		}
	}()

	if err := sess.Navigate(post.Canonical, e.cfg.Extractor.NavigationTimeout); err != nil {
		return nil, err
	}

	if err := sess.WaitVisible(renderedSelector, e.cfg.Extractor.RenderTimeout); err != nil {
		e.captureScreenshot(sess, post.ID, attempt)
		return nil, err
	}

	if sess.Visible(tombstoneSelector) {
		return nil, fmt.Errorf("%w: post is unavailable (deleted, private or suspended)", apperrors.ErrNotFound)
	}

	e.dismissDialogs(sess, extractionID)

	record := &domain.PostRecord{
		URL:         post.Canonical,
		Author:      "@" + post.Handle,
		ExtractedAt: time.Now().UTC(),
	}

	if name, ok := firstValue(sess, authorNameCandidates); ok {
		record.AuthorName = name
	} else {
		e.logger.Warn("Author name not found", "extraction_id", extractionID, "url", post.Canonical)
	}

	if text, ok := firstValue(sess, textCandidates); ok {
		record.Text = text
	} else {
		e.logger.Warn("Post text not found", "extraction_id", extractionID, "url", post.Canonical)
	}

	// A post with neither author name nor text means the page did not
	// really render or every selector missed; either way the attempt is
	// worthless and retrying is the right move.
	if record.AuthorName == "" && record.Text == "" {
		return nil, apperrors.New("post rendered without author or text")
	}

	record.Metrics = e.collectMetrics(sess)
	record.Images = e.collectImages(sess)
	record.PublishedAt = e.publishedAt(sess)

	return record, nil
}

// dismissDialogs closes interstitials covering the post, best effort.
func (e *Impl) dismissDialogs(sess browser.Session, extractionID string) {
	for _, c := range dialogCloseCandidates {
		if !sess.Visible(c.query) {
			continue
		}
		if err := sess.Click(c.query, dialogClickTimeout); err != nil {
			e.logger.Warn("Could not dismiss dialog",
				"extraction_id", extractionID,
				"selector", c.query,
				"error", err,
			)
			continue
		}
		e.logger.Debug("Dismissed dialog", "extraction_id", extractionID, "selector", c.query)
	}
}

func (e *Impl) collectMetrics(sess browser.Session) domain.Metrics {
	return domain.Metrics{
		Likes:   e.metricValue(sess, likesCandidates, "likes"),
		Reposts: e.metricValue(sess, repostsCandidates, "reposts"),
		Replies: e.metricValue(sess, repliesCandidates, "replies"),
		Views:   e.metricValue(sess, viewsCandidates, "views"),
	}
}

// metricValue reads one engagement count. Counts render compacted
// ("1.2K") and aria-labels carry trailing words ("1234 replies"), so only
// the first token is parsed. A missing or unparsable count is nil.
func (e *Impl) metricValue(sess browser.Session, candidates []candidate, field string) *int64 {
	raw, ok := firstValue(sess, candidates)
	if !ok {
		return nil
	}

	token := strings.Fields(raw)
	if len(token) == 0 {
		return nil
	}

	n, err := formatter.ParseCompactCount(token[0])
	if err != nil {
		e.logger.Debug("Could not parse metric", "field", field, "raw", raw)
		return nil
	}
	return &n
}

func (e *Impl) collectImages(sess browser.Session) []string {
	seen := make(map[string]bool)
	var images []string

	for _, c := range imageCandidates {
		srcs, err := sess.AttributeAll(c.query, c.attr)
		if err != nil {
			continue
		}
		for _, src := range srcs {
			cleaned, ok := normalizeImageURL(src)
			if !ok || seen[cleaned] {
				continue
			}
			seen[cleaned] = true
			images = append(images, cleaned)
		}
	}
	return images
}

// normalizeImageURL drops avatars and off-host images, and strips the size
// parameters so the URL points at the full resolution.
func normalizeImageURL(src string) (string, bool) {
	if !strings.Contains(src, "pbs.twimg.com") || strings.Contains(src, "profile") {
		return "", false
	}
	if i := strings.IndexByte(src, '?'); i >= 0 {
		src = src[:i]
	}
	return src, true
}

func (e *Impl) publishedAt(sess browser.Session) *time.Time {
	value, err := sess.Attribute(timestampSelector, "datetime")
	if err != nil || value == "" {
		return nil
	}

	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		e.logger.Debug("Could not parse post timestamp", "datetime", value)
		return nil
	}
	utc := ts.UTC()
	return &utc
}

// firstValue walks a candidate list and returns the first non-empty hit.
func firstValue(sess browser.Session, candidates []candidate) (string, bool) {
	for _, c := range candidates {
		var (
			value string
			err   error
		)
		if c.attr != "" {
			value, err = sess.Attribute(c.query, c.attr)
		} else {
			value, err = sess.Text(c.query)
		}
		if err != nil {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		return value, true
	}
	return "", false
}

func (e *Impl) captureScreenshot(sess browser.Session, postID string, attempt int) {
	dir := e.cfg.Browser.ScreenshotDir
	if dir == "" {
		return
	}

	path := filepath.Join(dir, fmt.Sprintf("post_%s_attempt_%d.png", postID, attempt))
	if err := sess.Screenshot(path); err != nil {
		e.logger.Warn("Could not capture debug screenshot", "path", path, "error", err)
		return
	}
	e.logger.Info("Captured debug screenshot", "path", path)
}
