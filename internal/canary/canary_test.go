package canary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	mock_alert "github.com/vankhoa205/tweet-extractor-service/internal/alert/mocks"
	"github.com/vankhoa205/tweet-extractor-service/internal/domain"
	mock_extractor "github.com/vankhoa205/tweet-extractor-service/internal/extractor/mocks"
	"github.com/vankhoa205/tweet-extractor-service/pkg/config"
	apperrors "github.com/vankhoa205/tweet-extractor-service/pkg/errors"
	"github.com/vankhoa205/tweet-extractor-service/pkg/logger"
)

const canaryURL = "https://x.com/nasa/status/1"

func newTestCanary(extractor *mock_extractor.MockClient, alerter *mock_alert.MockClient) *Canary {
	cfg := &config.Config{}
	cfg.Canary.URL = canaryURL
	return &Canary{
		cfg:       cfg,
		logger:    logger.NewNop(),
		extractor: extractor,
		alert:     alerter,
	}
}

func healthyRecord() *domain.PostRecord {
	likes := int64(250)
	published := time.Date(2026, 1, 15, 8, 30, 0, 0, time.UTC)
	return &domain.PostRecord{
		URL:         canaryURL,
		Author:      "@nasa",
		AuthorName:  "NASA",
		Text:        "We are going to the Moon!",
		Metrics:     domain.Metrics{Likes: &likes},
		PublishedAt: &published,
		ExtractedAt: time.Now().UTC(),
	}
}

func TestRunHealthyPostStaysQuiet(t *testing.T) {
	ctrl := gomock.NewController(t)
	extractor := mock_extractor.NewMockClient(ctrl)
	alerter := mock_alert.NewMockClient(ctrl)

	extractor.EXPECT().Extract(gomock.Any(), canaryURL).Return(healthyRecord(), nil)

	newTestCanary(extractor, alerter).run()
}

func TestRunAlertsOnFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	extractor := mock_extractor.NewMockClient(ctrl)
	alerter := mock_alert.NewMockClient(ctrl)

	extractor.EXPECT().
		Extract(gomock.Any(), canaryURL).
		Return(nil, &apperrors.ExtractionFailed{Attempts: 3, LastErr: apperrors.ErrTimeout})

	var sent string
	alerter.EXPECT().Send(gomock.Any()).DoAndReturn(func(text string) error {
		sent = text
		return nil
	})

	newTestCanary(extractor, alerter).run()

	assert.Contains(t, sent, canaryURL)
	assert.Contains(t, sent, "failed")
}

func TestRunAlertsOnMissingFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	extractor := mock_extractor.NewMockClient(ctrl)
	alerter := mock_alert.NewMockClient(ctrl)

	rec := healthyRecord()
	rec.Metrics.Likes = nil
	rec.PublishedAt = nil
	extractor.EXPECT().Extract(gomock.Any(), canaryURL).Return(rec, nil)

	var sent string
	alerter.EXPECT().Send(gomock.Any()).DoAndReturn(func(text string) error {
		sent = text
		return nil
	})

	newTestCanary(extractor, alerter).run()

	assert.Contains(t, sent, "likes")
	assert.Contains(t, sent, "published_at")
}
