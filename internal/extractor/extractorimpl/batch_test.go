package extractorimpl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_browser "github.com/vankhoa205/tweet-extractor-service/internal/browser/mocks"
	apperrors "github.com/vankhoa205/tweet-extractor-service/pkg/errors"
)

func TestExtractBatchKeepsOrderAndIsolatesFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	canonical := "https://x.com/nasa/status/42"

	factory := mock_browser.NewMockFactory(ctrl)
	factory.EXPECT().NewSession(gomock.Any()).Return(stubPostSession(ctrl, canonical), nil)

	client := newTestExtractor(testExtractorConfig(), factory)
	results := client.ExtractBatch(context.Background(), []string{
		"https://example.com/not-a-post",
		canonical,
	})

	require.Len(t, results, 2)

	assert.Equal(t, "https://example.com/not-a-post", results[0].URL)
	assert.Nil(t, results[0].Record)
	require.Error(t, results[0].Err)
	assert.True(t, apperrors.IsInvalidInput(results[0].Err))

	assert.Equal(t, canonical, results[1].URL)
	require.NoError(t, results[1].Err)
	require.NotNil(t, results[1].Record)
	assert.Equal(t, "@nasa", results[1].Record.Author)
}

func TestExtractBatchEmptyInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	factory := mock_browser.NewMockFactory(ctrl)

	client := newTestExtractor(testExtractorConfig(), factory)
	results := client.ExtractBatch(context.Background(), nil)

	assert.Empty(t, results)
}

func TestExtractBatchClampsWorkerCount(t *testing.T) {
	ctrl := gomock.NewController(t)
	factory := mock_browser.NewMockFactory(ctrl)

	cfg := testExtractorConfig()
	cfg.Extractor.BatchConcurrency = 0

	client := newTestExtractor(cfg, factory)
	results := client.ExtractBatch(context.Background(), []string{
		"first bad url",
		"second bad url",
		"third bad url",
	})

	require.Len(t, results, 3)
	for i, res := range results {
		require.Error(t, res.Err, "result %d", i)
		assert.True(t, apperrors.IsInvalidInput(res.Err))
	}
}
