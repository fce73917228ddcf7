package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vankhoa205/tweet-extractor-service/internal/domain"
	"github.com/vankhoa205/tweet-extractor-service/internal/extractor"
	mock_extractor "github.com/vankhoa205/tweet-extractor-service/internal/extractor/mocks"
	"github.com/vankhoa205/tweet-extractor-service/internal/ratelimit"
	"github.com/vankhoa205/tweet-extractor-service/pkg/config"
	apperrors "github.com/vankhoa205/tweet-extractor-service/pkg/errors"
	"github.com/vankhoa205/tweet-extractor-service/pkg/logger"
)

func newTestServer(client extractor.Client) *Server {
	cfg := &config.Config{}
	cfg.Extractor.MaxBatchSize = 10
	return &Server{
		cfg:       cfg,
		logger:    logger.NewNop(),
		extractor: client,
	}
}

func doRequest(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	s.routes().ServeHTTP(rr, req)
	return rr
}

func samplePost() *domain.PostRecord {
	likes := int64(1200)
	published := time.Date(2026, 1, 15, 8, 30, 0, 0, time.UTC)
	return &domain.PostRecord{
		URL:         "https://x.com/nasa/status/1",
		Author:      "@nasa",
		AuthorName:  "NASA",
		Text:        "We are going to the Moon!",
		Metrics:     domain.Metrics{Likes: &likes},
		Images:      []string{"https://pbs.twimg.com/media/GG1a2b3.jpg"},
		PublishedAt: &published,
		ExtractedAt: time.Now().UTC(),
	}
}

func TestHandleExtractSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_extractor.NewMockClient(ctrl)
	client.EXPECT().
		Extract(gomock.Any(), "https://x.com/nasa/status/1").
		Return(samplePost(), nil)

	rr := doRequest(newTestServer(client), http.MethodPost, "/extract",
		`{"url": "https://x.com/nasa/status/1"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			URL    string   `json:"url"`
			Author string   `json:"author"`
			Text   string   `json:"text"`
			Images []string `json:"images"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "https://x.com/nasa/status/1", resp.Data.URL)
	assert.Equal(t, "@nasa", resp.Data.Author)
	assert.Equal(t, "We are going to the Moon!", resp.Data.Text)
	assert.Equal(t, []string{"https://pbs.twimg.com/media/GG1a2b3.jpg"}, resp.Data.Images)
}

func TestHandleExtractRejectsBadBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_extractor.NewMockClient(ctrl)

	rr := doRequest(newTestServer(client), http.MethodPost, "/extract", `{"url": `)

	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, kindInvalidInput, resp.Error.Kind)
}

func TestHandleExtractErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{
			name:       "invalid input",
			err:        fmt.Errorf("%w: %q is not a post url", apperrors.ErrInvalidInput, "x"),
			wantStatus: http.StatusBadRequest,
			wantKind:   kindInvalidInput,
		},
		{
			name:       "post not found",
			err:        fmt.Errorf("%w: post is unavailable", apperrors.ErrNotFound),
			wantStatus: http.StatusNotFound,
			wantKind:   kindNotFound,
		},
		{
			name: "exhausted on timeouts",
			err: &apperrors.ExtractionFailed{
				Attempts: 3,
				LastErr:  fmt.Errorf("%w: waiting for selector", apperrors.ErrTimeout),
			},
			wantStatus: http.StatusGatewayTimeout,
			wantKind:   kindTimeout,
		},
		{
			name: "exhausted on empty pages",
			err: &apperrors.ExtractionFailed{
				Attempts: 3,
				LastErr:  apperrors.New("post rendered without author or text"),
			},
			wantStatus: http.StatusBadGateway,
			wantKind:   kindExtractionFailed,
		},
		{
			name: "browser unavailable",
			err: &apperrors.ExtractionFailed{
				Attempts: 3,
				LastErr:  fmt.Errorf("%w: browser binary not installed", apperrors.ErrSession),
			},
			wantStatus: http.StatusBadGateway,
			wantKind:   kindSessionError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mock_extractor.NewMockClient(ctrl)
			client.EXPECT().Extract(gomock.Any(), gomock.Any()).Return(nil, tt.err)

			rr := doRequest(newTestServer(client), http.MethodPost, "/extract",
				`{"url": "https://x.com/nasa/status/1"}`)

			assert.Equal(t, tt.wantStatus, rr.Code)

			var resp errorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, "error", resp.Status)
			assert.Equal(t, tt.wantKind, resp.Error.Kind)
			assert.NotEmpty(t, resp.Error.Message)
		})
	}
}

func TestHandleExtractBatchPartialSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	urls := []string{"https://x.com/nasa/status/1", "https://x.com/gone/status/2"}

	client := mock_extractor.NewMockClient(ctrl)
	client.EXPECT().ExtractBatch(gomock.Any(), urls).Return([]extractor.Result{
		{URL: urls[0], Record: samplePost()},
		{URL: urls[1], Err: fmt.Errorf("%w: post is unavailable", apperrors.ErrNotFound)},
	})

	body, _ := json.Marshal(map[string]any{"urls": urls})
	rr := doRequest(newTestServer(client), http.MethodPost, "/extract-batch", string(body))

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		Results []struct {
			URL    string `json:"url"`
			Status string `json:"status"`
			Error  *struct {
				Kind string `json:"kind"`
			} `json:"error"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	assert.Equal(t, "partial_success", resp.Status)
	assert.Equal(t, "Extracted 1 of 2 posts", resp.Message)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, urls[0], resp.Results[0].URL)
	assert.Equal(t, "success", resp.Results[0].Status)
	assert.Equal(t, "error", resp.Results[1].Status)
	require.NotNil(t, resp.Results[1].Error)
	assert.Equal(t, kindNotFound, resp.Results[1].Error.Kind)
}

func TestHandleExtractBatchValidation(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_extractor.NewMockClient(ctrl)
	s := newTestServer(client)
	s.cfg.Extractor.MaxBatchSize = 2

	rr := doRequest(s, http.MethodPost, "/extract-batch", `{"urls": []}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doRequest(s, http.MethodPost, "/extract-batch",
		`{"urls": ["a", "b", "c"]}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, kindInvalidInput, resp.Error.Kind)
	assert.Contains(t, resp.Error.Message, "limited to 2")
}

func TestHandleHealth(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_extractor.NewMockClient(ctrl)

	rr := doRequest(newTestServer(client), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rr.Body.String())
}

func TestMethodNotAllowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_extractor.NewMockClient(ctrl)

	rr := doRequest(newTestServer(client), http.MethodGet, "/extract", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestRateLimitAppliesToExtractionOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_extractor.NewMockClient(ctrl)
	client.EXPECT().Extract(gomock.Any(), gomock.Any()).Return(samplePost(), nil)

	s := newTestServer(client)
	s.limiter = ratelimit.NewInMemoryLimiter(1, time.Hour, 1)

	rr := doRequest(s, http.MethodPost, "/extract", `{"url": "https://x.com/nasa/status/1"}`)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = doRequest(s, http.MethodPost, "/extract", `{"url": "https://x.com/nasa/status/1"}`)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, kindRateLimited, resp.Error.Kind)

	rr = doRequest(s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRequestIDIsEchoed(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_extractor.NewMockClient(ctrl)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "test-123")
	rr := httptest.NewRecorder()
	newTestServer(client).routes().ServeHTTP(rr, req)

	assert.Equal(t, "test-123", rr.Header().Get("X-Request-ID"))
}
