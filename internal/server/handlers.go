package server

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type extractRequest struct {
	URL string `json:"url"`
}

type batchRequest struct {
	URLs []string `json:"urls"`
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, kindInvalidInput, "request body must be JSON with a url field")
		return
	}

	record, err := s.extractor.Extract(r.Context(), req.URL)
	if err != nil {
		s.logger.Warn("Extract request failed",
			"request_id", requestIDFrom(r.Context()),
			"url", req.URL,
			"error", err,
		)
		writeExtractionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Status: "success", Data: record})
}

func (s *Server) handleExtractBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, kindInvalidInput, "request body must be JSON with a urls field")
		return
	}
	if len(req.URLs) == 0 {
		writeError(w, http.StatusBadRequest, kindInvalidInput, "urls must contain at least one post url")
		return
	}
	if max := s.cfg.Extractor.MaxBatchSize; len(req.URLs) > max {
		writeError(w, http.StatusBadRequest, kindInvalidInput,
			fmt.Sprintf("a batch is limited to %d urls", max))
		return
	}

	results := s.extractor.ExtractBatch(r.Context(), req.URLs)

	items := make([]batchItem, len(results))
	extracted := 0
	for i, res := range results {
		if res.Err != nil {
			kind, _ := classifyError(res.Err)
			items[i] = batchItem{
				URL:    res.URL,
				Status: "error",
				Error:  &errorBody{Kind: kind, Message: res.Err.Error()},
			}
			continue
		}
		extracted++
		items[i] = batchItem{URL: res.URL, Status: "success", Data: res.Record}
	}

	writeJSON(w, http.StatusOK, batchResponse{
		Status:  batchStatus(extracted, len(results)),
		Message: fmt.Sprintf("Extracted %d of %d posts", extracted, len(results)),
		Results: items,
	})
}

func batchStatus(extracted, total int) string {
	switch {
	case extracted == total:
		return "success"
	case extracted > 0:
		return "partial_success"
	default:
		return "error"
	}
}

// handleHealth reports process liveness only; it stays green even when the
// browser runtime is broken so the orchestrator does not restart-loop a pod
// that can still answer traffic.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

const indexHTML = `<!DOCTYPE html>
<html>
<head><title>Tweet Extractor</title></head>
<body>
<h1>Tweet Extractor</h1>
<p>Extracts structured data from public X/Twitter posts.</p>
<ul>
<li><code>POST /extract</code> with <code>{"url": "https://x.com/user/status/123"}</code></li>
<li><code>POST /extract-batch</code> with <code>{"urls": ["...", "..."]}</code></li>
<li><code>GET /health</code></li>
</ul>
</body>
</html>
`

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexHTML))
}
