// Package chi is the HTTP transport for the textprep API.
package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hanmun-cloud/textprep/internal/domain"
	"github.com/hanmun-cloud/textprep/internal/version"

	analysisuc "github.com/hanmun-cloud/textprep/internal/usecase/analysis"
	healthuc "github.com/hanmun-cloud/textprep/internal/usecase/health"
	preprocessuc "github.com/hanmun-cloud/textprep/internal/usecase/preprocess"
)

// Server exposes the preprocessing and analysis use cases over HTTP.
type Server struct {
	preprocess *preprocessuc.Service
	analysis   *analysisuc.Service
	health     *healthuc.Service
	logger     *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	preprocess *preprocessuc.Service,
	analysis *analysisuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	return &Server{
		preprocess: preprocess,
		analysis:   analysis,
		health:     health,
		logger:     logger,
	}
}

// Register mounts all routes on the router.
func (s *Server) Register(r chi.Router) {
	r.Get("/", s.ServiceInfo)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Post("/preprocess-for-textrank", s.PreprocessForTextRank)
	r.Post("/morpheme", s.Morpheme)
	r.Post("/sentence-split", s.SentenceSplit)
	r.Post("/tokenize", s.Tokenize)
	r.Post("/preprocess", s.Preprocess)
	r.Post("/analyze", s.Analyze)
}

// textRequest is the body shape shared by the simple analysis endpoints.
type textRequest struct {
	Text string `json:"text"`
}

// PreprocessForTextRank handles POST /preprocess-for-textrank.
// The body is decoded loosely: the pipeline's validator owns the rules
// for the text field and the removeStopwords truthiness.
func (s *Server) PreprocessForTextRank(w http.ResponseWriter, r *http.Request) {
	payload, err := decodePayload(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", requestID(r))
		return
	}

	result, err := s.preprocess.Preprocess(r.Context(), payload)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Morpheme handles POST /morpheme. The response keeps the engine's
// tuple wire shape so existing consumers stay compatible.
func (s *Server) Morpheme(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeTextRequest(w, r)
	if !ok {
		return
	}

	candidates, err := s.analysis.Morpheme(r.Context(), req.Text)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	result := make([][][]any, len(candidates))
	for i, cand := range candidates {
		tuples := make([][]any, len(cand))
		for j, m := range cand {
			tuples[j] = []any{m.Form, m.Tag, m.Offset, m.Length}
		}
		result[i] = tuples
	}

	writeJSON(w, http.StatusOK, map[string]any{"result": result})
}

// SentenceSplit handles POST /sentence-split.
func (s *Server) SentenceSplit(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeTextRequest(w, r)
	if !ok {
		return
	}

	sentences, err := s.analysis.SplitSentences(r.Context(), req.Text)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"sentences": sentences,
		"count":     len(sentences),
	})
}

// Tokenize handles POST /tokenize.
func (s *Server) Tokenize(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeTextRequest(w, r)
	if !ok {
		return
	}

	tokens, err := s.analysis.Tokenize(r.Context(), req.Text)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"tokens": tokens,
		"count":  len(tokens),
	})
}

// Preprocess handles POST /preprocess (split + per-sentence tokens).
func (s *Server) Preprocess(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeTextRequest(w, r)
	if !ok {
		return
	}

	sentences, tokenized, err := s.analysis.Preprocess(r.Context(), req.Text)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"sentences": sentences,
		"tokenized": tokenized,
	})
}

// Analyze handles POST /analyze (flat top-parse morphemes with offsets).
func (s *Server) Analyze(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeTextRequest(w, r)
	if !ok {
		return
	}

	morphemes, err := s.analysis.Analyze(r.Context(), req.Text)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	tokens := make([]map[string]any, len(morphemes))
	for i, m := range morphemes {
		tokens[i] = map[string]any{
			"form":  m.Form,
			"tag":   m.Tag,
			"start": m.Offset,
			"end":   m.Offset + m.Length,
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"tokens": tokens})
}

// ServiceInfo handles GET /.
func (s *Server) ServiceInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service":     "textprep",
		"status":      "running",
		"version":     version.Version,
		"description": "Korean text preprocessing service for NLP and TextRank summarization",
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// decodeTextRequest reads a {"text": ...} body; writes a 400 and
// returns ok=false on malformed JSON.
func (s *Server) decodeTextRequest(w http.ResponseWriter, r *http.Request) (textRequest, bool) {
	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body", requestID(r))
		return textRequest{}, false
	}
	return req, true
}

// decodePayload reads the raw JSON object for the pipeline validator.
// An empty body maps to an empty payload, not a transport error.
func decodePayload(body io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return map[string]any{}, nil
	}

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// handleError maps domain errors to HTTP statuses. Validation failures
// surface their reason; everything else gets a generic message with
// full detail logged server-side.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	rid := requestID(r)

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		s.logger.Warn("validation error", zap.String("request_id", rid), zap.Error(err))
		writeError(w, http.StatusBadRequest, verr.Reason, rid)
		return
	}

	if errors.Is(err, domain.ErrAnalyzerUnavailable) {
		s.logger.Error("analyzer error", zap.String("request_id", rid), zap.Error(err))
		writeError(w, http.StatusBadGateway, domain.ErrAnalyzerUnavailable.Error(), rid)
		return
	}

	s.logger.Error("internal error", zap.String("request_id", rid), zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error", rid)
}

func requestID(r *http.Request) string {
	return domain.RequestIDFromContext(r.Context())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message, requestID string) {
	writeJSON(w, status, map[string]string{
		"error":     message,
		"requestId": requestID,
	})
}
