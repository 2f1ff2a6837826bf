// Package kiwi is the HTTP transport for the morphological analysis
// engine. The engine owns sentence segmentation and morpheme analysis;
// this client only moves JSON over the wire and never interprets parses.
package kiwi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hanmun-cloud/textprep/internal/domain"
	"github.com/hanmun-cloud/textprep/internal/metrics"
)

// Client calls the morphological engine over HTTP.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *zap.Logger
}

// Config holds the engine connection settings.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client // optional, overrides Timeout
	Logger     *zap.Logger
}

// NewClient creates an engine client.
func NewClient(cfg *Config) *Client {
	httpc := cfg.HTTPClient
	if httpc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpc = &http.Client{Timeout: timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		httpc:   httpc,
		logger:  logger,
	}
}

// Segment splits text into ordered sentence spans via POST /sentence-split.
func (c *Client) Segment(ctx context.Context, text string) ([]domain.SentenceSpan, error) {
	var resp struct {
		Sentences []string `json:"sentences"`
	}
	if err := c.post(ctx, "sentence-split", text, &resp); err != nil {
		return nil, err
	}

	spans := make([]domain.SentenceSpan, len(resp.Sentences))
	for i, s := range resp.Sentences {
		spans[i] = domain.SentenceSpan{Text: s}
	}
	return spans, nil
}

// Analyze returns ranked parse candidates for one sentence via POST /morpheme.
// The wire format is nested arrays: result -> candidates -> morphemes,
// each morpheme a [form, tag, offset, length] tuple.
func (c *Client) Analyze(ctx context.Context, sentence string) ([]domain.ParseCandidate, error) {
	var resp struct {
		Result [][][]any `json:"result"`
	}
	if err := c.post(ctx, "morpheme", sentence, &resp); err != nil {
		return nil, err
	}

	candidates := make([]domain.ParseCandidate, 0, len(resp.Result))
	for i, rawCand := range resp.Result {
		cand := make(domain.ParseCandidate, 0, len(rawCand))
		for j, tuple := range rawCand {
			m, err := morphemeFromTuple(tuple)
			if err != nil {
				return nil, fmt.Errorf("candidate %d morpheme %d: %w", i, j, err)
			}
			cand = append(cand, m)
		}
		candidates = append(candidates, cand)
	}
	return candidates, nil
}

// AnalyzeTokens returns the top-parse morphemes with offsets via POST /analyze.
func (c *Client) AnalyzeTokens(ctx context.Context, text string) ([]domain.Morpheme, error) {
	var resp struct {
		Tokens []struct {
			Form  string `json:"form"`
			Tag   string `json:"tag"`
			Start int    `json:"start"`
			End   int    `json:"end"`
		} `json:"tokens"`
	}
	if err := c.post(ctx, "analyze", text, &resp); err != nil {
		return nil, err
	}

	morphemes := make([]domain.Morpheme, len(resp.Tokens))
	for i, t := range resp.Tokens {
		morphemes[i] = domain.Morpheme{
			Form:   t.Form,
			Tag:    t.Tag,
			Offset: t.Start,
			Length: t.End - t.Start,
		}
	}
	return morphemes, nil
}

// Tokenize returns the top-parse surface forms via POST /tokenize.
func (c *Client) Tokenize(ctx context.Context, text string) ([]string, error) {
	var resp struct {
		Tokens []string `json:"tokens"`
	}
	if err := c.post(ctx, "tokenize", text, &resp); err != nil {
		return nil, err
	}
	return resp.Tokens, nil
}

// HealthCheck verifies engine availability via GET /health.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", http.NoBody)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("engine health: %w: %w", domain.ErrAnalyzerUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("engine health status %d: %w", resp.StatusCode, domain.ErrAnalyzerUnavailable)
	}
	return nil
}

// post sends {"text": ...} to the named endpoint and decodes the response.
// All failures wrap domain.ErrAnalyzerUnavailable for correct 502 mapping.
func (c *Client) post(ctx context.Context, endpoint, text string, out any) error {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+"/"+endpoint, bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpc.Do(req)
	duration := time.Since(start)

	if err != nil {
		metrics.AnalyzerRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("engine %s: %w: %w", endpoint, domain.ErrAnalyzerUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.AnalyzerRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("read engine %s response: %w: %w", endpoint, domain.ErrAnalyzerUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		metrics.AnalyzerRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("engine %s status %d: %s: %w",
			endpoint, resp.StatusCode, engineErrorDetail(data), domain.ErrAnalyzerUnavailable)
	}

	metrics.AnalyzerRequestsTotal.WithLabelValues(endpoint, "success").Inc()
	metrics.AnalyzerRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode engine %s response: %w: %w", endpoint, domain.ErrAnalyzerUnavailable, err)
	}
	return nil
}

// engineErrorDetail extracts the "error" field from an engine error body.
func engineErrorDetail(body []byte) string {
	var parsed struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Error != "" {
		return parsed.Error
	}
	return string(body)
}

// morphemeFromTuple converts a [form, tag, offset, length] wire tuple.
func morphemeFromTuple(tuple []any) (domain.Morpheme, error) {
	if len(tuple) < 2 {
		return domain.Morpheme{}, fmt.Errorf("tuple has %d elements, want at least 2", len(tuple))
	}

	form, ok := tuple[0].(string)
	if !ok {
		return domain.Morpheme{}, fmt.Errorf("surface form is %T, want string", tuple[0])
	}
	tag, ok := tuple[1].(string)
	if !ok {
		return domain.Morpheme{}, fmt.Errorf("pos tag is %T, want string", tuple[1])
	}

	m := domain.Morpheme{Form: form, Tag: tag}
	if len(tuple) > 2 {
		if offset, ok := tuple[2].(float64); ok {
			m.Offset = int(offset)
		}
	}
	if len(tuple) > 3 {
		if length, ok := tuple[3].(float64); ok {
			m.Length = int(length)
		}
	}
	return m, nil
}
