// Package client is a small HTTP client for the textprep API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// Client calls a running textprep server.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
	timeout time.Duration
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

// WithAPIKey sets the Bearer token sent with every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithTimeout sets the request timeout. Combined with WithHTTPClient it
// applies to a copy, leaving the caller's client untouched.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// New creates a client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpc:   &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	if c.timeout > 0 {
		httpc := *c.httpc
		httpc.Timeout = c.timeout
		c.httpc = &httpc
	}
	return c
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string `json:"error"`
	RequestID  string `json:"requestId"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("textprep: %s (status %d, request %s)", e.Message, e.StatusCode, e.RequestID)
}

// PreprocessResult is the response of PreprocessForTextRank.
type PreprocessResult struct {
	RequestID          string              `json:"requestId"`
	Sentences          []string            `json:"sentences"`
	ProcessedSentences []ProcessedSentence `json:"processedSentences"`
	KeyTerms           []string            `json:"keyTerms"`
	SentenceCount      int                 `json:"sentenceCount"`
	Stats              Stats               `json:"stats"`
}

// ProcessedSentence is one sentence's token record.
type ProcessedSentence struct {
	Index      int      `json:"index"`
	Sentence   string   `json:"sentence"`
	Tokens     []string `json:"tokens"`
	Normalized []string `json:"normalized"`
	PosTags    []string `json:"posTags"`
	TokenCount int      `json:"tokenCount"`
}

// Stats aggregates token counts over a result.
type Stats struct {
	TotalTokens          int     `json:"totalTokens"`
	AvgTokensPerSentence float64 `json:"avgTokensPerSentence"`
	KeyTermCount         int     `json:"keyTermCount"`
}

// PreprocessOptions tunes the preprocessing pipeline.
type PreprocessOptions struct {
	// KeepStopwords disables stopword removal.
	KeepStopwords bool
}

// PreprocessForTextRank runs the full preprocessing pipeline on text.
func (c *Client) PreprocessForTextRank(
	ctx context.Context, text string, opts *PreprocessOptions,
) (PreprocessResult, error) {
	body := map[string]any{"text": text}
	if opts != nil && opts.KeepStopwords {
		body["removeStopwords"] = false
	}

	var result PreprocessResult
	if err := c.post(ctx, "/preprocess-for-textrank", body, &result); err != nil {
		return PreprocessResult{}, err
	}
	return result, nil
}

// Tokenize returns content-bearing tokens of text.
func (c *Client) Tokenize(ctx context.Context, text string) ([]string, error) {
	var resp struct {
		Tokens []string `json:"tokens"`
	}
	if err := c.post(ctx, "/tokenize", map[string]any{"text": text}, &resp); err != nil {
		return nil, err
	}
	return resp.Tokens, nil
}

// SplitSentences returns the ordered sentences of text.
func (c *Client) SplitSentences(ctx context.Context, text string) ([]string, error) {
	var resp struct {
		Sentences []string `json:"sentences"`
	}
	if err := c.post(ctx, "/sentence-split", map[string]any{"text": text}, &resp); err != nil {
		return nil, err
	}
	return resp.Sentences, nil
}

// Health reports the server's component health.
func (c *Client) Health(ctx context.Context) (status string, checks map[string]string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return "", nil, fmt.Errorf("textprep: build request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("textprep: health request: %w", err)
	}
	defer resp.Body.Close()

	var decoded struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", nil, fmt.Errorf("textprep: decode health response: %w", err)
	}
	return decoded.Status, decoded.Checks, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("textprep: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("textprep: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("textprep: request %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("textprep: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: "unexpected response"}
		_ = json.Unmarshal(data, apiErr)
		return apiErr
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("textprep: decode response: %w", err)
	}
	return nil
}
