// Package analysis exposes the raw engine operations: morpheme
// candidates, sentence splitting, tokenization and flat analysis.
// These are thin passthroughs; the TextRank pipeline lives in the
// preprocess package.
package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/hanmun-cloud/textprep/internal/domain"
)

// Service forwards analysis requests to the morphological engine.
type Service struct {
	engine Engine
}

// New creates an analysis service.
func New(engine Engine) *Service {
	return &Service{engine: engine}
}

// Morpheme returns the ranked parse candidates for the text.
func (s *Service) Morpheme(ctx context.Context, text string) ([]domain.ParseCandidate, error) {
	if err := requireText(text); err != nil {
		return nil, err
	}
	candidates, err := s.engine.Analyze(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("analyze text: %w", err)
	}
	return candidates, nil
}

// SplitSentences returns the text split into ordered sentences.
func (s *Service) SplitSentences(ctx context.Context, text string) ([]string, error) {
	if err := requireText(text); err != nil {
		return nil, err
	}
	spans, err := s.engine.Segment(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("segment text: %w", err)
	}
	sentences := make([]string, len(spans))
	for i, span := range spans {
		sentences[i] = span.Text
	}
	return sentences, nil
}

// Tokenize returns the top-parse surface forms of the text.
func (s *Service) Tokenize(ctx context.Context, text string) ([]string, error) {
	if err := requireText(text); err != nil {
		return nil, err
	}
	tokens, err := s.engine.Tokenize(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("tokenize text: %w", err)
	}
	return tokens, nil
}

// Preprocess splits the text into sentences and tokenizes each one.
func (s *Service) Preprocess(ctx context.Context, text string) ([]string, [][]string, error) {
	sentences, err := s.SplitSentences(ctx, text)
	if err != nil {
		return nil, nil, err
	}

	tokenized := make([][]string, len(sentences))
	for i, sentence := range sentences {
		tokens, err := s.engine.Tokenize(ctx, sentence)
		if err != nil {
			return nil, nil, fmt.Errorf("tokenize sentence %d: %w", i, err)
		}
		tokenized[i] = tokens
	}
	return sentences, tokenized, nil
}

// Analyze returns the flat top-parse morphemes with offsets.
func (s *Service) Analyze(ctx context.Context, text string) ([]domain.Morpheme, error) {
	if err := requireText(text); err != nil {
		return nil, err
	}
	morphemes, err := s.engine.AnalyzeTokens(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("analyze tokens: %w", err)
	}
	return morphemes, nil
}

func requireText(text string) error {
	if strings.TrimSpace(text) == "" {
		return domain.NewValidation("missing text")
	}
	return nil
}
