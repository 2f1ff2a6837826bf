// Package preprocess turns raw text into the filtered token
// representation that the downstream TextRank summarizer consumes:
// per-sentence token/tag sequences, a key-term set and aggregate stats.
package preprocess

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hanmun-cloud/textprep/internal/domain"
	"github.com/hanmun-cloud/textprep/internal/domain/stopword"
	"github.com/hanmun-cloud/textprep/internal/logger"
	"github.com/hanmun-cloud/textprep/internal/metrics"
)

// Service runs the preprocessing pipeline for one request at a time.
// It holds no request-scoped state, so a single instance serves
// concurrent requests.
type Service struct {
	segmenter Segmenter
	analyzer  Analyzer
	stopwords *stopword.Set
}

// New creates a preprocessing service.
func New(segmenter Segmenter, analyzer Analyzer, stopwords *stopword.Set) *Service {
	return &Service{segmenter: segmenter, analyzer: analyzer, stopwords: stopwords}
}

// Preprocess runs one request through the full pipeline: validate,
// segment, analyze per sentence, extract key terms, aggregate stats.
// A failure inside a single sentence drops that sentence only; any
// other failure aborts the request.
func (s *Service) Preprocess(ctx context.Context, payload map[string]any) (domain.PreprocessingResult, error) {
	log := logger.FromContext(ctx)

	requestID := domain.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = domain.NewRequestID()
		log = log.With(zap.String("request_id", requestID))
	}

	start := time.Now()
	log.Info("preprocessing started")

	text, removeStopwords, err := validateInput(payload)
	if err != nil {
		log.Warn("input validation failed", zap.Error(err))
		return domain.PreprocessingResult{}, err
	}
	log.Info("input validated",
		zap.Int("text_length", len([]rune(text))),
		zap.Bool("remove_stopwords", removeStopwords),
	)

	segStart := time.Now()
	spans, err := s.segmenter.Segment(ctx, text)
	if err != nil {
		return domain.PreprocessingResult{}, fmt.Errorf("segment text: %w", err)
	}

	sentences := make([]string, len(spans))
	for i, span := range spans {
		sentences[i] = span.Text
	}
	log.Info("sentences segmented",
		zap.Int("count", len(sentences)),
		zap.Duration("elapsed", time.Since(segStart)),
	)

	processed := make([]domain.ProcessedSentence, 0, len(sentences))
	for i, sentence := range sentences {
		ps, err := s.processSentence(ctx, i, sentence, removeStopwords)
		if err != nil {
			// Per-sentence fault isolation: log, drop, keep going.
			metrics.SentenceFailuresTotal.Inc()
			log.Warn("sentence processing failed",
				zap.Int("sentence_index", i),
				zap.Error(err),
			)
			continue
		}
		metrics.SentencesProcessedTotal.Inc()
		processed = append(processed, ps)
	}

	keyTerms := extractKeyTerms(processed)
	stats := aggregateStats(processed, len(keyTerms))

	log.Info("preprocessing finished",
		zap.Int("sentence_count", len(sentences)),
		zap.Int("processed_count", len(processed)),
		zap.Int("total_tokens", stats.TotalTokens),
		zap.Int("key_term_count", stats.KeyTermCount),
		zap.Duration("elapsed", time.Since(start)),
	)

	return domain.PreprocessingResult{
		RequestID:          requestID,
		Sentences:          sentences,
		ProcessedSentences: processed,
		KeyTerms:           keyTerms,
		SentenceCount:      len(sentences),
		Stats:              stats,
	}, nil
}

// processSentence analyzes one sentence and builds its record from the
// most probable parse. Lower-ranked candidates are never consulted.
func (s *Service) processSentence(
	ctx context.Context, index int, sentence string, removeStopwords bool,
) (domain.ProcessedSentence, error) {
	candidates, err := s.analyzer.Analyze(ctx, sentence)
	if err != nil {
		return domain.ProcessedSentence{}, fmt.Errorf("analyze: %w", err)
	}
	if len(candidates) == 0 {
		return domain.ProcessedSentence{}, domain.ErrNoParseCandidates
	}

	best := candidates[0]
	tokens := make([]string, 0, len(best))
	normalized := make([]string, 0, len(best))
	posTags := make([]string, 0, len(best))
	for _, m := range best {
		tokens = append(tokens, m.Form)
		normalized = append(normalized, strings.ToLower(m.Form))
		posTags = append(posTags, m.Tag)
	}

	if removeStopwords {
		tokens, normalized, posTags = s.filterStopwords(tokens, normalized, posTags)
	}

	return domain.ProcessedSentence{
		Index:      index,
		Sentence:   sentence,
		Tokens:     tokens,
		Normalized: normalized,
		PosTags:    posTags,
		TokenCount: len(tokens),
	}, nil
}

// filterStopwords drops every position whose normalized form is a
// stopword, keeping the three parallel sequences in lock-step.
func (s *Service) filterStopwords(
	tokens, normalized, posTags []string,
) ([]string, []string, []string) {
	ft := make([]string, 0, len(tokens))
	fn := make([]string, 0, len(normalized))
	fp := make([]string, 0, len(posTags))

	for i, n := range normalized {
		if s.stopwords.Contains(n) {
			continue
		}
		ft = append(ft, tokens[i])
		fn = append(fn, n)
		fp = append(fp, posTags[i])
	}
	return ft, fn, fp
}
