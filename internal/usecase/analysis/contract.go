package analysis

import (
	"context"

	"github.com/hanmun-cloud/textprep/internal/domain"
)

// Engine is the morphological engine surface exposed by the passthrough
// endpoints: segmentation, ranked analysis, flat analysis, tokenization.
type Engine interface {
	Segment(ctx context.Context, text string) ([]domain.SentenceSpan, error)
	Analyze(ctx context.Context, sentence string) ([]domain.ParseCandidate, error)
	AnalyzeTokens(ctx context.Context, text string) ([]domain.Morpheme, error)
	Tokenize(ctx context.Context, text string) ([]string, error)
}
