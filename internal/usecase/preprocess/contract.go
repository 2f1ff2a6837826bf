package preprocess

import (
	"context"

	"github.com/hanmun-cloud/textprep/internal/domain"
)

// Segmenter splits raw text into ordered sentence spans.
type Segmenter interface {
	Segment(ctx context.Context, text string) ([]domain.SentenceSpan, error)
}

// Analyzer returns ranked parse candidates for one sentence.
// Rank 0 must be the most probable parse.
type Analyzer interface {
	Analyze(ctx context.Context, sentence string) ([]domain.ParseCandidate, error)
}
