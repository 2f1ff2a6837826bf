package preprocess

import (
	"sort"
	"strings"

	"github.com/hanmun-cloud/textprep/internal/domain"
)

// extractKeyTerms collects the normalized forms tagged as
// content-bearing parts of speech: noun family (N*), verb family (V*)
// and the adjective tag VA. Membership is the contract; the sorted
// order is only for stable responses.
func extractKeyTerms(processed []domain.ProcessedSentence) []string {
	seen := make(map[string]struct{})
	for _, ps := range processed {
		for i, tag := range ps.PosTags {
			if strings.HasPrefix(tag, "N") || strings.HasPrefix(tag, "V") || tag == "VA" {
				seen[ps.Normalized[i]] = struct{}{}
			}
		}
	}

	terms := make([]string, 0, len(seen))
	for t := range seen {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	return terms
}

// aggregateStats totals token counts over the processed sentences.
// The average is 0 when no sentence survived processing.
func aggregateStats(processed []domain.ProcessedSentence, keyTermCount int) domain.Stats {
	total := 0
	for _, ps := range processed {
		total += ps.TokenCount
	}

	avg := 0.0
	if len(processed) > 0 {
		avg = float64(total) / float64(len(processed))
	}

	return domain.Stats{
		TotalTokens:          total,
		AvgTokensPerSentence: avg,
		KeyTermCount:         keyTermCount,
	}
}
