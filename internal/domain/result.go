package domain

// ProcessedSentence is the per-sentence output of the preprocessing
// pipeline. Tokens, Normalized and PosTags are parallel sequences of
// length TokenCount; filtering keeps them in lock-step.
type ProcessedSentence struct {
	Index      int      `json:"index"`
	Sentence   string   `json:"sentence"`
	Tokens     []string `json:"tokens"`
	Normalized []string `json:"normalized"`
	PosTags    []string `json:"posTags"`
	TokenCount int      `json:"tokenCount"`
}

// Stats aggregates token counts over the processed sentences.
// AvgTokensPerSentence is 0 when no sentence survived processing.
type Stats struct {
	TotalTokens          int     `json:"totalTokens"`
	AvgTokensPerSentence float64 `json:"avgTokensPerSentence"`
	KeyTermCount         int     `json:"keyTermCount"`
}

// PreprocessingResult is the full response of one preprocessing request.
// SentenceCount always equals len(Sentences); ProcessedSentences may be
// shorter when individual sentences failed analysis, in which case their
// Index values show gaps.
type PreprocessingResult struct {
	RequestID          string              `json:"requestId"`
	Sentences          []string            `json:"sentences"`
	ProcessedSentences []ProcessedSentence `json:"processedSentences"`
	KeyTerms           []string            `json:"keyTerms"`
	SentenceCount      int                 `json:"sentenceCount"`
	Stats              Stats               `json:"stats"`
}
