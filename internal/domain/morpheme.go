package domain

// Morpheme is the smallest meaningful unit produced by morphological
// analysis: a surface form plus its part-of-speech tag and position
// within the analyzed sentence.
type Morpheme struct {
	Form   string
	Tag    string
	Offset int
	Length int
}

// ParseCandidate is one possible analysis of a sentence, an ordered
// morpheme sequence. The analyzer returns candidates ranked by
// probability; index 0 is the most probable parse.
type ParseCandidate []Morpheme

// SentenceSpan is one sentence produced by the segmenter. Spans arrive
// in document order and are never reordered.
type SentenceSpan struct {
	Text string
}
