package domain

import "errors"

var (
	// ErrValidation signals malformed or missing request input.
	ErrValidation = errors.New("invalid input")
	// ErrAnalyzerUnavailable signals a morphological engine transport failure.
	ErrAnalyzerUnavailable = errors.New("analyzer unavailable")
	// ErrNoParseCandidates signals that the analyzer returned no parse for a sentence.
	ErrNoParseCandidates = errors.New("no parse candidates")
)

// ValidationError wraps ErrValidation with a human-readable reason
// that is safe to surface to the client.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }
func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidation creates a validation error with the given reason.
func NewValidation(reason string) error {
	return &ValidationError{Reason: reason}
}
