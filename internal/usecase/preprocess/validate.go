package preprocess

import (
	"strings"

	"github.com/hanmun-cloud/textprep/internal/domain"
)

// validateInput checks the raw request payload and extracts the text to
// preprocess plus the removeStopwords option (default true).
func validateInput(payload map[string]any) (text string, removeStopwords bool, err error) {
	if len(payload) == 0 {
		return "", false, domain.NewValidation("empty payload")
	}

	raw, ok := payload["text"]
	if !ok || !truthy(raw) {
		return "", false, domain.NewValidation("missing text")
	}

	s, ok := raw.(string)
	if !ok {
		return "", false, domain.NewValidation("text not a string")
	}

	if strings.TrimSpace(s) == "" {
		return "", false, domain.NewValidation("blank text")
	}

	removeStopwords = true
	if v, ok := payload["removeStopwords"]; ok {
		removeStopwords = truthy(v)
	}

	return s, removeStopwords, nil
}

// truthy applies the loose truthiness the service has always used for
// the raw JSON values: null, false, 0, "", empty arrays and empty
// objects are falsy; everything else is truthy.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0
	case []any:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	default:
		return true
	}
}
