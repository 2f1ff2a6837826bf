// Package stopword holds the immutable set of normalized forms that
// are considered semantically empty and excluded from key-term
// extraction. The set is built once at startup and read-only afterwards,
// so concurrent requests share it without locking.
package stopword

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Set is an immutable stopword set keyed by normalized form.
type Set struct {
	words map[string]struct{}
}

// New builds a set from the given words. Duplicates collapse.
func New(words []string) *Set {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		if w != "" {
			m[w] = struct{}{}
		}
	}
	return &Set{words: m}
}

// Contains reports whether the normalized form is a stopword.
func (s *Set) Contains(form string) bool {
	_, ok := s.words[form]
	return ok
}

// Len returns the number of distinct stopwords.
func (s *Set) Len() int {
	return len(s.words)
}

// FromFile reads a newline-delimited stopword file. Blank lines and
// lines starting with # are skipped.
func FromFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open stopword file: %w", err)
	}
	defer f.Close()

	var words []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read stopword file: %w", err)
	}
	return words, nil
}
