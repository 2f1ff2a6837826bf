package analysis

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/hanmun-cloud/textprep/internal/domain"
)

// --- Mocks ---

type mockEngine struct {
	spans      []domain.SentenceSpan
	candidates []domain.ParseCandidate
	morphemes  []domain.Morpheme
	tokens     map[string][]string
	err        error
}

func (m *mockEngine) Segment(_ context.Context, _ string) ([]domain.SentenceSpan, error) {
	return m.spans, m.err
}

func (m *mockEngine) Analyze(_ context.Context, _ string) ([]domain.ParseCandidate, error) {
	return m.candidates, m.err
}

func (m *mockEngine) AnalyzeTokens(_ context.Context, _ string) ([]domain.Morpheme, error) {
	return m.morphemes, m.err
}

func (m *mockEngine) Tokenize(_ context.Context, text string) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.tokens[text], nil
}

// --- Tests ---

func TestMorpheme(t *testing.T) {
	engine := &mockEngine{candidates: []domain.ParseCandidate{
		{{Form: "고양이", Tag: "NNG"}},
	}}
	svc := New(engine)

	candidates, err := svc.Morpheme(context.Background(), "고양이")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 1 {
		t.Errorf("expected 1 candidate, got %d", len(candidates))
	}
}

func TestSplitSentences(t *testing.T) {
	engine := &mockEngine{spans: []domain.SentenceSpan{
		{Text: "안녕하세요."}, {Text: "반갑습니다."},
	}}
	svc := New(engine)

	sentences, err := svc.SplitSentences(context.Background(), "안녕하세요. 반갑습니다.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"안녕하세요.", "반갑습니다."}
	if !reflect.DeepEqual(sentences, want) {
		t.Errorf("unexpected sentences: %v", sentences)
	}
}

func TestPreprocess(t *testing.T) {
	engine := &mockEngine{
		spans: []domain.SentenceSpan{{Text: "하나."}, {Text: "둘."}},
		tokens: map[string][]string{
			"하나.": {"하나", "."},
			"둘.":  {"둘", "."},
		},
	}
	svc := New(engine)

	sentences, tokenized, err := svc.Preprocess(context.Background(), "하나. 둘.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sentences) != 2 || len(tokenized) != 2 {
		t.Fatalf("expected 2 sentences and 2 token lists, got %d/%d", len(sentences), len(tokenized))
	}
	if !reflect.DeepEqual(tokenized[0], []string{"하나", "."}) {
		t.Errorf("unexpected tokens for first sentence: %v", tokenized[0])
	}
}

func TestAnalyze(t *testing.T) {
	engine := &mockEngine{morphemes: []domain.Morpheme{
		{Form: "달리", Tag: "VV", Offset: 8, Length: 2},
	}}
	svc := New(engine)

	morphemes, err := svc.Analyze(context.Background(), "고양이가 빠르게 달린다.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(morphemes) != 1 || morphemes[0].Tag != "VV" {
		t.Errorf("unexpected morphemes: %+v", morphemes)
	}
}

func TestRequireText(t *testing.T) {
	svc := New(&mockEngine{})

	for _, text := range []string{"", "   "} {
		if _, err := svc.Tokenize(context.Background(), text); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("text %q: expected ErrValidation, got %v", text, err)
		}
	}
}

func TestEngineErrorPropagates(t *testing.T) {
	wantErr := errors.New("engine down")
	svc := New(&mockEngine{err: wantErr})

	if _, err := svc.Morpheme(context.Background(), "x"); !errors.Is(err, wantErr) {
		t.Errorf("expected engine error, got %v", err)
	}
	if _, _, err := svc.Preprocess(context.Background(), "x"); !errors.Is(err, wantErr) {
		t.Errorf("expected engine error, got %v", err)
	}
}
