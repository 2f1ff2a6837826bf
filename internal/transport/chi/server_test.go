package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hanmun-cloud/textprep/internal/domain"
	"github.com/hanmun-cloud/textprep/internal/domain/stopword"

	analysisuc "github.com/hanmun-cloud/textprep/internal/usecase/analysis"
	healthuc "github.com/hanmun-cloud/textprep/internal/usecase/health"
	preprocessuc "github.com/hanmun-cloud/textprep/internal/usecase/preprocess"
)

// --- Mocks ---

type mockEngine struct {
	spans      []domain.SentenceSpan
	candidates []domain.ParseCandidate
	morphemes  []domain.Morpheme
	tokens     []string
	err        error
	healthErr  error
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

func (m *mockEngine) Tokenize(_ context.Context, _ string) ([]string, error) {
	return m.tokens, m.err
}

func (m *mockEngine) HealthCheck(_ context.Context) error { return m.healthErr }

func newTestRouter(engine *mockEngine) http.Handler {
	logger := zap.NewNop()
	preprocessSvc := preprocessuc.New(engine, engine, stopword.New(stopword.Korean()))
	analysisSvc := analysisuc.New(engine)
	healthSvc := healthuc.New(engine, nil)

	server := NewServer(preprocessSvc, analysisSvc, healthSvc, logger)
	r := chi.NewRouter()
	server.Register(r)
	return r
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var decoded map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("response is not JSON: %v (body %q)", err, rec.Body.String())
	}
	return rec, decoded
}

// --- Tests ---

func TestPreprocessForTextRank(t *testing.T) {
	engine := &mockEngine{
		spans: []domain.SentenceSpan{{Text: "고양이가 달린다."}},
		candidates: []domain.ParseCandidate{
			{{Form: "고양이", Tag: "NNG"}, {Form: "가", Tag: "JKS"}, {Form: "달리", Tag: "VV"}},
		},
	}
	handler := newTestRouter(engine)

	rec, body := doJSON(t, handler, http.MethodPost, "/preprocess-for-textrank",
		`{"text": "고양이가 달린다."}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rid, ok := body["requestId"].(string); !ok || rid == "" {
		t.Error("expected a requestId in the response")
	}
	if body["sentenceCount"] != float64(1) {
		t.Errorf("expected sentenceCount 1, got %v", body["sentenceCount"])
	}
	sentences, ok := body["sentences"].([]any)
	if !ok || len(sentences) != 1 {
		t.Errorf("unexpected sentences: %v", body["sentences"])
	}
}

func TestPreprocessForTextRank_StopwordsFiltered(t *testing.T) {
	engine := &mockEngine{
		spans: []domain.SentenceSpan{{Text: "고양이 이 달린다."}},
		candidates: []domain.ParseCandidate{
			{{Form: "고양이", Tag: "NNG"}, {Form: "이", Tag: "JKS"}, {Form: "달리", Tag: "VV"}},
		},
	}
	handler := newTestRouter(engine)

	rec, body := doJSON(t, handler, http.MethodPost, "/preprocess-for-textrank",
		`{"text": "고양이 이 달린다."}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	processed := body["processedSentences"].([]any)
	tokens := processed[0].(map[string]any)["tokens"].([]any)
	if len(tokens) != 2 {
		t.Fatalf("expected the built-in stopword to be removed, got tokens %v", tokens)
	}
	for _, tok := range tokens {
		if tok == "이" {
			t.Errorf("stopword survived filtering: %v", tokens)
		}
	}
}

func TestPreprocessForTextRank_MissingText(t *testing.T) {
	handler := newTestRouter(&mockEngine{})

	rec, body := doJSON(t, handler, http.MethodPost, "/preprocess-for-textrank", `{}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body["error"] != "empty payload" {
		t.Errorf("unexpected error message: %v", body["error"])
	}
	if _, ok := body["requestId"]; !ok {
		t.Error("error response must carry requestId")
	}
}

func TestPreprocessForTextRank_MalformedBody(t *testing.T) {
	handler := newTestRouter(&mockEngine{})

	rec, _ := doJSON(t, handler, http.MethodPost, "/preprocess-for-textrank", `{"text": `)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPreprocessForTextRank_AnalyzerDown(t *testing.T) {
	engine := &mockEngine{err: domain.ErrAnalyzerUnavailable}
	handler := newTestRouter(engine)

	rec, body := doJSON(t, handler, http.MethodPost, "/preprocess-for-textrank",
		`{"text": "안녕하세요."}`)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	if body["error"] == "" {
		t.Error("expected an error message")
	}
}

func TestMorpheme_TupleShape(t *testing.T) {
	engine := &mockEngine{candidates: []domain.ParseCandidate{
		{{Form: "고양이", Tag: "NNG", Offset: 0, Length: 3}},
	}}
	handler := newTestRouter(engine)

	rec, body := doJSON(t, handler, http.MethodPost, "/morpheme", `{"text": "고양이"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	result, ok := body["result"].([]any)
	if !ok || len(result) != 1 {
		t.Fatalf("unexpected result: %v", body["result"])
	}
	tuples := result[0].([]any)
	tuple := tuples[0].([]any)
	if tuple[0] != "고양이" || tuple[1] != "NNG" || tuple[2] != float64(0) || tuple[3] != float64(3) {
		t.Errorf("unexpected tuple: %v", tuple)
	}
}

func TestSentenceSplit(t *testing.T) {
	engine := &mockEngine{spans: []domain.SentenceSpan{
		{Text: "안녕하세요."}, {Text: "반갑습니다."},
	}}
	handler := newTestRouter(engine)

	rec, body := doJSON(t, handler, http.MethodPost, "/sentence-split",
		`{"text": "안녕하세요. 반갑습니다."}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body["count"] != float64(2) {
		t.Errorf("expected count 2, got %v", body["count"])
	}
}

func TestSentenceSplit_MissingText(t *testing.T) {
	handler := newTestRouter(&mockEngine{})

	rec, body := doJSON(t, handler, http.MethodPost, "/sentence-split", `{}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body["error"] != "missing text" {
		t.Errorf("unexpected error message: %v", body["error"])
	}
}

func TestTokenize(t *testing.T) {
	engine := &mockEngine{tokens: []string{"고양이", "가"}}
	handler := newTestRouter(engine)

	rec, body := doJSON(t, handler, http.MethodPost, "/tokenize", `{"text": "고양이가"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body["count"] != float64(2) {
		t.Errorf("expected count 2, got %v", body["count"])
	}
}

func TestAnalyze_Offsets(t *testing.T) {
	engine := &mockEngine{morphemes: []domain.Morpheme{
		{Form: "달리", Tag: "VV", Offset: 8, Length: 2},
	}}
	handler := newTestRouter(engine)

	rec, body := doJSON(t, handler, http.MethodPost, "/analyze", `{"text": "고양이가 빠르게 달린다."}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	tokens := body["tokens"].([]any)
	token := tokens[0].(map[string]any)
	if token["start"] != float64(8) || token["end"] != float64(10) {
		t.Errorf("unexpected offsets: %v", token)
	}
}

func TestServiceInfo(t *testing.T) {
	handler := newTestRouter(&mockEngine{})

	rec, body := doJSON(t, handler, http.MethodGet, "/", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body["service"] != "textprep" {
		t.Errorf("unexpected service name: %v", body["service"])
	}
}

func TestHealth_OK(t *testing.T) {
	handler := newTestRouter(&mockEngine{})

	rec, body := doJSON(t, handler, http.MethodGet, "/health", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body["status"] != "ok" {
		t.Errorf("unexpected status: %v", body["status"])
	}
}

func TestHealth_Degraded(t *testing.T) {
	handler := newTestRouter(&mockEngine{healthErr: context.DeadlineExceeded})

	rec, body := doJSON(t, handler, http.MethodGet, "/health", "")

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if body["status"] != "degraded" {
		t.Errorf("unexpected status: %v", body["status"])
	}
}
