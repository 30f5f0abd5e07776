package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/af-corp/scribe/internal/auth"
	"github.com/af-corp/scribe/internal/generator"
	"github.com/af-corp/scribe/internal/httputil"
	"github.com/af-corp/scribe/internal/pricing"
	"github.com/af-corp/scribe/internal/provider"
	"github.com/af-corp/scribe/internal/sanitize"
	"github.com/af-corp/scribe/internal/template"
	"github.com/af-corp/scribe/internal/types"
)

func testServer(t *testing.T, opts Options) (http.Handler, *provider.Mock) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := template.NewStore()
	store.Register(template.Template{
		Name:               "greet",
		Category:           "test",
		SystemInstructions: "Say hello to ${name}.",
		RequiredVariables:  []string{"name"},
	})

	mock := provider.NewMock(provider.MockResponse{Completion: &provider.Completion{
		Content:          "Hello, Ada!",
		FinishReason:     "stop",
		PromptTokens:     10,
		CompletionTokens: 5,
	}})

	gen := generator.New(store, mock, pricing.NewTable(nil, logger),
		generator.Options{Model: "gpt-3.5-turbo", CacheEnabled: true},
		generator.WithLogger(logger),
		generator.WithScanner(sanitize.NewScanner(true)))

	return Routes(NewHandler(gen, logger), opts), mock
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestGenerateEndpoint(t *testing.T) {
	handler, _ := testServer(t, Options{})

	w := doJSON(t, handler, http.MethodPost, "/v1/generate",
		`{"template":"greet","variables":{"name":"Ada"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}

	var result types.GenerationResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if result.Content != "Hello, Ada!" {
		t.Errorf("content = %q", result.Content)
	}
	if result.Cached {
		t.Error("first call should not be cached")
	}
	if result.RequestID == "" {
		t.Error("result should carry the request id")
	}
}

func TestGenerateEndpointErrors(t *testing.T) {
	handler, _ := testServer(t, Options{})

	tests := []struct {
		name string
		body string
		want int
		code string
	}{
		{"bad json", `{`, http.StatusBadRequest, "invalid_request"},
		{"missing template", `{"variables":{}}`, http.StatusBadRequest, "invalid_request"},
		{"unknown template", `{"template":"nope"}`, http.StatusNotFound, "not_found"},
		{"missing variable", `{"template":"greet"}`, http.StatusBadRequest, "invalid_request"},
		{"blocked content", `{"template":"greet","variables":{"name":"x'; DROP TABLE users;--"}}`, 451, "content_blocked"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, handler, http.MethodPost, "/v1/generate", tt.body)
			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
			var apiErr httputil.APIError
			if err := json.Unmarshal(w.Body.Bytes(), &apiErr); err != nil {
				t.Fatalf("unmarshal error body: %v", err)
			}
			if apiErr.Error.Code != tt.code {
				t.Errorf("error code = %q, want %q", apiErr.Error.Code, tt.code)
			}
		})
	}
}

func TestGenerateEndpointUpstreamFailure(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := template.NewStore()
	store.Register(template.Template{Name: "t", SystemInstructions: "x"})

	t.Run("non-transient", func(t *testing.T) {
		mock := provider.NewMock(provider.MockResponse{
			Err: &provider.NonTransientError{StatusCode: 400, Err: http.ErrBodyNotAllowed},
		})
		gen := generator.New(store, mock, pricing.NewTable(nil, logger),
			generator.Options{}, generator.WithLogger(logger))
		handler := Routes(NewHandler(gen, logger), Options{})

		w := doJSON(t, handler, http.MethodPost, "/v1/generate", `{"template":"t"}`)
		if w.Code != http.StatusBadGateway {
			t.Errorf("expected 502, got %d", w.Code)
		}
	})

	t.Run("retries exhausted", func(t *testing.T) {
		mock := provider.NewMock(provider.MockResponse{
			Err: &provider.MaxRetriesError{Attempts: 3, Err: &provider.TransientError{StatusCode: 503}},
		})
		gen := generator.New(store, mock, pricing.NewTable(nil, logger),
			generator.Options{}, generator.WithLogger(logger))
		handler := Routes(NewHandler(gen, logger), Options{})

		w := doJSON(t, handler, http.MethodPost, "/v1/generate", `{"template":"t"}`)
		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("expected 503, got %d", w.Code)
		}
	})
}

func TestVariationsEndpoint(t *testing.T) {
	handler, mock := testServer(t, Options{})

	w := doJSON(t, handler, http.MethodPost, "/v1/variations",
		`{"template":"greet","variables":{"name":"Ada"},"count":3,"temperature_min":0.5,"temperature_max":1.0}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Variations []types.GenerationResult `json:"variations"`
		Count      int                      `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Count != 3 || len(resp.Variations) != 3 {
		t.Fatalf("expected 3 variations, got %d", resp.Count)
	}
	if resp.Variations[0].Temperature != 0.5 || resp.Variations[2].Temperature != 1.0 {
		t.Errorf("temperature sweep = %v ... %v",
			resp.Variations[0].Temperature, resp.Variations[2].Temperature)
	}
	if len(mock.Calls()) != 3 {
		t.Errorf("expected 3 provider calls, got %d", len(mock.Calls()))
	}
}

func TestEstimateEndpoint(t *testing.T) {
	handler, mock := testServer(t, Options{})

	w := doJSON(t, handler, http.MethodPost, "/v1/estimate",
		`{"template":"greet","variables":{"name":"Ada"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var est types.CostEstimate
	if err := json.Unmarshal(w.Body.Bytes(), &est); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if est.EstimatedTotalTokens <= 0 {
		t.Error("estimate should report token counts")
	}
	if len(mock.Calls()) != 0 {
		t.Error("estimate must not call the provider")
	}
}

func TestTemplateEndpoints(t *testing.T) {
	handler, _ := testServer(t, Options{})

	w := doJSON(t, handler, http.MethodGet, "/v1/templates", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", w.Code)
	}
	var list struct {
		Templates []types.TemplateInfo `json:"templates"`
		Count     int                  `json:"count"`
	}
	json.Unmarshal(w.Body.Bytes(), &list)
	if list.Count != 1 || list.Templates[0].Name != "greet" {
		t.Errorf("unexpected listing: %+v", list)
	}

	w = doJSON(t, handler, http.MethodGet, "/v1/templates/greet", "")
	if w.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", w.Code)
	}

	w = doJSON(t, handler, http.MethodGet, "/v1/templates/nope", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("get unknown: expected 404, got %d", w.Code)
	}

	w = doJSON(t, handler, http.MethodPost, "/v1/templates",
		`{"name":"haiku","system_instructions":"Write a haiku about ${topic}.","required_variables":["topic"]}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, handler, http.MethodPost, "/v1/generate",
		`{"template":"haiku","variables":{"topic":"autumn"}}`)
	if w.Code != http.StatusOK {
		t.Errorf("registered template should be usable, got %d", w.Code)
	}

	w = doJSON(t, handler, http.MethodPost, "/v1/templates", `{"name":"  "}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("register without name: expected 400, got %d", w.Code)
	}
}

func TestStatisticsAndHistoryEndpoints(t *testing.T) {
	handler, _ := testServer(t, Options{})

	doJSON(t, handler, http.MethodPost, "/v1/generate", `{"template":"greet","variables":{"name":"Ada"}}`)
	doJSON(t, handler, http.MethodPost, "/v1/generate", `{"template":"greet","variables":{"name":"Ada"}}`)

	w := doJSON(t, handler, http.MethodGet, "/v1/statistics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var stats generator.Statistics
	json.Unmarshal(w.Body.Bytes(), &stats)
	if stats.TotalGenerations != 2 {
		t.Errorf("total generations = %d, want 2", stats.TotalGenerations)
	}
	if stats.CacheHits != 1 {
		t.Errorf("cache hits = %d, want 1", stats.CacheHits)
	}

	w = doJSON(t, handler, http.MethodGet, "/v1/history?limit=1", "")
	var hist struct {
		History []types.GenerationResult `json:"history"`
		Count   int                      `json:"count"`
	}
	json.Unmarshal(w.Body.Bytes(), &hist)
	if hist.Count != 1 {
		t.Errorf("limited history count = %d, want 1", hist.Count)
	}
	if hist.Count == 1 && !hist.History[0].Cached {
		t.Error("most recent entry should be the cached call")
	}

	w = doJSON(t, handler, http.MethodGet, "/v1/history?limit=x", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad limit: expected 400, got %d", w.Code)
	}
}

func TestClearCacheEndpoint(t *testing.T) {
	handler, mock := testServer(t, Options{})

	doJSON(t, handler, http.MethodPost, "/v1/generate", `{"template":"greet","variables":{"name":"Ada"}}`)

	w := doJSON(t, handler, http.MethodDelete, "/v1/cache", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp map[string]int
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["entries_dropped"] != 1 {
		t.Errorf("entries_dropped = %d, want 1", resp["entries_dropped"])
	}

	doJSON(t, handler, http.MethodPost, "/v1/generate", `{"template":"greet","variables":{"name":"Ada"}}`)
	if len(mock.Calls()) != 2 {
		t.Errorf("cleared cache should force a provider call, got %d", len(mock.Calls()))
	}
}

func TestClearHistoryAndResetStatisticsEndpoints(t *testing.T) {
	handler, _ := testServer(t, Options{})

	doJSON(t, handler, http.MethodPost, "/v1/generate", `{"template":"greet","variables":{"name":"Ada"}}`)

	w := doJSON(t, handler, http.MethodDelete, "/v1/history", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var dropped map[string]int
	json.Unmarshal(w.Body.Bytes(), &dropped)
	if dropped["entries_dropped"] != 1 {
		t.Errorf("entries_dropped = %d, want 1", dropped["entries_dropped"])
	}

	w = doJSON(t, handler, http.MethodDelete, "/v1/statistics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	w = doJSON(t, handler, http.MethodGet, "/v1/statistics", "")
	var stats generator.Statistics
	json.Unmarshal(w.Body.Bytes(), &stats)
	if stats.TotalGenerations != 0 {
		t.Errorf("statistics should be zeroed, got %d generations", stats.TotalGenerations)
	}

	w = doJSON(t, handler, http.MethodGet, "/v1/history", "")
	var hist map[string]json.RawMessage
	json.Unmarshal(w.Body.Bytes(), &hist)
	var entries []types.GenerationResult
	json.Unmarshal(hist["history"], &entries)
	if len(entries) != 0 {
		t.Errorf("history should be empty after clear, got %d entries", len(entries))
	}
}

func TestHealthEndpoint(t *testing.T) {
	handler, _ := testServer(t, Options{Version: "1.2.3"})

	w := doJSON(t, handler, http.MethodGet, "/scribe/v1/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["status"] != "healthy" || resp["version"] != "1.2.3" {
		t.Errorf("unexpected health payload: %v", resp)
	}
}

func TestAuthProtectedRoutes(t *testing.T) {
	key := "scribe-test-secret"
	handler, _ := testServer(t, Options{
		Keys: auth.NewStaticKeySet([]string{auth.HashKey(key)}),
	})

	w := doJSON(t, handler, http.MethodGet, "/v1/templates", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without key, got %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/templates", nil)
	req.Header.Set("Authorization", "Bearer "+key)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 with key, got %d", rec.Code)
	}

	// Health stays open
	w = doJSON(t, handler, http.MethodGet, "/scribe/v1/health", "")
	if w.Code != http.StatusOK {
		t.Errorf("health should not require auth, got %d", w.Code)
	}
}

type spendRecorderStub struct {
	keyID string
	micro int64
	calls int
}

func (s *spendRecorderStub) RecordSpend(_ context.Context, keyID string, costMicro int64) error {
	s.keyID = keyID
	s.micro += costMicro
	s.calls++
	return nil
}

func TestGenerateRecordsSpend(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := template.NewStore()
	store.Register(template.Template{
		Name:               "greet",
		SystemInstructions: "Say hello to ${name}.",
		RequiredVariables:  []string{"name"},
	})
	mock := provider.NewMock(provider.MockResponse{Completion: &provider.Completion{
		Content:          "Hello, Ada!",
		FinishReason:     "stop",
		PromptTokens:     100,
		CompletionTokens: 50,
	}})
	gen := generator.New(store, mock, pricing.NewTable(nil, logger),
		generator.Options{Model: "gpt-3.5-turbo", CacheEnabled: true},
		generator.WithLogger(logger))

	h := NewHandler(gen, logger)
	stub := &spendRecorderStub{}
	h.Spend = stub

	key := "scribe-test-secret"
	handler := Routes(h, Options{Keys: auth.NewStaticKeySet([]string{auth.HashKey(key)})})

	call := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v1/generate",
			strings.NewReader(`{"template":"greet","variables":{"name":"Ada"}}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+key)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	if w := call(); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if stub.calls != 1 {
		t.Fatalf("expected one spend record, got %d", stub.calls)
	}
	// 100 prompt + 50 completion tokens of gpt-3.5-turbo cost $0.000125
	if stub.micro != 125 {
		t.Errorf("spend = %d micro-dollars, want 125", stub.micro)
	}
	if want := auth.HashKey(key)[:12]; stub.keyID != want {
		t.Errorf("spend recorded for key %q, want %q", stub.keyID, want)
	}

	// Cache hits report the original cost but must not be charged.
	if w := call(); w.Code != http.StatusOK {
		t.Fatalf("expected 200 on cached call, got %d", w.Code)
	}
	if stub.calls != 1 {
		t.Errorf("cached call should not record spend, got %d records", stub.calls)
	}
}

func TestRequestIDPropagation(t *testing.T) {
	handler, _ := testServer(t, Options{})

	req := httptest.NewRequest(http.MethodGet, "/v1/statistics", nil)
	req.Header.Set("X-Request-ID", "req_custom_42")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "req_custom_42" {
		t.Errorf("caller-supplied request id should be echoed, got %q", got)
	}
}
