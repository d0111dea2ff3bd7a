package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/railyard/pkg/ast"
	"github.com/matzehuels/railyard/pkg/diagram"
	"github.com/matzehuels/railyard/pkg/errors"
	"github.com/matzehuels/railyard/pkg/measure"
	"github.com/matzehuels/railyard/pkg/observability"
	"github.com/matzehuels/railyard/pkg/pipeline"
)

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(nil, nil, logger)
	opts = append([]Option{WithDefaults(pipeline.Options{Measurer: measure.KindMono})}, opts...)
	return New(runner, logger, opts...)
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("error body %q: %v", rec.Body.String(), err)
	}
	return resp
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
	if _, err := uuid.Parse(rec.Header().Get(RequestIDHeader)); err != nil {
		t.Errorf("X-Request-ID = %q is not a UUID", rec.Header().Get(RequestIDHeader))
	}
}

func TestRequestIDPassthrough(t *testing.T) {
	s := newTestServer(t)
	id := uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != id {
		t.Errorf("X-Request-ID = %q, want %q", got, id)
	}

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got == "not-a-uuid" {
		t.Error("invalid request IDs should be replaced")
	}
}

func TestLayoutPattern(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodPost, "/v1/layout", `{"pattern":"x?"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	doc, err := diagram.Unmarshal(rec.Body.Bytes())
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if doc.Pattern != "x?" || doc.Measurer != measure.KindMono {
		t.Errorf("doc source = %q/%q", doc.Pattern, doc.Measurer)
	}
	if len(doc.Diagram.Nodes) != 3 {
		t.Errorf("boxes = %d, want 3", len(doc.Diagram.Nodes))
	}
}

func TestLayoutTree(t *testing.T) {
	tree, err := ast.FromPattern("ab", "")
	if err != nil {
		t.Fatal(err)
	}
	raw, err := ast.Marshal(tree)
	if err != nil {
		t.Fatal(err)
	}

	rec := do(t, newTestServer(t), http.MethodPost, "/v1/layout", `{"tree":`+string(raw)+`}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	doc, err := diagram.Unmarshal(rec.Body.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if doc.Pattern != "" {
		t.Errorf("tree input should not carry a pattern, got %q", doc.Pattern)
	}
	if b, ok := doc.Diagram.Box("n1"); !ok || b.Text != "ab" {
		t.Errorf("box n1 = %+v, %v", b, ok)
	}
}

func TestTree(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodPost, "/v1/tree", `{"pattern":"a|bc"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	tree, err := ast.Unmarshal(rec.Body.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if n := ast.Count(tree); n != 5 {
		t.Errorf("node count = %d, want 5", n)
	}
}

func TestRender(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/v1/render", `{"pattern":"a+","style":"handdrawn"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), `id="pencil"`) {
		t.Error("handdrawn style was not applied")
	}

	rec = do(t, s, http.MethodPost, "/v1/render?format=png", `{"pattern":"a+"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("png status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.HasPrefix(rec.Body.String(), "\x89PNG") {
		t.Error("png body is not a PNG")
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		body     string
		wantCode errors.Code
	}{
		{"bad json", "/v1/layout", `{"pattern":`, errors.ErrCodeInvalidInput},
		{"bad pattern", "/v1/layout", `{"pattern":"(ab"}`, errors.ErrCodeInvalidPattern},
		{"bad flags", "/v1/layout", `{"pattern":"a","flags":"g"}`, errors.ErrCodeInvalidPattern},
		{"bad format", "/v1/render?format=gif", `{"pattern":"a"}`, errors.ErrCodeInvalidFormat},
		{"bad style", "/v1/render", `{"pattern":"a","style":"neon"}`, errors.ErrCodeInvalidStyle},
		{"bad measurer", "/v1/layout", `{"pattern":"a","measurer":"ruler"}`, errors.ErrCodeInvalidInput},
		{"both inputs", "/v1/layout", `{"pattern":"a","tree":{"chain":[]}}`, errors.ErrCodeInvalidInput},
		{"empty tree", "/v1/layout", `{"tree":{"chain":[]}}`, errors.ErrCodeInvalidTree},
		{"bad config", "/v1/layout", `{"pattern":"a","config":{"font_size":0}}`, errors.ErrCodeInvalidConfig},
	}
	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, tt.target, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
			}
			resp := decodeError(t, rec)
			if resp.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", resp.Code, tt.wantCode)
			}
			if resp.RequestID == "" {
				t.Error("error response should carry the request ID")
			}
		})
	}
}

func TestMaxBodyBytes(t *testing.T) {
	s := newTestServer(t, WithMaxBodyBytes(16))
	rec := do(t, s, http.MethodPost, "/v1/layout", `{"pattern":"`+strings.Repeat("a", 64)+`"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/v1/layout", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

type recordingHooks struct {
	observability.NoopHTTPHooks
	mu        sync.Mutex
	requests  []string
	responses []int
}

func (h *recordingHooks) OnRequest(_ context.Context, method, _, path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests = append(h.requests, method+" "+path)
}

func (h *recordingHooks) OnResponse(_ context.Context, _, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.responses = append(h.responses, status)
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	s := newTestServer(t)
	do(t, s, http.MethodGet, "/healthz", "")
	do(t, s, http.MethodPost, "/v1/layout", `{"pattern":"("}`)

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if strings.Join(hooks.requests, ",") != "GET /healthz,POST /v1/layout" {
		t.Errorf("requests = %v", hooks.requests)
	}
	if len(hooks.responses) != 2 || hooks.responses[0] != 200 || hooks.responses[1] != 400 {
		t.Errorf("responses = %v", hooks.responses)
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	s := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("ListenAndServe() did not return after cancel")
	}
}
