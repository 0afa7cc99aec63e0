package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"docsynth/adapters/artifactrepo/file"
	"docsynth/internal/config"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	repo, err := file.New(t.TempDir())
	if err != nil {
		t.Fatalf("file.New: %v", err)
	}
	s := NewServer(cfg, repo)
	s.setupRoutes()
	return s
}

func TestProfileThenSynthesizeThenGenerateRoundTrip(t *testing.T) {
	s := testServer(t)

	body := `{"name":"alice","age":30}
{"name":"bob","age":40}
`
	req := httptest.NewRequest(http.MethodPost, "/runs/run-1/profile", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("profile: status = %d, body = %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/runs/run-1/synthesize", nil)
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("synthesize: status = %d, body = %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/runs/run-1/generate?count=5&seed=1", nil)
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("generate: status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Documents []map[string]interface{} `json:"documents"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding generate response: %v", err)
	}
	if len(resp.Documents) != 5 {
		t.Fatalf("expected 5 generated documents, got %d", len(resp.Documents))
	}
}

func TestGetInferredReturns404ForUnknownRun(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/runs/does-not-exist/inferred", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestValidateRejectsBeforeGenerationSchemaExists(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodPost, "/runs/no-schema/validate", bytes.NewBufferString(`{"a":1}`+"\n"))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
