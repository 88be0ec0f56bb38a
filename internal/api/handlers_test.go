package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/Aman-CERP/motiva/internal/config"
	"github.com/Aman-CERP/motiva/internal/ftm/catalog"
	"github.com/Aman-CERP/motiva/internal/ftm/model"
	"github.com/Aman-CERP/motiva/internal/index/mock"
)

func newTestCatalogStore(t *testing.T) *catalog.Store {
	t.Helper()
	dir := t.TempDir()
	fetcher := testFetcher{}
	store, err := catalog.NewStore(fetcher, testLister{}, 0, dir, filepath.Join(dir, "snapshot.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	return store
}

type testFetcher struct{}

func (testFetcher) FetchManifest(_ context.Context) (*catalog.Manifest, error) {
	return &catalog.Manifest{
		Catalogs: []catalog.ManifestCatalog{{URL: "https://example.test/catalog.json", Scope: "default"}},
	}, nil
}

func (testFetcher) FetchCatalog(_ context.Context, _ string) (*catalog.Document, error) {
	return &catalog.Document{Datasets: []catalog.CatalogDataset{
		{Name: "default", Children: []string{"sanctions"}},
		{Name: "sanctions", Version: "1"},
	}}, nil
}

type testLister struct{}

func (testLister) ListIndices(_ context.Context) ([]catalog.IndexVersion, error) {
	return nil, nil
}

func newTestService(t *testing.T) (*Service, *mock.Index) {
	t.Helper()
	idx := mock.New()
	store := newTestCatalogStore(t)
	return NewService(idx, store), idx
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHandleMatchExactNameScoresOne(t *testing.T) {
	svc, idx := newTestService(t)
	idx.Put(&model.Entity{
		ID:       "e1",
		Schema:   "Person",
		Datasets: []string{"sanctions"},
		Properties: model.Properties{Strings: map[string][]string{
			"name": {"Vladimir Putin"},
		}},
	})

	router := NewRouter(svc, config.ServerConfig{}, testLogger(), "test")

	body := matchRequestBody{Queries: map[string]*model.SearchEntity{
		"q1": {Schema: "Person", Properties: map[string][]string{"name": {"Vladimir Putin"}}},
	}}
	raw, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/match/default", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp matchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	q1 := resp.Responses["q1"]
	if len(q1.Results) != 1 {
		t.Fatalf("results = %v, want exactly one hit", q1.Results)
	}
	if q1.Results[0].Score < 0.999 {
		t.Errorf("score = %v, want ~1.0 for an identical name", q1.Results[0].Score)
	}
	if !q1.Results[0].Match {
		t.Error("match = false, want true at the default threshold")
	}
}

func TestHandleMatchRejectsEmptyQueries(t *testing.T) {
	svc, _ := newTestService(t)
	router := NewRouter(svc, config.ServerConfig{}, testLogger(), "test")

	req := httptest.NewRequest(http.MethodPost, "/match/default", bytes.NewReader([]byte(`{"queries":{}}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestHandleMatchRejectsWrongContentType(t *testing.T) {
	svc, _ := newTestService(t)
	router := NewRouter(svc, config.ServerConfig{}, testLogger(), "test")

	req := httptest.NewRequest(http.MethodPost, "/match/default", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status = %d, want 415", rec.Code)
	}
}

func TestHandleEntityNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	router := NewRouter(svc, config.ServerConfig{}, testLogger(), "test")

	req := httptest.NewRequest(http.MethodGet, "/entities/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHandleEntityRedirectsReferent(t *testing.T) {
	svc, idx := newTestService(t)
	idx.Put(&model.Entity{ID: "canonical", Schema: "Person", Referents: []string{"alias-1"}})

	router := NewRouter(svc, config.ServerConfig{}, testLogger(), "test")

	req := httptest.NewRequest(http.MethodGet, "/entities/alias-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusPermanentRedirect {
		t.Fatalf("status = %d, want 308", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/entities/canonical" {
		t.Errorf("Location = %q, want /entities/canonical", loc)
	}
}

func TestHandleAuthRejectsMissingToken(t *testing.T) {
	svc, _ := newTestService(t)
	router := NewRouter(svc, config.ServerConfig{APIKey: "secret"}, testLogger(), "test")

	req := httptest.NewRequest(http.MethodGet, "/algorithms", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestHandleHealthzAlwaysOK(t *testing.T) {
	svc, _ := newTestService(t)
	router := NewRouter(svc, config.ServerConfig{APIKey: "secret"}, testLogger(), "test")

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (healthz bypasses auth)", rec.Code)
	}
}
