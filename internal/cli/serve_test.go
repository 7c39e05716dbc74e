package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	charmlog "github.com/charmbracelet/log"

	"github.com/matzehuels/strut/pkg/cache"
)

func newTestServer(t *testing.T) *server {
	t.Helper()
	store := cache.NewMemoryCache()
	t.Cleanup(func() { store.Close() })
	return &server{
		logger: newLogger(io.Discard, charmlog.ErrorLevel),
		store:  store,
		keyer:  cache.NewDefaultKeyer(),
	}
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestServeHealth(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestServeSolve(t *testing.T) {
	s := newTestServer(t)
	handler := s.routes()

	body := solveAPIRequest{Rules: []string{"length(20)", "fill(1)"}, Total: 100}
	rec := postJSON(t, handler, "/api/v1/solve", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp solveAPIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Sizes) != 2 || resp.Sizes[0] != 20 || resp.Sizes[1] != 80 {
		t.Errorf("sizes = %v, want [20 80]", resp.Sizes)
	}
	if resp.Cached {
		t.Error("first request should not be cached")
	}

	// Identical request hits the cache.
	rec = postJSON(t, handler, "/api/v1/solve", body)
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Cached {
		t.Error("second request should be cached")
	}
	if resp.Sizes[0] != 20 || resp.Sizes[1] != 80 {
		t.Errorf("cached sizes = %v, want [20 80]", resp.Sizes)
	}
}

func TestServeSolveInvalid(t *testing.T) {
	s := newTestServer(t)
	handler := s.routes()

	tests := []struct {
		name string
		body solveAPIRequest
	}{
		{"bad rule", solveAPIRequest{Rules: []string{"grow(1)"}, Total: 100}},
		{"negative total", solveAPIRequest{Rules: []string{"fill(1)"}, Total: -1}},
		{"bad flex", solveAPIRequest{Rules: []string{"fill(1)"}, Total: 100, Flex: "sideways"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, handler, "/api/v1/solve", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body: %s)", rec.Code, rec.Body.String())
			}
			var envelope apiError
			if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
				t.Fatal(err)
			}
			if envelope.Error.Code == "" || envelope.Error.Message == "" {
				t.Errorf("incomplete error envelope: %+v", envelope)
			}
		})
	}
}

func TestServeSolveMalformedBody(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/solve", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestServeSplit(t *testing.T) {
	s := newTestServer(t)
	handler := s.routes()

	body := splitAPIRequest{
		Area:  rectJSON{Width: 100, Height: 40},
		Rules: []string{"percent(25)", "fill(1)"},
	}
	rec := postJSON(t, handler, "/api/v1/split", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp splitAPIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	want := []rectJSON{
		{X: 0, Y: 0, Width: 25, Height: 40},
		{X: 25, Y: 0, Width: 75, Height: 40},
	}
	if len(resp.Rects) != len(want) {
		t.Fatalf("got %d rects, want %d", len(resp.Rects), len(want))
	}
	for i := range want {
		if resp.Rects[i] != want[i] {
			t.Errorf("rect[%d] = %+v, want %+v", i, resp.Rects[i], want[i])
		}
	}
}

func TestServeSplitVertical(t *testing.T) {
	s := newTestServer(t)

	body := splitAPIRequest{
		Area:      rectJSON{Width: 80, Height: 24},
		Direction: "vertical",
		Rules:     []string{"length(3)", "fill(1)"},
	}
	rec := postJSON(t, s.routes(), "/api/v1/split", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp splitAPIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Rects[0].Height != 3 || resp.Rects[1].Height != 21 {
		t.Errorf("heights = %d,%d, want 3,21", resp.Rects[0].Height, resp.Rects[1].Height)
	}
	if resp.Rects[1].Y != 3 {
		t.Errorf("second rect Y = %d, want 3", resp.Rects[1].Y)
	}
}

func TestOpenServeCacheBackends(t *testing.T) {
	ctx := t.Context()

	store, err := openServeCache(ctx, "memory", "", "")
	if err != nil {
		t.Fatalf("memory backend: %v", err)
	}
	store.Close()

	store, err = openServeCache(ctx, "none", "", "")
	if err != nil {
		t.Fatalf("none backend: %v", err)
	}
	store.Close()

	if _, err := openServeCache(ctx, "etcd", "", ""); err == nil {
		t.Error("unknown backend should fail")
	}
}
