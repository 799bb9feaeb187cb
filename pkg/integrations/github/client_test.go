package github

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/rustprint/pkg/cache"
	rperrors "github.com/matzehuels/rustprint/pkg/errors"
	"github.com/matzehuels/rustprint/pkg/integrations"
)

func testClient(t *testing.T, serverURL, token string) *Client {
	t.Helper()
	backend, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewClient(backend, token, time.Hour).WithBaseURL(serverURL)
}

// tagServer serves pages of tags; pages beyond len(pages) are empty.
func tagServer(t *testing.T, pages [][]Tag, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/rust-lang/rust/tags" {
			http.NotFound(w, r)
			return
		}
		if hits != nil {
			hits.Add(1)
		}
		if got := r.URL.Query().Get("per_page"); got != "100" {
			t.Errorf("per_page = %q, want 100", got)
		}
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		w.Header().Set("Content-Type", "application/json")
		if page < 1 || page > len(pages) {
			w.Write([]byte("[]"))
			return
		}
		json.NewEncoder(w).Encode(pages[page-1])
	}))
}

func TestClient_AllTags(t *testing.T) {
	pages := [][]Tag{
		{{Name: "1.69.0", Commit: Commit{SHA: "84c898d65adf2f39a5a98507f1fe0ce10a2b8dbc"}}},
		{{Name: "1.63.0", Commit: Commit{SHA: "4b91a6ea7258a947e59c6522cd5898e7c0a6a88f"}}},
	}
	var hits atomic.Int32
	server := tagServer(t, pages, &hits)
	defer server.Close()

	c := testClient(t, server.URL, "")
	tags, err := c.AllTags(context.Background(), "rust-lang", "rust", false)
	if err != nil {
		t.Fatalf("AllTags: %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("got %d tags, want 2", len(tags))
	}
	if tags[0].Name != "1.69.0" || tags[1].Commit.SHA != "4b91a6ea7258a947e59c6522cd5898e7c0a6a88f" {
		t.Errorf("unexpected tags: %+v", tags)
	}
	if hits.Load() != 3 {
		t.Errorf("requests = %d, want 3 (two pages + empty terminator)", hits.Load())
	}
}

func TestClient_ListTagsCached(t *testing.T) {
	pages := [][]Tag{{{Name: "1.0.0", Commit: Commit{SHA: "55bd4f8ff2b323f317ae89e254ce87162d52a375"}}}}
	var hits atomic.Int32
	server := tagServer(t, pages, &hits)
	defer server.Close()

	c := testClient(t, server.URL, "")
	ctx := context.Background()

	for range 2 {
		if _, err := c.ListTags(ctx, "rust-lang", "rust", 1, 100, false); err != nil {
			t.Fatal(err)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("requests = %d, want 1 (second read served from cache)", hits.Load())
	}

	if _, err := c.ListTags(ctx, "rust-lang", "rust", 1, 100, true); err != nil {
		t.Fatal(err)
	}
	if hits.Load() != 2 {
		t.Errorf("refresh should bypass cache, requests = %d", hits.Load())
	}
}

func TestClient_ListTagsEmptyIsNonNil(t *testing.T) {
	server := tagServer(t, nil, nil)
	defer server.Close()

	tags, err := testClient(t, server.URL, "").ListTags(context.Background(), "rust-lang", "rust", 1, 0, false)
	if err != nil {
		t.Fatal(err)
	}
	if tags == nil || len(tags) != 0 {
		t.Errorf("tags = %#v, want empty non-nil slice", tags)
	}
}

func TestClient_Headers(t *testing.T) {
	var auth, agent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		agent = r.Header.Get("User-Agent")
		w.Write([]byte("[]"))
	}))
	defer server.Close()

	c := testClient(t, server.URL, "secret")
	if _, err := c.ListTags(context.Background(), "rust-lang", "rust", 1, 100, true); err != nil {
		t.Fatal(err)
	}
	if auth != "Bearer secret" {
		t.Errorf("Authorization = %q", auth)
	}
	if agent == "" {
		t.Error("User-Agent should be set")
	}
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{"not found", http.StatusNotFound, func(err error) bool { return errors.Is(err, integrations.ErrNotFound) }},
		{"forbidden", http.StatusForbidden, func(err error) bool { return rperrors.Is(err, rperrors.ErrCodeRateLimited) }},
		{"too many requests", http.StatusTooManyRequests, func(err error) bool { return rperrors.Is(err, rperrors.ErrCodeRateLimited) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			_, err := testClient(t, server.URL, "").AllTags(context.Background(), "rust-lang", "rust", false)
			if err == nil || !tt.check(err) {
				t.Errorf("AllTags error = %v", err)
			}
		})
	}
}

func TestClient_AllTagsStopsOnFailedPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`[{"name":"1.0.0","commit":{"sha":"55bd4f8ff2b323f317ae89e254ce87162d52a375"}}]`))
	}))
	defer server.Close()

	tags, err := testClient(t, server.URL, "").AllTags(context.Background(), "rust-lang", "rust", false)
	if err == nil {
		t.Fatal("expected error from failed page")
	}
	if tags != nil {
		t.Errorf("partial tags returned: %+v", tags)
	}
}
