package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func envelopeJSON(success bool, data any, errCode, message string) map[string]any {
	env := map[string]any{
		"success":   success,
		"message":   message,
		"timestamp": "2026-01-01T00:00:00Z",
	}
	if success {
		env["data"] = data
	} else {
		env["error"] = map[string]any{"message": message, "code": errCode}
	}
	return env
}

func TestGetMovie(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/movies/abc123" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(envelopeJSON(true,
			map[string]any{"_id": "abc123", "title": "Stalker"},
			"", "Movie retrieved successfully"))
	}))
	defer server.Close()

	c := New(server.URL)
	m, err := c.GetMovie(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.ID != "abc123" || m.Title != "Stalker" {
		t.Errorf("unexpected movie: %+v", m)
	}
}

func TestGetMovie_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(envelopeJSON(false, nil,
			CodeMovieNotFound, "movie not found"))
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.GetMovie(context.Background(), "abc123")
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got: %T", err)
	}
	if apiErr.Status != http.StatusNotFound || apiErr.Code != CodeMovieNotFound {
		t.Errorf("unexpected error: %+v", apiErr)
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound must match")
	}
}

func TestListMovies_EncodesQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("genre") != "Horror" || q.Get("limit") != "5" || q.Get("sortOrder") != "desc" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		_ = json.NewEncoder(w).Encode(envelopeJSON(true, map[string]any{
			"movies":     []map[string]any{{"title": "Alien"}},
			"pagination": map[string]any{"total": 1, "limit": 5, "skip": 0},
		}, "", "Found 1 movies"))
	}))
	defer server.Close()

	c := New(server.URL)
	page, err := c.ListMovies(context.Background(), ListMoviesQuery{
		Genre:     "Horror",
		SortOrder: "desc",
		Limit:     5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Movies) != 1 || page.Movies[0].Title != "Alien" {
		t.Errorf("unexpected page: %+v", page)
	}
	if page.Pagination.Total != 1 {
		t.Errorf("total = %d, expected 1", page.Pagination.Total)
	}
}

func TestUpdateMovie_Counts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s, expected PUT", r.Method)
		}
		_ = json.NewEncoder(w).Encode(envelopeJSON(true,
			map[string]any{"matchedCount": 1, "modifiedCount": 0},
			"", "Matched 1 documents, modified 0 documents"))
	}))
	defer server.Close()

	c := New(server.URL)
	counts, err := c.UpdateMovie(context.Background(), "abc", map[string]any{"title": "X"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if counts.MatchedCount != 1 || counts.ModifiedCount != 0 {
		t.Errorf("unexpected counts: %+v", counts)
	}
}

func TestVectorSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") != "space station" {
			t.Errorf("unexpected q: %q", r.URL.Query().Get("q"))
		}
		_ = json.NewEncoder(w).Encode(envelopeJSON(true, map[string]any{
			"results": []map[string]any{
				{"movie": map[string]any{"title": "Solaris"}, "score": 0.91},
			},
			"count": 1,
		}, "", "Found 1 similar movies"))
	}))
	defer server.Close()

	c := New(server.URL)
	hits, err := c.VectorSearch(context.Background(), "space station", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 1 || hits[0].Score != 0.91 {
		t.Errorf("unexpected hits: %+v", hits)
	}
}

func TestHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "ok",
			"checks": map[string]string{"database": "ok"},
		})
	}))
	defer server.Close()

	c := New(server.URL)
	report, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Status != "ok" || report.Checks["database"] != "ok" {
		t.Errorf("unexpected report: %+v", report)
	}
}
