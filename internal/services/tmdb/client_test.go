package tmdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

func testClient(serverURL string) *Client {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return &Client{
		baseURL:    serverURL,
		apiKey:     "test-key",
		language:   "en-US",
		httpClient: &http.Client{Timeout: 5 * time.Second},
		cache:      gocache.New(time.Minute, time.Minute),
		logger:     logger,
	}
}

func TestSearchCapsResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/tv" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("query") != "breaking" {
			t.Errorf("query param = %q", r.URL.Query().Get("query"))
		}
		if r.URL.Query().Get("api_key") != "test-key" {
			t.Error("api_key param missing")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results": [
			{"id": 1, "name": "A", "first_air_date": "2008-01-20"},
			{"id": 2, "name": "B"}, {"id": 3, "name": "C"}, {"id": 4, "name": "D"},
			{"id": 5, "name": "E"}, {"id": 6, "name": "F"}, {"id": 7, "name": "G"},
			{"id": 8, "name": "H"}, {"id": 9, "name": "I"}, {"id": 10, "name": "J"},
			{"id": 11, "name": "K"}, {"id": 12, "name": "L"}
		]}`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	results, err := client.Search(context.Background(), "breaking")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 10 {
		t.Errorf("results = %d, want capped at 10", len(results))
	}
	if results[0].ID != 1 || results[0].Name != "A" || results[0].FirstAirDate != "2008-01-20" {
		t.Errorf("first result mismatch: %+v", results[0])
	}
}

func TestSearchUsesCache(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.Write([]byte(`{"results": [{"id": 1, "name": "A"}]}`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	for i := 0; i < 3; i++ {
		if _, err := client.Search(context.Background(), "same"); err != nil {
			t.Fatalf("search failed: %v", err)
		}
	}
	if got := atomic.LoadInt64(&calls); got != 1 {
		t.Errorf("upstream calls = %d, want 1 (cached)", got)
	}
}

func TestDetails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tv/1396" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{
			"id": 1396,
			"name": "Breaking Bad",
			"overview": "A chemistry teacher.",
			"first_air_date": "2008-01-20",
			"number_of_seasons": 5,
			"poster_path": "/poster.jpg"
		}`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	details, err := client.Details(context.Background(), 1396)
	if err != nil {
		t.Fatalf("details failed: %v", err)
	}
	if details.Name != "Breaking Bad" || details.NumberOfSeasons != 5 {
		t.Errorf("details mismatch: %+v", details)
	}

	if _, err := client.Details(context.Background(), 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown id error = %v, want ErrNotFound", err)
	}
}

func TestServerErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broken", http.StatusBadGateway)
	}))
	defer server.Close()

	client := testClient(server.URL)
	if _, err := client.Search(context.Background(), "anything"); err == nil {
		t.Error("expected error from non-2xx response")
	}
}

func TestPosterURL(t *testing.T) {
	if got := PosterURL("/abc.jpg"); got != "https://image.tmdb.org/t/p/w500/abc.jpg" {
		t.Errorf("poster url = %q", got)
	}
	if got := PosterURL(""); got != "" {
		t.Errorf("empty poster path should give empty url, got %q", got)
	}
}
