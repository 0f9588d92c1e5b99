package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"trackarr/internal/config"
	"trackarr/internal/dialogue"
	"trackarr/internal/models"
	"trackarr/internal/services/tmdb"
	"trackarr/internal/store"
	"trackarr/internal/store/jsonstore"
)

type stubGateway struct{}

func (stubGateway) Search(_ context.Context, _ string) ([]tmdb.SearchResult, error) {
	return []tmdb.SearchResult{{ID: 7, Name: "Stub Show", FirstAirDate: "2021-01-01"}}, nil
}

func (stubGateway) Details(_ context.Context, id int64) (*tmdb.ShowDetails, error) {
	return &tmdb.ShowDetails{ID: id, Name: "Stub Show", NumberOfSeasons: 2}, nil
}

func newTestServer(t *testing.T) (*httptest.Server, store.Store) {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	st := jsonstore.Open(filepath.Join(t.TempDir(), "series.json"), logger)
	engine := dialogue.NewEngine(st, stubGateway{}, 60, logger)
	cfg := &config.Config{ServerPort: "0", ReminderWindowDays: 60}

	srv := NewServer(cfg, st, engine, logger)
	ts := httptest.NewServer(srv.server.Handler)
	t.Cleanup(ts.Close)
	return ts, st
}

func seedShow(t *testing.T, st store.Store, userID string, id int64, name string, nextDate string) {
	t.Helper()
	show := &models.TrackedShow{
		TMDBID:         id,
		Name:           name,
		TotalSeasons:   3,
		SeasonsWatched: 1,
		NextSeasonDate: nextDate,
		AddedAt:        time.Now().UTC(),
	}
	show.Recompute()
	if err := st.Upsert(userID, show); err != nil {
		t.Fatalf("seed upsert: %v", err)
	}
}

func getJSON(t *testing.T, url string, v any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if v != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp
}

func TestHealthEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	var body map[string]string
	resp := getJSON(t, ts.URL+"/health", &body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["status"] != "healthy" {
		t.Errorf("body = %v", body)
	}
}

func TestEventsEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)
	url := ts.URL + "/api/users/42/events"

	payload := bytes.NewBufferString(`{"action":"menu"}`)
	resp, err := http.Post(url, "application/json", payload)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var screen dialogue.Screen
	if err := json.NewDecoder(resp.Body).Decode(&screen); err != nil {
		t.Fatal(err)
	}
	if screen.Text == "" || len(screen.Options) == 0 {
		t.Errorf("menu screen = %+v", screen)
	}
}

func TestEventsEndpointRejectsBadPayloads(t *testing.T) {
	ts, _ := newTestServer(t)
	url := ts.URL + "/api/users/42/events"

	for _, payload := range []string{
		`{}`,
		`{"action":"menu","text":"hello"}`,
		`not json`,
	} {
		resp, err := http.Post(url, "application/json", strings.NewReader(payload))
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("payload %q: status = %d, want 400", payload, resp.StatusCode)
		}
	}
}

func TestShowsEndpointViews(t *testing.T) {
	ts, st := newTestServer(t)
	seedShow(t, st, "42", 1, "Alpha", "unknown")
	seedShow(t, st, "42", 2, "Beta", "01/01/2030")

	var shows []*models.TrackedShow
	resp := getJSON(t, ts.URL+"/api/users/42/shows", &shows)
	if resp.StatusCode != http.StatusOK || len(shows) != 2 {
		t.Fatalf("status = %d, shows = %d", resp.StatusCode, len(shows))
	}

	shows = nil
	getJSON(t, ts.URL+"/api/users/42/shows?view=ongoing", &shows)
	if len(shows) != 2 {
		t.Errorf("ongoing = %d shows", len(shows))
	}

	resp = getJSON(t, ts.URL+"/api/users/42/shows?view=bogus", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bogus view status = %d, want 400", resp.StatusCode)
	}
}

func TestShowsEndpointEmptyUser(t *testing.T) {
	ts, _ := newTestServer(t)

	var shows []*models.TrackedShow
	resp := getJSON(t, ts.URL+"/api/users/nobody/shows", &shows)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if shows == nil || len(shows) != 0 {
		t.Errorf("shows = %v, want empty array", shows)
	}
}

func TestSearchEndpoint(t *testing.T) {
	ts, st := newTestServer(t)
	seedShow(t, st, "42", 1, "Dark Harbor", "unknown")

	var shows []*models.TrackedShow
	getJSON(t, ts.URL+"/api/users/42/shows/search?q=harbor", &shows)
	if len(shows) != 1 || shows[0].Name != "Dark Harbor" {
		t.Errorf("search result = %v", shows)
	}

	resp := getJSON(t, ts.URL+"/api/users/42/shows/search", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing q status = %d, want 400", resp.StatusCode)
	}
}

func TestStatsEndpoint(t *testing.T) {
	ts, st := newTestServer(t)

	var stats map[string]any
	getJSON(t, ts.URL+"/api/users/42/stats", &stats)
	if _, ok := stats["completion_rate"]; ok {
		t.Error("completion_rate should be omitted for an empty collection")
	}

	seedShow(t, st, "42", 1, "Alpha", "unknown")
	stats = nil
	getJSON(t, ts.URL+"/api/users/42/stats", &stats)
	if stats["total_shows"].(float64) != 1 {
		t.Errorf("stats = %v", stats)
	}
	if _, ok := stats["completion_rate"]; !ok {
		t.Error("completion_rate missing for a non-empty collection")
	}
}

func TestRemindersEndpoint(t *testing.T) {
	ts, st := newTestServer(t)
	soon := time.Now().UTC().AddDate(0, 0, 10).Format(models.DateLayout)
	seedShow(t, st, "42", 1, "Alpha", soon)
	seedShow(t, st, "42", 2, "Beta", "unknown")

	var entries []map[string]any
	getJSON(t, ts.URL+"/api/users/42/reminders", &entries)
	if len(entries) != 1 {
		t.Fatalf("entries = %v", entries)
	}
	if entries[0]["name"] != "Alpha" || entries[0]["days_until"].(float64) != 10 {
		t.Errorf("entry = %v", entries[0])
	}
}

func TestExportEndpoint(t *testing.T) {
	ts, st := newTestServer(t)

	resp := getJSON(t, ts.URL+"/api/users/42/export", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("empty export status = %d, want 404", resp.StatusCode)
	}

	seedShow(t, st, "42", 1, "Alpha", "unknown")
	resp, err := http.Get(ts.URL + "/api/users/42/export")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("export status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("content type = %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Errorf("content disposition = %q", cd)
	}
}

func TestStatusEndpoint(t *testing.T) {
	ts, st := newTestServer(t)
	seedShow(t, st, "42", 1, "Alpha", "unknown")
	seedShow(t, st, "99", 2, "Beta", "unknown")

	var body map[string]any
	getJSON(t, ts.URL+"/status", &body)
	if body["users"].(float64) != 2 || body["total_shows"].(float64) != 2 {
		t.Errorf("status body = %v", body)
	}
}
