package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
)

func TestLoggingIncludesMatchedUserID(t *testing.T) {
	logger, hook := logtest.NewNullLogger()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/users/{id}/stats", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/users/42/stats", nil)
	Logging(mux, logger).ServeHTTP(httptest.NewRecorder(), req)

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("no log entry recorded")
	}
	if entry.Data["user_id"] != "42" {
		t.Errorf("user_id = %v, want 42", entry.Data["user_id"])
	}
	if entry.Data["status"] != http.StatusTeapot {
		t.Errorf("status = %v, want %d", entry.Data["status"], http.StatusTeapot)
	}
	if entry.Data["method"] != http.MethodGet || entry.Data["path"] != "/api/users/42/stats" {
		t.Errorf("fields = %v", entry.Data)
	}
}

func TestLoggingOmitsUserIDForServiceRoutes(t *testing.T) {
	logger, hook := logtest.NewNullLogger()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	Logging(mux, logger).ServeHTTP(httptest.NewRecorder(), req)

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("no log entry recorded")
	}
	if _, ok := entry.Data["user_id"]; ok {
		t.Errorf("user_id should be absent for service routes, got %v", entry.Data["user_id"])
	}
}
