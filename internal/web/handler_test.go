package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SpeedsterCollective/Tweeks/internal/config"
	"github.com/SpeedsterCollective/Tweeks/pkg/matcher"
	"github.com/SpeedsterCollective/Tweeks/pkg/target"
)

func newTestHandler() *Handler {
	cfg := config.Default()
	m := matcher.New(target.Defaults(), nil, nil)
	return NewHandler(cfg, m, nil)
}

func TestHandleStatus(t *testing.T) {
	h := newTestHandler()
	mux := http.NewServeMux()
	h.SetupRoutes(mux)

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var snap matcher.Snapshot
	if err := json.NewDecoder(rec.Body).Decode(&snap); err != nil {
		t.Fatalf("response not valid JSON: %v", err)
	}
	if len(snap.State) != 2 {
		t.Errorf("state entries = %d, want 2", len(snap.State))
	}
	for name, state := range snap.State {
		if state != matcher.StateNotRunning {
			t.Errorf("target %q state = %q, want %q with no processes", name, state, matcher.StateNotRunning)
		}
	}
}

func TestHandleStatusMethodNotAllowed(t *testing.T) {
	h := newTestHandler()
	mux := http.NewServeMux()
	h.SetupRoutes(mux)

	req := httptest.NewRequest(http.MethodPost, "/api/status", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	h := newTestHandler()
	mux := http.NewServeMux()
	h.SetupRoutes(mux)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("health = %v", body)
	}
}
