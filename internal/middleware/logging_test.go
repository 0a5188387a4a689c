package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avolkov/pantrypal/internal/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithRequestLogging(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	mw := middleware.WithRequestLogging(zap.New(core))

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusTeapot {
		t.Errorf("status = %d; want %d", w.Code, http.StatusTeapot)
	}
	if logs.Len() != 1 {
		t.Fatalf("logged %d entries; want 1", logs.Len())
	}

	entry := logs.All()[0]
	fields := entry.ContextMap()
	if fields["method"] != "GET" || fields["path"] != "/api/items" {
		t.Errorf("logged %v; want method GET and path /api/items", fields)
	}
	if fields["status"] != int64(http.StatusTeapot) {
		t.Errorf("logged status = %v; want %d", fields["status"], http.StatusTeapot)
	}
}

func TestWithRequestLogging_DefaultStatus(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	mw := middleware.WithRequestLogging(zap.New(core))

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if logs.Len() != 1 {
		t.Fatalf("logged %d entries; want 1", logs.Len())
	}
	if got := logs.All()[0].ContextMap()["status"]; got != int64(http.StatusOK) {
		t.Errorf("logged status = %v; want 200", got)
	}
}
