package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/bobmcallan/dcacalc/internal/common"
)

func TestCorrelationIDMiddleware_UsesRequestHeader(t *testing.T) {
	handler := correlationIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "abc123")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if got := rr.Header().Get("X-Correlation-ID"); got != "abc123" {
		t.Errorf("Expected correlation ID abc123, got %s", got)
	}
}

func TestCorrelationIDMiddleware_Generates(t *testing.T) {
	handler := correlationIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if got := rr.Header().Get("X-Correlation-ID"); len(got) != 8 {
		t.Errorf("Expected 8-char generated correlation ID, got %q", got)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := common.NewLoggerWithOutput("error", &buf)

	handler := recoveryMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/returns/dca", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", rr.Code)
	}
	if !strings.Contains(buf.String(), "kaboom") {
		t.Errorf("Expected panic to be logged, got %q", buf.String())
	}
}

func TestLoggingMiddleware_CapturesStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := common.NewLoggerWithOutput("info", &buf)

	handler := loggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusBadGateway, "upstream")
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/returns/lump-sum", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	out := buf.String()
	if !strings.Contains(out, "HTTP request") || !strings.Contains(out, "502") {
		t.Errorf("Expected request log with status 502, got %q", out)
	}
}

func TestCORS_Preflight(t *testing.T) {
	s := newTestServer(t, newFakeUpstream(t))

	req := httptest.NewRequest(http.MethodOptions, "/api/returns/dca", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Expected Access-Control-Allow-Origin *, got %q", got)
	}
}

func TestMiddlewareStack_LogsRecoveredPanic(t *testing.T) {
	var buf bytes.Buffer
	s := &Server{logger: common.NewLoggerWithOutput("info", &buf)}

	r := chi.NewRouter()
	r.Use(s.middleware()...)
	r.Get("/api/panic", func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/panic", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", rr.Code)
	}
	out := buf.String()
	if !strings.Contains(out, "Panic recovered") {
		t.Errorf("Expected panic log, got %q", out)
	}
	if !strings.Contains(out, "HTTP request") || !strings.Contains(out, `"status":500`) {
		t.Errorf("Expected request log with status 500, got %q", out)
	}
}
