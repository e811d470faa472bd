package httptransport_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arrowkit/flowcore/internal/health"
	httptransport "github.com/arrowkit/flowcore/internal/transport/http"
	"github.com/prometheus/client_golang/prometheus"
)

type pinger struct{ err error }

func (p *pinger) Ping(_ context.Context) error { return p.err }

func TestRouter_HealthzAlwaysUp(t *testing.T) {
	checker := health.NewChecker(&pinger{err: errors.New("down")}, slog.Default(), prometheus.NewRegistry())
	r := httptransport.NewRouter(checker)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestRouter_ReadyzReflectsDependencyStatus(t *testing.T) {
	checker := health.NewChecker(&pinger{err: errors.New("down")}, slog.Default(), prometheus.NewRegistry())
	r := httptransport.NewRouter(checker)

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when the dependency is down, got %d", w.Code)
	}
}

func TestRouter_MetricsServesPrometheusFormat(t *testing.T) {
	checker := health.NewChecker(&pinger{}, slog.Default(), prometheus.NewRegistry())
	r := httptransport.NewRouter(checker)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestRouter_SetsRequestIDHeader(t *testing.T) {
	checker := health.NewChecker(&pinger{}, slog.Default(), prometheus.NewRegistry())
	r := httptransport.NewRouter(checker)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected X-Request-ID to be set")
	}
}
