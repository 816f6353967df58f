package telemetry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"toolforge/internal/definition"
	"toolforge/internal/tools"
)

func TestInstrumentedRegistry_RecordsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	registry := tools.BuildRegistry([]definition.Definition{{ID: "incomplete"}})
	wrapped := NewInstrumentedRegistry(registry, metrics, zerolog.Nop())

	if got := testutil.ToFloat64(metrics.RegistryTools); got != 1 {
		t.Errorf("Expected registry size 1, got %v", got)
	}

	ctx := context.Background()
	if _, err := wrapped.Call(ctx, "incomplete", json.RawMessage(`{}`)); err == nil {
		t.Error("Expected misconfigured tool to fail")
	}
	for _, name := range []string{"no-such-tool", "another-made-up-name"} {
		if _, err := wrapped.Call(ctx, name, json.RawMessage(`{}`)); err == nil {
			t.Errorf("Expected %s to fail", name)
		}
	}

	misconfigured := testutil.ToFloat64(metrics.ToolInvocations.WithLabelValues("incomplete", tools.ErrToolMisconfigured))
	if misconfigured != 1 {
		t.Errorf("Expected 1 misconfigured invocation, got %v", misconfigured)
	}
	notFound := testutil.ToFloat64(metrics.ToolInvocations.WithLabelValues("unknown", tools.ErrToolNotFound))
	if notFound != 2 {
		t.Errorf("Expected 2 not-found invocations under one label, got %v", notFound)
	}
	if got := testutil.CollectAndCount(metrics.ToolInvocations); got != 2 {
		t.Errorf("Expected 2 label sets, got %d", got)
	}
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	r := chi.NewRouter()
	r.Use(HTTPMetricsMiddleware(metrics))
	r.Get("/tools/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("nope"))
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	for _, path := range []string{"/tools/a", "/tools/b", "/health"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", path, nil))
	}

	if got := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/tools/{id}", "404")); got != 2 {
		t.Errorf("Expected 2 requests for /tools/{id}, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/health", "200")); got != 1 {
		t.Errorf("Expected 1 request for /health, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.HTTPRequestsInFlight); got != 0 {
		t.Errorf("Expected no requests in flight, got %v", got)
	}
}
