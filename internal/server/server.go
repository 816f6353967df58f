package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"toolforge/internal/mcp"
	"toolforge/internal/telemetry"
	"toolforge/internal/tools"
)

// Registry is the tool set served over REST and MCP.
type Registry interface {
	mcp.Registry
	Get(name string) (tools.Tool, bool)
}

// Config contains the server configuration.
type Config struct {
	Name           string
	Version        string
	AllowedOrigins []string
	// Gatherer backs /metrics; nil means the default Prometheus gatherer.
	Gatherer prometheus.Gatherer
}

// New creates a new HTTP handler serving registry.
func New(cfg Config, registry Registry, metrics *telemetry.Metrics, logger zerolog.Logger) (http.Handler, error) {
	logger = logger.With().Str("component", "server").Logger()

	for _, tool := range registry.List() {
		logger.Debug().
			Str("tool", tool.Name()).
			Msg("Serving tool")
	}

	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	mcpHandler := mcp.NewHandler(registry, mcp.ServerInfo{Name: cfg.Name, Version: cfg.Version}, logger)
	toolHandler := newToolHandler(registry, logger)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))
	if metrics != nil {
		r.Use(telemetry.HTTPMetricsMiddleware(metrics))
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Content-Type", "X-Request-Id"},
		MaxAge:         300, // Maximum value not ignored by any of major browsers
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/tools", func(r chi.Router) {
		r.Get("/", toolHandler.List)
		r.Get("/{id}", toolHandler.Get)
		r.Post("/{id}/invoke", toolHandler.Invoke)
	})

	r.Post("/mcp", mcpHandler.ServeHTTP)

	return r, nil
}

// requestLogger logs one line per request through zerolog.
func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("Request handled")
		})
	}
}
