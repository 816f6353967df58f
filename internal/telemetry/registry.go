package telemetry

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"toolforge/internal/tools"
)

// InstrumentedRegistry wraps a tool registry to record invocation metrics.
type InstrumentedRegistry struct {
	*tools.Registry
	metrics *Metrics
	logger  zerolog.Logger
}

// NewInstrumentedRegistry creates a telemetry-aware registry wrapper and
// publishes the registry size.
func NewInstrumentedRegistry(registry *tools.Registry, metrics *Metrics, logger zerolog.Logger) *InstrumentedRegistry {
	metrics.SetRegistrySize(registry.Len())
	return &InstrumentedRegistry{
		Registry: registry,
		metrics:  metrics,
		logger:   logger.With().Str("component", "tool_registry").Logger(),
	}
}

// Call wraps the registry Call to add telemetry
func (w *InstrumentedRegistry) Call(ctx context.Context, name string, args json.RawMessage) (json.RawMessage, error) {
	start := time.Now()

	result, err := w.Registry.Call(ctx, name, args)

	duration := time.Since(start)
	status := "success"
	if err != nil {
		status = tools.CodeOf(err)
		w.logger.Info().
			Err(err).
			Str("tool", name).
			Dur("duration", duration).
			Msg("Tool invocation failed")
	} else {
		w.logger.Debug().
			Str("tool", name).
			Dur("duration", duration).
			Msg("Tool invocation succeeded")
	}

	// Unregistered names are grouped to keep label cardinality bounded
	label := name
	if status == tools.ErrToolNotFound {
		label = "unknown"
	}
	w.metrics.RecordToolInvocation(label, status, duration)

	return result, err
}
