package tools

import (
	"context"
	"encoding/json"

	"toolforge/internal/schema"
)

// Tool is the interface that all tools must implement.
type Tool interface {
	// Name returns the unique id of the tool.
	Name() string

	// Description returns the human-readable purpose of the tool.
	Description() string

	// InputSchema returns the schema inputs are validated against. It is nil
	// when the tool's definition did not declare one.
	InputSchema() *schema.Schema

	// OutputSchema returns the declared output shape. It is descriptive only.
	OutputSchema() *schema.Schema

	// Call executes the tool with the given arguments.
	// The arguments and return value are JSON-encoded data.
	Call(ctx context.Context, args json.RawMessage) (json.RawMessage, error)
}
