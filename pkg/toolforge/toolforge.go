// Package toolforge builds HTTP-backed tools from a plain-text catalog.
//
// A catalog lists tools as "- ID:", "- Description:", "- Input Schema:",
// "- Output Schema:", "- Request Type:" and "- URL:" lines. Load finds the
// catalog under the nearest project root and returns an immutable registry.
package toolforge

import (
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"toolforge/internal/catalog"
	"toolforge/internal/definition"
	"toolforge/internal/schema"
	"toolforge/internal/tools"
)

type (
	// Tool is a named capability with an input contract and a Call method.
	Tool = tools.Tool
	// Registry maps tool ids to tools.
	Registry = tools.Registry
	// Definition is one parsed catalog record.
	Definition = definition.Definition
	// Schema is an inferred field schema.
	Schema = schema.Schema
	// ToolError is returned for every lookup and invocation failure.
	ToolError = tools.ToolError
)

// Options configures Load and the tools it builds.
type Options struct {
	StartDir          string
	ConfigFile        string
	ProjectMarker     string
	BuildOutputMarker string
	HTTPClient        *http.Client
	BaseURL           *url.URL
	Logger            *zerolog.Logger
}

func (o Options) logger() zerolog.Logger {
	if o.Logger == nil {
		return zerolog.Nop()
	}
	return *o.Logger
}

func (o Options) toolOptions() []tools.Option {
	opts := []tools.Option{tools.WithLogger(o.logger())}
	if o.HTTPClient != nil {
		opts = append(opts, tools.WithHTTPClient(o.HTTPClient))
	}
	if o.BaseURL != nil {
		opts = append(opts, tools.WithBaseURL(o.BaseURL))
	}
	return opts
}

func (o Options) loader() *catalog.Loader {
	return catalog.NewLoader(catalog.LoaderConfig{
		StartDir:          o.StartDir,
		ConfigFile:        o.ConfigFile,
		ProjectMarker:     o.ProjectMarker,
		BuildOutputMarker: o.BuildOutputMarker,
	}, o.logger(), o.toolOptions()...)
}

// Load builds the registry from the catalog under the project root. A missing
// or unreadable catalog gives an empty registry.
func Load(opts Options) *Registry {
	return opts.loader().Load()
}

// LoadFile builds the registry from the catalog at path.
func LoadFile(path string, opts Options) (*Registry, error) {
	return opts.loader().LoadFile(path)
}

// Parse reads catalog text into definitions, in order.
func Parse(text string) []Definition {
	return definition.Parse(text, zerolog.Nop())
}

// InferSchema infers a schema from a descriptor literal or free text.
func InferSchema(raw string) *Schema {
	return schema.Infer(raw, zerolog.Nop())
}

// NewTool builds the HTTP tool for def.
func NewTool(def Definition, opts Options) Tool {
	return tools.NewHTTPTool(def, opts.toolOptions()...)
}

// NewRegistry builds a registry from definitions. Later duplicates replace
// earlier ones.
func NewRegistry(defs []Definition, opts Options) *Registry {
	return tools.BuildRegistry(defs, opts.toolOptions()...)
}

// ErrorCode returns the code of a ToolError in err's chain.
func ErrorCode(err error) string {
	return tools.CodeOf(err)
}
