package tools

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"toolforge/internal/definition"
)

// Descriptor is the listing form of a tool, shaped after the MCP tool
// definition.
type Descriptor struct {
	Name         string             `json:"name"`
	Description  string             `json:"description"`
	Annotations  map[string]any     `json:"annotations,omitempty"`
	InputSchema  *jsonschema.Schema `json:"inputSchema"`
	OutputSchema *jsonschema.Schema `json:"outputSchema,omitempty"`
	Method       string             `json:"method,omitempty"`
	URL          string             `json:"url,omitempty"`
	Missing      []string           `json:"missing,omitempty"`
}

// Describe returns the descriptor for tool. Tools without an input schema are
// listed with an empty object schema.
func Describe(tool Tool) Descriptor {
	d := Descriptor{
		Name:        tool.Name(),
		Description: tool.Description(),
		Annotations: map[string]any{
			"title":         fmt.Sprintf("%s Tool", tool.Name()),
			"openWorldHint": true,
		},
		InputSchema: &jsonschema.Schema{Type: "object"},
	}
	if in := tool.InputSchema(); in != nil {
		d.InputSchema = in.JSONSchema()
	}
	if out := tool.OutputSchema(); out != nil {
		d.OutputSchema = out.JSONSchema()
	}

	if defined, ok := tool.(interface{ Definition() definition.Definition }); ok {
		def := defined.Definition()
		d.Method = string(def.Method)
		d.URL = def.URL
		d.Missing = def.Missing()
	}
	return d
}

// DescribeAll returns descriptors for tools, in order.
func DescribeAll(list []Tool) []Descriptor {
	out := make([]Descriptor, 0, len(list))
	for _, tool := range list {
		out = append(out, Describe(tool))
	}
	return out
}
