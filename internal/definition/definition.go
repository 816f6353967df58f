// Package definition parses the line-oriented tool configuration format into
// tool definitions.
package definition

import (
	"toolforge/internal/schema"
)

// Method is the HTTP method a tool uses. Values other than GET and POST are
// kept verbatim so the failure surfaces when the tool is invoked.
type Method string

const (
	MethodGet  Method = "GET"
	MethodPost Method = "POST"
)

// Supported reports whether the tool factory knows how to issue m.
func (m Method) Supported() bool {
	return m == MethodGet || m == MethodPost
}

// Definition describes one fabricated tool as read from the configuration.
// Any field other than ID may be missing.
type Definition struct {
	ID           string
	Description  string
	InputSchema  *schema.Schema
	OutputSchema *schema.Schema
	Method       Method
	URL          string
}

// Missing lists the parts a tool needs before it can be invoked.
func (d Definition) Missing() []string {
	var missing []string
	if d.InputSchema == nil {
		missing = append(missing, "input schema")
	}
	if d.OutputSchema == nil {
		missing = append(missing, "output schema")
	}
	if d.Method == "" {
		missing = append(missing, "request type")
	} else if !d.Method.Supported() {
		missing = append(missing, "supported request type (got "+string(d.Method)+")")
	}
	if d.URL == "" {
		missing = append(missing, "url")
	}
	return missing
}

// Complete reports whether nothing is missing.
func (d Definition) Complete() bool {
	return len(d.Missing()) == 0
}
