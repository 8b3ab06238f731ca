package domain

import "fmt"

// ToolDefinition describes a single tool the gateway is willing to proxy
// to the upstream automation API. Definitions are loaded once at startup
// from the tool-definition file and are never mutated afterwards.
type ToolDefinition struct {
	// Name is the unique key callers use to select the tool.
	Name string `json:"name" yaml:"name"`

	// Description is a natural language explanation of what the tool does,
	// surfaced verbatim through /schema and the MCP listing.
	Description string `json:"description" yaml:"description"`

	// Path is the upstream request path for this tool, joined onto the
	// configured upstream base URL (e.g. "/actions/firebase_write/execute").
	Path string `json:"endpoint" yaml:"endpoint"`

	// Method is the upstream HTTP verb ("GET", "POST", ...).
	Method string `json:"method" yaml:"method"`

	// Parameters describes the fields the tool expects, in JSON Schema
	// form. Tool-specific fields are passed through to the upstream
	// unvalidated; the schema exists for callers, not for enforcement.
	Parameters JSONSchemaProps `json:"parameters" yaml:"parameters"`
}

// JSONSchemaProps is a simplified JSON Schema node, sufficient for the
// parameter descriptions carried by tool definitions.
type JSONSchemaProps struct {
	Type        string                     `json:"type,omitempty" yaml:"type,omitempty"`
	Description string                     `json:"description,omitempty" yaml:"description,omitempty"`
	Properties  map[string]JSONSchemaProps `json:"properties,omitempty" yaml:"properties,omitempty"`
	Required    []string                   `json:"required,omitempty" yaml:"required,omitempty"`
	Items       *JSONSchemaProps           `json:"items,omitempty" yaml:"items,omitempty"`
	Format      string                     `json:"format,omitempty" yaml:"format,omitempty"`
	Enum        []interface{}              `json:"enum,omitempty" yaml:"enum,omitempty"`
	Default     interface{}                `json:"default,omitempty" yaml:"default,omitempty"`
}

// ToolNotFoundError reports an invocation naming a tool absent from the
// registry.
type ToolNotFoundError struct {
	Name string
}

func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("unknown tool: %s", e.Name)
}
