// Package registry loads the tool-definition file and serves it read-only
// for the lifetime of the process. Schema changes require a reload, never a
// live mutation.
package registry

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/rsmt/agentgate/internal/domain"
)

// toolsFile is the on-disk structure of the tool-definition source.
type toolsFile struct {
	Tools []domain.ToolDefinition `yaml:"tools"`
}

// Registry holds the loaded tool definitions. It is immutable after Load
// and therefore safe for concurrent readers without locking.
type Registry struct {
	tools  map[string]domain.ToolDefinition
	sorted []domain.ToolDefinition
	logger *slog.Logger
}

var allowedMethods = map[string]struct{}{
	http.MethodGet:    {},
	http.MethodPost:   {},
	http.MethodPut:    {},
	http.MethodPatch:  {},
	http.MethodDelete: {},
}

// Load reads tool definitions from the given YAML file and builds the
// registry. A missing file, unparseable content, an empty or duplicate tool
// name, or an unsupported HTTP method all fail the load; the caller is
// expected to treat that as fatal and refuse to serve.
func Load(path string, logger *slog.Logger) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tool definitions '%s': %w", path, err)
	}

	var file toolsFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse tool definitions '%s': %w", path, err)
	}

	r := &Registry{
		tools:  make(map[string]domain.ToolDefinition, len(file.Tools)),
		logger: logger.With("component", "registry"),
	}

	for i, tool := range file.Tools {
		if tool.Name == "" {
			return nil, fmt.Errorf("tool definition %d in '%s' has an empty name", i, path)
		}
		if _, exists := r.tools[tool.Name]; exists {
			return nil, fmt.Errorf("duplicate tool name '%s' in '%s'", tool.Name, path)
		}
		if _, ok := allowedMethods[tool.Method]; !ok {
			return nil, fmt.Errorf("tool '%s' has unsupported HTTP method '%s'", tool.Name, tool.Method)
		}
		if tool.Path == "" {
			return nil, fmt.Errorf("tool '%s' has an empty endpoint path", tool.Name)
		}
		r.tools[tool.Name] = tool
	}

	r.sorted = make([]domain.ToolDefinition, 0, len(r.tools))
	for _, tool := range r.tools {
		r.sorted = append(r.sorted, tool)
	}
	sort.Slice(r.sorted, func(i, j int) bool { return r.sorted[i].Name < r.sorted[j].Name })

	r.logger.Info("Loaded tool definitions.", slog.String("path", path), slog.Int("count", len(r.sorted)))
	return r, nil
}

// Lookup retrieves a tool definition by name.
func (r *Registry) Lookup(name string) (*domain.ToolDefinition, error) {
	tool, ok := r.tools[name]
	if !ok {
		r.logger.Warn("Tool definition not found", slog.String("tool_name", name))
		return nil, &domain.ToolNotFoundError{Name: name}
	}
	return &tool, nil
}

// List returns all tool definitions in stable name order.
func (r *Registry) List() []domain.ToolDefinition {
	out := make([]domain.ToolDefinition, len(r.sorted))
	copy(out, r.sorted)
	return out
}
