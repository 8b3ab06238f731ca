package registry_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsmt/agentgate/internal/adapter/outbound/registry"
	"github.com/rsmt/agentgate/internal/domain"
)

func writeToolsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tools.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

const validTools = `
tools:
  - name: firebase_read
    description: Read a document.
    endpoint: /actions/firebase_read/execute
    method: POST
  - name: render_get_logs
    description: Fetch logs.
    endpoint: /actions/render_get_logs/execute
    method: GET
`

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantErr     bool
		errContains string
	}{
		{
			name:    "Success - valid definitions",
			content: validTools,
		},
		{
			name:    "Success - empty tool list",
			content: "tools: []\n",
		},
		{
			name:        "Failure - malformed YAML",
			content:     "tools: [not yaml",
			wantErr:     true,
			errContains: "failed to parse",
		},
		{
			name: "Failure - duplicate tool name",
			content: `
tools:
  - name: firebase_read
    endpoint: /a
    method: POST
  - name: firebase_read
    endpoint: /b
    method: POST
`,
			wantErr:     true,
			errContains: "duplicate tool name 'firebase_read'",
		},
		{
			name: "Failure - empty tool name",
			content: `
tools:
  - name: ""
    endpoint: /a
    method: POST
`,
			wantErr:     true,
			errContains: "empty name",
		},
		{
			name: "Failure - unsupported method",
			content: `
tools:
  - name: weird
    endpoint: /a
    method: SPLICE
`,
			wantErr:     true,
			errContains: "unsupported HTTP method",
		},
		{
			name: "Failure - missing endpoint path",
			content: `
tools:
  - name: pathless
    method: POST
`,
			wantErr:     true,
			errContains: "empty endpoint path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeToolsFile(t, tt.content)
			reg, err := registry.Load(path, testLogger())
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				assert.Nil(t, reg)
			} else {
				require.NoError(t, err)
				require.NotNil(t, reg)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	reg, err := registry.Load(filepath.Join(t.TempDir(), "no-such-file.yaml"), testLogger())
	require.Error(t, err)
	assert.Nil(t, reg)
}

func TestRegistry_Lookup(t *testing.T) {
	reg, err := registry.Load(writeToolsFile(t, validTools), testLogger())
	require.NoError(t, err)

	tool, err := reg.Lookup("firebase_read")
	require.NoError(t, err)
	assert.Equal(t, "firebase_read", tool.Name)
	assert.Equal(t, "/actions/firebase_read/execute", tool.Path)
	assert.Equal(t, "POST", tool.Method)

	_, err = reg.Lookup("unknown_tool")
	require.Error(t, err)
	var notFound *domain.ToolNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "unknown_tool", notFound.Name)
	assert.Contains(t, err.Error(), "unknown_tool")
}

func TestRegistry_List(t *testing.T) {
	reg, err := registry.Load(writeToolsFile(t, validTools), testLogger())
	require.NoError(t, err)

	tools := reg.List()
	require.Len(t, tools, 2)
	// Stable name order, independent of file order.
	assert.Equal(t, "firebase_read", tools[0].Name)
	assert.Equal(t, "render_get_logs", tools[1].Name)

	// Every listed tool must resolve through Lookup.
	for _, tool := range tools {
		resolved, err := reg.Lookup(tool.Name)
		require.NoError(t, err)
		assert.Equal(t, tool, *resolved)
	}
}
