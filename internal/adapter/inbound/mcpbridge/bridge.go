// Package mcpbridge exposes the gateway's tool registry over the Model
// Context Protocol. Every MCP tool call runs through the same invoke
// pipeline as POST /invoke, kill switch and correlation-field validation
// included.
package mcpbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/rsmt/agentgate/internal/domain"
	"github.com/rsmt/agentgate/internal/usecase"
)

// Bridge registers registry tools on an MCP server and routes their calls
// through the invoke use case.
type Bridge struct {
	invokeUC *usecase.InvokeToolUseCase
	logger   *slog.Logger
}

// New creates a new Bridge.
func New(invokeUC *usecase.InvokeToolUseCase, logger *slog.Logger) *Bridge {
	return &Bridge{
		invokeUC: invokeUC,
		logger:   logger.With("component", "mcp_bridge"),
	}
}

// Register adds one MCP tool per registry entry to the given server. The
// tool's parameter schema is passed through as-is.
func (b *Bridge) Register(srv *mcpserver.MCPServer, tools []domain.ToolDefinition) error {
	for _, tool := range tools {
		rawSchema, err := json.Marshal(tool.Parameters)
		if err != nil {
			return fmt.Errorf("failed to encode parameter schema for tool '%s': %w", tool.Name, err)
		}
		mcpTool := mcp.NewToolWithRawSchema(tool.Name, tool.Description, rawSchema)
		srv.AddTool(mcpTool, b.handlerFor(tool.Name))
		b.logger.Debug("Registered MCP tool", slog.String("tool_name", tool.Name))
	}
	b.logger.Info("Registered MCP tools.", slog.Int("count", len(tools)))
	return nil
}

// handlerFor builds the MCP handler for a single tool. Pipeline failures
// surface as MCP tool-result errors carrying the same stable error strings
// as the HTTP edge.
func (b *Bridge) handlerFor(toolName string) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := b.invokeUC.Execute(ctx, toolName, request.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		encoded, err := json.Marshal(result.Result)
		if err != nil {
			b.logger.Error("Failed to encode tool result", slog.String("tool_name", toolName), slog.Any("error", err))
			return mcp.NewToolResultError("failed to encode tool result"), nil
		}
		return mcp.NewToolResultText(string(encoded)), nil
	}
}
