package usecase

import (
	"log/slog"

	"github.com/rsmt/agentgate/internal/domain"
)

// ServeToolsUseCase lists the loaded tool definitions for the schema
// endpoint and the MCP listing. The registry is pre-loaded, so listing
// always succeeds.
type ServeToolsUseCase struct {
	registry ToolRegistry
	logger   *slog.Logger
}

// NewServeToolsUseCase creates a new ServeToolsUseCase.
func NewServeToolsUseCase(registry ToolRegistry, logger *slog.Logger) *ServeToolsUseCase {
	return &ServeToolsUseCase{
		registry: registry,
		logger:   logger.With("usecase", "ServeTools"),
	}
}

// Execute returns all tool definitions in stable order.
func (uc *ServeToolsUseCase) Execute() []domain.ToolDefinition {
	tools := uc.registry.List()
	uc.logger.Debug("Listed tools", slog.Int("count", len(tools)))
	return tools
}
