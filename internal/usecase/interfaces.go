package usecase

import (
	"context"

	"github.com/rsmt/agentgate/internal/domain"
)

// ToolRegistry is the read-only view of the loaded tool definitions that
// the use cases need. The concrete registry is built once at startup; it is
// never updated at runtime.
type ToolRegistry interface {
	// Lookup retrieves a tool definition by its unique name. Returns
	// *domain.ToolNotFoundError for unknown names.
	Lookup(name string) (*domain.ToolDefinition, error)

	// List returns all tool definitions in stable order.
	List() []domain.ToolDefinition
}

// ToolInvoker executes the actual upstream API call for a resolved tool.
// Implementations make a single attempt under a bounded timeout; retry
// policy belongs to the caller, not here.
type ToolInvoker interface {
	Invoke(ctx context.Context, tool *domain.ToolDefinition, data map[string]interface{}) (*domain.InvocationResult, error)
}

// KillSwitch reports whether the operator has disabled all invocations.
// It is consulted at the start of every invoke pipeline, before any
// validation or upstream contact.
type KillSwitch interface {
	Active() bool
}

// KillSwitchFunc adapts a plain function to the KillSwitch interface.
type KillSwitchFunc func() bool

// Active implements KillSwitch.
func (f KillSwitchFunc) Active() bool { return f() }
