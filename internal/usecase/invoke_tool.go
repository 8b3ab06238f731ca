package usecase

import (
	"context"
	"log/slog"

	"github.com/rsmt/agentgate/internal/domain"
)

// InvokeToolUseCase runs the invocation pipeline: kill switch gate, then
// correlation-field validation, then registry lookup, then the upstream
// call. The first failing stage short-circuits; later stages are never
// reached. Each call is independent and stateless.
type InvokeToolUseCase struct {
	registry   ToolRegistry
	invoker    ToolInvoker
	killSwitch KillSwitch
	logger     *slog.Logger
}

// NewInvokeToolUseCase creates a new InvokeToolUseCase.
func NewInvokeToolUseCase(registry ToolRegistry, invoker ToolInvoker, killSwitch KillSwitch, logger *slog.Logger) *InvokeToolUseCase {
	return &InvokeToolUseCase{
		registry:   registry,
		invoker:    invoker,
		killSwitch: killSwitch,
		logger:     logger.With("usecase", "InvokeTool"),
	}
}

// Execute proxies a single tool invocation. Error values determine how the
// inbound edge reports the failure:
//
//   - domain.ErrServiceDisabled   — kill switch active, nothing else checked
//   - *domain.MissingFieldError   — a required correlation field is absent
//   - *domain.ToolNotFoundError   — the tool is not in the registry
//   - *domain.InvocationError     — the upstream call itself failed
//
// The kill switch is deliberately checked before validation: operators must
// be able to silence the service unconditionally, regardless of what the
// request looks like.
func (uc *InvokeToolUseCase) Execute(ctx context.Context, toolName string, data map[string]interface{}) (*domain.InvocationResult, error) {
	log := uc.logger.With(slog.String("tool_name", toolName))

	if uc.killSwitch.Active() {
		log.Warn("Invoke request blocked - kill switch is active")
		return nil, domain.ErrServiceDisabled
	}

	if err := ValidateCorrelationFields(data); err != nil {
		log.Warn("Validation failed", slog.Any("error", err))
		return nil, err
	}

	tool, err := uc.registry.Lookup(toolName)
	if err != nil {
		log.Warn("Tool not found", slog.Any("error", err))
		return nil, err
	}

	log.Info("Invoking upstream tool", slog.String("method", tool.Method), slog.String("path", tool.Path))
	result, err := uc.invoker.Invoke(ctx, tool, data)
	if err != nil {
		log.Error("Upstream invocation failed", slog.Any("error", err))
		return nil, err
	}

	log.Info("Tool invocation successful", slog.Duration("execution_time", result.ExecutionTime))
	return result, nil
}
