// Package gatewayhttp exposes the gateway's HTTP surface: status, schema,
// invoke, liveness, and the plugin manifest. JSON field names here are part
// of the wire contract.
package gatewayhttp

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/rsmt/agentgate/internal/domain"
	"github.com/rsmt/agentgate/internal/usecase"
)

// Handlers holds dependencies for the HTTP handlers.
type Handlers struct {
	statusUC     *usecase.StatusUseCase
	serveToolsUC *usecase.ServeToolsUseCase
	invokeUC     *usecase.InvokeToolUseCase
	killSwitch   usecase.KillSwitch
	logger       *slog.Logger
}

// NewHandlers creates a new Handlers struct.
func NewHandlers(
	statusUC *usecase.StatusUseCase,
	serveToolsUC *usecase.ServeToolsUseCase,
	invokeUC *usecase.InvokeToolUseCase,
	killSwitch usecase.KillSwitch,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		statusUC:     statusUC,
		serveToolsUC: serveToolsUC,
		invokeUC:     invokeUC,
		killSwitch:   killSwitch,
		logger:       logger.With("component", "gatewayhttp_handler"),
	}
}

// RegisterRoutes sets up the gateway routes on the given mux.
func (h *Handlers) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("GET /status", h.handleStatus)
	mux.HandleFunc("GET /schema", h.handleSchema)
	mux.HandleFunc("POST /invoke", h.handleInvoke)
	mux.HandleFunc("GET /.well-known/ai-plugin.json", h.handleManifest)
}

// InvokeRequest is the expected JSON body for POST /invoke.
type InvokeRequest struct {
	Tool string                 `json:"tool"`
	Data map[string]interface{} `json:"data"`
}

// toolSchema is the /schema rendering of one tool definition.
type toolSchema struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Endpoint    string                 `json:"endpoint"`
	Method      string                 `json:"method"`
	Parameters  domain.JSONSchemaProps `json:"parameters"`
}

func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := h.statusUC.Execute()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   status.Service,
		"timestamp": now(),
	})
}

func (h *Handlers) handleStatus(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("Status endpoint called")
	status := h.statusUC.Execute()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":             "ok",
		"service":            status.Service,
		"timestamp":          now(),
		"kill_switch":        status.KillSwitch,
		"api_key_configured": status.APIKeyConfigured,
	})
}

func (h *Handlers) handleSchema(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("Schema endpoint called")
	tools := h.serveToolsUC.Execute()
	rendered := make([]toolSchema, 0, len(tools))
	for _, tool := range tools {
		rendered = append(rendered, toolSchema{
			Name:        tool.Name,
			Description: tool.Description,
			Endpoint:    tool.Path,
			Method:      tool.Method,
			Parameters:  tool.Parameters,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tools": rendered})
}

func (h *Handlers) handleInvoke(w http.ResponseWriter, r *http.Request) {
	// The kill switch wins over everything, including requests too broken
	// to decode. The pipeline checks it again for non-HTTP callers.
	if h.killSwitch.Active() {
		h.logger.Warn("Invoke request blocked - kill switch is active")
		writeFailure(w, http.StatusServiceUnavailable, domain.ErrServiceDisabled.Error())
		return
	}

	var req InvokeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Failed to decode invoke request body", slog.Any("error", err))
		writeFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}
	defer r.Body.Close()

	if req.Tool == "" {
		h.logger.Warn("Invoke request missing tool field")
		writeFailure(w, http.StatusBadRequest, "Missing required field: tool")
		return
	}
	if req.Data == nil {
		req.Data = map[string]interface{}{}
	}

	h.logger.Info("Invoke endpoint called", slog.String("tool", req.Tool))

	result, err := h.invokeUC.Execute(r.Context(), req.Tool, req.Data)
	if err != nil {
		writeFailure(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":        true,
		"result":         result.Result,
		"timestamp":      now(),
		"execution_time": result.ExecutionTime.Seconds(),
	})
}

func (h *Handlers) handleManifest(w http.ResponseWriter, r *http.Request) {
	status := h.statusUC.Execute()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"schema_version":        "v1",
		"name_for_human":        "Agent Tool Gateway",
		"name_for_model":        status.Service,
		"description_for_human": "Gateway for invoking automation tools through a single endpoint.",
		"description_for_model": "Provides tool invocations proxied to an upstream automation API. List tools via /schema, invoke via /invoke.",
		"auth":                  map[string]string{"type": "none"},
	})
}

// statusFor maps pipeline errors to HTTP status codes. The kill switch wins
// over everything; validation and lookup failures are caller errors;
// upstream outcomes map to gateway-specific 5xx codes.
func statusFor(err error) int {
	if errors.Is(err, domain.ErrServiceDisabled) {
		return http.StatusServiceUnavailable
	}
	var missing *domain.MissingFieldError
	if errors.As(err, &missing) {
		return http.StatusBadRequest
	}
	var notFound *domain.ToolNotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound
	}
	var invErr *domain.InvocationError
	if errors.As(err, &invErr) {
		if invErr.Kind == domain.FailureTimeout {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeFailure(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"success":   false,
		"error":     msg,
		"timestamp": now(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
