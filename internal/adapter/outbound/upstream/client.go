// Package upstream implements the proxy client that forwards validated
// tool invocations to the upstream automation API.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/rsmt/agentgate/internal/domain"
)

// maxBodyExcerpt caps how much of an upstream error body is echoed back to
// callers.
const maxBodyExcerpt = 512

// Client implements the usecase.ToolInvoker interface using net/http.
// One attempt per invocation; retrying side-effecting tool calls without
// idempotency keys is unsafe, so retry policy stays with the caller.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	apiKey     string
	logger     *slog.Logger
}

// New creates a new upstream Client. baseURL is the upstream API root;
// apiKey may be empty, in which case no credential header is sent.
func New(httpClient *http.Client, baseURL string, apiKey string, logger *slog.Logger) (*Client, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid upstream base URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("upstream base URL '%s' must be absolute", baseURL)
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    parsed,
		apiKey:     apiKey,
		logger:     logger.With("component", "upstream_client"),
	}, nil
}

// Invoke forwards a single tool invocation and maps the outcome to the
// gateway's result contract. Error messages are safe to surface: they never
// carry the credential, the upstream URL, or a stack trace.
func (c *Client) Invoke(ctx context.Context, tool *domain.ToolDefinition, data map[string]interface{}) (*domain.InvocationResult, error) {
	log := c.logger.With(
		slog.String("tool_name", tool.Name),
		slog.String("method", tool.Method),
		slog.String("path", tool.Path),
	)

	ctx, span := otel.Tracer("agentgate/upstream").Start(ctx, "upstream.invoke")
	span.SetAttributes(
		attribute.String("tool.name", tool.Name),
		attribute.String("http.method", tool.Method),
	)
	defer span.End()

	target := *c.baseURL
	target.Path = path.Join(c.baseURL.Path, tool.Path)

	var body io.Reader
	bodyAllowed := tool.Method == http.MethodPost || tool.Method == http.MethodPut || tool.Method == http.MethodPatch
	if bodyAllowed {
		payload, err := json.Marshal(data)
		if err != nil {
			log.Error("Failed to marshal request body", slog.Any("error", err))
			return nil, &domain.InvocationError{
				Kind:    domain.FailureDecode,
				Message: "failed to encode request payload",
			}
		}
		body = bytes.NewReader(payload)
	} else if len(data) > 0 {
		// Methods without a body carry the data as query parameters.
		query := target.Query()
		for k, v := range data {
			query.Set(k, fmt.Sprintf("%v", v))
		}
		target.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, tool.Method, target.String(), body)
	if err != nil {
		log.Error("Failed to create upstream request", slog.Any("error", err))
		return nil, &domain.InvocationError{
			Kind:    domain.FailureNetwork,
			Message: "failed to build upstream request",
		}
	}
	if bodyAllowed {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		elapsed := time.Since(start)
		span.RecordError(err)
		span.SetStatus(codes.Error, "upstream request failed")
		if isTimeout(err) {
			log.Error("Upstream request timed out", slog.Duration("elapsed", elapsed))
			return nil, &domain.InvocationError{
				Kind:    domain.FailureTimeout,
				Message: "upstream request timed out",
			}
		}
		log.Error("Upstream request failed", slog.Any("error", err), slog.Duration("elapsed", elapsed))
		return nil, &domain.InvocationError{
			Kind:    domain.FailureNetwork,
			Message: "upstream request failed",
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read upstream response")
		log.Error("Failed to read upstream response body", slog.Any("error", err))
		return nil, &domain.InvocationError{
			Kind:    domain.FailureNetwork,
			Message: "failed to read upstream response",
		}
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	log = log.With(slog.Int("status_code", resp.StatusCode), slog.Duration("elapsed", elapsed))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		span.SetStatus(codes.Error, "upstream returned error status")
		log.Warn("Upstream returned non-success status")
		return nil, &domain.InvocationError{
			Kind:    domain.FailureUpstream,
			Message: fmt.Sprintf("upstream API error: %d - %s", resp.StatusCode, excerpt(respBody)),
		}
	}

	var result interface{}
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &result); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "malformed upstream response")
			log.Warn("Upstream returned malformed JSON body", slog.Any("error", err))
			return nil, &domain.InvocationError{
				Kind:    domain.FailureDecode,
				Message: "malformed upstream response body",
			}
		}
	}

	log.Debug("Upstream invocation succeeded")
	return &domain.InvocationResult{
		Result:        result,
		ExecutionTime: elapsed,
	}, nil
}

// isTimeout reports whether the transport error was a deadline rather than
// a connectivity failure.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ue *url.Error
	return errors.As(err, &ue) && ue.Timeout()
}

func excerpt(body []byte) string {
	if len(body) > maxBodyExcerpt {
		return string(body[:maxBodyExcerpt]) + "..."
	}
	return string(body)
}
