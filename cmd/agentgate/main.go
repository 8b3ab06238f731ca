package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/rsmt/agentgate/configs"
	"github.com/rsmt/agentgate/internal/adapter/inbound/gatewayhttp"
	"github.com/rsmt/agentgate/internal/adapter/inbound/mcpbridge"
	"github.com/rsmt/agentgate/internal/adapter/outbound/registry"
	"github.com/rsmt/agentgate/internal/adapter/outbound/upstream"
	"github.com/rsmt/agentgate/internal/usecase"
)

const version = "1.0.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// === Configuration ===
	cfg, err := configs.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// === Logging ===
	logLevel := cfg.ParsedLogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	logger.Info("Logger initialized.", slog.String("level", logLevel.String()))

	if !cfg.KillSwitch && cfg.UpstreamAPIKey == "" {
		logger.Warn("Upstream API key not set - invocations will be sent without a credential.")
	}
	if cfg.KillSwitch {
		logger.Warn("Kill switch is active - all invocations will be rejected.")
	}

	// === OpenTelemetry Initialization ===
	shutdownOtel, err := initOtelProvider(cfg)
	if err != nil {
		logger.Error("Failed to initialize OpenTelemetry.", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := shutdownOtel(context.Background()); err != nil {
			logger.Error("Failed to shutdown OpenTelemetry TracerProvider.", slog.Any("error", err))
		}
	}()

	// === Tool Registry ===
	// A registry that fails to load is fatal: the process must not serve
	// traffic in a partially-configured state.
	reg, err := registry.Load(cfg.ToolsFile, logger)
	if err != nil {
		logger.Error("Failed to load tool registry.", slog.Any("error", err))
		os.Exit(1)
	}

	// === Dependency Injection ===
	httpClient := &http.Client{Timeout: cfg.HTTPClientTimeout}
	logger.Debug("HTTP client configured.", slog.Duration("timeout", cfg.HTTPClientTimeout))

	proxyClient, err := upstream.New(httpClient, cfg.UpstreamBaseURL, cfg.UpstreamAPIKey, logger)
	if err != nil {
		logger.Error("Failed to configure upstream client.", slog.Any("error", err))
		os.Exit(1)
	}

	killSwitch := usecase.KillSwitchFunc(func() bool { return cfg.KillSwitch })

	invokeUC := usecase.NewInvokeToolUseCase(reg, proxyClient, killSwitch, logger)
	serveToolsUC := usecase.NewServeToolsUseCase(reg, logger)
	statusUC := usecase.NewStatusUseCase(cfg.ServiceName, cfg.UpstreamAPIKey != "", killSwitch)

	// === Gateway HTTP Server ===
	mux := http.NewServeMux()
	handlers := gatewayhttp.NewHandlers(statusUC, serveToolsUC, invokeUC, killSwitch, logger)
	handlers.RegisterRoutes(mux)
	gatewayServer := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      mux,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	// === MCP Server (mark3labs/mcp-go) ===
	mcpSrv := mcpserver.NewMCPServer(cfg.ServiceName, version)
	bridge := mcpbridge.New(invokeUC, logger)
	if err := bridge.Register(mcpSrv, reg.List()); err != nil {
		logger.Error("Failed to register MCP tools.", slog.Any("error", err))
		os.Exit(1)
	}
	sseServer := mcpserver.NewSSEServer(mcpSrv, mcpserver.WithBaseURL("http://"+cfg.MCPListenAddr))

	// === Startup ===
	go func() {
		logger.Info("Gateway HTTP server starting.", slog.String("address", gatewayServer.Addr))
		if err := gatewayServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Gateway HTTP server failed.", slog.Any("error", err))
			stop()
		}
	}()

	go func() {
		logger.Info("MCP SSE server starting.", slog.String("address", cfg.MCPListenAddr))
		if err := sseServer.Start(cfg.MCPListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("MCP SSE server failed.", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()

	// === Shutdown ===
	logger.Info("Shutting down servers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := gatewayServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Gateway HTTP server graceful shutdown failed.", slog.Any("error", err))
	}
	if err := sseServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("MCP SSE server graceful shutdown failed.", slog.Any("error", err))
	}
	logger.Info("Servers shut down gracefully.")
}

// initOtelProvider initializes the OpenTelemetry SDK and sets up the OTLP
// trace exporter. It returns a shutdown function to be called on exit.
// Tracing is disabled when no OTLP endpoint is configured.
func initOtelProvider(cfg *configs.Config) (func(context.Context) error, error) {
	ctx := context.Background()

	if cfg.OtelExporterOtlpEndpoint == "" {
		slog.Info("OTEL_EXPORTER_OTLP_ENDPOINT not set, OpenTelemetry tracing disabled.")
		return func(context.Context) error { return nil }, nil
	}

	slog.Info("Initializing OTLP exporter.", slog.String("endpoint", cfg.OtelExporterOtlpEndpoint))

	grpcOpts := []grpc.DialOption{}
	if cfg.OtelExporterOtlpInsecure {
		grpcOpts = append(grpcOpts, grpc.WithTransportCredentials(insecure.NewCredentials()))
		slog.Warn("Using insecure connection for OTLP exporter.")
	}

	conn, err := grpc.NewClient(cfg.OtelExporterOtlpEndpoint, grpcOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection to OTLP endpoint: %w", err)
	}

	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	r, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(cfg.ServiceName),
		),
	)
	if err != nil {
		_ = traceExporter.Shutdown(ctx)
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(r),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) error {
		providerErr := tp.Shutdown(ctx)
		connErr := conn.Close()
		return errors.Join(providerErr, connErr)
	}, nil
}
