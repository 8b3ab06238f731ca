package configs

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// FileConfig defines the structure loaded from the optional YAML
// configuration file. Everything here can also be set (and overridden)
// through environment variables.
type FileConfig struct {
	UpstreamBaseURL string `yaml:"upstream_base_url"`
	ToolsFile       string `yaml:"tools_file"`
	ServiceName     string `yaml:"service_name"`
}

// Config holds the final application configuration, merged from the
// optional file and environment variables. Environment variables use the
// prefix "AGENTGATE_" and win over file settings.
type Config struct {
	// Config file path (loaded first from env).
	ConfigFilePath string `envconfig:"CONFIG_FILE"`

	// ServiceName is reported by /status and /health.
	ServiceName string `envconfig:"SERVICE_NAME" default:"agentgate"`

	// UpstreamBaseURL is the base URL of the upstream automation API.
	// Required; the process refuses to start without it.
	UpstreamBaseURL string `envconfig:"UPSTREAM_BASE_URL"`

	// UpstreamAPIKey is the credential attached to every upstream call.
	UpstreamAPIKey string `envconfig:"UPSTREAM_API_KEY"`

	// KillSwitch unconditionally disables all tool invocations when true.
	KillSwitch bool `envconfig:"KILL_SWITCH" default:"false"`

	// ToolsFile is the tool-definition source the registry loads at start.
	ToolsFile string `envconfig:"TOOLS_FILE" default:"configs/tools.yaml"`

	ListenAddr    string `envconfig:"LISTEN_ADDR" default:":8080"`
	MCPListenAddr string `envconfig:"MCP_LISTEN_ADDR" default:":8081"`

	HTTPClientTimeout        time.Duration `envconfig:"HTTP_CLIENT_TIMEOUT" default:"30s"`
	ShutdownTimeout          time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`
	ServerReadTimeout        time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"5s"`
	ServerWriteTimeout       time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"60s"`
	ServerIdleTimeout        time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" default:"120s"`
	OtelExporterOtlpEndpoint string        `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelExporterOtlpInsecure bool          `envconfig:"OTEL_EXPORTER_OTLP_INSECURE" default:"true"`
	LogLevel                 string        `envconfig:"LOG_LEVEL" default:"info"`
}

// ParsedLogLevel returns the slog.Level based on the configured LogLevel string.
func (c *Config) ParsedLogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "info":
		fallthrough
	default:
		return slog.LevelInfo
	}
}

// Load loads configuration first from environment variables (to get the
// file path), then from the YAML file if one is specified, and finally
// re-applies environment variables so they override file settings.
func Load() (*Config, error) {
	var initialCfg Config
	if err := envconfig.Process("agentgate", &initialCfg); err != nil {
		return nil, fmt.Errorf("failed to process initial environment variables: %w", err)
	}

	finalCfg := initialCfg

	if initialCfg.ConfigFilePath != "" {
		yamlFile, err := os.ReadFile(initialCfg.ConfigFilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file '%s': %w", initialCfg.ConfigFilePath, err)
		}

		var fileCfg FileConfig
		if err := yaml.Unmarshal(yamlFile, &fileCfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file '%s': %w", initialCfg.ConfigFilePath, err)
		}
		slog.Info("Loaded configuration from file.", "path", initialCfg.ConfigFilePath)

		// Environment variables win over file settings, so a file value is
		// only applied when the corresponding variable is unset.
		if fileCfg.UpstreamBaseURL != "" && os.Getenv("AGENTGATE_UPSTREAM_BASE_URL") == "" {
			finalCfg.UpstreamBaseURL = fileCfg.UpstreamBaseURL
		}
		if fileCfg.ToolsFile != "" && os.Getenv("AGENTGATE_TOOLS_FILE") == "" {
			finalCfg.ToolsFile = fileCfg.ToolsFile
		}
		if fileCfg.ServiceName != "" && os.Getenv("AGENTGATE_SERVICE_NAME") == "" {
			finalCfg.ServiceName = fileCfg.ServiceName
		}
	}

	if finalCfg.UpstreamBaseURL == "" {
		return nil, fmt.Errorf("upstream base URL is not configured (set AGENTGATE_UPSTREAM_BASE_URL)")
	}

	return &finalCfg, nil
}
