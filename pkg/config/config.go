// Package config loads Scout configuration from defaults, an optional YAML
// file, and SCOUT_-prefixed environment variables, in that order.
package config

import (
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Log          LogConfig          `koanf:"log"`
	LLM          LLMConfig          `koanf:"llm"`
	Telemetry    TelemetryConfig    `koanf:"telemetry"`
	Orchestrator OrchestratorConfig `koanf:"orchestrator"`
	Audit        AuditConfig        `koanf:"audit"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json, text
}

type LLMConfig struct {
	Provider string `koanf:"provider"` // openai, anthropic, ollama
	Model    string `koanf:"model"`
	BaseURL  string `koanf:"base_url"`
	APIKey   string `koanf:"api_key"`
}

type TelemetryConfig struct {
	Exporter     string `koanf:"exporter"` // stdout, otlp, none
	OTLPEndpoint string `koanf:"otlp_endpoint"`
	OTLPInsecure bool   `koanf:"otlp_insecure"`
}

type OrchestratorConfig struct {
	// DefaultIntent is substituted for unknown or missing intents during
	// plan repair. Must name a registered capability.
	DefaultIntent string `koanf:"default_intent"`

	// PlannerTimeoutSeconds bounds the planning call.
	PlannerTimeoutSeconds int `koanf:"planner_timeout_seconds"`

	// StepTimeoutSeconds bounds each handler call. A step that exceeds it is
	// recorded as degraded; the run continues.
	StepTimeoutSeconds int `koanf:"step_timeout_seconds"`
}

type AuditConfig struct {
	Enabled bool   `koanf:"enabled"`
	Driver  string `koanf:"driver"` // memory, sqlite
	Path    string `koanf:"path"`   // sqlite database path
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Defaults
	k.Set("log.level", "info")
	k.Set("log.format", "text")
	k.Set("llm.provider", "ollama")
	k.Set("llm.model", "qwen2.5-coder:7b-instruct-q5_K_M")
	k.Set("llm.base_url", "http://localhost:11434")

	k.Set("telemetry.exporter", "none")
	k.Set("telemetry.otlp_insecure", true)

	k.Set("orchestrator.default_intent", "search")
	k.Set("orchestrator.planner_timeout_seconds", 60)
	k.Set("orchestrator.step_timeout_seconds", 120)

	k.Set("audit.enabled", false)
	k.Set("audit.driver", "memory")
	k.Set("audit.path", "scout-audit.db")

	// 1. Load from file
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// 2. Load from ENV (SCOUT_LLM_PROVIDER -> llm.provider)
	if err := k.Load(env.Provider("SCOUT_", ".", envKey), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// envKeyOverrides lists keys whose names themselves contain underscores.
// Blind underscore-to-dot replacement would turn SCOUT_LLM_BASE_URL into
// llm.base.url and the override would silently miss.
var envKeyOverrides = map[string]string{
	"LLM_BASE_URL":                         "llm.base_url",
	"LLM_API_KEY":                          "llm.api_key",
	"TELEMETRY_OTLP_ENDPOINT":              "telemetry.otlp_endpoint",
	"TELEMETRY_OTLP_INSECURE":              "telemetry.otlp_insecure",
	"ORCHESTRATOR_DEFAULT_INTENT":          "orchestrator.default_intent",
	"ORCHESTRATOR_PLANNER_TIMEOUT_SECONDS": "orchestrator.planner_timeout_seconds",
	"ORCHESTRATOR_STEP_TIMEOUT_SECONDS":    "orchestrator.step_timeout_seconds",
}

func envKey(s string) string {
	suffix := strings.TrimPrefix(s, "SCOUT_")
	if key, ok := envKeyOverrides[suffix]; ok {
		return key
	}
	return strings.ReplaceAll(strings.ToLower(suffix), "_", ".")
}
