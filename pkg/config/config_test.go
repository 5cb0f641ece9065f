package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("unexpected log level: %q", cfg.Log.Level)
	}
	if cfg.Orchestrator.DefaultIntent != "search" {
		t.Errorf("unexpected default intent: %q", cfg.Orchestrator.DefaultIntent)
	}
	if cfg.Orchestrator.StepTimeoutSeconds != 120 {
		t.Errorf("unexpected step timeout: %d", cfg.Orchestrator.StepTimeoutSeconds)
	}
	if cfg.Audit.Enabled {
		t.Error("audit should be disabled by default")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scout.yaml")
	payload := []byte(`
log:
  level: debug
  format: json
llm:
  provider: openai
  model: gpt-5-mini
orchestrator:
  default_intent: retrieve
  step_timeout_seconds: 30
audit:
  enabled: true
  driver: sqlite
`)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("file values not applied: %+v", cfg.Log)
	}
	if cfg.LLM.Provider != "openai" {
		t.Errorf("unexpected provider: %q", cfg.LLM.Provider)
	}
	if cfg.Orchestrator.DefaultIntent != "retrieve" {
		t.Errorf("unexpected default intent: %q", cfg.Orchestrator.DefaultIntent)
	}
	if cfg.Orchestrator.StepTimeoutSeconds != 30 {
		t.Errorf("unexpected step timeout: %d", cfg.Orchestrator.StepTimeoutSeconds)
	}
	if !cfg.Audit.Enabled || cfg.Audit.Driver != "sqlite" {
		t.Errorf("audit config not applied: %+v", cfg.Audit)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("SCOUT_LLM_PROVIDER", "anthropic")
	t.Setenv("SCOUT_LOG_LEVEL", "error")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LLM.Provider != "anthropic" {
		t.Errorf("env override not applied: %q", cfg.LLM.Provider)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("env override not applied: %q", cfg.Log.Level)
	}
}

func TestEnvOverridesMultiWordKeys(t *testing.T) {
	t.Setenv("SCOUT_LLM_BASE_URL", "http://ollama.internal:11434")
	t.Setenv("SCOUT_ORCHESTRATOR_DEFAULT_INTENT", "analyze")
	t.Setenv("SCOUT_ORCHESTRATOR_STEP_TIMEOUT_SECONDS", "15")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LLM.BaseURL != "http://ollama.internal:11434" {
		t.Errorf("base_url override not applied: %q", cfg.LLM.BaseURL)
	}
	if cfg.Orchestrator.DefaultIntent != "analyze" {
		t.Errorf("default_intent override not applied: %q", cfg.Orchestrator.DefaultIntent)
	}
	if cfg.Orchestrator.StepTimeoutSeconds != 15 {
		t.Errorf("step_timeout_seconds override not applied: %d", cfg.Orchestrator.StepTimeoutSeconds)
	}
}
