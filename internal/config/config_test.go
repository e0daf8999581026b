package config

import (
	"errors"
	"os"
	"testing"
)

const sampleConfig = `
llm:
  provider: openai
  base_url: https://api.example.com
  api_key: dummy
  model: gpt-4o
server:
  host: 0.0.0.0
  port: "8080"
assistant:
  id: workhub-assistant
  display_name: Wren
image_search:
  url: https://images.example.com/search
  api_key: img-dummy
store:
  path: /tmp/workspace.db
`

// TestLoad verifies that Load unmarshals the full configuration tree.
func TestLoad(t *testing.T) {
	tmp, err := os.CreateTemp(t.TempDir(), "cfg-*.yaml")
	if err != nil {
		t.Fatalf("temp file: %v", err)
	}
	if _, err := tmp.WriteString(sampleConfig); err != nil {
		t.Fatalf("write: %v", err)
	}
	tmp.Close()

	t.Setenv("CONFIG_PATH", tmp.Name())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LLM.Model != "gpt-4o" {
		t.Fatalf("unexpected model: %s", cfg.LLM.Model)
	}
	if cfg.LLM.TimeoutSeconds != 60 {
		t.Fatalf("expected default timeout, got %d", cfg.LLM.TimeoutSeconds)
	}
	if cfg.Assistant.DisplayName != "Wren" {
		t.Fatalf("unexpected assistant name: %s", cfg.Assistant.DisplayName)
	}
	if cfg.ImageSearch.URL != "https://images.example.com/search" {
		t.Fatalf("unexpected image search url: %s", cfg.ImageSearch.URL)
	}
}

// TestLoad_MissingAPIKey verifies the configuration error is distinguishable
// from data errors so the UI can point at configuration.
func TestLoad_MissingAPIKey(t *testing.T) {
	tmp, err := os.CreateTemp(t.TempDir(), "cfg-*.yaml")
	if err != nil {
		t.Fatalf("temp file: %v", err)
	}
	if _, err := tmp.WriteString("llm:\n  model: gpt-4o\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	tmp.Close()

	t.Setenv("CONFIG_PATH", tmp.Name())

	_, err = Load()
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}
