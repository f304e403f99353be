package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Neo4j.URI != "bolt://localhost:7687" {
		t.Errorf("Neo4j.URI = %q", cfg.Neo4j.URI)
	}
	if cfg.Strategy.Preset != "balanced" {
		t.Errorf("Strategy.Preset = %q", cfg.Strategy.Preset)
	}
	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("Addr() = %q", cfg.Server.Addr())
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
server:
  port: 9090
neo4j:
  uri: bolt://graph:7687
strategy:
  preset: research
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Neo4j.URI != "bolt://graph:7687" {
		t.Errorf("Neo4j.URI = %q", cfg.Neo4j.URI)
	}
	if cfg.Strategy.Preset != "research" {
		t.Errorf("Strategy.Preset = %q", cfg.Strategy.Preset)
	}
	// Untouched keys keep defaults.
	if cfg.Neo4j.Database != "neo4j" {
		t.Errorf("Neo4j.Database = %q", cfg.Neo4j.Database)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("NEO4J_URI", "bolt://override:7687")
	t.Setenv("SERVER_PORT", "7001")
	t.Setenv("DOCUGRAPH_PRESET", "speed")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Neo4j.URI != "bolt://override:7687" {
		t.Errorf("Neo4j.URI = %q", cfg.Neo4j.URI)
	}
	if cfg.Server.Port != 7001 {
		t.Errorf("Server.Port = %d", cfg.Server.Port)
	}
	if cfg.Strategy.Preset != "speed" {
		t.Errorf("Strategy.Preset = %q", cfg.Strategy.Preset)
	}
	if cfg.LLM.APIKey != "sk-test" {
		t.Errorf("LLM.APIKey = %q", cfg.LLM.APIKey)
	}
}
