// Package config loads service configuration from a YAML file with
// sensible defaults and environment variable overrides.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config is the full service configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Neo4j     Neo4jConfig     `mapstructure:"neo4j"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Strategy  StrategyConfig  `mapstructure:"strategy"`
	Schema    SchemaConfig    `mapstructure:"schema"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	LogLevel  string          `mapstructure:"log_level"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// Mode is the gin mode: debug, release, or test.
	Mode string `mapstructure:"mode"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Neo4jConfig holds graph database connection settings.
type Neo4jConfig struct {
	URI      string `mapstructure:"uri"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

// LLMConfig holds the intent-analysis LLM settings. An empty APIKey
// disables the LLM and retrieval runs on heuristic intent analysis.
type LLMConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// StrategyConfig holds strategy store settings.
type StrategyConfig struct {
	Preset string `mapstructure:"preset"`
	// StorePath, when set, persists the live snapshot to a local
	// badger store across restarts.
	StorePath string `mapstructure:"store_path"`
	// File, when set, seeds the live snapshot from a YAML export at
	// boot, overriding the preset and any persisted snapshot.
	File string `mapstructure:"file"`
}

// SchemaConfig points at the schema descriptor file.
type SchemaConfig struct {
	Path string `mapstructure:"path"`
}

// TelemetryConfig holds the parquet error-capture settings. An empty
// ParquetPath disables capture.
type TelemetryConfig struct {
	ParquetPath string `mapstructure:"parquet_path"`
}

// Load reads configuration from the given file (optional), applying
// defaults first and environment overrides last.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("neo4j.uri", "bolt://localhost:7687")
	v.SetDefault("neo4j.username", "neo4j")
	v.SetDefault("neo4j.password", "")
	v.SetDefault("neo4j.database", "neo4j")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("strategy.preset", "balanced")
	v.SetDefault("schema.path", "schema.yaml")
	v.SetDefault("log_level", "info")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	overrideWithEnv(&cfg)
	return &cfg, nil
}

// overrideWithEnv applies environment variables over file and default
// values.
func overrideWithEnv(cfg *Config) {
	if v := os.Getenv("NEO4J_URI"); v != "" {
		cfg.Neo4j.URI = v
	}
	if v := os.Getenv("NEO4J_USER"); v != "" {
		cfg.Neo4j.Username = v
	}
	if v := os.Getenv("NEO4J_PASSWORD"); v != "" {
		cfg.Neo4j.Password = v
	}
	if v := os.Getenv("NEO4J_DATABASE"); v != "" {
		cfg.Neo4j.Database = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		var port int
		if _, err := fmt.Sscanf(v, "%d", &port); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("DOCUGRAPH_PRESET"); v != "" {
		cfg.Strategy.Preset = v
	}
	if v := os.Getenv("DOCUGRAPH_STRATEGY_FILE"); v != "" {
		cfg.Strategy.File = v
	}
	if v := os.Getenv("DOCUGRAPH_SCHEMA"); v != "" {
		cfg.Schema.Path = v
	}
	if v := os.Getenv("TELEMETRY_PARQUET_PATH"); v != "" {
		cfg.Telemetry.ParquetPath = v
	}
}
