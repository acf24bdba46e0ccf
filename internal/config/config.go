// Package config loads server configuration from an optional YAML file
// with environment variable overrides. Environment always wins, so a
// deployment can ship one file and tweak single values per instance.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variable names recognized by Load.
const (
	EnvPort          = "PORT"
	EnvThreshold     = "STRUDEL_MATCH_THRESHOLD"
	EnvDBPath        = "STRUDEL_DB_PATH"
	EnvSupabaseURL   = "SUPABASE_URL"
	EnvSupabaseKey   = "SUPABASE_KEY"
	EnvSupabaseTable = "SUPABASE_TABLE"
	EnvSSEKeepalive  = "STRUDEL_SSE_KEEPALIVE"
)

// Backend names for the store selection.
const (
	BackendSQLite   = "sqlite"
	BackendSupabase = "supabase"
)

// Config is the full server configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Search SearchConfig `yaml:"search"`
	Store  StoreConfig  `yaml:"store"`
	Ingest IngestConfig `yaml:"ingest"`
}

// ServerConfig covers the HTTP transport.
type ServerConfig struct {
	Port             int `yaml:"port"`
	KeepaliveSeconds int `yaml:"keepalive_seconds"`
}

// SearchConfig covers query-time behavior.
type SearchConfig struct {
	MatchThreshold float64 `yaml:"match_threshold"`
}

// StoreConfig selects and configures the vector store backend.
type StoreConfig struct {
	Backend       string `yaml:"backend"`
	SQLitePath    string `yaml:"sqlite_path"`
	SupabaseURL   string `yaml:"supabase_url"`
	SupabaseKey   string `yaml:"supabase_key"`
	SupabaseTable string `yaml:"supabase_table"`
}

// IngestConfig covers the indexing pipeline.
type IngestConfig struct {
	Concurrency int `yaml:"concurrency"`
	BatchSize   int `yaml:"batch_size"`
}

// Default returns the configuration used when no file and no environment
// are present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:             8080,
			KeepaliveSeconds: 30,
		},
		Search: SearchConfig{
			MatchThreshold: 0.6,
		},
		Store: StoreConfig{
			SQLitePath: "strudel-docs.db",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is non-empty), then environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPort, v, err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv(EnvSSEKeepalive); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvSSEKeepalive, v, err)
		}
		c.Server.KeepaliveSeconds = secs
	}
	if v := os.Getenv(EnvThreshold); v != "" {
		threshold, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvThreshold, v, err)
		}
		c.Search.MatchThreshold = threshold
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		c.Store.SQLitePath = v
	}
	if v := os.Getenv(EnvSupabaseURL); v != "" {
		c.Store.SupabaseURL = v
	}
	if v := os.Getenv(EnvSupabaseKey); v != "" {
		c.Store.SupabaseKey = v
	}
	if v := os.Getenv(EnvSupabaseTable); v != "" {
		c.Store.SupabaseTable = v
	}
	return nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Server.Port)
	}
	if c.Search.MatchThreshold < 0 || c.Search.MatchThreshold > 1 {
		return fmt.Errorf("match threshold %g out of range [0, 1]", c.Search.MatchThreshold)
	}
	switch c.Store.Backend {
	case "", BackendSQLite, BackendSupabase:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	return nil
}

// Backend resolves the store backend. An empty setting picks Supabase
// when credentials are present, SQLite otherwise.
func (c *Config) Backend() string {
	if c.Store.Backend != "" {
		return c.Store.Backend
	}
	if c.Store.SupabaseURL != "" && c.Store.SupabaseKey != "" {
		return BackendSupabase
	}
	return BackendSQLite
}

// Keepalive returns the SSE keepalive interval.
func (c *Config) Keepalive() time.Duration {
	return time.Duration(c.Server.KeepaliveSeconds) * time.Second
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
