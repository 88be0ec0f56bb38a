// Package config loads motiva's layered configuration: hardcoded defaults,
// then a YAML file, then environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete motiva configuration.
type Config struct {
	Index   IndexConfig   `yaml:"index" json:"index"`
	Match   MatchConfig   `yaml:"match" json:"match"`
	Server  ServerConfig  `yaml:"server" json:"server"`
	Catalog CatalogConfig `yaml:"catalog" json:"catalog"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// IndexConfig configures the search index backend.
type IndexConfig struct {
	// Backend selects the index.Provider implementation: "bleve" (embedded) or "mock".
	Backend string `yaml:"backend" json:"backend"`
	// URL is the address of a remote index, when Backend requires one.
	URL string `yaml:"url" json:"url"`
	// AuthMethod is one of: none, basic, bearer, api_key, encoded_api_key.
	AuthMethod string `yaml:"auth_method" json:"auth_method"`
	// ClientID / ClientSecret authenticate against the remote index.
	ClientID     string `yaml:"client_id" json:"client_id"`
	ClientSecret string `yaml:"client_secret" json:"client_secret"`
	// DataDir holds the on-disk bleve index when Backend is "bleve".
	DataDir string `yaml:"data_dir" json:"data_dir"`
}

// MatchConfig configures default match-request parameters.
type MatchConfig struct {
	Limit          int     `yaml:"limit" json:"limit"`
	Threshold      float64 `yaml:"threshold" json:"threshold"`
	Cutoff         float64 `yaml:"cutoff" json:"cutoff"`
	Algorithm      string  `yaml:"algorithm" json:"algorithm"`
	CandidateFactor int    `yaml:"candidate_factor" json:"candidate_factor"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	ListenAddr     string        `yaml:"listen_addr" json:"listen_addr"`
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
	APIKey         string        `yaml:"api_key" json:"api_key"`
	EnableMetrics  bool          `yaml:"enable_metrics" json:"enable_metrics"`
}

// CatalogConfig configures catalog refresh and staleness detection.
type CatalogConfig struct {
	ManifestURL     string        `yaml:"manifest_url" json:"manifest_url"`
	YenteURL        string        `yaml:"yente_url" json:"yente_url"`
	RefreshInterval time.Duration `yaml:"refresh_interval" json:"refresh_interval"`
	OutdatedGrace   time.Duration `yaml:"outdated_grace" json:"outdated_grace"`
	SnapshotPath    string        `yaml:"snapshot_path" json:"snapshot_path"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level         string `yaml:"level" json:"level"`
	FilePath      string `yaml:"file_path" json:"file_path"`
	WriteToStderr bool   `yaml:"write_to_stderr" json:"write_to_stderr"`
}

const opensanctionsCatalogURL = "https://data.opensanctions.org/datasets/latest/index.json"

// New returns the hardcoded defaults.
func New() *Config {
	return &Config{
		Index: IndexConfig{
			Backend:    "bleve",
			AuthMethod: "none",
			DataDir:    filepath.Join(defaultStateDir(), "index"),
		},
		Match: MatchConfig{
			Limit:           5,
			Threshold:       0.7,
			Cutoff:          0.5,
			Algorithm:       "logic-v1",
			CandidateFactor: 10,
		},
		Server: ServerConfig{
			ListenAddr:     ":8080",
			RequestTimeout: 10 * time.Second,
			EnableMetrics:  true,
		},
		Catalog: CatalogConfig{
			ManifestURL:     opensanctionsCatalogURL,
			RefreshInterval: 5 * time.Minute,
			OutdatedGrace:   24 * time.Hour,
			SnapshotPath:    filepath.Join(defaultStateDir(), "catalog.json"),
		},
		Logging: LoggingConfig{
			Level:         "info",
			WriteToStderr: true,
		},
	}
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".motiva")
	}
	return filepath.Join(home, ".motiva")
}

// ConfigPath resolves the YAML config file location: MOTIVA_CONFIG env var,
// else $XDG_CONFIG_HOME/motiva/config.yaml, else ~/.config/motiva/config.yaml.
func ConfigPath() string {
	if explicit := os.Getenv("MOTIVA_CONFIG"); explicit != "" {
		return explicit
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "motiva", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "motiva", "config.yaml")
	}
	return filepath.Join(home, ".config", "motiva", "config.yaml")
}

// Load applies configuration in order of increasing precedence:
//  1. hardcoded defaults (New)
//  2. the YAML file at ConfigPath(), if it exists
//  3. environment variable overrides (see applyEnvOverrides)
func Load() (*Config, error) {
	cfg := New()

	path := ConfigPath()
	if _, err := os.Stat(path); err == nil {
		if err := cfg.mergeYAML(path); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) mergeYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	c.mergeWith(&parsed)
	return nil
}

// mergeWith overlays non-zero values from other onto c.
func (c *Config) mergeWith(other *Config) {
	if other.Index.Backend != "" {
		c.Index.Backend = other.Index.Backend
	}
	if other.Index.URL != "" {
		c.Index.URL = other.Index.URL
	}
	if other.Index.AuthMethod != "" {
		c.Index.AuthMethod = other.Index.AuthMethod
	}
	if other.Index.ClientID != "" {
		c.Index.ClientID = other.Index.ClientID
	}
	if other.Index.ClientSecret != "" {
		c.Index.ClientSecret = other.Index.ClientSecret
	}
	if other.Index.DataDir != "" {
		c.Index.DataDir = other.Index.DataDir
	}

	if other.Match.Limit != 0 {
		c.Match.Limit = other.Match.Limit
	}
	if other.Match.Threshold != 0 {
		c.Match.Threshold = other.Match.Threshold
	}
	if other.Match.Cutoff != 0 {
		c.Match.Cutoff = other.Match.Cutoff
	}
	if other.Match.Algorithm != "" {
		c.Match.Algorithm = other.Match.Algorithm
	}
	if other.Match.CandidateFactor != 0 {
		c.Match.CandidateFactor = other.Match.CandidateFactor
	}

	if other.Server.ListenAddr != "" {
		c.Server.ListenAddr = other.Server.ListenAddr
	}
	if other.Server.RequestTimeout != 0 {
		c.Server.RequestTimeout = other.Server.RequestTimeout
	}
	if other.Server.APIKey != "" {
		c.Server.APIKey = other.Server.APIKey
	}

	if other.Catalog.ManifestURL != "" {
		c.Catalog.ManifestURL = other.Catalog.ManifestURL
	}
	if other.Catalog.YenteURL != "" {
		c.Catalog.YenteURL = other.Catalog.YenteURL
	}
	if other.Catalog.RefreshInterval != 0 {
		c.Catalog.RefreshInterval = other.Catalog.RefreshInterval
	}
	if other.Catalog.OutdatedGrace != 0 {
		c.Catalog.OutdatedGrace = other.Catalog.OutdatedGrace
	}
	if other.Catalog.SnapshotPath != "" {
		c.Catalog.SnapshotPath = other.Catalog.SnapshotPath
	}

	if other.Logging.Level != "" {
		c.Logging.Level = other.Logging.Level
	}
	if other.Logging.FilePath != "" {
		c.Logging.FilePath = other.Logging.FilePath
	}
}

// applyEnvOverrides applies the environment variables named in SPEC_FULL.md §6.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("INDEX_URL"); v != "" {
		c.Index.URL = v
	}
	if v := os.Getenv("INDEX_AUTH_METHOD"); v != "" {
		c.Index.AuthMethod = v
	}
	if v := os.Getenv("INDEX_CLIENT_ID"); v != "" {
		c.Index.ClientID = v
	}
	if v := os.Getenv("INDEX_CLIENT_SECRET"); v != "" {
		c.Index.ClientSecret = v
	}
	if v := os.Getenv("YENTE_URL"); v != "" {
		c.Catalog.YenteURL = v
	}
	if v := os.Getenv("MATCH_CANDIDATES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Match.CandidateFactor = n
		}
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		c.Server.ListenAddr = v
	}
	if v := os.Getenv("MOTIVA_API_KEY"); v != "" {
		c.Server.APIKey = v
	}
	if v := os.Getenv("MOTIVA_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate rejects configurations that would violate MatchParams invariants.
func (c *Config) Validate() error {
	if c.Match.Cutoff < 0 || c.Match.Cutoff > 1 {
		return fmt.Errorf("match.cutoff must be in [0,1], got %v", c.Match.Cutoff)
	}
	if c.Match.Threshold < 0 || c.Match.Threshold > 1 {
		return fmt.Errorf("match.threshold must be in [0,1], got %v", c.Match.Threshold)
	}
	if c.Match.Cutoff > c.Match.Threshold {
		return fmt.Errorf("match.cutoff (%v) must be <= match.threshold (%v)", c.Match.Cutoff, c.Match.Threshold)
	}
	switch c.Match.Algorithm {
	case "name-based", "name-qualified", "logic-v1":
	default:
		return fmt.Errorf("match.algorithm must be one of name-based|name-qualified|logic-v1, got %q", c.Match.Algorithm)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug|info|warn|error, got %q", c.Logging.Level)
	}
	return nil
}

// WriteYAML writes c to path, creating parent directories as needed.
func (c *Config) WriteYAML(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}
