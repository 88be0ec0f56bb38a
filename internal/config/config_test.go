package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	cfg := New()

	assert.Equal(t, "bleve", cfg.Index.Backend)
	assert.Equal(t, 5, cfg.Match.Limit)
	assert.Equal(t, 0.7, cfg.Match.Threshold)
	assert.Equal(t, 0.5, cfg.Match.Cutoff)
	assert.Equal(t, "logic-v1", cfg.Match.Algorithm)
	assert.Equal(t, 10, cfg.Match.CandidateFactor)
	assert.Equal(t, ":8080", cfg.Server.ListenAddr)
	assert.Equal(t, 10*time.Second, cfg.Server.RequestTimeout)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"cutoff above threshold", func(c *Config) { c.Match.Cutoff = 0.9 }, true},
		{"cutoff negative", func(c *Config) { c.Match.Cutoff = -0.1 }, true},
		{"threshold above one", func(c *Config) { c.Match.Threshold = 1.5 }, true},
		{"unknown algorithm", func(c *Config) { c.Match.Algorithm = "bogus" }, true},
		{"unknown log level", func(c *Config) { c.Logging.Level = "verbose" }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := New()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadMergesYAMLOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("match:\n  limit: 25\n  algorithm: name-based\n"), 0o644))

	t.Setenv("MOTIVA_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Match.Limit)
	assert.Equal(t, "name-based", cfg.Match.Algorithm)
	// Untouched fields keep their defaults.
	assert.Equal(t, 0.7, cfg.Match.Threshold)
}

func TestLoadAppliesEnvOverridesLast(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("match:\n  candidate_factor: 20\n"), 0o644))

	t.Setenv("MOTIVA_CONFIG", path)
	t.Setenv("MATCH_CANDIDATES", "42")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.Match.CandidateFactor)
}

func TestWriteYAMLRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := New()
	cfg.Match.Limit = 7
	require.NoError(t, cfg.WriteYAML(path))

	t.Setenv("MOTIVA_CONFIG", path)
	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7, loaded.Match.Limit)
}

func TestConfigPathPrecedence(t *testing.T) {
	t.Setenv("MOTIVA_CONFIG", "/explicit/path.yaml")
	assert.Equal(t, "/explicit/path.yaml", ConfigPath())
}
