// Package cmd provides the CLI commands for motivactl.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/motiva/internal/config"
	aerrors "github.com/Aman-CERP/motiva/internal/errors"
	"github.com/Aman-CERP/motiva/internal/ftm/catalog"
	"github.com/Aman-CERP/motiva/internal/index"
	"github.com/Aman-CERP/motiva/internal/index/bleve"
	"github.com/Aman-CERP/motiva/internal/index/mock"
	"github.com/Aman-CERP/motiva/pkg/version"
)

var configPath string

// NewRootCmd creates the root command for motivactl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "motivactl",
		Short:   "Query a motiva index directly from the command line",
		Version: version.Version,
	}
	cmd.SetVersionTemplate("motivactl version {{.Version}}\n")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (default: MOTIVA_CONFIG or ~/.config/motiva/config.yaml)")

	cmd.AddCommand(newMatchCmd())
	cmd.AddCommand(newEntityCmd())
	cmd.AddCommand(newCatalogCmd())
	cmd.AddCommand(newAlgorithmsCmd())
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newLogsCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// loadConfig loads the layered config, honoring --config.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		os.Setenv("MOTIVA_CONFIG", configPath)
	}
	return config.Load()
}

// openProvider opens the index.Provider named by cfg.Index.Backend, wrapped
// in the same circuit-breaker/retry decorator the server uses, and returns
// a close function that must be called when done.
func openProvider(cfg config.IndexConfig) (index.Provider, func() error, error) {
	switch cfg.Backend {
	case "mock":
		return index.NewResilient(mock.New(), aerrors.DefaultRetryConfig()), func() error { return nil }, nil
	case "bleve", "":
		idx, err := bleve.Open(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return index.NewResilient(idx, aerrors.DefaultRetryConfig()), idx.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown index backend %q", cfg.Backend)
	}
}

// openCatalogStore loads the current catalog snapshot without starting a
// background refresh loop, suitable for one-shot CLI commands.
func openCatalogStore(ctx context.Context, cfg config.CatalogConfig, lister catalog.IndexLister) (*catalog.Store, error) {
	fetcher := catalog.NewHTTPFetcher(cfg.ManifestURL)
	snapshotDir := filepath.Dir(cfg.SnapshotPath)

	store, err := catalog.NewStore(fetcher, lister, cfg.OutdatedGrace, snapshotDir, cfg.SnapshotPath)
	if err != nil {
		return nil, err
	}
	if err := store.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("refresh catalog: %w", err)
	}
	return store, nil
}
