package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/motiva/internal/api"
	"github.com/Aman-CERP/motiva/internal/config"
	aerrors "github.com/Aman-CERP/motiva/internal/errors"
	"github.com/Aman-CERP/motiva/internal/ftm/catalog"
	"github.com/Aman-CERP/motiva/internal/index"
	"github.com/Aman-CERP/motiva/internal/index/bleve"
	"github.com/Aman-CERP/motiva/internal/index/mock"
	"github.com/Aman-CERP/motiva/internal/logging"
	"github.com/Aman-CERP/motiva/pkg/version"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP matching server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
	return cmd
}

func runServe(ctx context.Context) error {
	if configPath != "" {
		os.Setenv("MOTIVA_CONFIG", configPath)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, cleanup, err := logging.Setup(logging.Config{
		Level:         cfg.Logging.Level,
		FilePath:      cfg.Logging.FilePath,
		WriteToStderr: cfg.Logging.WriteToStderr,
	})
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer cleanup()
	slog.SetDefault(logger)

	configWatcher, err := config.WatchConfigFile(func(reloaded *config.Config) {
		logger.Info("config_file_changed", slog.String("path", config.ConfigPath()))
		if reloaded.Server.ListenAddr != cfg.Server.ListenAddr {
			logger.Warn("listen_addr_change_requires_restart", slog.String("new_addr", reloaded.Server.ListenAddr))
		}
	})
	if err != nil {
		logger.Warn("config_watch_unavailable", slog.String("error", err.Error()))
	} else {
		defer configWatcher.Close()
	}

	provider, closeProvider, err := newProvider(cfg.Index)
	if err != nil {
		return fmt.Errorf("open index: %w", err)
	}
	defer closeProvider()

	resilient := index.NewResilient(provider, aerrors.DefaultRetryConfig())

	store, err := newCatalogStore(ctx, cfg.Catalog, resilient)
	if err != nil {
		return fmt.Errorf("open catalog store: %w", err)
	}
	defer store.Close()

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()
	go store.Run(runCtx, cfg.Catalog.RefreshInterval)

	svc := api.NewService(resilient, store)
	router := api.NewRouter(svc, cfg.Server, logger, version.Short())

	server := &http.Server{
		Addr:    cfg.Server.ListenAddr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server_starting", slog.String("addr", cfg.Server.ListenAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case <-sigCtx.Done():
		logger.Info("server_shutting_down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}
}

// newProvider opens the index.Provider backend named by cfg.Backend.
// mock is a bare in-memory store with no persistence; bleve is the
// default, on-disk backend.
func newProvider(cfg config.IndexConfig) (index.Provider, func() error, error) {
	switch cfg.Backend {
	case "mock":
		return mock.New(), func() error { return nil }, nil
	case "bleve", "":
		idx, err := bleve.Open(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return idx, idx.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown index backend %q", cfg.Backend)
	}
}

// newCatalogStore builds the catalog.Store backing /catalog, wiring the
// configured provider as its IndexLister so dataset freshness reflects
// what the running index actually holds.
func newCatalogStore(ctx context.Context, cfg config.CatalogConfig, lister catalog.IndexLister) (*catalog.Store, error) {
	fetcher := catalog.NewHTTPFetcher(cfg.ManifestURL)
	snapshotDir := filepath.Dir(cfg.SnapshotPath)

	store, err := catalog.NewStore(fetcher, lister, cfg.OutdatedGrace, snapshotDir, cfg.SnapshotPath)
	if err != nil {
		return nil, err
	}
	if err := store.Refresh(ctx); err != nil {
		slog.Warn("initial_catalog_refresh_failed", slog.String("error", err.Error()))
	}
	return store, nil
}
