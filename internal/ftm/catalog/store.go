package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite" // pure-Go sqlite driver, no CGO
)

// Store holds the current merged Catalog in memory and refreshes it on a
// timer, guarding the refresh itself with a cross-process file lock so two
// processes sharing a
// snapshot directory never race to rebuild it, and persisting the last
// successful snapshot to SQLite so a cold start has something to serve
// before its first refresh completes.
type Store struct {
	mu      sync.RWMutex
	current *Catalog

	fetcher Fetcher
	lister  IndexLister
	grace   time.Duration

	lockPath string
	db       *sql.DB
}

// NewStore opens (creating if absent) the sqlite snapshot database at
// snapshotPath and returns a Store ready to Refresh. snapshotDir is where
// the cross-process refresh lock file lives.
func NewStore(fetcher Fetcher, lister IndexLister, grace time.Duration, snapshotDir, snapshotPath string) (*Store, error) {
	if err := os.MkdirAll(snapshotDir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot dir %s: %w", snapshotDir, err)
	}

	db, err := openSnapshotDB(snapshotPath)
	if err != nil {
		return nil, err
	}

	s := &Store{
		fetcher:  fetcher,
		lister:   lister,
		grace:    grace,
		lockPath: filepath.Join(snapshotDir, ".catalog.lock"),
		db:       db,
	}

	if snap, err := s.loadSnapshot(); err != nil {
		slog.Warn("catalog_snapshot_load_failed", slog.String("error", err.Error()))
	} else if snap != nil {
		s.mu.Lock()
		s.current = snap
		s.mu.Unlock()
	}

	return s, nil
}

func openSnapshotDB(path string) (*sql.DB, error) {
	dsn := path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open snapshot db %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set pragma %q: %w", p, err)
		}
	}

	schema := `
	CREATE TABLE IF NOT EXISTS catalog_snapshot (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		payload TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create snapshot schema: %w", err)
	}
	return db, nil
}

func (s *Store) loadSnapshot() (*Catalog, error) {
	var payload string
	err := s.db.QueryRow(`SELECT payload FROM catalog_snapshot WHERE id = 1`).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var cat Catalog
	if err := json.Unmarshal([]byte(payload), &cat); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	cat.LoadedDatasets = make(map[string]CatalogDataset, len(cat.Datasets))
	for _, ds := range cat.Datasets {
		cat.LoadedDatasets[ds.Name] = ds
	}
	return &cat, nil
}

func (s *Store) saveSnapshot(cat *Catalog) error {
	payload, err := json.Marshal(cat)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO catalog_snapshot (id, payload, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`, string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Get returns the currently-held Catalog, or nil before the first
// successful Refresh.
func (s *Store) Get() *Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Refresh rebuilds the catalog under a cross-process lock and, on success,
// swaps it in and persists the snapshot. Concurrent Refresh calls from
// other processes sharing the same snapshot directory block on the file
// lock rather than racing.
func (s *Store) Refresh(ctx context.Context) error {
	fl := flock.New(s.lockPath)
	if err := fl.Lock(); err != nil {
		return fmt.Errorf("acquire catalog refresh lock: %w", err)
	}
	defer fl.Unlock()

	cat, err := Merge(ctx, s.fetcher, s.lister, s.grace)
	if err != nil {
		return fmt.Errorf("merge catalog: %w", err)
	}

	s.mu.Lock()
	s.current = cat
	s.mu.Unlock()

	if err := s.saveSnapshot(cat); err != nil {
		slog.Warn("catalog_snapshot_save_failed", slog.String("error", err.Error()))
	}
	return nil
}

// Run refreshes on every tick of interval until ctx is cancelled, logging
// (but not returning) refresh failures so one bad upstream fetch doesn't
// stop future attempts.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Refresh(ctx); err != nil {
				slog.Error("catalog_refresh_failed", slog.String("error", err.Error()))
			}
		}
	}
}

// Close releases the snapshot database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
