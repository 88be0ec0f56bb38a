package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// HTTPFetcher fetches the manifest from a local YAML file (falling back to
// DefaultManifest when manifestPath is empty or missing) and upstream
// catalog documents over HTTP.
type HTTPFetcher struct {
	ManifestPath string
	Client       *http.Client
}

// NewHTTPFetcher returns an HTTPFetcher with a bounded-timeout client.
func NewHTTPFetcher(manifestPath string) *HTTPFetcher {
	return &HTTPFetcher{
		ManifestPath: manifestPath,
		Client:       &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchManifest loads ManifestPath, or DefaultManifest if unset or absent.
func (f *HTTPFetcher) FetchManifest(_ context.Context) (*Manifest, error) {
	if f.ManifestPath == "" {
		return DefaultManifest(), nil
	}
	data, err := os.ReadFile(f.ManifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultManifest(), nil
		}
		return nil, fmt.Errorf("read manifest %s: %w", f.ManifestPath, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", f.ManifestPath, err)
	}
	return &m, nil
}

// FetchCatalog retrieves and decodes the upstream catalog document at url.
func (f *HTTPFetcher) FetchCatalog(ctx context.Context, url string) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", url, err)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	var doc Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", url, err)
	}
	return &doc, nil
}
