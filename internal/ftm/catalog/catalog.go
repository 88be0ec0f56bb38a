// Package catalog models the merged dataset catalog: the union of every
// upstream catalog named in a manifest plus any locally-declared
// datasets, cross-referenced against the index's own reported versions
// to flag which datasets are stale. The merge algorithm is a direct port
// of get_merged_catalog in crates/libmotiva/src/catalog.rs.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// DefaultCatalogURL is the upstream manifest's default catalog source,
// used when no local manifest overrides it.
const DefaultCatalogURL = "https://data.opensanctions.org/datasets/latest/index.json"

// Manifest lists the upstream catalogs to merge and any datasets to
// declare locally (e.g. private in-house lists).
type Manifest struct {
	Catalogs []ManifestCatalog `yaml:"catalogs" json:"catalogs"`
	Datasets []ManifestDataset `yaml:"datasets" json:"datasets"`
}

// ManifestCatalog names one upstream catalog document to fetch and merge.
type ManifestCatalog struct {
	URL          string   `yaml:"url" json:"url"`
	Scope        string   `yaml:"scope,omitempty" json:"scope,omitempty"`
	Scopes       []string `yaml:"scopes,omitempty" json:"scopes,omitempty"`
	ResourceName string   `yaml:"resource_name,omitempty" json:"resource_name,omitempty"`
	Datasets     []string `yaml:"datasets,omitempty" json:"datasets,omitempty"`
}

// ManifestDataset declares one locally-defined dataset not present in any
// upstream catalog.
type ManifestDataset struct {
	Name        string   `yaml:"name" json:"name"`
	Title       string   `yaml:"title" json:"title"`
	Version     string   `yaml:"version,omitempty" json:"version,omitempty"`
	EntitiesURL string   `yaml:"entities_url,omitempty" json:"entities_url,omitempty"`
	Datasets    []string `yaml:"datasets,omitempty" json:"datasets,omitempty"`
}

// DefaultManifest returns the hardcoded default: a single upstream
// OpenSanctions-shaped catalog scoped to "default", and no local datasets.
func DefaultManifest() *Manifest {
	return &Manifest{
		Catalogs: []ManifestCatalog{{
			URL:          DefaultCatalogURL,
			Scope:        "default",
			ResourceName: "entities.ftm.json",
		}},
	}
}

// CatalogDatasetPublisher describes who publishes a dataset.
type CatalogDatasetPublisher struct {
	Name        string `json:"name"`
	Acronym     string `json:"acronym,omitempty"`
	URL         string `json:"url"`
	Country     string `json:"country,omitempty"`
	Description string `json:"description,omitempty"`
	Official    bool   `json:"official"`
}

// CatalogDatasetCoverage describes a dataset's temporal/geographic scope.
type CatalogDatasetCoverage struct {
	Start     string   `json:"start"`
	End       string   `json:"end,omitempty"`
	Countries []string `json:"countries,omitempty"`
	Schedule  string   `json:"schedule,omitempty"`
	Frequency string   `json:"frequency"`
}

// CatalogDataset is one dataset (or scope) within the merged catalog.
type CatalogDataset struct {
	Name         string                   `json:"name"`
	Title        string                   `json:"title"`
	Summary      string                   `json:"summary"`
	Tags         []string                 `json:"tags,omitempty"`
	Description  string                   `json:"description,omitempty"`
	Category     string                   `json:"category,omitempty"`
	URL          string                   `json:"url,omitempty"`
	DeltaURL     string                   `json:"delta_url,omitempty"`
	EntityCount  uint64                   `json:"entity_count"`
	ThingCount   uint64                   `json:"thing_count,omitempty"`
	Children     []string                 `json:"children,omitempty"`
	Load         bool                     `json:"load"`
	Version      string                   `json:"version"`
	IndexVersion string                   `json:"index_version,omitempty"`
	IndexCurrent bool                     `json:"index_current"`
	Publisher    *CatalogDatasetPublisher `json:"publisher,omitempty"`
	Coverage     *CatalogDatasetCoverage  `json:"coverage,omitempty"`
	LastChange   time.Time                `json:"last_change"`
	LastExport   time.Time                `json:"last_export"`
	UpdatedAt    time.Time                `json:"updated_at"`
}

// Catalog is the fully-merged, query-ready dataset catalog.
type Catalog struct {
	Datasets       []CatalogDataset          `json:"datasets"`
	IndexStale     bool                      `json:"index_stale"`
	Current        []string                  `json:"current"`
	Outdated       []string                  `json:"outdated"`
	LoadedDatasets map[string]CatalogDataset `json:"-"`
}

// Document is the wire shape of one fetched upstream catalog document:
// just the datasets array, every other merge-time field is computed
// locally.
type Document struct {
	Datasets []CatalogDataset `json:"datasets"`
}

// IndexVersion is one (dataset name, index-reported version) pair, as
// returned by the index provider's list-indices call.
type IndexVersion struct {
	Name    string
	Version string
}

// Fetcher retrieves the manifest and any upstream catalog documents it
// names.
type Fetcher interface {
	FetchManifest(ctx context.Context) (*Manifest, error)
	FetchCatalog(ctx context.Context, url string) (*Document, error)
}

// IndexLister reports the dataset versions the index currently holds.
type IndexLister interface {
	ListIndices(ctx context.Context) ([]IndexVersion, error)
}

// Merge builds the merged Catalog from a manifest and the index's
// reported dataset versions, exactly mirroring get_merged_catalog's
// control flow: for every upstream catalog, mark scoped datasets
// load=true, diff each dataset's declared version against what the index
// holds (current / outdated, inside outdatedGrace of the reported index
// timestamp; an index version whose timestamp cannot be parsed counts as
// outdated), then append every locally-declared manifest dataset.
func Merge(ctx context.Context, fetcher Fetcher, lister IndexLister, outdatedGrace time.Duration) (*Catalog, error) {
	manifest, err := fetcher.FetchManifest(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch manifest: %w", err)
	}

	indices, err := lister.ListIndices(ctx)
	if err != nil {
		return nil, fmt.Errorf("list indices: %w", err)
	}
	indexVersion := make(map[string]string, len(indices))
	for _, iv := range indices {
		indexVersion[iv.Name] = iv.Version
	}

	cat := &Catalog{}

	for _, spec := range manifest.Catalogs {
		upstream, err := fetcher.FetchCatalog(ctx, spec.URL)
		if err != nil {
			return nil, fmt.Errorf("fetch catalog %s: %w", spec.URL, err)
		}

		scopes := append([]string(nil), spec.Scopes...)
		if spec.Scope != "" {
			scopes = append(scopes, spec.Scope)
		}
		scopeSet := make(map[string]struct{}, len(scopes))
		for _, s := range scopes {
			scopeSet[s] = struct{}{}
		}

		for i := range upstream.Datasets {
			ds := &upstream.Datasets[i]
			if _, ok := scopeSet[ds.Name]; ok {
				ds.Load = true
			}

			version, ok := indexVersion[ds.Name]
			if !ok {
				continue
			}
			ds.IndexVersion = version
			if version == ds.Version {
				ds.IndexCurrent = true
				continue
			}

			indexedTimestamp, ok := parseIndexedTimestamp(version)
			if !ok {
				cat.Outdated = append(cat.Outdated, ds.Name)
				continue
			}
			if ds.LastExport.After(indexedTimestamp.Add(outdatedGrace)) {
				cat.Outdated = append(cat.Outdated, ds.Name)
			} else {
				cat.Current = append(cat.Current, ds.Name)
			}
		}

		cat.Datasets = append(cat.Datasets, upstream.Datasets...)
	}

	for _, md := range manifest.Datasets {
		version := md.Version
		if version == "" {
			version = fmt.Sprintf("%s-mot", time.Now().UTC().Format("20060102150405"))
		}
		ds := CatalogDataset{
			Name:     md.Name,
			Title:    md.Title,
			Load:     true,
			Version:  version,
			Children: md.Datasets,
		}
		if iv, ok := indexVersion[md.Name]; ok {
			ds.IndexVersion = iv
			ds.IndexCurrent = iv == ds.Version
		}
		cat.Datasets = append(cat.Datasets, ds)
	}

	cat.IndexStale = len(cat.Outdated) > 0
	cat.LoadedDatasets = make(map[string]CatalogDataset, len(cat.Datasets))
	for _, ds := range cat.Datasets {
		cat.LoadedDatasets[ds.Name] = ds
	}

	return cat, nil
}

// parseIndexedTimestamp extracts and parses the "YYYYMMDDHHMMSS" prefix of
// a dataset version string like "20251125100000-pop".
func parseIndexedTimestamp(version string) (time.Time, bool) {
	prefix, _, found := strings.Cut(version, "-")
	if !found {
		return time.Time{}, false
	}
	t, err := time.Parse("20060102150405", prefix)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Children returns scope's child dataset list, or nil if scope is unknown.
func (c *Catalog) Children(scope string) []string {
	ds, ok := c.LoadedDatasets[scope]
	if !ok {
		return nil
	}
	return ds.Children
}
