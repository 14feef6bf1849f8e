package source

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"cardiodash/domain/core"
	"cardiodash/internal/metrics"
)

// DirFetcher reads catalog files from a local directory
type DirFetcher struct {
	dir     string
	catalog *Catalog
	metrics *metrics.Collector
}

// NewDirFetcher creates a fetcher rooted at dir
func NewDirFetcher(dir string, catalog *Catalog, collector *metrics.Collector) *DirFetcher {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &DirFetcher{dir: dir, catalog: catalog, metrics: collector}
}

// Fetch reads the file behind name
func (f *DirFetcher) Fetch(ctx context.Context, name core.SourceName) ([]byte, error) {
	entry, err := f.catalog.Lookup(name)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, core.NewFetchError(entry.Name.String(), err)
	}

	start := time.Now()
	data, err := os.ReadFile(filepath.Join(f.dir, entry.File))
	f.metrics.ObserveFetch(entry.Name.String(), err, time.Since(start))
	if err != nil {
		return nil, core.NewFetchError(entry.Name.String(), err)
	}
	return data, nil
}
