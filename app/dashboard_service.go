package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"cardiodash/adapters/excel"
	"cardiodash/domain/core"
	"cardiodash/domain/dataset"
	"cardiodash/internal"
	apperrors "cardiodash/internal/errors"
	"cardiodash/internal/ingest"
	"cardiodash/internal/metrics"
	"cardiodash/ports"
)

// DashboardService owns every change to the working dataset: source selection,
// uploads and clearing. Loads are tagged with store tickets so a slow response
// never overwrites a newer one.
type DashboardService struct {
	store          ports.DatasetStore
	fetcher        ports.SourceFetcher
	catalog        ports.SourceCatalog
	processor      *ingest.Processor
	logger         *internal.Logger
	metrics        *metrics.Collector
	maxUploadBytes int64
	preloadLimit   int

	mu      sync.RWMutex
	sources map[core.SourceName]*dataset.Dataset // ingested catalog sources, for comparison
}

// DashboardConfig holds service limits
type DashboardConfig struct {
	MaxUploadBytes int64
	PreloadLimit   int // concurrent fetches during PreloadCatalog
}

// DefaultDashboardConfig returns the limits used when none are configured
func DefaultDashboardConfig() DashboardConfig {
	return DashboardConfig{MaxUploadBytes: 5 << 20, PreloadLimit: 3}
}

// NewDashboardService creates a dashboard service
func NewDashboardService(store ports.DatasetStore, fetcher ports.SourceFetcher, catalog ports.SourceCatalog, processor *ingest.Processor, logger *internal.Logger, collector *metrics.Collector, config DashboardConfig) *DashboardService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if processor == nil {
		processor = ingest.NewProcessor(logger)
	}
	if config.MaxUploadBytes <= 0 {
		config.MaxUploadBytes = DefaultDashboardConfig().MaxUploadBytes
	}
	if config.PreloadLimit <= 0 {
		config.PreloadLimit = DefaultDashboardConfig().PreloadLimit
	}
	return &DashboardService{
		store:          store,
		fetcher:        fetcher,
		catalog:        catalog,
		processor:      processor,
		logger:         logger,
		metrics:        collector,
		maxUploadBytes: config.MaxUploadBytes,
		preloadLimit:   config.PreloadLimit,
		sources:        make(map[core.SourceName]*dataset.Dataset),
	}
}

// Current returns the working dataset, never nil
func (s *DashboardService) Current() *dataset.Dataset {
	return s.store.Get()
}

// Catalog lists the named sources
func (s *DashboardService) Catalog() []core.SourceName {
	return s.catalog.Names()
}

// SelectSource fetches and ingests a named source and makes it the working
// dataset. A failed load empties the working dataset unless a newer load has
// been issued since. core.ErrStaleLoad means the result was superseded.
func (s *DashboardService) SelectSource(ctx context.Context, name string) (*dataset.Dataset, error) {
	canonical, err := s.resolve(name)
	if err != nil {
		return nil, err
	}

	ticket := s.store.Begin()
	s.logger.Info("Loading source %s (load %d)", canonical, ticket)

	ds, err := s.loadSource(ctx, canonical)
	if err != nil {
		s.commit(ticket, nil)
		return nil, err
	}
	if err := s.commit(ticket, ds); err != nil {
		return ds, err
	}
	return ds, nil
}

// Upload ingests a user file (CSV text or XLSX workbook, chosen by extension)
// with the strict 14-column rule and makes it the working dataset.
func (s *DashboardService) Upload(ctx context.Context, filename string, raw []byte) (*dataset.Dataset, error) {
	if int64(len(raw)) > s.maxUploadBytes {
		return nil, apperrors.TooLarge(s.maxUploadBytes)
	}
	filename = filepath.Base(strings.TrimSpace(filename))
	if filename == "" || filename == "." {
		filename = "upload.csv"
	}

	ticket := s.store.Begin()
	format := excel.DetectFormat(filename)
	s.logger.Info("Ingesting upload %s as %s (load %d)", filename, format, ticket)

	if err := ctx.Err(); err != nil {
		s.commit(ticket, nil)
		return nil, err
	}

	ds, err := s.processor.IngestFormat(raw, format, ingest.Options{
		Mode:   ingest.ModeUpload,
		Origin: dataset.UploadOrigin(filename, string(format)),
	})
	if err != nil {
		s.observeFailure(err)
		s.commit(ticket, nil)
		return nil, ingestError(err)
	}
	s.metrics.ObserveIngest(ds.Report())

	if err := s.commit(ticket, ds); err != nil {
		return ds, err
	}
	return ds, nil
}

// Clear empties the working dataset and supersedes any in-flight load
func (s *DashboardService) Clear() {
	s.store.Clear()
	s.metrics.SetDatasetSize(0)
	s.logger.Info("Working dataset cleared")
}

// Source returns an ingested catalog source without touching the working
// dataset, fetching it on first use.
func (s *DashboardService) Source(ctx context.Context, name string) (*dataset.Dataset, error) {
	canonical, err := s.resolve(name)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	ds, ok := s.sources[canonical]
	s.mu.RUnlock()
	if ok {
		return ds, nil
	}
	return s.loadSource(ctx, canonical)
}

// PreloadCatalog fetches every catalog source concurrently into the comparison
// cache. One failing source does not stop the others; all failures are joined.
func (s *DashboardService) PreloadCatalog(ctx context.Context) error {
	start := time.Now()
	names := s.catalog.Names()

	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	g.SetLimit(s.preloadLimit)
	for _, name := range names {
		g.Go(func() error {
			if _, err := s.loadSource(ctx, name); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	s.logger.Info("Preloaded %d/%d sources in %v", len(names)-len(errs), len(names), time.Since(start))
	return errors.Join(errs...)
}

// loadSource fetches and ingests one source and caches the result
func (s *DashboardService) loadSource(ctx context.Context, name core.SourceName) (*dataset.Dataset, error) {
	raw, err := s.fetcher.Fetch(ctx, name)
	if err != nil {
		if errors.Is(err, core.ErrFetchFailed) {
			return nil, apperrors.ExternalServiceError(name.String(), err)
		}
		return nil, err
	}

	ds, err := s.processor.Ingest(raw, ingest.Options{
		Mode:   ingest.ModeRemote,
		Origin: dataset.SourceOrigin(name),
	})
	if err != nil {
		s.observeFailure(err)
		return nil, ingestError(fmt.Errorf("source %s: %w", name, err))
	}
	s.metrics.ObserveIngest(ds.Report())

	s.mu.Lock()
	s.sources[name] = ds
	s.mu.Unlock()
	return ds, nil
}

func (s *DashboardService) resolve(name string) (core.SourceName, error) {
	parsed, err := core.ParseSourceName(name)
	if err != nil {
		return "", core.NewUnknownSourceError(name)
	}
	return s.catalog.Resolve(parsed)
}

// commit installs ds (nil means empty) under ticket
func (s *DashboardService) commit(ticket core.LoadTicket, ds *dataset.Dataset) error {
	if err := s.store.Commit(ticket, ds); err != nil {
		if core.IsStaleLoad(err) {
			s.metrics.StaleLoad()
			s.logger.Info("Load %d superseded, result discarded", ticket)
		}
		return err
	}
	s.metrics.SetDatasetSize(s.store.Get().Len())
	return nil
}

// ingestError presents a refused input as the "no data" state
func ingestError(err error) error {
	if core.IsParseError(err) {
		return apperrors.ParseFailed(err)
	}
	return err
}

func (s *DashboardService) observeFailure(err error) {
	var pe *ingest.ParseError
	if errors.As(err, &pe) {
		s.metrics.IngestFailed(string(pe.Reason))
		return
	}
	s.metrics.IngestFailed("unknown")
}
