package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"cardiodash/domain/core"
	"cardiodash/internal"
	"cardiodash/internal/metrics"
)

// HTTPConfig controls remote fetching
type HTTPConfig struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64 // requests per second, 0 for unlimited
	Burst     int
	MaxBytes  int64
}

// DefaultHTTPConfig returns conservative defaults for baseURL
func DefaultHTTPConfig(baseURL string) HTTPConfig {
	return HTTPConfig{
		BaseURL:   baseURL,
		Timeout:   10 * time.Second,
		RateLimit: 5,
		Burst:     3,
		MaxBytes:  5 << 20,
	}
}

// HTTPFetcher fetches catalog files from a base URL
type HTTPFetcher struct {
	config  HTTPConfig
	catalog *Catalog
	client  *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	logger  *internal.Logger
	metrics *metrics.Collector
}

// NewHTTPFetcher creates a fetcher for catalog files under config.BaseURL
func NewHTTPFetcher(config HTTPConfig, catalog *Catalog, logger *internal.Logger, collector *metrics.Collector) (*HTTPFetcher, error) {
	if _, err := url.Parse(config.BaseURL); err != nil || config.BaseURL == "" {
		return nil, fmt.Errorf("invalid base URL %q", config.BaseURL)
	}
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if config.MaxBytes <= 0 {
		config.MaxBytes = DefaultHTTPConfig("").MaxBytes
	}

	limit := rate.Inf
	if config.RateLimit > 0 {
		limit = rate.Limit(config.RateLimit)
	}
	burst := config.Burst
	if burst < 1 {
		burst = 1
	}

	f := &HTTPFetcher{
		config:  config,
		catalog: catalog,
		client:  &http.Client{Timeout: config.Timeout},
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
		metrics: collector,
	}
	f.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "source-fetch",
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker '%s' state changed from %v to %v", name, from, to)
		},
	})
	return f, nil
}

// Fetch downloads the file behind name
func (f *HTTPFetcher) Fetch(ctx context.Context, name core.SourceName) ([]byte, error) {
	entry, err := f.catalog.Lookup(name)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	data, err := f.fetch(ctx, entry)
	f.metrics.ObserveFetch(entry.Name.String(), err, time.Since(start))
	if err != nil {
		f.logger.Warn("Fetch of %s failed: %v", entry.Name, err)
		return nil, core.NewFetchError(entry.Name.String(), err)
	}
	f.logger.Debug("Fetched %s: %d bytes in %v", entry.Name, len(data), time.Since(start))
	return data, nil
}

func (f *HTTPFetcher) fetch(ctx context.Context, entry Entry) ([]byte, error) {
	target, err := url.JoinPath(f.config.BaseURL, entry.File)
	if err != nil {
		return nil, fmt.Errorf("failed to build URL: %w", err)
	}
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	out, err := f.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		resp, err := f.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("GET %s returned status %d", target, resp.StatusCode)
		}
		body, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBytes+1))
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}
		if int64(len(body)) > f.config.MaxBytes {
			return nil, fmt.Errorf("response exceeds %d bytes", f.config.MaxBytes)
		}
		return body, nil
	})
	if err != nil {
		return nil, err
	}
	return out.([]byte), nil
}
