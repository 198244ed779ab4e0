// Package aggregator fans a single search out to every selected platform
// adapter, waits for all of them to settle and merges the partial results
// into one response. One slow or failing platform never blocks, cancels or
// fails the others; partial success is the normal outcome.
package aggregator

import (
	"context"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"propertydash/server/config"
	"propertydash/server/internal/geocode"
	"propertydash/server/internal/models"
	"propertydash/server/internal/observability"
	"propertydash/server/internal/providers"
	"propertydash/server/internal/stats"
)

type Orchestrator struct {
	logger    *logrus.Logger
	resolver  *geocode.Resolver
	byName    map[string]providers.Provider
	order     []string
	mergedCap int
	precise   float64
}

func NewOrchestrator(cfg *config.Config, resolver *geocode.Resolver, adapters []providers.Provider, logger *logrus.Logger) *Orchestrator {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	byName := make(map[string]providers.Provider, len(adapters))
	order := make([]string, 0, len(adapters))
	for _, adapter := range adapters {
		byName[adapter.Name()] = adapter
		order = append(order, adapter.Name())
	}

	return &Orchestrator{
		logger:    logger,
		resolver:  resolver,
		byName:    byName,
		order:     order,
		mergedCap: cfg.Providers.MergedCap,
		precise:   cfg.Providers.PreciseRadius,
	}
}

// Platforms returns the registered adapter names in invocation order.
func (o *Orchestrator) Platforms() []string {
	return append([]string(nil), o.order...)
}

// Search runs the full choreography: resolve the platform set, geocode once,
// fetch from every selected adapter concurrently, then merge, truncate and
// summarize. lat/lng, when non-zero, override the geocoded centroid.
func (o *Orchestrator) Search(ctx context.Context, address, platformsCSV string, lat, lng float64) models.AggregateResult {
	selected := o.selectPlatforms(platformsCSV)
	query := o.buildQuery(ctx, address, lat, lng)

	results := make([]providers.Result, len(selected))
	var wg sync.WaitGroup
	for i, name := range selected {
		adapter := o.byName[name]
		wg.Add(1)
		go func(i int, adapter providers.Provider) {
			defer wg.Done()
			started := time.Now()
			results[i] = adapter.Fetch(ctx, query)
			observability.ObserveProviderFetch(adapter.Name(), results[i].Err == nil, time.Since(started))
		}(i, adapter)
	}
	wg.Wait()

	merged := make([]models.PropertyRecord, 0)
	var errs []models.ProviderError
	for i, name := range selected {
		if results[i].Err != nil {
			errs = append(errs, models.ProviderError{
				ProviderName: name,
				Message:      results[i].Err.Error(),
			})
		}
		merged = append(merged, results[i].Properties...)
	}

	totalCount := len(merged)
	if len(merged) > o.mergedCap {
		merged = merged[:o.mergedCap]
	}

	o.logger.WithFields(logrus.Fields{
		"address":   address,
		"platforms": selected,
		"count":     totalCount,
		"errors":    len(errs),
	}).Info("Aggregated search completed")

	return models.AggregateResult{
		Query:      address,
		Platforms:  selected,
		TotalCount: totalCount,
		Properties: merged,
		Stats:      stats.Compute(merged),
		Timestamp:  time.Now(),
		Errors:     errs,
	}
}

// selectPlatforms resolves the platforms query parameter; absent or "all"
// means every registered adapter. Unknown names are dropped silently so a
// stale client cannot break the search.
func (o *Orchestrator) selectPlatforms(csv string) []string {
	csv = strings.TrimSpace(csv)
	if csv == "" || csv == "all" {
		return o.Platforms()
	}

	var selected []string
	for _, name := range strings.Split(csv, ",") {
		name = strings.TrimSpace(name)
		if _, ok := o.byName[name]; ok {
			selected = append(selected, name)
		}
	}
	if len(selected) == 0 {
		return o.Platforms()
	}
	return selected
}

func (o *Orchestrator) buildQuery(ctx context.Context, address string, lat, lng float64) providers.Query {
	normalized := providers.NormalizeAddress(address)

	query := providers.Query{
		Address:       address,
		Normalized:    normalized,
		Precise:       providers.IsPreciseAddress(normalized),
		PreciseRadius: o.precise,
	}

	if lat != 0 && lng != 0 {
		query.Lat, query.Lng, query.Radius = lat, lng, 0.005
		return query
	}

	// Pinned centroids beat the geocoder for the known jibun addresses;
	// everything else goes through the resolver.
	if pinned := config.FindAddressCentroid(normalized); pinned.Keyword != "" {
		query.Lat, query.Lng, query.Radius = pinned.Lat, pinned.Lng, pinned.Radius
		return query
	}

	resolved := o.resolver.Resolve(ctx, address)
	query.Lat, query.Lng = resolved.Lat, resolved.Lng
	query.Radius = 0.005
	if resolved.Source != "naver" {
		query.Radius = 0.01
	}
	return query
}
