package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"library-api/config"
	"library-api/metrics"
	"library-api/models"

	"github.com/sirupsen/logrus"
	gobreaker "github.com/sony/gobreaker/v2"
)

// AdminStatsOptions tunes AdminStatsService. Zero values pick the defaults.
type AdminStatsOptions struct {
	Cache *StatsCache
	// BreakerFailureThreshold is the number of consecutive store failures that
	// opens the circuit. Zero disables the breaker.
	BreakerFailureThreshold uint32
	BreakerOpenTimeout      time.Duration
	// Aggregate replaces AggregateStats, mainly to observe calls in tests.
	Aggregate func(*models.CatalogData) *models.StatsSnapshot
}

// AdminStatsService serves the cached admin statistics snapshot.
type AdminStatsService struct {
	store     CatalogStore
	cache     *StatsCache
	breaker   *gobreaker.CircuitBreaker[*models.CatalogData]
	aggregate func(*models.CatalogData) *models.StatsSnapshot

	mu          sync.Mutex
	lastFailure error
}

// NewAdminStatsService wires the service around store.
func NewAdminStatsService(store CatalogStore, opts AdminStatsOptions) *AdminStatsService {
	svc := &AdminStatsService{
		store:     store,
		cache:     opts.Cache,
		aggregate: opts.Aggregate,
	}
	if svc.cache == nil {
		svc.cache = NewStatsCache(DefaultStatsCacheTTL, SystemClock{})
	}
	if svc.aggregate == nil {
		svc.aggregate = AggregateStats
	}
	if opts.BreakerFailureThreshold > 0 {
		svc.breaker = newStoreBreaker(store.Driver(), opts.BreakerFailureThreshold, opts.BreakerOpenTimeout)
	}
	return svc
}

func newStoreBreaker(name string, threshold uint32, openTimeout time.Duration) *gobreaker.CircuitBreaker[*models.CatalogData] {
	return gobreaker.NewCircuitBreaker[*models.CatalogData](gobreaker.Settings{
		Name:        "catalog-store-" + name,
		MaxRequests: 1,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// A client hanging up says nothing about the store's health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.StoreBreakerState.Set(float64(to))
			config.Log.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Catalog store circuit breaker changed state")
		},
	})
}

// Cache exposes the result cache, e.g. for the janitor.
func (s *AdminStatsService) Cache() *StatsCache {
	return s.cache
}

// Snapshot returns the admin statistics. The bool reports whether the result
// came from the cache. On error nothing is cached, so the next call tries again.
func (s *AdminStatsService) Snapshot(ctx context.Context) (*models.StatsSnapshot, bool, error) {
	if snapshot, ok := s.cache.Get(AdminStatsCacheKey); ok {
		metrics.StatsCacheHits.Inc()
		return snapshot, true, nil
	}
	metrics.StatsCacheMisses.Inc()

	data, err := s.fetch(ctx)
	if err != nil {
		return nil, false, err
	}

	start := time.Now()
	snapshot := s.aggregate(data)
	metrics.StatsAggregationDuration.Observe(time.Since(start).Seconds())
	metrics.StatsRecordsAggregated.Set(float64(len(data.Records)))

	s.cache.Set(AdminStatsCacheKey, snapshot)

	config.Log.WithFields(logrus.Fields{
		"records": len(data.Records),
		"users":   len(data.Users),
		"elapsed": time.Since(start).String(),
	}).Debug("Admin statistics recomputed")

	return snapshot, false, nil
}

func (s *AdminStatsService) fetch(ctx context.Context) (*models.CatalogData, error) {
	if s.breaker == nil {
		return FetchCatalog(ctx, s.store)
	}
	data, err := s.breaker.Execute(func() (*models.CatalogData, error) {
		data, err := FetchCatalog(ctx, s.store)
		if err != nil && !errors.Is(err, context.Canceled) {
			s.setLastFailure(err)
		}
		return data, err
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		if last := s.getLastFailure(); last != nil {
			return nil, fmt.Errorf("%w (last failure: %w)", err, last)
		}
	}
	return data, err
}

func (s *AdminStatsService) setLastFailure(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastFailure = err
}

func (s *AdminStatsService) getLastFailure() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastFailure
}
