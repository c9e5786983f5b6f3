// Package cache memoizes the loaded catalog for a bounded time so repeated
// queries within the window reuse one fetch.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/superprecos/go-compara-precos/catalog"
	"github.com/superprecos/go-compara-precos/feed"
	"github.com/superprecos/go-compara-precos/models"
)

// Fetcher supplies raw feed bytes. Satisfied by *feed.Fetcher.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
	URL() string
}

// Service wraps fetch+load behind a TTL cache keyed by feed URL. Expired
// entries read as misses, so a failed refresh surfaces the error instead of
// silently serving stale data. A snapshot is cached only after loading
// succeeds, and each refresh replaces the catalog wholesale.
type Service struct {
	fetcher Fetcher
	store   *expirable.LRU[string, models.Catalog]
	metrics *feed.Metrics
}

// NewService builds a cache service with the given freshness window.
func NewService(fetcher Fetcher, ttl time.Duration, metrics *feed.Metrics) *Service {
	return &Service{
		fetcher: fetcher,
		store:   expirable.NewLRU[string, models.Catalog](4, nil, ttl),
		metrics: metrics,
	}
}

// Catalog returns the cached snapshot when fresh, otherwise fetches and
// loads a new one.
func (s *Service) Catalog(ctx context.Context) (models.Catalog, error) {
	key := s.fetcher.URL()
	if snapshot, ok := s.store.Get(key); ok {
		s.metrics.IncCache("hit")
		return snapshot, nil
	}
	s.metrics.IncCache("miss")

	raw, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}

	snapshot, err := catalog.Load(raw)
	if err != nil {
		return nil, fmt.Errorf("load feed: %w", err)
	}

	s.store.Add(key, snapshot)
	s.metrics.SetCatalogRows(len(snapshot))
	slog.Info("catalog refreshed", slog.Int("rows", len(snapshot)))
	return snapshot, nil
}

// Invalidate drops any cached snapshot, forcing the next call to fetch.
func (s *Service) Invalidate() {
	s.store.Purge()
}
