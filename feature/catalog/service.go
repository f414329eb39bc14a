package catalog

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"

	"go.uber.org/zap"
)

// ErrNoPages is returned when no category page is available to sample from.
var ErrNoPages = errors.New("no catalog pages available")

// PageFetcher fetches the pages of every configured category.
type PageFetcher interface {
	FetchPages(ctx context.Context) ([]Page, error)
}

// Service aggregates fetched pages into samples.
type Service struct {
	fetcher PageFetcher
	cache   *PageCache
	policy  string
	size    int
	logger  *zap.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewService creates a Service.
func NewService(cfg Config, fetcher PageFetcher, cache *PageCache, logger *zap.Logger) *Service {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	size := cfg.SampleSize
	if size <= 0 {
		size = 4
	}
	return &Service{
		fetcher: fetcher,
		cache:   cache,
		policy:  cfg.ReloadPolicy,
		size:    size,
		logger:  logger,
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// FetchAll fetches every category (or reuses fresh cached pages) and draws the
// initial sample.
func (s *Service) FetchAll(ctx context.Context) (Sample, error) {
	pages, err := s.cache.Get(ctx, false, s.fetcher.FetchPages)
	if err != nil {
		return nil, err
	}
	return s.sample(pages)
}

// Reload draws a new sample according to the reload policy.
func (s *Service) Reload(ctx context.Context) (Sample, error) {
	return s.next(ctx)
}

// TriggerUpdate draws a new sample according to the reload policy. It is the
// entry point for incremental updates; Reload is for full refreshes.
func (s *Service) TriggerUpdate(ctx context.Context) (Sample, error) {
	return s.next(ctx)
}

// Refresh refetches every category regardless of cache freshness.
func (s *Service) Refresh(ctx context.Context) ([]Page, error) {
	return s.cache.Get(ctx, true, s.fetcher.FetchPages)
}

// Pages returns the cached pages.
func (s *Service) Pages() []Page {
	pages, _ := s.cache.Pages()
	return pages
}

func (s *Service) next(ctx context.Context) (Sample, error) {
	if s.policy == PolicyRefetch {
		pages, err := s.Refresh(ctx)
		if err != nil {
			return nil, err
		}
		return s.sample(pages)
	}

	pages, ok := s.cache.Pages()
	if !ok {
		return s.FetchAll(ctx)
	}
	return s.sample(pages)
}

// sample draws size pages with replacement.
func (s *Service) sample(pages []Page) (Sample, error) {
	if len(pages) == 0 {
		return nil, ErrNoPages
	}

	s.mu.Lock()
	out := make(Sample, s.size)
	for i := range out {
		out[i] = pages[s.rng.IntN(len(pages))]
	}
	s.mu.Unlock()

	s.logger.Debug("Sampled catalog pages", zap.Strings("categories", out.Categories()))
	return out, nil
}
