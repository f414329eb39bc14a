package catalog

import (
	"context"
	"fmt"
	"time"

	"diffing-research/core/metrics"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// PageStore persists the last good page of a category.
type PageStore interface {
	SavePage(ctx context.Context, category string, movies []Movie) error
	LoadPage(ctx context.Context, category string) ([]Movie, error)
}

// Fetcher fetches category pages concurrently.
type Fetcher struct {
	client     Client
	store      PageStore
	categories []string
	limit      int64
	logger     *zap.Logger
}

// NewFetcher creates a Fetcher. store may be nil.
func NewFetcher(client Client, store PageStore, categories []string, limit int, logger *zap.Logger) *Fetcher {
	if limit <= 0 {
		limit = 1
	}
	return &Fetcher{
		client:     client,
		store:      store,
		categories: categories,
		limit:      int64(limit),
		logger:     logger,
	}
}

// FetchPages fetches every category with at most limit requests in flight.
// Failed categories fall back to the store or are omitted; pages keep the
// configured category order. Only cancellation of ctx is an error.
func (f *Fetcher) FetchPages(ctx context.Context) ([]Page, error) {
	results := make([]*Page, len(f.categories))
	sem := semaphore.NewWeighted(f.limit)
	g, gctx := errgroup.WithContext(ctx)

	for i, category := range f.categories {
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			results[i] = f.fetchOne(gctx, category)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetch pages: %w", err)
	}

	pages := make([]Page, 0, len(results))
	for _, p := range results {
		if p != nil {
			pages = append(pages, *p)
		}
	}
	return pages, nil
}

func (f *Fetcher) fetchOne(ctx context.Context, category string) *Page {
	log := f.logger.With(zap.String("category", category))

	movies, err := f.client.FetchCategory(ctx, category)
	if err == nil {
		metrics.Fetches.WithLabelValues(category, metrics.OutcomeFetched).Inc()
		if f.store != nil {
			if saveErr := f.store.SavePage(ctx, category, movies); saveErr != nil {
				log.Warn("Failed to store fetched page", zap.Error(saveErr))
			}
		}
		return newPage(category, movies, false)
	}

	log.Warn("Category fetch failed", zap.Error(err))
	if f.store == nil {
		metrics.Fetches.WithLabelValues(category, metrics.OutcomeFailed).Inc()
		return nil
	}

	stored, loadErr := f.store.LoadPage(ctx, category)
	if loadErr != nil || len(stored) == 0 {
		metrics.Fetches.WithLabelValues(category, metrics.OutcomeFailed).Inc()
		if loadErr != nil {
			log.Warn("Stored page unavailable", zap.Error(loadErr))
		}
		return nil
	}

	metrics.Fetches.WithLabelValues(category, metrics.OutcomeCached).Inc()
	log.Info("Serving stored page", zap.Int("movies", len(stored)))
	return newPage(category, stored, true)
}

func newPage(category string, movies []Movie, cached bool) *Page {
	vms := make([]MovieViewModel, len(movies))
	for i, m := range movies {
		vms[i] = NewMovieViewModel(m, cached)
	}
	return &Page{Category: category, Movies: vms, FetchedAt: time.Now(), Cached: cached}
}
