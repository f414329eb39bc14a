// Package catalog supplies the movie snapshots every board renders.
//
// It fetches one page per category from TMDB (popular, upcoming, top_rated
// and now_playing by default), keeps the most recent pages in a PageCache, and
// aggregates a random sample of pages into a snapshot. Aggregation removes
// duplicate identities, so every snapshot it returns can be diffed.
//
// # Components
//
//   - TMDBClient: fetches one category page over HTTP with the Fiber agent.
//   - Fetcher: fans out over categories with bounded concurrency. A failed
//     category is served from the Repository when one is configured (rows
//     flagged Cached) and omitted otherwise.
//   - PageCache: TTL cache of the last fetched pages. Concurrent refreshes are
//     collapsed into one fetch.
//   - Repository: gorm-backed copy of the last good page of every category.
//   - Archive: object storage for snapshots produced by boards.
//   - Service: FetchAll, Reload and TriggerUpdate.
//
// # Reload policy
//
// With the "resample" policy, Reload and TriggerUpdate draw a new sample from
// the pages already fetched. With "refetch" they fetch first.
//
// # Usage
//
//	svc := catalog.NewService(cfg.Catalog, fetcher, cache, logger)
//	sample, err := svc.FetchAll(ctx)
//	snapshot := sample.Snapshot(false)
package catalog
