package cmd

import (
	"context"
	"fmt"

	"diffing-research/core/config"
	"diffing-research/core/database"
	"diffing-research/core/storage"
	"diffing-research/feature/catalog"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// connectDatabase opens the page cache database. It returns nil when the
// database is disabled or unreachable.
func connectDatabase(cfg *config.Config, l *zap.Logger) *gorm.DB {
	if !cfg.Database.Enabled {
		return nil
	}
	db, err := database.Connect(cfg.Database)
	if err != nil {
		l.Warn("Optional database connection failed", zap.Error(err))
		return nil
	}
	l.Info("Connected to page cache database", zap.String("driver", cfg.Database.Driver))
	return db
}

// connectStorage connects to object storage and makes sure the bucket exists.
// It returns a nil client when storage is disabled.
func connectStorage(ctx context.Context, cfg *config.Config) (storage.Client, error) {
	if !cfg.Storage.Enabled {
		return nil, nil
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
		return nil, err
	}
	return client, nil
}

// newCatalog wires the catalog service. db may be nil, in which case fetch
// failures simply omit their category.
func newCatalog(cfg *config.Config, db *gorm.DB, l *zap.Logger) *catalog.Service {
	client := catalog.NewTMDBClient(cfg.Catalog.BaseURL, cfg.Catalog.ApiKey, cfg.Catalog.Timeout())

	var store catalog.PageStore
	if db != nil {
		repo := catalog.NewRepository(db)
		if err := repo.Migrate(); err != nil {
			l.Warn("Page cache schema unavailable", zap.Error(err))
		} else {
			store = repo
		}
	}

	fetcher := catalog.NewFetcher(client, store, cfg.Catalog.Categories, cfg.Catalog.MaxConcurrentRequests, l)
	return catalog.NewService(cfg.Catalog, fetcher, catalog.NewPageCache(cfg.Catalog.CacheTTL()), l)
}

// newArchive returns the snapshot archive, or nil when storage is disabled.
func newArchive(ctx context.Context, cfg *config.Config) (*catalog.Archive, error) {
	client, err := connectStorage(ctx, cfg)
	if err != nil || client == nil {
		return nil, err
	}
	return catalog.NewArchive(client, cfg.Storage.Bucket), nil
}
