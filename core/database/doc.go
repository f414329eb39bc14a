// Package database handles database connections and schema checks.
//
// It provides a wrapper around GORM to configure MySQL or SQLite connections
// from the application's configuration. The database is optional: it backs the
// catalog page cache, and the service runs without it.
//
// # Schema
//
// EnsureSchema migrates models and then inspects the resulting table, failing
// when a column the caller depends on is absent.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Warn("Database unavailable", zap.Error(err))
//	}
//
//	err = database.EnsureSchema(db, "catalog_movies", []string{"id", "category"}, &Row{})
package database
