// Package config provides configuration management for the diffing service.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file. Defaults come from the `default` struct tags of each
// section.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key, body limit)
//   - Log: Logging level and format
//   - Database: page cache database (SQLite or MySQL)
//   - Storage: MinIO credentials and bucket for archived snapshots
//   - Catalog: TMDB endpoint, categories, concurrency and reload policy
//   - Board: board names, sectioned mode and the interrupt threshold
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Catalog.Categories)
package config
