package catalog

import (
	"fmt"
	"time"
)

// Reload policies.
const (
	PolicyResample = "resample"
	PolicyRefetch  = "refetch"
)

// Config holds configuration for the catalog.
type Config struct {
	// BaseURL is the TMDB API root.
	BaseURL string `mapstructure:"base_url" default:"https://api.themoviedb.org/3"`
	// ApiKey is the TMDB API key.
	ApiKey string `mapstructure:"api_key" default:""`
	// Categories are the movie lists fetched, comma separated in the environment.
	Categories []string `mapstructure:"categories" default:"popular,upcoming,top_rated,now_playing"`
	// MaxConcurrentRequests bounds the category fetches in flight.
	MaxConcurrentRequests int `mapstructure:"max_concurrent_requests" default:"4"`
	// TimeoutSeconds bounds a single category fetch.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"10"`
	// ReloadPolicy is resample or refetch.
	ReloadPolicy string `mapstructure:"reload_policy" default:"resample"`
	// SampleSize is the number of pages drawn, with replacement, per aggregation.
	SampleSize int `mapstructure:"sample_size" default:"4"`
	// CacheTTLSeconds is how long fetched pages stay fresh.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" default:"300"`
	// Seed makes sampling reproducible. Zero seeds randomly.
	Seed uint64 `mapstructure:"seed" default:"0"`
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if len(c.Categories) == 0 {
		return fmt.Errorf("catalog needs at least one category")
	}
	if c.MaxConcurrentRequests <= 0 {
		return fmt.Errorf("invalid max_concurrent_requests %d", c.MaxConcurrentRequests)
	}
	if c.SampleSize <= 0 {
		return fmt.Errorf("invalid sample_size %d", c.SampleSize)
	}
	switch c.ReloadPolicy {
	case PolicyResample, PolicyRefetch:
	default:
		return fmt.Errorf("unknown reload_policy %q", c.ReloadPolicy)
	}
	return nil
}

// Timeout returns the per-fetch timeout.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// CacheTTL returns how long fetched pages stay fresh.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}
