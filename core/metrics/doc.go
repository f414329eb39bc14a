// Package metrics declares the Prometheus collectors shared by the diffing
// engine, the reconciler and the catalog.
//
// Collectors are registered on the default registry at package init through
// promauto. Handler exposes them for scraping.
package metrics
