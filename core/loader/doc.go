// Package loader provides the plugin-like feature loading system.
//
// Each feature implements the Feature interface, which names the feature,
// reports whether it is enabled and registers its routes.
//
// # Feature Interface
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// # Manager
//
// The Manager holds the registry of available features. Register adds a
// feature; LoadAll loads the enabled ones in registration order and rejects
// duplicate names. Features such as catalog, board and diffing are developed
// and tested in isolation.
package loader
