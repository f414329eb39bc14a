package board

import (
	"github.com/gofiber/fiber/v2"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	registry *Registry
	handler  *Handler
}

// NewFeature creates the board feature.
func NewFeature(registry *Registry) *Feature {
	return &Feature{registry: registry, handler: NewHandler(registry)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "board"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.registry != nil
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
