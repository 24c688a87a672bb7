// Package loader provides the feature loading system for the HTTP server.
//
// Each feature (compare, preferences, health) implements Feature and mounts
// its own routes. The start command registers them on a Manager and calls
// LoadAll once the global middleware is in place.
//
// # Feature Interface
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// Disabled features are skipped; a feature whose dependencies failed to
// initialize (for example preferences without a database) reports itself
// disabled rather than failing the whole server.
package loader
