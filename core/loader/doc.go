// Package loader registers HTTP features with the server.
//
// Each feature implements Feature. The Manager loads the enabled ones in
// registration order, so the dormitory routes and the integrity routes can be
// switched on and off through server.features.
//
// # Feature Interface
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
package loader
