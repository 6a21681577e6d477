package server

import "time"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// Swagger enables the /swagger documentation route.
	Swagger bool `mapstructure:"swagger" default:"true"`
	// ShutdownSeconds bounds the graceful shutdown.
	ShutdownSeconds int `mapstructure:"shutdown_seconds" default:"10"`
	// OccupancyCacheSeconds keeps the occupancy report indices this long.
	// Zero rebuilds them on every request.
	OccupancyCacheSeconds int `mapstructure:"occupancy_cache_seconds" default:"5"`
	// Features lists the features to enable. Empty enables all of them.
	Features []string `mapstructure:"features"`
}

// IsFeatureEnabled reports whether the named feature should be loaded.
func (c Config) IsFeatureEnabled(name string) bool {
	if len(c.Features) == 0 {
		return true
	}
	for _, f := range c.Features {
		if f == name {
			return true
		}
	}
	return false
}

// Addr is the listen address.
func (c Config) Addr() string {
	return ":" + c.Port
}

// OccupancyCacheTTL is the lifetime of the cached occupancy indices.
func (c Config) OccupancyCacheTTL() time.Duration {
	if c.OccupancyCacheSeconds <= 0 {
		return 0
	}
	return time.Duration(c.OccupancyCacheSeconds) * time.Second
}
