// Package logger builds the zap logger shared by the shell, the CLI commands
// and the HTTP server.
//
// Level, encoding (console or json) and output are configurable. Logs go to
// stderr by default so they never interleave with the shell menus on stdout.
//
// WithRayID attaches the request's ray id to a logger inside a Fiber handler so
// that all entries for one request can be correlated.
//
// # Usage
//
//	log, err := logger.New(&cfg.Log)
//	log.Info("State loaded", zap.Int("rooms", n))
//
//	l := logger.WithRayID(log, c)
//	l.Error("Request failed", zap.Error(err))
package logger
