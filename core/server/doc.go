// Package server holds the HTTP server configuration.
//
// The serve command reads the port, whether Swagger is mounted, the graceful
// shutdown timeout and which features to load from here.
package server
