// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - rayid: assigns every request a ray id, stores it on the context for
//     logger.WithRayID and echoes it in the X-Ray-ID response header.
package middleware
