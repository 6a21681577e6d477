// Package integrity provides health checks over everything the dormitory
// state depends on.
//
// # Checks Provided
//
//   - Files: decodes the flat data files and reports missing files and
//     malformed lines (files backend only).
//   - Server: validates that the database schema matches the sqlstore tables
//     (columns, types) when a database is configured.
//   - Storage: checks that the backup bucket and its folder exist.
//   - Occupancy: runs the occupancy reconcile over the persisted collections.
//
// A check whose resource is not configured reports "skipped".
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/files : Runs the files check (supports ?fix=true).
//   - GET /integrity/server : Runs the server schema check.
//   - GET /integrity/storage : Runs the storage check (supports ?fix=true).
//   - GET /integrity/occupancy : Runs the occupancy check (supports ?fix=true).
package integrity
