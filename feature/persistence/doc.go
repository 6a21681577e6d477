// Package persistence selects and builds the repository backing the
// dormitory service.
//
// Two backends exist:
//   - flatfile: comma-delimited text files in a data directory (default).
//   - sqlstore: the same records in database tables through gorm.
//
// The backend is chosen with data.backend ("files" or "database").
package persistence
