// Package database opens the optional SQL connection used by the database
// backend and the schema check.
//
// Connect supports MySQL and SQLite through gorm. GetTableColumns reads a
// table's column definitions so callers can compare them with the expected
// schema.
package database
