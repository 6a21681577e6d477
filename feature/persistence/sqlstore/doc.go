// Package sqlstore stores the dormitory state in SQL tables through gorm.
//
// Tables mirror the flat files: dormitories (one row), rooms, dormers and
// payments. Each save replaces a whole table inside one transaction. The row
// types double as the expected schema for the server integrity check.
package sqlstore
