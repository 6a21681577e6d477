// Package utils provides common utility functions for the dormitory manager.
// It includes the date and amount conversions shared by the record codecs,
// the console shell and the HTTP handlers, plus calendar arithmetic that
// doesn't fit into domain-specific packages.
package utils
