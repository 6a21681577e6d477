// Package data holds the configuration of where dormitory records live:
// the backend (flat files or database) and, for flat files, the directory and
// file names.
package data
