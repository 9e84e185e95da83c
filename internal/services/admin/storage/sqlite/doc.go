// Package sqlite provides SQLite-backed admin session persistence.
package sqlite
