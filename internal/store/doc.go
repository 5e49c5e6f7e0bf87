// Package store persists normalized dialogue records in SQLite. Records hang
// off a parent script row keyed by the external script identifier; every
// mutation is atomic per call so pipeline re-runs stay idempotent.
package store
