// Package config loads, normalizes, and validates scriptdb configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. Heuristic thresholds such as the header
// scan window and the short-line limit live here rather than as constants so
// tuning never requires a rebuild.
package config
