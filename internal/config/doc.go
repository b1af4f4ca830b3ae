// Package config loads, normalizes, and validates fwconv application settings.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours the FWCONV_LOG_LEVEL environment fallback. Layout
// files are a separate concern handled by package layout; this package only
// covers how the tool itself behaves: logging, output locking, the default
// line terminator and the conversion journal.
package config
