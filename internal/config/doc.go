// Package config loads, normalizes, and validates skywatch configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// SKYWATCH_WEBHOOK_URL. The Config type centralizes every knob the daemon and
// CLI need, so the feed location, store directories, and webhook settings are
// discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
