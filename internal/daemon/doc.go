// Package daemon runs the long-lived skywatchd process: a single-instance
// lock, the scheduled ingestion poll loop, and a local HTTP API for status,
// vote updates, and on-demand checks.
package daemon
