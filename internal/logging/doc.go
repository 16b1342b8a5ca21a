// Package logging builds slog loggers for the daemon and CLI.
//
// Loggers write to stdout and, when a log directory is configured, to
// skywatch.log inside it. Attribute helpers and standardized field keys keep
// run and transient identifiers consistent across subsystems.
package logging
