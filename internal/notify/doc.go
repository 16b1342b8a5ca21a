// Package notify delivers pipeline events to an ntfy-compatible webhook.
// The service is a noop when no webhook URL is configured, so callers never
// need to branch on notification availability.
package notify
