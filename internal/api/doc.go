// Package api defines the wire types shared by the daemon HTTP surface and
// the CLI, plus the service layer that produces them.
package api
