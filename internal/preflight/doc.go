// Package preflight provides readiness checks for the filesystem paths and
// the notification endpoint that Skywatch depends on.
//
// These checks run in two contexts:
//   - The daemon runs RunAll at startup and logs any failures before the
//     first ingestion run.
//   - The CLI "skywatch status" command displays the individual results.
//
// Each check is gated by its config toggle -- unconfigured features are skipped.
package preflight
