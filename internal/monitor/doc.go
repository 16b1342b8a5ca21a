// Package monitor implements the ingestion side of the pipeline: it reads the
// survey detection feed, deduplicates rows against the processed ledger, and
// announces the selected batch.
//
// The first run against an empty ledger is the bootstrap run. It seeds the
// ledger with every historical reviewed detection without announcing them,
// so standing up a fresh deployment never floods the notification channel.
package monitor
