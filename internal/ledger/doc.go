// Package ledger persists the append-only record of announced detections in
// SQLite.
//
// The ledger's key set is the only mechanism preventing re-announcement, so
// the store is deliberately conservative: appends are transactional (a failed
// ingestion run leaves no partial batch), and a pre-existing database that
// fails integrity or schema checks surfaces ErrCorrupt instead of being
// treated as an empty ledger.
package ledger
