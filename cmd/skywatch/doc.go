// Command skywatch is the operator CLI: one-shot ingestion checks, vote
// management, priority queues, reports, and ledger maintenance.
package main
