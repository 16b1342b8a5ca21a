// Package analytics summarizes the voting store into human-readable reports
// and detailed CSV exports for offline analysis.
package analytics
