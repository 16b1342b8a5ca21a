// Package votes tallies emoji-reaction votes and derives classifications and
// priority rankings for announced transients.
//
// Vote counts are absolute snapshots of the reactions on an announcement
// message, so an update overwrites the stored tally rather than incrementing
// it. Every update recomputes the full classification table in the same
// transaction, keeping the two tables consistent by construction.
//
// The priority-queue weights and the classification thresholds intentionally
// rank the categories differently; they answer different questions and must
// not be unified.
package votes
