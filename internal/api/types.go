package api

import "time"

// TallyView is the JSON shape of a vote tally.
type TallyView struct {
	AGN         int `json:"agn"`
	Interesting int `json:"interesting"`
	Star        int `json:"star"`
	Junk        int `json:"junk"`
	Total       int `json:"total"`
}

// VoteStatus is the combined vote and classification view for one transient.
type VoteStatus struct {
	TransientID    string    `json:"transient_id"`
	Votes          TallyView `json:"votes"`
	Classification string    `json:"classification"`
	Confidence     float64   `json:"confidence"`
	PriorityScore  int       `json:"priority_score"`
}

// UpdateVotesRequest carries a reaction-count snapshot for one transient.
type UpdateVotesRequest struct {
	Reactions map[string]int `json:"reactions"`
}

// PriorityEntry is one row of the follow-up priority queue.
type PriorityEntry struct {
	Rank        int       `json:"rank"`
	TransientID string    `json:"transient_id"`
	Score       int       `json:"score"`
	Votes       TallyView `json:"votes"`
}

// PriorityResponse wraps the ordered priority queue.
type PriorityResponse struct {
	Entries []PriorityEntry `json:"entries"`
}

// RunSummary reports the outcome of the most recent ingestion run.
type RunSummary struct {
	RunID       string    `json:"run_id"`
	Bootstrap   bool      `json:"bootstrap"`
	FeedRows    int       `json:"feed_rows"`
	Announced   int       `json:"announced"`
	Recorded    int       `json:"recorded"`
	CompletedAt time.Time `json:"completed_at"`
	Error       string    `json:"error,omitempty"`
}

// DaemonStatus is the JSON payload for the daemon status endpoint.
type DaemonStatus struct {
	Running       bool        `json:"running"`
	PID           int         `json:"pid"`
	LedgerDBPath  string      `json:"ledger_db_path"`
	VotingDBPath  string      `json:"voting_db_path"`
	LockFilePath  string      `json:"lock_file_path"`
	LedgerEntries int         `json:"ledger_entries"`
	LastRun       *RunSummary `json:"last_run,omitempty"`
}
