// Package audit holds the ingestion audit trail and batch run bookkeeping.
package audit

import "time"

// ActionIngest is the only action the pipeline records today.
const ActionIngest = "ingest"

// Record is one accepted ingest item written to the audit trail.
type Record struct {
	ID         int64     `db:"id"`
	RunID      string    `db:"run_id"`
	SourceID   string    `db:"source_id"`
	EntityType string    `db:"entity_type"`
	EntityID   string    `db:"entity_id"`
	Action     string    `db:"action"`
	Confidence float64   `db:"confidence"`
	Signature  *string   `db:"signature"`
	Status     string    `db:"status"`
	Message    string    `db:"message"`
	CreatedAt  time.Time `db:"created_at"`
}

// FeatureRun tracks one batch job: how many items it saw and how it ended.
type FeatureRun struct {
	ID         int64      `db:"id"`
	RunID      string     `db:"run_id"`
	Tool       string     `db:"tool"`
	Total      int        `db:"total"`
	OK         int        `db:"ok"`
	Fail       int        `db:"fail"`
	Status     string     `db:"status"`
	Note       string     `db:"note"`
	StartedAt  time.Time  `db:"started_at"`
	FinishedAt *time.Time `db:"finished_at"`
}

const (
	RunStatusRunning = "running"
	RunStatusDone    = "done"
	RunStatusFailed  = "failed"
)
