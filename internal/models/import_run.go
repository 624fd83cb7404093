package models

import "time"

// ImportRun is the audit record of one committed import batch.
type ImportRun struct {
	ID         string
	Path       string
	Policy     string
	Created    int
	Updated    int
	Skipped    int
	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration is the wall time the batch took.
func (r *ImportRun) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
