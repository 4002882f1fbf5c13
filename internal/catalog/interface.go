package catalog

import (
	"context"
	"time"
)

// Run statuses
const (
	StatusRunning     = "running"
	StatusCompleted   = "completed"
	StatusInterrupted = "interrupted"
	StatusFailed      = "failed"
)

// Catalog records pipeline runs. It is a history, never a source of truth
// for resumption; write failures are logged and dropped.
type Catalog interface {
	Begin(ctx context.Context, url string) string
	Finish(ctx context.Context, id string, fin Finish)
	Recent(ctx context.Context, limit int) ([]Run, error)
	Close() error
}

// Finish carries the outcome of a run
type Finish struct {
	Title    string
	Folder   string
	Status   string
	Degraded []string
}

// Run is one row of history
type Run struct {
	ID         string
	URL        string
	Title      string
	Folder     string
	Status     string
	Degraded   []string
	StartedAt  time.Time
	FinishedAt *time.Time
}
