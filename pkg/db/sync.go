package db

import (
	"context"
	"time"
)

// SyncRecord is the bookkeeping row of one named ingestion job.
type SyncRecord struct {
	JobName       string
	LastRunAt     time.Time
	Succeeded     bool
	FailureReason string
}

func (s SyncRecord) Equal(o SyncRecord) bool {
	return s.JobName == o.JobName &&
		s.LastRunAt.Equal(o.LastRunAt) &&
		s.Succeeded == o.Succeeded &&
		s.FailureReason == o.FailureReason
}

type SyncInterface interface {
	// Record upserts the bookkeeping row of a job run.
	Record(ctx context.Context, record SyncRecord) error

	// Get returns the record of a named job.
	//
	// Returns ErrMissing when the job never ran.
	Get(ctx context.Context, jobName string) (SyncRecord, error)
}

type RatingInterface interface {
	// Recompute refreshes stale AverageRating display strings from the
	// counters, across every rated entity family.
	//
	// Returns how many rows were refreshed.
	Recompute(ctx context.Context) (int, error)
}
