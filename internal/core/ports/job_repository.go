// Package ports defines the storage contracts of the pickup domain.
// Adapters under internal/adapters/out implement them; the application layer depends only on these interfaces.
package ports

import (
	"context"

	"pickup/internal/core/domain/model/job"
	"pickup/internal/core/domain/model/kernel"
)

// JobFilter narrows List. Nil fields do not filter.
type JobFilter struct {
	Status      *job.Status
	CollectorID *kernel.UUID
	RequesterID *kernel.UUID
}

// JobRepository defines the persistence contract for pickup jobs.
type JobRepository interface {
	// Add persists a newly created job.
	Add(ctx context.Context, aggregate *job.Job) error

	// Get returns the job or an errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*job.Job, error)

	// TransitionIfCurrent writes the state of aggregate after transition, but only
	// if the stored job still has status transition.From and version
	// transition.FromVersion. The check and the write are atomic with respect to
	// every other caller. A failed check returns an errs.ConflictError and
	// leaves the stored job untouched; a missing job returns an errs.ObjectNotFoundError.
	//
	// This is the only way the status or assignment of a stored job changes.
	TransitionIfCurrent(ctx context.Context, aggregate *job.Job, transition job.Transition) error

	// List returns jobs matching filter, newest first.
	List(ctx context.Context, filter JobFilter) ([]*job.Job, error)

	// CountActiveByCollector counts Accepted and InProgress jobs assigned to collectorID.
	CountActiveByCollector(ctx context.Context, collectorID kernel.UUID) (int64, error)

	// CountByStatus returns the number of jobs per status. Statuses without jobs may be absent.
	CountByStatus(ctx context.Context) (map[job.Status]int64, error)
}
