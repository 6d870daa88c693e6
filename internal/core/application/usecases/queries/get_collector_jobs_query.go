package queries

import (
	"context"
	"errors"
	"sort"

	"pickup/internal/core/domain/model/job"
	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/core/ports"
	"pickup/internal/pkg/guard"
)

var ErrGetCollectorJobsQueryIsNotConstructed = errors.New(
	"GetCollectorJobsQuery must be created via NewGetCollectorJobsQuery constructor",
)

// GetCollectorJobsQuery is a collector's work list: every open Pending job they
// could accept, followed by the jobs assigned to them.
type GetCollectorJobsQuery struct {
	collectorID kernel.UUID
	guard       guard.ConstructorGuard
}

func NewGetCollectorJobsQuery(collectorID kernel.UUID) (GetCollectorJobsQuery, error) {
	if err := collectorID.Validate(); err != nil {
		return GetCollectorJobsQuery{}, err
	}
	return GetCollectorJobsQuery{collectorID: collectorID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetCollectorJobsQuery) Validate() error {
	return q.guard.Validate(ErrGetCollectorJobsQueryIsNotConstructed)
}

// CollectorJobs splits the work list into what is open and what is already theirs.
type CollectorJobs struct {
	Available []JobView
	Assigned  []JobView
}

type GetCollectorJobsQueryHandler struct {
	jobs       JobReader
	collectors CollectorReader
}

func NewGetCollectorJobsQueryHandler(jobs JobReader, collectors CollectorReader) GetCollectorJobsQueryHandler {
	return GetCollectorJobsQueryHandler{jobs: jobs, collectors: collectors}
}

// Handle returns errs.ErrObjectNotFound for an unknown collector.
func (h GetCollectorJobsQueryHandler) Handle(ctx context.Context, query GetCollectorJobsQuery) (CollectorJobs, error) {
	if err := query.Validate(); err != nil {
		return CollectorJobs{}, err
	}

	if _, err := h.collectors.Get(ctx, query.collectorID); err != nil {
		return CollectorJobs{}, err
	}

	pending := job.Pending
	available, err := h.jobs.List(ctx, ports.JobFilter{Status: &pending})
	if err != nil {
		return CollectorJobs{}, err
	}

	collectorID := query.collectorID
	assigned, err := h.jobs.List(ctx, ports.JobFilter{CollectorID: &collectorID})
	if err != nil {
		return CollectorJobs{}, err
	}

	// active work first, history after
	sort.SliceStable(assigned, func(i, k int) bool {
		return assigned[i].Status().IsActive() && !assigned[k].Status().IsActive()
	})

	return CollectorJobs{
		Available: newJobViews(available),
		Assigned:  newJobViews(assigned),
	}, nil
}
