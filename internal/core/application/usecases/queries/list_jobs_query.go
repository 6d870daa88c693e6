package queries

import (
	"errors"

	"pickup/internal/core/domain/model/job"
	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/core/ports"
	"pickup/internal/pkg/guard"
)

var ErrListJobsQueryIsNotConstructed = errors.New(
	"ListJobsQuery must be created via NewListJobsQuery constructor",
)

// ListJobsQuery lists jobs, newest first. Every filter is optional.
//
// Example:
//
//	pending := job.Pending
//	query, err := NewListJobsQuery(&pending, nil, &requesterID)
//	if err != nil {
//	    return err
//	}
//	jobs, err := handler.Handle(ctx, query)
type ListJobsQuery struct {
	filter ports.JobFilter
	guard  guard.ConstructorGuard
}

func NewListJobsQuery(status *job.Status, collectorID, requesterID *kernel.UUID) (ListJobsQuery, error) {
	var errList []error
	if status != nil {
		errList = append(errList, status.Validate())
	}
	if collectorID != nil {
		errList = append(errList, collectorID.Validate())
	}
	if requesterID != nil {
		errList = append(errList, requesterID.Validate())
	}
	if err := errors.Join(errList...); err != nil {
		return ListJobsQuery{}, err
	}

	return ListJobsQuery{
		filter: ports.JobFilter{
			Status:      status,
			CollectorID: collectorID,
			RequesterID: requesterID,
		},
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (q ListJobsQuery) Validate() error {
	return q.guard.Validate(ErrListJobsQueryIsNotConstructed)
}

func (q ListJobsQuery) Filter() ports.JobFilter {
	return q.filter
}
