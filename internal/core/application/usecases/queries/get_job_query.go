package queries

import (
	"context"
	"errors"

	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/pkg/guard"
)

var ErrGetJobQueryIsNotConstructed = errors.New(
	"GetJobQuery must be created via NewGetJobQuery constructor",
)

type GetJobQuery struct {
	jobID kernel.UUID
	guard guard.ConstructorGuard
}

func NewGetJobQuery(jobID kernel.UUID) (GetJobQuery, error) {
	if err := jobID.Validate(); err != nil {
		return GetJobQuery{}, err
	}
	return GetJobQuery{jobID: jobID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetJobQuery) Validate() error {
	return q.guard.Validate(ErrGetJobQueryIsNotConstructed)
}

func (q GetJobQuery) JobID() kernel.UUID {
	return q.jobID
}

type GetJobQueryHandler struct {
	jobs JobReader
}

func NewGetJobQueryHandler(jobs JobReader) GetJobQueryHandler {
	return GetJobQueryHandler{jobs: jobs}
}

// Handle returns errs.ErrObjectNotFound for an unknown job.
func (h GetJobQueryHandler) Handle(ctx context.Context, query GetJobQuery) (JobView, error) {
	if err := query.Validate(); err != nil {
		return JobView{}, err
	}

	j, err := h.jobs.Get(ctx, query.JobID())
	if err != nil {
		return JobView{}, err
	}

	return NewJobView(j), nil
}
