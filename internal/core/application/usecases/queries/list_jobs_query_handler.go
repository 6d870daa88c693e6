package queries

import (
	"context"
)

type ListJobsQueryHandler struct {
	jobs JobReader
}

func NewListJobsQueryHandler(jobs JobReader) ListJobsQueryHandler {
	return ListJobsQueryHandler{jobs: jobs}
}

func (h ListJobsQueryHandler) Handle(ctx context.Context, query ListJobsQuery) ([]JobView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	jobs, err := h.jobs.List(ctx, query.Filter())
	if err != nil {
		return nil, err
	}

	return newJobViews(jobs), nil
}
