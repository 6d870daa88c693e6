package queries

import (
	"context"
	"errors"

	"pickup/internal/core/domain/model/job"
	"pickup/internal/core/ports"
	"pickup/internal/pkg/guard"
)

var ErrGetDispatchBoardQueryIsNotConstructed = errors.New(
	"GetDispatchBoardQuery must be created via NewGetDispatchBoardQuery constructor",
)

// GetDispatchBoardQuery is the operator's live view: where every collector was
// last seen and which jobs still wait for one.
type GetDispatchBoardQuery struct {
	guard guard.ConstructorGuard
}

func NewGetDispatchBoardQuery() GetDispatchBoardQuery {
	return GetDispatchBoardQuery{guard: guard.NewConstructorGuard()}
}

func (q GetDispatchBoardQuery) Validate() error {
	return q.guard.Validate(ErrGetDispatchBoardQueryIsNotConstructed)
}

type DispatchBoard struct {
	Collectors  []CollectorView
	PendingJobs []JobView
}

type GetDispatchBoardQueryHandler struct {
	jobs       JobReader
	collectors CollectorReader
}

func NewGetDispatchBoardQueryHandler(jobs JobReader, collectors CollectorReader) GetDispatchBoardQueryHandler {
	return GetDispatchBoardQueryHandler{jobs: jobs, collectors: collectors}
}

func (h GetDispatchBoardQueryHandler) Handle(ctx context.Context, query GetDispatchBoardQuery) (DispatchBoard, error) {
	if err := query.Validate(); err != nil {
		return DispatchBoard{}, err
	}

	collectors, err := h.collectors.ListByOrganization(ctx, nil)
	if err != nil {
		return DispatchBoard{}, err
	}

	pending := job.Pending
	jobs, err := h.jobs.List(ctx, ports.JobFilter{Status: &pending})
	if err != nil {
		return DispatchBoard{}, err
	}

	return DispatchBoard{
		Collectors:  newCollectorViews(collectors),
		PendingJobs: newJobViews(jobs),
	}, nil
}
