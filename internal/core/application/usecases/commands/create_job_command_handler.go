package commands

import (
	"context"

	"pickup/internal/core/domain/model/job"
	"pickup/internal/core/domain/model/kernel"
)

// CreateJobCommandHandler stores a new Pending job.
type CreateJobCommandHandler struct {
	uowFactory JobUoWFactory
	clock      kernel.Clock
	ids        kernel.IDGenerator
}

func NewCreateJobCommandHandler(
	uowFactory JobUoWFactory,
	clock kernel.Clock,
	ids kernel.IDGenerator,
) CreateJobCommandHandler {
	return CreateJobCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		ids:        ids,
	}
}

// Handle returns the id of the created job.
func (h CreateJobCommandHandler) Handle(ctx context.Context, cmd CreateJobCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	created, err := job.NewJob(h.ids.NewID(), cmd.RequesterID(), cmd.Details(), cmd.Location(), h.clock.Now())
	if err != nil {
		return kernel.UUID{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.JobRepository().Add(ctx, created); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	return created.ID(), nil
}
