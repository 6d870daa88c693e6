package commands

import (
	"context"

	"pickup/internal/core/domain/model/job"
	"pickup/internal/core/domain/model/kernel"
)

// AdvanceStatusCommandHandler moves an assigned job to InProgress or Completed.
type AdvanceStatusCommandHandler struct {
	uowFactory JobUoWFactory
	clock      kernel.Clock
}

func NewAdvanceStatusCommandHandler(uowFactory JobUoWFactory, clock kernel.Clock) AdvanceStatusCommandHandler {
	return AdvanceStatusCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

func (h AdvanceStatusCommandHandler) Handle(ctx context.Context, cmd AdvanceStatusCommand) (*job.Job, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	jobRepo := uow.JobRepository()

	pickup, err := jobRepo.Get(ctx, cmd.JobID())
	if err != nil {
		return nil, err
	}

	transition, err := pickup.Advance(cmd.CollectorID(), cmd.TargetStatus(), h.clock.Now())
	if err != nil {
		return nil, err
	}

	if err = jobRepo.TransitionIfCurrent(ctx, pickup, transition); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return pickup, nil
}
