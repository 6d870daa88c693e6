package commands

import (
	"context"
	"errors"

	"pickup/internal/core/domain/model/job"
	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/core/ports"
	"pickup/internal/pkg/errs"
)

// ErrCollectorHasActiveJob is the cause reported when the single-active-job policy blocks an assignment.
var ErrCollectorHasActiveJob = errors.New("collector already holds an active job")

// AcceptJobCommandHandler performs the guarded Pending -> Accepted transition for a collector.
//
// Errors:
//   - errs.ErrObjectNotFound: unknown job or collector
//   - errs.ErrInvalidState: the job is not Pending, or the collector is busy under SingleActiveJob
//   - errs.ErrConflict: another caller changed the job between read and write
type AcceptJobCommandHandler struct {
	uowFactory UoWFactory
	clock      kernel.Clock
	policy     LifecyclePolicy
}

func NewAcceptJobCommandHandler(uowFactory UoWFactory, clock kernel.Clock, policy LifecyclePolicy) AcceptJobCommandHandler {
	return AcceptJobCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		policy:     policy,
	}
}

func (h AcceptJobCommandHandler) Handle(ctx context.Context, cmd AcceptJobCommand) (*job.Job, error) {
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

	if _, err := uow.CollectorRepository().Get(ctx, cmd.CollectorID()); err != nil {
		return nil, err
	}

	pickup, err := jobRepo.Get(ctx, cmd.JobID())
	if err != nil {
		return nil, err
	}

	if err = pickup.ValidateAccept(); err != nil {
		return nil, err
	}

	if err = ensureCollectorIsFree(ctx, jobRepo, h.policy, cmd.CollectorID()); err != nil {
		return nil, err
	}

	transition, err := pickup.Accept(cmd.CollectorID(), h.clock.Now())
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

func ensureCollectorIsFree(
	ctx context.Context,
	jobRepo ports.JobRepository,
	policy LifecyclePolicy,
	collectorID kernel.UUID,
) error {
	if !policy.SingleActiveJob {
		return nil
	}

	active, err := jobRepo.CountActiveByCollector(ctx, collectorID)
	if err != nil {
		return err
	}
	if active > 0 {
		return errs.NewInvalidStateErrorWithCause("collector", ErrCollectorHasActiveJob)
	}
	return nil
}
