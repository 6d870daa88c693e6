package commands

import (
	"context"

	"pickup/internal/core/domain/model/collector"
	"pickup/internal/core/domain/model/job"
	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/core/domain/services"
	"pickup/internal/core/ports"
)

// DispatchNearestResult is the outcome of a successful dispatch.
// DistanceKm is nil for a blind assignment made when no collector had a usable position.
type DispatchNearestResult struct {
	Job         *job.Job
	CollectorID kernel.UUID
	DistanceKm  *float64
}

// DispatchNearestCommandHandler runs the JobDispatcher against the current collector
// set and persists its choice through the guarded transition. It never retries:
// a lost race surfaces as errs.ErrConflict.
type DispatchNearestCommandHandler struct {
	uowFactory UoWFactory
	dispatcher services.JobDispatcher
	clock      kernel.Clock
	policy     LifecyclePolicy
}

func NewDispatchNearestCommandHandler(
	uowFactory UoWFactory,
	dispatcher services.JobDispatcher,
	clock kernel.Clock,
	policy LifecyclePolicy,
) DispatchNearestCommandHandler {
	return DispatchNearestCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
		clock:      clock,
		policy:     policy,
	}
}

func (h DispatchNearestCommandHandler) Handle(
	ctx context.Context,
	cmd DispatchNearestCommand,
) (DispatchNearestResult, error) {
	if err := cmd.Validate(); err != nil {
		return DispatchNearestResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return DispatchNearestResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	jobRepo := uow.JobRepository()

	pickup, err := jobRepo.Get(ctx, cmd.JobID())
	if err != nil {
		return DispatchNearestResult{}, err
	}

	if err = pickup.ValidateAccept(); err != nil {
		return DispatchNearestResult{}, err
	}

	collectors, err := uow.CollectorRepository().ListByOrganization(ctx, cmd.OrganizationID())
	if err != nil {
		return DispatchNearestResult{}, err
	}

	collectors, err = h.dropBusy(ctx, jobRepo, collectors)
	if err != nil {
		return DispatchNearestResult{}, err
	}

	now := h.clock.Now()
	candidates := services.CandidatesFrom(collectors, now, h.policy.MaxLocationAge)

	assignment, err := h.dispatcher.Dispatch(pickup, cmd.Origin(), cmd.RadiusKm(), candidates, now)
	if err != nil {
		return DispatchNearestResult{}, err
	}

	if err = jobRepo.TransitionIfCurrent(ctx, pickup, assignment.Transition); err != nil {
		return DispatchNearestResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return DispatchNearestResult{}, err
	}

	return DispatchNearestResult{
		Job:         pickup,
		CollectorID: assignment.CollectorID,
		DistanceKm:  assignment.DistanceKm,
	}, nil
}

func (h DispatchNearestCommandHandler) dropBusy(
	ctx context.Context,
	jobRepo ports.JobRepository,
	collectors []*collector.Collector,
) ([]*collector.Collector, error) {
	if !h.policy.SingleActiveJob {
		return collectors, nil
	}

	free := make([]*collector.Collector, 0, len(collectors))
	for _, c := range collectors {
		active, err := jobRepo.CountActiveByCollector(ctx, c.ID())
		if err != nil {
			return nil, err
		}
		if active == 0 {
			free = append(free, c)
		}
	}
	return free, nil
}
