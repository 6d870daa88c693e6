package commands

import (
	"context"

	"pickup/internal/core/domain/model/job"
	"pickup/internal/core/domain/model/kernel"
)

// CancelJobCommandHandler cancels a job on behalf of its requester, an operator,
// or (when aborts are enabled) its assigned collector.
type CancelJobCommandHandler struct {
	uowFactory JobUoWFactory
	clock      kernel.Clock
	policy     LifecyclePolicy
}

func NewCancelJobCommandHandler(uowFactory JobUoWFactory, clock kernel.Clock, policy LifecyclePolicy) CancelJobCommandHandler {
	return CancelJobCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		policy:     policy,
	}
}

func (h CancelJobCommandHandler) Handle(ctx context.Context, cmd CancelJobCommand) (*job.Job, error) {
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

	allowInProgress, err := h.authorize(pickup, cmd.RequestedBy())
	if err != nil {
		return nil, err
	}

	transition, err := pickup.Cancel(allowInProgress, h.clock.Now())
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

// authorize reports whether caller may cancel pickup and, if so, whether an
// InProgress job is within reach.
func (h CancelJobCommandHandler) authorize(pickup *job.Job, caller kernel.Caller) (bool, error) {
	switch caller.Role {
	case kernel.RoleRequester:
		if !pickup.RequesterID().IsEqual(caller.ID) {
			return false, ErrCallerIsNotAllowed
		}
		return false, nil
	case kernel.RoleOperator:
		return h.policy.AllowCollectorAbort, nil
	case kernel.RoleCollector:
		if !h.policy.AllowCollectorAbort || !pickup.IsAssignedTo(caller.ID) {
			return false, ErrCallerIsNotAllowed
		}
		return true, nil
	default:
		return false, ErrCallerIsNotAllowed
	}
}
