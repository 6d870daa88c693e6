package commands

import (
	"errors"
	"fmt"

	"pickup/internal/core/domain/model/job"
	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/pkg/errs"
	"pickup/internal/pkg/guard"
)

var ErrAdvanceStatusCommandIsNotConstructed = errors.New(
	"AdvanceStatusCommand must be created via NewAdvanceStatusCommand constructor",
)

// AdvanceStatusCommand is the assigned collector starting or finishing a job.
type AdvanceStatusCommand struct { //nolint:recvcheck //using for validation
	jobID        kernel.UUID
	collectorID  kernel.UUID
	targetStatus job.Status

	guard guard.ConstructorGuard
}

func NewAdvanceStatusCommand(jobID, collectorID kernel.UUID, targetStatus job.Status) (AdvanceStatusCommand, error) {
	cmd := AdvanceStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		jobID.Validate(),
		collectorID.Validate(),
		cmd.setTargetStatus(targetStatus),
	); err != nil {
		return AdvanceStatusCommand{}, err
	}

	cmd.jobID = jobID
	cmd.collectorID = collectorID
	return cmd, nil
}

func (c AdvanceStatusCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceStatusCommandIsNotConstructed)
}

func (c AdvanceStatusCommand) JobID() kernel.UUID {
	return c.jobID
}

func (c AdvanceStatusCommand) CollectorID() kernel.UUID {
	return c.collectorID
}

func (c AdvanceStatusCommand) TargetStatus() job.Status {
	return c.targetStatus
}

func (c *AdvanceStatusCommand) setTargetStatus(status job.Status) error {
	if status != job.InProgress && status != job.Completed {
		return errs.NewValueIsInvalidErrorWithCause(
			"targetStatus",
			fmt.Errorf("%s is not InProgress or Completed", status.String()),
		)
	}
	c.targetStatus = status
	return nil
}
