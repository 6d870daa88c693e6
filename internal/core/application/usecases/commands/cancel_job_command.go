package commands

import (
	"errors"

	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/pkg/guard"
)

var ErrCancelJobCommandIsNotConstructed = errors.New(
	"CancelJobCommand must be created via NewCancelJobCommand constructor",
)

// CancelJobCommand is a cancellation requested by requestedBy. Whether the caller
// may cancel is decided by the handler against the loaded job.
type CancelJobCommand struct {
	jobID       kernel.UUID
	requestedBy kernel.Caller

	guard guard.ConstructorGuard
}

func NewCancelJobCommand(jobID kernel.UUID, requestedBy kernel.Caller) (CancelJobCommand, error) {
	if err := errors.Join(jobID.Validate(), requestedBy.Validate()); err != nil {
		return CancelJobCommand{}, err
	}

	return CancelJobCommand{
		jobID:       jobID,
		requestedBy: requestedBy,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c CancelJobCommand) Validate() error {
	return c.guard.Validate(ErrCancelJobCommandIsNotConstructed)
}

func (c CancelJobCommand) JobID() kernel.UUID {
	return c.jobID
}

func (c CancelJobCommand) RequestedBy() kernel.Caller {
	return c.requestedBy
}
