package commands

import (
	"errors"

	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/pkg/guard"
)

var ErrAcceptJobCommandIsNotConstructed = errors.New(
	"AcceptJobCommand must be created via NewAcceptJobCommand constructor",
)

// AcceptJobCommand is a collector taking a Pending job for themselves.
type AcceptJobCommand struct {
	jobID       kernel.UUID
	collectorID kernel.UUID

	guard guard.ConstructorGuard
}

func NewAcceptJobCommand(jobID, collectorID kernel.UUID) (AcceptJobCommand, error) {
	if err := errors.Join(jobID.Validate(), collectorID.Validate()); err != nil {
		return AcceptJobCommand{}, err
	}

	return AcceptJobCommand{
		jobID:       jobID,
		collectorID: collectorID,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c AcceptJobCommand) Validate() error {
	return c.guard.Validate(ErrAcceptJobCommandIsNotConstructed)
}

func (c AcceptJobCommand) JobID() kernel.UUID {
	return c.jobID
}

func (c AcceptJobCommand) CollectorID() kernel.UUID {
	return c.collectorID
}
