package commands

import (
	"errors"
	"time"

	"pickup/internal/core/domain/model/job"
	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/pkg/errs"
	"pickup/internal/pkg/guard"
)

var ErrCreateJobCommandIsNotConstructed = errors.New(
	"CreateJobCommand must be created via NewCreateJobCommand constructor",
)

// CreateJobCommand is a requester's new pickup request.
//
// Example:
//
//	location, _ := kernel.NewLocation(41.0082, 28.9784)
//	cmd, err := NewCreateJobCommand(requesterID, "metal", 25, tomorrow, location, "")
//	if err != nil {
//	    return err
//	}
//	jobID, err := handler.Handle(ctx, cmd)
type CreateJobCommand struct { //nolint:recvcheck //using for validation
	requesterID   kernel.UUID
	category      string
	quantity      float64
	scheduledTime time.Time
	location      kernel.Location
	note          string

	guard guard.ConstructorGuard
}

// NewCreateJobCommand checks the request shape; the job aggregate re-checks its own rules.
func NewCreateJobCommand(
	requesterID kernel.UUID,
	category string,
	quantity float64,
	scheduledTime time.Time,
	location kernel.Location,
	note string,
) (CreateJobCommand, error) {
	cmd := CreateJobCommand{
		category:      category,
		scheduledTime: scheduledTime,
		note:          note,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setRequesterID(requesterID),
		cmd.setQuantity(quantity),
		cmd.setLocation(location),
	); err != nil {
		return CreateJobCommand{}, err
	}

	return cmd, nil
}

func (c CreateJobCommand) Validate() error {
	return c.guard.Validate(ErrCreateJobCommandIsNotConstructed)
}

func (c CreateJobCommand) RequesterID() kernel.UUID {
	return c.requesterID
}

func (c CreateJobCommand) Location() kernel.Location {
	return c.location
}

func (c CreateJobCommand) Details() job.Details {
	return job.Details{
		Category:      c.category,
		Quantity:      c.quantity,
		ScheduledTime: c.scheduledTime,
		Note:          c.note,
	}
}

func (c *CreateJobCommand) setRequesterID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("requesterId", err)
	}
	c.requesterID = id
	return nil
}

func (c *CreateJobCommand) setQuantity(quantity float64) error {
	if !(quantity > 0) {
		return errs.NewValueIsInvalidError("quantity must be greater than 0")
	}
	c.quantity = quantity
	return nil
}

func (c *CreateJobCommand) setLocation(location kernel.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}
	c.location = location
	return nil
}
