package commands

import (
	"errors"
	"fmt"
	"math"

	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/pkg/errs"
	"pickup/internal/pkg/guard"
)

var ErrDispatchNearestCommandIsNotConstructed = errors.New(
	"DispatchNearestCommand must be created via NewDispatchNearestCommand constructor",
)

// DispatchNearestCommand asks the dispatcher to assign a Pending job to the closest
// collector around origin, optionally restricted to one organization.
//
// Example:
//
//	origin, _ := kernel.NewLocation(41.0082, 28.9784)
//	cmd, err := NewDispatchNearestCommand(jobID, origin, 10, nil)
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, services.ErrCollectorOutOfRange):
//	    // nobody close enough, job still Pending
//	case errors.Is(err, errs.ErrConflict):
//	    // someone else took the job first
//	case err == nil && result.DistanceKm == nil:
//	    // blind assignment, flag for review
//	}
type DispatchNearestCommand struct { //nolint:recvcheck //using for validation
	jobID          kernel.UUID
	origin         kernel.Location
	radiusKm       float64
	organizationID *kernel.UUID

	guard guard.ConstructorGuard
}

func NewDispatchNearestCommand(
	jobID kernel.UUID,
	origin kernel.Location,
	radiusKm float64,
	organizationID *kernel.UUID,
) (DispatchNearestCommand, error) {
	cmd := DispatchNearestCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setJobID(jobID),
		cmd.setOrigin(origin),
		cmd.setRadiusKm(radiusKm),
		cmd.setOrganizationID(organizationID),
	); err != nil {
		return DispatchNearestCommand{}, err
	}

	return cmd, nil
}

func (c DispatchNearestCommand) Validate() error {
	return c.guard.Validate(ErrDispatchNearestCommandIsNotConstructed)
}

func (c DispatchNearestCommand) JobID() kernel.UUID {
	return c.jobID
}

func (c DispatchNearestCommand) Origin() kernel.Location {
	return c.origin
}

func (c DispatchNearestCommand) RadiusKm() float64 {
	return c.radiusKm
}

// OrganizationID is nil when every collector is eligible.
func (c DispatchNearestCommand) OrganizationID() *kernel.UUID {
	return c.organizationID
}

func (c *DispatchNearestCommand) setJobID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.jobID = id
	return nil
}

func (c *DispatchNearestCommand) setOrigin(origin kernel.Location) error {
	if err := origin.Validate(); err != nil {
		return err
	}
	c.origin = origin
	return nil
}

func (c *DispatchNearestCommand) setRadiusKm(radiusKm float64) error {
	if math.IsNaN(radiusKm) || math.IsInf(radiusKm, 0) || radiusKm <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("radiusKm", fmt.Errorf("%v is not a positive distance", radiusKm))
	}
	c.radiusKm = radiusKm
	return nil
}

func (c *DispatchNearestCommand) setOrganizationID(id *kernel.UUID) error {
	if id == nil {
		return nil
	}
	if err := id.Validate(); err != nil {
		return err
	}
	orgID := *id
	c.organizationID = &orgID
	return nil
}
