package commands

import (
	"errors"

	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/pkg/guard"
)

var ErrReportCollectorLocationCommandIsNotConstructed = errors.New(
	"ReportCollectorLocationCommand must be created via NewReportCollectorLocationCommand constructor",
)

type ReportCollectorLocationCommand struct {
	collectorID kernel.UUID
	location    kernel.Location

	guard guard.ConstructorGuard
}

func NewReportCollectorLocationCommand(collectorID kernel.UUID, location kernel.Location) (ReportCollectorLocationCommand, error) {
	if err := errors.Join(collectorID.Validate(), location.Validate()); err != nil {
		return ReportCollectorLocationCommand{}, err
	}

	return ReportCollectorLocationCommand{
		collectorID: collectorID,
		location:    location,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c ReportCollectorLocationCommand) Validate() error {
	return c.guard.Validate(ErrReportCollectorLocationCommandIsNotConstructed)
}

func (c ReportCollectorLocationCommand) CollectorID() kernel.UUID {
	return c.collectorID
}

func (c ReportCollectorLocationCommand) Location() kernel.Location {
	return c.location
}
