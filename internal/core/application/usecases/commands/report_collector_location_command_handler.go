package commands

import (
	"context"

	"pickup/internal/core/domain/model/kernel"
)

// ReportCollectorLocationCommandHandler records a collector's latest position. Reports are
// not ordered: the last one written wins.
type ReportCollectorLocationCommandHandler struct {
	uowFactory CollectorUoWFactory
	clock      kernel.Clock
}

func NewReportCollectorLocationCommandHandler(
	uowFactory CollectorUoWFactory,
	clock kernel.Clock,
) ReportCollectorLocationCommandHandler {
	return ReportCollectorLocationCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

func (h ReportCollectorLocationCommandHandler) Handle(ctx context.Context, cmd ReportCollectorLocationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	collectorRepo := uow.CollectorRepository()

	aggregate, err := collectorRepo.Get(ctx, cmd.CollectorID())
	if err != nil {
		return err
	}

	if err = aggregate.ReportLocation(cmd.Location(), h.clock.Now()); err != nil {
		return err
	}

	if err = collectorRepo.UpdateLocation(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
