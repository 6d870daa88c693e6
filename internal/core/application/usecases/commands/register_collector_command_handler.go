package commands

import (
	"context"

	"pickup/internal/core/domain/model/collector"
	"pickup/internal/core/domain/model/kernel"
)

// RegisterCollectorCommandHandler adds a collector with no known position.
type RegisterCollectorCommandHandler struct {
	uowFactory CollectorUoWFactory
	ids        kernel.IDGenerator
}

func NewRegisterCollectorCommandHandler(uowFactory CollectorUoWFactory, ids kernel.IDGenerator) RegisterCollectorCommandHandler {
	return RegisterCollectorCommandHandler{
		uowFactory: uowFactory,
		ids:        ids,
	}
}

func (h RegisterCollectorCommandHandler) Handle(ctx context.Context, cmd RegisterCollectorCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	aggregate, err := collector.NewCollector(h.ids.NewID(), cmd.OrganizationID(), cmd.FullName(), cmd.Phone())
	if err != nil {
		return kernel.UUID{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.CollectorRepository().Add(ctx, aggregate); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	return aggregate.ID(), nil
}
