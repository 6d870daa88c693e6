package queries

import (
	"context"
	"errors"

	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/pkg/guard"
)

var (
	ErrGetCollectorQueryIsNotConstructed = errors.New(
		"GetCollectorQuery must be created via NewGetCollectorQuery constructor",
	)
	ErrListCollectorsQueryIsNotConstructed = errors.New(
		"ListCollectorsQuery must be created via NewListCollectorsQuery constructor",
	)
)

type GetCollectorQuery struct {
	collectorID kernel.UUID
	guard       guard.ConstructorGuard
}

func NewGetCollectorQuery(collectorID kernel.UUID) (GetCollectorQuery, error) {
	if err := collectorID.Validate(); err != nil {
		return GetCollectorQuery{}, err
	}
	return GetCollectorQuery{collectorID: collectorID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetCollectorQuery) Validate() error {
	return q.guard.Validate(ErrGetCollectorQueryIsNotConstructed)
}

type GetCollectorQueryHandler struct {
	collectors CollectorReader
}

func NewGetCollectorQueryHandler(collectors CollectorReader) GetCollectorQueryHandler {
	return GetCollectorQueryHandler{collectors: collectors}
}

func (h GetCollectorQueryHandler) Handle(ctx context.Context, query GetCollectorQuery) (CollectorView, error) {
	if err := query.Validate(); err != nil {
		return CollectorView{}, err
	}

	c, err := h.collectors.Get(ctx, query.collectorID)
	if err != nil {
		return CollectorView{}, err
	}

	return newCollectorView(c), nil
}

// ListCollectorsQuery lists the collectors of one organization, or all of them.
type ListCollectorsQuery struct {
	organizationID *kernel.UUID
	guard          guard.ConstructorGuard
}

func NewListCollectorsQuery(organizationID *kernel.UUID) (ListCollectorsQuery, error) {
	if organizationID != nil {
		if err := organizationID.Validate(); err != nil {
			return ListCollectorsQuery{}, err
		}
	}
	return ListCollectorsQuery{organizationID: organizationID, guard: guard.NewConstructorGuard()}, nil
}

func (q ListCollectorsQuery) Validate() error {
	return q.guard.Validate(ErrListCollectorsQueryIsNotConstructed)
}

type ListCollectorsQueryHandler struct {
	collectors CollectorReader
}

func NewListCollectorsQueryHandler(collectors CollectorReader) ListCollectorsQueryHandler {
	return ListCollectorsQueryHandler{collectors: collectors}
}

// Handle returns the collectors ordered by id.
func (h ListCollectorsQueryHandler) Handle(ctx context.Context, query ListCollectorsQuery) ([]CollectorView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	collectors, err := h.collectors.ListByOrganization(ctx, query.organizationID)
	if err != nil {
		return nil, err
	}

	return newCollectorViews(collectors), nil
}
