package memory

import (
	"context"
	"fmt"
	"sort"

	"pickup/internal/core/domain/model/collector"
	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/core/ports"
	"pickup/internal/pkg/errs"
)

var _ ports.CollectorRepository = (*CollectorRepository)(nil)

type CollectorRepository struct {
	store *Store
}

func NewCollectorRepository(store *Store) *CollectorRepository {
	return &CollectorRepository{store: store}
}

func (r *CollectorRepository) Add(ctx context.Context, aggregate *collector.Collector) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := aggregate.Validate(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.collectors[aggregate.ID()]; exists {
		return errs.NewValueIsInvalidErrorWithCause(
			"collectorId", fmt.Errorf("collector %s already exists", aggregate.ID()))
	}
	r.store.collectors[aggregate.ID()] = collectorFromDomain(aggregate)
	return nil
}

func (r *CollectorRepository) Get(ctx context.Context, id kernel.UUID) (*collector.Collector, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := id.Validate(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	rec, ok := r.store.collectors[id]
	r.store.mu.RUnlock()

	if !ok {
		return nil, errs.NewObjectNotFoundError("collector", id.String())
	}
	return rec.toDomain()
}

func (r *CollectorRepository) UpdateLocation(ctx context.Context, aggregate *collector.Collector) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := aggregate.Validate(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec, ok := r.store.collectors[aggregate.ID()]
	if !ok {
		return errs.NewObjectNotFoundError("collector", aggregate.ID().String())
	}
	rec.location = aggregate.Location()
	rec.lastSeenAt = aggregate.LastSeenAt()
	r.store.collectors[aggregate.ID()] = rec
	return nil
}

func (r *CollectorRepository) ListByOrganization(
	ctx context.Context,
	organizationID *kernel.UUID,
) ([]*collector.Collector, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	records := make([]collectorRecord, 0, len(r.store.collectors))
	for _, rec := range r.store.collectors {
		if organizationID == nil || rec.organizationID.IsEqual(*organizationID) {
			records = append(records, rec)
		}
	}
	r.store.mu.RUnlock()

	sort.Slice(records, func(i, k int) bool {
		return records[i].id.Compare(records[k].id) < 0
	})

	collectors := make([]*collector.Collector, 0, len(records))
	for _, rec := range records {
		c, err := rec.toDomain()
		if err != nil {
			return nil, err
		}
		collectors = append(collectors, c)
	}
	return collectors, nil
}
