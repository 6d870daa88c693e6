package ports

import (
	"context"

	"pickup/internal/core/domain/model/collector"
	"pickup/internal/core/domain/model/kernel"
)

// CollectorRepository defines the persistence contract for collectors.
type CollectorRepository interface {
	// Add persists a newly registered collector.
	Add(ctx context.Context, aggregate *collector.Collector) error

	// Get returns the collector or an errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*collector.Collector, error)

	// UpdateLocation overwrites the stored location and last-seen time with the
	// aggregate's. Concurrent reports for one collector resolve as last write wins.
	UpdateLocation(ctx context.Context, aggregate *collector.Collector) error

	// ListByOrganization returns the collectors of organizationID, or all collectors
	// when it is nil, ordered by id.
	ListByOrganization(ctx context.Context, organizationID *kernel.UUID) ([]*collector.Collector, error)
}
