// Package queries contains the read side: job lists, collector views, the
// collector work list and the live dispatch board. Queries never change state
// and read through the same repository ports the commands write through.
package queries

import (
	"context"

	"pickup/internal/core/domain/model/collector"
	"pickup/internal/core/domain/model/job"
	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/core/ports"
)

// JobReader is the read half of ports.JobRepository.
type JobReader interface {
	Get(ctx context.Context, id kernel.UUID) (*job.Job, error)
	List(ctx context.Context, filter ports.JobFilter) ([]*job.Job, error)
	CountByStatus(ctx context.Context) (map[job.Status]int64, error)
}

// CollectorReader is the read half of ports.CollectorRepository.
type CollectorReader interface {
	Get(ctx context.Context, id kernel.UUID) (*collector.Collector, error)
	ListByOrganization(ctx context.Context, organizationID *kernel.UUID) ([]*collector.Collector, error)
}
