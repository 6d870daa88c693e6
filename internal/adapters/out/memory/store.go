// Package memory is an in-process implementation of the storage ports. It backs
// STORAGE_DRIVER=memory and the concurrency tests. Aggregates are copied in and
// out, so callers never share state with the store.
package memory

import (
	"sync"
	"time"

	"pickup/internal/core/domain/model/collector"
	"pickup/internal/core/domain/model/job"
	"pickup/internal/core/domain/model/kernel"
)

// Store holds every job and collector. One mutex guards both maps.
type Store struct {
	mu         sync.RWMutex
	jobs       map[kernel.UUID]jobRecord
	collectors map[kernel.UUID]collectorRecord
}

func NewStore() *Store {
	return &Store{
		jobs:       make(map[kernel.UUID]jobRecord),
		collectors: make(map[kernel.UUID]collectorRecord),
	}
}

type jobRecord struct {
	id          kernel.UUID
	requesterID kernel.UUID
	details     job.Details
	location    kernel.Location
	status      job.Status
	collectorID *kernel.UUID
	createdAt   time.Time
	updatedAt   time.Time
	version     int64
}

func jobFromDomain(j *job.Job) jobRecord {
	return jobRecord{
		id:          j.ID(),
		requesterID: j.RequesterID(),
		details:     j.Details(),
		location:    j.Location(),
		status:      j.Status(),
		collectorID: j.Collector(),
		createdAt:   j.CreatedAt(),
		updatedAt:   j.UpdatedAt(),
		version:     j.Version(),
	}
}

func (r jobRecord) toDomain() (*job.Job, error) {
	return job.RestoreJob(
		r.id,
		r.requesterID,
		r.details,
		r.location,
		r.status,
		r.collectorID,
		r.createdAt,
		r.updatedAt,
		r.version,
	)
}

type collectorRecord struct {
	id             kernel.UUID
	organizationID kernel.UUID
	fullName       string
	phone          string
	location       *kernel.Location
	lastSeenAt     *time.Time
}

func collectorFromDomain(c *collector.Collector) collectorRecord {
	return collectorRecord{
		id:             c.ID(),
		organizationID: c.OrganizationID(),
		fullName:       c.FullName(),
		phone:          c.Phone(),
		location:       c.Location(),
		lastSeenAt:     c.LastSeenAt(),
	}
}

func (r collectorRecord) toDomain() (*collector.Collector, error) {
	return collector.RestoreCollector(r.id, r.organizationID, r.fullName, r.phone, r.location, r.lastSeenAt)
}
