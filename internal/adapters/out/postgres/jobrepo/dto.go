// Package jobrepo persists pickup jobs with GORM. Status changes are written only
// through a conditional UPDATE keyed on the expected status and version.
package jobrepo

import (
	"time"

	"pickup/internal/core/domain/model/job"
	"pickup/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// JobDTO is the pickup_jobs row.
type JobDTO struct {
	ID            uuid.UUID   `gorm:"type:uuid;primaryKey"`
	RequesterID   uuid.UUID   `gorm:"type:uuid;not null;index"`
	CollectorID   *uuid.UUID  `gorm:"type:uuid;index"`
	Category      string      `gorm:"size:64;not null"`
	Quantity      float64     `gorm:"not null"`
	ScheduledTime time.Time   `gorm:"not null"`
	Note          string      `gorm:"type:text"`
	Location      LocationDTO `gorm:"embedded;embeddedPrefix:location_"`
	Status        int         `gorm:"not null;index"`
	Version       int64       `gorm:"not null"`
	CreatedAt     time.Time   `gorm:"not null;index;autoCreateTime:false"`
	UpdatedAt     time.Time   `gorm:"not null;autoUpdateTime:false"`
}

func (JobDTO) TableName() string {
	return "pickup_jobs"
}

// LocationDTO is the pickup point, embedded as location_latitude/location_longitude.
type LocationDTO struct {
	Latitude  float64 `gorm:"type:double precision;not null"`
	Longitude float64 `gorm:"type:double precision;not null"`
}

func fromDomain(aggregate *job.Job) JobDTO {
	var collectorID *uuid.UUID
	if id := aggregate.Collector(); id != nil {
		raw := id.Bytes()
		collectorID = &raw
	}

	return JobDTO{
		ID:            aggregate.ID().Bytes(),
		RequesterID:   aggregate.RequesterID().Bytes(),
		CollectorID:   collectorID,
		Category:      aggregate.Category(),
		Quantity:      aggregate.Quantity(),
		ScheduledTime: aggregate.ScheduledTime(),
		Note:          aggregate.Note(),
		Location: LocationDTO{
			Latitude:  aggregate.Location().Latitude(),
			Longitude: aggregate.Location().Longitude(),
		},
		Status:    int(aggregate.Status()),
		Version:   aggregate.Version(),
		CreatedAt: aggregate.CreatedAt(),
		UpdatedAt: aggregate.UpdatedAt(),
	}
}

func toDomain(dto JobDTO) (*job.Job, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	requesterID, err := kernel.UUIDFromBytes(dto.RequesterID[:])
	if err != nil {
		return nil, err
	}

	var collectorID *kernel.UUID
	if dto.CollectorID != nil {
		cID, collectorErr := kernel.UUIDFromBytes((*dto.CollectorID)[:])
		if collectorErr != nil {
			return nil, collectorErr
		}
		collectorID = &cID
	}

	loc, err := kernel.NewLocation(dto.Location.Latitude, dto.Location.Longitude)
	if err != nil {
		return nil, err
	}

	return job.RestoreJob(
		id,
		requesterID,
		job.Details{
			Category:      dto.Category,
			Quantity:      dto.Quantity,
			ScheduledTime: dto.ScheduledTime.UTC(),
			Note:          dto.Note,
		},
		loc,
		job.Status(dto.Status),
		collectorID,
		dto.CreatedAt.UTC(),
		dto.UpdatedAt.UTC(),
		dto.Version,
	)
}

func toDomainList(dtos []JobDTO) ([]*job.Job, error) {
	jobs := make([]*job.Job, 0, len(dtos))
	for _, dto := range dtos {
		j, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}
